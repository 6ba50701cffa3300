package stage

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aladinbajra/youtube-trending-ai/internal/model"
)

// Normalizer converts raw ODS rows into canonical stage records. Every
// field-level transformation failure is logged and the field keeps its
// default; a malformed value never drops or corrupts the rest of the record.
type Normalizer struct {
	log zerolog.Logger
}

func NewNormalizer(log zerolog.Logger) *Normalizer {
	return &Normalizer{log: log.With().Str("component", "normalizer").Logger()}
}

// NormalizeTrending cleans a batch of raw trending rows. The legacy `id`
// column is aliased to video_id and categories are resolved through the
// static description table.
func (n *Normalizer) NormalizeTrending(rows []RawRecord) []model.TrendingRecord {
	out := make([]model.TrendingRecord, 0, len(rows))
	for i, row := range rows {
		rec := model.TrendingRecord{}

		if v, ok := field(row, "video_id", "id"); ok {
			rec.VideoID = asString(v)
		}

		if v, ok := field(row, "collection_date", "collectionDate"); ok {
			if t := coerceTime(v); t != nil {
				rec.CollectionDate = *t
			} else {
				n.fieldError(i, "collection_date", v)
			}
		}

		if v, ok := field(row, "trending_position", "position"); ok {
			pos, err := coerceInt(v)
			if err != nil {
				n.fieldError(i, "trending_position", v)
			}
			rec.TrendingPosition = pos
		}

		if v, ok := field(row, "publishedAt", "published_at"); ok {
			rec.PublishedAt = coerceTime(v)
			if rec.PublishedAt == nil {
				n.fieldError(i, "publishedAt", v)
			}
		}

		if v, ok := field(row, "title"); ok {
			rec.Title = asString(v)
		}
		if v, ok := field(row, "channelTitle", "channel_title"); ok {
			rec.ChannelTitle = asString(v)
		}

		rec.CategoryID = model.CategoryUnknown
		if v, ok := field(row, "categoryId", "category_id"); ok {
			id, err := coerceInt(v)
			if err != nil {
				n.fieldError(i, "categoryId", v)
			}
			rec.CategoryID = id
		}
		rec.CategoryDescr = CategoryDescription(rec.CategoryID)

		rec.ViewCount = n.count(i, row, "viewCount", "view_count")
		rec.LikeCount = n.count(i, row, "likeCount", "like_count")
		rec.CommentCount = n.count(i, row, "commentCount", "comment_count")

		if v, ok := field(row, "defaultAudioLanguage", "audio_language", "audioLanguage"); ok {
			rec.AudioLanguage = strings.ToUpper(asString(v))
		}
		if v, ok := field(row, "country_code", "countryCode"); ok {
			rec.CountryCode = asString(v)
		}
		if v, ok := field(row, "description"); ok {
			rec.Description = asString(v)
		}
		if v, ok := field(row, "thumbnail_url", "thumbnailUrl"); ok {
			rec.ThumbnailURL = asString(v)
		}
		if v, ok := field(row, "tags"); ok {
			rec.Tags = joinTags(v)
		}

		out = append(out, rec)
	}

	n.log.Info().Int("rows", len(out)).Msg("trending ODS batch normalized")
	return out
}

// NormalizeStats cleans a batch of raw per-day statistics rows, sorts them by
// (video_id, collection_day) and keeps one snapshot per key.
func (n *Normalizer) NormalizeStats(rows []RawRecord) []model.StatSnapshot {
	out := make([]model.StatSnapshot, 0, len(rows))
	for i, row := range rows {
		snap := model.StatSnapshot{}

		if v, ok := field(row, "video_id", "id"); ok {
			snap.VideoID = asString(v)
		}
		if v, ok := field(row, "channel_id", "channelId"); ok {
			snap.ChannelID = asString(v)
		}
		if v, ok := field(row, "title"); ok {
			snap.Title = asString(v)
		}
		if v, ok := field(row, "description"); ok {
			snap.Description = asString(v)
		}

		if v, ok := field(row, "published_at", "publishedAt"); ok {
			snap.PublishedAt = coerceTime(v)
			if snap.PublishedAt == nil {
				n.fieldError(i, "published_at", v)
			}
		}

		if v, ok := field(row, "tags"); ok {
			snap.Tags = joinTags(v)
		}

		snap.ViewCount = n.count(i, row, "view_count", "viewCount")
		snap.LikeCount = n.count(i, row, "like_count", "likeCount")
		snap.CommentCount = n.count(i, row, "comment_count", "commentCount")

		if v, ok := field(row, "duration"); ok {
			snap.Duration = asString(v)
			snap.DurationMinutes = PTToMinutes(snap.Duration)
		}

		snap.Caption = boolField(row, "caption")
		snap.LicensedContent = boolField(row, "licensed_content", "licensedContent")
		snap.Embeddable = boolField(row, "embeddable")
		snap.PublicStatsViewable = boolField(row, "public_stats_viewable", "publicStatsViewable")

		if v, ok := field(row, "privacy_status", "privacyStatus"); ok {
			snap.PrivacyStatus = asString(v)
		}

		if v, ok := field(row, "collection_day", "collectionDay"); ok {
			if t := coerceTime(v); t != nil {
				snap.CollectionDay = *t
			} else {
				n.fieldError(i, "collection_day", v)
			}
		}

		if v, ok := field(row, "country_code", "countryCode"); ok {
			snap.CountryCode = asString(v)
		}

		out = append(out, snap)
	}

	out = dedupeSnapshots(out)
	n.log.Info().Int("rows", len(out)).Msg("video stats ODS batch normalized")
	return out
}

func (n *Normalizer) count(row int, rec RawRecord, names ...string) int64 {
	v, ok := field(rec, names...)
	if !ok {
		return 0
	}
	cnt, err := coerceCount(v)
	if err != nil {
		n.fieldError(row, names[0], v)
	}
	return cnt
}

func boolField(rec RawRecord, names ...string) bool {
	v, ok := field(rec, names...)
	if !ok {
		return false
	}
	return coerceBool(v)
}

func (n *Normalizer) fieldError(row int, name string, value any) {
	n.log.Warn().
		Int("row", row).
		Str("field", name).
		Str("value", asString(value)).
		Msg("field coercion failed, default applied")
}

// dedupeSnapshots sorts snapshots by (video_id, collection_day) and drops all
// but the first row for each key. A video must never carry two snapshots for
// the same day.
func dedupeSnapshots(snaps []model.StatSnapshot) []model.StatSnapshot {
	sort.SliceStable(snaps, func(i, j int) bool {
		if snaps[i].VideoID != snaps[j].VideoID {
			return snaps[i].VideoID < snaps[j].VideoID
		}
		return snaps[i].CollectionDay.Before(snaps[j].CollectionDay)
	})

	out := snaps[:0]
	var lastVideo string
	var lastDay time.Time
	for _, s := range snaps {
		day := s.CollectionDay.Truncate(24 * time.Hour)
		if len(out) > 0 && s.VideoID == lastVideo && day.Equal(lastDay) {
			continue
		}
		out = append(out, s)
		lastVideo, lastDay = s.VideoID, day
	}
	return out
}
