// Package collector fetches trending-video snapshots from the YouTube Data
// API and lands them as JSON dumps plus rows appended to the trending CSV.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aladinbajra/youtube-trending-ai/internal/store"
)

const (
	videosEndpoint = "https://www.googleapis.com/youtube/v3/videos"
	maxResults     = 50
)

// trendingHeader is the column order for rows appended to the trending CSV.
// Names match what the normalizer expects on read.
var trendingHeader = []string{
	"video_id", "collection_date", "trending_position", "publishedAt",
	"title", "channelTitle", "categoryId", "viewCount", "likeCount",
	"commentCount", "defaultAudioLanguage", "country_code",
	"description", "thumbnail_url", "tags",
}

// Collector pulls the mostPopular chart for a set of countries.
type Collector struct {
	client    *http.Client
	apiKey    string
	countries []string
	dumpDir   string
	log       zerolog.Logger
}

func New(apiKey string, countries []string, dumpDir string, log zerolog.Logger) *Collector {
	if len(countries) == 0 {
		countries = []string{"US"}
	}
	return &Collector{
		client:    &http.Client{Timeout: 30 * time.Second},
		apiKey:    apiKey,
		countries: countries,
		dumpDir:   dumpDir,
		log:       log.With().Str("component", "collector").Logger(),
	}
}

// Summary reports the per-country outcome of a collection run.
type Summary struct {
	Succeeded []string
	Failed    []string
	Videos    int
}

// Run fetches the trending chart for every configured country. A failing
// country is skipped, not fatal; the summary carries both lists.
func (c *Collector) Run(ctx context.Context, st *store.CSVStore) (*Summary, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("collector: API key required (set YOUTUBE_API_KEY)")
	}

	sum := &Summary{}
	for _, country := range c.countries {
		c.log.Info().Str("country", country).Msg("fetching trending chart")

		page, err := c.fetchTrending(ctx, country)
		if err != nil {
			c.log.Warn().Err(err).Str("country", country).Msg("country fetch failed, skipping")
			sum.Failed = append(sum.Failed, country)
			continue
		}

		if err := c.saveDump(page, country); err != nil {
			c.log.Warn().Err(err).Str("country", country).Msg("json dump failed")
		}

		rows := flattenItems(page.Items, country, time.Now().UTC())
		if st != nil {
			if err := st.AppendTrending(trendingHeader, rows); err != nil {
				c.log.Warn().Err(err).Str("country", country).Msg("csv append failed")
				sum.Failed = append(sum.Failed, country)
				continue
			}
		}

		sum.Succeeded = append(sum.Succeeded, country)
		sum.Videos += len(page.Items)
	}

	c.log.Info().
		Int("ok", len(sum.Succeeded)).
		Int("failed", len(sum.Failed)).
		Int("videos", sum.Videos).
		Msg("collection run finished")
	return sum, nil
}

func (c *Collector) fetchTrending(ctx context.Context, country string) (*trendingPage, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("chart", "mostPopular")
	params.Set("regionCode", country)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videosEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create trending request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch trending chart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trending chart status %d for %s", resp.StatusCode, country)
	}

	var page trendingPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode trending chart: %w", err)
	}
	return &page, nil
}

// saveDump writes the raw API page to trending_videos_{COUNTRY}_{YYYYMMDD}.json.
func (c *Collector) saveDump(page *trendingPage, country string) error {
	if c.dumpDir == "" {
		return nil
	}
	if err := os.MkdirAll(c.dumpDir, 0o755); err != nil {
		return fmt.Errorf("create dump dir: %w", err)
	}

	name := fmt.Sprintf("trending_videos_%s_%s.json", country, time.Now().Format("20060102"))
	path := filepath.Join(c.dumpDir, name)

	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dump: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	c.log.Info().Str("path", path).Int("items", len(page.Items)).Msg("raw page saved")
	return nil
}

// flattenItems converts API items to CSV rows in trendingHeader order. The
// chart position is the 1-based index within the page.
func flattenItems(items []trendingItem, country string, collectedAt time.Time) [][]string {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{
			item.ID,
			collectedAt.Format("2006-01-02"),
			strconv.Itoa(i + 1),
			item.Snippet.PublishedAt,
			item.Snippet.Title,
			item.Snippet.ChannelTitle,
			item.Snippet.CategoryID,
			item.Statistics.ViewCount,
			item.Statistics.LikeCount,
			item.Statistics.CommentCount,
			item.Snippet.DefaultAudioLanguage,
			country,
			item.Snippet.Description,
			item.Snippet.Thumbnails.High.URL,
			strings.Join(item.Snippet.Tags, ", "),
		})
	}
	return rows
}

type trendingPage struct {
	Items         []trendingItem `json:"items"`
	NextPageToken string         `json:"nextPageToken,omitempty"`
	PageInfo      struct {
		TotalResults   int `json:"totalResults"`
		ResultsPerPage int `json:"resultsPerPage"`
	} `json:"pageInfo"`
}

type trendingItem struct {
	ID      string `json:"id"`
	Snippet struct {
		PublishedAt          string   `json:"publishedAt"`
		ChannelID            string   `json:"channelId"`
		Title                string   `json:"title"`
		Description          string   `json:"description"`
		ChannelTitle         string   `json:"channelTitle"`
		CategoryID           string   `json:"categoryId"`
		Tags                 []string `json:"tags"`
		DefaultAudioLanguage string   `json:"defaultAudioLanguage"`
		Thumbnails           struct {
			High struct {
				URL string `json:"url"`
			} `json:"high"`
		} `json:"thumbnails"`
	} `json:"snippet"`
	Statistics struct {
		ViewCount    string `json:"viewCount"`
		LikeCount    string `json:"likeCount"`
		CommentCount string `json:"commentCount"`
	} `json:"statistics"`
}
