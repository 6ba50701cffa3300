package stage

// youtubeCategoryMap maps YouTube category ids to their human-readable
// descriptions. Ids missing from the map render as "Unknown".
var youtubeCategoryMap = map[int]string{
	1:  "Film & Animation",
	2:  "Autos & Vehicles",
	10: "Music",
	15: "Pets & Animals",
	17: "Sports",
	18: "Short Movies",
	19: "Travel & Events",
	20: "Gaming",
	21: "Videoblogging",
	22: "People & Blogs",
	23: "Comedy",
	24: "Entertainment",
	25: "News & Politics",
	26: "Howto & Style",
	27: "Education",
	28: "Science & Technology",
	29: "Nonprofits & Activism",
	30: "Movies",
	31: "Anime/Animation",
	32: "Action/Adventure",
	33: "Classics",
	34: "Comedy (Movies)",
	35: "Documentary",
	36: "Drama",
	37: "Family",
	38: "Foreign",
	39: "Horror",
	40: "Sci-Fi/Fantasy",
	41: "Thriller",
	42: "Shorts",
	43: "Shows",
	44: "Trailers",
}

const unknownCategory = "Unknown"

// CategoryDescription resolves a category id to its description, falling back
// to "Unknown" for ids outside the table.
func CategoryDescription(categoryID int) string {
	if descr, ok := youtubeCategoryMap[categoryID]; ok {
		return descr
	}
	return unknownCategory
}
