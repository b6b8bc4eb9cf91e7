package catalog

import "fmt"

// ExtraCategory is the closed set of non-regular-episode classifications.
type ExtraCategory int

const (
	ExtraFeaturette ExtraCategory = iota
	ExtraTrailer
	ExtraScene
	ExtraShort
	ExtraOther
)

// Reserved sentinel season numbers for extras categories.
const (
	SeasonFeaturettes = -1
	SeasonTrailers    = -2
	SeasonScenes      = -3
	SeasonShorts      = -4
	SeasonExtras      = -5
)

// ExtraInfo carries the static folder/prefix metadata for one extras category.
type ExtraInfo struct {
	Category ExtraCategory
	Season   int
	// FolderName is the per-show subdirectory the category routes to.
	FolderName string
	// NamePrefix is the single-letter file-name prefix; empty categories are
	// routed by folder alone.
	NamePrefix string
	Label      string
}

var extraSeasons = map[int]ExtraInfo{
	SeasonFeaturettes: {Category: ExtraFeaturette, Season: SeasonFeaturettes, FolderName: "Featurettes", NamePrefix: "F", Label: "featurette"},
	SeasonTrailers:    {Category: ExtraTrailer, Season: SeasonTrailers, FolderName: "Trailers", NamePrefix: "T", Label: "trailer"},
	SeasonScenes:      {Category: ExtraScene, Season: SeasonScenes, FolderName: "Scenes", NamePrefix: "P", Label: "scene"},
	SeasonShorts:      {Category: ExtraShort, Season: SeasonShorts, FolderName: "Shorts", NamePrefix: "", Label: "short"},
	SeasonExtras:      {Category: ExtraOther, Season: SeasonExtras, FolderName: "Extras", NamePrefix: "", Label: "other"},
}

// TryExtraSeason resolves a sentinel season number to its extras metadata.
func TryExtraSeason(season int) (ExtraInfo, bool) {
	info, ok := extraSeasons[season]
	return info, ok
}

// IsExtraSeason reports whether season is a reserved extras sentinel.
func IsExtraSeason(season int) bool {
	_, ok := extraSeasons[season]
	return ok
}

// SeasonFolderName returns the VFS subdirectory name for a season bucket:
// the extras folder for sentinel values, "Season NN" otherwise.
func SeasonFolderName(season int) string {
	if info, ok := TryExtraSeason(season); ok {
		return info.FolderName
	}
	return fmt.Sprintf("Season %02d", season)
}
