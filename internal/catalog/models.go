package catalog

import "context"

// Show is a logical catalog entry represented as one top-level VFS directory.
type Show struct {
	ID    int64
	Title string
}

// Coordinates places a file within a show. Season holds small positive values
// for regular seasons and reserved negative sentinels for extras categories.
// EndEpisode is set only when one file spans a contiguous episode range.
type Coordinates struct {
	Season     int
	Episode    int
	EndEpisode int
}

// FileLocation is one candidate on-disk location for a source file.
type FileLocation struct {
	AbsolutePath string
	RelativePath string
	// SourceOnly marks the parent managed folder as a drop/staging area;
	// files that exist only there are never link targets.
	SourceOnly bool
}

// FileMapping is one physical source file's placement decision within a show.
type FileMapping struct {
	ShowID  int64
	FileID  int64
	Coords  Coordinates
	// PartIndex/PartCount distinguish ordered parts of one declared episode.
	PartIndex int
	PartCount int
	// EpisodeTitle is the primary title of the episode the file maps to.
	EpisodeTitle string
	// CrossRefCount counts distinct shows this physical file is linked to;
	// values above one mark the file as a crossover.
	CrossRefCount int
	Locations     []FileLocation
}

// IsPart reports whether the mapping is a declared part of a multi-part episode.
func (m FileMapping) IsPart() bool {
	return m.PartCount > 1 && m.PartIndex > 0
}

// IsCrossover reports whether the file is cross-referenced to more than one show.
func (m FileMapping) IsCrossover() bool {
	return m.CrossRefCount > 1
}

// Catalog supplies shows and their file mappings to the build engine.
type Catalog interface {
	Show(ctx context.Context, id int64) (*Show, error)
	AllShows(ctx context.Context) ([]*Show, error)
	FileMappings(ctx context.Context, showID int64) ([]FileMapping, error)
}
