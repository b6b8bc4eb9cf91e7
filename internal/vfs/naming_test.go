package vfs

import (
	"testing"

	"linklib/internal/catalog"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "clean passthrough", input: "Season 01", want: "Season 01"},
		{name: "illegal characters become spaces", input: `a/b\c:d*e`, want: "a b c d e"},
		{name: "whitespace collapses", input: "a   b\t c", want: "a b c"},
		{name: "trailing dots and spaces trimmed", input: "name.. ", want: "name"},
		{name: "empty input gets placeholder", input: "", want: "unnamed"},
		{name: "only illegal input gets placeholder", input: "???", want: "unnamed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEpisodePad(t *testing.T) {
	tests := []struct {
		name     string
		mappings []catalog.FileMapping
		want     int
	}{
		{name: "empty defaults to two", mappings: nil, want: 2},
		{
			name:     "small episodes pad to two",
			mappings: []catalog.FileMapping{{Coords: catalog.Coordinates{Season: 1, Episode: 7}}},
			want:     2,
		},
		{
			name: "three digit episode widens pad",
			mappings: []catalog.FileMapping{
				{Coords: catalog.Coordinates{Season: 1, Episode: 7}},
				{Coords: catalog.Coordinates{Season: 1, Episode: 120}},
			},
			want: 3,
		},
		{
			name:     "end episode counts toward pad",
			mappings: []catalog.FileMapping{{Coords: catalog.Coordinates{Season: 1, Episode: 99, EndEpisode: 100}}},
			want:     3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EpisodePad(tt.mappings); got != tt.want {
				t.Errorf("EpisodePad() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExtraPad(t *testing.T) {
	if got := ExtraPad(9); got != 1 {
		t.Errorf("ExtraPad(9) = %d, want 1", got)
	}
	if got := ExtraPad(10); got != 2 {
		t.Errorf("ExtraPad(10) = %d, want 2", got)
	}
}

func TestBuildStandardFileName(t *testing.T) {
	tests := []struct {
		name         string
		mapping      catalog.FileMapping
		pad          int
		omitID       bool
		versionIndex int
		want         string
	}{
		{
			name:    "plain episode",
			mapping: catalog.FileMapping{FileID: 101, Coords: catalog.Coordinates{Season: 1, Episode: 7}},
			pad:     2,
			want:    "S01E07 [101].mkv",
		},
		{
			name:    "episode range",
			mapping: catalog.FileMapping{FileID: 102, Coords: catalog.Coordinates{Season: 2, Episode: 3, EndEpisode: 4}},
			pad:     2,
			want:    "S02E03-E04 [102].mkv",
		},
		{
			name:    "wider pad",
			mapping: catalog.FileMapping{FileID: 103, Coords: catalog.Coordinates{Season: 1, Episode: 7}},
			pad:     3,
			want:    "S01E007 [103].mkv",
		},
		{
			name: "multi-part member drops file id",
			mapping: catalog.FileMapping{
				FileID: 104,
				Coords: catalog.Coordinates{Season: 1, Episode: 5},

				PartIndex: 2,
				PartCount: 2,
			},
			pad:    2,
			omitID: true,
			want:   "S01E05-pt2.mkv",
		},
		{
			name:         "alternate version keeps file id",
			mapping:      catalog.FileMapping{FileID: 105, Coords: catalog.Coordinates{Season: 1, Episode: 6}},
			pad:          2,
			versionIndex: 2,
			want:         "S01E06-v2 [105].mkv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildStandardFileName(tt.mapping, tt.pad, ".mkv", tt.omitID, tt.versionIndex)
			if got != tt.want {
				t.Errorf("BuildStandardFileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildExtrasFileName(t *testing.T) {
	trailer, ok := catalog.TryExtraSeason(catalog.SeasonTrailers)
	if !ok {
		t.Fatal("trailer sentinel season not registered")
	}
	featurette, _ := catalog.TryExtraSeason(catalog.SeasonFeaturettes)
	short, _ := catalog.TryExtraSeason(catalog.SeasonShorts)

	tests := []struct {
		name         string
		mapping      catalog.FileMapping
		extra        catalog.ExtraInfo
		pad          int
		fallback     string
		versionIndex int
		want         string
	}{
		{
			name:    "trailer with arrow styling",
			mapping: catalog.FileMapping{Coords: catalog.Coordinates{Season: catalog.SeasonTrailers, Episode: 1}, EpisodeTitle: "Teaser"},
			extra:   trailer,
			pad:     1,
			want:    "T1 → Teaser.mkv",
		},
		{
			name:    "two digit pad",
			mapping: catalog.FileMapping{Coords: catalog.Coordinates{Season: catalog.SeasonFeaturettes, Episode: 3}, EpisodeTitle: "Making Of"},
			extra:   featurette,
			pad:     2,
			want:    "F03 → Making Of.mkv",
		},
		{
			name:     "missing title falls back to show title",
			mapping:  catalog.FileMapping{Coords: catalog.Coordinates{Season: catalog.SeasonTrailers, Episode: 2}},
			extra:    trailer,
			pad:      1,
			fallback: "Show A",
			want:     "T2 → Show A.mkv",
		},
		{
			name:    "no prefix category",
			mapping: catalog.FileMapping{Coords: catalog.Coordinates{Season: catalog.SeasonShorts, Episode: 4}, EpisodeTitle: "Pilot Short"},
			extra:   short,
			pad:     1,
			want:    "4 → Pilot Short.mkv",
		},
		{
			name:    "reserved characters substituted",
			mapping: catalog.FileMapping{Coords: catalog.Coordinates{Season: catalog.SeasonTrailers, Episode: 3}, EpisodeTitle: `Part 1/2: "Why?"`},
			extra:   trailer,
			pad:     1,
			want:    "T3 → Part 1⁄2∶ 'Why？'.mkv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildExtrasFileName(tt.mapping, tt.extra, tt.pad, ".mkv", tt.fallback, tt.versionIndex)
			if got != tt.want {
				t.Errorf("BuildExtrasFileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanExtraTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "typographic quotes fold", input: "It’s “Fine”", want: "It's 'Fine'"},
		{name: "colon becomes ratio glyph", input: "Part 1: Intro", want: "Part 1∶ Intro"},
		{name: "whitespace collapses", input: "  a   b  ", want: "a b"},
		{name: "empty stays empty", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanExtraTitle(tt.input); got != tt.want {
				t.Errorf("CleanExtraTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
