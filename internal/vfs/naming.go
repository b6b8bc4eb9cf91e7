package vfs

import (
	"fmt"
	"strings"

	"linklib/internal/catalog"
)

const emptyNamePlaceholder = "unnamed"

// illegalNameChars are replaced with spaces by SanitizeName.
const illegalNameChars = `/\:*?"<>|`

// SanitizeName makes a string usable as a file or folder name: illegal
// characters become spaces, whitespace runs collapse, trailing dots and
// spaces are trimmed. Applied as the final step to every generated name.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if strings.ContainsRune(illegalNameChars, r) {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}
	cleaned := collapseWhitespace(b.String())
	cleaned = strings.TrimRight(cleaned, ". ")
	if cleaned == "" {
		return emptyNamePlaceholder
	}
	return cleaned
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// EpisodePad returns the episode number width for a show: the digit count of
// the largest episode observed across its mappings, never below two.
func EpisodePad(mappings []catalog.FileMapping) int {
	highest := 0
	for _, m := range mappings {
		if m.Coords.Episode > highest {
			highest = m.Coords.Episode
		}
		if m.Coords.EndEpisode > highest {
			highest = m.Coords.EndEpisode
		}
	}
	pad := len(fmt.Sprintf("%d", highest))
	if pad < 2 {
		pad = 2
	}
	return pad
}

// ExtraPad returns the episode width for one extras category: two digits once
// the category holds more than nine items, one otherwise.
func ExtraPad(categoryCount int) int {
	if categoryCount > 9 {
		return 2
	}
	return 1
}

// BuildStandardFileName composes the destination name for a regular episode
// file: S{season}E{episode}[-E{end}][-pt{n}|-v{n}][ [{fileID}]]{ext}.
//
// The file-ID suffix is omitted for parts of a multi-part episode because the
// target player's part grouping requires siblings to share an identical base
// name apart from the part marker.
func BuildStandardFileName(m catalog.FileMapping, pad int, ext string, omitID bool, versionIndex int) string {
	base := fmt.Sprintf("S%02dE%0*d", m.Coords.Season, pad, m.Coords.Episode)
	if m.Coords.EndEpisode > m.Coords.Episode {
		base += fmt.Sprintf("-E%0*d", pad, m.Coords.EndEpisode)
	}
	switch {
	case m.IsPart():
		base += fmt.Sprintf("-pt%d", m.PartIndex)
	case versionIndex > 0:
		base += fmt.Sprintf("-v%d", versionIndex)
	}
	if !omitID {
		base += fmt.Sprintf(" [%d]", m.FileID)
	}
	return SanitizeName(base) + ext
}

// BuildExtrasFileName composes the destination name for an extras file:
// {prefix}{episode}[-pt{n}|-v{n}] - {cleanedTitle}{ext}, with the first
// literal hyphen of the composed base replaced by an arrow glyph.
func BuildExtrasFileName(m catalog.FileMapping, extra catalog.ExtraInfo, pad int, ext, fallbackTitle string, versionIndex int) string {
	base := extra.NamePrefix + fmt.Sprintf("%0*d", pad, m.Coords.Episode)
	switch {
	case m.IsPart():
		base += fmt.Sprintf("-pt%d", m.PartIndex)
	case versionIndex > 0:
		base += fmt.Sprintf("-v%d", versionIndex)
	}

	title := CleanExtraTitle(m.EpisodeTitle)
	if title == "" {
		title = CleanExtraTitle(fallbackTitle)
	}
	if title == "" {
		title = extra.FolderName
	}

	composed := base + " - " + title
	composed = strings.Replace(composed, "-", "→", 1)
	return SanitizeName(composed) + ext
}

// quoteNormalizer folds typographic quote styles into plain apostrophes.
var quoteNormalizer = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"‚", "'",
	"“", "'",
	"”", "'",
	"„", "'",
	`"`, "'",
)

// glyphSubstituter swaps characters illegal in file names for visually close
// legal glyphs so extras titles stay readable.
var glyphSubstituter = strings.NewReplacer(
	":", "∶", // ratio
	"/", "⁄", // fraction slash
	"\\", "⧵",
	"?", "？",
	"*", "✱",
	"<", "‹",
	">", "›",
	"|", "│",
)

// CleanExtraTitle normalizes quotes, substitutes lookalike glyphs for
// reserved characters, and collapses whitespace. Empty input stays empty so
// callers can fall back.
func CleanExtraTitle(title string) string {
	title = quoteNormalizer.Replace(title)
	title = glyphSubstituter.Replace(title)
	return collapseWhitespace(title)
}
