package docindex

import (
	"regexp"

	"mdtool/pkg/anchor"
	"mdtool/pkg/scan"
)

// FileIndex is the per-file Section Index (spec §4.4): the ordered list of
// sections plus fast anchor and heading-regex lookups.
type FileIndex struct {
	Path     string
	Scan     *scan.FileScan
	Sections []scan.SectionSpan

	byAnchor map[string]int // anchor -> index into Sections
}

// BuildFileIndex scans data, normalizes every heading, and assigns
// collision-disambiguated anchors in document order.
func BuildFileIndex(path string, data []byte) (*FileIndex, error) {
	fs, err := scan.Scan(path, data)
	if err != nil {
		return nil, err
	}

	dis := anchor.NewDisambiguator()
	sections := make([]scan.SectionSpan, len(fs.Sections))
	byAnchor := make(map[string]int, len(fs.Sections))
	for i, s := range fs.Sections {
		s.NormalizedTitle = anchor.Normalize(s.RawTitle)
		slug := anchor.Slug(s.NormalizedTitle)
		s.Anchor = dis.Next(slug)
		sections[i] = s
		byAnchor[s.Anchor] = i
	}

	return &FileIndex{Path: path, Scan: fs, Sections: sections, byAnchor: byAnchor}, nil
}

// BySlug returns the section with the given anchor and whether it exists.
func (fi *FileIndex) BySlug(a string) (scan.SectionSpan, bool) {
	i, ok := fi.byAnchor[a]
	if !ok {
		return scan.SectionSpan{}, false
	}
	return fi.Sections[i], true
}

// Match returns every section whose NormalizedTitle matches re, in document
// order. re must not be nil.
func Match(fi *FileIndex, re *regexp.Regexp) []scan.SectionSpan {
	var out []scan.SectionSpan
	for _, s := range fi.Sections {
		if re.MatchString(s.NormalizedTitle) {
			out = append(out, s)
		}
	}
	return out
}
