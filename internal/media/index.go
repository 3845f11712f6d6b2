package media

import (
	"regexp"
	"sort"
	"strconv"
)

var fileNameRe = regexp.MustCompile(`(?i)^(\d+)-(PHOTO|VIDEO|AUDIO|STICKER)-(\d{4}-\d{2}-\d{2})-(\d{2})-(\d{2})-(\d{2})`)

// File is an indexed media file addressable by date and kind.
type File struct {
	Name      string
	Seq       int
	Kind      Kind
	DateKey   string // YYYY-MM-DD
	TimeOfDay int    // seconds since midnight
	Source    Source
}

// ParseName extracts the addressable fields from a media file name.
// ok is false for names outside the export naming convention.
func ParseName(name string) (f File, ok bool) {
	m := fileNameRe.FindStringSubmatch(name)
	if m == nil {
		return File{}, false
	}
	seq, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[4])
	mi, _ := strconv.Atoi(m[5])
	s, _ := strconv.Atoi(m[6])
	return File{
		Name:      name,
		Seq:       seq,
		Kind:      parseKindToken(m[2]),
		DateKey:   m[3],
		TimeOfDay: h*3600 + mi*60 + s,
	}, true
}

// Index groups media files by date and kind. An Index is never mutated after
// Build; consumption state lives in the matcher.
type Index struct {
	buckets  map[string]map[Kind][]*File
	provided int
	indexed  int
}

// Build indexes sources. Names outside the naming convention are skipped and
// only counted in Provided.
func Build(sources []Source) *Index {
	idx := &Index{
		buckets:  make(map[string]map[Kind][]*File),
		provided: len(sources),
	}
	for _, src := range sources {
		f, ok := ParseName(src.Name())
		if !ok {
			continue
		}
		f.Source = src
		byKind, ok := idx.buckets[f.DateKey]
		if !ok {
			byKind = make(map[Kind][]*File)
			idx.buckets[f.DateKey] = byKind
		}
		byKind[f.Kind] = append(byKind[f.Kind], &f)
		idx.indexed++
	}
	for _, byKind := range idx.buckets {
		for _, files := range byKind {
			sort.SliceStable(files, func(i, j int) bool { return files[i].Name < files[j].Name })
		}
	}
	return idx
}

// Bucket returns the files for a date and kind in consumption order.
// The returned slice must not be modified.
func (idx *Index) Bucket(dateKey string, kind Kind) []*File {
	if idx == nil {
		return nil
	}
	return idx.buckets[dateKey][kind]
}

// Dates returns every indexed date key, sorted.
func (idx *Index) Dates() []string {
	if idx == nil {
		return nil
	}
	out := make([]string, 0, len(idx.buckets))
	for d := range idx.buckets {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Provided is the number of sources handed to Build.
func (idx *Index) Provided() int {
	if idx == nil {
		return 0
	}
	return idx.provided
}

// Indexed is the number of sources that matched the naming convention.
func (idx *Index) Indexed() int {
	if idx == nil {
		return 0
	}
	return idx.indexed
}

// Counts returns the number of indexed files per kind.
func (idx *Index) Counts() map[Kind]int {
	out := make(map[Kind]int, len(Kinds))
	if idx == nil {
		return out
	}
	for _, byKind := range idx.buckets {
		for k, files := range byKind {
			out[k] += len(files)
		}
	}
	return out
}

// Lookup finds an indexed file by exact name.
func (idx *Index) Lookup(name string) (*File, bool) {
	f, ok := ParseName(name)
	if !ok || idx == nil {
		return nil, false
	}
	for _, c := range idx.buckets[f.DateKey][f.Kind] {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
