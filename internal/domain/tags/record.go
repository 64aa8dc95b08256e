package tags

import (
	"path/filepath"
	"strings"
)

// MinFields is the number of tab-separated fields a tag line needs:
// name, file, address and kind.
const MinFields = 4

// Record is one parsed tag line.
type Record struct {
	Name           string
	Source         string // file field exactly as written in the tag file
	DefinitionFile string // Source resolved against the tag file's directory
	KindCode       string
	TagFile        string
}

// ParseRecord parses a raw tag line. Lines with fewer than MinFields fields
// are rejected.
func ParseRecord(l Line) (Record, bool) {
	fields := strings.Split(l.Text, "\t")
	if len(fields) < MinFields {
		return Record{}, false
	}
	rec := Record{
		Name:     fields[0],
		Source:   fields[1],
		KindCode: fields[3],
		TagFile:  l.TagFile,
	}
	switch {
	case fields[1] == "":
	case filepath.IsAbs(fields[1]):
		rec.DefinitionFile = filepath.Clean(fields[1])
	default:
		rec.DefinitionFile = filepath.Join(l.Dir, fields[1])
	}
	return rec, true
}

// Trail returns the part of s after the last sep, or s itself when that part
// is empty. It strips scope prefixes such as "Class::method" and extension
// field keys such as "kind:function".
func Trail(s, sep string) string {
	i := strings.LastIndex(s, sep)
	if i < 0 || i+len(sep) == len(s) {
		return s
	}
	return s[i+len(sep):]
}
