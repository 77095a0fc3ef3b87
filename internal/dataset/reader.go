package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Options controls file reading and numeric coercion.
type Options struct {
	// Delimiter for CSV. If 0, chosen by file extension (tab for .tsv, comma otherwise).
	Delimiter rune
	// Sheet selects an XLSX sheet by name; empty means the first sheet.
	Sheet string
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
}

// Raw is a parsed file before typing: a header and string records padded to the header width.
type Raw struct {
	Name    string
	Header  []string
	Records [][]string
}

// Reader parses one file format into a Raw table.
type Reader interface {
	CanRead(path string) bool
	Read(path string, opt Options) (*Raw, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// Open selects a reader by filename and parses the file. Unknown extensions are read as CSV.
func Open(path string, opt Options) (*Raw, error) {
	for _, r := range registry {
		if r.CanRead(path) {
			return r.Read(path, opt)
		}
	}
	return csvReader{}.Read(path, opt)
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}

func newRaw(path string, rows [][]string) (*Raw, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptyFile)
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	raw := &Raw{Name: filepath.Base(path), Header: header}
	for _, rec := range rows[1:] {
		if len(rec) < len(header) {
			tmp := make([]string, len(header))
			copy(tmp, rec)
			rec = tmp
		}
		if isBlank(rec) {
			continue
		}
		raw.Records = append(raw.Records, rec)
	}
	return raw, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
