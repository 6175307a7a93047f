package prefs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ImportMode decides what an imported pair list does to the existing one.
type ImportMode string

const (
	Append    ImportMode = "append"
	Overwrite ImportMode = "overwrite"
)

func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case Append, "":
		return Append, nil
	case Overwrite:
		return Overwrite, nil
	}
	return "", fmt.Errorf("import mode must be append or overwrite, got %q", s)
}

// ImportResult reports what a CSV file contained.
type ImportResult struct {
	Pairs   []Pair
	Skipped int
}

// ParsePairs reads a two-column person,company CSV without a header. Empty
// lines, rows with fewer than two columns and rows whose two cells are both
// blank are skipped. Extra columns are ignored.
func ParsePairs(r io.Reader) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var res ImportResult
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ImportResult{}, fmt.Errorf("read csv: %w", err)
		}
		if len(rec) < 2 {
			res.Skipped++
			continue
		}
		p := Pair{Person: strings.TrimSpace(rec[0]), Company: strings.TrimSpace(rec[1])}
		if p.Person == "" && p.Company == "" {
			res.Skipped++
			continue
		}
		res.Pairs = append(res.Pairs, p)
	}
	return res, nil
}

// Merge applies imported pairs to existing ones. An import without pairs
// leaves existing untouched. The result never aliases either input.
func Merge(existing, imported []Pair, mode ImportMode) []Pair {
	if len(imported) == 0 {
		return append([]Pair(nil), existing...)
	}
	if mode == Overwrite {
		return append([]Pair(nil), imported...)
	}
	out := make([]Pair, 0, len(existing)+len(imported))
	out = append(out, existing...)
	return append(out, imported...)
}

// WritePairsCSV writes pairs in the import format, replacing path atomically.
func WritePairsCSV(path string, pairs []Pair) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	for _, p := range pairs {
		if err := w.Write([]string{p.Person, p.Company}); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
