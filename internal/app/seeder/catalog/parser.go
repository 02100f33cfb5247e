// Package catalog parses product catalog CSV files.
// Pure function: file path in, rows out. No database dependencies.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

// Row is one product of the catalog file.
type Row struct {
	Name     string
	Category *string
}

// Stats counts what the parser saw.
type Stats struct {
	Rows       int
	Blank      int
	Duplicates int
}

// Result is the parsed catalog. Products keep file order.
type Result struct {
	Products []Row
	Stats    Stats
}

// Parse reads the catalog CSV at path.
func Parse(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	return parse(f)
}

// parse reads a CSV whose header names a "name" column and optionally a
// "category" column, in any order. Names are normalized; rows with a blank
// name are skipped, and a name seen before (case-insensitively) keeps its
// first occurrence.
func parse(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Result{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	nameCol, categoryCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "name":
			nameCol = i
		case "category":
			categoryCol = i
		}
	}
	if nameCol < 0 {
		return nil, errors.New(`read header: no "name" column`)
	}

	res := &Result{}
	seen := make(map[string]bool)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		res.Stats.Rows++

		name := ""
		if nameCol < len(record) {
			name = domain.NormalizeName(record[nameCol])
		}
		if name == "" {
			res.Stats.Blank++
			continue
		}

		key := strings.ToLower(name)
		if seen[key] {
			res.Stats.Duplicates++
			continue
		}
		seen[key] = true

		row := Row{Name: name}
		if categoryCol >= 0 && categoryCol < len(record) {
			row.Category = domain.NormalizeOptional(&record[categoryCol])
		}
		res.Products = append(res.Products, row)
	}

	return res, nil
}
