// Package companies loads the bundled company dataset and resolves company
// names to their Terms & Conditions URLs.
package companies

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"tnc-backend/internal/shared/telemetry"
)

// ErrNotFound is returned when no dataset entry matches a company name.
var ErrNotFound = errors.New("company not found")

// Company is one dataset row.
type Company struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	TermsURL string `json:"url"`
}

// Dataset is the read-only company table loaded at startup.
type Dataset struct {
	entries []Company
}

// Load reads a CSV dataset with "Sl No", "Company Name" and
// "Terms & Conditions" columns. Numeric ids are parsed once here so callers
// never deal with raw cell values.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("dataset is empty")
	}

	idCol, nameCol, urlCol := -1, -1, -1
	for i, header := range rows[0] {
		switch strings.TrimSpace(header) {
		case "Sl No":
			idCol = i
		case "Company Name":
			nameCol = i
		case "Terms & Conditions":
			urlCol = i
		}
	}
	if idCol < 0 || nameCol < 0 || urlCol < 0 {
		return nil, fmt.Errorf("dataset missing expected columns, got %v", rows[0])
	}

	var entries []Company
	for _, row := range rows[1:] {
		if len(row) <= idCol || len(row) <= nameCol || len(row) <= urlCol {
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		url := strings.TrimSpace(row[urlCol])
		if name == "" || url == "" {
			continue
		}
		id, _ := strconv.Atoi(strings.TrimSpace(row[idCol]))
		entries = append(entries, Company{ID: id, Name: name, TermsURL: url})
	}

	telemetry.Info("dataset.loaded", map[string]any{"path": path, "companies": len(entries)})
	return &Dataset{entries: entries}, nil
}

// NewDataset builds a Dataset from preloaded entries. Used by tests and by
// callers that source the table elsewhere.
func NewDataset(entries []Company) *Dataset {
	return &Dataset{entries: entries}
}

// Lookup resolves a company name case-insensitively: exact match first, then
// substring match; the first match wins.
func (d *Dataset) Lookup(name string) (Company, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Company{}, ErrNotFound
	}
	for _, c := range d.entries {
		if strings.ToLower(c.Name) == needle {
			return c, nil
		}
	}
	for _, c := range d.entries {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return c, nil
		}
	}
	return Company{}, ErrNotFound
}

// LookupExact resolves a company name by case-insensitive exact match only.
// Comparisons use this stricter form so a loose name never silently matches
// a different company.
func (d *Dataset) LookupExact(name string) (Company, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Company{}, ErrNotFound
	}
	for _, c := range d.entries {
		if strings.ToLower(c.Name) == needle {
			return c, nil
		}
	}
	return Company{}, ErrNotFound
}

// All returns every dataset entry.
func (d *Dataset) All() []Company {
	return d.entries
}

// Len reports the number of entries.
func (d *Dataset) Len() int {
	return len(d.entries)
}
