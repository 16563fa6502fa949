// Package roster reads invite lists from delimited text files with the
// columns email, role (optional) and datasets (optional, ';'-joined).
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/aliuyar1234/studioinvite/internal/invite"
)

// ErrMissingEmailColumn is returned when the header has no email column.
var ErrMissingEmailColumn = errors.New("roster header has no email column")

var knownColumns = map[string]bool{
	"email":    true,
	"role":     true,
	"datasets": true,
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string, limits Limits) ([]invite.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat roster: %w", err)
	}
	if err := limits.ValidateSize(info.Size(), path); err != nil {
		return nil, err
	}

	return Read(f, limits)
}

// Read parses a roster. Header names are matched case-insensitively and
// unknown columns are ignored. Empty cells are left out of the record so the
// normalizer applies its defaults. Fully blank lines are skipped.
func Read(r io.Reader, limits Limits) ([]invite.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingEmailColumn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read roster header: %w", err)
	}

	columns := make([]string, len(header))
	hasEmail := false
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if !knownColumns[name] {
			if name != "" {
				log.Debug().Str("column", name).Msg("Ignoring unknown roster column")
			}
			continue
		}
		columns[i] = name
		if name == "email" {
			hasEmail = true
		}
	}
	if !hasEmail {
		return nil, ErrMissingEmailColumn
	}

	var records []invite.Record
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read roster line %d: %w", line, err)
		}

		rec := invite.Record{}
		for i, cell := range row {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			if cell = strings.TrimSpace(cell); cell != "" {
				rec[columns[i]] = cell
			}
		}
		if len(rec) == 0 {
			continue
		}

		records = append(records, rec)
		if err := limits.ValidateRowCount(len(records)); err != nil {
			return nil, err
		}
	}

	return records, nil
}
