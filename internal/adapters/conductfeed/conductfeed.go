// Package conductfeed loads the off-field conduct source data: the
// severity table and the incident list, both as CSV files. The core only
// ever sees the parsed in-memory sequences.
package conductfeed

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gridironlab/leaguemetrics/internal/domain/conduct"
)

// Incident list column layout.
const (
	incidentColName = iota
	incidentColTeam
	incidentColDate
	incidentColPosition
	incidentColCaseID
	incidentColCategories
	incidentColumns
)

// LoadSeverityTable reads (categoryLabel, pointValue) rows.
func LoadSeverityTable(path string) ([]conduct.CategoryPoints, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadSeverityTable, err)
	}

	table := make([]conduct.CategoryPoints, 0, len(records))
	for i, row := range records {
		if len(row) < 2 {
			return nil, fmt.Errorf("%w: row %d has %d columns, want 2", ErrLoadSeverityTable, i+1, len(row))
		}
		points, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrLoadSeverityTable, i+1, err)
		}
		table = append(table, conduct.CategoryPoints{
			Category: row[0],
			Points:   points,
		})
	}
	return table, nil
}

// LoadIncidents reads incident rows:
// name, team, date, position, case id, comma-separated categories.
func LoadIncidents(path string) ([]conduct.Incident, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadIncidents, err)
	}

	incidents := make([]conduct.Incident, 0, len(records))
	for i, row := range records {
		if len(row) < incidentColumns {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrLoadIncidents, i+1, len(row), incidentColumns)
		}
		incidents = append(incidents, conduct.Incident{
			Name:       strings.TrimSpace(row[incidentColName]),
			Team:       strings.TrimSpace(row[incidentColTeam]),
			Date:       strings.TrimSpace(row[incidentColDate]),
			Position:   strings.TrimSpace(row[incidentColPosition]),
			CaseID:     strings.TrimSpace(row[incidentColCaseID]),
			Categories: row[incidentColCategories],
		})
	}
	return incidents, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only file

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	// Source files are sometimes exported with a UTF-8 BOM.
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\uFEFF")
	}
	return records, nil
}
