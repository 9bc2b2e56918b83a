// Package render writes the assembled report to an xlsx workbook. It only
// formats; every number it touches was computed upstream.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gridironlab/leaguemetrics/internal/app"
	"github.com/gridironlab/leaguemetrics/internal/domain/season"
	"github.com/gridironlab/leaguemetrics/pkg/metrics"
)

// Metric table sheet titles, in report order.
var tableSheets = map[season.Metric]string{
	season.Score:      "Team Scores",
	season.Efficiency: "Coaching Efficiency",
	season.Luck:       "Luck",
	season.PowerRank:  "Power Rankings",
}

// XLSX renders reports into a directory of xlsx workbooks.
type XLSX struct {
	outputDir string
}

// NewXLSX creates a renderer writing into outputDir.
func NewXLSX(outputDir string) *XLSX {
	return &XLSX{outputDir: outputDir}
}

// Render writes the workbook and returns its path.
func (x *XLSX) Render(ctx context.Context, report *app.Report) (string, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRenderLatency(time.Since(start).Seconds())
	}()

	if err := os.MkdirAll(x.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // best-effort close after save

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:       fmt.Sprintf("%s week %d report", report.LeagueName, report.Week),
		Subject:     report.LeagueID,
		Created:     report.GeneratedAt.Format(time.RFC3339),
		Description: "League metrics report: scores, coaching efficiency, luck, power rankings, conduct",
	}); err != nil {
		return "", fmt.Errorf("set doc props: %w", err)
	}

	if err := writeStandings(f, report); err != nil {
		return "", err
	}
	for _, table := range report.Tables {
		if err := writeMetricTable(f, table); err != nil {
			return "", err
		}
	}
	if err := writeConduct(f, report); err != nil {
		return "", err
	}
	if err := writeSeries(f, report); err != nil {
		return "", err
	}
	if err := writePositionAverages(f, report); err != nil {
		return "", err
	}

	// Drop the default sheet so the workbook opens on the standings.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("delete default sheet: %w", err)
	}

	name := fmt.Sprintf("%s(%s)_week-%d_report.xlsx",
		strings.ReplaceAll(report.LeagueName, " ", "-"), report.LeagueID, report.Week)
	path := filepath.Join(x.outputDir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	return path, nil
}

func newSheet(f *excelize.File, name string, header []interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("sheet %s: %w", name, err)
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("sheet %s header: %w", name, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowIdx int, row []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIdx)
	if err != nil {
		return fmt.Errorf("sheet %s row %d: %w", sheet, rowIdx, err)
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("sheet %s row %d: %w", sheet, rowIdx, err)
	}
	return nil
}

func writeStandings(f *excelize.File, report *app.Report) error {
	const sheet = "Standings"
	header := []interface{}{"Rank", "Team", "Manager", "W", "L", "T", "Points For", "Points Against", "Streak", "Waiver", "Moves"}
	if err := newSheet(f, sheet, header); err != nil {
		return err
	}
	for i, row := range report.Standings {
		values := []interface{}{row.Rank, row.Team, row.Manager, row.Wins, row.Losses, row.Ties,
			row.PointsFor, row.PointsAgainst, row.Streak, row.Waiver, row.Moves}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeMetricTable(f *excelize.File, table app.MetricTable) error {
	sheet := tableSheets[table.Metric]
	header := []interface{}{"Rank", "Team", "Manager", "Value", "Season Avg"}
	if table.Metric == season.Score {
		header = []interface{}{"Rank", "Team", "Manager", "Points", "Bench Points", "Season Avg"}
	}
	if err := newSheet(f, sheet, header); err != nil {
		return err
	}

	for i, row := range table.Rows {
		values := []interface{}{row.Rank, row.Team, row.Manager, formatValue(table, row.Value)}
		if table.Metric == season.Score {
			values = append(values, row.TieBreak)
		}
		if row.HasSeasonAverage {
			values = append(values, formatValue(table, row.SeasonAverage))
		} else {
			values = append(values, "")
		}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

// formatValue renders percentage metrics as percent strings; the numeric
// value underneath is untouched. Disqualified efficiency shows as DQ.
func formatValue(table app.MetricTable, value float64) interface{} {
	if table.Metric == season.Efficiency && value < 0 {
		return "DQ"
	}
	if table.Percent {
		return fmt.Sprintf("%.2f%%", value*100)
	}
	return value
}

func writeConduct(f *excelize.File, report *app.Report) error {
	const sheet = "Conduct"
	header := []interface{}{"Rank", "Team", "Manager", "Points", "Worst Offense", "Offenders"}
	if err := newSheet(f, sheet, header); err != nil {
		return err
	}
	for i, row := range report.Conduct {
		values := []interface{}{row.Rank, row.Team, row.Manager, row.Points, row.WorstOffense, row.NumOffenders}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

// writeSeries emits one sheet per metric: a week column plus one column
// per team, gaps left blank where a week was disqualified.
func writeSeries(f *excelize.File, report *app.Report) error {
	for metric, sheetBase := range tableSheets {
		sheet := sheetBase + " by Week"
		header := make([]interface{}, 0, len(report.Teams)+1)
		header = append(header, "Week")
		for _, team := range report.Teams {
			header = append(header, team)
		}
		if err := newSheet(f, sheet, header); err != nil {
			return err
		}

		for week := 1; week <= report.Week; week++ {
			values := make([]interface{}, 0, len(report.Teams)+1)
			values = append(values, week)
			for _, team := range report.Teams {
				values = append(values, seriesCell(report.Series[metric][team], week))
			}
			if err := setRow(f, sheet, week+1, values); err != nil {
				return err
			}
		}
	}
	return nil
}

func seriesCell(series []season.WeekValue, week int) interface{} {
	for _, v := range series {
		if v.Week == week {
			if !v.Valid {
				return ""
			}
			return v.Value
		}
	}
	return ""
}

func writePositionAverages(f *excelize.File, report *app.Report) error {
	const sheet = "Points by Position"

	slots := make([]string, 0)
	seen := make(map[string]struct{})
	for _, bySlot := range report.PositionAverages {
		for slot := range bySlot {
			if _, ok := seen[slot]; !ok {
				seen[slot] = struct{}{}
				slots = append(slots, slot)
			}
		}
	}
	sort.Strings(slots)

	header := make([]interface{}, 0, len(slots)+1)
	header = append(header, "Team")
	for _, slot := range slots {
		header = append(header, slot)
	}
	if err := newSheet(f, sheet, header); err != nil {
		return err
	}

	for i, team := range report.Teams {
		values := make([]interface{}, 0, len(slots)+1)
		values = append(values, team)
		for _, slot := range slots {
			values = append(values, report.PositionAverages[team][slot])
		}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}
