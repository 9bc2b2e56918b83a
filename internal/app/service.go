package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gridironlab/leaguemetrics/internal/adapters/league"
	"github.com/gridironlab/leaguemetrics/internal/domain/conduct"
	"github.com/gridironlab/leaguemetrics/internal/domain/luck"
	"github.com/gridironlab/leaguemetrics/internal/domain/model"
	"github.com/gridironlab/leaguemetrics/internal/domain/power"
	"github.com/gridironlab/leaguemetrics/internal/domain/ranking"
	"github.com/gridironlab/leaguemetrics/internal/domain/roster"
	"github.com/gridironlab/leaguemetrics/internal/domain/season"
	"github.com/gridironlab/leaguemetrics/pkg/logger"
	"github.com/gridironlab/leaguemetrics/pkg/metrics"
)

// Chosen-week selection bounds.
const (
	weekSelectorDefault = "default"
	maxSeasonWeek       = 17
)

// Service assembles the season report: it sequences the weekly metric
// computations and folds them into season aggregates.
type Service struct {
	source league.Source
	index  *conduct.Index

	workers         int
	benchTolerance  float64
	allowIncomplete bool

	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConductIndex supplies the conduct score lookup.
func WithConductIndex(index *conduct.Index) Option {
	return func(s *Service) {
		s.index = index
	}
}

// WithEvalWorkers bounds the per-team evaluation pool.
func WithEvalWorkers(workers int) Option {
	return func(s *Service) {
		if workers > 0 {
			s.workers = workers
		}
	}
}

// WithBenchTolerance sets the ineligible bench player points margin.
func WithBenchTolerance(tolerance float64) Option {
	return func(s *Service) {
		if tolerance >= 0 {
			s.benchTolerance = tolerance
		}
	}
}

// WithAllowIncomplete permits selecting a week past the last completed one.
func WithAllowIncomplete(allow bool) Option {
	return func(s *Service) {
		s.allowIncomplete = allow
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New constructs a report service over a league data source.
func New(source league.Source, opts ...Option) *Service {
	s := &Service{
		source:  source,
		workers: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("report")
	}
	return s
}

// Run computes metrics for weeks 1 through the chosen week and returns the
// renderer payload. A data source failure aborts the whole report; no
// partial per-week output is produced.
func (s *Service) Run(ctx context.Context, chosenWeek string) (*Report, error) {
	info, err := s.source.League(ctx)
	if err != nil {
		return nil, fmt.Errorf("league data: %w", err)
	}

	week, err := resolveChosenWeek(chosenWeek, info.CurrentWeek, s.allowIncomplete)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "generating report",
		logger.String("league", info.Name),
		logger.String("leagueID", info.ID),
		logger.Int("week", week),
	)

	evalOpts := []roster.Option{
		roster.WithBenchTolerance(s.benchTolerance),
		roster.WithLogger(s.log.Named("roster")),
	}
	if s.index != nil {
		evalOpts = append(evalOpts, roster.WithConductIndex(s.index))
	}
	evaluator := roster.NewEvaluator(info.Slots, evalOpts...)

	aggregator := season.NewAggregator()

	report := &Report{
		LeagueID:    info.ID,
		LeagueName:  info.Name,
		Week:        week,
		GeneratedAt: time.Now(),
		Standings:   info.Standings,
		Series:      make(map[season.Metric]map[string][]season.WeekValue),
	}

	var finalResults []model.TeamWeekResult

	// The week loop runs strictly in order; season averages depend on
	// previously accumulated state.
	for wk := 1; wk <= week; wk++ {
		data, err := s.source.Week(ctx, wk)
		if err != nil {
			return nil, fmt.Errorf("week %d data: %w", wk, err)
		}

		results := s.evaluateTeams(ctx, evaluator, data.Teams)

		luckIndex := luck.Evaluate(data.Results)
		for i := range results {
			results[i].Luck = luckIndex[results[i].Name]
		}
		powerIndex := power.Evaluate(results, luckIndex)
		for i := range results {
			results[i].PowerRank = powerIndex[results[i].Name]
		}

		summary := s.summarizeWeek(ctx, wk, results)
		report.Weekly = append(report.Weekly, summary)

		accumulate(aggregator, wk, results)
		metrics.RecordWeekProcessed()

		if wk == week {
			finalResults = results
		}
	}

	s.assemble(report, finalResults, aggregator)
	return report, nil
}

// resolveChosenWeek validates the week selection against season bounds and
// the provider's current week.
func resolveChosenWeek(chosen string, currentWeek int, allowIncomplete bool) (int, error) {
	lastComplete := currentWeek - 1

	if chosen == "" || chosen == weekSelectorDefault {
		if lastComplete < 1 {
			return 0, fmt.Errorf("%w: no completed weeks yet", ErrInvalidWeek)
		}
		return lastComplete, nil
	}

	week, err := strconv.Atoi(chosen)
	if err != nil || week < 1 || week > maxSeasonWeek {
		return 0, fmt.Errorf("%w: %q, want \"default\" or 1..%d", ErrInvalidWeek, chosen, maxSeasonWeek)
	}
	if week > lastComplete && !allowIncomplete {
		return 0, fmt.Errorf("%w: week %d is not complete; set allow_incomplete to report on it anyway", ErrInvalidWeek, week)
	}
	return week, nil
}

// evaluateTeams runs the per-team weekly evaluation on a bounded worker
// pool and merges the results back in team-id order, keeping the ranking
// tie-break contract deterministic.
func (s *Service) evaluateTeams(ctx context.Context, evaluator *roster.Evaluator, teams []model.Team) []model.TeamWeekResult {
	results := make([]model.TeamWeekResult, len(teams))

	workers := s.workers
	if workers > len(teams) {
		workers = len(teams)
	}
	if workers < 1 {
		workers = 1
	}
	metrics.UpdateEvalWorkerCount(workers)

	indexCh := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexCh {
				results[i] = evaluator.Evaluate(ctx, teams[i])
				metrics.RecordTeamEvaluated()
			}
		}()
	}
	for i := range teams {
		indexCh <- i
	}
	close(indexCh)
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		return teamIDLess(results[i].TeamID, results[j].TeamID)
	})
	return results
}

func teamIDLess(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	if aErr == nil && bErr == nil {
		return ai < bi
	}
	return a < b
}

// summarizeWeek resolves every metric table for tie counting and logs the
// weekly metrics info the way the report narrates it.
func (s *Service) summarizeWeek(ctx context.Context, week int, results []model.TeamWeekResult) WeekSummary {
	score := ranking.Resolve(scoreRows(results), ranking.WithTieBreak())
	efficiency := ranking.Resolve(metricRows(results, func(r model.TeamWeekResult) float64 { return r.CoachingEfficiency }))
	luckTable := ranking.Resolve(metricRows(results, func(r model.TeamWeekResult) float64 { return r.Luck }))
	powerTable := ranking.Resolve(metricRows(results, func(r model.TeamWeekResult) float64 { return r.PowerRank }), ranking.WithAscending())
	conductTable := ranking.Resolve(metricRows(results, func(r model.TeamWeekResult) float64 { return float64(r.ConductPoints) }))

	summary := WeekSummary{
		Week:              week,
		TiedScores:        score.TieCount,
		TiedEfficiencies:  efficiency.TieCount,
		TiedLucks:         luckTable.TieCount,
		TiedPowerRanks:    powerTable.TieCount,
		TiedConduct:       conductTable.TieCount,
		Disqualifications: make(map[string]int),
	}

	for _, r := range results {
		if !r.Disqualified() {
			continue
		}
		if r.IneligibleBenchCount > 0 {
			summary.Disqualifications[r.Name] = r.IneligibleBenchCount
		} else {
			summary.Disqualifications[r.Name] = IncompleteSquad
		}
	}

	metrics.RecordTiesDetected(string(season.Score), score.TieCount)
	metrics.RecordTiesDetected(string(season.Efficiency), efficiency.TieCount)
	metrics.RecordTiesDetected(string(season.Luck), luckTable.TieCount)
	metrics.RecordTiesDetected(string(season.PowerRank), powerTable.TieCount)
	metrics.RecordTiesDetected(string(season.Conduct), conductTable.TieCount)

	s.log.Info(ctx, "week metrics computed",
		logger.Int("week", week),
		logger.Int("scoreTies", score.TieCount),
		logger.Int("efficiencyTies", efficiency.TieCount),
		logger.Int("luckTies", luckTable.TieCount),
		logger.Int("powerRankTies", powerTable.TieCount),
		logger.Int("conductTies", conductTable.TieCount),
		logger.Int("efficiencyDQs", len(summary.Disqualifications)),
	)

	return summary
}

// accumulate folds one week's results into the season aggregates. A
// disqualified efficiency keeps its week slot but not its value.
func accumulate(aggregator *season.Aggregator, week int, results []model.TeamWeekResult) {
	for _, r := range results {
		aggregator.Accumulate(week, season.Score, r.Name, r.Score)
		if r.Disqualified() {
			aggregator.AccumulateInvalid(week, season.Efficiency, r.Name)
		} else {
			aggregator.Accumulate(week, season.Efficiency, r.Name, r.CoachingEfficiency)
		}
		aggregator.Accumulate(week, season.Luck, r.Name, r.Luck)
		aggregator.Accumulate(week, season.PowerRank, r.Name, r.PowerRank)
		aggregator.AccumulatePositionPoints(r.Name, r.PointsByPosition)
	}
}

// assemble builds the renderer payload from the chosen week's results and
// the accumulated season state.
func (s *Service) assemble(report *Report, results []model.TeamWeekResult, aggregator *season.Aggregator) {
	byName := make(map[string]model.TeamWeekResult, len(results))
	for _, r := range results {
		byName[r.Name] = r
		report.Teams = append(report.Teams, r.Name)
		report.Managers = append(report.Managers, r.Manager)
	}

	score := ranking.Resolve(scoreRows(results), ranking.WithTieBreak())
	efficiency := ranking.Resolve(metricRows(results, func(r model.TeamWeekResult) float64 { return r.CoachingEfficiency }))
	luckTable := ranking.Resolve(metricRows(results, func(r model.TeamWeekResult) float64 { return r.Luck }))
	powerTable := ranking.Resolve(metricRows(results, func(r model.TeamWeekResult) float64 { return r.PowerRank }), ranking.WithAscending())

	report.Tables = []MetricTable{
		buildTable(season.Score, score, byName, aggregator),
		buildTable(season.Efficiency, efficiency, byName, aggregator),
		buildTable(season.Luck, luckTable, byName, aggregator),
		buildTable(season.PowerRank, powerTable, byName, aggregator),
	}

	conductTable := ranking.Resolve(metricRows(results, func(r model.TeamWeekResult) float64 { return float64(r.ConductPoints) }))
	report.ConductTies = conductTable.TieCount
	report.ConductFirst = conductTable.NumTiedForFirst
	for _, row := range conductTable.Rows {
		r := byName[row.Team]
		report.Conduct = append(report.Conduct, ConductRow{
			Rank:         row.Rank,
			Team:         row.Team,
			Manager:      r.Manager,
			Points:       r.ConductPoints,
			WorstOffense: r.WorstOffense,
			NumOffenders: r.NumOffenders,
		})
	}

	for _, metric := range []season.Metric{season.Score, season.Efficiency, season.Luck, season.PowerRank} {
		byTeam := make(map[string][]season.WeekValue, len(results))
		for _, r := range results {
			byTeam[r.Name] = aggregator.Series(metric, r.Name)
		}
		report.Series[metric] = byTeam
	}

	report.PositionAverages = make(map[string]map[string]float64, len(results))
	for _, r := range results {
		report.PositionAverages[r.Name] = aggregator.PositionAverages(r.Name)
	}
}

func buildTable(metric season.Metric, resolved ranking.Result, byName map[string]model.TeamWeekResult, aggregator *season.Aggregator) MetricTable {
	table := MetricTable{
		Metric:          metric,
		Percent:         metric.Percent(),
		TieCount:        resolved.TieCount,
		TieForFirst:     resolved.TieForFirst,
		NumTiedForFirst: resolved.NumTiedForFirst,
	}
	for _, row := range resolved.Rows {
		avg, ok := aggregator.Average(metric, row.Team)
		table.Rows = append(table.Rows, TableRow{
			Rank:             row.Rank,
			Team:             row.Team,
			Manager:          byName[row.Team].Manager,
			Value:            row.Value,
			TieBreak:         row.TieBreak,
			SeasonAverage:    avg,
			HasSeasonAverage: ok,
		})
	}
	return table
}

func scoreRows(results []model.TeamWeekResult) []ranking.Row {
	rows := make([]ranking.Row, len(results))
	for i, r := range results {
		rows[i] = ranking.Row{Team: r.Name, Value: r.Score, TieBreak: r.BenchScore}
	}
	return rows
}

func metricRows(results []model.TeamWeekResult, value func(model.TeamWeekResult) float64) []ranking.Row {
	rows := make([]ranking.Row, len(results))
	for i, r := range results {
		rows[i] = ranking.Row{Team: r.Name, Value: value(r)}
	}
	return rows
}
