// Command gen-fixtures writes a synthetic league season (fixture YAML plus
// conduct CSVs) so the report pipeline can be exercised without a live
// data source.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/gridironlab/leaguemetrics/internal/fixturegen"
	"github.com/gridironlab/leaguemetrics/pkg/logger"
)

func main() {
	teams := flag.Int("teams", 10, "number of league teams (rounded up to even)")
	weeks := flag.Int("weeks", 4, "number of completed weeks")
	seed := flag.Int64("seed", 42, "random seed")
	dir := flag.String("dir", ".", "output directory")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()
	ctx := context.Background()

	out, err := fixturegen.Generate(
		fixturegen.WithTeams(*teams),
		fixturegen.WithWeeks(*weeks),
		fixturegen.WithSeed(*seed),
	)
	if err != nil {
		log.Error(ctx, "fixture generation failed", logger.Error(err))
		os.Exit(1)
	}

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		log.Error(ctx, "create output directory", logger.Error(err))
		os.Exit(1)
	}

	files := map[string][]byte{
		"league.yaml":   out.League,
		"severity.csv":  out.Severity,
		"incidents.csv": out.Incidents,
	}
	for name, data := range files {
		path := filepath.Join(*dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.Error(ctx, "write fixture file", logger.String("path", path), logger.Error(err))
			os.Exit(1)
		}
		log.Info(ctx, "fixture file written", logger.String("path", path))
	}
}
