package sim

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/rendafixa/index"
	"github.com/rustyeddy/rendafixa/journal"
	"github.com/rustyeddy/rendafixa/portfolio"
)

// Scenario is a named path for the index rates.
type Scenario struct {
	Name  string
	Rates index.Source
}

// Options are shared by every scenario run.
type Options struct {
	Name          string
	Journal       journal.Journal
	Contributions []Contribution
	Logger        *log.Logger
	IDs           func() string
	Now           func() time.Time
}

// BuildFunc returns a fresh portfolio reading index rates from src.
type BuildFunc func(src index.Source) (*portfolio.Portfolio, error)

// RunScenarios simulates one independent portfolio per scenario,
// concurrently. Results are in scenario order. The first failure cancels the
// remaining runs.
func RunScenarios(ctx context.Context, build BuildFunc, scenarios []Scenario, start, end time.Time, opts Options) ([]journal.Run, error) {
	runs := make([]journal.Run, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	for i, sc := range scenarios {
		g.Go(func() error {
			p, err := build(sc.Rates)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", sc.Name, err)
			}
			d := Driver{
				Portfolio:     p,
				Journal:       opts.Journal,
				Contributions: opts.Contributions,
				Logger:        opts.Logger,
				Name:          opts.Name,
				Scenario:      sc.Name,
				IDs:           opts.IDs,
				Now:           opts.Now,
			}
			run, err := d.Run(gctx, start, end)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", sc.Name, err)
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}

// Cloner returns a BuildFunc that clones base for every scenario. A nil
// scenario source keeps the instruments' own rates.
func Cloner(base *portfolio.Portfolio) BuildFunc {
	return func(src index.Source) (*portfolio.Portfolio, error) {
		return base.Clone(src), nil
	}
}
