package batch

import (
	"context"
	"sync"

	"github.com/openteamsinc/opensourcescore.dev/internal/log"
)

// Item is one unit of work for the pool: a single registry name to score.
type Item struct {
	Ecosystem string
	Name      string
}

// Outcome pairs an Item with whatever Runner.Process produced for it.
type Outcome struct {
	Item   Item
	Result Result
	Err    error
}

// RunPool fans items out across numWorkers goroutines pulling from a
// shared channel, the same bounded-fan-out shape pkg.runEnabledChecks
// uses for Scorecard's own per-check goroutines (sync.WaitGroup plus a
// results channel closed once every worker has returned), generalized
// here to a worker count instead of one goroutine per item since a batch
// run's item count can run into the millions.
func RunPool(ctx context.Context, numWorkers int, items []Item, runner *Runner, logger *log.Logger) []Outcome {
	if numWorkers <= 0 {
		numWorkers = 1
	}

	work := make(chan Item)
	results := make(chan Outcome)

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for item := range work {
				res, err := runner.Process(ctx, item.Ecosystem, item.Name)
				select {
				case results <- Outcome{Item: item, Result: res, Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, item := range items {
			select {
			case work <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	outcomes := make([]Outcome, 0, len(items))
	for o := range results {
		if o.Err != nil && logger != nil {
			logger.Error(o.Err, "batch: processing package failed", "ecosystem", o.Item.Ecosystem, "name", o.Item.Name)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes
}
