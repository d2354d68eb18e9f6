// Package pipeline projects batches of stored scenarios and aggregates the results.
package pipeline

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/wealthpath/wealthpath/internal/model"
	"github.com/wealthpath/wealthpath/internal/projection"
	"github.com/wealthpath/wealthpath/internal/store"
	"github.com/wealthpath/wealthpath/internal/validate"
)

// ScenarioResult is the projection outcome for one scenario.
// Err is set when the scenario failed validation; Result is then zero.
type ScenarioResult struct {
	Scenario store.Scenario
	Result   model.ProjectionResult
	Err      error
}

// BatchResult holds the output of a batch projection run.
type BatchResult struct {
	Results   []ScenarioResult
	Total     int
	Projected int
	Invalid   int
}

// ProgressFunc is called during a batch run to report progress.
// current is the number of scenarios processed so far, total is the total count.
type ProgressFunc func(current, total int)

// ProjectAll validates and projects every scenario using a bounded worker pool.
// Results keep the input order.
func ProjectAll(scenarios []store.Scenario, progressFn ProgressFunc) *BatchResult {
	result := &BatchResult{Total: len(scenarios)}
	if len(scenarios) == 0 {
		return result
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(scenarios) {
		numWorkers = len(scenarios)
	}

	work := make(chan int, len(scenarios))
	results := make([]ScenarioResult, len(scenarios))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range scenarios {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = projectOne(scenarios[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(scenarios))
				}
			}
		}()
	}

	wg.Wait()

	for _, r := range results {
		if r.Err != nil {
			result.Invalid++
		} else {
			result.Projected++
		}
	}
	result.Results = results
	return result
}

func projectOne(sc store.Scenario) ScenarioResult {
	if err := validate.Inputs(sc.Summary, sc.Profile, sc.Lever); err != nil {
		return ScenarioResult{Scenario: sc, Err: err}
	}
	r := projection.Compute(sc.Summary, sc.Profile, sc.Lever)
	if err := validate.Result(r); err != nil {
		return ScenarioResult{Scenario: sc, Err: err}
	}
	return ScenarioResult{Scenario: sc, Result: r}
}
