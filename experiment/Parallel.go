package experiment

import (
	"sync"

	"github.com/pkg/errors"
)

// Factory creates the i-th replicated experiment of a Parallel run.
// Each experiment must own its environment, agent, and trackers.
type Factory func(i int, seed uint64) (Experiment, error)

// Parallel runs n independent replications of an experiment, one per
// goroutine. Replication i is created with seed seed+i. All experiments
// are run to completion and saved; the first error encountered, if
// any, is returned alongside the experiments.
func Parallel(n int, seed uint64, create Factory) ([]Experiment, error) {
	exps := make([]Experiment, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			exp, err := create(i, seed+uint64(i))
			if err != nil {
				errs[i] = errors.Wrapf(err, "replication %v", i)
				return
			}
			exps[i] = exp

			if err := exp.Run(); err != nil {
				errs[i] = errors.Wrapf(err, "replication %v", i)
				return
			}
			if err := exp.Save(); err != nil {
				errs[i] = errors.Wrapf(err, "replication %v", i)
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return exps, err
		}
	}
	return exps, nil
}
