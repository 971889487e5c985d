// Package workpool provides a bounded parallel map: scatter a list of tasks
// over a fixed number of workers, gather the results in input order.
package workpool

import (
	"runtime"
	"sync"
)

// Map runs every task, at most workers at a time, and returns their results
// in the same order as the tasks were given, regardless of completion
// order. workers <= 0 means one worker per CPU.
//
// All tasks are run to completion even if one fails; the error of the
// lowest-indexed failing task is returned and the results are discarded.
func Map[T any](tasks []func() (T, error), workers int) ([]T, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	results := make([]T, len(tasks))
	errs := make([]error, len(tasks))

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task func() (T, error)) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i], errs[i] = task()
		}(i, task)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
