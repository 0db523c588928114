package planner

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// forEach runs fn for 0..n-1 on a bounded pool and returns the first error.
// fn must only write to its own index of any shared output.
func forEach(n int, fn func(i int) error) error {
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			return fn(i)
		})
	}
	return g.Wait()
}
