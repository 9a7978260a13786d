// Package compute emulates SIMT-style kernel dispatch on goroutines.
//
// A kernel launch covers n units of work grouped into fixed-size workgroups.
// Units within a launch run concurrently with no defined relative order and
// no synchronization among them; a Dispatch call returns only after every
// unit has retired, which is the barrier between consecutive launches.
package compute

import (
	"runtime"
	"sync"
)

// DefaultWorkgroupSize is the per-group unit count used when none is
// configured. Tunable per target hardware.
const DefaultWorkgroupSize = 256

// GroupCount returns the number of workgroups needed to cover n units,
// padding the tail so the last group is full-sized.
func GroupCount(n, groupSize int) int {
	if n <= 0 || groupSize <= 0 {
		return 0
	}
	padded := (groupSize - n%groupSize) % groupSize
	return (n + padded) / groupSize
}

// Dispatcher launches kernels across a fixed pool of workers.
type Dispatcher struct {
	groupSize int
	workers   int
}

// NewDispatcher creates a dispatcher with the given workgroup size and worker
// count. Non-positive values fall back to DefaultWorkgroupSize and NumCPU.
func NewDispatcher(groupSize, workers int) *Dispatcher {
	if groupSize <= 0 {
		groupSize = DefaultWorkgroupSize
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Dispatcher{groupSize: groupSize, workers: workers}
}

func (d *Dispatcher) GroupSize() int { return d.groupSize }

func (d *Dispatcher) Workers() int { return d.workers }

// Dispatch runs kernel once for every unit index in [0, n). Padding units
// past n are never invoked. Dispatch returns after every unit has retired.
func (d *Dispatcher) Dispatch(n int, kernel func(i int)) {
	groups := GroupCount(n, d.groupSize)
	if groups == 0 {
		return
	}
	workers := d.workers
	if workers > groups {
		workers = groups
	}

	groupCh := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range groupCh {
				lo := g * d.groupSize
				hi := lo + d.groupSize
				if hi > n {
					hi = n
				}
				for i := lo; i < hi; i++ {
					kernel(i)
				}
			}
		}()
	}

	for g := 0; g < groups; g++ {
		groupCh <- g
	}
	close(groupCh)

	wg.Wait()
}
