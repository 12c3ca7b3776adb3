// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package bulk

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/grailbio/base/log"
)

// Pool is a persistent set of worker goroutines shared by every bulk
// operation. Workers are spawned once by NewPool and live until Close.
//
// A nil *Pool is valid and runs everything on the calling goroutine.
type Pool struct {
	workers   int
	workC     chan task
	closeOnce sync.Once
	closed    atomic.Bool
}

type task struct {
	fn   func()
	done *sync.WaitGroup
}

// NewPool starts a pool of the given number of workers, or GOMAXPROCS
// workers if workers <= 0.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		workers: workers,
		workC:   make(chan task, workers*2),
	}
	for range workers {
		go p.run()
	}
	log.Debug.Printf("bulk: started pool of %d workers", workers)
	return p
}

func (p *Pool) run() {
	for t := range p.workC {
		t.fn()
		t.done.Done()
	}
}

// Workers returns the number of workers, 1 for a nil pool.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workers
}

// Close stops the workers once queued work has finished. Operations on a
// closed pool run sequentially. Close may be called more than once.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// sequential reports whether work of n independent items should run on
// the calling goroutine.
func (p *Pool) sequential(n int) bool {
	return p == nil || p.closed.Load() || min(p.workers, n) <= 1
}

// Ranges splits [0, n) into one contiguous range per worker and calls fn
// on each. It returns when every call has returned.
func (p *Pool) Ranges(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if p.sequential(n) {
		fn(0, n)
		return
	}

	workers := min(p.workers, n)
	size := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		wg.Add(1)
		p.workC <- task{fn: func() { fn(start, end) }, done: &wg}
	}
	wg.Wait()
}

// Each calls fn(i) for every i in [0, n). Items are handed out one at a
// time, so uneven items balance across workers. It returns when every
// call has returned.
func (p *Pool) Each(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if p.sequential(n) {
		for i := range n {
			fn(i)
		}
		return
	}

	workers := min(p.workers, n)
	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		p.workC <- task{
			fn: func() {
				for {
					i := int(next.Add(1)) - 1
					if i >= n {
						return
					}
					fn(i)
				}
			},
			done: &wg,
		}
	}
	wg.Wait()
}
