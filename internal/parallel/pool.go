// Package parallel provides the worker pool behind the renderer's
// scatter/gather phases: a side-effect-free compute phase fanned out across
// workers, followed by a strictly sequential merge owned by the caller.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of goroutines for data-parallel render work.
//
// Work is submitted as whole batches; each worker pulls items from a shared
// queue until the batch drains. Workers never share mutable state with each
// other: every item writes only to its own pre-assigned result slot, so the
// caller can merge results in a deterministic order afterwards.
//
// Thread safety: Pool is safe for concurrent use, but the renderer submits
// from a single goroutine.
type Pool struct {
	workers int
	tasks   chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewPool creates a pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used. Workers start
// immediately and wait for work.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		workers: workers,
		tasks:   make(chan func(), workers*4),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case task := <-p.tasks:
			if task != nil {
				task()
			}
		}
	}
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// Run executes all work items and waits for every one to complete.
// If the pool is closed the items run inline on the calling goroutine,
// so a batch never silently disappears.
func (p *Pool) Run(work []func()) {
	if len(work) == 0 {
		return
	}
	if !p.running.Load() {
		for _, fn := range work {
			fn()
		}
		return
	}

	var batch sync.WaitGroup
	batch.Add(len(work))
	for _, fn := range work {
		task := fn
		wrapped := func() {
			defer batch.Done()
			task()
		}
		select {
		case p.tasks <- wrapped:
		case <-p.done:
			wrapped()
		}
	}
	batch.Wait()
}

// ForEach partitions the index range [0, n) into contiguous chunks and
// invokes fn for every index, distributing chunks across the workers.
// Chunk boundaries depend only on n and the worker count, so a given input
// always produces the same partitioning.
func (p *Pool) ForEach(n int, fn func(i int)) {
	if n <= 0 {
		return
	}

	chunks := p.workers * 4
	if chunks > n {
		chunks = n
	}
	chunkSize := (n + chunks - 1) / chunks

	work := make([]func(), 0, chunks)
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		lo, hi := start, end
		work = append(work, func() {
			for i := lo; i < hi; i++ {
				fn(i)
			}
		})
	}
	p.Run(work)
}

// Close shuts the pool down and waits for the workers to exit.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}
