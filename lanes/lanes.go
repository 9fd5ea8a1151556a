// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lanes provides a fixed set of parallel worker lanes driven by a
// coordinating sequencer.
//
// The coordinator is the goroutine calling Run or Sweep. It broadcasts the
// start of a phase to every lane and then waits until all lanes have
// reported completion, so each phase ends in a full barrier. The
// coordinator does no row work itself.
//
// A nil *Pool is valid and runs every phase on the calling goroutine as a
// single lane.
//
// Usage:
//
//	pool := lanes.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	pool.Run(func(lane, numLanes int) {
//		for row := lane; row < n; row += numLanes {
//			...
//		}
//	})
package lanes

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Direction is the order in which Sweep visits its phases.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Pool is a persistent set of worker lanes. Lanes are goroutines spawned
// once by New and reused by every phase until Close.
type Pool struct {
	numLanes  int
	workC     chan task
	closeOnce sync.Once
	closed    atomic.Bool
}

type task struct {
	fn       func(lane, numLanes int)
	lane     int
	numLanes int
	barrier  *sync.WaitGroup
}

// New returns a pool with numLanes lanes. If numLanes <= 0, GOMAXPROCS
// lanes are used.
func New(numLanes int) *Pool {
	if numLanes <= 0 {
		numLanes = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		numLanes: numLanes,
		workC:    make(chan task, numLanes),
	}
	for range numLanes {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for t := range p.workC {
		t.fn(t.lane, t.numLanes)
		t.barrier.Done()
	}
}

// NumLanes returns the number of lanes a phase is split into. It is 1 for
// a nil or closed pool.
func (p *Pool) NumLanes() int {
	if p.sequential() {
		return 1
	}
	return p.numLanes
}

// Close stops the lanes. Calling Close more than once is safe. A closed
// pool keeps working as a single lane on the calling goroutine.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

func (p *Pool) sequential() bool {
	return p == nil || p.numLanes == 1 || p.closed.Load()
}

// broadcast starts fn on every lane. The caller must wait on wg.
func (p *Pool) broadcast(wg *sync.WaitGroup, fn func(lane, numLanes int)) {
	wg.Add(p.numLanes)
	for lane := range p.numLanes {
		p.workC <- task{fn: fn, lane: lane, numLanes: p.numLanes, barrier: wg}
	}
}

// Run executes fn once per lane and returns after every lane has
// finished.
func (p *Pool) Run(fn func(lane, numLanes int)) {
	if p.sequential() {
		fn(0, 1)
		return
	}
	var wg sync.WaitGroup
	p.broadcast(&wg, fn)
	wg.Wait()
}

// Sweep executes phases one after another in the order given by dir. For
// each phase the coordinator obtains the phase's work range from span and
// runs fn on every lane with that range. No lane starts phase k+1 before
// all lanes have finished phase k.
//
// span for the next phase is evaluated while the lanes are still working
// on the current one, so span must not read data written by fn.
func (p *Pool) Sweep(phases int, dir Direction, span func(phase int) (start, end int), fn func(start, end, lane, numLanes int)) {
	if phases <= 0 {
		return
	}
	phase := func(k int) int {
		if dir == Descending {
			return phases - 1 - k
		}
		return k
	}
	if p.sequential() {
		for k := 0; k < phases; k++ {
			start, end := span(phase(k))
			fn(start, end, 0, 1)
		}
		return
	}

	var wg sync.WaitGroup
	start, end := span(phase(0))
	for k := 0; k < phases; k++ {
		s, e := start, end
		p.broadcast(&wg, func(lane, numLanes int) {
			fn(s, e, lane, numLanes)
		})
		if k+1 < phases {
			start, end = span(phase(k + 1))
		}
		wg.Wait()
	}
}
