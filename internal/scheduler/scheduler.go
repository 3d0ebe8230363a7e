// Package scheduler implements the min-heap event scheduler that sequences
// every peripheral in the core. Nothing in the emulator ticks per-cycle;
// every component that needs to observe time posts a future Event and is
// dispatched when the scheduler's monotonic cycle counter reaches it.
package scheduler

import (
	"container/heap"
	"fmt"
)

// Kind identifies the category of a scheduled event. Declared as a fixed,
// priority-ordered set: lower values are higher priority and win ties when
// two events land on the same cycle.
type Kind int

const (
	VDraw Kind = iota
	HBlank
	VBlank
	Timer0Overflow
	Timer1Overflow
	Timer2Overflow
	Timer3Overflow
	DMA0IRQ
	DMA1IRQ
	DMA2IRQ
	DMA3IRQ
	APUSampleOutput
	Channel1Clock
	Channel2Clock
	Channel3Clock
	Channel4Clock
	Channel1Envelope
	Channel2Envelope
	Channel1FrequencySweep
	Channel1LengthTimer
	Channel2LengthTimer
	Channel3LengthTimer
	Channel4LengthTimer
	HaltIRQWake

	kindCount
)

func (k Kind) String() string {
	names := [...]string{
		"VDraw", "HBlank", "VBlank",
		"Timer0Overflow", "Timer1Overflow", "Timer2Overflow", "Timer3Overflow",
		"DMA0IRQ", "DMA1IRQ", "DMA2IRQ", "DMA3IRQ",
		"APUSampleOutput",
		"Channel1Clock", "Channel2Clock", "Channel3Clock", "Channel4Clock",
		"Channel1Envelope", "Channel2Envelope",
		"Channel1FrequencySweep",
		"Channel1LengthTimer", "Channel2LengthTimer", "Channel3LengthTimer", "Channel4LengthTimer",
		"HaltIRQWake",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Callback is invoked when an event fires. extraCycles is now-cycleToExecute,
// always >= 0, letting periodic callbacks reschedule in phase.
type Callback func(extraCycles uint64)

// event is one entry in the heap. cycleQueued records when schedule() was
// called so elapsedSince can answer "how long has this been pending".
type event struct {
	kind          Kind
	cycleQueued   uint64
	cycleToExec   uint64
	seq           uint64 // heap insertion order: stable tiebreak beyond kind priority
	index         int    // heap.Interface bookkeeping
}

type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].cycleToExec != h[j].cycleToExec {
		return h[i].cycleToExec < h[j].cycleToExec
	}
	if h[i].kind != h[j].kind {
		return h[i].kind < h[j].kind
	}
	return h[i].seq < h[j].seq
}
func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *eventHeap) Push(x any) {
	e := x.(*event)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Scheduler owns the monotonic cycle counter and the min-heap of pending
// events. Callbacks are registered once at boot via Register and dispatched
// by Kind: no closures are stored per-event.
type Scheduler struct {
	now       uint64
	heap      eventHeap
	callbacks [kindCount]Callback
	pending   [kindCount]*event // at most one live entry per kind with "replace" semantics
	nextSeq   uint64
}

// New creates a scheduler with an empty queue and cycle counter at zero.
func New() *Scheduler {
	s := &Scheduler{}
	heap.Init(&s.heap)
	return s
}

// Register installs the callback for a Kind. Must happen at boot, before any
// Schedule call for that Kind. Registering twice is a programmer error.
func (s *Scheduler) Register(kind Kind, cb Callback) {
	if s.callbacks[kind] != nil {
		panic(fmt.Sprintf("scheduler: kind %s already registered", kind))
	}
	s.callbacks[kind] = cb
}

// Now returns the current monotonic cycle count.
func (s *Scheduler) Now() uint64 { return s.now }

// Schedule adds an event for kind at now+cyclesAhead. Every Kind in this
// core carries at most one live instance; scheduling a Kind that already has
// a pending entry replaces it (the previous entry is dropped, never fired).
// cyclesAhead must be positive; a zero delta is silently clamped to 1
// rather than panicking, since scheduling with a non-positive delta is a
// recoverable programmer bug, not a fatal error.
func (s *Scheduler) Schedule(kind Kind, cyclesAhead uint64) {
	if cyclesAhead == 0 {
		cyclesAhead = 1
	}
	if prev := s.pending[kind]; prev != nil {
		s.removeEvent(prev)
	}
	e := &event{
		kind:        kind,
		cycleQueued: s.now,
		cycleToExec: s.now + cyclesAhead,
		seq:         s.nextSeq,
	}
	s.nextSeq++
	s.pending[kind] = e
	heap.Push(&s.heap, e)
}

// Unschedule removes any pending entry for kind, if one exists.
func (s *Scheduler) Unschedule(kind Kind) {
	if prev := s.pending[kind]; prev != nil {
		s.removeEvent(prev)
		s.pending[kind] = nil
	}
}

func (s *Scheduler) removeEvent(e *event) {
	if e.index < 0 || e.index >= len(s.heap) || s.heap[e.index] != e {
		return
	}
	heap.Remove(&s.heap, e.index)
}

// IsScheduled reports whether kind currently has a pending event.
func (s *Scheduler) IsScheduled(kind Kind) bool {
	return s.pending[kind] != nil
}

// ElapsedSince returns now-cycleQueued for kind's pending entry, or false if
// nothing is scheduled for that kind.
func (s *Scheduler) ElapsedSince(kind Kind) (uint64, bool) {
	e := s.pending[kind]
	if e == nil {
		return 0, false
	}
	return s.now - e.cycleQueued, true
}

// CyclesUntil returns the number of cycles remaining before kind's pending
// event fires (0 if it is already due), or false if nothing is scheduled.
func (s *Scheduler) CyclesUntil(kind Kind) (uint64, bool) {
	e := s.pending[kind]
	if e == nil {
		return 0, false
	}
	if e.cycleToExec <= s.now {
		return 0, true
	}
	return e.cycleToExec - s.now, true
}

// Step advances now by cycles, then fires every event whose cycleToExec has
// elapsed. Firing is ordered by (cycleToExec, kind priority, insertion
// order) and is re-entrant: a callback may Schedule new events, including
// ones that land at or before the current now, which will be picked up by
// this same Step before it returns.
func (s *Scheduler) Step(cycles uint64) {
	s.now += cycles
	s.drain()
}

// FireNextEvent advances now directly to the next scheduled event's
// timestamp (a no-op if the queue is empty) and dispatches it, along with
// anything else now due.
func (s *Scheduler) FireNextEvent() {
	if len(s.heap) == 0 {
		return
	}
	next := s.heap[0]
	if next.cycleToExec > s.now {
		s.now = next.cycleToExec
	}
	s.drain()
}

func (s *Scheduler) drain() {
	for len(s.heap) > 0 && s.heap[0].cycleToExec <= s.now {
		e := heap.Pop(&s.heap).(*event)
		if s.pending[e.kind] == e {
			s.pending[e.kind] = nil
		}
		cb := s.callbacks[e.kind]
		if cb == nil {
			continue
		}
		extra := s.now - e.cycleToExec
		cb(extra)
	}
}
