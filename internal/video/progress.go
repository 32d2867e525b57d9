package video

import (
	"sync"
	"time"
)

// Stage identifies the pipeline phase a progress event belongs to. Stages
// only ever advance; Done and Failed are terminal.
type Stage int

const (
	StageIdle Stage = iota
	StageSlideProcessing
	StageEncoding
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageSlideProcessing:
		return "building slides"
	case StageEncoding:
		return "encoding"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is one progress update: the active stage and an overall percentage
// in [0,100]. Slide processing covers 0-50, encoding 60-100.
type Event struct {
	Stage   Stage
	Percent float64
}

// Result is the terminal outcome of a render. Path is empty when Err is set.
type Result struct {
	Path string
	Err  error
}

// Bridge connects the blocking render worker to a polling consumer. The
// worker pushes events and exactly one terminal result; the consumer polls
// with a bounded timeout and stops only when the result is available, never
// on queue emptiness.
type Bridge struct {
	events chan Event
	done   chan struct{}

	mu       sync.Mutex
	stage    Stage
	percent  float64
	result   Result
	finished bool
}

func NewBridge() *Bridge {
	return &Bridge{
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
}

// Report pushes a progress event. Events for a stage that already passed
// are dropped, and the percentage is clamped monotonic within a stage. When
// the consumer lags behind, intermediate events are discarded rather than
// blocking the worker.
func (b *Bridge) Report(e Event) {
	b.mu.Lock()
	if b.finished || e.Stage < b.stage {
		b.mu.Unlock()
		return
	}
	if e.Stage == b.stage && e.Percent < b.percent {
		e.Percent = b.percent
	}
	b.stage = e.Stage
	b.percent = e.Percent
	b.mu.Unlock()

	select {
	case b.events <- e:
	default:
	}
}

// Finish records the terminal result and releases all pollers. It is safe
// to call at most once per render; later calls are ignored.
func (b *Bridge) Finish(path string, err error) {
	b.mu.Lock()
	if b.finished {
		b.mu.Unlock()
		return
	}
	b.finished = true
	b.result = Result{Path: path, Err: err}

	final := Event{Stage: StageDone, Percent: 100}
	if err != nil {
		final = Event{Stage: StageFailed, Percent: b.percent}
	}
	b.stage = final.Stage
	b.mu.Unlock()

	select {
	case b.events <- final:
	default:
	}
	close(b.done)
}

// Poll waits up to timeout for the next progress event. A false return
// means the interval elapsed quietly, not that the render finished.
func (b *Bridge) Poll(timeout time.Duration) (Event, bool) {
	select {
	case e := <-b.events:
		return e, true
	case <-time.After(timeout):
		return Event{}, false
	}
}

// Finished reports whether the worker reached a terminal state, and the
// result when it did.
func (b *Bridge) Finished() (Result, bool) {
	select {
	case <-b.done:
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.result, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the render reaches a terminal state.
func (b *Bridge) Wait() Result {
	<-b.done
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result
}

// Watch drives a consumer loop: fn observes every event until the terminal
// result, polling with the given bounded interval.
func (b *Bridge) Watch(interval time.Duration, fn func(Event)) Result {
	for {
		select {
		case e := <-b.events:
			fn(e)
		case <-time.After(interval):
		case <-b.done:
			for {
				select {
				case e := <-b.events:
					fn(e)
				default:
					b.mu.Lock()
					res := b.result
					b.mu.Unlock()
					return res
				}
			}
		}
	}
}
