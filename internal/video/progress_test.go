package video

import (
	"errors"
	"testing"
	"time"
)

func TestBridgeDeliversEvents(t *testing.T) {
	b := NewBridge()
	b.Report(Event{Stage: StageSlideProcessing, Percent: 25})

	e, ok := b.Poll(time.Second)
	if !ok {
		t.Fatal("expected an event")
	}
	if e.Stage != StageSlideProcessing || e.Percent != 25 {
		t.Errorf("event = %+v", e)
	}
}

func TestBridgePollTimeout(t *testing.T) {
	b := NewBridge()

	start := time.Now()
	_, ok := b.Poll(50 * time.Millisecond)
	if ok {
		t.Fatal("expected no event")
	}
	if time.Since(start) > time.Second {
		t.Error("poll did not respect timeout")
	}

	if _, done := b.Finished(); done {
		t.Error("empty queue must not read as finished")
	}
}

func TestBridgeMonotonicWithinStage(t *testing.T) {
	b := NewBridge()
	b.Report(Event{Stage: StageSlideProcessing, Percent: 30})
	b.Report(Event{Stage: StageSlideProcessing, Percent: 10})

	<-b.events
	e := <-b.events
	if e.Percent != 30 {
		t.Errorf("percent regressed to %.1f, want clamped at 30", e.Percent)
	}
}

func TestBridgeDropsPastStageEvents(t *testing.T) {
	b := NewBridge()
	b.Report(Event{Stage: StageEncoding, Percent: 70})
	b.Report(Event{Stage: StageSlideProcessing, Percent: 40})

	<-b.events
	select {
	case e := <-b.events:
		t.Errorf("stale event delivered: %+v", e)
	default:
	}
}

func TestBridgeFinishSuccess(t *testing.T) {
	b := NewBridge()
	b.Finish("/tmp/out.mp4", nil)

	result, done := b.Finished()
	if !done {
		t.Fatal("expected finished")
	}
	if result.Path != "/tmp/out.mp4" || result.Err != nil {
		t.Errorf("result = %+v", result)
	}

	e, ok := b.Poll(time.Second)
	if !ok || e.Stage != StageDone || e.Percent != 100 {
		t.Errorf("terminal event = %+v, ok = %v", e, ok)
	}
}

func TestBridgeFinishFailure(t *testing.T) {
	b := NewBridge()
	wantErr := errors.New("encode blew up")
	b.Finish("", wantErr)

	result := b.Wait()
	if !errors.Is(result.Err, wantErr) {
		t.Errorf("err = %v, want %v", result.Err, wantErr)
	}
	if result.Path != "" {
		t.Errorf("path = %q, want empty on failure", result.Path)
	}

	e, ok := b.Poll(time.Second)
	if !ok || e.Stage != StageFailed {
		t.Errorf("terminal event = %+v, ok = %v", e, ok)
	}
}

func TestBridgeFinishIdempotent(t *testing.T) {
	b := NewBridge()
	b.Finish("/tmp/first.mp4", nil)
	b.Finish("", errors.New("late failure"))

	result := b.Wait()
	if result.Path != "/tmp/first.mp4" || result.Err != nil {
		t.Errorf("result = %+v, want first outcome kept", result)
	}
}

func TestBridgeIgnoresReportsAfterFinish(t *testing.T) {
	b := NewBridge()
	b.Finish("/tmp/out.mp4", nil)
	b.Report(Event{Stage: StageEncoding, Percent: 80})

	<-b.events
	select {
	case e := <-b.events:
		t.Errorf("post-finish event delivered: %+v", e)
	default:
	}
}

func TestBridgeWatch(t *testing.T) {
	b := NewBridge()
	go func() {
		b.Report(Event{Stage: StageSlideProcessing, Percent: 50})
		b.Report(Event{Stage: StageEncoding, Percent: 80})
		b.Finish("/tmp/out.mp4", nil)
	}()

	var stages []Stage
	result := b.Watch(10*time.Millisecond, func(e Event) {
		stages = append(stages, e.Stage)
	})

	if result.Path != "/tmp/out.mp4" {
		t.Errorf("path = %q", result.Path)
	}
	if len(stages) == 0 || stages[len(stages)-1] != StageDone {
		t.Errorf("stages = %v, want trailing done", stages)
	}
}
