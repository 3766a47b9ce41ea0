package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"StepPull/internal/domain/models"
	"StepPull/pkg/logger"
)

type fakePedometer struct {
	available bool
	startErr  error

	mu         sync.Mutex
	startCalls int
	stopCalls  int
	onUpdate   func(int64)
}

func (f *fakePedometer) IsAvailable(context.Context) bool { return f.available }

func (f *fakePedometer) RequestPermission(context.Context) error { return nil }

func (f *fakePedometer) FetchSteps(context.Context, models.TimeWindow) (int64, error) {
	return 0, nil
}

func (f *fakePedometer) FetchStepsForDate(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (f *fakePedometer) StartRealtimeUpdates(_ context.Context, _ time.Time, onUpdate func(int64)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCalls++
	if f.startErr != nil {
		return f.startErr
	}
	f.onUpdate = onUpdate
	return nil
}

func (f *fakePedometer) StopRealtimeUpdates() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	f.onUpdate = nil
	return nil
}

func (f *fakePedometer) push(steps int64) {
	f.mu.Lock()
	cb := f.onUpdate
	f.mu.Unlock()
	if cb != nil {
		cb(steps)
	}
}

func (f *fakePedometer) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.startCalls, f.stopCalls
}

type sessionMetrics struct{}

func (sessionMetrics) RecordFetch(string, string) {}

func (sessionMetrics) RecordError(string) {}

func (sessionMetrics) RecordRealtimeUpdate(int64) {}

func (sessionMetrics) RecordLatency(string, float64) {}

func sessionLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestSessionStartStop(t *testing.T) {
	ped := &fakePedometer{available: true}
	s := NewSession(ped, sessionMetrics{}, nil, sessionLogger(t))

	s.Start(context.Background(), func(models.StepObservation) {})
	if !s.Active() {
		t.Fatalf("session should be active after start")
	}
	if s.StartedAt().IsZero() {
		t.Fatalf("start time should be recorded")
	}

	s.Stop()
	if s.Active() {
		t.Fatalf("session should be idle after stop")
	}
	if !s.StartedAt().IsZero() {
		t.Fatalf("start time should be cleared on stop")
	}

	starts, stops := ped.counts()
	if starts != 1 || stops != 1 {
		t.Fatalf("got %d starts %d stops, want 1/1", starts, stops)
	}
}

func TestSessionDoubleStartKeepsSingleSubscription(t *testing.T) {
	ped := &fakePedometer{available: true}
	s := NewSession(ped, sessionMetrics{}, nil, sessionLogger(t))
	defer s.Stop()

	s.Start(context.Background(), func(models.StepObservation) {})
	s.Start(context.Background(), func(models.StepObservation) {})

	starts, _ := ped.counts()
	if starts != 1 {
		t.Fatalf("got %d subscriptions, want 1", starts)
	}
}

func TestSessionStopBeforeStartIsNoop(t *testing.T) {
	ped := &fakePedometer{available: true}
	s := NewSession(ped, sessionMetrics{}, nil, sessionLogger(t))

	s.Stop()
	s.Stop()

	_, stops := ped.counts()
	if stops != 0 {
		t.Fatalf("stop before start must not reach the provider")
	}
}

func TestSessionStartSkippedWhenPedometerUnavailable(t *testing.T) {
	ped := &fakePedometer{available: false}
	s := NewSession(ped, sessionMetrics{}, nil, sessionLogger(t))

	s.Start(context.Background(), func(models.StepObservation) {})
	if s.Active() {
		t.Fatalf("session must stay idle without a pedometer")
	}
	starts, _ := ped.counts()
	if starts != 0 {
		t.Fatalf("unavailable provider must not be subscribed")
	}
}

func TestSessionStartRevertsOnSubscribeError(t *testing.T) {
	ped := &fakePedometer{available: true, startErr: errors.New("stream refused")}
	s := NewSession(ped, sessionMetrics{}, nil, sessionLogger(t))

	s.Start(context.Background(), func(models.StepObservation) {})
	if s.Active() {
		t.Fatalf("failed subscription must leave the session idle")
	}
}

func TestSessionDeliversUpdatesInOrder(t *testing.T) {
	ped := &fakePedometer{available: true}

	var mu sync.Mutex
	var got []int64
	s := NewSession(ped, sessionMetrics{}, nil, sessionLogger(t))
	s.Start(context.Background(), func(obs models.StepObservation) {
		mu.Lock()
		got = append(got, obs.Steps)
		mu.Unlock()
	})
	defer s.Stop()

	for i := int64(1); i <= 20; i++ {
		ped.push(i)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n == 20 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("only %d of 20 updates delivered", n)
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	for i, v := range got {
		if v != int64(i+1) {
			t.Fatalf("order broken at %d: %v", i, got[:i+1])
		}
	}
}
