package usecase

import (
	"context"
	"sync"
	"time"

	"StepPull/internal/domain/models"
)

// fakeHistorical is a scriptable healthstore stand-in.
type fakeHistorical struct {
	available  bool
	authorized bool
	steps      int64
	fetchErr   error
	permErr    error

	fetchCalls int
	permCalls  int
	fetchFn    func(w models.TimeWindow) (int64, error)
}

func (f *fakeHistorical) IsAvailable(context.Context) bool  { return f.available }
func (f *fakeHistorical) IsAuthorized(context.Context) bool { return f.authorized }

func (f *fakeHistorical) RequestPermission(context.Context) error {
	f.permCalls++
	return f.permErr
}

func (f *fakeHistorical) FetchSteps(_ context.Context, w models.TimeWindow) (int64, error) {
	f.fetchCalls++
	if f.fetchFn != nil {
		return f.fetchFn(w)
	}
	return f.steps, f.fetchErr
}

func (f *fakeHistorical) FetchStepsForDate(ctx context.Context, date time.Time) (int64, error) {
	return f.FetchSteps(ctx, models.DayWindow(date))
}

// fakeRecent is a scriptable pedometer stand-in.
type fakeRecent struct {
	available bool
	steps     int64
	fetchErr  error
	permErr   error

	fetchCalls int
	permCalls  int
	fetchFn    func(w models.TimeWindow) (int64, error)
}

func (f *fakeRecent) IsAvailable(context.Context) bool { return f.available }

func (f *fakeRecent) RequestPermission(context.Context) error {
	f.permCalls++
	return f.permErr
}

func (f *fakeRecent) FetchSteps(_ context.Context, w models.TimeWindow) (int64, error) {
	f.fetchCalls++
	if f.fetchFn != nil {
		return f.fetchFn(w)
	}
	return f.steps, f.fetchErr
}

func (f *fakeRecent) FetchStepsForDate(ctx context.Context, date time.Time) (int64, error) {
	return f.FetchSteps(ctx, models.DayWindow(date))
}

func (f *fakeRecent) StartRealtimeUpdates(context.Context, time.Time, func(int64)) error {
	return nil
}

func (f *fakeRecent) StopRealtimeUpdates() error { return nil }

// stubMetrics counts recorder calls so tests can assert on fallback paths.
type stubMetrics struct {
	mu      sync.Mutex
	errors  map[string]int
	fetches map[string]int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{errors: make(map[string]int), fetches: make(map[string]int)}
}

func (m *stubMetrics) RecordFetch(source, result string) {
	m.mu.Lock()
	m.fetches[source+"/"+result]++
	m.mu.Unlock()
}

func (m *stubMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}

func (m *stubMetrics) RecordRealtimeUpdate(int64) {}

func (m *stubMetrics) RecordLatency(string, float64) {}

func (m *stubMetrics) errorCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[kind]
}

// memObservationCache is an in-process ObservationCache for service tests.
type memObservationCache struct {
	m map[time.Time]models.StepObservation
}

func newMemObservationCache() *memObservationCache {
	return &memObservationCache{m: make(map[time.Time]models.StepObservation)}
}

func (c *memObservationCache) Get(_ context.Context, day time.Time) (models.StepObservation, bool) {
	obs, ok := c.m[day]
	return obs, ok
}

func (c *memObservationCache) Put(_ context.Context, day time.Time, obs models.StepObservation) {
	c.m[day] = obs
}
