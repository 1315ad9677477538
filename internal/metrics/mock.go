package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                sync.Mutex
	eventsRecorded    int
	eventsUndone      int
	eventsRejected    map[string]int
	mutationDurations []float64
	selectionsRun     int
	slackNotifSent    int
	slackNotifFailed  int
	eventsPublished   int
	startupTime       float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		eventsRejected:    make(map[string]int),
		mutationDurations: make([]float64, 0),
	}
}

func (m *Mock) IncEventsRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsRecorded++
}

func (m *Mock) IncEventsUndone() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsUndone++
}

func (m *Mock) IncEventsRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsRejected[reason]++
}

func (m *Mock) ObserveMutationDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutationDurations = append(m.mutationDurations, duration)
}

func (m *Mock) IncSelectionsRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectionsRun++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) IncEventsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsPublished++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// EventsRecorded returns the number of times IncEventsRecorded was called.
func (m *Mock) EventsRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsRecorded
}

// EventsUndone returns the number of times IncEventsUndone was called.
func (m *Mock) EventsUndone() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsUndone
}

// EventsRejected returns how often IncEventsRejected was called with reason.
func (m *Mock) EventsRejected(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsRejected[reason]
}

// MutationDurations returns every duration passed to ObserveMutationDuration.
func (m *Mock) MutationDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.mutationDurations...)
}

// SelectionsRun returns the number of times IncSelectionsRun was called.
func (m *Mock) SelectionsRun() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectionsRun
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// EventsPublished returns the number of times IncEventsPublished was called.
func (m *Mock) EventsPublished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsPublished
}
