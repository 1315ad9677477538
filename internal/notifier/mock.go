package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/crease/internal/rating"
	"github.com/mauv0809/crease/internal/selection"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Optional error to return from every Send call
	Err error

	// Call records
	SendInningsSummaryCalls []InningsSummary
	SendPlayingXICalls      []struct {
		Result selection.Result
		Quotas selection.Quotas
		DryRun bool
	}
	SendRatingsCalls [][]rating.Profile
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendInningsSummaryCalls = nil
	m.SendPlayingXICalls = nil
	m.SendRatingsCalls = nil
}

func (m *Mock) SendInningsSummary(_ context.Context, summary InningsSummary, _ bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendInningsSummaryCalls = append(m.SendInningsSummaryCalls, summary)
	return m.Err
}

func (m *Mock) SendPlayingXI(_ context.Context, result selection.Result, quotas selection.Quotas, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPlayingXICalls = append(m.SendPlayingXICalls, struct {
		Result selection.Result
		Quotas selection.Quotas
		DryRun bool
	}{result, quotas, dryRun})
	return m.Err
}

func (m *Mock) SendRatings(_ context.Context, profiles []rating.Profile, _ bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendRatingsCalls = append(m.SendRatingsCalls, profiles)
	return m.Err
}

// InningsSummaries returns a copy of the recorded SendInningsSummary calls.
func (m *Mock) InningsSummaries() []InningsSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]InningsSummary(nil), m.SendInningsSummaryCalls...)
}
