package ledger

import (
	"context"
	"sync"

	"github.com/mauv0809/crease/internal/cricket"
)

// MockLedger is a mock implementation of the Ledger interface for testing.
// It is safe for concurrent use.
type MockLedger struct {
	mu sync.Mutex

	CreateMatchWithSquadsFunc func(setup MatchSetup) (int64, error)
	GetOrCreateInningsFunc    func(matchID int64, inningsNo int, battingTeamID, bowlingTeamID int64) (int64, error)
	AppendEventFunc           func(in EventInput) (int64, error)
	UndoLastEventFunc         func(inningsID int64) (bool, error)
	RecomputeFunc             func(matchID int64) error
	DeactivatePlayerFunc      func(playerName string) error
	GetMatchFunc              func(matchID int64) (*Match, error)
	ListMatchesFunc           func() ([]Match, error)
	GetInningsFunc            func(inningsID int64) (*Innings, error)
	ListInningsForMatchFunc   func(matchID int64) ([]Innings, error)
	GetBallEventsFunc         func(inningsID int64, limit int) ([]BallEvent, error)
	GetMatchBattingStatsFunc  func(matchID int64) ([]BattingStats, error)
	GetMatchBowlingStatsFunc  func(matchID int64) ([]BowlingStats, error)
	GetMatchSquadsFunc        func(matchID int64) (map[string][]SquadPlayer, error)
	GetPlayerTeamMapFunc      func() (map[string]string, error)
	LoadPlayerStatsFunc       func() ([]cricket.PlayerStats, error)

	// Call records
	CreateMatchWithSquadsCalls []MatchSetup
	AppendEventCalls           []EventInput
	UndoLastEventCalls         []int64
	RecomputeCalls             []int64
	DeactivatePlayerCalls      []string
}

// NewMock creates a new mock instance.
func NewMock() *MockLedger {
	return &MockLedger{}
}

func (m *MockLedger) CreateMatchWithSquads(_ context.Context, setup MatchSetup) (int64, error) {
	m.mu.Lock()
	m.CreateMatchWithSquadsCalls = append(m.CreateMatchWithSquadsCalls, setup)
	m.mu.Unlock()
	if m.CreateMatchWithSquadsFunc != nil {
		return m.CreateMatchWithSquadsFunc(setup)
	}
	return 1, nil
}

func (m *MockLedger) GetOrCreateInnings(_ context.Context, matchID int64, inningsNo int, battingTeamID, bowlingTeamID int64) (int64, error) {
	if m.GetOrCreateInningsFunc != nil {
		return m.GetOrCreateInningsFunc(matchID, inningsNo, battingTeamID, bowlingTeamID)
	}
	return 1, nil
}

func (m *MockLedger) AppendEvent(_ context.Context, in EventInput) (int64, error) {
	m.mu.Lock()
	m.AppendEventCalls = append(m.AppendEventCalls, in)
	m.mu.Unlock()
	if m.AppendEventFunc != nil {
		return m.AppendEventFunc(in)
	}
	return 1, nil
}

func (m *MockLedger) UndoLastEvent(_ context.Context, inningsID int64) (bool, error) {
	m.mu.Lock()
	m.UndoLastEventCalls = append(m.UndoLastEventCalls, inningsID)
	m.mu.Unlock()
	if m.UndoLastEventFunc != nil {
		return m.UndoLastEventFunc(inningsID)
	}
	return false, nil
}

func (m *MockLedger) Recompute(_ context.Context, matchID int64) error {
	m.mu.Lock()
	m.RecomputeCalls = append(m.RecomputeCalls, matchID)
	m.mu.Unlock()
	if m.RecomputeFunc != nil {
		return m.RecomputeFunc(matchID)
	}
	return nil
}

func (m *MockLedger) DeactivatePlayer(_ context.Context, playerName string) error {
	m.mu.Lock()
	m.DeactivatePlayerCalls = append(m.DeactivatePlayerCalls, playerName)
	m.mu.Unlock()
	if m.DeactivatePlayerFunc != nil {
		return m.DeactivatePlayerFunc(playerName)
	}
	return nil
}

func (m *MockLedger) GetMatch(_ context.Context, matchID int64) (*Match, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, ErrMatchNotFound
}

func (m *MockLedger) ListMatches(_ context.Context) ([]Match, error) {
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc()
	}
	return []Match{}, nil
}

func (m *MockLedger) GetInnings(_ context.Context, inningsID int64) (*Innings, error) {
	if m.GetInningsFunc != nil {
		return m.GetInningsFunc(inningsID)
	}
	return nil, ErrInningsNotFound
}

func (m *MockLedger) ListInningsForMatch(_ context.Context, matchID int64) ([]Innings, error) {
	if m.ListInningsForMatchFunc != nil {
		return m.ListInningsForMatchFunc(matchID)
	}
	return []Innings{}, nil
}

func (m *MockLedger) GetBallEvents(_ context.Context, inningsID int64, limit int) ([]BallEvent, error) {
	if m.GetBallEventsFunc != nil {
		return m.GetBallEventsFunc(inningsID, limit)
	}
	return []BallEvent{}, nil
}

func (m *MockLedger) GetMatchBattingStats(_ context.Context, matchID int64) ([]BattingStats, error) {
	if m.GetMatchBattingStatsFunc != nil {
		return m.GetMatchBattingStatsFunc(matchID)
	}
	return []BattingStats{}, nil
}

func (m *MockLedger) GetMatchBowlingStats(_ context.Context, matchID int64) ([]BowlingStats, error) {
	if m.GetMatchBowlingStatsFunc != nil {
		return m.GetMatchBowlingStatsFunc(matchID)
	}
	return []BowlingStats{}, nil
}

func (m *MockLedger) GetMatchSquads(_ context.Context, matchID int64) (map[string][]SquadPlayer, error) {
	if m.GetMatchSquadsFunc != nil {
		return m.GetMatchSquadsFunc(matchID)
	}
	return map[string][]SquadPlayer{}, nil
}

func (m *MockLedger) GetPlayerTeamMap(_ context.Context) (map[string]string, error) {
	if m.GetPlayerTeamMapFunc != nil {
		return m.GetPlayerTeamMapFunc()
	}
	return map[string]string{}, nil
}

func (m *MockLedger) LoadPlayerStats(_ context.Context) ([]cricket.PlayerStats, error) {
	if m.LoadPlayerStatsFunc != nil {
		return m.LoadPlayerStatsFunc()
	}
	return []cricket.PlayerStats{}, nil
}
