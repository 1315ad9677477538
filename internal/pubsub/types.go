package pubsub

import (
	"cloud.google.com/go/pubsub"
	"github.com/mauv0809/crease/internal/cricket"
)

type client struct {
	client *pubsub.Client
}

// EventType represents the type of event/message sent via pubsub. It doubles as the topic name.
type EventType string

const (
	EventBallRecorded     EventType = "ball-recorded"
	EventBallUndone       EventType = "ball-undone"
	EventInningsCompleted EventType = "innings-completed"
)

// BallRecorded is published after a delivery is appended to an innings.
type BallRecorded struct {
	MatchID    int64                 `msgpack:"match_id"`
	InningsID  int64                 `msgpack:"innings_id"`
	EventID    int64                 `msgpack:"event_id"`
	Runs       int                   `msgpack:"runs"`
	IsWicket   bool                  `msgpack:"is_wicket"`
	TotalRuns  int                   `msgpack:"total_runs"`
	Wickets    int                   `msgpack:"wickets"`
	LegalBalls int                   `msgpack:"legal_balls"`
	Status     cricket.InningsStatus `msgpack:"status"`
}

// BallUndone is published after the last delivery of an innings is removed.
type BallUndone struct {
	MatchID    int64 `msgpack:"match_id"`
	InningsID  int64 `msgpack:"innings_id"`
	TotalRuns  int   `msgpack:"total_runs"`
	Wickets    int   `msgpack:"wickets"`
	LegalBalls int   `msgpack:"legal_balls"`
}

// InningsCompleted is published once when a delivery ends an innings.
type InningsCompleted struct {
	MatchID   int64 `msgpack:"match_id"`
	InningsID int64 `msgpack:"innings_id"`
}

// PushEnvelope is the JSON body Pub/Sub push subscriptions deliver.
type PushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		ID   string `json:"messageId"`
		Data string `json:"data"`
	} `json:"message"`
}
