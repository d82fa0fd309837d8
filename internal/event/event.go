package event

import (
	"context"
	"time"
)

type Type string

const (
	TypeBallotCast       Type = "ballot.cast"
	TypeCandidateCreated Type = "candidate.created"
	TypeCandidateUpdated Type = "candidate.updated"
	TypeCandidateDeleted Type = "candidate.deleted"
)

// Event is the envelope written to the message broker. Key selects the
// partition so events of one aggregate stay ordered.
type Event struct {
	Type       Type      `json:"type"`
	Key        string    `json:"-"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func New(t Type, key string, payload any) Event {
	return Event{
		Type:       t,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
