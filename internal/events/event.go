package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	TypeEligibilityComputed = "eligibility.computed"
	TypeReadinessClassified = "readiness.classified"
	TypeLevelUp             = "progress.level_up"
)

const currentVersion = 1

// Event is the envelope written to the events queue.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Version    int             `json:"version"`
	OccurredAt time.Time       `json:"occurredAt"`
	RequestID  string          `json:"requestId,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

// EligibilityComputed is published once per completed quiz.
type EligibilityComputed struct {
	EligibilityID    string  `json:"eligibilityId"`
	QuizID           string  `json:"quizId"`
	UserID           string  `json:"userId"`
	TargetRole       string  `json:"targetRole"`
	EligibilityScore float64 `json:"eligibilityScore"`
	IsEligible       bool    `json:"isEligible"`
	RiskTier         string  `json:"riskTier"`
}

// ReadinessClassified is published for every readiness submission.
type ReadinessClassified struct {
	ResultID       int64   `json:"resultId"`
	TestID         int64   `json:"testId"`
	StudentID      string  `json:"studentId"`
	Percentage     float64 `json:"percentage"`
	Classification string  `json:"classification"`
}

// LevelUp is published when a student reaches a new XP level.
type LevelUp struct {
	UserID  string `json:"userId"`
	Level   int    `json:"level"`
	TotalXP int    `json:"totalXp"`
}

// New wraps payload in an envelope of the given type.
func New(eventType string, payload any, now time.Time) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Version:    currentVersion,
		OccurredAt: now.UTC(),
		Payload:    raw,
	}, nil
}

// Encode returns the JSON representation of an event.
func Encode(evt Event) ([]byte, error) {
	return json.Marshal(evt)
}

// Decode parses a JSON payload into an Event.
func Decode(payload []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return Event{}, err
	}
	if evt.Type == "" {
		return Event{}, fmt.Errorf("event type missing")
	}
	return evt, nil
}

// DecodePayload unmarshals the event payload into dst.
func (e Event) DecodePayload(dst any) error {
	return json.Unmarshal(e.Payload, dst)
}
