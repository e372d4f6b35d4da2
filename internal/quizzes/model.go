package quizzes

import (
	"errors"
	"fmt"
	"time"

	"careerlytics-backend/internal/roles"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid quiz status transition")
	ErrUnknownQuestion   = errors.New("question is not part of this quiz")
	ErrInvalidOption     = errors.New("selected option is not one of the question's options")
	ErrNotCompleted      = errors.New("quiz is not completed")
)

// Status of a role quiz. It only ever moves forward.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

var nextStatus = map[Status]Status{
	StatusPending:    StatusInProgress,
	StatusInProgress: StatusCompleted,
}

// Quiz is one role quiz attempt opened by a resume upload.
type Quiz struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	ResumeAnalysisID string     `json:"resumeAnalysisId,omitempty"`
	TargetRole       roles.Role `json:"targetRole"`
	Status           Status     `json:"status"`
	Difficulty       Difficulty `json:"difficulty,omitempty"`
	Questions        []Question `json:"-"`
	Scores           Scores     `json:"scores"`
	TimeLimitSeconds int        `json:"timeLimitSeconds"`
	TimeTakenSeconds int        `json:"timeTakenSeconds"`
	StartedAt        *time.Time `json:"startedAt,omitempty"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (q *Quiz) transition(to Status) error {
	if nextStatus[q.Status] != to {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, q.Status, to)
	}
	q.Status = to
	return nil
}

func (q Quiz) question(id string) (Question, bool) {
	for _, item := range q.Questions {
		if item.ID == id {
			return item, true
		}
	}
	return Question{}, false
}

// PublicQuestion is a question as sent to the student, without the answer.
type PublicQuestion struct {
	ID           string     `json:"id"`
	Number       int        `json:"number"`
	Category     Category   `json:"category"`
	Difficulty   Difficulty `json:"difficulty"`
	QuestionText string     `json:"questionText"`
	Options      []string   `json:"options"`
}

// PublicQuestions strips answers and explanations.
func PublicQuestions(qs []Question) []PublicQuestion {
	out := make([]PublicQuestion, 0, len(qs))
	for _, q := range qs {
		out = append(out, PublicQuestion{
			ID:           q.ID,
			Number:       q.Number,
			Category:     q.Category,
			Difficulty:   q.Difficulty,
			QuestionText: q.QuestionText,
			Options:      q.Options,
		})
	}
	return out
}
