package readiness

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrTestDisabled     = errors.New("readiness test is disabled")
	ErrAlreadySubmitted = errors.New("readiness test already submitted")
	ErrInvalidInput     = errors.New("invalid input")
)

// TestStatus controls whether students may submit.
type TestStatus string

const (
	TestEnabled  TestStatus = "enabled"
	TestDisabled TestStatus = "disabled"
)

// Test is a readiness test definition.
type Test struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Status    TestStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Category is a readiness test section.
type Category string

const (
	CategoryAptitude  Category = "aptitude"
	CategoryReasoning Category = "reasoning"
	CategoryEnglish   Category = "english"
	CategoryCore      Category = "core"
)

// Nominal question counts per section of the standard test.
var NominalQuestions = map[Category]int{
	CategoryAptitude:  9,
	CategoryReasoning: 9,
	CategoryEnglish:   6,
	CategoryCore:      36,
}

const (
	DefaultTotalQuestions   = 60
	DefaultTimeTakenMinutes = 60
)

// Answer is one answered question as submitted by the client.
type Answer struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	Category      Category `json:"category"`
	SelectedIndex *int     `json:"selected_index" validate:"omitempty,gte=0"`
	CorrectIndex  *int     `json:"correct_index" validate:"omitempty,gte=0"`
	IsCorrect     bool     `json:"is_correct"`
}

// Submission is a student's completed test.
type Submission struct {
	Answers          []Answer `json:"answers" validate:"dive"`
	TimeTakenMinutes *int     `json:"time_taken" validate:"omitempty,gte=0"`
	Department       string   `json:"department" validate:"max=100"`
	Year             int      `json:"year" validate:"gte=0,lte=10"`
}

// CategoryScores are raw correct counts per section.
type CategoryScores struct {
	Aptitude  int `json:"aptitude"`
	Reasoning int `json:"reasoning"`
	English   int `json:"english"`
	Core      int `json:"core"`
}

func (s CategoryScores) total() int {
	return s.Aptitude + s.Reasoning + s.English + s.Core
}

// Result is the stored outcome of one submission.
type Result struct {
	ID               int64          `json:"id"`
	TestID           int64          `json:"testId"`
	StudentID        string         `json:"studentId"`
	Department       string         `json:"department,omitempty"`
	Year             int            `json:"year,omitempty"`
	Percentage       float64        `json:"percentage"`
	TotalCorrect     int            `json:"totalCorrect"`
	TotalQuestions   int            `json:"totalQuestions"`
	Classification   Classification `json:"classification"`
	Scores           CategoryScores `json:"scores"`
	TimeTakenMinutes int            `json:"timeTakenMinutes"`
	Answers          []Answer       `json:"answers"`
	StartedAt        time.Time      `json:"startedAt"`
	CompletedAt      time.Time      `json:"completedAt"`
}

// Filter narrows an insights listing.
type Filter struct {
	Search         string
	Classification Classification
}
