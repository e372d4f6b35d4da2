package eligibility

import (
	"errors"
	"time"

	"careerlytics-backend/internal/roles"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("eligibility already recorded for quiz")
)

// Eligibility is the persisted verdict for one completed quiz.
type Eligibility struct {
	ID                  string           `json:"id"`
	QuizID              string           `json:"quizId"`
	UserID              string           `json:"userId"`
	ResumeAnalysisID    string           `json:"resumeAnalysisId,omitempty"`
	TargetRole          roles.Role       `json:"targetRole"`
	ResumeScoreWeighted float64          `json:"resumeScoreWeighted"`
	QuizScoreWeighted   float64          `json:"quizScoreWeighted"`
	EligibilityScore    float64          `json:"eligibilityScore"`
	IsEligible          bool             `json:"isEligible"`
	RiskTier            string           `json:"riskTier"`
	Warning             string           `json:"warning"`
	ImprovementAreas    []string         `json:"improvementAreas"`
	Breakdown           Breakdown        `json:"breakdown"`
	Recommendations     []Recommendation `json:"recommendations"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}

// applyResult copies the calculated fields onto e.
func (e *Eligibility) applyResult(res Result) {
	e.ResumeScoreWeighted = res.ResumeScoreWeighted
	e.QuizScoreWeighted = res.QuizScoreWeighted
	e.EligibilityScore = res.EligibilityScore
	e.IsEligible = res.IsEligible
	e.RiskTier = res.RiskTier
	e.Warning = res.Warning
	e.Breakdown = res.Breakdown
}
