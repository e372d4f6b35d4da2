package eligibility

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"careerlytics-backend/internal/events"
	"careerlytics-backend/internal/shared/metrics"
	"careerlytics-backend/internal/shared/telemetry"
)

// Service records and serves eligibility verdicts.
type Service struct {
	Repo      Repo
	Publisher events.Publisher
	Now       func() time.Time
}

// NewService constructs a Service; a nil publisher drops events.
func NewService(repo Repo, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Service{Repo: repo, Publisher: publisher, Now: time.Now}
}

// Record calculates and stores the verdict for a completed quiz. It is
// called once per quiz; a repeat returns ErrAlreadyExists.
func (s *Service) Record(ctx context.Context, resume *ResumeScores, quiz QuizScores) (Eligibility, error) {
	if quiz.QuizID == "" || quiz.UserID == "" {
		return Eligibility{}, errors.New("quiz id and user id are required")
	}
	res := Calculate(resume, quiz)
	now := s.now()

	e := Eligibility{
		ID:               uuid.NewString(),
		QuizID:           quiz.QuizID,
		UserID:           quiz.UserID,
		TargetRole:       quiz.TargetRole,
		ImprovementAreas: res.ImprovementAreas,
		Recommendations:  res.Recommendations,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if resume != nil {
		e.ResumeAnalysisID = resume.AnalysisID
	}
	e.applyResult(res)

	if err := s.Repo.Create(ctx, e); err != nil {
		return Eligibility{}, fmt.Errorf("record eligibility quiz=%s: %w", quiz.QuizID, err)
	}

	metrics.ObserveEligibility(e.RiskTier, e.EligibilityScore)
	telemetry.Info("eligibility.recorded", map[string]any{
		"quiz_id":           e.QuizID,
		"user_id":           e.UserID,
		"target_role":       string(e.TargetRole),
		"eligibility_score": e.EligibilityScore,
		"risk_tier":         e.RiskTier,
		"default_resume":    resume == nil,
		"recommendations":   len(e.Recommendations),
	})
	s.publish(ctx, e)
	return e, nil
}

// Rescore recalculates the score fields of an existing record.
func (s *Service) Rescore(ctx context.Context, resume *ResumeScores, quiz QuizScores) (Eligibility, error) {
	e, err := s.Repo.GetByQuiz(ctx, quiz.QuizID)
	if err != nil {
		return Eligibility{}, err
	}
	before := e.EligibilityScore
	e.applyResult(Calculate(resume, quiz))
	e.UpdatedAt = s.now()
	if err := s.Repo.UpdateScores(ctx, e); err != nil {
		return Eligibility{}, fmt.Errorf("rescore eligibility quiz=%s: %w", quiz.QuizID, err)
	}
	telemetry.Warn("eligibility.rescored", map[string]any{
		"quiz_id": quiz.QuizID,
		"before":  before,
		"after":   e.EligibilityScore,
	})
	return e, nil
}

// GetByQuiz returns the verdict for a quiz owned by userID.
func (s *Service) GetByQuiz(ctx context.Context, userID, quizID string) (Eligibility, error) {
	e, err := s.Repo.GetByQuiz(ctx, quizID)
	if err != nil {
		return Eligibility{}, err
	}
	if e.UserID != userID {
		return Eligibility{}, ErrNotFound
	}
	return e, nil
}

// ListByUser returns the user's verdicts, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Eligibility, error) {
	if userID == "" {
		return nil, errors.New("user id required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) publish(ctx context.Context, e Eligibility) {
	evt, err := events.New(events.TypeEligibilityComputed, events.EligibilityComputed{
		EligibilityID:    e.ID,
		QuizID:           e.QuizID,
		UserID:           e.UserID,
		TargetRole:       string(e.TargetRole),
		EligibilityScore: e.EligibilityScore,
		IsEligible:       e.IsEligible,
		RiskTier:         e.RiskTier,
	}, s.now())
	if err == nil {
		err = s.Publisher.Publish(ctx, evt)
	}
	if err != nil {
		telemetry.Warn("eligibility.publish_failed", map[string]any{"quiz_id": e.QuizID, "error": err})
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
