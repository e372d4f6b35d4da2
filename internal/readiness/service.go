package readiness

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"careerlytics-backend/internal/events"
	"careerlytics-backend/internal/progress"
	"careerlytics-backend/internal/shared/metrics"
	"careerlytics-backend/internal/shared/telemetry"
)

// ProgressAwarder credits XP for finished activities.
type ProgressAwarder interface {
	Award(ctx context.Context, act progress.Activity) (progress.Award, error)
}

// Service handles submissions and the placement cell's test administration.
type Service struct {
	Repo       Repo
	Thresholds ThresholdStore
	Publisher  events.Publisher
	Progress   ProgressAwarder
	Now        func() time.Time
}

// NewService constructs a Service; a nil publisher drops events.
func NewService(repo Repo, thresholds ThresholdStore, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Service{Repo: repo, Thresholds: thresholds, Publisher: publisher, Now: time.Now}
}

// Submit grades and stores a student's submission. Each student may submit
// once per test until the test's results are reset.
func (s *Service) Submit(ctx context.Context, studentID string, testID int64, sub Submission) (Result, error) {
	if strings.TrimSpace(studentID) == "" {
		return Result{}, fmt.Errorf("%w: student id required", ErrInvalidInput)
	}
	test, err := s.Repo.GetTest(ctx, testID)
	if err != nil {
		return Result{}, err
	}
	if test.Status != TestEnabled {
		return Result{}, ErrTestDisabled
	}

	scored := Grade(sub, s.Thresholds.Load(testID))
	minutes := DefaultTimeTakenMinutes
	if sub.TimeTakenMinutes != nil {
		minutes = *sub.TimeTakenMinutes
	}
	now := s.now()
	res := Result{
		TestID:           testID,
		StudentID:        studentID,
		Department:       strings.TrimSpace(sub.Department),
		Year:             sub.Year,
		Percentage:       scored.Percentage,
		TotalCorrect:     scored.TotalCorrect,
		TotalQuestions:   scored.TotalQuestions,
		Classification:   scored.Classification,
		Scores:           scored.Scores,
		TimeTakenMinutes: minutes,
		Answers:          scored.Answers,
		StartedAt:        now.Add(-time.Duration(minutes) * time.Minute),
		CompletedAt:      now,
	}
	if err := s.Repo.CreateResult(ctx, &res); err != nil {
		return Result{}, err
	}

	metrics.IncReadinessClassification(string(res.Classification))
	telemetry.Info("readiness.submitted", map[string]any{
		"result_id":      res.ID,
		"test_id":        testID,
		"student_id":     studentID,
		"percentage":     res.Percentage,
		"classification": string(res.Classification),
		"questions":      res.TotalQuestions,
	})
	s.publish(ctx, res)
	s.award(ctx, res)
	return res, nil
}

// Result returns the student's result for a test.
func (s *Service) Result(ctx context.Context, studentID string, testID int64) (Result, error) {
	return s.Repo.GetResult(ctx, testID, studentID)
}

// GetThresholds returns the thresholds in effect for a test.
func (s *Service) GetThresholds(ctx context.Context, testID int64) (Thresholds, error) {
	if _, err := s.Repo.GetTest(ctx, testID); err != nil {
		return Thresholds{}, err
	}
	return s.Thresholds.Load(testID), nil
}

// SetThresholds stores new thresholds. Existing results keep the
// classification they were given at submission time.
func (s *Service) SetThresholds(ctx context.Context, testID int64, t Thresholds) (Thresholds, error) {
	if _, err := s.Repo.GetTest(ctx, testID); err != nil {
		return Thresholds{}, err
	}
	if err := s.Thresholds.Save(testID, t); err != nil {
		return Thresholds{}, err
	}
	telemetry.Info("readiness.thresholds_updated", map[string]any{
		"test_id":           testID,
		"placement_ready":   t.PlacementReady,
		"needs_improvement": t.NeedsImprovement,
		"at_risk":           t.AtRisk,
	})
	return t, nil
}

// SetStatus enables or disables submissions for a test.
func (s *Service) SetStatus(ctx context.Context, testID int64, status TestStatus) (Test, error) {
	if status != TestEnabled && status != TestDisabled {
		return Test{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	t, err := s.Repo.SetTestStatus(ctx, testID, status)
	if err != nil {
		return Test{}, err
	}
	telemetry.Info("readiness.status_changed", map[string]any{"test_id": testID, "status": string(status)})
	return t, nil
}

// Insights aggregates the results matching f.
func (s *Service) Insights(ctx context.Context, testID int64, f Filter) (Insights, error) {
	test, err := s.Repo.GetTest(ctx, testID)
	if err != nil {
		return Insights{}, err
	}
	results, err := s.Repo.ListResults(ctx, testID, f)
	if err != nil {
		return Insights{}, fmt.Errorf("list readiness results test=%d: %w", testID, err)
	}
	out := BuildInsights(results)
	out.Test = test
	out.Thresholds = s.Thresholds.Load(testID)
	return out, nil
}

// Reset deletes every result of a test so students may submit again.
func (s *Service) Reset(ctx context.Context, testID int64) (int64, error) {
	if _, err := s.Repo.GetTest(ctx, testID); err != nil {
		return 0, err
	}
	n, err := s.Repo.DeleteResults(ctx, testID)
	if err != nil {
		return 0, fmt.Errorf("reset readiness test=%d: %w", testID, err)
	}
	telemetry.Warn("readiness.reset", map[string]any{"test_id": testID, "deleted": n})
	return n, nil
}

func (s *Service) publish(ctx context.Context, res Result) {
	evt, err := events.New(events.TypeReadinessClassified, events.ReadinessClassified{
		ResultID:       res.ID,
		TestID:         res.TestID,
		StudentID:      res.StudentID,
		Percentage:     res.Percentage,
		Classification: string(res.Classification),
	}, s.now())
	if err == nil {
		err = s.Publisher.Publish(ctx, evt)
	}
	if err != nil {
		telemetry.Warn("readiness.publish_failed", map[string]any{"result_id": res.ID, "error": err})
	}
}

func (s *Service) award(ctx context.Context, res Result) {
	if s.Progress == nil {
		return
	}
	_, err := s.Progress.Award(ctx, progress.ReadinessActivity(res.StudentID, res.ID, res.TotalCorrect, res.Percentage))
	if err != nil && !errors.Is(err, progress.ErrAlreadyAwarded) {
		telemetry.Warn("readiness.award_failed", map[string]any{"result_id": res.ID, "error": err})
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
