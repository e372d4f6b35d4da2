package quizzes

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"careerlytics-backend/internal/eligibility"
	"careerlytics-backend/internal/progress"
	"careerlytics-backend/internal/resumes"
	"careerlytics-backend/internal/roles"
	"careerlytics-backend/internal/shared/keylock"
	"careerlytics-backend/internal/shared/metrics"
	"careerlytics-backend/internal/shared/telemetry"
)

var ErrNoQuestions = errors.New("question bank has no questions for this quiz")

// EligibilityService records and reads the verdict for a completed quiz.
type EligibilityService interface {
	Record(ctx context.Context, resume *eligibility.ResumeScores, quiz eligibility.QuizScores) (eligibility.Eligibility, error)
	Rescore(ctx context.Context, resume *eligibility.ResumeScores, quiz eligibility.QuizScores) (eligibility.Eligibility, error)
	GetByQuiz(ctx context.Context, userID, quizID string) (eligibility.Eligibility, error)
}

// ProgressAwarder credits XP for finished activities.
type ProgressAwarder interface {
	Award(ctx context.Context, act progress.Activity) (progress.Award, error)
}

// ResumeLookup fetches the scores of the analysis a quiz was opened from.
type ResumeLookup interface {
	Scores(ctx context.Context, id string) (eligibility.ResumeScores, error)
}

// Service runs the quiz lifecycle.
type Service struct {
	Repo        Repo
	Generator   *Generator
	Eligibility EligibilityService
	Resumes     ResumeLookup
	Progress    ProgressAwarder
	Now         func() time.Time

	locks keylock.Locker
}

// AnswerInput is one submitted answer.
type AnswerInput struct {
	QuestionID       string
	SelectedOption   string
	TimeTakenSeconds int
}

// CompleteResult is the completed quiz and, when it could be recorded, its verdict.
type CompleteResult struct {
	Quiz        Quiz                     `json:"quiz"`
	Eligibility *eligibility.Eligibility `json:"eligibility,omitempty"`
	XP          *progress.Award          `json:"xp,omitempty"`
}

// Contributions are each group's weighted share of the quiz total.
type Contributions struct {
	GeneralAbility   float64 `json:"generalAbility"`
	TechFundamentals float64 `json:"techFundamentals"`
	RoleSpecific     float64 `json:"roleSpecific"`
}

// Results is the full report for a completed quiz.
type Results struct {
	Quiz          Quiz                    `json:"quiz"`
	Answered      int                     `json:"questionsAnswered"`
	Correct       int                     `json:"questionsCorrect"`
	Accuracy      float64                 `json:"accuracy"`
	Contributions Contributions           `json:"contributions"`
	Eligibility   eligibility.Eligibility `json:"eligibility"`
}

// CreatePending opens a quiz for a fresh resume analysis.
func (s *Service) CreatePending(ctx context.Context, userID, resumeAnalysisID string, role roles.Role) (string, error) {
	if userID == "" {
		return "", errors.New("user id required")
	}
	if !role.IsQuizTarget() {
		return "", fmt.Errorf("%w: %q is not a quiz role", roles.ErrUnknownRole, role)
	}
	now := s.now()
	q := Quiz{
		ID:               uuid.NewString(),
		UserID:           userID,
		ResumeAnalysisID: resumeAnalysisID,
		TargetRole:       role,
		Status:           StatusPending,
		TimeLimitSeconds: TimeLimitSeconds,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Repo.Create(ctx, q); err != nil {
		return "", err
	}
	telemetry.Info("quiz.created", map[string]any{
		"quiz_id":     q.ID,
		"user_id":     userID,
		"resume_id":   resumeAnalysisID,
		"target_role": string(role),
	})
	return q.ID, nil
}

// Get returns a quiz owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (Quiz, error) {
	q, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	if q.UserID != userID {
		return Quiz{}, ErrNotFound
	}
	return q, nil
}

// ListByUser returns the user's quizzes, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Quiz, error) {
	if userID == "" {
		return nil, errors.New("user id required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Start draws the questions and moves the quiz to in_progress. Starting a
// quiz that is already in progress returns it unchanged.
func (s *Service) Start(ctx context.Context, userID, quizID string, difficulty Difficulty) (Quiz, error) {
	unlock := s.lock(quizID)
	defer unlock()

	q, err := s.Get(ctx, userID, quizID)
	if err != nil {
		return Quiz{}, err
	}
	if q.Status == StatusInProgress {
		return q, nil
	}
	if err := q.transition(StatusInProgress); err != nil {
		return Quiz{}, err
	}

	gen, err := s.Generator.Generate(q.TargetRole, difficulty)
	if err != nil {
		return Quiz{}, err
	}
	if len(gen.Questions) == 0 {
		return Quiz{}, ErrNoQuestions
	}
	now := s.now()
	q.Questions = gen.Questions
	q.Difficulty = gen.Difficulty
	q.TimeLimitSeconds = gen.TimeLimitSeconds
	q.StartedAt = &now
	q.UpdatedAt = now
	if err := s.Repo.Update(ctx, q); err != nil {
		return Quiz{}, fmt.Errorf("start quiz %s: %w", quizID, err)
	}
	telemetry.Info("quiz.started", map[string]any{
		"quiz_id":      q.ID,
		"user_id":      userID,
		"difficulty":   string(q.Difficulty),
		"questions":    len(q.Questions),
		"distribution": gen.Distribution,
	})
	return q, nil
}

// Answer records the answer to one question of an in-progress quiz.
func (s *Service) Answer(ctx context.Context, userID, quizID string, in AnswerInput) (Response, error) {
	unlock := s.lock(quizID)
	defer unlock()

	q, err := s.Get(ctx, userID, quizID)
	if err != nil {
		return Response{}, err
	}
	if q.Status != StatusInProgress {
		return Response{}, fmt.Errorf("%w: cannot answer a %s quiz", ErrInvalidTransition, q.Status)
	}
	question, ok := q.question(in.QuestionID)
	if !ok {
		return Response{}, ErrUnknownQuestion
	}
	valid := false
	for _, opt := range question.Options {
		if opt == in.SelectedOption {
			valid = true
			break
		}
	}
	if !valid {
		return Response{}, ErrInvalidOption
	}

	resp := Response{
		QuestionID:       in.QuestionID,
		SelectedOption:   in.SelectedOption,
		IsCorrect:        in.SelectedOption == question.CorrectAnswer,
		TimeTakenSeconds: max(in.TimeTakenSeconds, 0),
		AnsweredAt:       s.now(),
	}
	if err := s.Repo.SaveResponse(ctx, quizID, resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}

// Complete scores the quiz, closes it and records its eligibility verdict.
// A failed verdict is logged and recorded later by Results.
func (s *Service) Complete(ctx context.Context, userID, quizID string) (CompleteResult, error) {
	unlock := s.lock(quizID)
	defer unlock()

	q, err := s.Get(ctx, userID, quizID)
	if err != nil {
		return CompleteResult{}, err
	}
	if err := q.transition(StatusCompleted); err != nil {
		return CompleteResult{}, err
	}
	responses, err := s.Repo.Responses(ctx, quizID)
	if err != nil {
		return CompleteResult{}, fmt.Errorf("load responses: %w", err)
	}

	now := s.now()
	q.Scores = Aggregate(responses, q.Questions)
	q.CompletedAt = &now
	if q.StartedAt != nil {
		q.TimeTakenSeconds = int(now.Sub(*q.StartedAt).Seconds())
	}
	q.UpdatedAt = now
	if err := s.Repo.Update(ctx, q); err != nil {
		return CompleteResult{}, fmt.Errorf("complete quiz %s: %w", quizID, err)
	}

	metrics.IncQuizCompleted(string(q.TargetRole))
	telemetry.Info("quiz.completed", map[string]any{
		"quiz_id":            q.ID,
		"user_id":            userID,
		"target_role":        string(q.TargetRole),
		"total_score":        q.Scores.Total,
		"responses":          len(responses),
		"time_taken_seconds": q.TimeTakenSeconds,
	})

	out := CompleteResult{Quiz: q}
	_, correct := tally(responses, q.Questions)
	out.XP = s.award(ctx, progress.QuizActivity(userID, q.ID, string(q.TargetRole), correct, q.Scores.Total))

	resume, err := s.resumeScores(ctx, q)
	if err == nil {
		var rec eligibility.Eligibility
		rec, err = s.Eligibility.Record(ctx, resume, quizScores(q))
		if err == nil {
			out.Eligibility = &rec
		}
	}
	if err != nil {
		telemetry.Error("quiz.eligibility_failed", map[string]any{"quiz_id": q.ID, "error": err})
	}
	return out, nil
}

// Results reports a completed quiz. Scores that were stored as all zero
// despite recorded answers are recomputed and the verdict rescored.
func (s *Service) Results(ctx context.Context, userID, quizID string) (Results, error) {
	q, err := s.Get(ctx, userID, quizID)
	if err != nil {
		return Results{}, err
	}
	if q.Status != StatusCompleted {
		return Results{}, ErrNotCompleted
	}

	var (
		eg        errgroup.Group
		responses []Response
		resume    *eligibility.ResumeScores
		record    eligibility.Eligibility
		recorded  bool
	)
	eg.Go(func() error {
		var err error
		responses, err = s.Repo.Responses(ctx, quizID)
		return err
	})
	eg.Go(func() error {
		var err error
		resume, err = s.resumeScores(ctx, q)
		return err
	})
	eg.Go(func() error {
		var err error
		record, err = s.Eligibility.GetByQuiz(ctx, userID, quizID)
		if errors.Is(err, eligibility.ErrNotFound) {
			return nil
		}
		recorded = err == nil
		return err
	})
	if err := eg.Wait(); err != nil {
		return Results{}, err
	}

	repaired := false
	if q.Scores.AllZero() && len(responses) > 0 {
		if scores := Aggregate(responses, q.Questions); !scores.AllZero() {
			q.Scores = scores
			q.UpdatedAt = s.now()
			if err := s.Repo.Update(ctx, q); err != nil {
				return Results{}, fmt.Errorf("repair quiz %s: %w", quizID, err)
			}
			repaired = true
			telemetry.Warn("quiz.scores_repaired", map[string]any{"quiz_id": quizID, "total_score": scores.Total})
		}
	}

	switch {
	case !recorded:
		record, err = s.Eligibility.Record(ctx, resume, quizScores(q))
		if errors.Is(err, eligibility.ErrAlreadyExists) {
			record, err = s.Eligibility.GetByQuiz(ctx, userID, quizID)
		}
	case repaired:
		record, err = s.Eligibility.Rescore(ctx, resume, quizScores(q))
	}
	if err != nil {
		return Results{}, fmt.Errorf("eligibility for quiz %s: %w", quizID, err)
	}

	answered, correct := tally(responses, q.Questions)
	out := Results{
		Quiz:     q,
		Answered: answered,
		Correct:  correct,
		Contributions: Contributions{
			GeneralAbility:   round1(float64(q.Scores.GeneralAbility) * weightGeneral / 10),
			TechFundamentals: round1(float64(q.Scores.TechFundamentals) * weightTech / 10),
			RoleSpecific:     round1(float64(q.Scores.RoleSpecific) * weightRole / 10),
		},
		Eligibility: record,
	}
	if answered > 0 {
		out.Accuracy = round1(float64(correct) / float64(answered) * 100)
	}
	return out, nil
}

// Stats reports what the bank holds for a role's quiz.
func (s *Service) Stats(rawRole string) (Stats, error) {
	role, err := roles.Parse(rawRole)
	if err != nil {
		return Stats{}, err
	}
	return s.Generator.Bank.Stats(role)
}

// resumeScores loads the linked analysis. A quiz without one, or whose
// analysis has since been deleted, scores without a resume.
func (s *Service) resumeScores(ctx context.Context, q Quiz) (*eligibility.ResumeScores, error) {
	if q.ResumeAnalysisID == "" || s.Resumes == nil {
		return nil, nil
	}
	scores, err := s.Resumes.Scores(ctx, q.ResumeAnalysisID)
	if errors.Is(err, resumes.ErrNotFound) {
		telemetry.Warn("quiz.resume_missing", map[string]any{"quiz_id": q.ID, "resume_id": q.ResumeAnalysisID})
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load resume scores: %w", err)
	}
	return &scores, nil
}

// award is best effort; a quiz completes even when XP cannot be credited.
func (s *Service) award(ctx context.Context, act progress.Activity) *progress.Award {
	if s.Progress == nil {
		return nil
	}
	got, err := s.Progress.Award(ctx, act)
	if err != nil {
		if !errors.Is(err, progress.ErrAlreadyAwarded) {
			telemetry.Warn("quiz.award_failed", map[string]any{"quiz_id": act.RelatedID, "error": err})
		}
		return nil
	}
	return &got
}

func (s *Service) lock(quizID string) func() {
	return s.locks.Lock(quizID)
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func quizScores(q Quiz) eligibility.QuizScores {
	return eligibility.QuizScores{
		QuizID:           q.ID,
		UserID:           q.UserID,
		TargetRole:       q.TargetRole,
		GeneralAbility:   q.Scores.GeneralAbility,
		TechFundamentals: q.Scores.TechFundamentals,
		RoleSpecific:     q.Scores.RoleSpecific,
		Total:            q.Scores.Total,
		TimeTakenSeconds: q.TimeTakenSeconds,
	}
}

// tally counts the latest answer per shown question.
func tally(responses []Response, shown []Question) (answered, correct int) {
	ids := make(map[string]struct{}, len(shown))
	for _, q := range shown {
		ids[q.ID] = struct{}{}
	}
	latest := make(map[string]bool, len(responses))
	for _, r := range responses {
		if _, ok := ids[r.QuestionID]; ok {
			latest[r.QuestionID] = r.IsCorrect
		}
	}
	for _, ok := range latest {
		answered++
		if ok {
			correct++
		}
	}
	return answered, correct
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
