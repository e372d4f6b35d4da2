package resumes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"careerlytics-backend/internal/eligibility"
	"careerlytics-backend/internal/extract"
	"careerlytics-backend/internal/roles"
	"careerlytics-backend/internal/shared/keylock"
	"careerlytics-backend/internal/shared/metrics"
	"careerlytics-backend/internal/shared/storage/object"
	"careerlytics-backend/internal/shared/telemetry"
)

const (
	DefaultCooldown = 7 * 24 * time.Hour
	DefaultTimeout  = 10 * time.Second
	DefaultVersion  = "rules:v1"
)

// QuizCreator opens a pending quiz for a fresh analysis.
type QuizCreator interface {
	CreatePending(ctx context.Context, userID, resumeAnalysisID string, role roles.Role) (string, error)
}

// Service contains business logic for resume uploads and analyses.
type Service struct {
	Repo     Repo
	Store    object.ObjectStore
	Quizzes  QuizCreator
	Cooldown time.Duration
	Timeout  time.Duration
	Version  string
	Now      func() time.Time

	uploads keylock.Locker
}

// UploadResult is returned by a successful upload.
type UploadResult struct {
	Analysis Analysis `json:"analysis"`
	QuizID   string   `json:"quizId"`
}

// Upload stores the file, analyses it for role and opens a pending quiz.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader, rawRole string) (UploadResult, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(fileName) == "" {
		return UploadResult{}, ErrInvalidInput
	}
	role, err := roles.Parse(rawRole)
	if err != nil || !role.IsQuizTarget() {
		return UploadResult{}, fmt.Errorf("%w: target role %q", ErrInvalidInput, rawRole)
	}

	// One upload per user at a time, so the cooldown check and the insert
	// below cannot interleave with a parallel request.
	unlock := s.uploads.Lock(userID)
	defer unlock()

	if err := s.checkCooldown(ctx, userID); err != nil {
		return UploadResult{}, err
	}

	started := time.Now()
	key, _, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return UploadResult{}, fmt.Errorf("save resume: %w", err)
	}

	features, err := s.analyse(ctx, key, mimeType, fileName, role)
	if err != nil {
		s.discardFile(key)
		return UploadResult{}, err
	}

	elapsed := time.Since(started)
	a := Analysis{
		ID:               uuid.NewString(),
		UserID:           userID,
		OriginalFilename: fileName,
		StorageKey:       key,
		MimeType:         extract.NormalizeMimeType(mimeType, fileName, nil),
		TargetRole:       role,
		AnalysisVersion:  s.version(),
		ProcessingTimeMs: elapsed.Milliseconds(),
		CreatedAt:        s.now(),
	}
	a.applyFeatures(features)

	if err := s.store(ctx, a); err != nil {
		s.discardFile(key)
		var cooldown *CooldownError
		if errors.As(err, &cooldown) {
			return UploadResult{}, err
		}
		return UploadResult{}, fmt.Errorf("store analysis: %w", err)
	}

	quizID, err := s.Quizzes.CreatePending(ctx, userID, a.ID, role)
	if err != nil {
		if delErr := s.Repo.Delete(context.WithoutCancel(ctx), a.ID); delErr != nil {
			telemetry.Warn("resume.rollback_failed", map[string]any{"resume_id": a.ID, "error": delErr})
		}
		s.discardFile(key)
		return UploadResult{}, fmt.Errorf("create quiz: %w", err)
	}

	metrics.IncResumeAnalysis(string(role))
	metrics.ObserveResumeAnalysis(elapsed)
	telemetry.Info("resume.analysed", map[string]any{
		"resume_id":        a.ID,
		"quiz_id":          quizID,
		"user_id":          userID,
		"target_role":      string(role),
		"ats_score":        a.ATSScore,
		"skills":           len(a.SkillsExtracted),
		"experience_years": a.ExperienceYears,
		"duration_ms":      a.ProcessingTimeMs,
	})
	return UploadResult{Analysis: a, QuizID: quizID}, nil
}

// store inserts the analysis, re-checking the cooldown atomically in the
// repository when one is configured.
func (s *Service) store(ctx context.Context, a Analysis) error {
	if s.Cooldown <= 0 {
		return s.Repo.Create(ctx, a)
	}
	return s.Repo.CreateWithCooldown(ctx, a, s.Cooldown)
}

func (s *Service) checkCooldown(ctx context.Context, userID string) error {
	cooldown := s.Cooldown
	if cooldown <= 0 {
		return nil
	}
	latest, err := s.Repo.LatestByUser(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check cooldown: %w", err)
	}
	next := latest.CreatedAt.Add(cooldown)
	if now := s.now(); now.Before(next) {
		return &CooldownError{NextUploadAt: next, Wait: next.Sub(now)}
	}
	return nil
}

// analyse extracts text and runs the analyzer under the analysis timeout.
func (s *Service) analyse(ctx context.Context, key, mimeType, fileName string, role roles.Role) (Features, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		features Features
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		text, err := extract.ExtractText(ctx, s.Store, key, mimeType, fileName)
		if err != nil {
			done <- outcome{err: fmt.Errorf("%w: %v", ErrUnreadableFile, err)}
			return
		}
		if nonSpaceLen(text) < MinTextLength {
			done <- outcome{err: ErrTextTooShort}
			return
		}
		done <- outcome{features: Analyze(text, role, s.now())}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			telemetry.Warn("resume.analysis_timeout", map[string]any{"storage_key": key, "timeout_ms": timeout.Milliseconds()})
			return Features{}, ErrAnalysisTimeout
		}
		return Features{}, ctx.Err()
	case out := <-done:
		return out.features, out.err
	}
}

func (s *Service) discardFile(key string) {
	if err := s.Store.Delete(context.Background(), key); err != nil {
		telemetry.Warn("resume.discard_failed", map[string]any{"storage_key": key, "error": err})
	}
}

// Get returns an analysis owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (Analysis, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Analysis{}, err
	}
	if a.UserID != userID {
		return Analysis{}, ErrNotFound
	}
	return a, nil
}

// ListByUser returns the user's analyses, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Delete removes an analysis and its stored file. Removing the newest
// analysis lifts the upload cooldown.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	a, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.discardFile(a.StorageKey)
	telemetry.Info("resume.deleted", map[string]any{"resume_id": id, "user_id": userID})
	return nil
}

// Scores returns the numbers the eligibility calculator reads.
func (s *Service) Scores(ctx context.Context, id string) (eligibility.ResumeScores, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return eligibility.ResumeScores{}, err
	}
	return eligibility.ResumeScores{
		AnalysisID:  a.ID,
		ATSScore:    a.ATSScore,
		SkillsMatch: a.SkillsMatchScore,
		Experience:  a.ExperienceScore,
		Education:   a.EducationScore,
		SkillLevel:  string(a.SkillLevel),
		Skills:      a.SkillsExtracted,
	}, nil
}

func (s *Service) version() string {
	if s.Version == "" {
		return DefaultVersion
	}
	return s.Version
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func nonSpaceLen(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
