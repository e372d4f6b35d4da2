package progress

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"careerlytics-backend/internal/events"
	"careerlytics-backend/internal/shared/metrics"
	"careerlytics-backend/internal/shared/telemetry"
)

const recentRewards = 10

// Service awards XP and keeps streaks.
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

// Award credits an activity, extends the student's streak and grants the
// level-up bonus when the total crosses into a new level. Each activity is
// rewarded once; a repeat returns ErrAlreadyAwarded.
func (s *Service) Award(ctx context.Context, act Activity) (Award, error) {
	if strings.TrimSpace(act.UserID) == "" || act.XP < 0 || act.Type == "" {
		return Award{}, fmt.Errorf("%w: activity needs a user, a type and non-negative xp", ErrInvalidInput)
	}
	now := s.now()
	var out Award
	acc, err := s.Repo.Update(ctx, act.UserID, func(a *Account) ([]Reward, error) {
		out = Award{}
		var added []Reward
		credit := func(typ RewardType, amount int, reason, related string) {
			added = append(added, Reward{
				ID:        uuid.NewString(),
				UserID:    act.UserID,
				Type:      typ,
				Amount:    amount,
				Reason:    reason,
				RelatedID: related,
				CreatedAt: now,
			})
			out.Earned += amount
		}

		before := a.XP.Level
		total := a.XP.Total
		credit(act.Type, act.XP, act.Reason, act.RelatedID)
		total += act.XP

		streak, bonus := AdvanceStreak(a.Streak, now)
		a.Streak = streak
		if bonus > 0 {
			credit(RewardStreak, bonus, fmt.Sprintf("Streak Day %d", streak.Current), "")
			total += bonus
		}

		if LevelFor(total) > before {
			total += LevelUpBonus
			credit(RewardLevelUp, LevelUpBonus, fmt.Sprintf("Reached Level %d", LevelFor(total)), "")
			out.LeveledUp = true
		}
		a.XP.setTotal(total)
		a.XP.UpdatedAt = now
		out.Rewards = added
		return added, nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyAwarded) {
			return Award{}, err
		}
		return Award{}, fmt.Errorf("award %s to %s: %w", act.Type, act.UserID, err)
	}
	out.Account = acc

	for _, rw := range out.Rewards {
		metrics.AddXPAwarded(string(rw.Type), rw.Amount)
	}
	telemetry.Info("progress.awarded", map[string]any{
		"user_id":        act.UserID,
		"activity":       string(act.Type),
		"related_id":     act.RelatedID,
		"xp_earned":      out.Earned,
		"total_xp":       acc.XP.Total,
		"level":          acc.XP.Level,
		"current_streak": acc.Streak.Current,
	})
	if out.LeveledUp {
		s.publish(ctx, acc)
	}
	return out, nil
}

// Summary returns the student's XP, streak, multiplier and latest rewards.
func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	if strings.TrimSpace(userID) == "" {
		return Summary{}, ErrInvalidInput
	}
	acc, err := s.Repo.Get(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("load progress: %w", err)
	}
	rewards, err := s.Repo.Rewards(ctx, userID, recentRewards)
	if err != nil {
		return Summary{}, fmt.Errorf("load rewards: %w", err)
	}
	return Summary{
		Account:          acc,
		StreakMultiplier: Multiplier(acc.Streak.Current),
		RecentRewards:    rewards,
	}, nil
}

// Rewards lists the student's ledger, newest first.
func (s *Service) Rewards(ctx context.Context, userID string, limit int) ([]Reward, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.Rewards(ctx, userID, limit)
}

func (s *Service) publish(ctx context.Context, acc Account) {
	evt, err := events.New(events.TypeLevelUp, events.LevelUp{
		UserID:  acc.UserID,
		Level:   acc.XP.Level,
		TotalXP: acc.XP.Total,
	}, s.now())
	if err == nil {
		err = s.Publisher.Publish(ctx, evt)
	}
	if err != nil {
		telemetry.Warn("progress.publish_failed", map[string]any{"user_id": acc.UserID, "error": err})
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
