package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerlytics-backend/internal/events"
)

type progressClock struct{ now time.Time }

func (c *progressClock) Now() time.Time { return c.now }

func newProgressService() (*Service, *events.Recorder, *progressClock) {
	clock := &progressClock{now: day(1)}
	published := &events.Recorder{}
	svc := NewService(NewMemoryRepo(), published)
	svc.Now = clock.Now
	return svc, published, clock
}

func TestAwardCreditsActivityAndLevelsUp(t *testing.T) {
	svc, published, _ := newProgressService()
	ctx := context.Background()

	got, err := svc.Award(ctx, QuizActivity("stu-1", "quiz-1", "backend", 10, 50))
	require.NoError(t, err)
	assert.Equal(t, 50, got.Earned)
	assert.False(t, got.LeveledUp)
	assert.Equal(t, 1, got.Account.XP.Level)
	assert.Equal(t, 1, got.Account.Streak.Current)
	assert.Empty(t, published.Events())

	got, err = svc.Award(ctx, QuizActivity("stu-1", "quiz-2", "backend", 12, 40))
	require.NoError(t, err)
	assert.True(t, got.LeveledUp)
	// 60 for the quiz plus the 50 level-up bonus.
	assert.Equal(t, 110, got.Earned)
	assert.Equal(t, XP{Total: 160, Level: 2, LevelProgress: 60, XPToNextLevel: 40, UpdatedAt: day(1)}, got.Account.XP)
	require.Len(t, got.Rewards, 2)
	assert.Equal(t, RewardLevelUp, got.Rewards[1].Type)
	assert.Equal(t, "Reached Level 2", got.Rewards[1].Reason)

	evts := published.Events()
	require.Len(t, evts, 1)
	assert.Equal(t, events.TypeLevelUp, evts[0].Type)
	var payload events.LevelUp
	require.NoError(t, evts[0].DecodePayload(&payload))
	assert.Equal(t, events.LevelUp{UserID: "stu-1", Level: 2, TotalXP: 160}, payload)
}

func TestAwardIsOncePerActivity(t *testing.T) {
	svc, _, _ := newProgressService()
	ctx := context.Background()

	act := ReadinessActivity("stu-1", 7, 10, 20)
	_, err := svc.Award(ctx, act)
	require.NoError(t, err)
	_, err = svc.Award(ctx, act)
	require.ErrorIs(t, err, ErrAlreadyAwarded)

	sum, err := svc.Summary(ctx, "stu-1")
	require.NoError(t, err)
	assert.Equal(t, 50, sum.XP.Total)
	assert.Len(t, sum.RecentRewards, 1)
}

func TestAwardExtendsStreak(t *testing.T) {
	svc, _, clock := newProgressService()
	ctx := context.Background()

	for i, id := range []string{"q1", "q2", "q3"} {
		clock.now = day(1 + i)
		_, err := svc.Award(ctx, QuizActivity("stu-1", id, "devops", 0, 0))
		require.NoError(t, err)
	}

	sum, err := svc.Summary(ctx, "stu-1")
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Streak.Current)
	assert.Equal(t, 3, sum.Streak.DaysActive)
	assert.Equal(t, 1.1, sum.StreakMultiplier)
	// Day two earns 10 streak XP and day three 15.
	assert.Equal(t, 25, sum.XP.Total)
	assert.Equal(t, RewardStreak, sum.RecentRewards[0].Type)
	assert.Equal(t, "Streak Day 3", sum.RecentRewards[0].Reason)
}

func TestAwardValidation(t *testing.T) {
	svc, _, _ := newProgressService()
	_, err := svc.Award(context.Background(), Activity{Type: RewardQuiz, XP: 10})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Award(context.Background(), Activity{UserID: "stu-1", Type: RewardQuiz, XP: -1})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSummaryForNewStudent(t *testing.T) {
	svc, _, _ := newProgressService()
	sum, err := svc.Summary(context.Background(), "stu-new")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.XP.Level)
	assert.Equal(t, 100, sum.XP.XPToNextLevel)
	assert.Equal(t, 1.0, sum.StreakMultiplier)
	assert.Empty(t, sum.RecentRewards)
}

func TestConcurrentAwardsAreNotLost(t *testing.T) {
	svc, _, _ := newProgressService()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Award(ctx, ReadinessActivity("stu-1", int64(i+1), 1, 10))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	sum, err := svc.Summary(ctx, "stu-1")
	require.NoError(t, err)
	// 20 activities of 5 XP cross into level 2 once, adding the 50 XP bonus.
	assert.Equal(t, 150, sum.XP.Total)
	assert.Equal(t, 2, sum.XP.Level)
}
