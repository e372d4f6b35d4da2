package progress

import (
	"fmt"
	"math"
	"time"
)

const (
	XPPerLevel     = 100
	LevelUpBonus   = 50
	StreakXPPerDay = 5
	PassPercentage = 70.0
	passBonus      = 300
	maxMultiplier  = 2.0
)

// LevelFor returns the level reached with total XP. Everyone starts at 1.
func LevelFor(total int) int {
	if total < 0 {
		total = 0
	}
	return total/XPPerLevel + 1
}

func (x *XP) setTotal(total int) {
	x.Total = total
	x.Level = LevelFor(total)
	x.LevelProgress = total % XPPerLevel
	x.XPToNextLevel = x.Level*XPPerLevel - total
}

// TestXP rewards a finished test: 300 plus 10 per correct answer when the
// percentage passes, 5 per correct answer otherwise.
func TestXP(correct int, percentage float64) int {
	if correct < 0 {
		correct = 0
	}
	if percentage >= PassPercentage {
		return passBonus + correct*10
	}
	return correct * 5
}

// Multiplier grows by 0.1 for every three streak days and caps at 2.0.
func Multiplier(streak int) float64 {
	if streak < 0 {
		streak = 0
	}
	m := 1.0 + float64(streak/3)*0.1
	return math.Min(math.Round(m*10)/10, maxMultiplier)
}

// AdvanceStreak records activity on day. Activity the day after the last one
// extends the streak and earns 5 XP per streak day; a gap restarts it at 1.
// Repeated activity on the same day changes nothing.
func AdvanceStreak(s Streak, day time.Time) (Streak, int) {
	today := truncateDay(day)
	bonus := 0
	switch {
	case s.LastActive == nil:
		s.Current = 1
		s.DaysActive = 1
	case truncateDay(*s.LastActive).Equal(today):
		return s, 0
	case truncateDay(*s.LastActive).Equal(today.AddDate(0, 0, -1)):
		s.Current++
		s.DaysActive++
		bonus = s.Current * StreakXPPerDay
	case truncateDay(*s.LastActive).Before(today):
		s.Current = 1
		s.DaysActive++
	default:
		// Clock moved backwards; keep the stored streak.
		return s, 0
	}
	s.LastActive = &today
	if s.Current > s.Longest {
		s.Longest = s.Current
	}
	return s, bonus
}

// QuizActivity describes a completed role quiz.
func QuizActivity(userID, quizID, role string, correct, totalScore int) Activity {
	return Activity{
		UserID:    userID,
		Type:      RewardQuiz,
		RelatedID: quizID,
		Reason:    fmt.Sprintf("Completed %s quiz", role),
		XP:        TestXP(correct, float64(totalScore)),
	}
}

// ReadinessActivity describes a readiness test submission.
func ReadinessActivity(userID string, resultID int64, correct int, percentage float64) Activity {
	return Activity{
		UserID:    userID,
		Type:      RewardReadiness,
		RelatedID: fmt.Sprintf("readiness-%d", resultID),
		Reason:    "Submitted readiness test",
		XP:        TestXP(correct, percentage),
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
