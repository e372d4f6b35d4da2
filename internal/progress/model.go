package progress

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyAwarded is returned when an activity was already rewarded.
	ErrAlreadyAwarded = errors.New("activity already rewarded")
)

// RewardType classifies a ledger entry.
type RewardType string

const (
	RewardQuiz      RewardType = "quiz"
	RewardReadiness RewardType = "readiness_test"
	RewardStreak    RewardType = "streak"
	RewardLevelUp   RewardType = "level_up"
)

// XP is a student's experience total and the level derived from it.
type XP struct {
	Total         int       `json:"totalXp"`
	Level         int       `json:"currentLevel"`
	XPToNextLevel int       `json:"xpToNextLevel"`
	LevelProgress int       `json:"levelProgress"`
	UpdatedAt     time.Time `json:"lastUpdated"`
}

// Streak tracks consecutive active days. LastActive is a UTC date.
type Streak struct {
	Current    int        `json:"currentStreak"`
	Longest    int        `json:"longestStreak"`
	LastActive *time.Time `json:"lastActivityDate,omitempty"`
	DaysActive int        `json:"totalDaysActive"`
}

// Account is everything stored per student.
type Account struct {
	UserID string `json:"userId"`
	XP     XP     `json:"xp"`
	Streak Streak `json:"streak"`
}

// Reward is one entry of the XP ledger.
type Reward struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Type      RewardType `json:"rewardType"`
	Amount    int        `json:"xpAmount"`
	Reason    string     `json:"reason"`
	RelatedID string     `json:"relatedObjectId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Activity is something a student finished that earns XP.
type Activity struct {
	UserID    string
	Type      RewardType
	RelatedID string
	Reason    string
	XP        int
}

// Award reports what an activity earned.
type Award struct {
	Earned    int      `json:"xpEarned"`
	LeveledUp bool     `json:"leveledUp"`
	Rewards   []Reward `json:"rewards"`
	Account   Account  `json:"account"`
}

// Summary is the progress dashboard payload.
type Summary struct {
	Account
	StreakMultiplier float64  `json:"streakMultiplier"`
	RecentRewards    []Reward `json:"recentRewards"`
}

func newAccount(userID string) Account {
	a := Account{UserID: userID}
	a.XP.setTotal(0)
	return a
}
