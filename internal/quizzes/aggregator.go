package quizzes

import (
	"time"

	"careerlytics-backend/internal/roles"
)

// Score groups used in the quiz total.
const (
	GroupGeneralAbility   = "general_ability"
	GroupTechFundamentals = "tech_fundamentals"
	GroupRoleSpecific     = "role_specific"
)

// Group weights in the total, in tenths.
const (
	weightGeneral = 3
	weightTech    = 3
	weightRole    = 4
)

// Response is a student's answer to one question of a quiz.
type Response struct {
	QuestionID       string    `json:"questionId"`
	SelectedOption   string    `json:"selectedOption"`
	IsCorrect        bool      `json:"isCorrect"`
	TimeTakenSeconds int       `json:"timeTakenSeconds"`
	AnsweredAt       time.Time `json:"answeredAt"`
}

// Scores are the per-group percentages and their weighted total, all in [0,100].
type Scores struct {
	GeneralAbility   int `json:"generalAbility"`
	TechFundamentals int `json:"techFundamentals"`
	RoleSpecific     int `json:"roleSpecific"`
	Total            int `json:"total"`
}

// AllZero reports whether no group scored.
func (s Scores) AllZero() bool {
	return s.GeneralAbility == 0 && s.TechFundamentals == 0 && s.RoleSpecific == 0
}

// ScoreGroup maps a bank category onto the group it counts toward. Unknown
// categories count as general ability.
func ScoreGroup(cat Category) string {
	switch cat {
	case CategoryGeneral:
		return GroupGeneralAbility
	case CategoryTechFundamentals:
		return GroupTechFundamentals
	}
	for _, r := range roles.All() {
		if cat == RoleCategory(r) {
			return GroupRoleSpecific
		}
	}
	return GroupGeneralAbility
}

// Aggregate scores the answers to the questions shown. Answers to questions
// that were not shown are ignored and a repeated answer replaces the earlier
// one. A group with nothing answered scores 0. Wrong answers cost nothing.
func Aggregate(responses []Response, shown []Question) Scores {
	byID := make(map[string]Question, len(shown))
	for _, q := range shown {
		byID[q.ID] = q
	}

	latest := make(map[string]Response, len(responses))
	for _, r := range responses {
		if _, ok := byID[r.QuestionID]; ok {
			latest[r.QuestionID] = r
		}
	}

	type tally struct{ correct, answered int }
	groups := map[string]*tally{
		GroupGeneralAbility:   {},
		GroupTechFundamentals: {},
		GroupRoleSpecific:     {},
	}
	for id, r := range latest {
		t := groups[ScoreGroup(byID[id].Category)]
		t.answered++
		if r.IsCorrect {
			t.correct++
		}
	}

	pct := func(t *tally) int {
		if t.answered == 0 {
			return 0
		}
		return t.correct * 100 / t.answered
	}
	s := Scores{
		GeneralAbility:   pct(groups[GroupGeneralAbility]),
		TechFundamentals: pct(groups[GroupTechFundamentals]),
		RoleSpecific:     pct(groups[GroupRoleSpecific]),
	}
	s.Total = WeightedTotal(s.GeneralAbility, s.TechFundamentals, s.RoleSpecific)
	return s
}

// WeightedTotal combines the group percentages, truncating toward zero.
func WeightedTotal(general, tech, role int) int {
	return (weightGeneral*general + weightTech*tech + weightRole*role) / 10
}
