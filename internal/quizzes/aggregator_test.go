package quizzes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func shownQuestions() []Question {
	return []Question{
		{ID: "g1", Category: CategoryGeneral},
		{ID: "g2", Category: CategoryGeneral},
		{ID: "t1", Category: CategoryTechFundamentals},
		{ID: "r1", Category: "backend"},
		{ID: "r2", Category: "backend"},
		{ID: "r3", Category: "backend"},
		{ID: "x1", Category: "puzzles"},
	}
}

func TestAggregate(t *testing.T) {
	cases := []struct {
		name      string
		responses []Response
		want      Scores
	}{
		{
			name: "no answers",
			want: Scores{},
		},
		{
			name: "all correct",
			responses: []Response{
				{QuestionID: "g1", IsCorrect: true},
				{QuestionID: "t1", IsCorrect: true},
				{QuestionID: "r1", IsCorrect: true},
			},
			want: Scores{GeneralAbility: 100, TechFundamentals: 100, RoleSpecific: 100, Total: 100},
		},
		{
			name: "unknown category counts as general, last answer wins, strays ignored",
			responses: []Response{
				{QuestionID: "g1", IsCorrect: true},
				{QuestionID: "g2", IsCorrect: false},
				{QuestionID: "g2", IsCorrect: true},
				{QuestionID: "t1", IsCorrect: false},
				{QuestionID: "r1", IsCorrect: true},
				{QuestionID: "r2", IsCorrect: true},
				{QuestionID: "r3", IsCorrect: false},
				{QuestionID: "x1", IsCorrect: false},
				{QuestionID: "ghost", IsCorrect: true},
			},
			// general 2/3, tech 0/1, role 2/3: 0.3*66 + 0.3*0 + 0.4*66 = 46.2
			want: Scores{GeneralAbility: 66, TechFundamentals: 0, RoleSpecific: 66, Total: 46},
		},
		{
			name: "only role answered",
			responses: []Response{
				{QuestionID: "r1", IsCorrect: true},
				{QuestionID: "r2", IsCorrect: false},
			},
			want: Scores{RoleSpecific: 50, Total: 20},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Aggregate(tc.responses, shownQuestions()))
		})
	}
}

func TestScoreGroup(t *testing.T) {
	assert.Equal(t, GroupGeneralAbility, ScoreGroup(CategoryGeneral))
	assert.Equal(t, GroupTechFundamentals, ScoreGroup(CategoryTechFundamentals))
	assert.Equal(t, GroupRoleSpecific, ScoreGroup("datascience"))
	assert.Equal(t, GroupRoleSpecific, ScoreGroup("fullstack"))
	assert.Equal(t, GroupGeneralAbility, ScoreGroup("trivia"))
}

func TestScoresAllZero(t *testing.T) {
	assert.True(t, Scores{}.AllZero())
	assert.True(t, Scores{Total: 5}.AllZero())
	assert.False(t, Scores{TechFundamentals: 10}.AllZero())
}

func TestWeightedTotal(t *testing.T) {
	assert.Equal(t, 100, WeightedTotal(100, 100, 100))
	assert.Equal(t, 46, WeightedTotal(66, 0, 66))
	assert.Equal(t, 20, WeightedTotal(0, 0, 50))
	assert.Equal(t, 0, WeightedTotal(0, 0, 0))
}
