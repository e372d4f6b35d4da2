package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insightResults() []Result {
	return []Result{
		{ID: 1, StudentID: "stu-a", Department: "CSE", Year: 3, Classification: PlacementReady,
			Scores: CategoryScores{Aptitude: 8, Reasoning: 9, English: 2, Core: 30}},
		{ID: 2, StudentID: "stu-b", Department: "CSE", Year: 4, Classification: NeedsImprovement,
			Scores: CategoryScores{Aptitude: 4, Reasoning: 5, English: 3, Core: 17}},
		{ID: 3, StudentID: "stu-c", Year: 3, Classification: AtRisk},
	}
}

func TestBuildInsightsAnnotatesResults(t *testing.T) {
	out := BuildInsights(insightResults())
	require.Len(t, out.Results, 3)

	a := out.Results[0]
	assert.Equal(t, SectionPercents{Aptitude: 88, Reasoning: 100, English: 33, CoreSubjects: 83}, a.SectionPercents)
	assert.Equal(t, []string{LabelAptitude, LabelReasoning, LabelCoreSubjects}, a.Strengths)
	assert.Equal(t, []string{LabelEnglish}, a.Weaknesses)

	b := out.Results[1]
	assert.Equal(t, SectionPercents{Aptitude: 44, Reasoning: 55, English: 50, CoreSubjects: 47}, b.SectionPercents)
	assert.Empty(t, b.Strengths)
	assert.Equal(t, []string{LabelAptitude, LabelCoreSubjects}, b.Weaknesses)

	c := out.Results[2]
	assert.Len(t, c.Weaknesses, 4)
	assert.Equal(t, "stu-c", c.StudentID)
}

func TestBuildInsightsCapsSectionPercents(t *testing.T) {
	long := Result{ID: 4, StudentID: "stu-d", Classification: PlacementReady,
		Scores: CategoryScores{Aptitude: 15, Reasoning: 9, English: 12, Core: 40}}
	out := BuildInsights([]Result{long})
	require.Len(t, out.Results, 1)

	got := out.Results[0]
	assert.Equal(t, SectionPercents{Aptitude: 100, Reasoning: 100, English: 100, CoreSubjects: 100}, got.SectionPercents)
	assert.Equal(t, []string{LabelAptitude, LabelReasoning, LabelEnglish, LabelCoreSubjects}, got.Strengths)
}

func TestBuildInsightsAggregates(t *testing.T) {
	out := BuildInsights(insightResults())

	assert.Equal(t, Summary{Total: 3, PlacementReady: 1, NeedsImprovement: 1, AtRisk: 1, ReadyPercent: 33}, out.Summary)
	assert.Equal(t, []DepartmentReadiness{
		{Department: "CSE", Total: 2, Ready: 1, Improvement: 1, ReadyPct: 50, ImprovementPct: 50},
		{Department: "Unknown", Total: 1, AtRisk: 1, AtRiskPct: 100},
	}, out.Departments)
	assert.Equal(t, []YearDistribution{
		{Year: 3, Total: 2, PlacementReady: 1, AtRisk: 1},
		{Year: 4, Total: 1, NeedsImprovement: 1},
	}, out.Years)
	assert.Equal(t, SkillGaps{Aptitude: 2, Reasoning: 1, English: 2, CoreSubjects: 2}, out.SkillGaps)
	assert.True(t, out.CanReset)
}

func TestBuildInsightsEmpty(t *testing.T) {
	out := BuildInsights(nil)
	assert.Equal(t, Summary{}, out.Summary)
	assert.NotNil(t, out.Results)
	assert.NotNil(t, out.Departments)
	assert.NotNil(t, out.Years)
	assert.False(t, out.CanReset)
}
