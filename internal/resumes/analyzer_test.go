package resumes

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerlytics-backend/internal/roles"
)

var analysisClock = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

const backendResume = `Jane Doe
jane.doe@example.com | +91 98765 43210

Summary
Backend engineer with 6+ years of experience building Node.js and Golang services.

Experience
Acme Corp, Senior Engineer, 2019 - present
Built microservices with Express and Postgres, API design for payments, Redis caching.

Education
B.Tech in Computer Science, 2015 - 2019

Skills
Python, Java, Docker, K8s, CI/CD, MySQL`

func TestAnalyzeBackendResume(t *testing.T) {
	got := Analyze(backendResume, roles.Backend, analysisClock)

	for _, skill := range []string{"nodejs", "go", "express", "postgresql", "api-design", "redis", "microservices", "python", "java", "mysql", "docker", "kubernetes", "ci-cd"} {
		assert.Contains(t, got.Skills, skill)
	}
	assert.True(t, sortedUnique(got.Skills), "skills must be sorted and unique: %v", got.Skills)

	// 2019-2026 plus 2015-2019 outweighs the stated 6+ years.
	assert.InDelta(t, 11.0, got.ExperienceYears, 0.001)
	assert.Equal(t, 100, got.Scores.Experience)

	assert.Equal(t, EducationBachelors, got.Education.Level)
	assert.True(t, got.Education.HasDegree)
	assert.Equal(t, 80, got.Scores.Education)

	for _, v := range []int{got.Scores.SkillsMatch, got.Scores.Experience, got.Scores.Education, got.Scores.Format, got.Scores.ATS} {
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 100)
	}
}

func TestAnalyzeEmptyTextIsLowButValid(t *testing.T) {
	got := Analyze("", roles.Frontend, analysisClock)

	assert.Empty(t, got.Skills)
	assert.Zero(t, got.ExperienceYears)
	assert.Equal(t, EducationUnknown, got.Education.Level)
	assert.False(t, got.Education.HasDegree)
	assert.Equal(t, 0, got.Scores.SkillsMatch)
	assert.Equal(t, 30, got.Scores.Experience)
	assert.Equal(t, 40, got.Scores.Education)
	assert.Equal(t, 10, got.Scores.Format)
	// 0*.4 + 30*.3 + 40*.15 + 10*.15 = 16.5
	assert.Equal(t, 16, got.Scores.ATS)
	assert.Equal(t, SkillBeginner, got.SkillLevel)
}

func TestAnalyzeUnknownRoleScoresSkillsAtFifty(t *testing.T) {
	got := Analyze("python developer", roles.Fullstack, analysisClock)
	assert.Equal(t, 50, got.Scores.SkillsMatch)
	assert.Contains(t, got.Skills, "python")
}

func TestSkillMatchingRespectsTokenBoundaries(t *testing.T) {
	got := Analyze("worked on javascript and reactive systems in scala", roles.Frontend, analysisClock)

	assert.Contains(t, got.Skills, "javascript")
	assert.NotContains(t, got.Skills, "java")
	assert.NotContains(t, got.Skills, "react")
}

func TestCleanTextAppliesAliases(t *testing.T) {
	got := CleanText("Node.js, K8s and  Golang—with Machine Learning")
	assert.Equal(t, "nodejs, kubernetes and go-with machine-learning", got)

	assert.Equal(t, "postgresql,postgresql", CleanText("Postgres,Postgres"))
}

func TestExperienceYearsPatterns(t *testing.T) {
	cases := []struct {
		name string
		text string
		want float64
	}{
		{name: "explicit", text: "5 years of experience in backend", want: 5},
		{name: "labelled", text: "experience: 3 years", want: 3},
		{name: "bare max", text: "2 years at a, 4 years at b", want: 4},
		{name: "implausible ignored", text: "99 years", want: 0},
		{name: "range present", text: "2022 - present", want: 4},
		{name: "ranges sum", text: "2016 to 2018 and 2020 - 2023", want: 5},
		{name: "future end clamped", text: "2024 - 2030", want: 2},
		{name: "backwards range ignored", text: "2020 - 2010", want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, extractExperienceYears(CleanText(tc.text), analysisClock), 0.001)
		})
	}
}

func TestEducationLevels(t *testing.T) {
	cases := map[string]EducationLevel{
		"ph.d in physics":                 EducationPhD,
		"m.tech and b.tech":               EducationMasters,
		"bachelor of science":             EducationBachelors,
		"bachelors in commerce":           EducationBachelors,
		"diploma in mechanical":           EducationAssociate,
		"self taught, computer science":   EducationUnknown,
		"no formal training":              EducationUnknown,
	}
	for text, want := range cases {
		assert.Equal(t, want, extractEducation(CleanText(text)).Level, text)
	}

	edu := extractEducation(CleanText("self taught, computer science"))
	assert.True(t, edu.HasDegree)
	assert.Equal(t, 60, educationScore(edu))
}

func TestScoreLadders(t *testing.T) {
	assert.Equal(t, 100, experienceScore(10))
	assert.Equal(t, 90, experienceScore(7))
	assert.Equal(t, 80, experienceScore(5.5))
	assert.Equal(t, 70, experienceScore(3))
	assert.Equal(t, 60, experienceScore(2))
	assert.Equal(t, 50, experienceScore(1))
	assert.Equal(t, 30, experienceScore(0.5))

	assert.Equal(t, SkillExpert, skillLevel(100, 7))
	assert.Equal(t, SkillAdvanced, skillLevel(80, 6))
	assert.Equal(t, SkillIntermediate, skillLevel(60, 5))
	assert.Equal(t, SkillBeginner, skillLevel(20, 1))
}

func TestSkillsMatchBonusIsCapped(t *testing.T) {
	extras := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		extras = append(extras, "extra"+strings.Repeat("x", i))
	}
	assert.InDelta(t, 20.0, skillsMatchScore(extras, roles.Backend), 0.001)

	all := roles.ExtractionSkillSet(roles.Backend)
	assert.InDelta(t, 100.0, skillsMatchScore(append(all, extras...), roles.Backend), 0.001)
}

func TestFormatScoreRewardsStructure(t *testing.T) {
	sparse := formatScore(CleanText("just some words"))
	structured := formatScore(CleanText(backendResume))
	require.Equal(t, 10, sparse)
	// summary, experience, education and skills plus email and phone
	assert.Equal(t, 70, structured)
}

func sortedUnique(values []string) bool {
	for i := 1; i < len(values); i++ {
		if values[i-1] >= values[i] {
			return false
		}
	}
	return true
}
