package eligibility

import (
	"math"
	"sort"
	"strconv"

	"careerlytics-backend/internal/roles"
)

const (
	ResumeWeight = 0.4
	QuizWeight   = 0.6

	// DefaultResumeScore stands in for the ATS score when a quiz has no
	// linked resume analysis.
	DefaultResumeScore = 75.0

	EligibleThreshold = 55.0
	JobReadyThreshold = 75.0

	minRecommendationMatch = 40.0
	maxRecommendations     = 3
	maxReasons             = 3
)

// Risk tiers.
const (
	TierLow    = "Low Risk"
	TierMedium = "Medium Risk"
	TierHigh   = "High Risk"
)

// Improvement messages.
const (
	ImproveSkills        = "Develop more role-specific skills"
	ImproveExperience    = "Gain more relevant work experience"
	ImproveEducation     = "Consider additional certifications or education"
	ImproveGeneral       = "Work on problem-solving and analytical skills"
	ImproveFundamentals  = "Strengthen technical fundamentals"
	ImproveRoleKnowledge = "Deepen role-specific knowledge"
)

// ResumeScores are the resume numbers the calculator reads.
type ResumeScores struct {
	AnalysisID  string   `json:"analysisId"`
	ATSScore    int      `json:"atsScore"`
	SkillsMatch int      `json:"skillsMatch"`
	Experience  int      `json:"experience"`
	Education   int      `json:"education"`
	SkillLevel  string   `json:"skillLevel,omitempty"`
	Skills      []string `json:"skills"`
}

// QuizScores are the quiz numbers the calculator reads.
type QuizScores struct {
	QuizID           string     `json:"quizId"`
	UserID           string     `json:"userId"`
	TargetRole       roles.Role `json:"targetRole"`
	GeneralAbility   int        `json:"generalAbility"`
	TechFundamentals int        `json:"techFundamentals"`
	RoleSpecific     int        `json:"roleSpecific"`
	Total            int        `json:"total"`
	TimeTakenSeconds int        `json:"timeTakenSeconds"`
}

// Recommendation is an alternative role worth considering.
type Recommendation struct {
	Role            roles.Role `json:"role"`
	MatchPercentage float64    `json:"matchPercentage"`
	Reasons         []string   `json:"reasons"`
}

// Breakdown explains how the eligibility score was composed.
type Breakdown struct {
	Resume             *ResumeScores `json:"resume,omitempty"`
	Quiz               QuizScores    `json:"quiz"`
	ResumeWeight       float64       `json:"resumeWeight"`
	QuizWeight         float64       `json:"quizWeight"`
	ResumeScore        float64       `json:"resumeScore"`
	DefaultResumeScore bool          `json:"defaultResumeScore"`
	ResumeContribution float64       `json:"resumeContribution"`
	QuizContribution   float64       `json:"quizContribution"`
}

// Result is the outcome of one eligibility calculation.
type Result struct {
	ResumeScoreWeighted float64          `json:"resumeScoreWeighted"`
	QuizScoreWeighted   float64          `json:"quizScoreWeighted"`
	EligibilityScore    float64          `json:"eligibilityScore"`
	IsEligible          bool             `json:"isEligible"`
	RiskTier            string           `json:"riskTier"`
	Warning             string           `json:"warning"`
	ImprovementAreas    []string         `json:"improvementAreas"`
	Recommendations     []Recommendation `json:"recommendations"`
	Breakdown           Breakdown        `json:"breakdown"`
}

// Calculate combines resume and quiz scores. resume may be nil when the quiz
// was not started from an uploaded resume.
func Calculate(resume *ResumeScores, quiz QuizScores) Result {
	resumeScore := DefaultResumeScore
	if resume != nil {
		resumeScore = float64(resume.ATSScore)
	}
	resumeWeighted := resumeScore * ResumeWeight
	quizWeighted := float64(quiz.Total) * QuizWeight
	score := resumeWeighted + quizWeighted
	tier := Tier(score)

	return Result{
		ResumeScoreWeighted: resumeWeighted,
		QuizScoreWeighted:   quizWeighted,
		EligibilityScore:    score,
		IsEligible:          score >= EligibleThreshold,
		RiskTier:            tier,
		Warning:             Warning(tier),
		ImprovementAreas:    improvementAreas(resume, quiz),
		Recommendations:     recommend(resume, quiz),
		Breakdown: Breakdown{
			Resume:             resume,
			Quiz:               quiz,
			ResumeWeight:       ResumeWeight,
			QuizWeight:         QuizWeight,
			ResumeScore:        resumeScore,
			DefaultResumeScore: resume == nil,
			ResumeContribution: resumeWeighted,
			QuizContribution:   quizWeighted,
		},
	}
}

// Tier maps an eligibility score onto a risk tier.
func Tier(score float64) string {
	switch {
	case score >= JobReadyThreshold:
		return TierLow
	case score >= EligibleThreshold:
		return TierMedium
	default:
		return TierHigh
	}
}

// Warning is the human readable label for a tier.
func Warning(tier string) string {
	switch tier {
	case TierLow:
		return TierLow + " - job ready"
	case TierMedium:
		return TierMedium + " - trainable"
	default:
		return TierHigh + " - career mismatch"
	}
}

func recommend(resume *ResumeScores, quiz QuizScores) []Recommendation {
	userSkills := map[string]struct{}{}
	if resume != nil {
		for _, s := range resume.Skills {
			userSkills[s] = struct{}{}
		}
	}

	out := []Recommendation{}
	for _, alt := range roles.Alternatives(quiz.TargetRole) {
		required := roles.RequiredSkills(alt)
		matching := 0
		for _, s := range required {
			if _, ok := userSkills[s]; ok {
				matching++
			}
		}
		overlap := 0.0
		if len(required) > 0 {
			overlap = float64(matching) / float64(len(required)) * 100
		}

		proxy := float64(quiz.GeneralAbility)*0.3 + float64(quiz.TechFundamentals)*0.3 + overlap*0.4
		match := round1(math.Min(100, overlap*0.4+proxy*0.6))
		if match < minRecommendationMatch {
			continue
		}
		out = append(out, Recommendation{
			Role:            alt,
			MatchPercentage: match,
			Reasons:         reasons(matching, overlap, quiz),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchPercentage != out[j].MatchPercentage {
			return out[i].MatchPercentage > out[j].MatchPercentage
		}
		return out[i].Role < out[j].Role
	})
	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}

func reasons(matching int, overlap float64, quiz QuizScores) []string {
	var out []string
	if matching > 0 {
		out = append(out, "Strong match in "+strconv.Itoa(matching)+" key skills")
	}
	if quiz.TechFundamentals >= 70 {
		out = append(out, "Strong technical fundamentals")
	}
	if quiz.GeneralAbility >= 70 {
		out = append(out, "Good problem-solving abilities")
	}
	if overlap >= 60 {
		out = append(out, "Relevant specialized knowledge")
	}
	if len(out) > maxReasons {
		out = out[:maxReasons]
	}
	return out
}

// improvementAreas skips the resume checks when there is no resume to judge.
func improvementAreas(resume *ResumeScores, quiz QuizScores) []string {
	out := []string{}
	if resume != nil {
		if resume.SkillsMatch < 70 {
			out = append(out, ImproveSkills)
		}
		if resume.Experience < 60 {
			out = append(out, ImproveExperience)
		}
		if resume.Education < 70 {
			out = append(out, ImproveEducation)
		}
	}
	if quiz.GeneralAbility < 60 {
		out = append(out, ImproveGeneral)
	}
	if quiz.TechFundamentals < 60 {
		out = append(out, ImproveFundamentals)
	}
	if quiz.RoleSpecific < 60 {
		out = append(out, ImproveRoleKnowledge)
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
