package resumes

import (
	"errors"
	"fmt"
	"time"

	"careerlytics-backend/internal/roles"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnreadableFile  = errors.New("could not read text from file")
	ErrTextTooShort    = errors.New("resume text too short")
	ErrAnalysisTimeout = errors.New("resume analysis timed out")
)

// MinTextLength is the minimum number of non-space characters a resume
// must contain to be analysed.
const MinTextLength = 50

// CooldownError is returned when a user uploads again before the cooldown ends.
// Wait is measured from the rejected upload attempt.
type CooldownError struct {
	NextUploadAt time.Time
	Wait         time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("resume upload cooldown active until %s", e.NextUploadAt.Format(time.RFC3339))
}

// Analysis is one immutable resume analysis.
type Analysis struct {
	ID               string         `json:"id"`
	UserID           string         `json:"userId"`
	OriginalFilename string         `json:"originalFilename"`
	StorageKey       string         `json:"-"`
	MimeType         string         `json:"mimeType"`
	TargetRole       roles.Role     `json:"targetRole"`
	ATSScore         int            `json:"atsScore"`
	SkillsExtracted  []string       `json:"skillsExtracted"`
	ExperienceYears  float64        `json:"experienceYears"`
	EducationLevel   EducationLevel `json:"educationLevel"`
	HasDegree        bool           `json:"hasDegree"`
	SkillLevel       SkillLevel     `json:"skillLevel"`
	SkillsMatchScore int            `json:"skillsMatchScore"`
	ExperienceScore  int            `json:"experienceScore"`
	EducationScore   int            `json:"educationScore"`
	FormatScore      int            `json:"formatScore"`
	AnalysisVersion  string         `json:"analysisVersion"`
	ProcessingTimeMs int64          `json:"processingTimeMs"`
	CreatedAt        time.Time      `json:"createdAt"`
}

func (a *Analysis) applyFeatures(f Features) {
	a.ATSScore = f.Scores.ATS
	a.SkillsExtracted = f.Skills
	if a.SkillsExtracted == nil {
		a.SkillsExtracted = []string{}
	}
	a.ExperienceYears = f.ExperienceYears
	a.EducationLevel = f.Education.Level
	a.HasDegree = f.Education.HasDegree
	a.SkillLevel = f.SkillLevel
	a.SkillsMatchScore = f.Scores.SkillsMatch
	a.ExperienceScore = f.Scores.Experience
	a.EducationScore = f.Scores.Education
	a.FormatScore = f.Scores.Format
}
