package resumes

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"careerlytics-backend/internal/roles"
)

// EducationLevel is the highest degree detected in a resume.
type EducationLevel string

const (
	EducationPhD       EducationLevel = "phd"
	EducationMasters   EducationLevel = "masters"
	EducationBachelors EducationLevel = "bachelors"
	EducationAssociate EducationLevel = "associate"
	EducationUnknown   EducationLevel = "unknown"
)

// SkillLevel buckets a candidate by skills and experience combined.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillExpert       SkillLevel = "expert"
)

// Score weights for the overall ATS score.
const (
	WeightSkills     = 0.40
	WeightExperience = 0.30
	WeightEducation  = 0.15
	WeightFormat     = 0.15
)

const maxPlausibleYears = 60

// Education is what the extractor learned about degrees.
type Education struct {
	Level     EducationLevel `json:"level"`
	HasDegree bool           `json:"hasDegree"`
	Degrees   []string       `json:"degrees"`
}

// Scores are the per-component scores, each in [0,100].
type Scores struct {
	SkillsMatch int `json:"skillsMatch"`
	Experience  int `json:"experience"`
	Education   int `json:"education"`
	Format      int `json:"format"`
	ATS         int `json:"ats"`
}

// Features is the flat record produced from one resume.
type Features struct {
	Skills          []string   `json:"skills"`
	ExperienceYears float64    `json:"experienceYears"`
	Education       Education  `json:"education"`
	Scores          Scores     `json:"scores"`
	SkillLevel      SkillLevel `json:"skillLevel"`
}

var (
	disallowedChars = regexp.MustCompile(`[^\w\s.,\-+#@()/]`)
	whitespace      = regexp.MustCompile(`\s+`)
	dashes          = strings.NewReplacer("–", "-", "—", "-", "−", "-")

	yearPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{1,2})\+?\s*years?\s*(?:of\s*)?experience`),
		regexp.MustCompile(`experience[:\s]*(\d{1,2})\+?\s*years?`),
		regexp.MustCompile(`\b(\d{1,2})\+?\s*years?\b`),
	}
	dateRange = regexp.MustCompile(`\b(\d{4})\s*(?:-|to)\s*(\d{4}|present|current|now)\b`)

	phdPattern       = regexp.MustCompile(`\b(?:phd|ph\.d|doctorate)\b`)
	mastersPattern   = regexp.MustCompile(`\b(?:masters?|m\.sc?|msc|m\.tech|mtech|m\.e|mca|m\.c\.a|mba)\b`)
	bachelorsPattern = regexp.MustCompile(`\b(?:bachelors?|b\.sc?|bsc|b\.tech|btech|b\.e|bca|b\.c\.a|b\.com)\b`)
	associatePattern = regexp.MustCompile(`\b(?:associates?\s+(?:degree|of)|diploma)\b`)
	disciplines      = regexp.MustCompile(`\b(?:engineering|computer science|information technology|data science)\b`)

	sectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:experience|work history|employment)\b`),
		regexp.MustCompile(`\b(?:education|academics?)\b`),
		regexp.MustCompile(`\b(?:skills|technical skills|competencies)\b`),
		regexp.MustCompile(`\bprojects?\b`),
		regexp.MustCompile(`\b(?:summary|objective|profile)\b`),
		regexp.MustCompile(`\b(?:certifications?|certificates?)\b`),
	}
	emailPattern = regexp.MustCompile(`[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	phoneLike    = regexp.MustCompile(`\+?\d[\d\s\-()]{8,}\d`)

	aliasPatterns = buildAliasPatterns()
	skillMatchers = map[string]*regexp.Regexp{}
)

type aliasPattern struct {
	re        *regexp.Regexp
	canonical string
}

// boundary excludes characters that can be part of a skill token.
const boundaryClass = `[^a-z0-9+#]`

func tokenPattern(token string) *regexp.Regexp {
	return regexp.MustCompile(`(^|` + boundaryClass + `)` + regexp.QuoteMeta(token) + `($|` + boundaryClass + `)`)
}

func buildAliasPatterns() []aliasPattern {
	keys := make([]string, 0, len(roles.Aliases))
	for k := range roles.Aliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	out := make([]aliasPattern, 0, len(keys))
	for _, k := range keys {
		out = append(out, aliasPattern{re: tokenPattern(k), canonical: roles.Aliases[k]})
	}
	return out
}

func init() {
	for _, r := range roles.QuizTargets() {
		for _, s := range roles.ExtractionSkillSet(r) {
			skillMatchers[s] = tokenPattern(s)
		}
	}
	for _, s := range roles.TechKeywords {
		skillMatchers[s] = tokenPattern(s)
	}
}

// Analyze extracts features from resume text for the given target role.
// now resolves open-ended date ranges such as "2021 - present".
func Analyze(text string, role roles.Role, now time.Time) Features {
	cleaned := CleanText(text)

	skills := extractSkills(cleaned, role)
	years := extractExperienceYears(cleaned, now)
	edu := extractEducation(cleaned)

	skillsMatch := skillsMatchScore(skills, role)
	scores := Scores{
		SkillsMatch: clampScore(int(skillsMatch)),
		Experience:  experienceScore(years),
		Education:   educationScore(edu),
		Format:      formatScore(cleaned),
	}
	scores.ATS = clampScore(int(
		float64(scores.SkillsMatch)*WeightSkills +
			float64(scores.Experience)*WeightExperience +
			float64(scores.Education)*WeightEducation +
			float64(scores.Format)*WeightFormat,
	))

	return Features{
		Skills:          skills,
		ExperienceYears: years,
		Education:       edu,
		Scores:          scores,
		SkillLevel:      skillLevel(math.Min(100, skillsMatch), years),
	}
}

// CleanText collapses whitespace, drops unusual punctuation, lowercases and
// rewrites known skill aliases to their canonical names.
func CleanText(text string) string {
	text = dashes.Replace(strings.ToLower(text))
	text = disallowedChars.ReplaceAllString(text, " ")
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
	for _, a := range aliasPatterns {
		// Boundaries are consumed by each match, so adjacent aliases need a second pass.
		for range 2 {
			text = a.re.ReplaceAllString(text, "${1}"+a.canonical+"${2}")
		}
	}
	return text
}

func extractSkills(text string, role roles.Role) []string {
	candidates := append(roles.ExtractionSkillSet(role), roles.TechKeywords...)
	seen := make(map[string]struct{}, len(candidates))
	var found []string
	for _, skill := range candidates {
		if _, ok := seen[skill]; ok {
			continue
		}
		seen[skill] = struct{}{}
		re, ok := skillMatchers[skill]
		if !ok {
			re = tokenPattern(skill)
		}
		if re.MatchString(text) {
			found = append(found, skill)
		}
	}
	sort.Strings(found)
	return found
}

func extractExperienceYears(text string, now time.Time) float64 {
	var years float64
	for _, re := range yearPatterns {
		matches := re.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}
		best := 0
		for _, m := range matches {
			n, err := strconv.Atoi(m[1])
			if err != nil || n > maxPlausibleYears {
				continue
			}
			if n > best {
				best = n
			}
		}
		years = float64(best)
		break
	}

	current := now.Year()
	months := 0
	for _, m := range dateRange.FindAllStringSubmatch(text, -1) {
		start, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		end := current
		if n, err := strconv.Atoi(m[2]); err == nil {
			end = n
		}
		if end > current {
			end = current
		}
		if start < current-maxPlausibleYears || start > end {
			continue
		}
		months += (end - start) * 12
	}
	if months > 0 {
		years = math.Max(years, float64(months)/12)
	}
	return years
}

func extractEducation(text string) Education {
	edu := Education{Level: EducationUnknown}
	seen := map[string]struct{}{}
	for _, re := range []*regexp.Regexp{phdPattern, mastersPattern, bachelorsPattern, associatePattern, disciplines} {
		for _, m := range re.FindAllString(text, -1) {
			edu.HasDegree = true
			if _, ok := seen[m]; !ok {
				seen[m] = struct{}{}
				edu.Degrees = append(edu.Degrees, m)
			}
		}
	}

	switch {
	case phdPattern.MatchString(text):
		edu.Level = EducationPhD
	case mastersPattern.MatchString(text):
		edu.Level = EducationMasters
	case bachelorsPattern.MatchString(text):
		edu.Level = EducationBachelors
	case associatePattern.MatchString(text):
		edu.Level = EducationAssociate
	}
	return edu
}

// skillsMatchScore is the share of the role table covered plus a small bonus
// for skills outside it. Roles without a table score 50.
func skillsMatchScore(skills []string, role roles.Role) float64 {
	required := roles.ExtractionSkillSet(role)
	if len(required) == 0 {
		return 50
	}
	req := make(map[string]struct{}, len(required))
	for _, s := range required {
		req[s] = struct{}{}
	}
	matched, extra := 0, 0
	for _, s := range skills {
		if _, ok := req[s]; ok {
			matched++
		} else {
			extra++
		}
	}
	pct := float64(matched) / float64(len(required)) * 100
	bonus := math.Min(20, float64(extra*2))
	return math.Min(100, pct+bonus)
}

func experienceScore(years float64) int {
	switch {
	case years >= 10:
		return 100
	case years >= 7:
		return 90
	case years >= 5:
		return 80
	case years >= 3:
		return 70
	case years >= 2:
		return 60
	case years >= 1:
		return 50
	default:
		return 30
	}
}

func educationScore(edu Education) int {
	if !edu.HasDegree {
		return 40
	}
	switch edu.Level {
	case EducationPhD:
		return 100
	case EducationMasters:
		return 90
	case EducationBachelors:
		return 80
	case EducationAssociate:
		return 70
	default:
		return 60
	}
}

func formatScore(text string) int {
	score := 10

	sections := 0
	for _, re := range sectionPatterns {
		if re.MatchString(text) {
			sections += 10
		}
	}
	score += min(sections, 50)

	if emailPattern.MatchString(text) {
		score += 10
	}
	if hasPhoneNumber(text) {
		score += 10
	}

	switch words := len(strings.Fields(text)); {
	case words >= 200 && words <= 1200:
		score += 20
	case words >= 100 && words <= 2000:
		score += 10
	}
	return clampScore(score)
}

func hasPhoneNumber(text string) bool {
	for _, candidate := range phoneLike.FindAllString(text, -1) {
		digits := 0
		for _, r := range candidate {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 10 && digits <= 15 {
			return true
		}
	}
	return false
}

func skillLevel(skillsMatch, years float64) SkillLevel {
	combined := (skillsMatch + math.Min(100, years*10)) / 2
	switch {
	case combined >= 85:
		return SkillExpert
	case combined >= 70:
		return SkillAdvanced
	case combined >= 55:
		return SkillIntermediate
	default:
		return SkillBeginner
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
