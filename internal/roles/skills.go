package roles

import "sort"

// SkillGroup is a named bucket of skills within a role's extraction table.
type SkillGroup struct {
	Name   string
	Skills []string
}

var extractionSkills = map[Role][]SkillGroup{
	Frontend: {
		{Name: "core", Skills: []string{"html", "css", "javascript", "react", "vue", "angular", "typescript"}},
		{Name: "frameworks", Skills: []string{"bootstrap", "tailwind", "material-ui", "antd", "chakra-ui"}},
		{Name: "tools", Skills: []string{"git", "webpack", "npm", "yarn", "figma", "photoshop"}},
		{Name: "concepts", Skills: []string{"responsive-design", "cross-browser", "accessibility", "performance", "seo"}},
	},
	Backend: {
		{Name: "core", Skills: []string{"python", "java", "nodejs", "c#", "php", "ruby", "go"}},
		{Name: "frameworks", Skills: []string{"django", "flask", "express", "spring", "laravel", "rails"}},
		{Name: "databases", Skills: []string{"mysql", "postgresql", "mongodb", "redis", "elasticsearch"}},
		{Name: "concepts", Skills: []string{"api-design", "microservices", "authentication", "security", "scalability"}},
	},
	DevOps: {
		{Name: "core", Skills: []string{"docker", "kubernetes", "jenkins", "gitlab-ci", "github-actions"}},
		{Name: "cloud", Skills: []string{"aws", "azure", "gcp", "terraform", "ansible"}},
		{Name: "monitoring", Skills: []string{"prometheus", "grafana", "elk-stack", "splunk"}},
		{Name: "concepts", Skills: []string{"ci-cd", "infrastructure-as-code", "devsecops", "automation"}},
	},
	DataScience: {
		{Name: "core", Skills: []string{"python", "r", "sql", "jupyter", "pandas", "numpy"}},
		{Name: "ml", Skills: []string{"scikit-learn", "tensorflow", "pytorch", "keras", "xgboost"}},
		{Name: "visualization", Skills: []string{"matplotlib", "seaborn", "plotly", "tableau", "power-bi"}},
		{Name: "concepts", Skills: []string{"machine-learning", "deep-learning", "statistics", "data-analysis", "nlp"}},
	},
}

// TechKeywords are detected in every resume regardless of target role.
var TechKeywords = []string{
	"javascript", "python", "java", "c++", "c#", "php", "ruby", "go", "rust", "swift", "kotlin",
	"html", "css", "typescript", "sql", "nosql", "mongodb", "postgresql", "mysql",
	"react", "vue", "angular", "django", "flask", "express", "spring", "laravel", "rails",
	"docker", "kubernetes", "aws", "azure", "gcp", "git", "linux", "ubuntu", "jenkins", "terraform", "ansible",
	"rest", "api", "microservices", "agile", "scrum", "tdd", "ci-cd",
	"database", "monitoring", "infrastructure",
}

// Aliases map phrases found in free text onto canonical skill names.
// Keys are matched against cleaned, lowercased text.
var Aliases = map[string]string{
	"node.js":                     "nodejs",
	"node js":                     "nodejs",
	"ci/cd":                       "ci-cd",
	"ci cd":                       "ci-cd",
	"cicd":                        "ci-cd",
	"machine learning":            "machine-learning",
	"deep learning":               "deep-learning",
	"data analysis":               "data-analysis",
	"data analytics":              "data-analysis",
	"responsive design":           "responsive-design",
	"cross browser":               "cross-browser",
	"material ui":                 "material-ui",
	"chakra ui":                   "chakra-ui",
	"api design":                  "api-design",
	"gitlab ci":                   "gitlab-ci",
	"github actions":              "github-actions",
	"elk stack":                   "elk-stack",
	"infrastructure as code":      "infrastructure-as-code",
	"power bi":                    "power-bi",
	"scikit learn":                "scikit-learn",
	"sklearn":                     "scikit-learn",
	"golang":                      "go",
	"postgres":                    "postgresql",
	"k8s":                         "kubernetes",
	"natural language processing": "nlp",
}

// ExtractionSkills returns the categorised keyword table used to read a
// resume for role. Unknown roles and fullstack have no table.
func ExtractionSkills(role Role) []SkillGroup {
	return extractionSkills[role]
}

// ExtractionSkillSet flattens ExtractionSkills into a de-duplicated sorted list.
func ExtractionSkillSet(role Role) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, group := range extractionSkills[role] {
		for _, s := range group.Skills {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

var requiredSkills = map[Role][]string{
	Frontend:    {"html", "css", "javascript", "react", "vue", "typescript", "responsive-design"},
	Backend:     {"python", "java", "nodejs", "api", "database", "microservices"},
	Fullstack:   {"html", "css", "javascript", "react", "python", "nodejs", "database", "api"},
	DevOps:      {"docker", "kubernetes", "aws", "ci-cd", "monitoring", "infrastructure"},
	DataScience: {"python", "machine-learning", "statistics", "data-analysis", "pandas", "numpy"},
}

var alternatives = map[Role][]Role{
	Frontend:    {Backend, Fullstack, DevOps, DataScience},
	Backend:     {Frontend, Fullstack, DevOps, DataScience},
	Fullstack:   {Frontend, Backend, DevOps, DataScience},
	DevOps:      {Backend, Fullstack, Frontend, DataScience},
	DataScience: {Backend, Fullstack, Frontend, DevOps},
}

// RequiredSkills is the skill set the eligibility calculator compares against.
func RequiredSkills(role Role) []string {
	return append([]string(nil), requiredSkills[role]...)
}

// Alternatives lists roles considered when recommending away from role.
func Alternatives(role Role) []Role {
	return append([]Role(nil), alternatives[role]...)
}
