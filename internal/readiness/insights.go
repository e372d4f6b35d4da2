package readiness

import "sort"

// Section labels used in insights.
const (
	LabelAptitude     = "Aptitude"
	LabelReasoning    = "Reasoning"
	LabelEnglish      = "English"
	LabelCoreSubjects = "Core Subjects"
)

// Percent thresholds for strengths and weaknesses, and raw-score floors
// below which a result counts toward a skill gap.
const (
	strengthPercent = 75
	weaknessPercent = 50
)

var skillGapFloors = map[Category]int{
	CategoryAptitude:  5,
	CategoryReasoning: 5,
	CategoryEnglish:   3,
	CategoryCore:      18,
}

// SectionPercents are raw scores relative to the nominal section sizes,
// capped at 100 for tests with longer sections than the standard one.
type SectionPercents struct {
	Aptitude     int `json:"aptitude"`
	Reasoning    int `json:"reasoning"`
	English      int `json:"english"`
	CoreSubjects int `json:"coreSubjects"`
}

// ResultInsight annotates one result for the placement cell.
type ResultInsight struct {
	Result
	SectionPercents SectionPercents `json:"sectionPercents"`
	Strengths       []string        `json:"strengths"`
	Weaknesses      []string        `json:"weaknesses"`
}

// Summary counts results per classification.
type Summary struct {
	Total            int `json:"total"`
	PlacementReady   int `json:"placementReady"`
	NeedsImprovement int `json:"needsImprovement"`
	AtRisk           int `json:"atRisk"`
	ReadyPercent     int `json:"readyPercent"`
}

// DepartmentReadiness is one row of the department heatmap.
type DepartmentReadiness struct {
	Department     string `json:"department"`
	Total          int    `json:"total"`
	Ready          int    `json:"ready"`
	Improvement    int    `json:"improvement"`
	AtRisk         int    `json:"atRisk"`
	ReadyPct       int    `json:"readyPct"`
	ImprovementPct int    `json:"improvementPct"`
	AtRiskPct      int    `json:"atRiskPct"`
}

// YearDistribution counts classifications for one study year.
type YearDistribution struct {
	Year             int `json:"year"`
	Total            int `json:"total"`
	PlacementReady   int `json:"placementReady"`
	NeedsImprovement int `json:"needsImprovement"`
	AtRisk           int `json:"atRisk"`
}

// SkillGaps counts results below the floor of each section.
type SkillGaps struct {
	Aptitude     int `json:"aptitude"`
	Reasoning    int `json:"reasoning"`
	English      int `json:"english"`
	CoreSubjects int `json:"coreSubjects"`
}

// Insights is the placement cell's view of a test.
type Insights struct {
	Test        Test                  `json:"test"`
	Thresholds  Thresholds            `json:"thresholds"`
	Summary     Summary               `json:"summary"`
	Results     []ResultInsight       `json:"results"`
	Departments []DepartmentReadiness `json:"departments"`
	Years       []YearDistribution    `json:"years"`
	SkillGaps   SkillGaps             `json:"skillGaps"`
	CanReset    bool                  `json:"canReset"`
}

const unknownDepartment = "Unknown"

// BuildInsights aggregates results. Result order is preserved.
func BuildInsights(results []Result) Insights {
	out := Insights{
		Results:     make([]ResultInsight, 0, len(results)),
		Departments: []DepartmentReadiness{},
		Years:       []YearDistribution{},
		CanReset:    len(results) > 0,
	}

	depts := map[string]*DepartmentReadiness{}
	years := map[int]*YearDistribution{}
	for _, r := range results {
		out.Results = append(out.Results, annotate(r))

		out.Summary.Total++
		dept := r.Department
		if dept == "" {
			dept = unknownDepartment
		}
		d, ok := depts[dept]
		if !ok {
			d = &DepartmentReadiness{Department: dept}
			depts[dept] = d
		}
		y, ok := years[r.Year]
		if !ok {
			y = &YearDistribution{Year: r.Year}
			years[r.Year] = y
		}
		d.Total++
		y.Total++
		switch r.Classification {
		case PlacementReady:
			out.Summary.PlacementReady++
			d.Ready++
			y.PlacementReady++
		case NeedsImprovement:
			out.Summary.NeedsImprovement++
			d.Improvement++
			y.NeedsImprovement++
		case AtRisk:
			out.Summary.AtRisk++
			d.AtRisk++
			y.AtRisk++
		}

		if r.Scores.Aptitude < skillGapFloors[CategoryAptitude] {
			out.SkillGaps.Aptitude++
		}
		if r.Scores.Reasoning < skillGapFloors[CategoryReasoning] {
			out.SkillGaps.Reasoning++
		}
		if r.Scores.English < skillGapFloors[CategoryEnglish] {
			out.SkillGaps.English++
		}
		if r.Scores.Core < skillGapFloors[CategoryCore] {
			out.SkillGaps.CoreSubjects++
		}
	}
	out.Summary.ReadyPercent = percentOf(out.Summary.PlacementReady, out.Summary.Total)

	for _, d := range depts {
		d.ReadyPct = percentOf(d.Ready, d.Total)
		d.ImprovementPct = percentOf(d.Improvement, d.Total)
		d.AtRiskPct = percentOf(d.AtRisk, d.Total)
		out.Departments = append(out.Departments, *d)
	}
	sort.Slice(out.Departments, func(i, j int) bool {
		if out.Departments[i].Total != out.Departments[j].Total {
			return out.Departments[i].Total > out.Departments[j].Total
		}
		return out.Departments[i].Department < out.Departments[j].Department
	})

	for _, y := range years {
		out.Years = append(out.Years, *y)
	}
	sort.Slice(out.Years, func(i, j int) bool { return out.Years[i].Year < out.Years[j].Year })
	return out
}

func annotate(r Result) ResultInsight {
	ri := ResultInsight{
		Result:     r,
		Strengths:  []string{},
		Weaknesses: []string{},
	}
	sections := []struct {
		label string
		raw   int
		cat   Category
		pct   *int
	}{
		{LabelAptitude, r.Scores.Aptitude, CategoryAptitude, &ri.SectionPercents.Aptitude},
		{LabelReasoning, r.Scores.Reasoning, CategoryReasoning, &ri.SectionPercents.Reasoning},
		{LabelEnglish, r.Scores.English, CategoryEnglish, &ri.SectionPercents.English},
		{LabelCoreSubjects, r.Scores.Core, CategoryCore, &ri.SectionPercents.CoreSubjects},
	}
	for _, s := range sections {
		nominal := NominalQuestions[s.cat]
		*s.pct = min(s.raw*100/nominal, 100)
		switch {
		case s.raw*100 >= strengthPercent*nominal:
			ri.Strengths = append(ri.Strengths, s.label)
		case s.raw*100 < weaknessPercent*nominal:
			ri.Weaknesses = append(ri.Weaknesses, s.label)
		}
	}
	return ri
}

func percentOf(n, total int) int {
	if total == 0 {
		return 0
	}
	return n * 100 / total
}
