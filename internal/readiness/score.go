package readiness

import "math"

// Scored is a graded submission before it is stored.
type Scored struct {
	Scores         CategoryScores
	TotalCorrect   int
	TotalQuestions int
	Percentage     float64
	Classification Classification
	Answers        []Answer
}

// Grade counts correct answers per section and classifies the percentage.
// When both indices are present they decide correctness, otherwise the
// client's flag is used. Answers outside the four sections count toward the
// total but never as correct.
func Grade(sub Submission, t Thresholds) Scored {
	out := Scored{Answers: make([]Answer, 0, len(sub.Answers))}
	for _, a := range sub.Answers {
		if a.SelectedIndex != nil && a.CorrectIndex != nil {
			a.IsCorrect = *a.SelectedIndex == *a.CorrectIndex
		}
		if a.Options == nil {
			a.Options = []string{}
		}
		out.Answers = append(out.Answers, a)
		if !a.IsCorrect {
			continue
		}
		switch a.Category {
		case CategoryAptitude:
			out.Scores.Aptitude++
		case CategoryReasoning:
			out.Scores.Reasoning++
		case CategoryEnglish:
			out.Scores.English++
		case CategoryCore:
			out.Scores.Core++
		}
	}

	out.TotalQuestions = len(sub.Answers)
	if out.TotalQuestions == 0 {
		out.TotalQuestions = DefaultTotalQuestions
	}
	out.TotalCorrect = out.Scores.total()
	out.Percentage = math.Round(float64(out.TotalCorrect)/float64(out.TotalQuestions)*100*100) / 100
	out.Classification = Classify(out.Percentage, t)
	return out
}
