package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"careerlytics-backend/internal/eligibility"
	"careerlytics-backend/internal/quizzes"
	"careerlytics-backend/internal/roles"
)

func newEligibilityCmd() *cobra.Command {
	var (
		resume eligibility.ResumeScores
		quiz   eligibility.QuizScores
		target string
		skills []string
	)
	cmd := &cobra.Command{
		Use:   "eligibility",
		Short: "Compute an eligibility verdict from resume and quiz scores",
		RunE: func(cmd *cobra.Command, _ []string) error {
			role, err := roles.Parse(target)
			if err != nil {
				return err
			}
			for name, v := range map[string]int{
				"general":      quiz.GeneralAbility,
				"tech":         quiz.TechFundamentals,
				"role-score":   quiz.RoleSpecific,
				"ats":          resume.ATSScore,
				"skills-match": resume.SkillsMatch,
				"experience":   resume.Experience,
				"education":    resume.Education,
			} {
				if v < 0 || v > 100 {
					return fmt.Errorf("--%s must be between 0 and 100", name)
				}
			}
			quiz.TargetRole = role
			quiz.Total = quizzes.WeightedTotal(quiz.GeneralAbility, quiz.TechFundamentals, quiz.RoleSpecific)

			var rs *eligibility.ResumeScores
			if cmd.Flags().Changed("ats") {
				resume.Skills = skills
				rs = &resume
			}
			return writeJSON(cmd, eligibility.Calculate(rs, quiz))
		},
	}
	f := cmd.Flags()
	f.StringVar(&target, "target", "", "Target role")
	f.IntVar(&quiz.GeneralAbility, "general", 0, "General ability score")
	f.IntVar(&quiz.TechFundamentals, "tech", 0, "Tech fundamentals score")
	f.IntVar(&quiz.RoleSpecific, "role-score", 0, "Role specific score")
	f.IntVar(&resume.ATSScore, "ats", 0, "Resume ATS score; omit to use the default resume score")
	f.IntVar(&resume.SkillsMatch, "skills-match", 0, "Resume skills match score")
	f.IntVar(&resume.Experience, "experience", 0, "Resume experience score")
	f.IntVar(&resume.Education, "education", 0, "Resume education score")
	f.StringSliceVar(&skills, "skills", nil, "Extracted skills, comma separated")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}
