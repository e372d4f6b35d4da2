package main

import (
	"github.com/spf13/cobra"

	"careerlytics-backend/internal/quizzes"
	"careerlytics-backend/internal/roles"
	"careerlytics-backend/internal/shared/config"
)

func newQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Inspect the quiz question bank",
	}

	var bankDir string
	stats := &cobra.Command{
		Use:   "stats <role>",
		Short: "Count the questions available to a role's quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := roles.Parse(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("bank-dir") {
				bankDir = config.Load().QuestionBankDir
			}
			bank, err := quizzes.OpenBank(bankDir)
			if err != nil {
				return err
			}
			st, err := bank.Stats(role)
			if err != nil {
				return err
			}
			return writeJSON(cmd, st)
		},
	}
	stats.Flags().StringVar(&bankDir, "bank-dir", "", "Question bank directory (defaults to QUESTION_BANK_DIR, then the embedded bank)")

	cmd.AddCommand(stats)
	return cmd
}
