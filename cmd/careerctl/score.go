package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"careerlytics-backend/internal/extract"
	"careerlytics-backend/internal/resumes"
	"careerlytics-backend/internal/roles"
)

func newScoreCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "score <file>",
		Short: "Score a PDF, DOCX or text resume against a target role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := roles.Parse(role)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read resume: %w", err)
			}
			text, err := extract.ExtractTextFromBytes(cmd.Context(), data, "", filepath.Base(args[0]))
			if err != nil {
				return fmt.Errorf("extract %s: %w", args[0], err)
			}
			slog.Debug("text extracted", "file", args[0], "chars", len(text))

			features := resumes.Analyze(text, target, time.Now())
			slog.Info("resume scored", "role", string(target), "ats", features.Scores.ATS, "skills", len(features.Skills))
			return writeJSON(cmd, features)
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "Target role (frontend, backend, devops, datascience)")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
