package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"careerlytics-backend/internal/readiness"
	"careerlytics-backend/internal/shared/config"
)

func newThresholdsCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "thresholds",
		Short: "Read or change a readiness test's classification thresholds",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "Threshold directory (defaults to THRESHOLDS_DIR)")

	store := func() *readiness.FileStore {
		if dir == "" {
			dir = config.Load().ThresholdsDir
		}
		return readiness.NewFileStore(dir)
	}

	get := &cobra.Command{
		Use:   "get <testID>",
		Short: "Print the thresholds in effect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTestID(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, store().Load(id))
		},
	}

	var ready, improvement, atRisk float64
	set := &cobra.Command{
		Use:   "set <testID>",
		Short: "Update thresholds; omitted values keep their current setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTestID(args[0])
			if err != nil {
				return err
			}
			s := store()
			t := s.Load(id)
			if cmd.Flags().Changed("ready") {
				t.PlacementReady = ready
			}
			if cmd.Flags().Changed("improvement") {
				t.NeedsImprovement = improvement
			}
			if cmd.Flags().Changed("at-risk") {
				t.AtRisk = atRisk
			}
			if err := s.Save(id, t); err != nil {
				return err
			}
			slog.Info("thresholds saved", "test_id", id, "dir", s.Dir)
			return writeJSON(cmd, t)
		},
	}
	set.Flags().Float64Var(&ready, "ready", 0, "Placement ready threshold")
	set.Flags().Float64Var(&improvement, "improvement", 0, "Needs improvement threshold")
	set.Flags().Float64Var(&atRisk, "at-risk", 0, "At risk floor")

	cmd.AddCommand(get, set)
	return cmd
}

func parseTestID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid test id %q", raw)
	}
	return id, nil
}
