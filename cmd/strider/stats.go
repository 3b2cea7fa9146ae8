package main

import (
	"github.com/spf13/cobra"

	"github.com/zero-day-ai/strider/internal/agent"
)

var statsCheckpoint string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print performance statistics from a checkpoint",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsCheckpoint, "checkpoint", "", "Checkpoint file to read (required)")
	statsCmd.MarkFlagRequired("checkpoint")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := buildLogger(cfg)

	a, err := agent.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := a.LoadCheckpoint(statsCheckpoint); err != nil {
		return err
	}

	printStats(cmd, a.PerformanceStats())
	cmd.Printf("Exploration rate:    %.3f\n", a.ExplorationRate())

	return nil
}
