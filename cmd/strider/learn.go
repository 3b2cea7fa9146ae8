package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/strider/internal/agent"
	"github.com/zero-day-ai/strider/internal/reward"
)

var learnCheckpoint string

var learnCmd = &cobra.Command{
	Use:   "learn <outcomes.jsonl>",
	Short: "Update the model from recorded test outcomes",
	Long: `Feed recorded penetration-test outcomes into the learning agent.

The outcomes file holds one JSON object per line, each describing the
observed state and the per-stage results of a completed test. Every
outcome is mapped to a scalar reward and folded into the model; the
updated state is written back to the checkpoint.`,
	Args: cobra.ExactArgs(1),
	RunE: runLearn,
}

func init() {
	learnCmd.Flags().StringVar(&learnCheckpoint, "checkpoint", "", "Checkpoint file to update (required)")
	learnCmd.MarkFlagRequired("checkpoint")
}

func runLearn(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := buildLogger(cfg)

	a, err := agent.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := a.LoadCheckpoint(learnCheckpoint); err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open outcomes file: %w", err)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var outcome reward.Outcome
		if err := json.Unmarshal(line, &outcome); err != nil {
			return fmt.Errorf("invalid outcome on line %d: %w", count+1, err)
		}

		r := reward.Calculate(outcome)
		if err := a.UpdateModel(outcome.State, r); err != nil {
			return err
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read outcomes file: %w", err)
	}

	if err := a.SaveCheckpoint(learnCheckpoint); err != nil {
		return err
	}

	cmd.Printf("Processed %d outcomes, checkpoint updated at %s\n", count, learnCheckpoint)
	return nil
}
