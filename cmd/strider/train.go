package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/strider/internal/agent"
	"github.com/zero-day-ai/strider/internal/strategy"
)

var (
	trainEpisodes   int
	trainCheckpoint string
	trainResume     string
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the agent against the simulated environment",
	Long: `Run training episodes against the simulated target environment.

Each episode resets the environment with a fresh random target and runs
the select-step-update loop until the episode terminates. The exploration
rate adapts to the running success rate after every episode, and the
strategy optimizer folds episode outcomes into its category weights.`,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().IntVarP(&trainEpisodes, "episodes", "n", 100, "Number of training episodes")
	trainCmd.Flags().StringVar(&trainCheckpoint, "checkpoint", "", "Save a checkpoint to this path when training completes")
	trainCmd.Flags().StringVar(&trainResume, "resume", "", "Resume training from an existing checkpoint")
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := buildLogger(cfg)

	a, err := agent.New(cfg, logger)
	if err != nil {
		return err
	}
	if trainResume != "" {
		if err := a.LoadCheckpoint(trainResume); err != nil {
			return err
		}
		cmd.Printf("Resumed from checkpoint %s\n", trainResume)
	}

	optimizer := strategy.NewOptimizer(logger)
	ctx := cmd.Context()

	cmd.Printf("Training for %d episodes...\n", trainEpisodes)
	for i := 0; i < trainEpisodes; i++ {
		if err := ctx.Err(); err != nil {
			cmd.Printf("Training interrupted after %d episodes\n", i)
			break
		}

		result, err := a.TrainEpisode(0)
		if err != nil {
			return err
		}

		a.AdjustExplorationRate(result.SuccessRate)
		optimizer.Optimize(a.Catalog(), strategy.Result{
			SuccessRate:  result.SuccessRate,
			ActionCounts: countActions(result.Actions),
		})
	}

	printStats(cmd, a.PerformanceStats())
	cmd.Printf("Final exploration rate: %.3f\n", a.ExplorationRate())

	if trainCheckpoint != "" {
		path := trainCheckpoint
		if !filepath.IsAbs(path) {
			path = filepath.Join(resolveHomeDir(), "checkpoints", path)
		}
		if err := a.SaveCheckpoint(path); err != nil {
			return err
		}
		cmd.Printf("Checkpoint saved to %s\n", path)
	}

	return nil
}

func countActions(names []string) map[string]int {
	counts := make(map[string]int, len(names))
	for _, name := range names {
		counts[name]++
	}
	return counts
}

func printStats(cmd *cobra.Command, stats agent.PerformanceStats) {
	cmd.Println("\nPerformance:")
	cmd.Printf("  Episodes:          %d\n", stats.TotalEpisodes)
	cmd.Printf("  Successful:        %d\n", stats.SuccessfulEpisodes)
	cmd.Printf("  Success rate:      %.1f%%\n", stats.SuccessRate*100)
	cmd.Printf("  Average reward:    %.2f\n", stats.AverageReward)
	cmd.Printf("  Recent avg reward: %.2f\n", stats.RecentAverageReward)
	cmd.Printf("  Max reward:        %.2f\n", stats.MaxReward)
	cmd.Printf("  Min reward:        %.2f\n", stats.MinReward)
}
