package agent

import "gonum.org/v1/gonum/stat"

// recentWindow is the trailing episode count used for the recent-average
// reward statistic.
const recentWindow = 100

// Stats accumulates episode outcomes. It is an explicit owned value, reset
// only through Reset, never ambient state.
type Stats struct {
	totalEpisodes      int
	successfulEpisodes int
	rewards            []float64
}

// NewStats creates an empty statistics record.
func NewStats() *Stats {
	return &Stats{}
}

// RecordEpisode folds one finished episode into the running statistics.
func (s *Stats) RecordEpisode(totalReward float64, success bool) {
	s.totalEpisodes++
	if success {
		s.successfulEpisodes++
	}
	s.rewards = append(s.rewards, totalReward)
}

// TotalEpisodes returns the number of recorded episodes.
func (s *Stats) TotalEpisodes() int {
	return s.totalEpisodes
}

// SuccessRate returns the fraction of recorded episodes that succeeded.
// Zero episodes yields zero, not NaN.
func (s *Stats) SuccessRate() float64 {
	if s.totalEpisodes == 0 {
		return 0
	}
	return float64(s.successfulEpisodes) / float64(s.totalEpisodes)
}

// Reset clears all recorded statistics.
func (s *Stats) Reset() {
	s.totalEpisodes = 0
	s.successfulEpisodes = 0
	s.rewards = nil
}

// PerformanceStats is the externally visible statistics snapshot.
type PerformanceStats struct {
	TotalEpisodes       int     `json:"total_episodes"`
	SuccessfulEpisodes  int     `json:"successful_episodes"`
	SuccessRate         float64 `json:"success_rate"`
	AverageReward       float64 `json:"average_reward"`
	MaxReward           float64 `json:"max_reward"`
	MinReward           float64 `json:"min_reward"`
	RecentAverageReward float64 `json:"recent_avg_reward"`
}

// Snapshot computes the full statistics view: success counts and rate,
// mean/max/min over the whole reward history, and the mean of the last
// hundred episodes.
func (s *Stats) Snapshot() PerformanceStats {
	snapshot := PerformanceStats{
		TotalEpisodes:      s.totalEpisodes,
		SuccessfulEpisodes: s.successfulEpisodes,
		SuccessRate:        s.SuccessRate(),
	}

	if len(s.rewards) == 0 {
		return snapshot
	}

	snapshot.AverageReward = stat.Mean(s.rewards, nil)
	snapshot.MaxReward = s.rewards[0]
	snapshot.MinReward = s.rewards[0]
	for _, r := range s.rewards[1:] {
		if r > snapshot.MaxReward {
			snapshot.MaxReward = r
		}
		if r < snapshot.MinReward {
			snapshot.MinReward = r
		}
	}

	recent := s.rewards
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	snapshot.RecentAverageReward = stat.Mean(recent, nil)

	return snapshot
}

// rewardHistory returns the raw reward history for checkpointing.
func (s *Stats) rewardHistory() []float64 {
	out := make([]float64, len(s.rewards))
	copy(out, s.rewards)
	return out
}

// restore replaces the statistics with checkpointed values.
func (s *Stats) restore(rewards []float64, successful, total int) {
	s.rewards = make([]float64, len(rewards))
	copy(s.rewards, rewards)
	s.successfulEpisodes = successful
	s.totalEpisodes = total
}
