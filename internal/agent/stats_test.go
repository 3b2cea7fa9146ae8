package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_Empty(t *testing.T) {
	s := NewStats()

	snapshot := s.Snapshot()
	assert.Zero(t, snapshot.TotalEpisodes)
	assert.Zero(t, snapshot.SuccessRate)
	assert.Zero(t, snapshot.AverageReward)
	assert.Zero(t, snapshot.MaxReward)
	assert.Zero(t, snapshot.MinReward)
}

func TestStats_RecordEpisode(t *testing.T) {
	s := NewStats()
	s.RecordEpisode(100, true)
	s.RecordEpisode(-20, false)
	s.RecordEpisode(60, true)
	s.RecordEpisode(0, false)

	snapshot := s.Snapshot()
	assert.Equal(t, 4, snapshot.TotalEpisodes)
	assert.Equal(t, 2, snapshot.SuccessfulEpisodes)
	assert.InDelta(t, 0.5, snapshot.SuccessRate, 1e-12)
	assert.InDelta(t, 35, snapshot.AverageReward, 1e-9)
	assert.Equal(t, 100.0, snapshot.MaxReward)
	assert.Equal(t, -20.0, snapshot.MinReward)
}

func TestStats_RecentWindow(t *testing.T) {
	s := NewStats()

	// 50 old episodes at reward 0, then a full window at reward 10.
	for i := 0; i < 50; i++ {
		s.RecordEpisode(0, false)
	}
	for i := 0; i < recentWindow; i++ {
		s.RecordEpisode(10, true)
	}

	snapshot := s.Snapshot()
	assert.InDelta(t, 10, snapshot.RecentAverageReward, 1e-9)
	assert.Less(t, snapshot.AverageReward, 10.0)
}

func TestStats_Reset(t *testing.T) {
	s := NewStats()
	s.RecordEpisode(50, true)
	s.Reset()

	assert.Zero(t, s.TotalEpisodes())
	assert.Zero(t, s.SuccessRate())
	assert.Empty(t, s.rewardHistory())
}

func TestStats_RestoreRoundTrip(t *testing.T) {
	s := NewStats()
	s.RecordEpisode(30, false)
	s.RecordEpisode(80, true)

	restored := NewStats()
	restored.restore(s.rewardHistory(), s.successfulEpisodes, s.totalEpisodes)

	assert.Equal(t, s.Snapshot(), restored.Snapshot())
}
