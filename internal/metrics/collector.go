package metrics

import (
	"sync"
	"time"

	"github.com/normanking/chrest/internal/chrest"
)

// Collector aggregates the outcomes of RecogniseAndLearn calls.
type Collector struct {
	session       *SessionStats
	recentResults []Episode
	mu            sync.RWMutex
	maxResults    int
}

// SessionStats holds counts for the current learning session.
type SessionStats struct {
	StartTime      time.Time
	Presentations  int
	Discriminated  int
	Familiarised   int
	AlreadyKnown   int
	Refused        int
	Busy           int
	Failed         int
	StatusCounts   map[string]int
	LastStatus     string
	LastModelTime  int
	LastRecordedAt time.Time
}

// Episode is one presented pattern and its outcome.
type Episode struct {
	Pattern string
	Result  chrest.Result
	At      int
}

// NewCollector creates an empty collector keeping the last 50 episodes.
func NewCollector() *Collector {
	return &Collector{
		session: &SessionStats{
			StartTime:    time.Now(),
			StatusCounts: make(map[string]int),
		},
		recentResults: make([]Episode, 0),
		maxResults:    50,
	}
}

// Record adds one outcome to the session.
func (c *Collector) Record(pattern string, at int, r chrest.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.recentResults = append(c.recentResults, Episode{Pattern: pattern, Result: r, At: at})
	if len(c.recentResults) > c.maxResults {
		c.recentResults = c.recentResults[1:]
	}

	s := c.session
	s.Presentations++
	s.StatusCounts[r.Status.String()]++
	switch r.Status {
	case chrest.DiscriminationSuccessful:
		s.Discriminated++
	case chrest.FamiliarisationSuccessful:
		s.Familiarised++
	case chrest.InputAlreadyLearned:
		s.AlreadyKnown++
	case chrest.LearningRefused:
		s.Refused++
	case chrest.DiscriminationFailed, chrest.FamiliarisationFailed:
		s.Failed++
	}
	if r.Status.Busy() {
		s.Busy++
	}
	s.LastStatus = r.Status.String()
	s.LastModelTime = r.Time
	s.LastRecordedAt = time.Now()
}

// GetSessionStats returns a copy of the session stats.
func (c *Collector) GetSessionStats() *SessionStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := *c.session
	stats.StatusCounts = make(map[string]int, len(c.session.StatusCounts))
	for k, v := range c.session.StatusCounts {
		stats.StatusCounts[k] = v
	}
	return &stats
}

// GetRecentEpisodes returns up to n of the most recent episodes, oldest first.
func (c *Collector) GetRecentEpisodes(n int) []Episode {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if n > len(c.recentResults) {
		n = len(c.recentResults)
	}
	start := len(c.recentResults) - n

	out := make([]Episode, n)
	copy(out, c.recentResults[start:])
	return out
}

// LearningRate is the share of presentations that changed the network.
func (s *SessionStats) LearningRate() float64 {
	if s.Presentations == 0 {
		return 0
	}
	return float64(s.Discriminated+s.Familiarised) / float64(s.Presentations) * 100
}
