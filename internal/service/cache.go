package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/gousero-sin/LifeLogAi/internal/model"
)

// StatsCache memoizes dashboard stats per (user, period, day). Entry writes
// drop every cached value of the writing user.
type StatsCache struct {
	c *cache.Cache
}

// NewStatsCache creates a cache whose items expire after ttl. A non-positive
// ttl disables caching.
func NewStatsCache(ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		return &StatsCache{}
	}
	return &StatsCache{c: cache.New(ttl, 2*ttl)}
}

func statsUserPrefix(userID uint) string {
	return fmt.Sprintf("stats:%d:", userID)
}

func statsKey(userID uint, period int, day string) string {
	return fmt.Sprintf("%s%d:%s", statsUserPrefix(userID), period, day)
}

func (s *StatsCache) Get(userID uint, period int, day string) (model.DashboardStats, bool) {
	if s == nil || s.c == nil {
		return model.DashboardStats{}, false
	}
	v, ok := s.c.Get(statsKey(userID, period, day))
	if !ok {
		return model.DashboardStats{}, false
	}
	stats, ok := v.(model.DashboardStats)
	return stats, ok
}

func (s *StatsCache) Set(userID uint, period int, day string, stats model.DashboardStats) {
	if s == nil || s.c == nil {
		return
	}
	s.c.SetDefault(statsKey(userID, period, day), stats)
}

// InvalidateUser removes all cached stats of userID.
func (s *StatsCache) InvalidateUser(userID uint) {
	if s == nil || s.c == nil {
		return
	}
	prefix := statsUserPrefix(userID)
	for key := range s.c.Items() {
		if strings.HasPrefix(key, prefix) {
			s.c.Delete(key)
		}
	}
}
