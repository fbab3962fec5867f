package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/linkpost/middleware"
	"github.com/cppla/linkpost/storage"
	"github.com/cppla/linkpost/utils"
)

// StatsController provides the dashboard overview counters.
type StatsController struct {
	store storage.Store
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(store storage.Store) *StatsController {
	return &StatsController{store: store}
}

// GetStats returns post counts by status, the topic count and the latest
// engagement rate (empty when the user has no analytics).
func (s *StatsController) GetStats(ctx *gin.Context) {
	userID := middleware.MustUser(ctx).ID
	stats := s.store.Stats(userID)

	rate := ""
	if latest, err := s.store.GetLatestAnalytics(userID); err == nil {
		rate = latest.EngagementRate
	}

	utils.Success(ctx, gin.H{
		"totalPosts":       stats.TotalPosts,
		"draftPosts":       stats.DraftPosts,
		"scheduledPosts":   stats.ScheduledPosts,
		"publishedPosts":   stats.PublishedPosts,
		"aiGeneratedPosts": stats.AIGenerated,
		"trendingTopics":   stats.TrendingTopics,
		"engagementRate":   rate,
	})
}
