package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/linkpost/middleware"
	"github.com/cppla/linkpost/models"
	"github.com/cppla/linkpost/services/generator"
	"github.com/cppla/linkpost/storage"
	"github.com/cppla/linkpost/utils"
)

const trendingCacheKey = "trending-topics"

// demoSamples feed the recommendation prompt until the user has analytics
// or published posts.
var demoSamples = []generator.EngagementSample{
	{Date: "2025-08-20", Engagement: 8.5, ContentType: "insight", Time: "2:00 PM"},
	{Date: "2025-08-21", Engagement: 6.2, ContentType: "news", Time: "9:00 AM"},
	{Date: "2025-08-22", Engagement: 9.1, ContentType: "insight", Time: "3:00 PM"},
	{Date: "2025-08-23", Engagement: 7.8, ContentType: "question", Time: "11:00 AM"},
}

// ContentController serves AI generation, trend research and recommendations.
type ContentController struct {
	store storage.Store
	gen   generator.Service
	cache *utils.ViewCache
}

// NewContentController creates a new ContentController instance. cache may be nil.
func NewContentController(store storage.Store, gen generator.Service, cache *utils.ViewCache) *ContentController {
	return &ContentController{store: store, gen: gen, cache: cache}
}

// GenerateContent writes a LinkedIn post for the requested type, audience and keywords.
func (c *ContentController) GenerateContent(ctx *gin.Context) {
	var req generator.GenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "contentType, targetAudience and keywords are required")
		return
	}
	req.ContentType = utils.SanitizeText(req.ContentType)
	req.TargetAudience = utils.SanitizeText(req.TargetAudience)
	req.Keywords = utils.SanitizeText(req.Keywords)

	out, err := c.gen.Generate(ctx.Request.Context(), req)
	if err != nil {
		utils.Sugar.Errorf("content generation error: %v", err)
		utils.Error(ctx, http.StatusBadGateway, 50201, "failed to generate content: "+err.Error())
		return
	}
	out.Content = utils.SanitizeText(out.Content)
	utils.Success(ctx, out)
}

// ResearchTrends asks the model for trending topics and stores each one.
func (c *ContentController) ResearchTrends(ctx *gin.Context) {
	var req struct {
		Industry string `json:"industry"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.Error(ctx, http.StatusBadRequest, 40051, "invalid request payload")
		return
	}

	res, err := c.gen.ResearchTrends(ctx.Request.Context(), utils.SanitizeText(req.Industry))
	if err != nil {
		c.upstreamError(ctx, 50202, "failed to research trends", err)
		return
	}

	stored := make([]models.TrendingTopic, 0, len(res.Topics))
	for _, t := range res.Topics {
		nt := t.NewTopic()
		nt.Title = utils.SanitizeText(nt.Title)
		nt.Description = utils.SanitizeText(nt.Description)
		nt.Category = utils.SanitizeText(nt.Category)
		if nt.Title == "" {
			continue
		}
		stored = append(stored, c.store.CreateTrendingTopic(nt))
	}
	c.cache.Invalidate(ctx.Request.Context())

	utils.Success(ctx, gin.H{"topics": stored})
}

// TrendingTopics returns every topic, hottest first.
func (c *ContentController) TrendingTopics(ctx *gin.Context) {
	var topics []models.TrendingTopic
	if c.cache.GetJSON(ctx.Request.Context(), trendingCacheKey, &topics) {
		utils.Success(ctx, topics)
		return
	}
	topics = c.store.GetTrendingTopics()
	c.cache.SetJSON(ctx.Request.Context(), trendingCacheKey, topics)
	utils.Success(ctx, topics)
}

// Recommendations suggests optimizations from the user's engagement history.
func (c *ContentController) Recommendations(ctx *gin.Context) {
	userID := middleware.MustUser(ctx).ID
	samples := engagementSamples(c.store.GetAnalytics(userID), c.store.GetRecentPosts(userID, storage.DefaultRecentLimit))
	recs, err := c.gen.Recommendations(ctx.Request.Context(), samples)
	if err != nil {
		c.upstreamError(ctx, 50203, "failed to get recommendations", err)
		return
	}
	for i := range recs {
		recs[i] = utils.SanitizeText(recs[i])
	}
	utils.Success(ctx, gin.H{"recommendations": recs})
}

func (c *ContentController) upstreamError(ctx *gin.Context, code int, msg string, err error) {
	utils.Sugar.Errorf("%s: %v", msg, err)
	if errors.Is(err, generator.ErrNotConfigured) {
		utils.Error(ctx, http.StatusServiceUnavailable, 50301, msg+": xAI API key not configured")
		return
	}
	utils.Error(ctx, http.StatusBadGateway, code, msg+": "+err.Error())
}

// engagementSamples turns analytics rows and published posts into prompt
// samples, analytics first. With neither it falls back to demoSamples.
func engagementSamples(rows []models.Analytics, posts []models.Post) []generator.EngagementSample {
	if len(rows) == 0 && len(posts) == 0 {
		return demoSamples
	}
	out := make([]generator.EngagementSample, 0, len(rows)+len(posts))
	for _, a := range rows {
		rate, _ := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(a.EngagementRate), "%"), 64)
		s := generator.EngagementSample{
			Date:       a.Date.Format("2006-01-02"),
			Engagement: rate,
		}
		if a.TopContentType != nil {
			s.ContentType = *a.TopContentType
		}
		if a.BestPerformingTime != nil {
			s.Time = *a.BestPerformingTime
		}
		out = append(out, s)
	}
	for _, p := range posts {
		if p.PublishedAt == nil {
			continue
		}
		s := generator.EngagementSample{
			Date:        p.PublishedAt.Format("2006-01-02"),
			ContentType: p.ContentType,
			Time:        p.PublishedAt.Format("3:04 PM"),
		}
		if p.Engagement != nil {
			s.Interactions = p.Engagement.Likes + p.Engagement.Comments + p.Engagement.Shares
		}
		out = append(out, s)
	}
	return out
}
