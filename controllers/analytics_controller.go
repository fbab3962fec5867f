package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/linkpost/middleware"
	"github.com/cppla/linkpost/models"
	"github.com/cppla/linkpost/storage"
	"github.com/cppla/linkpost/utils"
)

// AnalyticsController exposes the current user's engagement reports.
type AnalyticsController struct {
	store storage.Store
}

// NewAnalyticsController creates a new AnalyticsController instance.
func NewAnalyticsController(store storage.Store) *AnalyticsController {
	return &AnalyticsController{store: store}
}

// Latest returns the most recent report, or 404 when there is none.
func (a *AnalyticsController) Latest(ctx *gin.Context) {
	row, err := a.store.GetLatestAnalytics(middleware.MustUser(ctx).ID)
	if errors.Is(err, storage.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40430, "no analytics yet")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load analytics")
		return
	}
	utils.Success(ctx, row)
}

// History returns every report in insertion order.
func (a *AnalyticsController) History(ctx *gin.Context) {
	utils.Success(ctx, a.store.GetAnalytics(middleware.MustUser(ctx).ID))
}

// Record stores a report for the current user. A missing date means now.
func (a *AnalyticsController) Record(ctx *gin.Context) {
	var req models.NewAnalytics
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid request payload")
		return
	}
	req.UserID = middleware.MustUser(ctx).ID
	if req.Date.IsZero() {
		req.Date = time.Now()
	}
	req.BestPerformingTime = utils.SanitizePtr(req.BestPerformingTime)
	req.TopContentType = utils.SanitizePtr(req.TopContentType)

	row, err := a.store.CreateAnalytics(req)
	if errors.Is(err, storage.ErrUserNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40431, "user not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to record analytics")
		return
	}
	utils.Created(ctx, row)
}
