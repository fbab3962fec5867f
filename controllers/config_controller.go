package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/linkpost/config"
	"github.com/cppla/linkpost/utils"
)

// ConfigController reports runtime configuration that clients may rely on.
type ConfigController struct {
	cfg config.AppConfig
	now func() time.Time
}

func NewConfigController(cfg config.AppConfig) *ConfigController {
	return &ConfigController{cfg: cfg, now: time.Now}
}

// Health is the liveness check; it also tells the UI whether AI calls will work.
func (c *ConfigController) Health(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"status":             "ok",
		"timestamp":          c.now().UTC().Format(time.RFC3339Nano),
		"env":                c.cfg.AppEnv,
		"xaiConfigured":      c.cfg.XAIConfigured(),
		"linkedinConfigured": c.cfg.LinkedInConfigured(),
	})
}
