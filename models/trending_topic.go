package models

import "time"

// Trending topic heat levels.
const (
	TopicStatusHot      = "hot"
	TopicStatusRising   = "rising"
	TopicStatusEmerging = "emerging"
	TopicStatusActive   = "active"
)

// TrendingTopic is a researched subject worth posting about. Immutable once stored.
type TrendingTopic struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Category           string    `json:"category"`
	TrendingScore      int       `json:"trendingScore"`
	EngagementEstimate string    `json:"engagementEstimate"` // e.g. "8.7%"
	PeakTime           string    `json:"peakTime"`           // e.g. "2-4 PM"
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
}

// NewTrendingTopic holds the fields for topic creation.
type NewTrendingTopic struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	Category           string `json:"category"`
	TrendingScore      int    `json:"trendingScore"`
	EngagementEstimate string `json:"engagementEstimate"`
	PeakTime           string `json:"peakTime"`
	Status             string `json:"status"`
}
