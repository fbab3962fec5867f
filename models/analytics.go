package models

import "time"

// Analytics is one reporting period of engagement figures for a user.
type Analytics struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	Date               time.Time `json:"date"`
	EngagementRate     string    `json:"engagementRate"`
	FollowerGrowth     int       `json:"followerGrowth"`
	PostsPublished     int       `json:"postsPublished"`
	BestPerformingTime *string   `json:"bestPerformingTime"`
	TopContentType     *string   `json:"topContentType"`
}

// NewAnalytics holds the fields for analytics creation.
type NewAnalytics struct {
	UserID             string    `json:"userId"`
	Date               time.Time `json:"date"`
	EngagementRate     string    `json:"engagementRate"`
	FollowerGrowth     int       `json:"followerGrowth"`
	PostsPublished     int       `json:"postsPublished"`
	BestPerformingTime *string   `json:"bestPerformingTime"`
	TopContentType     *string   `json:"topContentType"`
}

// Clone returns a copy that shares no pointers with a.
func (a Analytics) Clone() Analytics {
	if a.BestPerformingTime != nil {
		a.BestPerformingTime = Ptr(*a.BestPerformingTime)
	}
	if a.TopContentType != nil {
		a.TopContentType = Ptr(*a.TopContentType)
	}
	return a
}
