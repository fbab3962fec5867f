package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/linkpost/models"
	"github.com/cppla/linkpost/services/generator"
)

func TestEngagementSamplesFallback(t *testing.T) {
	assert.Equal(t, demoSamples, engagementSamples(nil, nil))

	rows := []models.Analytics{{
		Date:           time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC),
		EngagementRate: "7.5%",
		TopContentType: models.Ptr("Polls"),
	}}
	s := engagementSamples(rows, nil)
	require.Len(t, s, 1)
	assert.Equal(t, "2025-08-21", s[0].Date)
	assert.Equal(t, 7.5, s[0].Engagement)
	assert.Equal(t, "Polls", s[0].ContentType)
	assert.Empty(t, s[0].Time)
}

func TestEngagementSamplesFromPublishedPosts(t *testing.T) {
	at := time.Date(2025, 8, 23, 16, 5, 0, 0, time.UTC)
	posts := []models.Post{
		{ContentType: "news", PublishedAt: &at, Engagement: &models.Engagement{Likes: 4, Comments: 1, Shares: 1}},
		{ContentType: "insight", PublishedAt: &at},
		{ContentType: "draft-like"},
	}

	assert.Equal(t, []generator.EngagementSample{
		{Date: "2025-08-23", Interactions: 6, ContentType: "news", Time: "4:05 PM"},
		{Date: "2025-08-23", ContentType: "insight", Time: "4:05 PM"},
	}, engagementSamples(nil, posts))
}
