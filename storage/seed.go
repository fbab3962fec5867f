package storage

import "github.com/cppla/linkpost/models"

// Demo user identity seeded at construction.
const (
	DemoUsername = "johndoe"
	DemoEmail    = "john@example.com"
)

var demoTopics = []models.NewTrendingTopic{
	{
		Title:              "Remote Work Tools Evolution",
		Description:        "Discussion around new collaboration platforms and their impact on team productivity. High engagement potential.",
		Category:           "Tech Industry",
		TrendingScore:      94,
		EngagementEstimate: "8.7%",
		PeakTime:           "2-4 PM",
		Status:             models.TopicStatusHot,
	},
	{
		Title:              "AI Ethics in Business Decision Making",
		Description:        "Growing conversations about responsible AI implementation in corporate environments. Perfect for thought leadership.",
		Category:           "Leadership",
		TrendingScore:      87,
		EngagementEstimate: "7.2%",
		PeakTime:           "9-11 AM",
		Status:             models.TopicStatusRising,
	},
	{
		Title:              "Quantum Computing Breakthroughs",
		Description:        "Recent advances in quantum technology and their potential business applications. Early adoption topic.",
		Category:           "Innovation",
		TrendingScore:      72,
		EngagementEstimate: "6.1%",
		PeakTime:           "11-1 PM",
		Status:             models.TopicStatusEmerging,
	},
}

// seedDemoData runs once per store: one user, three topics, one analytics row.
// It returns the demo user's ID.
func seedDemoData(s *MemStore) string {
	demo := s.CreateUser(models.NewUser{
		Username:            DemoUsername,
		Email:               DemoEmail,
		LinkedinHandle:      models.Ptr("@johndoe_ai"),
		IsLinkedinConnected: true,
	})

	for _, t := range demoTopics {
		s.CreateTrendingTopic(t)
	}

	// The demo user was inserted just above, so the reference cannot dangle.
	_, _ = s.CreateAnalytics(models.NewAnalytics{
		UserID:             demo.ID,
		Date:               s.now(),
		EngagementRate:     "8.4%",
		FollowerGrowth:     127,
		PostsPublished:     5,
		BestPerformingTime: models.Ptr("2:00 PM"),
		TopContentType:     models.Ptr("Insights"),
	})
	return demo.ID
}
