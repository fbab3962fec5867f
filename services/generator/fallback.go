package generator

import (
	"fmt"
	"strings"
)

// hashtag squeezes whitespace out of keywords: "remote work" -> "remotework".
func hashtag(keywords string) string {
	return strings.Join(strings.Fields(keywords), "")
}

// offlineContent is served when no API key is configured.
func offlineContent(req GenerateRequest) GeneratedContent {
	tag := hashtag(req.Keywords)
	return GeneratedContent{
		Content: fmt.Sprintf("🚀 %s is transforming how we work in %s.\n\n"+
			"Key insights:\n• Innovation drives success\n• Collaboration enhances productivity\n• Future-focused thinking wins\n\n"+
			"What's your experience with %s? Share your thoughts!\n\n"+
			"#Innovation #%s #ProfessionalGrowth #FutureOfWork",
			req.Keywords, req.TargetAudience, req.Keywords, tag),
		EngagementPrediction: "High - Questions drive engagement",
		BestTime:             "2:00 PM",
		Hashtags:             []string{"Innovation", tag, "ProfessionalGrowth", "FutureOfWork"},
	}
}

// failureContent is served when the API is configured but the call failed.
func failureContent(req GenerateRequest) GeneratedContent {
	tag := hashtag(req.Keywords)
	return GeneratedContent{
		Content: fmt.Sprintf("🚀 Exploring %s in the %s space.\n\n"+
			"Key takeaways:\n• Innovation is key to staying competitive\n• Continuous learning drives growth\n• Networking opens new opportunities\n\n"+
			"What's your take on %s? Let's discuss!\n\n"+
			"#Innovation #Growth #Networking #%s",
			req.Keywords, req.TargetAudience, req.Keywords, tag),
		EngagementPrediction: "Medium - Engaging content with question",
		BestTime:             "2:00 PM",
		Hashtags:             []string{"Innovation", "Growth", "Networking", tag},
	}
}
