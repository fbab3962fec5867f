package generator

import "fmt"

const (
	systemContentExpert   = "You are a LinkedIn content expert who creates engaging professional posts that drive high engagement rates."
	systemTrendAnalyst    = "You are a social media trend analyst who identifies high-engagement topics for LinkedIn content creators."
	systemAnalyticsExpert = "You are a LinkedIn analytics expert who provides data-driven recommendations for content optimization."
)

func contentPrompt(req GenerateRequest) string {
	return fmt.Sprintf(`Generate a professional LinkedIn post based on the following requirements:
- Content Type: %s
- Target Audience: %s
- Keywords/Topic: %s

Requirements:
- Write an engaging, professional LinkedIn post
- Include relevant emojis but don't overuse them
- Add appropriate hashtags (4-6 relevant ones)
- Keep it authentic and valuable
- Length should be 2-4 paragraphs
- Include a call-to-action or question to encourage engagement

Respond with JSON in this format:
{
  "content": "the LinkedIn post content with emojis and hashtags",
  "engagementPrediction": "High/Medium/Low with brief reason",
  "bestTime": "optimal posting time like '2:00 PM' or '9:00 AM'",
  "hashtags": ["array", "of", "hashtags", "without", "hash", "symbol"]
}`, req.ContentType, req.TargetAudience, req.Keywords)
}

func trendPrompt(industry string) string {
	scope := ""
	if industry != "" {
		scope = fmt.Sprintf(" in the %s industry", industry)
	}
	return fmt.Sprintf(`Research current trending topics for LinkedIn content creation%s.

Find 5-8 trending topics that would be great for LinkedIn posts. For each topic, analyze:
- Current relevance and discussion volume
- Engagement potential
- Best times to post about this topic
- What makes it trending right now

Focus on professional development, industry innovations, leadership insights,
technology trends, business strategy, remote work, AI and automation, and
sustainability in business.

Respond with JSON in this format:
{
  "topics": [
    {
      "title": "concise topic title",
      "description": "detailed description of why this topic is trending and valuable for posts",
      "category": "category like 'Tech Industry', 'Leadership', 'Innovation'",
      "trendingScore": number from 0-100,
      "engagementEstimate": "percentage like '8.5%%'",
      "peakTime": "optimal time range like '2-4 PM' or '9-11 AM'",
      "status": "hot/rising/emerging"
    }
  ]
}`, scope)
}

func recommendationPrompt(data string) string {
	return fmt.Sprintf(`Analyze this LinkedIn engagement data and provide actionable optimization recommendations:

Data: %s

Based on this data, provide 3-5 specific, actionable recommendations to improve LinkedIn content performance.
Focus on optimal posting times, content types that perform best, engagement patterns and areas for improvement.

Respond with JSON in this format:
{
  "recommendations": ["recommendation 1", "recommendation 2", "recommendation 3"]
}`, data)
}
