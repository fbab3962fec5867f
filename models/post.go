package models

import "time"

// Post lifecycle states.
const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
)

// Engagement counts reactions on a published post.
type Engagement struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Shares   int `json:"shares"`
}

// Post is a LinkedIn post owned by a user, usually AI generated.
type Post struct {
	ID             string      `json:"id"`
	UserID         string      `json:"userId"`
	Content        string      `json:"content"`
	ContentType    string      `json:"contentType"` // professional_insight, industry_news, ...
	TargetAudience string      `json:"targetAudience"`
	Keywords       *string     `json:"keywords"`
	Status         string      `json:"status"`
	ScheduledAt    *time.Time  `json:"scheduledAt"`
	PublishedAt    *time.Time  `json:"publishedAt"`
	Engagement     *Engagement `json:"engagement"`
	AIGenerated    bool        `json:"aiGenerated"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// NewPost holds the caller-supplied fields for post creation.
// PublishedAt is intentionally absent: it is only set by the publish transition.
type NewPost struct {
	UserID         string      `json:"userId"`
	Content        string      `json:"content"`
	ContentType    string      `json:"contentType"`
	TargetAudience string      `json:"targetAudience"`
	Keywords       *string     `json:"keywords"`
	Status         string      `json:"status"`
	ScheduledAt    *time.Time  `json:"scheduledAt"`
	Engagement     *Engagement `json:"engagement"`
	AIGenerated    bool        `json:"aiGenerated"`
}

// PostUpdate is a partial update; only mentioned fields overwrite.
type PostUpdate struct {
	Content        Optional[string]      `json:"content"`
	ContentType    Optional[string]      `json:"contentType"`
	TargetAudience Optional[string]      `json:"targetAudience"`
	Keywords       Optional[*string]     `json:"keywords"`
	Status         Optional[string]      `json:"status"`
	ScheduledAt    Optional[*time.Time]  `json:"scheduledAt"`
	PublishedAt    Optional[*time.Time]  `json:"publishedAt"`
	Engagement     Optional[*Engagement] `json:"engagement"`
	AIGenerated    Optional[bool]        `json:"aiGenerated"`
}

// Apply merges the mentioned fields of upd into p.
func (p *Post) Apply(upd PostUpdate) {
	upd.Content.apply(&p.Content)
	upd.ContentType.apply(&p.ContentType)
	upd.TargetAudience.apply(&p.TargetAudience)
	upd.Keywords.apply(&p.Keywords)
	upd.Status.apply(&p.Status)
	upd.ScheduledAt.apply(&p.ScheduledAt)
	upd.PublishedAt.apply(&p.PublishedAt)
	upd.Engagement.apply(&p.Engagement)
	upd.AIGenerated.apply(&p.AIGenerated)
}

// Clone returns a copy that shares no pointers with p.
func (p Post) Clone() Post {
	if p.Keywords != nil {
		p.Keywords = Ptr(*p.Keywords)
	}
	if p.ScheduledAt != nil {
		p.ScheduledAt = Ptr(*p.ScheduledAt)
	}
	if p.PublishedAt != nil {
		p.PublishedAt = Ptr(*p.PublishedAt)
	}
	if p.Engagement != nil {
		p.Engagement = Ptr(*p.Engagement)
	}
	return p
}
