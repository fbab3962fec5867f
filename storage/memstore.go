package storage

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cppla/linkpost/models"
)

// MemStore is the process-lifetime Store. Each collection has its own lock;
// no operation spans two collections atomically.
type MemStore struct {
	users     *table[models.User]
	posts     *table[models.Post]
	topics    *table[models.TrendingTopic]
	analytics *table[models.Analytics]

	now    func() time.Time
	newID  func() string
	seed   bool
	demoID string
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates a store and, unless WithoutDemoData is given, seeds the demo data.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		users:     newTable(models.User.Clone),
		posts:     newTable(models.Post.Clone),
		topics:    newTable[models.TrendingTopic](nil),
		analytics: newTable(models.Analytics.Clone),
		now:       time.Now,
		newID:     uuid.NewString,
		seed:      true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seed {
		s.demoID = seedDemoData(s)
	}
	return s
}

// DemoUserID is the ID of the seeded demo user, or "" when nothing was seeded.
// It stays valid when the demo user's email or username changes.
func (s *MemStore) DemoUserID() string {
	return s.demoID
}

// Users

func (s *MemStore) CreateUser(in models.NewUser) models.User {
	u := models.User{
		ID:                  s.newID(),
		Username:            in.Username,
		Email:               in.Email,
		LinkedinHandle:      in.LinkedinHandle,
		IsLinkedinConnected: in.IsLinkedinConnected,
		CreatedAt:           s.now(),
	}
	return s.users.insert(u.ID, u)
}

func (s *MemStore) GetUser(id string) (models.User, error) {
	u, ok := s.users.get(id)
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

// GetUserByEmail scans in insertion order; the first match wins.
func (s *MemStore) GetUserByEmail(email string) (models.User, error) {
	matches := s.users.filter(func(u *models.User) bool { return u.Email == email })
	if len(matches) == 0 {
		return models.User{}, ErrNotFound
	}
	return matches[0], nil
}

func (s *MemStore) ListUsers() []models.User {
	return s.users.filter(nil)
}

func (s *MemStore) UpdateUser(id string, upd models.UserUpdate) (models.User, error) {
	u, ok := s.users.update(id, func(_ models.User, next *models.User) {
		next.Apply(upd)
	})
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

// Posts

func (s *MemStore) CreatePost(in models.NewPost) (models.Post, error) {
	if !s.users.has(in.UserID) {
		return models.Post{}, ErrUserNotFound
	}
	status := in.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	p := models.Post{
		ID:             s.newID(),
		UserID:         in.UserID,
		Content:        in.Content,
		ContentType:    in.ContentType,
		TargetAudience: in.TargetAudience,
		Keywords:       in.Keywords,
		Status:         status,
		ScheduledAt:    in.ScheduledAt,
		PublishedAt:    nil,
		Engagement:     in.Engagement,
		AIGenerated:    in.AIGenerated,
		CreatedAt:      s.now(),
	}
	return s.posts.insert(p.ID, p), nil
}

func (s *MemStore) GetPost(id string) (models.Post, error) {
	p, ok := s.posts.get(id)
	if !ok {
		return models.Post{}, ErrNotFound
	}
	return p, nil
}

// UpdatePost merges upd onto the post. A move into "published" that does not
// mention publishedAt stamps it with the current time.
func (s *MemStore) UpdatePost(id string, upd models.PostUpdate) (models.Post, error) {
	p, ok := s.posts.update(id, func(prev models.Post, next *models.Post) {
		next.Apply(upd)
		if next.Status == models.PostStatusPublished && prev.Status != models.PostStatusPublished && !upd.PublishedAt.Set {
			next.PublishedAt = models.Ptr(s.now())
		}
	})
	if !ok {
		return models.Post{}, ErrNotFound
	}
	return p, nil
}

// PublishPost moves a post to published at the given time (zero means now).
// Publishing an already published post leaves it unchanged.
func (s *MemStore) PublishPost(id string, at time.Time) (models.Post, error) {
	if at.IsZero() {
		at = s.now()
	}
	p, ok := s.posts.update(id, func(prev models.Post, next *models.Post) {
		if prev.Status == models.PostStatusPublished && prev.PublishedAt != nil {
			return
		}
		next.Status = models.PostStatusPublished
		next.PublishedAt = models.Ptr(at)
	})
	if !ok {
		return models.Post{}, ErrNotFound
	}
	return p, nil
}

// PublishIfDue publishes the post only if it is still scheduled with a
// scheduledAt at or before now. The check and the write happen under the same
// lock, so a concurrent update that drafts or reschedules the post wins.
func (s *MemStore) PublishIfDue(id string, now time.Time) (models.Post, bool, error) {
	published := false
	p, ok := s.posts.update(id, func(prev models.Post, next *models.Post) {
		if !isDue(prev, now) {
			return
		}
		next.Status = models.PostStatusPublished
		next.PublishedAt = models.Ptr(now)
		published = true
	})
	if !ok {
		return models.Post{}, false, ErrNotFound
	}
	return p, published, nil
}

func (s *MemStore) GetPosts(userID string) []models.Post {
	return s.posts.filter(func(p *models.Post) bool { return p.UserID == userID })
}

// GetScheduledPosts orders by scheduledAt ascending; posts without a
// scheduledAt go last in insertion order.
func (s *MemStore) GetScheduledPosts(userID string) []models.Post {
	out := s.posts.filter(func(p *models.Post) bool {
		return p.UserID == userID && p.Status == models.PostStatusScheduled
	})
	sortByTime(out, func(p models.Post) *time.Time { return p.ScheduledAt }, true)
	return out
}

// GetRecentPosts orders published posts by publishedAt descending and keeps
// at most limit of them. Posts missing publishedAt go last.
func (s *MemStore) GetRecentPosts(userID string, limit int) []models.Post {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	out := s.posts.filter(func(p *models.Post) bool {
		return p.UserID == userID && p.Status == models.PostStatusPublished
	})
	sortByTime(out, func(p models.Post) *time.Time { return p.PublishedAt }, false)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DuePosts returns scheduled posts of every user whose time has come.
func (s *MemStore) DuePosts(now time.Time) []models.Post {
	out := s.posts.filter(func(p *models.Post) bool { return isDue(*p, now) })
	sortByTime(out, func(p models.Post) *time.Time { return p.ScheduledAt }, true)
	return out
}

// Trending topics

// GetTrendingTopics returns every topic, highest trendingScore first.
func (s *MemStore) GetTrendingTopics() []models.TrendingTopic {
	out := s.topics.filter(nil)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TrendingScore > out[j].TrendingScore
	})
	return out
}

func (s *MemStore) CreateTrendingTopic(in models.NewTrendingTopic) models.TrendingTopic {
	status := in.Status
	if status == "" {
		status = models.TopicStatusActive
	}
	t := models.TrendingTopic{
		ID:                 s.newID(),
		Title:              in.Title,
		Description:        in.Description,
		Category:           in.Category,
		TrendingScore:      in.TrendingScore,
		EngagementEstimate: in.EngagementEstimate,
		PeakTime:           in.PeakTime,
		Status:             status,
		CreatedAt:          s.now(),
	}
	return s.topics.insert(t.ID, t)
}

// Analytics

func (s *MemStore) GetAnalytics(userID string) []models.Analytics {
	return s.analytics.filter(func(a *models.Analytics) bool { return a.UserID == userID })
}

func (s *MemStore) CreateAnalytics(in models.NewAnalytics) (models.Analytics, error) {
	if !s.users.has(in.UserID) {
		return models.Analytics{}, ErrUserNotFound
	}
	a := models.Analytics{
		ID:                 s.newID(),
		UserID:             in.UserID,
		Date:               in.Date,
		EngagementRate:     in.EngagementRate,
		FollowerGrowth:     in.FollowerGrowth,
		PostsPublished:     in.PostsPublished,
		BestPerformingTime: in.BestPerformingTime,
		TopContentType:     in.TopContentType,
	}
	return s.analytics.insert(a.ID, a), nil
}

// GetLatestAnalytics returns the row with the greatest date. On equal dates
// the earliest inserted row wins.
func (s *MemStore) GetLatestAnalytics(userID string) (models.Analytics, error) {
	rows := s.GetAnalytics(userID)
	if len(rows) == 0 {
		return models.Analytics{}, ErrNotFound
	}
	latest := rows[0]
	for _, a := range rows[1:] {
		if a.Date.After(latest.Date) {
			latest = a
		}
	}
	return latest, nil
}

func (s *MemStore) Stats(userID string) Stats {
	st := Stats{TrendingTopics: s.topics.len()}
	for _, p := range s.GetPosts(userID) {
		st.TotalPosts++
		if p.AIGenerated {
			st.AIGenerated++
		}
		switch p.Status {
		case models.PostStatusDraft:
			st.DraftPosts++
		case models.PostStatusScheduled:
			st.ScheduledPosts++
		case models.PostStatusPublished:
			st.PublishedPosts++
		}
	}
	return st
}

func isDue(p models.Post, now time.Time) bool {
	return p.Status == models.PostStatusScheduled && p.ScheduledAt != nil && !p.ScheduledAt.After(now)
}

// sortByTime stable-sorts posts by the timestamp key picks. Posts with a nil
// key always sort after those with one.
func sortByTime(posts []models.Post, key func(models.Post) *time.Time, ascending bool) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := key(posts[i]), key(posts[j])
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		case ascending:
			return a.Before(*b)
		default:
			return a.After(*b)
		}
	})
}
