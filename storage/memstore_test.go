package storage

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/linkpost/models"
)

var baseTime = time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)

// stepClock advances one second per call so createdAt values are distinct.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func newEmptyStore(t *testing.T) (*MemStore, *stepClock) {
	t.Helper()
	clock := &stepClock{t: baseTime}
	return NewMemStore(WithoutDemoData(), WithClock(clock.Now)), clock
}

func mustUser(t *testing.T, s *MemStore, name string) models.User {
	t.Helper()
	return s.CreateUser(models.NewUser{Username: name, Email: name + "@example.com"})
}

func mustPost(t *testing.T, s *MemStore, in models.NewPost) models.Post {
	t.Helper()
	p, err := s.CreatePost(in)
	require.NoError(t, err)
	return p
}

func TestSeedInvariant(t *testing.T) {
	s := NewMemStore()

	users := s.ListUsers()
	require.Len(t, users, 1)
	assert.Equal(t, DemoUsername, users[0].Username)
	assert.True(t, users[0].IsLinkedinConnected)

	topics := s.GetTrendingTopics()
	require.Len(t, topics, 3)
	assert.Equal(t, 94, topics[0].TrendingScore)
	assert.Equal(t, []string{models.TopicStatusHot, models.TopicStatusRising, models.TopicStatusEmerging},
		[]string{topics[0].Status, topics[1].Status, topics[2].Status})

	rows := s.GetAnalytics(users[0].ID)
	require.Len(t, rows, 1)
	assert.Equal(t, "8.4%", rows[0].EngagementRate)
	assert.Equal(t, 127, rows[0].FollowerGrowth)

	byEmail, err := s.GetUserByEmail(DemoEmail)
	require.NoError(t, err)
	assert.Equal(t, users[0].ID, byEmail.ID)
}

func TestGeneratedIDsAreUnique(t *testing.T) {
	s := NewMemStore()
	demo := s.ListUsers()[0]

	seen := map[string]bool{demo.ID: true}
	for _, topic := range s.GetTrendingTopics() {
		seen[topic.ID] = true
	}
	for _, a := range s.GetAnalytics(demo.ID) {
		seen[a.ID] = true
	}
	want := len(seen)

	for i := 0; i < 50; i++ {
		u := s.CreateUser(models.NewUser{Username: fmt.Sprintf("u%d", i)})
		p, err := s.CreatePost(models.NewPost{UserID: u.ID, Content: "x"})
		require.NoError(t, err)
		topic := s.CreateTrendingTopic(models.NewTrendingTopic{Title: "t"})
		a, err := s.CreateAnalytics(models.NewAnalytics{UserID: u.ID, Date: baseTime})
		require.NoError(t, err)
		for _, id := range []string{u.ID, p.ID, topic.ID, a.ID} {
			require.NotEmpty(t, id)
			seen[id] = true
		}
		want += 4
	}
	assert.Len(t, seen, want)
}

func TestCreateUserDefaults(t *testing.T) {
	s, _ := newEmptyStore(t)

	u := s.CreateUser(models.NewUser{Username: "jane", Email: "jane@example.com"})
	assert.Nil(t, u.LinkedinHandle)
	assert.False(t, u.IsLinkedinConnected)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := s.GetUser(u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = s.GetUser("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserByEmail(t *testing.T) {
	s, _ := newEmptyStore(t)
	first := s.CreateUser(models.NewUser{Username: "a", Email: "dup@example.com"})
	s.CreateUser(models.NewUser{Username: "b", Email: "dup@example.com"})

	got, err := s.GetUserByEmail("dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID, "first inserted match wins")

	_, err = s.GetUserByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUser(t *testing.T) {
	s, _ := newEmptyStore(t)
	u := s.CreateUser(models.NewUser{Username: "jane", Email: "jane@example.com", LinkedinHandle: models.Ptr("@jane")})

	updated, err := s.UpdateUser(u.ID, models.UserUpdate{IsLinkedinConnected: models.Some(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsLinkedinConnected)
	assert.Equal(t, "jane", updated.Username, "unmentioned fields keep their value")
	require.NotNil(t, updated.LinkedinHandle)
	assert.Equal(t, "@jane", *updated.LinkedinHandle)

	cleared, err := s.UpdateUser(u.ID, models.UserUpdate{LinkedinHandle: models.Some[*string](nil)})
	require.NoError(t, err)
	assert.Nil(t, cleared.LinkedinHandle, "explicit nil clears the handle")
	assert.True(t, cleared.IsLinkedinConnected)

	_, err = s.UpdateUser("missing", models.UserUpdate{Username: models.Some("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreatePostDefaults(t *testing.T) {
	s, _ := newEmptyStore(t)
	u := mustUser(t, s, "jane")

	p := mustPost(t, s, models.NewPost{UserID: u.ID, Content: "hello", ContentType: "industry_news", TargetAudience: "engineers"})
	assert.Equal(t, models.PostStatusDraft, p.Status)
	assert.Nil(t, p.Keywords)
	assert.Nil(t, p.ScheduledAt)
	assert.Nil(t, p.PublishedAt)
	assert.Nil(t, p.Engagement)
	assert.False(t, p.AIGenerated)
	assert.False(t, p.CreatedAt.IsZero())

	when := baseTime.Add(time.Hour)
	scheduled := mustPost(t, s, models.NewPost{UserID: u.ID, Status: models.PostStatusScheduled, ScheduledAt: &when, AIGenerated: true})
	assert.Equal(t, models.PostStatusScheduled, scheduled.Status)
	assert.Nil(t, scheduled.PublishedAt)
	assert.True(t, scheduled.AIGenerated)
}

func TestCreatePostRequiresExistingUser(t *testing.T) {
	s, _ := newEmptyStore(t)

	_, err := s.CreatePost(models.NewPost{UserID: "ghost", Content: "x"})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, s.GetPosts("ghost"))

	_, err = s.CreateAnalytics(models.NewAnalytics{UserID: "ghost"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdatePostIsIdempotent(t *testing.T) {
	s, _ := newEmptyStore(t)
	u := mustUser(t, s, "jane")
	p := mustPost(t, s, models.NewPost{UserID: u.ID, Content: "draft"})

	when := baseTime.Add(48 * time.Hour)
	upd := models.PostUpdate{
		Status:      models.Some(models.PostStatusScheduled),
		ScheduledAt: models.Some(&when),
		Content:     models.Some("final copy"),
	}

	once, err := s.UpdatePost(p.ID, upd)
	require.NoError(t, err)
	twice, err := s.UpdatePost(p.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
	assert.Equal(t, "final copy", twice.Content)

	published, err := s.UpdatePost(p.ID, models.PostUpdate{Status: models.Some(models.PostStatusPublished)})
	require.NoError(t, err)
	again, err := s.UpdatePost(p.ID, models.PostUpdate{Status: models.Some(models.PostStatusPublished)})
	require.NoError(t, err)
	assert.Equal(t, published, again, "re-applying a publish does not restamp publishedAt")

	_, err = s.UpdatePost("missing", upd)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePostPublishTransition(t *testing.T) {
	s, _ := newEmptyStore(t)
	u := mustUser(t, s, "jane")

	t.Run("stamps publishedAt when not supplied", func(t *testing.T) {
		p := mustPost(t, s, models.NewPost{UserID: u.ID})
		got, err := s.UpdatePost(p.ID, models.PostUpdate{Status: models.Some(models.PostStatusPublished)})
		require.NoError(t, err)
		require.NotNil(t, got.PublishedAt)
		assert.True(t, got.PublishedAt.After(p.CreatedAt))
	})

	t.Run("keeps caller supplied publishedAt", func(t *testing.T) {
		p := mustPost(t, s, models.NewPost{UserID: u.ID})
		at := baseTime.Add(-24 * time.Hour)
		got, err := s.UpdatePost(p.ID, models.PostUpdate{
			Status:      models.Some(models.PostStatusPublished),
			PublishedAt: models.Some(&at),
		})
		require.NoError(t, err)
		require.NotNil(t, got.PublishedAt)
		assert.True(t, got.PublishedAt.Equal(at))
	})

	t.Run("published post surfaces in recent view", func(t *testing.T) {
		recent := s.GetRecentPosts(u.ID, 10)
		assert.Len(t, recent, 2)
	})
}

func TestPublishPost(t *testing.T) {
	s, _ := newEmptyStore(t)
	u := mustUser(t, s, "jane")
	p := mustPost(t, s, models.NewPost{UserID: u.ID, Status: models.PostStatusScheduled})

	at := baseTime.Add(time.Hour)
	got, err := s.PublishPost(p.ID, at)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, got.Status)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, got.PublishedAt.Equal(at))

	again, err := s.PublishPost(p.ID, at.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, again.PublishedAt.Equal(at), "second publish is a no-op")

	_, err = s.PublishPost("missing", at)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublishIfDue(t *testing.T) {
	s, _ := newEmptyStore(t)
	u := mustUser(t, s, "jane")
	now := baseTime.Add(time.Hour)
	due := mustPost(t, s, models.NewPost{UserID: u.ID, Status: models.PostStatusScheduled, ScheduledAt: models.Ptr(now)})
	early := mustPost(t, s, models.NewPost{UserID: u.ID, Status: models.PostStatusScheduled, ScheduledAt: models.Ptr(now.Add(time.Minute))})
	draft := mustPost(t, s, models.NewPost{UserID: u.ID, ScheduledAt: models.Ptr(now.Add(-time.Hour))})

	got, ok, err := s.PublishIfDue(due.ID, now)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.PostStatusPublished, got.Status)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, got.PublishedAt.Equal(now))

	_, ok, err = s.PublishIfDue(due.ID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, ok, "already published")

	for _, id := range []string{early.ID, draft.ID} {
		got, ok, err = s.PublishIfDue(id, now)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NotEqual(t, models.PostStatusPublished, got.Status)
		assert.Nil(t, got.PublishedAt)
	}

	_, _, err = s.PublishIfDue("missing", now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDemoUserIDSurvivesProfileEdits(t *testing.T) {
	s := NewMemStore()
	id := s.DemoUserID()
	require.NotEmpty(t, id)

	_, err := s.UpdateUser(id, models.UserUpdate{Email: models.Some("jd@corp.example"), Username: models.Some("jd")})
	require.NoError(t, err)

	assert.Equal(t, id, s.DemoUserID())
	u, err := s.GetUser(s.DemoUserID())
	require.NoError(t, err)
	assert.Equal(t, "jd@corp.example", u.Email)

	assert.Empty(t, NewMemStore(WithoutDemoData()).DemoUserID())
}

func TestReturnedEntitiesAreCopies(t *testing.T) {
	s, _ := newEmptyStore(t)
	u := mustUser(t, s, "jane")
	when := baseTime.Add(time.Hour)
	p := mustPost(t, s, models.NewPost{
		UserID:      u.ID,
		Status:      models.PostStatusScheduled,
		ScheduledAt: &when,
		Engagement:  &models.Engagement{Likes: 1},
	})

	p.Engagement.Likes = 99
	*p.ScheduledAt = baseTime.Add(1000 * time.Hour)
	when = baseTime

	stored, err := s.GetPost(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Engagement.Likes)
	assert.True(t, stored.ScheduledAt.Equal(baseTime.Add(time.Hour)))
}

func TestStats(t *testing.T) {
	s := NewMemStore()
	demo := s.ListUsers()[0]
	mustPost(t, s, models.NewPost{UserID: demo.ID, AIGenerated: true})
	mustPost(t, s, models.NewPost{UserID: demo.ID, Status: models.PostStatusScheduled, AIGenerated: true})
	p := mustPost(t, s, models.NewPost{UserID: demo.ID, Status: models.PostStatusScheduled})
	_, err := s.PublishPost(p.ID, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, Stats{
		TotalPosts:     3,
		DraftPosts:     1,
		ScheduledPosts: 1,
		PublishedPosts: 1,
		AIGenerated:    2,
		TrendingTopics: 3,
	}, s.Stats(demo.ID))
}

func TestConcurrentAccess(t *testing.T) {
	s := NewMemStore()
	demo := s.ListUsers()[0]

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				p, err := s.CreatePost(models.NewPost{UserID: demo.ID, Content: fmt.Sprintf("%d-%d", i, j)})
				if err != nil {
					t.Error(err)
					return
				}
				if _, err := s.UpdatePost(p.ID, models.PostUpdate{Status: models.Some(models.PostStatusScheduled)}); err != nil {
					t.Error(err)
				}
				s.CreateTrendingTopic(models.NewTrendingTopic{Title: "t", TrendingScore: j})
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				_ = s.GetScheduledPosts(demo.ID)
				_ = s.GetTrendingTopics()
				_ = s.Stats(demo.ID)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, s.GetPosts(demo.ID), 200)
	assert.Len(t, s.GetScheduledPosts(demo.ID), 200)
	assert.Len(t, s.GetTrendingTopics(), 203)
}
