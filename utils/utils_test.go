package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cppla/linkpost/models"
	"github.com/cppla/linkpost/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSessionSignerRoundTrip(t *testing.T) {
	s, err := NewSessionSigner("secret", time.Hour)
	require.NoError(t, err)

	token, exp, err := s.Issue("u-1", "johndoe")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "johndoe", claims.Username)
}

func TestSessionSignerRejects(t *testing.T) {
	s, err := NewSessionSigner("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewSessionSigner("other", time.Hour)
	require.NoError(t, err)

	token, _, err := other.Issue("u-1", "johndoe")
	require.NoError(t, err)
	_, err = s.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = s.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)

	expired, err := NewSessionSigner("secret", time.Hour)
	require.NoError(t, err)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err = expired.Issue("u-1", "johndoe")
	require.NoError(t, err)
	_, err = s.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionSignerRandomSecret(t *testing.T) {
	a, err := NewSessionSigner("", 0)
	require.NoError(t, err)
	b, err := NewSessionSigner("", 0)
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, a.TTL())

	token, _, err := a.Issue("u-1", "x")
	require.NoError(t, err)
	_, err = b.Parse(token)
	assert.Error(t, err)
}

func TestStateStoreMemory(t *testing.T) {
	ctx := context.Background()
	s := NewStateStore(nil)

	require.NoError(t, s.Save(ctx, "abc", "u-1", time.Minute))
	userID, ok := s.Consume(ctx, "abc")
	assert.True(t, ok)
	assert.Equal(t, "u-1", userID)

	_, ok = s.Consume(ctx, "abc")
	assert.False(t, ok, "state is single use")

	_, ok = s.Consume(ctx, "")
	assert.False(t, ok)
}

func TestStateStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 8, 22, 12, 0, 0, 0, time.UTC)
	s := NewStateStore(nil)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "abc", "u-1", time.Minute))
	now = now.Add(2 * time.Minute)
	_, ok := s.Consume(ctx, "abc")
	assert.False(t, ok)
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Hello world", SanitizeText(`<script>alert(1)</script>Hello <b>world</b>`))
	assert.Equal(t, "What's new & next?", SanitizeText("What's new & next?"))
	assert.Nil(t, SanitizePtr(nil))
	assert.Equal(t, "ai", *SanitizePtr(models.Ptr(" <i>ai</i> ")))
}

func TestViewCacheDisabled(t *testing.T) {
	ctx := context.Background()
	var nilCache *ViewCache
	assert.False(t, nilCache.Enabled())

	c := NewViewCache(nil, "test:", 0)
	assert.False(t, c.Enabled())
	c.SetJSON(ctx, "k", []int{1})
	var out []int
	assert.False(t, c.GetJSON(ctx, "k", &out))
	c.Invalidate(ctx)
}

func TestPublishDue(t *testing.T) {
	now := time.Date(2025, 8, 22, 14, 0, 0, 0, time.UTC)
	store := storage.NewMemStore(storage.WithClock(func() time.Time { return now }))
	user, err := store.GetUserByEmail(storage.DemoEmail)
	require.NoError(t, err)

	due, err := store.CreatePost(models.NewPost{UserID: user.ID, Content: "due", Status: models.PostStatusScheduled, ScheduledAt: models.Ptr(now.Add(-time.Minute))})
	require.NoError(t, err)
	later, err := store.CreatePost(models.NewPost{UserID: user.ID, Content: "later", Status: models.PostStatusScheduled, ScheduledAt: models.Ptr(now.Add(time.Hour))})
	require.NoError(t, err)

	var seen []string
	p := NewScheduledPublisher(store, time.Second, func(post models.Post) { seen = append(seen, post.ID) })
	p.now = func() time.Time { return now }

	assert.Equal(t, 1, p.PublishDue())
	assert.Equal(t, []string{due.ID}, seen)

	got, err := store.GetPost(due.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, got.Status)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, got.PublishedAt.Equal(now))

	got, err = store.GetPost(later.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusScheduled, got.Status)

	assert.Equal(t, 0, p.PublishDue(), "nothing left to publish")
}

// draftingStore drafts and reschedules every listed post right after
// DuePosts returns, the way a PATCH racing the publisher tick would.
type draftingStore struct {
	*storage.MemStore
	later time.Time
}

func (d draftingStore) DuePosts(now time.Time) []models.Post {
	due := d.MemStore.DuePosts(now)
	for _, p := range due {
		_, _ = d.MemStore.UpdatePost(p.ID, models.PostUpdate{
			Status:      models.Some(models.PostStatusDraft),
			ScheduledAt: models.Some(models.Ptr(d.later)),
		})
	}
	return due
}

func TestPublishDueSkipsPostsDraftedAfterListing(t *testing.T) {
	now := time.Date(2025, 8, 22, 14, 0, 0, 0, time.UTC)
	store := storage.NewMemStore(storage.WithClock(func() time.Time { return now }))
	post, err := store.CreatePost(models.NewPost{UserID: store.DemoUserID(), Content: "due", Status: models.PostStatusScheduled, ScheduledAt: models.Ptr(now.Add(-time.Minute))})
	require.NoError(t, err)

	called := false
	p := NewScheduledPublisher(draftingStore{MemStore: store, later: now.Add(time.Hour)}, time.Second, func(models.Post) { called = true })
	p.now = func() time.Time { return now }

	assert.Equal(t, 0, p.PublishDue())
	assert.False(t, called)

	got, err := store.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, got.Status)
	assert.Nil(t, got.PublishedAt)
	require.NotNil(t, got.ScheduledAt)
	assert.True(t, got.ScheduledAt.Equal(now.Add(time.Hour)))
}

func TestPublisherStopsWithContext(t *testing.T) {
	store := storage.NewMemStore(storage.WithoutDemoData())
	ctx, cancel := context.WithCancel(context.Background())
	done := NewScheduledPublisher(store, time.Millisecond, nil).Start(ctx)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop")
	}
}

func TestRecoveryWithZap(t *testing.T) {
	r := gin.New()
	r.Use(Ginzap(zap.NewNop(), time.RFC3339, true), RecoveryWithZap(zap.NewNop(), true))
	r.GET("/boom", func(ctx *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 50000, body.Code)
}

func TestGraceServerStopsOnCancel(t *testing.T) {
	srv := NewServer("127.0.0.1:0", http.NotFoundHandler(), time.Second, time.Second)
	require.NoError(t, srv.Listen())
	hooked := make(chan struct{})
	srv.OnShutdown(func() { close(hooked) })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx) }()

	resp, err := http.Get("http://" + srv.ListenAddr() + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	<-hooked
}
