// Package storage holds the in-memory data store behind the dashboard API:
// users, posts, trending topics and analytics, plus the derived views the
// dashboard reads (scheduled posts, recent posts, ranked topics, latest
// analytics). Contents live for the lifetime of the process.
package storage

import (
	"errors"
	"time"

	"github.com/cppla/linkpost/models"
)

// DefaultRecentLimit caps GetRecentPosts when the caller passes no limit.
const DefaultRecentLimit = 10

var (
	// ErrNotFound is returned when a lookup, update or "latest" query finds nothing.
	ErrNotFound = errors.New("storage: not found")
	// ErrUserNotFound is returned when a new row references a user that does not exist.
	ErrUserNotFound = errors.New("storage: referenced user not found")
)

// Store is the contract the routing layer and background jobs depend on.
type Store interface {
	CreateUser(in models.NewUser) models.User
	GetUser(id string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	ListUsers() []models.User
	UpdateUser(id string, upd models.UserUpdate) (models.User, error)

	CreatePost(in models.NewPost) (models.Post, error)
	GetPost(id string) (models.Post, error)
	UpdatePost(id string, upd models.PostUpdate) (models.Post, error)
	PublishPost(id string, at time.Time) (models.Post, error)
	PublishIfDue(id string, now time.Time) (models.Post, bool, error)
	GetPosts(userID string) []models.Post
	GetScheduledPosts(userID string) []models.Post
	GetRecentPosts(userID string, limit int) []models.Post
	DuePosts(now time.Time) []models.Post

	GetTrendingTopics() []models.TrendingTopic
	CreateTrendingTopic(in models.NewTrendingTopic) models.TrendingTopic

	GetAnalytics(userID string) []models.Analytics
	CreateAnalytics(in models.NewAnalytics) (models.Analytics, error)
	GetLatestAnalytics(userID string) (models.Analytics, error)

	Stats(userID string) Stats
}

// Stats summarises one user's content for the dashboard overview.
type Stats struct {
	TotalPosts     int `json:"totalPosts"`
	DraftPosts     int `json:"draftPosts"`
	ScheduledPosts int `json:"scheduledPosts"`
	PublishedPosts int `json:"publishedPosts"`
	AIGenerated    int `json:"aiGeneratedPosts"`
	TrendingTopics int `json:"trendingTopics"`
}

// Option configures a MemStore.
type Option func(*MemStore)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *MemStore) { s.now = now }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *MemStore) { s.newID = gen }
}

// WithoutDemoData skips the demo user, topics and analytics seeded at construction.
func WithoutDemoData() Option {
	return func(s *MemStore) { s.seed = false }
}
