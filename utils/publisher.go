package utils

import (
	"context"
	"time"

	"github.com/cppla/linkpost/models"
)

// PostPublisher is the slice of the store the scheduled publisher needs.
type PostPublisher interface {
	DuePosts(now time.Time) []models.Post
	PublishIfDue(id string, now time.Time) (models.Post, bool, error)
}

// ScheduledPublisher flips scheduled posts to published once their
// scheduledAt has passed.
type ScheduledPublisher struct {
	store     PostPublisher
	interval  time.Duration
	now       func() time.Time
	onPublish func(models.Post)
}

// NewScheduledPublisher polls store every interval (one minute when <= 0).
// onPublish, if set, runs after each post is published.
func NewScheduledPublisher(store PostPublisher, interval time.Duration, onPublish func(models.Post)) *ScheduledPublisher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ScheduledPublisher{store: store, interval: interval, now: time.Now, onPublish: onPublish}
}

// PublishDue publishes every post due at the current time and returns how many were published.
func (p *ScheduledPublisher) PublishDue() int {
	now := p.now()
	published := 0
	for _, post := range p.store.DuePosts(now) {
		out, ok, err := p.store.PublishIfDue(post.ID, now)
		if err != nil {
			Sugar.Warnf("scheduled publisher: publish post %s failed: %v", post.ID, err)
			continue
		}
		if !ok {
			// drafted or rescheduled after DuePosts listed it
			Sugar.Debugw("scheduled post no longer due", "post_id", post.ID, "status", out.Status)
			continue
		}
		published++
		Sugar.Infow("scheduled post published", "post_id", out.ID, "user_id", out.UserID)
		if p.onPublish != nil {
			p.onPublish(out)
		}
	}
	return published
}

// Start runs the publisher in a goroutine until ctx is done. The returned
// channel closes once the loop has exited.
func (p *ScheduledPublisher) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.PublishDue()
			}
		}
	}()
	return done
}
