package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/linkpost/middleware"
	"github.com/cppla/linkpost/models"
	"github.com/cppla/linkpost/storage"
	"github.com/cppla/linkpost/utils"
)

const maxRecentLimit = 100

// PostController manages the current user's LinkedIn posts.
type PostController struct {
	store storage.Store
}

// NewPostController creates a new PostController instance.
func NewPostController(store storage.Store) *PostController {
	return &PostController{store: store}
}

// CreatePost stores a post for the current user. Any userId in the body is ignored.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req models.NewPost
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	req.UserID = middleware.MustUser(ctx).ID
	req.Content = utils.SanitizeText(req.Content)
	if req.Content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "content cannot be empty")
		return
	}
	req.TargetAudience = utils.SanitizeText(req.TargetAudience)
	req.Keywords = utils.SanitizePtr(req.Keywords)
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))

	post, err := p.store.CreatePost(req)
	if errors.Is(err, storage.ErrUserNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create post")
		return
	}
	utils.Created(ctx, post)
}

// ListPosts returns all posts of the current user in creation order.
func (p *PostController) ListPosts(ctx *gin.Context) {
	utils.Success(ctx, p.store.GetPosts(middleware.MustUser(ctx).ID))
}

// ListScheduled returns the scheduled queue, soonest first.
func (p *PostController) ListScheduled(ctx *gin.Context) {
	utils.Success(ctx, p.store.GetScheduledPosts(middleware.MustUser(ctx).ID))
}

// ListRecent returns the latest published posts, capped by ?limit.
func (p *PostController) ListRecent(ctx *gin.Context) {
	limit := parseLimit(ctx.Query("limit"), storage.DefaultRecentLimit, maxRecentLimit)
	utils.Success(ctx, p.store.GetRecentPosts(middleware.MustUser(ctx).ID, limit))
}

// GetPost returns one post owned by the current user.
func (p *PostController) GetPost(ctx *gin.Context) {
	post, ok := p.ownedPost(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, post)
}

// UpdatePost applies a partial update. Moving a post to published without a
// publishedAt stamps the current time.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	if _, ok := p.ownedPost(ctx); !ok {
		return
	}

	var upd models.PostUpdate
	if err := ctx.ShouldBindJSON(&upd); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid request payload")
		return
	}
	if upd.Content.Set {
		upd.Content.Value = utils.SanitizeText(upd.Content.Value)
		if upd.Content.Value == "" {
			utils.Error(ctx, http.StatusBadRequest, 40021, "content cannot be empty")
			return
		}
	}
	if upd.TargetAudience.Set {
		upd.TargetAudience.Value = utils.SanitizeText(upd.TargetAudience.Value)
	}
	if upd.Keywords.Set {
		upd.Keywords.Value = utils.SanitizePtr(upd.Keywords.Value)
	}
	if upd.Status.Set {
		upd.Status.Value = strings.ToLower(strings.TrimSpace(upd.Status.Value))
	}

	post, err := p.store.UpdatePost(ctx.Param("id"), upd)
	if errors.Is(err, storage.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to update post")
		return
	}
	utils.Success(ctx, post)
}

// PublishPost publishes a post now. Publishing twice keeps the first publishedAt.
func (p *PostController) PublishPost(ctx *gin.Context) {
	if _, ok := p.ownedPost(ctx); !ok {
		return
	}
	post, err := p.store.PublishPost(ctx.Param("id"), time.Time{})
	if errors.Is(err, storage.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to publish post")
		return
	}
	utils.Success(ctx, post)
}

// ownedPost loads :id and writes a 404 when it is missing or belongs to
// someone else.
func (p *PostController) ownedPost(ctx *gin.Context) (models.Post, bool) {
	post, err := p.store.GetPost(ctx.Param("id"))
	if err != nil || post.UserID != middleware.MustUser(ctx).ID {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return models.Post{}, false
	}
	return post, true
}

func parseLimit(raw string, def, ceiling int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > ceiling {
		return ceiling
	}
	return n
}
