package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/linkpost/middleware"
	"github.com/cppla/linkpost/models"
	"github.com/cppla/linkpost/storage"
	"github.com/cppla/linkpost/utils"
)

// AuthController issues session tokens and manages the current user's profile.
type AuthController struct {
	store  storage.Store
	signer *utils.SessionSigner
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(store storage.Store, signer *utils.SessionSigner) *AuthController {
	return &AuthController{store: store, signer: signer}
}

// CreateSession issues a bearer token for an existing user, looked up by email.
// There are no credentials: the dashboard is a single-tenant demo.
func (a *AuthController) CreateSession(ctx *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	user, err := a.store.GetUserByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	token, expiresAt, err := a.signer.Issue(user.ID, user.Username)
	if err != nil {
		utils.Sugar.Errorf("issue session token for user %s: %v", user.ID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "expiresAt": expiresAt, "user": user})
}

// Me returns the current user.
func (a *AuthController) Me(ctx *gin.Context) {
	current := middleware.MustUser(ctx)
	// re-read so the response reflects updates made after the middleware ran
	user, err := a.store.GetUser(current.ID)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "user not found")
		return
	}
	utils.Success(ctx, user)
}

// UpdateProfile applies a partial update to the current user.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	var upd models.UserUpdate
	if err := ctx.ShouldBindJSON(&upd); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request payload")
		return
	}

	if upd.Username.Set {
		upd.Username.Value = utils.SanitizeText(upd.Username.Value)
		if upd.Username.Value == "" {
			utils.Error(ctx, http.StatusBadRequest, 40003, "username cannot be empty")
			return
		}
	}
	if upd.Email.Set {
		upd.Email.Value = strings.TrimSpace(upd.Email.Value)
		if !strings.Contains(upd.Email.Value, "@") {
			utils.Error(ctx, http.StatusBadRequest, 40004, "invalid email")
			return
		}
	}
	if upd.LinkedinHandle.Set {
		upd.LinkedinHandle.Value = utils.SanitizePtr(upd.LinkedinHandle.Value)
	}

	user, err := a.store.UpdateUser(middleware.MustUser(ctx).ID, upd)
	if errors.Is(err, storage.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40403, "user not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to update profile")
		return
	}
	utils.Success(ctx, user)
}
