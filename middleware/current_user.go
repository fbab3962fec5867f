package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/linkpost/models"
	"github.com/cppla/linkpost/storage"
	"github.com/cppla/linkpost/utils"
)

// ContextUserKey stores the resolved models.User inside the Gin context.
const ContextUserKey = "current_user"

// UserLookup is the part of the store the middleware reads.
type UserLookup interface {
	GetUser(id string) (models.User, error)
}

// CurrentUser resolves who the request acts for. A bearer session token wins;
// without one the request runs as the demo user. A present but invalid
// token is rejected rather than silently downgraded. The demo user is looked
// up by ID so profile edits do not lose it.
func CurrentUser(users UserLookup, demoUserID string, signer *utils.SessionSigner) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, status, code, msg := resolveUser(ctx.GetHeader("Authorization"), users, demoUserID, signer)
		if status != 0 {
			utils.Abort(ctx, status, code, msg)
			return
		}
		ctx.Set(ContextUserKey, user)
		ctx.Next()
	}
}

func resolveUser(header string, users UserLookup, demoUserID string, signer *utils.SessionSigner) (models.User, int, int, string) {
	if header == "" {
		user, err := users.GetUser(demoUserID)
		if err != nil {
			return models.User{}, http.StatusNotFound, 40401, "user not found"
		}
		return user, 0, 0, ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return models.User{}, http.StatusUnauthorized, 40102, "invalid authorization header format"
	}
	claims, err := signer.Parse(strings.TrimSpace(parts[1]))
	if err != nil {
		return models.User{}, http.StatusUnauthorized, 40105, "invalid token"
	}
	user, err := users.GetUser(claims.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.User{}, http.StatusUnauthorized, 40106, "session user no longer exists"
	}
	if err != nil {
		return models.User{}, http.StatusInternalServerError, 50001, "failed to load user"
	}
	return user, 0, 0, ""
}

// MustUser returns the user set by CurrentUser. It panics if the middleware
// is not installed, which RecoveryWithZap turns into a 500.
func MustUser(ctx *gin.Context) models.User {
	return ctx.MustGet(ContextUserKey).(models.User)
}
