package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"

	"github.com/cppla/linkpost/config"
	"github.com/cppla/linkpost/middleware"
	"github.com/cppla/linkpost/models"
	"github.com/cppla/linkpost/storage"
	"github.com/cppla/linkpost/utils"
)

const (
	linkedInUserInfoURL = "https://api.linkedin.com/v2/userinfo"
	oauthStateTTL       = 10 * time.Minute
)

// LinkedInController runs the OAuth flow that connects a LinkedIn account.
type LinkedInController struct {
	store       storage.Store
	states      *utils.StateStore
	oauth       *oauth2.Config // nil when the app is not configured
	userInfoURL string
}

// NewLinkedInController creates a new LinkedInController instance.
func NewLinkedInController(store storage.Store, states *utils.StateStore, cfg config.AppConfig) *LinkedInController {
	l := &LinkedInController{store: store, states: states, userInfoURL: linkedInUserInfoURL}
	if cfg.LinkedInConfigured() {
		l.oauth = &oauth2.Config{
			ClientID:     cfg.LinkedInClientID,
			ClientSecret: cfg.LinkedInClientSecret,
			RedirectURL:  cfg.LinkedInRedirectURL,
			Scopes:       []string{"openid", "profile", "email", "w_member_social"},
			Endpoint:     linkedin.Endpoint,
		}
	}
	return l
}

// Connect returns the LinkedIn authorization URL for the current user.
func (l *LinkedInController) Connect(ctx *gin.Context) {
	if l.oauth == nil {
		utils.Error(ctx, http.StatusServiceUnavailable, 50310, "linkedin oauth not configured")
		return
	}

	state := uuid.NewString()
	if err := l.states.Save(ctx.Request.Context(), state, middleware.MustUser(ctx).ID, oauthStateTTL); err != nil {
		utils.Sugar.Errorf("save oauth state: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to start linkedin authorization")
		return
	}

	utils.Success(ctx, gin.H{"authorizationUrl": l.oauth.AuthCodeURL(state), "state": state})
}

// Callback exchanges the authorization code and marks the user who started
// the flow as connected.
func (l *LinkedInController) Callback(ctx *gin.Context) {
	if l.oauth == nil {
		utils.Error(ctx, http.StatusServiceUnavailable, 50310, "linkedin oauth not configured")
		return
	}
	if e := ctx.Query("error"); e != "" {
		utils.Error(ctx, http.StatusBadRequest, 40040, "linkedin authorization denied: "+ctx.DefaultQuery("error_description", e))
		return
	}

	code := ctx.Query("code")
	state := ctx.Query("state")
	if code == "" || state == "" {
		utils.Error(ctx, http.StatusBadRequest, 40041, "missing code or state")
		return
	}
	userID, ok := l.states.Consume(ctx.Request.Context(), state)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid or expired state")
		return
	}

	token, err := l.oauth.Exchange(ctx.Request.Context(), code)
	if err != nil {
		utils.Sugar.Warnf("linkedin code exchange failed: %v", err)
		utils.Error(ctx, http.StatusBadRequest, 40043, "failed to exchange code")
		return
	}

	upd := models.UserUpdate{IsLinkedinConnected: models.Some(true)}
	profile, err := l.fetchProfile(ctx, token)
	if err != nil {
		// the account is connected either way; the handle is cosmetic
		utils.Sugar.Warnf("linkedin userinfo failed: %v", err)
	} else if handle := profile.handle(); handle != "" {
		upd.LinkedinHandle = models.Some(&handle)
	}

	user, err := l.store.UpdateUser(userID, upd)
	if errors.Is(err, storage.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40440, "user not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to connect linkedin")
		return
	}
	utils.Success(ctx, user)
}

// Disconnect clears the connected flag of the current user.
func (l *LinkedInController) Disconnect(ctx *gin.Context) {
	user, err := l.store.UpdateUser(middleware.MustUser(ctx).ID, models.UserUpdate{
		IsLinkedinConnected: models.Some(false),
	})
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40441, "user not found")
		return
	}
	utils.Success(ctx, user)
}

type linkedInProfile struct {
	Sub        string `json:"sub"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
}

// handle builds "@firstlast" from the profile name.
func (p linkedInProfile) handle() string {
	name := p.Name
	if name == "" {
		name = p.GivenName + " " + p.FamilyName
	}
	slug := strings.ToLower(strings.Join(strings.Fields(utils.SanitizeText(name)), ""))
	if slug == "" {
		return ""
	}
	return "@" + slug
}

func (l *LinkedInController) fetchProfile(ctx *gin.Context, token *oauth2.Token) (*linkedInProfile, error) {
	req, err := http.NewRequestWithContext(ctx.Request.Context(), http.MethodGet, l.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.oauth.Client(ctx.Request.Context(), token).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("linkedin userinfo status %d", resp.StatusCode)
	}
	var p linkedInProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}
