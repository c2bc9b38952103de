package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"plaza/config"
	"plaza/internal/auth"
	"plaza/internal/service"
	"plaza/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	oauthStateCookie  = "plaza_oauth_state"
)

var errGoogleProfile = errors.New("google profile is missing id or email")

type GoogleOAuthHandler struct {
	cfg     *config.OAuthConfig
	authSvc *service.AuthService
	log     *logger.Logger
}

func NewGoogleOAuthHandler(cfg *config.OAuthConfig, authSvc *service.AuthService, log *logger.Logger) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{cfg: cfg, authSvc: authSvc, log: log}
}

func (h *GoogleOAuthHandler) OAuth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.cfg.GoogleClientID,
		ClientSecret: h.cfg.GoogleClientSecret,
		RedirectURL:  h.cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

type googleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (h *GoogleOAuthHandler) configured(c *gin.Context) bool {
	if h.cfg.GoogleClientID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "google sign-in is not configured"})
		return false
	}
	return true
}

// Redirect sends the browser to Google's consent screen.
func (h *GoogleOAuthHandler) Redirect(c *gin.Context) {
	if !h.configured(c) {
		return
	}
	state, err := auth.RandomPassword(16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start sign-in"})
		return
	}
	c.SetCookie(oauthStateCookie, state, 600, "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusTemporaryRedirect, h.OAuth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline))
}

// Callback exchanges the authorization code and signs the user in.
func (h *GoogleOAuthHandler) Callback(c *gin.Context) {
	if !h.configured(c) {
		return
	}
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}
	ctx := c.Request.Context()
	oauthCfg := h.OAuth2Config()
	tok, err := oauthCfg.Exchange(ctx, code)
	if err != nil {
		h.log.Warn("google code exchange failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "code exchange failed"})
		return
	}
	profile, err := fetchGoogleProfile(oauthCfg.Client(ctx, tok))
	if err != nil {
		h.log.Warn("google userinfo failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to read google profile"})
		return
	}
	h.signIn(c, profile)
}

// Token signs in a mobile client that already holds a Google ID token.
func (h *GoogleOAuthHandler) Token(c *gin.Context) {
	if !h.configured(c) {
		return
	}
	var req struct {
		IDToken string `json:"id_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payload, err := idtoken.Validate(c.Request.Context(), req.IDToken, h.cfg.GoogleClientID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid id token"})
		return
	}
	profile := &googleProfile{ID: payload.Subject}
	profile.Email, _ = payload.Claims["email"].(string)
	profile.Name, _ = payload.Claims["name"].(string)
	profile.Picture, _ = payload.Claims["picture"].(string)
	h.signIn(c, profile)
}

func (h *GoogleOAuthHandler) signIn(c *gin.Context, p *googleProfile) {
	if p.ID == "" || p.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errGoogleProfile.Error()})
		return
	}
	res, err := h.authSvc.LoginWithGoogle(c.Request.Context(), p.ID, p.Email, p.Name, p.Picture)
	if err != nil {
		respondError(c, h.log, err, "google sign-in failed")
		return
	}
	c.JSON(http.StatusOK, loginJSON(res))
}

func fetchGoogleProfile(client *http.Client) (*googleProfile, error) {
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	var p googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}
