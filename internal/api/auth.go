package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cookio/cookio/backend/internal/auth"
	"github.com/cookio/cookio/backend/internal/middleware"
	"github.com/cookio/cookio/backend/internal/service"
)

const stateCookieMaxAge = 600 // seconds

// AuthHandler handles Google sign-in and session requests.
type AuthHandler struct {
	auth   *service.AuthService
	google *auth.GoogleProvider
}

// NewAuthHandler creates a new AuthHandler. google may be nil when OAuth
// credentials are not configured; sign-in endpoints then return 503.
func NewAuthHandler(authService *service.AuthService, google *auth.GoogleProvider) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		google: google,
	}
}

// RegisterRoutes registers the auth routes on /auth.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.GET("/google", h.GoogleSignIn)
		authGroup.GET("/google/callback", h.GoogleCallback)
		authGroup.GET("/me", middleware.AuthMiddleware(h.auth), h.Me)
	}
}

// GoogleSignIn redirects the browser to the Google consent page. The state
// nonce is stored in a short-lived cookie and checked on callback.
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	if h.google == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google sign-in is not configured"})
		return
	}

	state := uuid.NewString()
	c.SetCookie("oauth_state", state, stateCookieMaxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, h.google.AuthURL(state))
}

// GoogleCallback completes the OAuth flow and returns a session token.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.google == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google sign-in is not configured"})
		return
	}

	state, err := c.Cookie("oauth_state")
	if err != nil || state == "" || state != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OAuth state"})
		return
	}
	c.SetCookie("oauth_state", "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	profile, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Google sign-in failed"})
		return
	}

	user, err := h.auth.UpsertGoogleUser(c.Request.Context(), profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}

	token, err := h.auth.GenerateToken(user.ID, user.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated user's account.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}
