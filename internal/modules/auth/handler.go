package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/config"
	"storefront/internal/pkg/google"
	"storefront/internal/pkg/jwt"
	"storefront/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const refreshCookieName = "refresh"

// Handler manages all HTTP interactions for authentication. The refresh token
// only ever travels in an HTTP-only cookie; the access token in the body.
type Handler struct {
	service    *Service
	cookie     config.CookieConfig
	refreshTTL time.Duration
}

func NewHandler(service *Service, cookie config.CookieConfig, refreshTTL time.Duration) *Handler {
	return &Handler{
		service:    service,
		cookie:     cookie,
		refreshTTL: refreshTTL,
	}
}

func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/logout", h.Logout)
		authGroup.POST("/google-login", h.GoogleLogin)
		authGroup.POST("/google-register", h.GoogleRegister)
		authGroup.GET("/user/:id", h.GetUser)
	}
}

// RegisterAdminRoutes expects a group already gated by auth + admin middleware.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	authGroup := admin.Group("/auth")
	{
		authGroup.GET("/users", h.ListUsers)
		authGroup.POST("/makeadmin", h.MakeAdmin)
		authGroup.POST("/removeadmin", h.RemoveAdmin)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	tokens, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	response.Success(c, http.StatusOK, gin.H{
		"user":         tokens.User,
		"access_token": tokens.AccessToken,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	response.Success(c, http.StatusOK, gin.H{
		"user":         tokens.User,
		"access_token": tokens.AccessToken,
	})
}

func (h *Handler) GoogleLogin(c *gin.Context) {
	var req GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		response.Error(c, http.StatusBadRequest, "Authorization code is required.")
		return
	}

	tokens, err := h.service.LoginGoogle(c.Request.Context(), req.Code)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	response.Success(c, http.StatusOK, gin.H{
		"user":         tokens.User,
		"access_token": tokens.AccessToken,
	})
}

func (h *Handler) GoogleRegister(c *gin.Context) {
	var req GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		response.Error(c, http.StatusBadRequest, "Authorization code is required.")
		return
	}

	tokens, err := h.service.RegisterGoogle(c.Request.Context(), req.Code)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	response.Success(c, http.StatusOK, gin.H{
		"user":         tokens.User,
		"access_token": tokens.AccessToken,
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			response.Error(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	response.Success(c, http.StatusOK, gin.H{
		"user":         tokens.User,
		"access_token": tokens.AccessToken,
	})
}

// Logout clears the refresh cookie unconditionally; the stored token is only
// cleared when a subject can be read out of the presented access token.
func (h *Handler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token != "" {
		err := h.service.Logout(c.Request.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, jwt.ErrInvalidToken):
			response.Error(c, http.StatusBadRequest, "Missing bearer token")
			return
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "User not found")
			return
		default:
			response.Error(c, http.StatusInternalServerError, "Internal Server Error")
			return
		}
	}

	h.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

func (h *Handler) MakeAdmin(c *gin.Context) {
	var req AdminRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.MakeAdmin(c.Request.Context(), req.Email); err != nil {
		h.writeAuthError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) RemoveAdmin(c *gin.Context) {
	var req AdminRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.RemoveAdmin(c.Request.Context(), req.Email); err != nil {
		h.writeAuthError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "User with id "+c.Param("id")+" could not be found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// writeAuthError maps service errors to the response taxonomy without ever
// leaking internal detail.
func (h *Handler) writeAuthError(c *gin.Context, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		response.Error(c, http.StatusBadRequest, vErr.Errors...)
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusBadRequest, "Email or Password is invalid")
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "User not found")
	case errors.Is(err, google.ErrProvider):
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
	default:
		response.Error(c, http.StatusInternalServerError, "Internal Server Error")
	}
}

func (h *Handler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(sameSiteMode(h.cookie.SameSite))
	c.SetCookie(refreshCookieName, token, int(h.refreshTTL.Seconds()), h.cookie.Path, "", h.cookie.Secure, true)
}

// clearRefreshCookie overwrites the cookie with an already-expired one so the
// client drops it.
func (h *Handler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(sameSiteMode(h.cookie.SameSite))
	c.SetCookie(refreshCookieName, "", -1, h.cookie.Path, "", h.cookie.Secure, true)
}

func sameSiteMode(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "lax":
		return http.SameSiteLaxMode
	default:
		return http.SameSiteNoneMode
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
