package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/pkg/jwt"
	"storefront/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec() *jwt.Codec {
	return jwt.NewCodec([]byte("test-signing-key-0123456789abcdef"), "storefront", "storefront-client", 10*time.Minute)
}

func newAuthRouter(codec *jwt.Codec, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{RequireAuth(codec)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"email":   c.GetString("email"),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_ValidToken(t *testing.T) {
	codec := newTestCodec()
	token, err := codec.Issue("user-1", "a@x.com", []string{"admin"})
	require.NoError(t, err)

	w := doGet(newAuthRouter(codec), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"user-1"`)
	assert.Contains(t, w.Body.String(), `"email":"a@x.com"`)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	w := doGet(newAuthRouter(newTestCodec()), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	codec := newTestCodec()
	token, err := codec.Issue("user-1", "a@x.com", nil)
	require.NoError(t, err)

	// Token present but no Bearer scheme.
	w := doGet(newAuthRouter(codec), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	w := doGet(newAuthRouter(newTestCodec()), "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_WrongAudience(t *testing.T) {
	other := jwt.NewCodec([]byte("test-signing-key-0123456789abcdef"), "storefront", "other-client", 10*time.Minute)
	token, err := other.Issue("user-1", "a@x.com", nil)
	require.NoError(t, err)

	w := doGet(newAuthRouter(newTestCodec()), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnly_AllowsAdmin(t *testing.T) {
	codec := newTestCodec()
	token, err := codec.Issue("user-1", "a@x.com", []string{"admin"})
	require.NoError(t, err)

	w := doGet(newAuthRouter(codec, AdminOnly()), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminOnly_ForbidsNonAdmin(t *testing.T) {
	codec := newTestCodec()
	token, err := codec.Issue("user-1", "a@x.com", nil)
	require.NoError(t, err)

	w := doGet(newAuthRouter(codec, AdminOnly()), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_WithoutAuthContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireRole("admin"), func(c *gin.Context) {
		response.Success(c, http.StatusOK, nil)
	})

	w := doGet(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
