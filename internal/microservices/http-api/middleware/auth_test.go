package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenehub/internal/metrics"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"
	testUserID = "6f1c2d9e-8a43-4b6e-9c1a-2f3e4d5c6b7a"
)

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestVerify(t *testing.T) {
	v := NewTokenVerifier(testSecret)
	exp := time.Now().Add(time.Hour).Unix()

	issued, err := v.Issue(testUserID, "mika", time.Hour)
	require.NoError(t, err)
	claims, err := v.Verify(issued)
	require.NoError(t, err)
	assert.Equal(t, &Claims{UserID: testUserID, Username: "mika"}, claims)

	t.Run("sub fallback", func(t *testing.T) {
		tok := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": testUserID, "exp": exp})
		claims, err := v.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, testUserID, claims.UserID)
		assert.Empty(t, claims.Username)
	})

	rejected := map[string]string{
		"wrong secret": sign(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx"), jwt.MapClaims{"user_id": testUserID, "exp": exp}),
		"expired":      sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"user_id": testUserID, "exp": time.Now().Add(-time.Minute).Unix()}),
		"no expiry":    sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"user_id": testUserID}),
		"not a uuid":   sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"user_id": "42", "exp": exp}),
		"HS512":        sign(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.MapClaims{"user_id": testUserID, "exp": exp}),
		"garbage":      "not.a.token",
	}
	for name, tok := range rejected {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("userID"), "username": c.GetString("username")})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	v := NewTokenVerifier(testSecret)
	r := newAuthRouter(RequireAuth(v))
	tok, err := v.Issue(testUserID, "mika", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + tok, http.StatusOK},
		{"lowercase scheme", "bearer " + tok, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"no scheme", tok, http.StatusUnauthorized},
		{"bad token", "Bearer abc", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user_id":"`+testUserID+`","username":"mika"}`, w.Body.String())
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	v := NewTokenVerifier(testSecret)
	r := newAuthRouter(OptionalAuth(v))

	req, _ := http.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer expired.or.broken")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"","username":""}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/api/tags", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodOptions, "/api/tags", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req, _ = http.NewRequest(http.MethodGet, "/api/tags", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsRecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/api/scenes/:scene_id", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/api/scenes/12", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.GreaterOrEqual(t, testutil.CollectAndCount(metrics.HTTPRequestDuration), 1)
}
