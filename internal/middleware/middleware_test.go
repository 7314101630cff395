package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func echoRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), mw)
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"role":       GetRoleTag(c),
			"username":   GetUsername(c),
			"request_id": c.GetString(ContextRequestID),
		})
	})
	return r
}

func sign(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJWTAuth_SetsFirstRole(t *testing.T) {
	r := echoRouter(JWTAuth(testSecret))
	token := sign(t, jwt.MapClaims{
		"uid":   "u1",
		"name":  "alice",
		"roles": []string{"WAREHOUSE", "SALES"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"WAREHOUSE"`)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestJWTAuth_SkipsUnknownRoles(t *testing.T) {
	r := echoRouter(JWTAuth(testSecret))
	cases := map[string]struct {
		roles []string
		want  string
	}{
		"known after unknown": {[]string{"engineer", "GM"}, `"role":"GM"`},
		"prefixed":            {[]string{"staff", "role_sales"}, `"role":"role_sales"`},
		"none known":          {[]string{"engineer", "intern"}, `"role":"engineer"`},
		"empty":               {[]string{}, `"role":""`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			token := sign(t, jwt.MapClaims{
				"uid":   "u1",
				"roles": tc.roles,
				"exp":   time.Now().Add(time.Hour).Unix(),
			}, testSecret)

			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tc.want)
		})
	}
}

func TestJWTAuth_Rejects(t *testing.T) {
	r := echoRouter(JWTAuth(testSecret))

	cases := map[string]string{
		"missing":      "",
		"wrong secret": "Bearer " + sign(t, jwt.MapClaims{"uid": "u1", "exp": time.Now().Add(time.Hour).Unix()}, "other"),
		"expired":      "Bearer " + sign(t, jwt.MapClaims{"uid": "u1", "exp": time.Now().Add(-time.Hour).Unix()}, testSecret),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestJWTAuth_QueryToken(t *testing.T) {
	r := echoRouter(JWTAuth(testSecret))
	token := sign(t, jwt.MapClaims{"uid": "u9", "roles": []string{"GM"}, "exp": time.Now().Add(time.Hour).Unix()}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/whoami?token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"GM"`)
	assert.Contains(t, w.Body.String(), `"username":"u9"`)
}

func TestRoleHeader(t *testing.T) {
	r := echoRouter(RoleHeader())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Role", " pmc ")
	req.Header.Set("X-User", "bob")
	req.Header.Set("X-Request-ID", "rid-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"pmc"`)
	assert.Contains(t, w.Body.String(), `"username":"bob"`)
	assert.Equal(t, "rid-1", w.Header().Get("X-Request-ID"))
}

func TestRoleHeader_Anonymous(t *testing.T) {
	r := echoRouter(RoleHeader())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":""`)
	assert.Contains(t, w.Body.String(), `"username":"anonymous"`)
}

func TestCORS_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Role")
}
