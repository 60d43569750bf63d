package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-office-rental/internal/core/auth"
	"go-office-rental/internal/domain"
	resp "go-office-rental/internal/transport/http/response"
)

type mapResolver map[string]*domain.Caller

func (m mapResolver) Resolve(_ context.Context, uid string) (*domain.Caller, error) {
	if c, ok := m[uid]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func codeOf(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var r resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	return r.Code
}

func TestGuardRequire(t *testing.T) {
	gin.SetMode(gin.TestMode)
	j := &auth.JWTer{Secret: []byte("k"), Issuer: "t", TTL: time.Minute}
	g := &Guard{JWT: j, Users: mapResolver{
		"u1": {ID: "u1", Role: domain.RoleOwner},
		"u2": {ID: "u2", Role: domain.RoleRenter},
	}, Log: zap.NewNop()}

	r := gin.New()
	r.GET("/any", g.Require(), func(c *gin.Context) {
		c.JSON(http.StatusOK, resp.OK(gin.H{"id": CallerFrom(c).ID, "ctx": CallerFromContext(c.Request.Context()).ID}))
	})
	r.GET("/owner", g.Require(domain.RoleOwner), func(c *gin.Context) {
		c.JSON(http.StatusOK, resp.OK(gin.H{"uid": c.GetString(KeyUserID)}))
	})

	call := func(path, uid string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if uid != "" {
			tok, err := j.Issue(uid)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, resp.CodeUnauthorized, codeOf(t, call("/any", "")))
	assert.Equal(t, resp.CodeUnauthorized, codeOf(t, call("/any", "ghost")))
	assert.Equal(t, resp.CodeOK, codeOf(t, call("/any", "u2")))
	assert.Equal(t, resp.CodeForbidden, codeOf(t, call("/owner", "u2")))

	w := call("/owner", "u1")
	assert.Equal(t, resp.CodeOK, codeOf(t, w))
	assert.Contains(t, w.Body.String(), `"uid":"u1"`)
}

func TestRateLimitPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitPerIP(1, 2))
	r.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, resp.OK(nil)) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return codeOf(t, w)
	}
	assert.Equal(t, resp.CodeOK, hit("10.0.0.1"))
	assert.Equal(t, resp.CodeOK, hit("10.0.0.1"))
	assert.Equal(t, resp.CodeTooMany, hit("10.0.0.1"))
	assert.Equal(t, resp.CodeOK, hit("10.0.0.2"))
}

func TestRequestIDEchoed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "abc", w.Body.String())
}

func TestMaxBodyBytesRejectsLargeBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MaxBodyBytes(4))
	r.POST("/", func(c *gin.Context) { c.JSON(http.StatusOK, resp.OK(nil)) })

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, resp.CodeValidation, codeOf(t, w))
}
