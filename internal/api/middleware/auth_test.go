package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikerent/bikerent-api/internal/domain"
	"github.com/bikerent/bikerent-api/internal/metrics"
	"github.com/bikerent/bikerent-api/internal/pkg/jwthelper"
	"github.com/bikerent/bikerent-api/internal/repository"
)

const signingKey = "jwt-secret"

type fakeUsers map[uint]domain.Identity

func (f fakeUsers) Identify(_ context.Context, userID uint) (domain.Identity, error) {
	identity, ok := f[userID]
	if !ok {
		return domain.Identity{}, repository.ErrUserNotFound
	}

	return identity, nil
}

func newRouter(users fakeUsers, guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test", cookie.NewStore([]byte("session-secret"))))
	r.Use(NewAuthenticator(signingKey, users).Identify())

	// Lets tests put a user id in the session without a sign-in endpoint.
	r.GET("/session/:id", func(ctx *gin.Context) {
		session := sessions.Default(ctx)
		session.Set(SessionUserKey, uint(len(ctx.Param("id"))))
		_ = session.Save()
		ctx.Status(http.StatusNoContent)
	})
	r.GET("/admin/bikes", guard, func(ctx *gin.Context) {
		identity, _ := IdentityFrom(ctx)
		ctx.String(http.StatusOK, identity.Email)
	})

	return r
}

func bearer(t *testing.T, userID uint) string {
	token, err := jwthelper.GenerateToken([]byte(signingKey), userID, "test")
	require.NoError(t, err)

	return "Bearer " + token
}

func TestRequireStaff(t *testing.T) {
	users := fakeUsers{
		1: {ID: 1, Role: domain.RoleAdmin, Email: "admin@example.com"},
		2: {ID: 2, Role: domain.RoleCustomer, Email: "jan@example.com"},
	}
	r := newRouter(users, RequireStaff("/sign/in", "/products"))

	tests := []struct {
		name     string
		auth     string
		status   int
		location string
	}{
		{
			name:     "anonymous",
			status:   http.StatusFound,
			location: "/sign/in?backlink=%2Fadmin%2Fbikes%3Fpage%3D2",
		},
		{
			name:     "customer",
			auth:     bearer(t, 2),
			status:   http.StatusFound,
			location: "/products",
		},
		{
			name:   "admin",
			auth:   bearer(t, 1),
			status: http.StatusOK,
		},
		{
			name:     "deleted user",
			auth:     bearer(t, 3),
			status:   http.StatusFound,
			location: "/sign/in?backlink=%2Fadmin%2Fbikes%3Fpage%3D2",
		},
		{
			name:     "garbage token",
			auth:     "Bearer nonsense",
			status:   http.StatusFound,
			location: "/sign/in?backlink=%2Fadmin%2Fbikes%3Fpage%3D2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin/bikes?page=2", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}
}

func TestIdentify_FromSession(t *testing.T) {
	users := fakeUsers{
		3: {ID: 3, Role: domain.RoleEmployee, Email: "eva@example.com"},
	}
	r := newRouter(users, RequireAuth())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/session/abc", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/bikes", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "eva@example.com", w.Body.String())
}

func TestRequireAuth_Anonymous(t *testing.T) {
	r := newRouter(fakeUsers{}, RequireAuth())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/bikes", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMetrics_LabelsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New(prometheus.NewRegistry())
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/products/:bikeID", func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	for _, path := range []string{"/products/1", "/products/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/products/:bikeID", http.MethodGet, "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("unmatched", http.MethodGet, "404")))
}
