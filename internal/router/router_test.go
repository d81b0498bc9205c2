package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduverse/eduverse-backend/internal/authz"
	"github.com/eduverse/eduverse-backend/internal/config"
	"github.com/eduverse/eduverse-backend/internal/handler"
	"github.com/eduverse/eduverse-backend/internal/service"
)

// roleSource maps user ids to fixed snapshots, standing in for PostgreSQL.
type roleSource struct {
	snaps map[int]*authz.UserSnapshot
}

func (s *roleSource) FetchSnapshot(ctx context.Context, userID int) (*authz.UserSnapshot, error) {
	snap, ok := s.snaps[userID]
	if !ok {
		return nil, authz.ErrUserNotFound
	}
	return snap, nil
}

type fixture struct {
	engine *gin.Engine
	auth   *service.AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		GinMode:     gin.TestMode,
		JWTSecret:   "router-test-secret",
		JWTExpiry:   time.Hour,
		SnapshotTTL: time.Minute,
	}

	source := &roleSource{snaps: map[int]*authz.UserSnapshot{
		1: {ID: 1, Role: authz.RoleSeniorTeacher, Department: "Science", IsActive: true},
		2: {ID: 2, Role: authz.RoleSubstituteTeacher, Department: "Multiple", IsActive: true},
		3: {ID: 3, Role: authz.RoleStandardTeacher, Department: "Mathematics", IsActive: false},
	}}

	registry := authz.Default()
	authService := service.NewAuthService(cfg, rdb)
	snapshots := authz.NewSnapshotProvider(source, rdb, cfg.SnapshotTTL, zerolog.Nop())

	handlers := &Handlers{
		Auth:   handler.NewAuthHandler(authService, nil, registry),
		Staff:  handler.NewStaffHandler(nil, registry),
		Course: handler.NewCourseHandler(nil),
		Page:   handler.NewPageHandler(registry),
		WS:     handler.NewWSHandler(rdb, zerolog.Nop(), nil),
	}

	engine := SetupRouter(authService, snapshots, registry, handlers, cfg)
	return &fixture{engine: engine, auth: authService}
}

func (f *fixture) get(t *testing.T, path string, userID int) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if userID != 0 {
		token, err := f.auth.GenerateToken(context.Background(), userID, "")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestEveryMappedRouteIsRegistered(t *testing.T) {
	f := newFixture(t)

	registered := make(map[string]bool)
	for _, info := range f.engine.Routes() {
		registered[info.Method+" "+info.Path] = true
	}

	for _, route := range authz.Default().Routes() {
		assert.True(t, registered["GET /api/v1/pages"+route],
			"mapped route %s has no page endpoint", route)
	}
}

func TestHealthEndpoint(t *testing.T) {
	f := newFixture(t)

	w := f.get(t, "/health", 0)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPageRequiresAuthentication(t *testing.T) {
	f := newFixture(t)

	w := f.get(t, "/api/v1/pages/teacher/analytics", 0)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPageGuardByRole(t *testing.T) {
	f := newFixture(t)

	// Senior teachers hold analytics:view_class_performance.
	w := f.get(t, "/api/v1/pages/teacher/analytics", 1)
	assert.Equal(t, http.StatusOK, w.Code)

	// Substitutes do not.
	w = f.get(t, "/api/v1/pages/teacher/analytics", 2)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Both may read the basic teacher profile page.
	w = f.get(t, "/api/v1/pages/teacher/profile", 2)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInactiveAccountDeniedEverywhere(t *testing.T) {
	f := newFixture(t)

	w := f.get(t, "/api/v1/pages/teacher/profile", 3)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ACCOUNT_INACTIVE", body.Error.Code)
}

func TestAdminEndpointsGuarded(t *testing.T) {
	f := newFixture(t)

	// Senior teachers lack both admin:manage_teachers and users:manage_all.
	w := f.get(t, "/api/v1/admin/teachers", 1)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
