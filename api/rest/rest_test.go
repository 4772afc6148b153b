package rest_test

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/openstreets/server/api/rest"
	"github.com/openstreets/server/config"
	"github.com/openstreets/server/game/mission"
	"github.com/openstreets/server/game/trigger"
	"github.com/openstreets/server/game/world"
	mw "github.com/openstreets/server/middleware"
	"github.com/openstreets/server/scheduler"
	"github.com/openstreets/server/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testAdminKey = "test-admin-key"

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	world  *world.World
	token  string
}

// newTestServer builds the full route table against an in-memory DB,
// local cache and a small seeded world, and logs in one account.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.SetupTestDB(t)
	c, ps := testutil.SetupTestCache(t)
	sec := config.SecurityConfig{JWTSecret: "test-secret", JWTTTLH: 72 * time.Hour}
	gameCfg := config.GameConfig{
		TickMs:       50,
		WorldWidth:   50,
		WorldHeight:  50,
		PlayerSpeed:  3.0,
		PlayerHealth: 100,
	}

	reg := mission.NewRegistry(zap.NewNop())
	m := mission.New(1, "Package Run", "Pick up three packages", mission.TypeCollection)
	m.AddTargetTrigger(trigger.IDCollectItem, 3)
	require.NoError(t, reg.AddMission(m))

	w := world.New(gameCfg, reg, ps, zap.NewNop(), rand.New(rand.NewSource(1)))
	sched := scheduler.New(zap.NewNop())
	t.Cleanup(sched.Stop)

	authH := rest.NewAuthHandler(db, c, sec)
	worldH := rest.NewWorldHandler(w)
	missionH := rest.NewMissionHandler(w)
	saveH := rest.NewSaveHandler(db, w, zap.NewNop())
	adminH := rest.NewAdminHandler(db, w, sched, zap.NewNop())

	r := gin.New()
	r.POST("/api/auth/login", authH.Login)
	r.POST("/api/auth/logout", mw.Auth(sec, c), authH.Logout)
	r.POST("/api/auth/refresh", mw.Auth(sec, c), authH.Refresh)

	api := r.Group("/api", mw.Auth(sec, c))
	{
		api.GET("/world/state", worldH.State)
		api.POST("/world/move", worldH.Move)
		api.POST("/world/interact", worldH.Interact)
		api.POST("/world/attack/melee", worldH.AttackMelee)
		api.POST("/world/attack/ranged", worldH.AttackRanged)
		api.POST("/world/vehicle/enter", worldH.EnterVehicle)
		api.POST("/world/vehicle/exit", worldH.ExitVehicle)

		api.GET("/missions", missionH.List)
		api.GET("/missions/available", missionH.Available)
		api.GET("/missions/active", missionH.Active)
		api.GET("/missions/completed", missionH.Completed)
		api.GET("/missions/:id", missionH.Get)
		api.POST("/missions/:id/start", missionH.Start)

		api.GET("/saves", saveH.List)
		api.POST("/saves/:slot", saveH.Save)
		api.POST("/saves/:slot/load", saveH.Load)
	}

	admin := r.Group("/api/admin", rest.AdminAuth(testAdminKey))
	{
		admin.GET("/metrics", adminH.Metrics)
		admin.GET("/archetypes", adminH.Archetypes)
		admin.POST("/npcs", adminH.SpawnNPC)
		admin.POST("/triggers", adminH.FireTrigger)
	}

	ts := &testServer{router: r, db: db, world: w}

	resp := postJSON(r, "/api/auth/login", "",
		map[string]string{"username": "player1", "password": "pass1234"})
	require.Equal(t, http.StatusOK, resp.Code)
	var lr map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &lr))
	ts.token = lr["token"].(string)
	return ts
}

func postJSON(r *gin.Engine, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getJSON(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
