package api

import (
	"bytes"
	"complaint_box/internal/domain"
	"complaint_box/internal/middleware"
	"complaint_box/internal/utils"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// jsonBody is shorthand for request payloads.
type jsonBody = map[string]any

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.StudentProfile{},
		&domain.WardenProfile{},
		&domain.MaintenanceProfile{},
		&domain.Complaint{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newTestRouter wires the same route table as cmd/server, minus Redis.
func newTestRouter(db *gorm.DB) *gin.Engine {
	return newTestRouterWithRedis(db, nil)
}

// newTestRouterWithRedis wires the same route table as cmd/server
// against a supplied Redis client.
func newTestRouterWithRedis(db *gorm.DB, rdb *redis.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/signup", SignupHandler(db, testSecret))
	r.POST("/api/auth/login", LoginHandler(db, testSecret))
	cg := r.Group("/api/complaints")
	cg.Use(middleware.JWTAuthMiddleware(testSecret))
	cg.POST("", CreateComplaintHandler(db, rdb))
	cg.GET("/me", ListMyComplaintsHandler(db))
	cg.GET("", middleware.RequireRole(domain.RoleWarden, domain.RoleMaintenance), ListAllComplaintsHandler(db, rdb))
	cg.PATCH("/:id", UpdateComplaintStatusHandler(db, rdb))
	return r
}

// newTestRedis starts an in-process Redis and returns a client bound to it.
func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, rdb
}

// closeDB tears down the underlying connection so store faults can be provoked.
func closeDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}
}

// doJSON performs a JSON request against the test router and returns the recorder.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// seedUser creates a user row directly and returns it with a valid token.
func seedUser(t *testing.T, db *gorm.DB, name, email, role string) (domain.User, string) {
	t.Helper()
	user := domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x", // Not used in seeded flows
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := utils.GenerateJWT(user.ID, user.Role, testSecret)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return user, token
}

// seedComplaint creates a complaint row directly for a given owner.
func seedComplaint(t *testing.T, db *gorm.DB, ownerID, status string) domain.Complaint {
	t.Helper()
	complaint := domain.Complaint{
		Title:       "Fan broken",
		Description: "Ceiling fan stopped working",
		Category:    "Electricity",
		StudentID:   ownerID,
		Status:      status,
	}
	if err := db.Create(&complaint).Error; err != nil {
		t.Fatalf("seed complaint: %v", err)
	}
	return complaint
}
