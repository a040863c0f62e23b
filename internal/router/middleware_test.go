package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/storeflow/storeflow/internal/config"
	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupMiddlewareTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Tenant{}, &models.PricePlan{}, &models.Staff{},
		&models.Customer{}, &models.CustomerSession{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func middlewareTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{SecretKey: "middleware-test-secret", ExpireHours: 1},
		CustomerSession: config.CustomerSessionConfig{
			CookieName:  "sf_session",
			ExpireHours: 24,
		},
	}
}

func decodeEnvelope(t *testing.T, body []byte) (int, map[string]interface{}) {
	t.Helper()
	var resp struct {
		StatusCode int                    `json:"status_code"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode, resp.Data
}

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	if strings.TrimSpace(w2.Header().Get(requestIDHeader)) == "" {
		t.Fatalf("generated request id should not be empty")
	}
}

func TestStaffJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupMiddlewareTestDB(t)
	staffRepo := repository.NewStaffRepository(db)
	authService := service.NewStaffAuthService(middlewareTestConfig(), staffRepo)

	staff := &models.Staff{
		TenantID:     7,
		Email:        "owner@acme.test",
		PasswordHash: "x",
		Role:         constants.StaffRoleOwner,
		Status:       constants.AccountStatusActive,
	}
	if err := staffRepo.Create(staff); err != nil {
		t.Fatalf("create staff failed: %v", err)
	}
	token, _, err := authService.GenerateJWT(staff)
	if err != nil {
		t.Fatalf("generate jwt failed: %v", err)
	}

	r := gin.New()
	r.Use(StaffJWTAuthMiddleware(authService))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status_code": 0,
			"data": gin.H{
				"staff_id":  c.MustGet("staff_id"),
				"tenant_id": c.MustGet("tenant_id"),
			},
		})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	code, data := decodeEnvelope(t, w.Body.Bytes())
	if code != 0 {
		t.Fatalf("status_code want 0 got %d", code)
	}
	if data["staff_id"] != float64(staff.ID) || data["tenant_id"] != float64(7) {
		t.Fatalf("unexpected context values: %+v", data)
	}

	// Missing header
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	if code, _ := decodeEnvelope(t, w2.Body.Bytes()); code != 401 {
		t.Fatalf("missing header status_code want 401 got %d", code)
	}

	// Rotated token version revokes old tokens
	staff.TokenVersion++
	if err := staffRepo.Update(staff); err != nil {
		t.Fatalf("update staff failed: %v", err)
	}
	w3 := httptest.NewRecorder()
	req3 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req3.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w3, req3)
	if code, _ := decodeEnvelope(t, w3.Body.Bytes()); code != 401 {
		t.Fatalf("revoked token status_code want 401 got %d", code)
	}
}

func TestStorefrontTenantMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupMiddlewareTestDB(t)
	tenantRepo := repository.NewTenantRepository(db)
	planRepo := repository.NewPlanRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	authService := service.NewStaffAuthService(middlewareTestConfig(), staffRepo)
	tenantService := service.NewTenantService(tenantRepo, planRepo, staffRepo, authService, nil)

	for _, tenant := range []*models.Tenant{
		{Subdomain: "acme", Name: "Acme", Status: constants.TenantStatusActive},
		{Subdomain: "frozen", Name: "Frozen", Status: constants.TenantStatusSuspended},
	} {
		if err := tenantRepo.Create(tenant); err != nil {
			t.Fatalf("create tenant failed: %v", err)
		}
	}

	r := gin.New()
	r.Use(StorefrontTenantMiddleware(tenantService))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status_code": 0,
			"data":        gin.H{"tenant_id": c.MustGet("tenant_id")},
		})
	})

	cases := []struct {
		name     string
		header   string
		query    string
		wantCode int
	}{
		{name: "active via header", header: "acme", wantCode: 0},
		{name: "active via query", query: "acme", wantCode: 0},
		{name: "suspended", header: "frozen", wantCode: 403},
		{name: "unknown", header: "ghost", wantCode: 404},
		{name: "missing", wantCode: 400},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := "/ping"
			if tc.query != "" {
				target += "?store=" + tc.query
			}
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.header != "" {
				req.Header.Set(StoreHeader, tc.header)
			}
			r.ServeHTTP(w, req)
			if code, _ := decodeEnvelope(t, w.Body.Bytes()); code != tc.wantCode {
				t.Fatalf("status_code want %d got %d", tc.wantCode, code)
			}
		})
	}
}

func TestCustomerSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupMiddlewareTestDB(t)
	customerRepo := repository.NewCustomerRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	authService := service.NewCustomerAuthService(middlewareTestConfig(), customerRepo, sessionRepo, nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("Secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	customer := &models.Customer{
		TenantID:     3,
		Email:        "buyer@acme.test",
		PasswordHash: string(hash),
		Status:       constants.AccountStatusActive,
	}
	if err := customerRepo.Create(customer); err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	_, session, err := authService.Login(3, service.LoginInput{Email: customer.Email, Password: "Secret123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("tenant_id", uint(3)) })
	r.Use(CustomerSessionMiddleware(authService, "sf_session"))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status_code": 0,
			"data":        gin.H{"customer_id": c.MustGet("customer_id")},
		})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "sf_session", Value: session.Token})
	r.ServeHTTP(w, req)
	code, data := decodeEnvelope(t, w.Body.Bytes())
	if code != 0 {
		t.Fatalf("status_code want 0 got %d", code)
	}
	if data["customer_id"] != float64(customer.ID) {
		t.Fatalf("customer_id want %d got %v", customer.ID, data["customer_id"])
	}

	// No cookie
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w2, req2)
	if code, _ := decodeEnvelope(t, w2.Body.Bytes()); code != 401 {
		t.Fatalf("missing cookie status_code want 401 got %d", code)
	}

	// Logged-out token
	if err := authService.Logout(session.Token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	w3 := httptest.NewRecorder()
	req3 := httptest.NewRequest(http.MethodGet, "/me", nil)
	req3.AddCookie(&http.Cookie{Name: "sf_session", Value: session.Token})
	r.ServeHTTP(w3, req3)
	if code, _ := decodeEnvelope(t, w3.Body.Bytes()); code != 401 {
		t.Fatalf("closed session status_code want 401 got %d", code)
	}
}
