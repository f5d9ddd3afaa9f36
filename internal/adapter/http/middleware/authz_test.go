package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dhnam02/crm-api/configs"
)

func authzConfig() configs.Config {
	var cfg configs.Config
	cfg.Security.JWTSecret = "test-secret"
	cfg.Security.Issuer = "crm-api"
	cfg.Security.Audience = "crm"
	return cfg
}

func signToken(t *testing.T, cfg configs.Config, secret string, perms []string, exp time.Time) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   cfg.Security.Issuer,
		"aud":   cfg.Security.Audience,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   exp.Unix(),
		"perms": perms,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func protectedRouter(cfg configs.Config, perms ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", NewAuthz(cfg).Require(perms...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequire(t *testing.T) {
	cfg := authzConfig()
	r := protectedRouter(cfg, "crm.read")

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{
			name:  "valid token",
			token: signToken(t, cfg, "test-secret", []string{"crm.read"}, time.Now().Add(time.Minute)),
			want:  http.StatusOK,
		},
		{
			name:  "missing token",
			token: "",
			want:  http.StatusUnauthorized,
		},
		{
			name:  "wrong secret",
			token: signToken(t, cfg, "other-secret", []string{"crm.read"}, time.Now().Add(time.Minute)),
			want:  http.StatusUnauthorized,
		},
		{
			name:  "expired",
			token: signToken(t, cfg, "test-secret", []string{"crm.read"}, time.Now().Add(-time.Hour)),
			want:  http.StatusUnauthorized,
		},
		{
			name:  "missing permission",
			token: signToken(t, cfg, "test-secret", []string{"crm.write"}, time.Now().Add(time.Minute)),
			want:  http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := get(r, tt.token).Code; got != tt.want {
				t.Fatalf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRequireMultiplePerms(t *testing.T) {
	cfg := authzConfig()
	r := protectedRouter(cfg, "crm.read", "crm.write")

	full := signToken(t, cfg, "test-secret", []string{"crm.read", "crm.write"}, time.Now().Add(time.Minute))
	if got := get(r, full).Code; got != http.StatusOK {
		t.Fatalf("full perms: status = %d", got)
	}

	partial := signToken(t, cfg, "test-secret", []string{"crm.read"}, time.Now().Add(time.Minute))
	if got := get(r, partial).Code; got != http.StatusForbidden {
		t.Fatalf("partial perms: status = %d", got)
	}
}
