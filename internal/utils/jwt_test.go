package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, exp, err := GenerateAccessToken("user-1", "member", "secret")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(exp) <= 0 || time.Until(exp) > AccessTokenTTL {
		t.Errorf("unexpected expiry %v", exp)
	}

	claims, err := ValidateToken(token, "secret")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "member" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	good, _, err := GenerateAccessToken("user-1", "member", "secret")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: "user-1",
		Type:   string(AccessToken),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken, _ := expired.SignedString([]byte("secret"))

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "user-1", Type: "refresh"})
	refreshToken, _ := refresh.SignedString([]byte("secret"))

	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Type: string(AccessToken)})
	anonymousToken, _ := anonymous.SignedString([]byte("secret"))

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", good, "other"},
		{"expired", expiredToken, "secret"},
		{"refresh token", refreshToken, "secret"},
		{"no user id", anonymousToken, "secret"},
		{"garbage", "not.a.token", "secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateToken(tt.token, tt.secret); err == nil {
				t.Error("expected error")
			}
		})
	}
}
