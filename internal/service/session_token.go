// File: internal/service/session_token.go
package service

import (
	"errors"
	"fmt"
	"time"

	"cafe-finder/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims 定義 session cookie 內的 JWT 負載
type SessionClaims struct {
	UserID  int           `json:"uid,omitempty"`
	Flashes []model.Flash `json:"fl,omitempty"`
	jwt.RegisteredClaims
}

var (
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

// IssueSessionToken 簽發 HS256 session token；ttl <= 0 表示不設過期
func IssueSessionToken(secret []byte, claims SessionClaims, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("session secret not set")
	}

	now := timeNow()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = nil
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifySessionToken 驗證並解析 session token
func VerifySessionToken(secret []byte, tokenString string) (*SessionClaims, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret not set")
	}

	token, err := parseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
