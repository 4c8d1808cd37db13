package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// LearnerClaims はアカウント学習者のJWTペイロード。
// トークンの発行は外部の認証基盤が行い、ここでは検証のみ。
type LearnerClaims struct {
	jwt.RegisteredClaims // 標準クレーム (sub = 学習者のUUID)
}
