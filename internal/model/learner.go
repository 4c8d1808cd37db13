// internal/model/learner.go
package model

import (
	"github.com/google/uuid"
)

// LearnerKind は進捗の保存先を決める学習者の種別
type LearnerKind string

const (
	LearnerAccount LearnerKind = "account" // JWTで認証されたユーザー (リモートの行ストア)
	LearnerDevice  LearnerKind = "device"  // X-Device-ID で識別される端末 (ローカルKVストア)
)

// Learner はリクエストの学習者。IDはスケジューラから見て不透明な識別子。
type Learner struct {
	ID   uuid.UUID   `json:"id"`
	Kind LearnerKind `json:"kind"`
}

func (l Learner) String() string {
	return string(l.Kind) + ":" + l.ID.String()
}

type ContextKey string

const (
	LearnerKey ContextKey = "learner"
)
