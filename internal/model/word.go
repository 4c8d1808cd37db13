// internal/model/word.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PackLevel は単語パックの難易度区分
type PackLevel string

const (
	LevelBeginner     PackLevel = "beginner"
	LevelIntermediate PackLevel = "intermediate"
	LevelAdvanced     PackLevel = "advanced"
	LevelExam         PackLevel = "exam"
	LevelTopic        PackLevel = "topic"
)

func (l PackLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExam, LevelTopic:
		return true
	}
	return false
}

// WordPack は公開される単語パック (カタログの単位)
type WordPack struct {
	PackID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"slug"`
	Title       string    `gorm:"not null" json:"title"`
	Level       PackLevel `gorm:"type:varchar(20);not null" json:"level"`
	Description string    `json:"description"`
	TotalWords  int       `gorm:"not null;default:0" json:"total_words"`
	IsPublished bool      `gorm:"not null;default:false;index" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (WordPack) TableName() string {
	return "word_packs"
}

// Example は例文 (英語と韓国語訳のペア)
type Example struct {
	EN string `json:"en"`
	KO string `json:"ko"`
}

// Word はパックに含まれる単語。Word.WordID がSRSカードの itemID になる。
type Word struct {
	WordID     uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	PackID     uuid.UUID                    `gorm:"type:uuid;not null;index:idx_words_pack_order" json:"pack_id"`
	Term       string                       `gorm:"not null" json:"term"`
	Phonetic   *string                      `json:"phonetic,omitempty"`
	POS        string                       `gorm:"column:pos;type:varchar(20)" json:"pos"`
	MeaningKO  string                       `gorm:"not null" json:"meaning_ko"`
	MeaningEN  *string                      `json:"meaning_en,omitempty"`
	Examples   datatypes.JSONSlice[Example] `json:"examples"`
	Synonyms   datatypes.JSONSlice[string]  `json:"synonyms"`
	Antonyms   datatypes.JSONSlice[string]  `json:"antonyms"`
	AudioURL   *string                      `json:"audio_url,omitempty"`
	Tags       datatypes.JSONSlice[string]  `json:"tags"`
	OrderIndex int                          `gorm:"not null;default:0;index:idx_words_pack_order" json:"order_index"`
	CreatedAt  time.Time                    `json:"created_at"`
}

func (Word) TableName() string {
	return "words"
}
