// internal/srs/card.go
package srs

import (
	"errors"
	"fmt"
	"time"
)

// Scheduling constants of the simplified SM-2 rule set.
const (
	InitialInterval = 1   // days
	SecondInterval  = 6   // days, interval after the 2nd consecutive success
	InitialEase     = 2.5 // easiness factor of a never-reviewed card
	MinEase         = 1.3
	MaxInterval     = 36500 // days; keeps NextReviewAt within time.Duration range

	Day = 24 * time.Hour
)

// ErrInvalidQuality is returned when a grade is outside 0..5.
var ErrInvalidQuality = errors.New("srs: quality out of range")

// ReviewCard is the scheduling state of one item for one learner.
type ReviewCard struct {
	ItemID         string    `json:"item_id"`
	Interval       int       `json:"interval"` // days until the next review
	Ease           float64   `json:"ease"`
	Repetitions    int       `json:"repetitions"` // consecutive successes since the last lapse
	Lapses         int       `json:"lapses"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
	NextReviewAt   time.Time `json:"next_review_at"`
}

// NewCard returns the default state of an item that has never been graded,
// as if it had been reviewed at now.
func NewCard(itemID string, now time.Time) ReviewCard {
	return ReviewCard{
		ItemID:         itemID,
		Interval:       InitialInterval,
		Ease:           InitialEase,
		LastReviewedAt: now,
		NextReviewAt:   now.Add(InitialInterval * Day),
	}
}

// IsMature reports whether the card survived at least two successful repetitions.
func (c ReviewCard) IsMature() bool {
	return c.Repetitions >= 2
}

// IsNew reports whether the card has no successful repetition yet.
func (c ReviewCard) IsNew() bool {
	return c.Repetitions == 0
}

// Quality grades how well an item was recalled, 0 (blackout) to 5 (perfect).
type Quality int

const (
	QualityBlackout          Quality = 0 // complete blackout
	QualityIncorrect         Quality = 1 // wrong, remembered on seeing the answer
	QualityIncorrectFamiliar Quality = 2 // wrong, but the answer felt familiar
	QualityCorrectDifficult  Quality = 3 // correct with serious difficulty
	QualityCorrectHesitation Quality = 4 // correct after some hesitation
	QualityPerfect           Quality = 5
)

// PassThreshold is the lowest quality counted as a successful recall.
const PassThreshold = QualityCorrectDifficult

// Valid reports whether q is on the 0..5 scale.
func (q Quality) Valid() bool {
	return q >= QualityBlackout && q <= QualityPerfect
}

// IsLapse reports whether q counts as a failed recall.
func (q Quality) IsLapse() bool {
	return q < PassThreshold
}

// Confidence is the self-reported effort of a correct answer.
type Confidence string

const (
	ConfidenceEasy Confidence = "easy"
	ConfidenceGood Confidence = "good"
	ConfidenceHard Confidence = "hard"
)

// ParseConfidence accepts "easy", "good" or "hard". An empty string means good.
func ParseConfidence(s string) (Confidence, error) {
	switch Confidence(s) {
	case "":
		return ConfidenceGood, nil
	case ConfidenceEasy, ConfidenceGood, ConfidenceHard:
		return Confidence(s), nil
	default:
		return "", fmt.Errorf("srs: unknown confidence %q", s)
	}
}

// QualityFromResponse maps a binary knew/didn't-know answer plus confidence
// onto the quality scale.
func QualityFromResponse(correct bool, confidence Confidence) Quality {
	if !correct {
		return QualityBlackout
	}
	switch confidence {
	case ConfidenceEasy:
		return QualityPerfect
	case ConfidenceHard:
		return QualityCorrectDifficult
	default:
		return QualityCorrectHesitation
	}
}
