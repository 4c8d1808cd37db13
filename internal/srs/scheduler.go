// internal/srs/scheduler.go
package srs

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Grade returns the state of card after a recall graded q at now.
// The input card is left untouched. Grading a zero-value card is the same as
// grading NewCard(itemID, now), so first-time study always succeeds.
func Grade(card ReviewCard, q Quality, now time.Time) (ReviewCard, error) {
	if !q.Valid() {
		return ReviewCard{}, fmt.Errorf("%w: %d", ErrInvalidQuality, int(q))
	}
	if card.Ease == 0 && card.Interval == 0 && card.Repetitions == 0 && card.Lapses == 0 {
		card = NewCard(card.ItemID, now)
	}

	next := card
	if q.IsLapse() {
		// ease is left as it was on a lapse
		next.Repetitions = 0
		next.Interval = InitialInterval
		next.Lapses++
	} else {
		next.Repetitions++
		switch next.Repetitions {
		case 1:
			next.Interval = InitialInterval
		case 2:
			next.Interval = SecondInterval
		default:
			next.Interval = int(math.Round(float64(card.Interval) * card.Ease))
		}
		next.Ease = nextEase(card.Ease, q)
	}
	next.Interval = clampInterval(next.Interval)

	next.LastReviewedAt = now
	next.NextReviewAt = now.Add(time.Duration(next.Interval) * Day)
	return next, nil
}

func clampInterval(days int) int {
	if days < InitialInterval {
		return InitialInterval
	}
	if days > MaxInterval {
		return MaxInterval
	}
	return days
}

// nextEase applies EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02)), floored at
// MinEase and rounded to two decimals.
func nextEase(ease float64, q Quality) float64 {
	d := float64(QualityPerfect - q)
	ef := ease + (0.1 - d*(0.08+d*0.02))
	ef = math.Round(ef*100) / 100
	if ef < MinEase {
		ef = MinEase
	}
	return ef
}

// IsDue reports whether card should be reviewed at now.
func IsDue(card ReviewCard, now time.Time) bool {
	return !card.NextReviewAt.After(now)
}

// DaysUntilReview is the number of whole days, rounded up, until card is due.
// Overdue cards give zero or a negative number.
func DaysUntilReview(card ReviewCard, now time.Time) int {
	return int(math.Ceil(float64(card.NextReviewAt.Sub(now)) / float64(Day)))
}

// SelectDue returns the cards due at now in study order: most lapses first,
// then most overdue, then lowest ease, then item ID. The input slice is not
// reordered.
func SelectDue(cards []ReviewCard, now time.Time) []ReviewCard {
	due := make([]ReviewCard, 0, len(cards))
	for _, c := range cards {
		if IsDue(c, now) {
			due = append(due, c)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i], due[j]
		if a.Lapses != b.Lapses {
			return a.Lapses > b.Lapses
		}
		if !a.NextReviewAt.Equal(b.NextReviewAt) {
			return a.NextReviewAt.Before(b.NextReviewAt)
		}
		if a.Ease != b.Ease {
			return a.Ease < b.Ease
		}
		return a.ItemID < b.ItemID
	})
	return due
}

// Stats aggregates a learner's card collection for the dashboard.
type Stats struct {
	DueToday      int `json:"due_today"`
	DueTomorrow   int `json:"due_tomorrow"`
	ReviewedToday int `json:"reviewed_today"`
	TotalCards    int `json:"total_cards"`
	MatureCards   int `json:"mature_cards"`
	NewCards      int `json:"new_cards"`
}

// StudyStats computes Stats over cards. "Today" starts at midnight in now's location.
func StudyStats(cards []ReviewCard, now time.Time) Stats {
	today := StartOfDay(now)
	tomorrowEnd := today.Add(2 * Day)

	st := Stats{TotalCards: len(cards)}
	for _, c := range cards {
		switch {
		case IsDue(c, now):
			st.DueToday++
		case !c.NextReviewAt.After(tomorrowEnd):
			st.DueTomorrow++
		}
		if !c.LastReviewedAt.Before(today) {
			st.ReviewedToday++
		}
		if c.IsMature() {
			st.MatureCards++
		}
		if c.IsNew() {
			st.NewCards++
		}
	}
	return st
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
