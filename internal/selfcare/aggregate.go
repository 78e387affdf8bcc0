// Package selfcare derives the views shown on the activity page from a
// snapshot of a user's activities. Nothing here touches storage; callers fetch
// the list, pass it in along with the current time, and get fresh results back.
package selfcare

import (
	"fmt"
	"slices"
	"time"

	"github.com/arnold/selfcare-api/internal/models"
)

// Summary is everything the page needs, derived from one snapshot.
type Summary struct {
	Activities  []models.Activity
	Incomplete  []models.Activity
	Completed   []models.Activity
	WeeklyHours float64
	WeekStart   time.Time
	ByType      map[models.ActivityType]float64
}

// SortByStart returns a copy of activities ordered by StartTime ascending.
// Equal start times keep their input order.
func SortByStart(activities []models.Activity) []models.Activity {
	sorted := slices.Clone(activities)
	slices.SortStableFunc(sorted, func(a, b models.Activity) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return sorted
}

// Partition sorts activities by start time and splits them on Completed.
func Partition(activities []models.Activity) (incomplete, completed []models.Activity) {
	incomplete = []models.Activity{}
	completed = []models.Activity{}
	for _, a := range SortByStart(activities) {
		if a.Completed {
			completed = append(completed, a)
		} else {
			incomplete = append(incomplete, a)
		}
	}
	return incomplete, completed
}

// StartOfWeek returns midnight of the most recent Sunday on or before now, in
// now's location.
func StartOfWeek(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, now.Location())
}

// WeeklyCompletedHours sums the duration of completed activities starting on
// or after the start of now's week. Only the lower bound is checked, so a
// completed activity dated in a later week still counts.
func WeeklyCompletedHours(activities []models.Activity, now time.Time) float64 {
	weekStart := StartOfWeek(now)
	total := 0.0
	for _, a := range activities {
		if countsThisWeek(a, weekStart) {
			total += hours(a)
		}
	}
	return total
}

// Summarize computes the sorted list, the partition and the weekly totals.
func Summarize(activities []models.Activity, now time.Time) Summary {
	sorted := SortByStart(activities)
	incomplete, completed := Partition(sorted)
	weekStart := StartOfWeek(now)

	byType := map[models.ActivityType]float64{}
	for _, a := range completed {
		if countsThisWeek(a, weekStart) {
			byType[a.Type] += hours(a)
		}
	}

	return Summary{
		Activities:  sorted,
		Incomplete:  incomplete,
		Completed:   completed,
		WeeklyHours: WeeklyCompletedHours(sorted, now),
		WeekStart:   weekStart,
		ByType:      byType,
	}
}

// FormatHours renders hours with two decimal places.
func FormatHours(h float64) string {
	return fmt.Sprintf("%.2f", h)
}

func countsThisWeek(a models.Activity, weekStart time.Time) bool {
	return a.Completed && !a.StartTime.Before(weekStart)
}

func hours(a models.Activity) float64 {
	if a.Duration == nil || *a.Duration < 0 {
		return 0
	}
	return *a.Duration
}
