package selfcare

import (
	"math/rand"
	"testing"
	"time"

	"github.com/arnold/selfcare-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wednesday = time.Date(2024, time.June, 12, 10, 0, 0, 0, time.UTC)

func activity(start time.Time, hours float64, completed bool) models.Activity {
	d := hours
	return models.Activity{
		ID:        uuid.New(),
		Type:      models.ActivityHobby,
		Title:     "reading",
		StartTime: start,
		EndTime:   start.Add(time.Duration(hours * float64(time.Hour))),
		Duration:  &d,
		Completed: completed,
	}
}

func TestStartOfWeek(t *testing.T) {
	want := time.Date(2024, time.June, 9, 0, 0, 0, 0, time.UTC)
	assert.True(t, StartOfWeek(wednesday).Equal(want), "got %s", StartOfWeek(wednesday))

	sunday := time.Date(2024, time.June, 9, 23, 59, 0, 0, time.UTC)
	assert.True(t, StartOfWeek(sunday).Equal(want))

	saturday := time.Date(2024, time.June, 15, 23, 59, 59, 0, time.UTC)
	assert.True(t, StartOfWeek(saturday).Equal(want))
}

func TestStartOfWeekCrossesMonth(t *testing.T) {
	tuesday := time.Date(2024, time.October, 1, 8, 0, 0, 0, time.UTC)
	want := time.Date(2024, time.September, 29, 0, 0, 0, 0, time.UTC)
	assert.True(t, StartOfWeek(tuesday).Equal(want))
}

func TestStartOfWeekUsesLocalCalendar(t *testing.T) {
	loc := time.FixedZone("EDT", -4*60*60)

	// 2024-06-09T02:00Z is still Saturday evening in New York.
	now := time.Date(2024, time.June, 9, 2, 0, 0, 0, time.UTC).In(loc)
	got := StartOfWeek(now)
	assert.Equal(t, time.Date(2024, time.June, 2, 0, 0, 0, 0, loc), got)
}

func TestWeeklyCompletedHoursScenario(t *testing.T) {
	inWeek := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	priorWeek := time.Date(2024, time.June, 2, 8, 0, 0, 0, time.UTC)

	assert.InDelta(t, 1.5, WeeklyCompletedHours([]models.Activity{activity(inWeek, 1.5, true)}, wednesday), 1e-9)
	assert.Zero(t, WeeklyCompletedHours([]models.Activity{activity(inWeek, 1.5, false)}, wednesday))
	assert.Zero(t, WeeklyCompletedHours([]models.Activity{activity(priorWeek, 1.5, true)}, wednesday))
}

func TestWeeklyCompletedHoursSums(t *testing.T) {
	monday := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	list := []models.Activity{
		activity(monday, 2.0, true),
		activity(monday.Add(24*time.Hour), 3.25, true),
	}
	assert.InDelta(t, 5.25, WeeklyCompletedHours(list, wednesday), 1e-9)
}

func TestWeeklyCompletedHoursEmpty(t *testing.T) {
	assert.Zero(t, WeeklyCompletedHours(nil, wednesday))
	assert.Zero(t, WeeklyCompletedHours([]models.Activity{}, time.Now()))
}

func TestWeeklyCompletedHoursMissingDuration(t *testing.T) {
	a := activity(time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC), 1, true)
	a.Duration = nil
	assert.Zero(t, WeeklyCompletedHours([]models.Activity{a}, wednesday))
}

func TestWeeklyCompletedHoursCountsFutureWeeks(t *testing.T) {
	nextMonth := time.Date(2024, time.July, 20, 8, 0, 0, 0, time.UTC)
	assert.InDelta(t, 2.0, WeeklyCompletedHours([]models.Activity{activity(nextMonth, 2, true)}, wednesday), 1e-9)
}

func TestWeeklyCompletedHoursBoundaryIsInclusive(t *testing.T) {
	weekStart := StartOfWeek(wednesday)
	list := []models.Activity{
		activity(weekStart, 1, true),
		activity(weekStart.Add(-time.Nanosecond), 4, true),
	}
	assert.InDelta(t, 1.0, WeeklyCompletedHours(list, wednesday), 1e-9)
}

func TestWeeklyCompletedHoursIgnoresIrrelevant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := []models.Activity{
		activity(time.Date(2024, time.June, 11, 9, 0, 0, 0, time.UTC), 0.75, true),
		activity(time.Date(2024, time.June, 13, 18, 0, 0, 0, time.UTC), 1.25, true),
	}
	want := WeeklyCompletedHours(base, wednesday)

	for i := 0; i < 50; i++ {
		list := append([]models.Activity{}, base...)
		offset := time.Duration(rng.Intn(24*60)) * time.Hour
		// incomplete anywhere in time
		list = append(list, activity(wednesday.Add(offset-12*24*time.Hour), rng.Float64()*5, false))
		// completed but before the week started
		list = append(list, activity(StartOfWeek(wednesday).Add(-time.Duration(rng.Intn(1000)+1)*time.Minute), rng.Float64()*5, true))
		rng.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })

		assert.InDelta(t, want, WeeklyCompletedHours(list, wednesday), 1e-9)
	}
}

func TestPartitionIsStableAndSorted(t *testing.T) {
	t0 := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	a := activity(t0.Add(2*time.Hour), 1, true)
	b := activity(t0, 1, false)
	c := activity(t0, 1, false) // same start as b, later in input
	d := activity(t0.Add(time.Hour), 1, true)
	e := activity(t0.Add(-time.Hour), 1, false)

	incomplete, completed := Partition([]models.Activity{a, b, c, d, e})

	require.Len(t, incomplete, 3)
	require.Len(t, completed, 2)
	assert.Equal(t, []uuid.UUID{e.ID, b.ID, c.ID}, ids(incomplete))
	assert.Equal(t, []uuid.UUID{d.ID, a.ID}, ids(completed))
}

func TestPartitionProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	t0 := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	for n := 0; n < 30; n++ {
		var input []models.Activity
		for i := 0; i < n; i++ {
			start := t0.Add(time.Duration(rng.Intn(20)) * time.Hour)
			input = append(input, activity(start, 1, rng.Intn(2) == 0))
		}

		incomplete, completed := Partition(input)
		require.Len(t, append(append([]models.Activity{}, incomplete...), completed...), len(input))

		seen := map[uuid.UUID]bool{}
		for _, a := range incomplete {
			assert.False(t, a.Completed)
			seen[a.ID] = true
		}
		for _, a := range completed {
			assert.True(t, a.Completed)
			assert.False(t, seen[a.ID], "activity in both partitions")
			seen[a.ID] = true
		}
		for _, a := range input {
			assert.True(t, seen[a.ID])
		}
		assertSorted(t, incomplete)
		assertSorted(t, completed)
	}
}

func TestPartitionEmpty(t *testing.T) {
	incomplete, completed := Partition(nil)
	assert.NotNil(t, incomplete)
	assert.NotNil(t, completed)
	assert.Empty(t, incomplete)
	assert.Empty(t, completed)
}

func TestSortByStartDoesNotMutateInput(t *testing.T) {
	t0 := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	input := []models.Activity{activity(t0.Add(time.Hour), 1, false), activity(t0, 1, false)}
	first := input[0].ID

	sorted := SortByStart(input)
	assert.Equal(t, first, input[0].ID)
	assert.Equal(t, input[1].ID, sorted[0].ID)
}

func TestSummarize(t *testing.T) {
	monday := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	run := activity(monday, 1, true)
	run.Type = models.ActivityFitness
	meditate := activity(monday.Add(2*time.Hour), 0.5, true)
	meditate.Type = models.ActivityMentalHealth
	paint := activity(monday.Add(-time.Hour), 2, false)
	old := activity(monday.Add(-10*24*time.Hour), 3, true)

	s := Summarize([]models.Activity{meditate, run, paint, old}, wednesday)

	assert.Equal(t, []uuid.UUID{old.ID, paint.ID, run.ID, meditate.ID}, ids(s.Activities))
	assert.Equal(t, []uuid.UUID{paint.ID}, ids(s.Incomplete))
	assert.Equal(t, []uuid.UUID{old.ID, run.ID, meditate.ID}, ids(s.Completed))
	assert.InDelta(t, 1.5, s.WeeklyHours, 1e-9)
	assert.InDelta(t, 1.0, s.ByType[models.ActivityFitness], 1e-9)
	assert.InDelta(t, 0.5, s.ByType[models.ActivityMentalHealth], 1e-9)
	assert.NotContains(t, s.ByType, models.ActivityHobby)
	assert.Equal(t, StartOfWeek(wednesday), s.WeekStart)
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "0.00", FormatHours(0))
	assert.Equal(t, "5.25", FormatHours(5.25))
	assert.Equal(t, "1.33", FormatHours(4.0/3.0))
}

func ids(list []models.Activity) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

func assertSorted(t *testing.T, list []models.Activity) {
	t.Helper()
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].StartTime.Before(list[i-1].StartTime), "not sorted at %d", i)
	}
}
