package observability

import (
	"testing"

	"github.com/arnold/selfcare-api/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordActivityCounters(t *testing.T) {
	before := testutil.ToFloat64(activitiesCompleted.WithLabelValues(string(models.ActivityFitness)))
	RecordActivityCompleted(models.ActivityFitness)
	after := testutil.ToFloat64(activitiesCompleted.WithLabelValues(string(models.ActivityFitness)))
	assert.Equal(t, before+1, after)

	before = testutil.ToFloat64(activitiesCreated.WithLabelValues(string(models.ActivityHobby)))
	RecordActivityCreated(models.ActivityHobby)
	assert.Equal(t, before+1, testutil.ToFloat64(activitiesCreated.WithLabelValues(string(models.ActivityHobby))))
}

func TestRecordWeeklyHours(t *testing.T) {
	RecordWeeklyHours(5.25)
	assert.Equal(t, 1, testutil.CollectAndCount(weeklyHours))
}
