package v1

import (
	"testing"

	"statuspage-cron/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler(t *testing.T) {
	reporter := newTestReporter(newFakePage(), newFakeService("A"))

	t.Run("valid expressions", func(t *testing.T) {
		s, err := NewScheduler(reporter, "*/12 * * * *", "0 4 * * *")
		require.NoError(t, err)
		assert.Len(t, s.cron.Entries(), 2)

		s.Start()
		s.Stop()
	})

	t.Run("descriptor", func(t *testing.T) {
		_, err := NewScheduler(reporter, "@every 30s", "@daily")
		assert.NoError(t, err)
	})

	t.Run("bad cycle expression", func(t *testing.T) {
		_, err := NewScheduler(reporter, "every minute", "0 4 * * *")
		assert.Error(t, err)
	})

	t.Run("bad daily expression", func(t *testing.T) {
		_, err := NewScheduler(reporter, "* * * * *", "0 4 * *")
		assert.Error(t, err)
	})
}

func TestSchedulerJobsRunReporter(t *testing.T) {
	page := newFakePage()
	svc := newFakeService("A", models.OutcomeUnhealthy)
	reporter := newTestReporter(page, svc)

	s, err := NewScheduler(reporter, "@every 1h", "@every 1h")
	require.NoError(t, err)

	s.runCycle()
	assert.Len(t, page.creates, 1)

	// incident open, daily summary must not publish
	s.runDaily()
	assert.Empty(t, page.allOperational)
}
