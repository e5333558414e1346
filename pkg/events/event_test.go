package events_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/savings-analytics/pkg/events"
)

func TestNewBaseEvent(t *testing.T) {
	before := time.Now().UTC()
	e := events.NewBaseEvent("analytics.alert.raised", "42", "Group")
	after := time.Now().UTC()

	assert.NotEmpty(t, e.EventID())
	assert.Equal(t, "analytics.alert.raised", e.EventType())
	assert.Equal(t, "42", e.AggregateID())
	assert.Equal(t, "Group", e.AggregateType())
	assert.False(t, e.OccurredAt().Before(before))
	assert.False(t, e.OccurredAt().After(after))

	other := events.NewBaseEvent("analytics.alert.raised", "42", "Group")
	assert.NotEqual(t, e.EventID(), other.EventID())
}

func TestEventCollector(t *testing.T) {
	var c events.EventCollector
	assert.Nil(t, c.ClearEvents())

	c.Record(events.NewBaseEvent("first", "1", "Group"))
	c.Record(events.NewBaseEvent("second", "1", "Group"), events.NewBaseEvent("third", "2", "Group"))

	cleared := c.ClearEvents()
	require.Len(t, cleared, 3)
	assert.Equal(t, "first", cleared[0].EventType())
	assert.Equal(t, "third", cleared[2].EventType())
	assert.Nil(t, c.ClearEvents())
}
