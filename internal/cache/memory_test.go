package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"event-svr/internal/model"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func position(id int64, at time.Time) *model.Position {
	return &model.Position{ID: id, DeviceID: 1, FixTime: at, Valid: true}
}

func TestMemoryDeviceLookup(t *testing.T) {
	c := NewMemory()
	assert.Nil(t, c.Device(1))

	c.PutDevice(&model.Device{ID: 1, Name: "truck"})
	c.PutGroup(&model.Group{ID: 10, Name: "fleet"})

	assert.Equal(t, "truck", c.Device(1).Name)
	assert.Equal(t, "fleet", c.Group(10).Name)
}

func TestIsLatestOrdering(t *testing.T) {
	c := NewMemory()

	p1 := position(1, base)
	assert.True(t, c.IsLatest(p1), "first position is always latest")
	c.UpdatePosition(p1)

	assert.True(t, c.IsLatest(position(2, base.Add(time.Second))), "newer fix time")
	assert.False(t, c.IsLatest(position(2, base.Add(-time.Second))), "older fix time")
}

func TestIsLatestTieBreakOnID(t *testing.T) {
	c := NewMemory()
	c.UpdatePosition(position(5, base))

	assert.True(t, c.IsLatest(position(6, base)), "equal fix time, higher ID wins")
	assert.False(t, c.IsLatest(position(4, base)), "equal fix time, lower ID loses")
	assert.False(t, c.IsLatest(position(5, base)), "exact duplicate is never latest")
}

func TestUpdatePositionReplacesLast(t *testing.T) {
	c := NewMemory()

	c.UpdatePosition(position(1, base))
	c.UpdatePosition(position(2, base.Add(time.Second)))

	last := c.LastPosition(1)
	assert.Equal(t, int64(2), last.ID)

	assert.Nil(t, c.LastPosition(2), "positions are tracked per device")
}
