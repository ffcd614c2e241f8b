package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"event-svr/internal/model"
)

func TestNormalizeIOIds(t *testing.T) {
	p := &model.Position{Attributes: map[string]any{
		"io239": float64(1),
		"io240": float64(0),
		"io1":   float64(1),
	}}
	Normalize(p)

	assert.Equal(t, true, p.Attributes[model.AttrIgnition])
	assert.Equal(t, false, p.Attributes[model.AttrMotion])
	assert.Equal(t, true, p.Attributes[model.AttrDoor])
}

func TestNormalizeAliases(t *testing.T) {
	p := &model.Position{Attributes: map[string]any{
		"Movement": true,
		"ign":      "1",
		"din1":     false,
		"alarm":    "parking",
	}}
	Normalize(p)

	assert.Equal(t, true, p.Attributes[model.AttrMotion])
	assert.Equal(t, true, p.Attributes[model.AttrIgnition])
	assert.Equal(t, false, p.Attributes[model.AttrDoor])
	assert.Equal(t, "parking", p.Attributes[model.AttrAlarm])
}

func TestNormalizeKeepsUnknownKeys(t *testing.T) {
	p := &model.Position{Attributes: map[string]any{
		"io999":   float64(7),
		"battery": 12.6,
	}}
	Normalize(p)

	assert.Equal(t, float64(7), p.Attributes["io999"])
	assert.Equal(t, 12.6, p.Attributes["battery"])
}

func TestNormalizeNonBoolAttrsPassUncoerced(t *testing.T) {
	p := &model.Position{Attributes: map[string]any{
		"odometer":      float64(123456),
		"totalDistance": float64(98765),
	}}
	Normalize(p)

	assert.Equal(t, float64(123456), p.Attributes[model.AttrOdometer])
	assert.Equal(t, float64(98765), p.Attributes[model.AttrTotalDistance])
}

func TestNormalizeEmptyAttributes(t *testing.T) {
	p := &model.Position{}
	Normalize(p)
	assert.Nil(t, p.Attributes)
}
