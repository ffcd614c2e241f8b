package ingest

import (
	"strconv"
	"strings"

	"event-svr/internal/model"
)

// Teltonika permanent IO ids that carry onto canonical attributes.
const (
	ioDIn1     = 1
	ioIgnition = 239
	ioMovement = 240
)

var ioNames = map[int]string{
	ioIgnition: model.AttrIgnition,
	ioMovement: model.AttrMotion,
	ioDIn1:     model.AttrDoor,
}

// Vendor aliases seen on decoded payloads, lowercased.
var aliases = map[string]string{
	"ignition":      model.AttrIgnition,
	"ign":           model.AttrIgnition,
	"motion":        model.AttrMotion,
	"movement":      model.AttrMotion,
	"moving":        model.AttrMotion,
	"door":          model.AttrDoor,
	"din1":          model.AttrDoor,
	"in1":           model.AttrDoor,
	"alarm":         model.AttrAlarm,
	"odometer":      model.AttrOdometer,
	"totaldistance": model.AttrTotalDistance,
	"hours":         model.AttrHours,
}

var boolAttrs = map[string]bool{
	model.AttrIgnition: true,
	model.AttrMotion:   true,
}

// Normalize rewrites raw attribute keys ("io239", "movement", "din1") to
// the canonical names the handlers read, coercing boolean attributes that
// arrive as 0/1. Unknown keys pass through untouched.
func Normalize(p *model.Position) {
	if len(p.Attributes) == 0 {
		return
	}
	out := make(map[string]any, len(p.Attributes))
	for key, val := range p.Attributes {
		name, ok := canonicalName(key)
		if !ok {
			out[key] = val
			continue
		}
		if boolAttrs[name] {
			out[name] = truthy(val)
		} else {
			out[name] = val
		}
	}
	p.Attributes = out
}

func canonicalName(key string) (string, bool) {
	lower := strings.ToLower(key)
	if name, ok := aliases[lower]; ok {
		return name, true
	}
	if rest, ok := strings.CutPrefix(lower, "io"); ok {
		if id, err := strconv.Atoi(rest); err == nil {
			if name, ok := ioNames[id]; ok {
				return name, true
			}
		}
	}
	return "", false
}

func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case uint64:
		return val != 0
	case string:
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
		return val == "1"
	}
	return false
}
