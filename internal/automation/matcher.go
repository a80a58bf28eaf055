package automation

import (
	"reflect"

	"taskweave/internal/model"
)

// matchesTrigger checks the rule's trigger against the event-like document.
// Only the "event" kind is matched today; any other kind is a no-match, not an
// error, so new trigger kinds can ship before engines understand them.
func matchesTrigger(trigger model.Trigger, eventLike map[string]any) bool {
	switch trigger.Type {
	case model.TriggerEvent:
		return trigger.Provider == stringField(eventLike, "provider") &&
			trigger.EventType == stringField(eventLike, "event_type")
	default:
		return false
	}
}

// matchesConditions applies flat conjunctive equality: empty conditions match
// everything, every present key must equal the event's value exactly, and a
// missing key means no match.
func matchesConditions(conditions model.Conditions, eventLike map[string]any) bool {
	for key, expected := range conditions {
		actual, ok := eventLike[key]
		if !ok {
			return false
		}
		if !valuesEqual(actual, expected) {
			return false
		}
	}
	return true
}

// valuesEqual compares numbers numerically: stored conditions come back from
// JSON as float64 while derived event fields like tasks_created are ints, and
// 1 must equal 1.0 across that boundary.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}
