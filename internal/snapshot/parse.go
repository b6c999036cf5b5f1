// internal/snapshot/parse.go
package snapshot

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Field extraction never fails: every read checks presence first and
// falls back to the value already in the snapshot (the default).

// ApplyDrowsiness copies drowsiness document fields into s.
func ApplyDrowsiness(doc []byte, s *Snapshot) {
	if v, ok := stringField(doc, "state"); ok {
		s.Drowsiness = ParseState(strings.ToLower(strings.TrimSpace(v)))
	}
	s.AlarmOn = boolField(doc, "alarm_on", s.AlarmOn)
	s.AlarmDuration = floatField(doc, "alarm_duration", s.AlarmDuration)
	s.ShowSpeakerPopup = boolField(doc, "show_speaker_popup", s.ShowSpeakerPopup)
	s.EAR = floatField(doc, "ear", s.EAR)
	s.Threshold = floatField(doc, "threshold", s.Threshold)
	if v, ok := stringField(doc, "timestamp"); ok {
		s.Timestamp = v
	}
}

// ApplyStatus copies accident/sensor status fields into s.
func ApplyStatus(doc []byte, s *Snapshot) {
	s.AccelMagnitude = floatField(doc, "accel_magnitude", s.AccelMagnitude)
	s.ImpactDetected = boolField(doc, "impact_detected", s.ImpactDetected)
	s.ResponseRequested = boolField(doc, "response_requested", s.ResponseRequested)
	if v, ok := stringField(doc, "response_message"); ok {
		s.ResponseMessage = v
	}
	s.ResponseRemaining = floatField(doc, "response_remaining_time", s.ResponseRemaining)
	if s.ResponseRemaining < 0 {
		s.ResponseRemaining = 0
	}
	if v, ok := stringField(doc, "gps_position_string"); ok {
		s.GPSPosition = v
	}
	if v, ok := stringField(doc, "sensor_status"); ok {
		s.SensorStatus = v
	}
}

// ApplyLogSummary copies log summary fields into s.
func ApplyLogSummary(doc []byte, s *Snapshot) {
	if v := jsoniter.Get(doc, "monthly_score"); v.ValueType() == jsoniter.NumberValue {
		s.MonthlyScore = v.ToInt()
	}

	if counts := jsoniter.Get(doc, "event_counts"); counts.ValueType() == jsoniter.ObjectValue {
		m := make(map[string]int)
		for _, k := range counts.Keys() {
			if c := counts.Get(k); c.ValueType() == jsoniter.NumberValue {
				m[k] = c.ToInt()
			}
		}
		s.EventCounts = m
	}

	if days := jsoniter.Get(doc, "daily_scores"); days.ValueType() == jsoniter.ArrayValue {
		out := make([]DailyScore, 0, days.Size())
		for i := 0; i < days.Size(); i++ {
			d := days.Get(i)
			if d.ValueType() != jsoniter.ObjectValue {
				continue
			}
			out = append(out, DailyScore{
				Date:  d.Get("date").ToString(),
				Score: d.Get("score").ToInt(),
				Day:   d.Get("day").ToInt(),
			})
		}
		s.DailyScores = out
	}
}

// ---- field helpers ----

func stringField(doc []byte, key string) (string, bool) {
	v := jsoniter.Get(doc, key)
	if v.ValueType() != jsoniter.StringValue {
		return "", false
	}
	return v.ToString(), true
}

// boolField accepts JSON booleans, numbers (non-zero is true)
// and the strings "true"/"false".
func boolField(doc []byte, key string, def bool) bool {
	v := jsoniter.Get(doc, key)
	switch v.ValueType() {
	case jsoniter.BoolValue:
		return v.ToBool()
	case jsoniter.NumberValue:
		return v.ToFloat64() != 0
	case jsoniter.StringValue:
		switch strings.ToLower(v.ToString()) {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return def
}

func floatField(doc []byte, key string, def float64) float64 {
	v := jsoniter.Get(doc, key)
	if v.ValueType() != jsoniter.NumberValue {
		return def
	}
	return v.ToFloat64()
}
