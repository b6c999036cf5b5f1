// internal/snapshot/parse_test.go
package snapshot

import (
	"reflect"
	"testing"
)

func TestApply_EmptyDocumentsYieldDefaults(t *testing.T) {
	s := Default()
	ApplyDrowsiness([]byte(`{}`), &s)
	ApplyStatus([]byte(`{}`), &s)
	ApplyLogSummary([]byte(`{}`), &s)

	if !reflect.DeepEqual(s, Default()) {
		t.Fatalf("expected defaults, got %+v", s)
	}
	if s.AccelMagnitude != 1.0 || s.Drowsiness != Unknown {
		t.Fatalf("wrong default values: %+v", s)
	}
}

func TestApply_NullsKeepDefaults(t *testing.T) {
	s := Default()
	ApplyDrowsiness([]byte(`{"state":null,"alarm_on":null,"alarm_duration":null}`), &s)
	ApplyStatus([]byte(`{"accel_magnitude":null,"response_message":null}`), &s)

	if !reflect.DeepEqual(s, Default()) {
		t.Fatalf("nulls must not override defaults, got %+v", s)
	}
}

func TestApplyDrowsiness_Full(t *testing.T) {
	doc := []byte(`{
		"state": "sleepy",
		"alarm_on": true,
		"alarm_duration": 4.5,
		"show_speaker_popup": true,
		"ear": 0.18,
		"threshold": 0.2,
		"timestamp": "2026-10-14 08:00:00"
	}`)

	s := Default()
	ApplyDrowsiness(doc, &s)

	if s.Drowsiness != Sleepy || !s.AlarmOn || !s.ShowSpeakerPopup {
		t.Fatalf("unexpected flags: %+v", s)
	}
	if s.AlarmDuration != 4.5 || s.EAR != 0.18 || s.Threshold != 0.2 {
		t.Fatalf("unexpected numbers: %+v", s)
	}
	if s.Timestamp != "2026-10-14 08:00:00" {
		t.Fatalf("unexpected timestamp %q", s.Timestamp)
	}
}

func TestApplyDrowsiness_UnknownState(t *testing.T) {
	for _, v := range []string{`"no_face"`, `""`, `42`} {
		s := Default()
		ApplyDrowsiness([]byte(`{"state":`+v+`}`), &s)
		if s.Drowsiness != Unknown {
			t.Fatalf("state %s: expected unknown, got %v", v, s.Drowsiness)
		}
	}

	s := Default()
	ApplyDrowsiness([]byte(`{"state":" Normal "}`), &s)
	if s.Drowsiness != Normal {
		t.Fatalf("expected normal, got %v", s.Drowsiness)
	}
}

func TestBoolField_Coercion(t *testing.T) {
	cases := []struct {
		doc  string
		want bool
	}{
		{`{"alarm_on":true}`, true},
		{`{"alarm_on":1}`, true},
		{`{"alarm_on":0}`, false},
		{`{"alarm_on":"true"}`, true},
		{`{"alarm_on":"yes"}`, false}, // unrecognized string keeps default
		{`{"alarm_on":[]}`, false},
	}

	for _, c := range cases {
		s := Default()
		ApplyDrowsiness([]byte(c.doc), &s)
		if s.AlarmOn != c.want {
			t.Fatalf("%s: got=%v want=%v", c.doc, s.AlarmOn, c.want)
		}
	}
}

func TestApplyStatus_Full(t *testing.T) {
	doc := []byte(`{
		"accel_magnitude": 2.3,
		"impact_detected": true,
		"response_requested": true,
		"response_message": "Are you okay?",
		"response_remaining_time": 8.5,
		"gps_position_string": "(37.5665, 126.9780)",
		"sensor_status": "Camera / Accelerometer: OK"
	}`)

	s := Default()
	ApplyStatus(doc, &s)

	if s.AccelMagnitude != 2.3 || !s.ImpactDetected || !s.ResponseRequested {
		t.Fatalf("unexpected values: %+v", s)
	}
	if s.ResponseMessage != "Are you okay?" || s.ResponseRemaining != 8.5 {
		t.Fatalf("unexpected response fields: %+v", s)
	}
	if s.GPSPosition != "(37.5665, 126.9780)" || s.SensorStatus != "Camera / Accelerometer: OK" {
		t.Fatalf("unexpected display fields: %+v", s)
	}
}

func TestApplyStatus_NegativeRemainingClamped(t *testing.T) {
	s := Default()
	ApplyStatus([]byte(`{"response_remaining_time": -3}`), &s)

	if s.ResponseRemaining != 0 {
		t.Fatalf("expected clamp to 0, got %v", s.ResponseRemaining)
	}
}

func TestApplyLogSummary_Full(t *testing.T) {
	doc := []byte(`{
		"monthly_score": 85,
		"event_counts": {"drowsiness": 3, "sudden_stop": 1, "bogus": "x"},
		"report_stats": {"sent": 0},
		"daily_scores": [
			{"date": "2026-10-13", "score": 90, "day": 13},
			"garbage",
			{"date": "2026-10-14", "score": 80, "day": 14}
		]
	}`)

	s := Default()
	ApplyLogSummary(doc, &s)

	if s.MonthlyScore != 85 {
		t.Fatalf("score: got=%d", s.MonthlyScore)
	}
	wantCounts := map[string]int{"drowsiness": 3, "sudden_stop": 1}
	if !reflect.DeepEqual(s.EventCounts, wantCounts) {
		t.Fatalf("counts: got=%v want=%v", s.EventCounts, wantCounts)
	}
	wantDays := []DailyScore{
		{Date: "2026-10-13", Score: 90, Day: 13},
		{Date: "2026-10-14", Score: 80, Day: 14},
	}
	if !reflect.DeepEqual(s.DailyScores, wantDays) {
		t.Fatalf("days: got=%v want=%v", s.DailyScores, wantDays)
	}
}
