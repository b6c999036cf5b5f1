// internal/status/status_test.go
package status

import (
	"testing"

	"github.com/tamzrod/dashboard-sync/internal/arbiter"
)

func TestFromView_AlertWithResponse(t *testing.T) {
	v := arbiter.View{
		Display:        arbiter.DisplayAlert,
		AccidentStatus: arbiter.AccidentResponseRequired,
		MonthlyScore:   87,
		Speaker:        &arbiter.SpeakerAlert{ActivationID: "a", Suppressed: true},
		Response:       &arbiter.ResponseModal{ActivationID: "b", Remaining: 7.2},
	}

	b := FromView(v, true, 12)

	if b.Display != DisplayAlert || b.Accident != AccidentResponseRequired {
		t.Fatalf("codes: got display=%d accident=%d", b.Display, b.Accident)
	}
	want := FlagSpeakerShown | FlagResponseShown | FlagAPIChannel
	if b.Flags != want {
		t.Fatalf("flags: got=%03b want=%03b", b.Flags, want)
	}
	if b.Remaining != 8 {
		t.Fatalf("remaining must round up: got=%d want=8", b.Remaining)
	}
	if b.SecondsInAlert != 12 || b.Score != 87 {
		t.Fatalf("unexpected block %+v", b)
	}
}

func TestFromView_ClampsScore(t *testing.T) {
	b := FromView(arbiter.View{MonthlyScore: -4}, false, 0)
	if b.Score != 0 {
		t.Fatalf("negative score: got=%d want=0", b.Score)
	}
	b = FromView(arbiter.View{MonthlyScore: 1 << 20}, false, 0)
	if b.Score != MaxRegister {
		t.Fatalf("large score: got=%d want=%d", b.Score, MaxRegister)
	}
	if b.Display != DisplayWaiting || b.Flags != 0 {
		t.Fatalf("empty view must encode as waiting with no flags, got %+v", b)
	}
}

func TestEncode_Layout(t *testing.T) {
	b := Block{Display: DisplayGood, Accident: AccidentDetected, Flags: 4, SecondsInAlert: 3, Remaining: 0, Score: 90}
	regs := Encode(b, "CAR-01")

	if len(regs) != SlotsPerDevice {
		t.Fatalf("len: got=%d want=%d", len(regs), SlotsPerDevice)
	}
	if regs[SlotDisplayCode] != 1 || regs[SlotAccidentCode] != 1 || regs[SlotAlertFlags] != 4 ||
		regs[SlotSecondsInAlert] != 3 || regs[SlotMonthlyScore] != 90 {
		t.Fatalf("live slots: got=%v", regs[:LiveSlots])
	}
	for i := SlotReservedStart; i <= SlotReservedEnd; i++ {
		if regs[i] != 0 {
			t.Fatalf("reserved slot %d not zero: %d", i, regs[i])
		}
	}
	if regs[SlotDeviceNameStart] != uint16('C')<<8|uint16('A') {
		t.Fatalf("name slot: got=%#04x", regs[SlotDeviceNameStart])
	}
	if regs[SlotDeviceNameEnd] != 0 {
		t.Fatalf("name padding: got=%#04x", regs[SlotDeviceNameEnd])
	}
}

func TestEncodeDeviceName_SanitizesAndTruncates(t *testing.T) {
	regs := EncodeDeviceName("A\x01CDEFGHIJKLMNOPQRSTU")
	if regs[0] != uint16('A')<<8|uint16('?') {
		t.Fatalf("sanitize: got=%#04x", regs[0])
	}
	if regs[7] != uint16('O')<<8|uint16('P') {
		t.Fatalf("truncate: got=%#04x", regs[7])
	}
}
