// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/dashboard-sync/internal/status"
)

// deviceStatusWriter is the concrete implementation used by the session.
type deviceStatusWriter struct {
	plan StatusPlan
	cli  endpointClient

	needFull bool
	last     status.Block
}

var slotNames = [status.LiveSlots]string{
	status.SlotDisplayCode:       "display",
	status.SlotAccidentCode:      "accident",
	status.SlotAlertFlags:        "flags",
	status.SlotSecondsInAlert:    "seconds",
	status.SlotResponseRemaining: "remaining",
	status.SlotMonthlyScore:      "score",
}

// NewDeviceStatusWriter builds a status writer over one endpoint client.
func NewDeviceStatusWriter(plan StatusPlan, cli endpointClient) *deviceStatusWriter {
	return &deviceStatusWriter{
		plan:     plan,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
	}
}

// WriteStatus delivers a block into status memory.
// On any write failure, the next call will re-assert the full block.
func (sw *deviceStatusWriter) WriteStatus(b status.Block) error {
	if sw == nil {
		return errors.New("status writer: disabled")
	}
	if sw.cli == nil {
		return fmt.Errorf("status writer: missing client for endpoint %s", sw.plan.Endpoint)
	}

	baseAddr := sw.baseAddr()

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		regs := status.Encode(b, sw.plan.DeviceName)

		if err := sw.cli.WriteRegisters(sw.plan.UnitID, baseAddr, regs); err != nil {
			sw.needFull = true
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}

		sw.needFull = false
		sw.last = b
		return nil
	}

	prev := status.Live(sw.last)
	next := status.Live(b)

	var errs []string

	for slot := 0; slot < status.LiveSlots; slot++ {
		if prev[slot] == next[slot] {
			continue
		}
		if err := sw.cli.WriteRegisters(
			sw.plan.UnitID,
			baseAddr+uint16(slot),
			[]uint16{next[slot]},
		); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d %s write failed: %v", slot, slotNames[slot], err))
		}
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt: re-assert on next write.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	sw.last = b
	return nil
}

func (sw *deviceStatusWriter) baseAddr() uint16 {
	// Each device owns a fixed SlotsPerDevice block.
	return sw.plan.BaseSlot * status.SlotsPerDevice
}
