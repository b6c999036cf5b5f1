// internal/writer/types.go
package writer

import "github.com/tamzrod/dashboard-sync/internal/status"

// StatusPlan is the fully-built plan for one status block.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// StatusWriter is the delivery-only contract for dashboard status.
// It receives a block and writes it verbatim.
// No logic, no interpretation.
type StatusWriter interface {
	WriteStatus(b status.Block) error
}

// endpointClient is the register surface of one status endpoint.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}
