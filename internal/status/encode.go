// internal/status/encode.go
package status

// Encode converts a Block into a full status block with the device name.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(b Block, name string) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	copy(regs, Live(b))

	// Slots 6..10 are RESERVED and left as zero.

	nameRegs := EncodeDeviceName(name)
	copy(regs[SlotDeviceNameStart:SlotDeviceNameEnd+1], nameRegs)

	return regs
}

// Live returns the incrementally written slots in slot order.
func Live(b Block) []uint16 {
	regs := make([]uint16, LiveSlots)
	regs[SlotDisplayCode] = b.Display
	regs[SlotAccidentCode] = b.Accident
	regs[SlotAlertFlags] = b.Flags
	regs[SlotSecondsInAlert] = b.SecondsInAlert
	regs[SlotResponseRemaining] = b.Remaining
	regs[SlotMonthlyScore] = b.Score
	return regs
}

// EncodeDeviceName packs up to 16 ASCII characters into 8 uint16 registers.
// Each register stores two ASCII bytes in big-endian order.
func EncodeDeviceName(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}
