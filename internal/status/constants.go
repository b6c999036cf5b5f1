// internal/status/constants.go
package status

// Dashboard status block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of logical slots per device.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotDisplayCode holds the driver display state.
const SlotDisplayCode = 0

// SlotAccidentCode holds the accident status.
const SlotAccidentCode = 1

// SlotAlertFlags holds the alert visibility and channel bits.
const SlotAlertFlags = 2

// SlotSecondsInAlert holds the duration (in seconds) the display has shown Alert.
const SlotSecondsInAlert = 3

// SlotResponseRemaining holds the whole seconds left on the response countdown.
const SlotResponseRemaining = 4

// SlotMonthlyScore holds the monthly safety score.
const SlotMonthlyScore = 5

// LiveSlots is the number of slots written incrementally.
const LiveSlots = 6

// ---- RESERVED RANGE ----

// Slots 6-10 are reserved for future use.
const SlotReservedStart = 6
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// MaxRegister is the saturation bound for counters.
const MaxRegister = 65535

// ---- DISPLAY CODES ----

const (
	DisplayWaiting uint16 = 0
	DisplayGood    uint16 = 1
	DisplayAlert   uint16 = 2
)

// ---- ACCIDENT CODES ----

const (
	AccidentNone             uint16 = 0
	AccidentDetected         uint16 = 1
	AccidentResponseRequired uint16 = 2
)

// ---- FLAG BITS ----

const (
	FlagSpeakerShown  uint16 = 1 << 0
	FlagResponseShown uint16 = 1 << 1
	FlagAPIChannel    uint16 = 1 << 2
)
