// internal/config/config.go
package config

type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard"`
}

type DashboardConfig struct {
	Poll        PollConfig         `yaml:"poll"`
	API         APIConfig          `yaml:"api"`
	Files       FilesConfig        `yaml:"files"`
	Countdown   CountdownConfig    `yaml:"countdown"`
	Bridge      BridgeConfig       `yaml:"bridge"`
	StatusBlock *StatusBlockConfig `yaml:"status_block"` // optional, opt-in
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- BACKEND API ----

type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- FILE FALLBACK ----

type FilesConfig struct {
	// DeviceDir is tried first. Working-directory candidates follow.
	DeviceDir     string `yaml:"device_dir"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
}

// ---- COUNTDOWN ----

type CountdownConfig struct {
	TickMs int `yaml:"tick_ms"`
}

// ---- BRIDGE ----

type BridgeConfig struct {
	Listen string `yaml:"listen"` // empty disables the bridge
}

// ---- STATUS BLOCK ----

type StatusBlockConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	BaseSlot   uint16 `yaml:"base_slot"`
	DeviceName string `yaml:"device_name"`
	TimeoutMs  int    `yaml:"timeout_ms"`
}
