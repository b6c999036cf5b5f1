// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// Zero values are accepted; Normalize replaces them with defaults.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	d := cfg.Dashboard

	if d.Poll.IntervalMs < 0 {
		return fmt.Errorf("poll.interval_ms must be >= 0, got %d", d.Poll.IntervalMs)
	}
	if d.API.TimeoutMs < 0 {
		return fmt.Errorf("api.timeout_ms must be >= 0, got %d", d.API.TimeoutMs)
	}
	if d.Files.ReadTimeoutMs < 0 {
		return fmt.Errorf("files.read_timeout_ms must be >= 0, got %d", d.Files.ReadTimeoutMs)
	}
	if d.Countdown.TickMs < 0 {
		return fmt.Errorf("countdown.tick_ms must be >= 0, got %d", d.Countdown.TickMs)
	}
	if d.Countdown.TickMs > 1000 {
		return fmt.Errorf("countdown.tick_ms must be <= 1000, got %d", d.Countdown.TickMs)
	}

	if d.API.BaseURL != "" {
		u, err := url.Parse(d.API.BaseURL)
		if err != nil {
			return fmt.Errorf("api.base_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("api.base_url %q: scheme must be http or https", d.API.BaseURL)
		}
		if u.Host == "" {
			return fmt.Errorf("api.base_url %q: host required", d.API.BaseURL)
		}
	}

	// ------------------------------------------------------------
	// STATUS BLOCK VALIDATION (OPT-IN)
	// ------------------------------------------------------------

	sb := d.StatusBlock
	if sb == nil {
		return nil
	}

	if sb.Endpoint == "" {
		return fmt.Errorf("status_block: endpoint required")
	}
	if sb.TimeoutMs < 0 {
		return fmt.Errorf("status_block.timeout_ms must be >= 0, got %d", sb.TimeoutMs)
	}

	// device_name sanity (ASCII only)
	for i := 0; i < len(sb.DeviceName); i++ {
		if sb.DeviceName[i] > 0x7F {
			return fmt.Errorf("status_block: device_name must contain ASCII characters only")
		}
	}

	// 20 registers per slot must fit in the 16-bit address space.
	if uint32(sb.BaseSlot)*20+20 > 65536 {
		return fmt.Errorf("status_block: base_slot %d out of range", sb.BaseSlot)
	}

	return nil
}
