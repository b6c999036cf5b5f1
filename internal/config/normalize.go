// internal/config/normalize.go
package config

// Defaults applied by Normalize when a value is left at zero.
const (
	DefaultPollIntervalMs  = 100
	DefaultAPIBaseURL      = "http://localhost:5000/api"
	DefaultAPITimeoutMs    = 1000
	DefaultDeviceDir       = "/home/pi/iot/data"
	DefaultReadTimeoutMs   = 200
	DefaultCountdownTickMs = 1000
	DefaultStatusTimeoutMs = 1000
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	d := &cfg.Dashboard

	if d.Poll.IntervalMs == 0 {
		d.Poll.IntervalMs = DefaultPollIntervalMs
	}
	if d.API.BaseURL == "" {
		d.API.BaseURL = DefaultAPIBaseURL
	}
	if d.API.TimeoutMs == 0 {
		d.API.TimeoutMs = DefaultAPITimeoutMs
	}
	if d.Files.DeviceDir == "" {
		d.Files.DeviceDir = DefaultDeviceDir
	}
	if d.Files.ReadTimeoutMs == 0 {
		d.Files.ReadTimeoutMs = DefaultReadTimeoutMs
	}
	if d.Countdown.TickMs == 0 {
		d.Countdown.TickMs = DefaultCountdownTickMs
	}

	// ------------------------------------------------------------
	// STATUS BLOCK NORMALIZATION (OPT-IN)
	// ------------------------------------------------------------

	if sb := d.StatusBlock; sb != nil {
		if sb.TimeoutMs == 0 {
			sb.TimeoutMs = DefaultStatusTimeoutMs
		}
		// ASCII already validated; truncate to 16 characters.
		if len(sb.DeviceName) > 16 {
			sb.DeviceName = sb.DeviceName[:16]
		}
	}
}
