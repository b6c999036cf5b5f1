// internal/writer/builder.go
package writer

import (
	"errors"
	"time"

	cfg "github.com/tamzrod/dashboard-sync/internal/config"
	wmodbus "github.com/tamzrod/dashboard-sync/internal/writer/modbus"
)

// BuildPlan converts the status block config into a StatusPlan.
// Assumes config has already been validated and normalized.
func BuildPlan(sb *cfg.StatusBlockConfig) (StatusPlan, error) {
	if sb == nil {
		return StatusPlan{}, errors.New("writer: status_block not configured")
	}
	if sb.Endpoint == "" {
		return StatusPlan{}, errors.New("writer: status_block.endpoint required")
	}

	return StatusPlan{
		Endpoint:   sb.Endpoint,
		UnitID:     sb.UnitID,
		BaseSlot:   sb.BaseSlot,
		DeviceName: sb.DeviceName,
	}, nil
}

// Build creates the endpoint client and a status writer over it.
// The returned closer releases the connection.
func Build(sb *cfg.StatusBlockConfig) (StatusWriter, func() error, error) {
	plan, err := BuildPlan(sb)
	if err != nil {
		return nil, nil, err
	}

	c, err := wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: plan.Endpoint,
		Timeout:  time.Duration(sb.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	return NewDeviceStatusWriter(plan, c), c.Close, nil
}
