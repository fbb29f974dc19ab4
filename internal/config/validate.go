// internal/config/validate.go
package config

import (
	"errors"
	"fmt"

	pet7018z "github.com/pvtools/pet7018z-go"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil configuration")
	}
	if cfg.MQTT.Broker == "" {
		return errors.New("mqtt: broker is required")
	}
	if cfg.MQTT.QoS != nil && (*cfg.MQTT.QoS < 0 || *cfg.MQTT.QoS > 2) {
		return fmt.Errorf("mqtt: qos must be 0, 1 or 2, got %d", *cfg.MQTT.QoS)
	}
	if cfg.MQTT.ConnectTimeoutMs < 0 {
		return fmt.Errorf("mqtt: connect_timeout_ms must not be negative, got %d", cfg.MQTT.ConnectTimeoutMs)
	}
	if cfg.MQTT.KeepAliveS < 0 {
		return fmt.Errorf("mqtt: keep_alive_s must not be negative, got %d", cfg.MQTT.KeepAliveS)
	}
	return nil
}

// ValidateRun checks a bus-delivered run configuration. Only message
// geometry is checked here; type-code validity stays with the driver,
// which rejects unsupported codes before touching the instrument.
func ValidateRun(r *Run) error {
	if r == nil {
		return errors.New("nil run configuration")
	}
	if r.DAQ.Host == "" {
		return errors.New("daq: host is required")
	}
	if r.DAQ.Port <= 0 || r.DAQ.Port > 65535 {
		return fmt.Errorf("daq: port %d out of range", r.DAQ.Port)
	}
	if r.DAQ.TimeoutS < 0 {
		return fmt.Errorf("daq: timeout must not be negative, got %g", r.DAQ.TimeoutS)
	}
	if r.DAQ.DelayS < 0 {
		return fmt.Errorf("daq: delay must not be negative, got %g", r.DAQ.DelayS)
	}
	if len(r.DAQ.Channels) == 0 {
		return errors.New("daq: no channels configured")
	}
	for ch := range r.DAQ.Channels {
		if ch < 0 || ch >= pet7018z.NumAIChannels {
			return fmt.Errorf("daq: channel %d out of range", ch)
		}
	}
	return nil
}
