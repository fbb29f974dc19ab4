// internal/config/normalize.go
package config

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.MQTT.QoS == nil {
		qos := DefaultQoS
		cfg.MQTT.QoS = &qos
	}
	if cfg.MQTT.ClientIDPrefix == "" {
		cfg.MQTT.ClientIDPrefix = DefaultClientIDPrefix
	}
	if cfg.MQTT.ConnectTimeoutMs == 0 {
		cfg.MQTT.ConnectTimeoutMs = DefaultConnectTimeoutMs
	}
	if cfg.MQTT.KeepAliveS == 0 {
		cfg.MQTT.KeepAliveS = DefaultKeepAliveS
	}
}
