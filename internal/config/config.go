// internal/config/config.go
package config

// Defaults applied by Normalize.
const (
	DefaultQoS              = 2
	DefaultClientIDPrefix   = "daq"
	DefaultConnectTimeoutMs = 10000
	DefaultKeepAliveS       = 30
)

type Config struct {
	MQTT MQTTConfig `yaml:"mqtt"`
	DAQ  DAQConfig  `yaml:"daq"`
	Log  LogConfig  `yaml:"log"`
}

// ---- MQTT ----

type MQTTConfig struct {
	Broker           string `yaml:"broker"`
	QoS              *int   `yaml:"qos"` // opt-in; Normalize fills the default
	ClientIDPrefix   string `yaml:"client_id_prefix"`
	ConnectTimeoutMs int    `yaml:"connect_timeout_ms"`
	KeepAliveS       int    `yaml:"keep_alive_s"`
}

// ---- DAQ ----

type DAQConfig struct {
	NetID uint8 `yaml:"net_id"` // Modbus unit id; 0 selects the factory default
}

// ---- LOG ----

type LogConfig struct {
	Debug bool `yaml:"debug"` // wire-level Modbus tracing
}
