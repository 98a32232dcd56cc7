package appliance

import (
	"fmt"
	"io/ioutil"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robotalks/ident.go/pkg/counter"
	"github.com/robotalks/ident.go/pkg/pulse"
)

// Config is the daemon configuration.
type Config struct {
	// EEPROMImage is the chip image path; empty runs volatile.
	EEPROMImage string `yaml:"eeprom_image"`
	// AddrPin reflects the chip-select pin strap.
	AddrPin bool `yaml:"addr_pin"`

	CounterSlots    int `yaml:"counter_slots"`
	FlushIntervalMs int `yaml:"flush_interval_ms"`
	DebounceMs      int `yaml:"debounce_ms"`
	MinPulseMs      int `yaml:"min_pulse_ms"`

	// LockFile asserts write protection while present.
	LockFile string `yaml:"lock_file"`

	Serial    SerialConfig `yaml:"serial"`
	ListenTCP string       `yaml:"listen_tcp"`
	ListenWS  string       `yaml:"listen_ws"`
	MQTT      MQTTConfig   `yaml:"mqtt"`

	// PulsePipe feeds transitions from a FIFO or character device.
	PulsePipe string `yaml:"pulse_pipe"`
}

// SerialConfig selects the console serial port.
type SerialConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// MQTTConfig selects the broker for telemetry and the edge feed.
type MQTTConfig struct {
	Broker    string `yaml:"broker"`
	EdgeTopic string `yaml:"edge_topic"`
}

// NewConfig creates a Config with defaults.
func NewConfig() *Config {
	return &Config{
		EEPROMImage:     "eeprom.img",
		CounterSlots:    counter.DefaultSlots,
		FlushIntervalMs: 100,
		DebounceMs:      int(pulse.DefaultDebounceWindow / time.Millisecond),
		MinPulseMs:      int(pulse.DefaultMinPulseWidth / time.Millisecond),
		Serial:          SerialConfig{Baud: 115200},
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize fills zero fields with defaults.
func (c *Config) Normalize() {
	if c.CounterSlots <= 0 {
		c.CounterSlots = counter.DefaultSlots
	}
	if c.FlushIntervalMs <= 0 {
		c.FlushIntervalMs = 100
	}
	if c.DebounceMs <= 0 {
		c.DebounceMs = int(pulse.DefaultDebounceWindow / time.Millisecond)
	}
	if c.MinPulseMs <= 0 {
		c.MinPulseMs = int(pulse.DefaultMinPulseWidth / time.Millisecond)
	}
	if c.Serial.Device != "" && c.Serial.Baud <= 0 {
		c.Serial.Baud = 115200
	}
}

// Validate rejects configurations the qualifier or counter cannot
// honor.
func (c *Config) Validate() error {
	if c.MinPulseMs < 2*c.DebounceMs {
		return fmt.Errorf("min_pulse_ms %d below twice debounce_ms %d", c.MinPulseMs, c.DebounceMs)
	}
	if c.MQTT.EdgeTopic != "" && c.MQTT.Broker == "" {
		return fmt.Errorf("edge_topic set without broker")
	}
	return nil
}

// Debounce returns the debounce window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// MinPulse returns the minimum pulse width.
func (c *Config) MinPulse() time.Duration {
	return time.Duration(c.MinPulseMs) * time.Millisecond
}

// FlushInterval returns the control-loop interval.
func (c *Config) FlushInterval() time.Duration {
	return time.Duration(c.FlushIntervalMs) * time.Millisecond
}
