// internal/config/run.go
package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	pet7018z "github.com/pvtools/pet7018z-go"
)

// Run is the per-run measurement configuration the server distributes over
// the bus. It arrives as JSON nested under a "config" key.
type Run struct {
	DAQ RunDAQ `json:"daq"`
}

// RunDAQ selects the instrument and the channels to sample.
type RunDAQ struct {
	Host     string  `json:"host"`
	Port     int     `json:"port"`
	TimeoutS float64 `json:"timeout"` // seconds
	PLF      int     `json:"plf"`     // power line frequency, 50 or 60
	DelayS   float64 `json:"delay"`   // seconds between continuous sweeps

	// Channels maps channel numbers to analog input type codes.
	Channels map[int]pet7018z.RangeCode `json:"channels"`
}

// DecodeRun parses and validates a run configuration payload.
func DecodeRun(payload []byte) (*Run, error) {
	var env struct {
		Config Run `json:"config"`
	}
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode run configuration: %w", err)
	}
	if err := ValidateRun(&env.Config); err != nil {
		return nil, err
	}
	return &env.Config, nil
}

// Timeout returns the Modbus connect timeout, defaulting to 30 s when the
// server omits it.
func (d RunDAQ) Timeout() time.Duration {
	if d.TimeoutS <= 0 {
		return 30 * time.Second
	}
	return time.Duration(d.TimeoutS * float64(time.Second))
}

// Delay returns the pause between continuous sweeps.
func (d RunDAQ) Delay() time.Duration {
	if d.DelayS <= 0 {
		return 0
	}
	return time.Duration(d.DelayS * float64(time.Second))
}

// SortedChannels returns the configured channel numbers in ascending
// order, fixing the sweep column order.
func (d RunDAQ) SortedChannels() []int {
	chs := make([]int, 0, len(d.Channels))
	for ch := range d.Channels {
		chs = append(chs, ch)
	}
	sort.Ints(chs)
	return chs
}
