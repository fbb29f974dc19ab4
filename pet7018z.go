// pet7018z.go

// Package pet7018z drives ICP DAS PET-7018Z and ET-7018Z analog input
// modules over Modbus TCP.
//
// The instrument exposes ten analog input channels accepting voltage,
// current and thermocouple signals. The driver maps the vendor's register
// layout onto typed operations: session management, identity probing,
// per-channel type selection and measurement, and the global cold junction
// compensation and power line noise filter switches.
//
// A Device is not safe for concurrent use. Callers that share one device
// across goroutines must serialize access themselves, for example through
// a single dispatch queue as cmd/daq-mqtt does.
package pet7018z

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NumAIChannels is the number of analog input channels on the module.
const NumAIChannels = 10

// Register and coil addresses of the instrument's Modbus map. Per-channel
// entries are laid out contiguously from their base address, one per
// channel.
const (
	RegModelName       uint16 = 559 // holding: module model number
	RegOSVersion       uint16 = 350 // input: OS image version word
	RegFirmwareVersion uint16 = 351 // input: firmware version word
	RegIOVersion       uint16 = 353 // input: I/O firmware version word
	RegAITypeBase      uint16 = 427 // holding: analog input type code, per channel
	RegAISampleBase    uint16 = 0   // input: raw analog input sample, per channel

	CoilReset        uint16 = 226 // write on to clear latched states
	CoilCJC          uint16 = 627 // cold junction compensation enable
	CoilAIEnableBase uint16 = 595 // analog input channel enable, per channel
	CoilNoiseFilter  uint16 = 629 // on selects 50 Hz rejection, off 60 Hz
)

// ConnState is the driver's view of the Modbus TCP session.
type ConnState uint8

const (
	StateDisconnected ConnState = iota
	StateConnected
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	}
	return fmt.Sprintf("ConnState(%d)", uint8(s))
}

// ConnectParams carries everything Connect needs to establish a session.
type ConnectParams struct {
	Host    string
	Port    int
	Timeout time.Duration // per-request deadline; transport default if zero

	// Reset clears latched instrument state right after the session is
	// established.
	Reset bool
}

func (p ConnectParams) endpoint() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// Device is a driver for one PET-7018Z module. The zero value is not
// usable; construct with New.
type Device struct {
	tr       RegisterTransport
	state    ConnState
	endpoint string
}

// New returns a disconnected device that talks through tr.
func New(tr RegisterTransport) *Device {
	return &Device{tr: tr}
}

// State reports whether the device holds an established session. It
// reflects the driver's bookkeeping, not a live probe of the link.
func (d *Device) State() ConnState { return d.state }

// Connect establishes a Modbus TCP session. Any previous session is
// replaced, whether or not it was closed cleanly. A transport failure is
// reported as a *ConnectError and leaves the device disconnected.
func (d *Device) Connect(p ConnectParams) error {
	if err := d.tr.Open(p.Host, p.Port, p.Timeout); err != nil {
		d.state = StateDisconnected
		return &ConnectError{Endpoint: p.endpoint(), Err: err}
	}
	d.state = StateConnected
	d.endpoint = p.endpoint()
	if p.Reset {
		if err := d.Reset(); err != nil {
			return err
		}
	}
	return nil
}

// Disconnect closes the session. On an already disconnected device it is a
// no-op. A close failure is reported as a *DisconnectError and leaves the
// session marked connected, so recovery can decide to overwrite it.
func (d *Device) Disconnect() error {
	if d.state == StateDisconnected {
		return nil
	}
	if err := d.tr.Close(); err != nil {
		return &DisconnectError{Endpoint: d.endpoint, Err: err}
	}
	d.state = StateDisconnected
	return nil
}

// Reset writes the reset coil, clearing latched instrument state.
func (d *Device) Reset() error {
	if err := d.requireConnected(); err != nil {
		return err
	}
	if err := d.tr.WriteSingleCoil(CoilReset, true); err != nil {
		return fmt.Errorf("pet7018z: reset: %w", err)
	}
	return nil
}

// Identify reads the module's identity registers and renders them as
//
//	"ICP DAS, <model>, <os>, <firmware>, <io>"
//
// with the model in lowercase hex and each version word as its hex digits
// joined by dots (0x0102 renders as "1.0.2"). It doubles as the liveness
// probe for connection recovery.
func (d *Device) Identify() (string, error) {
	if err := d.requireConnected(); err != nil {
		return "", err
	}
	model, err := d.readHolding(RegModelName)
	if err != nil {
		return "", fmt.Errorf("pet7018z: read model: %w", err)
	}
	osVer, err := d.readInput(RegOSVersion)
	if err != nil {
		return "", fmt.Errorf("pet7018z: read OS version: %w", err)
	}
	fwVer, err := d.readInput(RegFirmwareVersion)
	if err != nil {
		return "", fmt.Errorf("pet7018z: read firmware version: %w", err)
	}
	ioVer, err := d.readInput(RegIOVersion)
	if err != nil {
		return "", fmt.Errorf("pet7018z: read I/O version: %w", err)
	}
	return fmt.Sprintf("ICP DAS, %s, %s, %s, %s",
		strconv.FormatUint(uint64(model), 16),
		dotHex(osVer), dotHex(fwVer), dotHex(ioVer)), nil
}

// dotHex renders each hex digit of v as a dot-separated component, the
// form the vendor uses for version words: 0x0123 becomes "1.2.3".
func dotHex(v uint16) string {
	digits := strconv.FormatUint(uint64(v), 16)
	return strings.Join(strings.Split(digits, ""), ".")
}

// SetAIRange writes the analog input type code for one channel. The code
// must be present in the vendor table; reserved codes are rejected before
// any register write.
func (d *Device) SetAIRange(channel int, code RangeCode) error {
	if err := d.requireConnected(); err != nil {
		return err
	}
	if err := checkChannel(channel); err != nil {
		return err
	}
	if _, ok := aiRanges[code]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidRangeCode, code)
	}
	if err := d.tr.WriteSingleRegister(RegAITypeBase+uint16(channel), uint16(code)); err != nil {
		return fmt.Errorf("pet7018z: set type code on channel %d: %w", channel, err)
	}
	return nil
}

// AIRange reads back the analog input type code configured on one channel.
func (d *Device) AIRange(channel int) (RangeCode, error) {
	if err := d.requireConnected(); err != nil {
		return 0, err
	}
	if err := checkChannel(channel); err != nil {
		return 0, err
	}
	v, err := d.readHolding(RegAITypeBase + uint16(channel))
	if err != nil {
		return 0, fmt.Errorf("pet7018z: read type code on channel %d: %w", channel, err)
	}
	return RangeCode(v), nil
}

// EnableAI switches one analog input channel on or off.
func (d *Device) EnableAI(channel int, enable bool) error {
	if err := d.requireConnected(); err != nil {
		return err
	}
	if err := checkChannel(channel); err != nil {
		return err
	}
	if err := d.tr.WriteSingleCoil(CoilAIEnableBase+uint16(channel), enable); err != nil {
		return fmt.Errorf("pet7018z: enable channel %d: %w", channel, err)
	}
	return nil
}

// EnableCJC switches cold junction compensation for the whole module.
func (d *Device) EnableCJC(enable bool) error {
	if err := d.requireConnected(); err != nil {
		return err
	}
	if err := d.tr.WriteSingleCoil(CoilCJC, enable); err != nil {
		return fmt.Errorf("pet7018z: enable CJC: %w", err)
	}
	return nil
}

// SetNoiseFilter selects the power line rejection frequency. Only 50 and
// 60 Hz exist on the instrument.
func (d *Device) SetNoiseFilter(hz int) error {
	if err := d.requireConnected(); err != nil {
		return err
	}
	switch hz {
	case 50, 60:
	default:
		return fmt.Errorf("%w: got %d", ErrInvalidPowerLineFrequency, hz)
	}
	if err := d.tr.WriteSingleCoil(CoilNoiseFilter, hz == 50); err != nil {
		return fmt.Errorf("pet7018z: set noise filter: %w", err)
	}
	return nil
}

// Measure reads one raw sample from a channel and converts it to
// engineering units for the channel's currently configured type code. The
// code is read back live so a configuration change between calls is always
// honored.
func (d *Device) Measure(channel int) (float64, error) {
	if err := d.requireConnected(); err != nil {
		return 0, err
	}
	if err := checkChannel(channel); err != nil {
		return 0, err
	}
	raw, err := d.readInput(RegAISampleBase + uint16(channel))
	if err != nil {
		return 0, fmt.Errorf("pet7018z: read sample on channel %d: %w", channel, err)
	}
	code, err := d.AIRange(channel)
	if err != nil {
		return 0, err
	}
	rng, ok := aiRanges[code]
	if !ok {
		return 0, fmt.Errorf("%w: %d on channel %d", ErrUnknownRangeCode, code, channel)
	}
	return engValue(rebias(raw), rng), nil
}

// rebias maps a raw sample onto the unsigned full scale the vendor's
// conversion formula expects. The instrument reports samples in two's
// complement regardless of its data format setting, so the word is first
// reinterpreted as signed and then shifted up by half the scale.
func rebias(raw uint16) uint16 {
	v := int32(raw)
	if raw&0x8000 != 0 {
		v -= 1 << 16
	}
	return uint16(v + 32768)
}

// engValue linearly maps a full-scale sample onto an engineering range:
// 0 lands on Min, 65535 on Max.
func engValue(value uint16, rng AIRange) float64 {
	return float64(value)*rng.Span()/65535 + rng.Min
}

func checkChannel(channel int) error {
	if channel < 0 || channel >= NumAIChannels {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, channel)
	}
	return nil
}

func (d *Device) requireConnected() error {
	if d.state != StateConnected {
		return ErrNotConnected
	}
	return nil
}

// readHolding reads a single holding register.
func (d *Device) readHolding(address uint16) (uint16, error) {
	regs, err := d.tr.ReadHoldingRegisters(address, 1)
	if err != nil {
		return 0, err
	}
	if len(regs) != 1 {
		return 0, fmt.Errorf("short register response: got %d words, want 1", len(regs))
	}
	return regs[0], nil
}

// readInput reads a single input register.
func (d *Device) readInput(address uint16) (uint16, error) {
	regs, err := d.tr.ReadInputRegisters(address, 1)
	if err != nil {
		return 0, err
	}
	if len(regs) != 1 {
		return 0, fmt.Errorf("short register response: got %d words, want 1", len(regs))
	}
	return regs[0], nil
}
