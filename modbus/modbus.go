// modbus/modbus.go

// Package modbus provides the Modbus TCP transport for pet7018z devices,
// backed by github.com/goburrow/modbus.
package modbus

import (
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/goburrow/modbus"
)

var errNotOpen = errors.New("modbus: no open session")

// Transport is a register-level client over one Modbus TCP connection.
// Open builds a fresh handler each call and abandons any previous session,
// so a connection whose Close already failed can still be replaced.
//
// The zero value is ready to use; fields are read at Open time.
type Transport struct {
	// SlaveID is the Modbus unit identifier. Zero selects the
	// instrument's factory NetID of 1.
	SlaveID byte

	// Logger enables wire-level tracing on the underlying handler.
	Logger *log.Logger

	handler *modbus.TCPClientHandler
	client  modbus.Client
}

// Open dials the instrument and replaces the current session, if any.
func (t *Transport) Open(host string, port int, timeout time.Duration) error {
	h := modbus.NewTCPClientHandler(net.JoinHostPort(host, strconv.Itoa(port)))
	if timeout > 0 {
		h.Timeout = timeout
	}
	h.SlaveId = t.SlaveID
	if h.SlaveId == 0 {
		h.SlaveId = 1
	}
	h.Logger = t.Logger

	if err := h.Connect(); err != nil {
		return err
	}
	t.handler = h
	t.client = modbus.NewClient(h)
	return nil
}

// Close closes the current session. Closing a transport that was never
// opened is a no-op.
func (t *Transport) Close() error {
	if t.handler == nil {
		return nil
	}
	return t.handler.Close()
}

// ---- register operations ----

func (t *Transport) ReadHoldingRegisters(address, quantity uint16) ([]uint16, error) {
	if t.client == nil {
		return nil, errNotOpen
	}
	raw, err := t.client.ReadHoldingRegisters(address, quantity)
	if err != nil {
		return nil, err
	}
	return unpackRegisters(raw, quantity)
}

func (t *Transport) ReadInputRegisters(address, quantity uint16) ([]uint16, error) {
	if t.client == nil {
		return nil, errNotOpen
	}
	raw, err := t.client.ReadInputRegisters(address, quantity)
	if err != nil {
		return nil, err
	}
	return unpackRegisters(raw, quantity)
}

func (t *Transport) WriteSingleRegister(address, value uint16) error {
	if t.client == nil {
		return errNotOpen
	}
	_, err := t.client.WriteSingleRegister(address, value)
	return err
}

// WriteSingleCoil writes one coil using the protocol's on/off encoding
// (0xFF00 switches the coil on, 0x0000 off).
func (t *Transport) WriteSingleCoil(address uint16, on bool) error {
	if t.client == nil {
		return errNotOpen
	}
	value := uint16(0x0000)
	if on {
		value = 0xFF00
	}
	_, err := t.client.WriteSingleCoil(address, value)
	return err
}

// ---- helpers (pure geometry) ----

func unpackRegisters(data []byte, quantity uint16) ([]uint16, error) {
	if len(data) != int(quantity)*2 {
		return nil, fmt.Errorf("modbus: register payload is %d bytes, want %d", len(data), int(quantity)*2)
	}
	out := make([]uint16, quantity)
	for i := range out {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out, nil
}
