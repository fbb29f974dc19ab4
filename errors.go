// errors.go
package pet7018z

import (
	"errors"
	"fmt"
)

// Sentinel errors for argument and state validation. Callers match them
// with errors.Is.
var (
	// ErrNotConnected is returned when an operation needs an established
	// session and the device has none.
	ErrNotConnected = errors.New("pet7018z: not connected")

	// ErrInvalidChannel is returned for channel numbers outside 0..9.
	ErrInvalidChannel = errors.New("pet7018z: channel out of range")

	// ErrInvalidRangeCode rejects a type code missing from the vendor
	// table, including the reserved codes 8..13.
	ErrInvalidRangeCode = errors.New("pet7018z: unsupported analog input type code")

	// ErrUnknownRangeCode is returned when the device reports a type code
	// the conversion table does not cover.
	ErrUnknownRangeCode = errors.New("pet7018z: device reported unknown analog input type code")

	// ErrInvalidPowerLineFrequency rejects noise filter settings other
	// than 50 or 60 Hz.
	ErrInvalidPowerLineFrequency = errors.New("pet7018z: power line frequency must be 50 or 60")
)

// ConnectError reports a failed attempt to establish a Modbus TCP session.
type ConnectError struct {
	Endpoint string
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("pet7018z: connect %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// DisconnectError reports a close failure on an established session. The
// session state is left unchanged so recovery can overwrite it with a new
// connection.
type DisconnectError struct {
	Endpoint string
	Err      error
}

func (e *DisconnectError) Error() string {
	return fmt.Sprintf("pet7018z: disconnect %s: %v", e.Endpoint, e.Err)
}

func (e *DisconnectError) Unwrap() error { return e.Err }
