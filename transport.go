// transport.go
package pet7018z

import "time"

// RegisterTransport is the register-level contract the driver needs from a
// Modbus connection. The production implementation lives in the modbus
// package; tests substitute an in-memory fake.
//
// Open replaces any previous session unconditionally. This is what lets
// connection recovery discard a session whose Close already failed.
type RegisterTransport interface {
	Open(host string, port int, timeout time.Duration) error
	Close() error

	// ReadHoldingRegisters and ReadInputRegisters return quantity decoded
	// 16-bit words starting at address.
	ReadHoldingRegisters(address, quantity uint16) ([]uint16, error)
	ReadInputRegisters(address, quantity uint16) ([]uint16, error)

	WriteSingleRegister(address, value uint16) error
	WriteSingleCoil(address uint16, on bool) error
}
