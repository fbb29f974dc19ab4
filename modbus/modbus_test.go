// modbus/modbus_test.go
package modbus

import (
	"errors"
	"testing"

	"github.com/goburrow/modbus"
)

// fakeClient overrides the protocol methods the transport uses; the
// embedded interface panics on anything unexpected.
type fakeClient struct {
	modbus.Client
	payload    []byte
	coilAddr   uint16
	coilValue  uint16
	coilWrites int
}

func (f *fakeClient) ReadHoldingRegisters(address, quantity uint16) ([]byte, error) {
	return f.payload, nil
}

func (f *fakeClient) ReadInputRegisters(address, quantity uint16) ([]byte, error) {
	return f.payload, nil
}

func (f *fakeClient) WriteSingleCoil(address, value uint16) ([]byte, error) {
	f.coilAddr = address
	f.coilValue = value
	f.coilWrites++
	return nil, nil
}

func TestUnpackRegisters(t *testing.T) {
	out, err := unpackRegisters([]byte{0x01, 0x02, 0x03, 0x04}, 2)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if len(out) != 2 || out[0] != 0x0102 || out[1] != 0x0304 {
		t.Fatalf("unpack = %#v, want [0x0102 0x0304]", out)
	}
}

func TestUnpackRegistersShortPayload(t *testing.T) {
	if _, err := unpackRegisters([]byte{0x01}, 1); err == nil {
		t.Fatal("short payload accepted")
	}
}

func TestReadDecodesWords(t *testing.T) {
	f := &fakeClient{payload: []byte{0x70, 0x18}}
	tr := &Transport{client: f}

	for name, read := range map[string]func(uint16, uint16) ([]uint16, error){
		"holding": tr.ReadHoldingRegisters,
		"input":   tr.ReadInputRegisters,
	} {
		out, err := read(559, 1)
		if err != nil {
			t.Fatalf("%s read: %v", name, err)
		}
		if len(out) != 1 || out[0] != 0x7018 {
			t.Fatalf("%s read = %#v, want [0x7018]", name, out)
		}
	}
}

func TestWriteSingleCoilEncoding(t *testing.T) {
	f := &fakeClient{}
	tr := &Transport{client: f}

	if err := tr.WriteSingleCoil(226, true); err != nil {
		t.Fatalf("coil on: %v", err)
	}
	if f.coilAddr != 226 || f.coilValue != 0xFF00 {
		t.Fatalf("coil on wrote addr=%d value=%#04x, want 226 0xff00", f.coilAddr, f.coilValue)
	}

	if err := tr.WriteSingleCoil(226, false); err != nil {
		t.Fatalf("coil off: %v", err)
	}
	if f.coilValue != 0x0000 {
		t.Fatalf("coil off wrote value=%#04x, want 0x0000", f.coilValue)
	}
	if f.coilWrites != 2 {
		t.Fatalf("coil writes = %d, want 2", f.coilWrites)
	}
}

func TestOperationsBeforeOpen(t *testing.T) {
	tr := &Transport{}
	if _, err := tr.ReadHoldingRegisters(0, 1); !errors.Is(err, errNotOpen) {
		t.Fatalf("holding read: %v, want errNotOpen", err)
	}
	if _, err := tr.ReadInputRegisters(0, 1); !errors.Is(err, errNotOpen) {
		t.Fatalf("input read: %v, want errNotOpen", err)
	}
	if err := tr.WriteSingleRegister(0, 0); !errors.Is(err, errNotOpen) {
		t.Fatalf("register write: %v, want errNotOpen", err)
	}
	if err := tr.WriteSingleCoil(0, true); !errors.Is(err, errNotOpen) {
		t.Fatalf("coil write: %v, want errNotOpen", err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("close before open: %v, want nil", err)
	}
}
