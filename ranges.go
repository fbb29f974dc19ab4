// ranges.go
package pet7018z

import (
	"fmt"
	"sort"
)

// RangeCode selects the input span and sensor type of one analog input
// channel. The values are the vendor's type codes and are written verbatim
// to the per-channel range registers.
type RangeCode uint16

// Analog input type codes. Codes 8 through 13 are reserved by the vendor
// and are rejected before any register write.
const (
	Range15mV    RangeCode = 0  // -15 mV .. +15 mV
	Range50mV    RangeCode = 1  // -50 mV .. +50 mV
	Range100mV   RangeCode = 2  // -100 mV .. +100 mV
	Range500mV   RangeCode = 3  // -500 mV .. +500 mV
	Range1V      RangeCode = 4  // -1 V .. +1 V
	Range2V5     RangeCode = 5  // -2.5 V .. +2.5 V
	Range20mA    RangeCode = 6  // -20 mA .. +20 mA
	Range4To20mA RangeCode = 7  // 4 mA .. 20 mA
	RangeTypeJ   RangeCode = 14 // thermocouple type J
	RangeTypeK   RangeCode = 15 // thermocouple type K
	RangeTypeT   RangeCode = 16 // thermocouple type T
	RangeTypeE   RangeCode = 17 // thermocouple type E
	RangeTypeR   RangeCode = 18 // thermocouple type R
	RangeTypeS   RangeCode = 19 // thermocouple type S
	RangeTypeB   RangeCode = 20 // thermocouple type B
	RangeTypeN   RangeCode = 21 // thermocouple type N
	RangeTypeC   RangeCode = 22 // thermocouple type C
	RangeTypeL   RangeCode = 23 // thermocouple type L
	RangeTypeM   RangeCode = 24 // thermocouple type M
	RangeTypeL2  RangeCode = 25 // thermocouple type L, DIN 43710
	Range0To20mA RangeCode = 26 // 0 mA .. 20 mA
)

// Unit is the engineering unit of a converted sample.
type Unit uint8

const (
	UnitVolt Unit = iota
	UnitMilliamp
	UnitCelsius
)

func (u Unit) String() string {
	switch u {
	case UnitVolt:
		return "V"
	case UnitMilliamp:
		return "mA"
	case UnitCelsius:
		return "degC"
	}
	return fmt.Sprintf("Unit(%d)", uint8(u))
}

// AIRange describes the engineering span a range code maps raw samples onto.
type AIRange struct {
	Min  float64
	Max  float64
	Unit Unit
}

// Span returns the width of the range in engineering units.
func (r AIRange) Span() float64 { return r.Max - r.Min }

func (r AIRange) String() string {
	return fmt.Sprintf("%g..%g %s", r.Min, r.Max, r.Unit)
}

// aiRanges is the vendor's type-code table. Thermocouple spans are the
// measurable sensor limits, not the linear output of the ADC.
var aiRanges = map[RangeCode]AIRange{
	Range15mV:    {-15e-3, 15e-3, UnitVolt},
	Range50mV:    {-50e-3, 50e-3, UnitVolt},
	Range100mV:   {-100e-3, 100e-3, UnitVolt},
	Range500mV:   {-500e-3, 500e-3, UnitVolt},
	Range1V:      {-1, 1, UnitVolt},
	Range2V5:     {-2.5, 2.5, UnitVolt},
	Range20mA:    {-20, 20, UnitMilliamp},
	Range4To20mA: {4, 20, UnitMilliamp},
	RangeTypeJ:   {-210, 760, UnitCelsius},
	RangeTypeK:   {-270, 1372, UnitCelsius},
	RangeTypeT:   {-270, 400, UnitCelsius},
	RangeTypeE:   {-270, 1000, UnitCelsius},
	RangeTypeR:   {0, 1768, UnitCelsius},
	RangeTypeS:   {0, 1768, UnitCelsius},
	RangeTypeB:   {0, 1820, UnitCelsius},
	RangeTypeN:   {-270, 1300, UnitCelsius},
	RangeTypeC:   {0, 2320, UnitCelsius},
	RangeTypeL:   {-200, 800, UnitCelsius},
	RangeTypeM:   {-200, 100, UnitCelsius},
	RangeTypeL2:  {-200, 900, UnitCelsius},
	Range0To20mA: {0, 20, UnitMilliamp},
}

// RangeByCode returns the engineering span for a type code.
func RangeByCode(code RangeCode) (AIRange, bool) {
	r, ok := aiRanges[code]
	return r, ok
}

// RangeCodes returns every supported type code in ascending order.
func RangeCodes() []RangeCode {
	codes := make([]RangeCode, 0, len(aiRanges))
	for code := range aiRanges {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
