// ranges_test.go
package pet7018z

import "testing"

func TestRangeCodes(t *testing.T) {
	codes := RangeCodes()
	if len(codes) != 21 {
		t.Fatalf("len = %d, want 21", len(codes))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not strictly ascending: %v", codes)
		}
	}
	// the vendor reserves 8..13
	for _, reserved := range []RangeCode{8, 9, 10, 11, 12, 13} {
		if _, ok := RangeByCode(reserved); ok {
			t.Errorf("reserved code %d present in table", reserved)
		}
	}
}

func TestRangeByCode(t *testing.T) {
	cases := []struct {
		code RangeCode
		want AIRange
	}{
		{Range15mV, AIRange{-15e-3, 15e-3, UnitVolt}},
		{Range2V5, AIRange{-2.5, 2.5, UnitVolt}},
		{Range4To20mA, AIRange{4, 20, UnitMilliamp}},
		{Range0To20mA, AIRange{0, 20, UnitMilliamp}},
		{RangeTypeJ, AIRange{-210, 760, UnitCelsius}},
		{RangeTypeB, AIRange{0, 1820, UnitCelsius}},
		{RangeTypeL2, AIRange{-200, 900, UnitCelsius}},
	}
	for _, tc := range cases {
		got, ok := RangeByCode(tc.code)
		if !ok {
			t.Errorf("code %d missing from table", tc.code)
			continue
		}
		if got != tc.want {
			t.Errorf("code %d = %+v, want %+v", tc.code, got, tc.want)
		}
	}
	if _, ok := RangeByCode(27); ok {
		t.Error("code 27 unexpectedly present")
	}
}

func TestUnitString(t *testing.T) {
	cases := []struct {
		unit Unit
		want string
	}{
		{UnitVolt, "V"},
		{UnitMilliamp, "mA"},
		{UnitCelsius, "degC"},
	}
	for _, tc := range cases {
		if got := tc.unit.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", tc.unit, got, tc.want)
		}
	}
}

func TestAIRangeString(t *testing.T) {
	rng, _ := RangeByCode(Range1V)
	if got, want := rng.String(), "-1..1 V"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if got, want := rng.Span(), 2.0; got != want {
		t.Fatalf("Span() = %g, want %g", got, want)
	}
}
