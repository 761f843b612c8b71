package validate

import "testing"

func TestNationalIDLenient(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{"1710034065", true},
		{"0000000000", true},
		{"171003406", false},
		{"17100340655", false},
		{"17100340a5", false},
		{"", false},
	}
	for _, tc := range cases {
		v := Violations{}
		NationalID("national_id", tc.value, v)
		if tc.ok != v.Empty() {
			t.Errorf("NationalID(%q): violations=%v, want ok=%v", tc.value, v, tc.ok)
		}
	}
}

func TestNationalIDStrictChecksum(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{"1710034065", true},
		{"0926687856", true},
		{"1710034064", false},
		{"0926687857", false},
		{"171003406", false},
	}
	for _, tc := range cases {
		v := Violations{}
		NationalIDStrict("national_id", tc.value, v)
		if tc.ok != v.Empty() {
			t.Errorf("NationalIDStrict(%q): violations=%v, want ok=%v", tc.value, v, tc.ok)
		}
	}
}

func TestEmailOptionalButValidated(t *testing.T) {
	v := Violations{}
	Email("email", "", v)
	if !v.Empty() {
		t.Fatalf("empty email should be accepted, got %v", v)
	}

	for _, bad := range []string{"plainaddress", "@nodomain.com", "user@", "user@nodot"} {
		v := Violations{}
		Email("email", bad, v)
		if v.Empty() {
			t.Errorf("Email(%q): expected violation", bad)
		}
	}

	v = Violations{}
	Email("email", "mcevallos@example.com", v)
	if !v.Empty() {
		t.Fatalf("valid email rejected: %v", v)
	}
}

func TestPhoneOptionalButValidated(t *testing.T) {
	v := Violations{}
	Phone("phone", "", v)
	if !v.Empty() {
		t.Fatalf("empty phone should be accepted, got %v", v)
	}

	v = Violations{}
	Phone("phone", "099123456", v)
	if v.Empty() {
		t.Fatal("expected nine-digit phone to be rejected")
	}

	v = Violations{}
	Phone("phone", "0991234567", v)
	if !v.Empty() {
		t.Fatalf("valid phone rejected: %v", v)
	}
}

func TestPercentBounds(t *testing.T) {
	for _, bad := range []float64{0, -5, 100.01} {
		v := Violations{}
		Percent("discount", bad, v)
		if v.Empty() {
			t.Errorf("Percent(%v): expected violation", bad)
		}
	}

	v := Violations{}
	Percent("discount", 100, v)
	if !v.Empty() {
		t.Fatalf("100 percent should be accepted, got %v", v)
	}
}

func TestPositiveCentsAndNonNegative(t *testing.T) {
	v := Violations{}
	PositiveCents("price_cents", 0, v)
	NonNegative("stock_quantity", -1, v)
	if len(v) != 2 {
		t.Fatalf("expected two violations, got %v", v)
	}

	v = Violations{}
	PositiveCents("price_cents", 1, v)
	NonNegative("stock_quantity", 0, v)
	if !v.Empty() {
		t.Fatalf("expected no violations, got %v", v)
	}
}
