package otp

import (
	"bytes"
	"strconv"
	"testing"
	"time"
)

func TestGenerator_Generate_SixDigitsInRange(t *testing.T) {
	g := NewGenerator(nil)
	for i := 0; i < 200; i++ {
		code, _, err := g.Generate(PurposeVerification)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code length = %d, want 6", len(code))
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code %q is not numeric: %v", code, err)
		}
		if n < codeMin || n > codeMax {
			t.Fatalf("code %d outside [%d, %d]", n, codeMin, codeMax)
		}
	}
}

func TestGenerator_Generate_ExpiryByPurpose(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(func() time.Time { return now })

	_, exp, err := g.Generate(PurposeVerification)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if want := now.Add(24 * time.Hour); !exp.Equal(want) {
		t.Errorf("verification expiry = %v, want %v", exp, want)
	}

	_, exp, err = g.Generate(PurposeReset)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if want := now.Add(5 * time.Minute); !exp.Equal(want) {
		t.Errorf("reset expiry = %v, want %v", exp, want)
	}
}

func TestGenerator_Generate_UnknownPurpose(t *testing.T) {
	g := NewGenerator(nil)
	if _, _, err := g.Generate(Purpose(42)); err != ErrUnknownPurpose {
		t.Errorf("Generate(42) err = %v, want ErrUnknownPurpose", err)
	}
}

func TestGenerator_Generate_LowerBound(t *testing.T) {
	g := NewGenerator(nil)
	// An all-zero random stream maps to the smallest code.
	g.rand = bytes.NewReader(make([]byte, 64))
	code, _, err := g.Generate(PurposeReset)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if code != "100000" {
		t.Errorf("code = %q, want 100000", code)
	}
}

func TestHash_Consistent(t *testing.T) {
	if Hash("123456") != Hash("123456") {
		t.Error("Hash not consistent")
	}
	if len(Hash("123456")) != 64 {
		t.Errorf("hash length = %d, want 64", len(Hash("123456")))
	}
	if Hash("123456") == Hash("654321") {
		t.Error("Hash produced same digest for different inputs")
	}
}

func TestEqual(t *testing.T) {
	stored := Hash("482913")
	if !Equal("482913", stored) {
		t.Error("Equal should match the issued code")
	}
	if Equal("482914", stored) {
		t.Error("Equal should reject a different code")
	}
	if Equal(" 482913", stored) {
		t.Error("Equal should not normalize whitespace")
	}
	if Equal("", stored) || Equal("", "") {
		t.Error("Equal should never match an empty code")
	}
}

func TestParsePurpose(t *testing.T) {
	tests := []struct {
		in      string
		want    Purpose
		wantErr bool
	}{
		{"verification", PurposeVerification, false},
		{"Reset", PurposeReset, false},
		{"login", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePurpose(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePurpose(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePurpose(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
