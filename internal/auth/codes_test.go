package auth

import "testing"

func TestNewCode(t *testing.T) {
	code, hash, err := NewCode()
	if err != nil {
		t.Fatalf("NewCode: %v", err)
	}

	if len(code) != CodeLength {
		t.Errorf("expected %d digits, got %d", CodeLength, len(code))
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			t.Errorf("expected numeric code, got %q", code)
			break
		}
	}

	if hash == code {
		t.Error("hash must not equal the plain code")
	}
	if !CheckCode(hash, code) {
		t.Error("expected code to match its own hash")
	}
}

func TestCheckCodeMismatch(t *testing.T) {
	_, hash, err := NewCode()
	if err != nil {
		t.Fatalf("NewCode: %v", err)
	}

	if CheckCode(hash, "000000") && CheckCode(hash, "999999") {
		t.Error("expected at least one wrong code to be rejected")
	}
	if CheckCode(hash, "") {
		t.Error("expected empty code to be rejected")
	}
}
