package idgen

import (
	"bytes"
	"regexp"
	"testing"
)

var (
	transactionIDPattern = regexp.MustCompile(`^tan-[0-9a-f]{16}$`)
	userIDPattern        = regexp.MustCompile(`^usr-[0-9a-f]{32}$`)
	accountNumberPattern = regexp.MustCompile(`^01\d{6}$`)
)

func TestTransactionIDFormat(t *testing.T) {
	g := Default()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := g.TransactionID()
		if !transactionIDPattern.MatchString(id) {
			t.Fatalf("unexpected transaction id format: %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate transaction id: %q", id)
		}
		seen[id] = true
	}
}

func TestTransactionIDDeterministic(t *testing.T) {
	g := New(bytes.NewReader([]byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01, 0x02, 0x03}))
	if got, want := g.TransactionID(), "tan-deadbeef00010203"; got != want {
		t.Errorf("TransactionID() = %q, want %q", got, want)
	}
}

func TestUserIDFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		if id := Default().UserID(); !userIDPattern.MatchString(id) {
			t.Fatalf("unexpected user id format: %q", id)
		}
	}
}

func TestAccountNumberFormat(t *testing.T) {
	for i := 0; i < 1000; i++ {
		n := Default().AccountNumber()
		if !accountNumberPattern.MatchString(n) {
			t.Fatalf("unexpected account number format: %q", n)
		}
		if len(n) != 8 {
			t.Fatalf("account number %q is not 8 characters", n)
		}
	}
}
