// Package idgen generates the public identifiers used across the API:
// transaction ids, user ids and account numbers. The entropy source is
// injectable so tests can produce deterministic ids; the package-level
// default reads from crypto/rand.
package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"sync"
)

// Generator produces identifiers from an entropy source.
type Generator struct {
	mu sync.Mutex
	r  io.Reader
}

// New returns a Generator reading entropy from r.
func New(r io.Reader) *Generator {
	return &Generator{r: r}
}

var defaultGenerator = New(rand.Reader)

// Default returns the process-wide generator backed by crypto/rand.
func Default() *Generator {
	return defaultGenerator
}

func (g *Generator) read(n int) []byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	buf := make([]byte, n)
	if _, err := io.ReadFull(g.r, buf); err != nil {
		// crypto/rand never fails on supported platforms; an injected
		// source that runs dry is a programming error in the caller.
		panic(fmt.Sprintf("idgen: entropy source failed: %v", err))
	}
	return buf
}

// TransactionID returns "tan-" followed by 16 lowercase hex characters
// (8 random bytes). Uniqueness beyond the 2^64 space is enforced only by the
// primary-key constraint on the transaction table.
func (g *Generator) TransactionID() string {
	return "tan-" + hex.EncodeToString(g.read(8))
}

// UserID returns "usr-" followed by 32 lowercase hex characters.
func (g *Generator) UserID() string {
	return "usr-" + hex.EncodeToString(g.read(16))
}

// AccountNumber returns an 8-character account number: the literal "01"
// prefix followed by 6 digits, never with a leading zero in the digit block.
func (g *Generator) AccountNumber() string {
	n := new(big.Int).SetBytes(g.read(4))
	n.Mod(n, big.NewInt(900000))
	return fmt.Sprintf("01%06d", n.Int64()+100000)
}
