package outcome

import (
	"crypto/hmac"
	cryptoRand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
)

// RandomSource abstract
type RandomSource interface {
	Float64() float64 // [0, 1)
}

// crypto random : default generation method
type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		// back to math/rand/v2
		return rand.Float64()
	}

	u := binary.BigEndian.Uint64(buf[:]) >> 11 // 53 bits
	return float64(u) / (1 << 53)
}

func DefaultRNG() RandomSource { return cryptoRNG{} }

// Replicable RNG (Monte Carlo, tests, restart layouts)
type seededRNG struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// Func adapts a plain function, e.g. a fixed sequence in tests.
type Func func() float64

func (f Func) Float64() float64 { return f() }

// Sequence replays vals in order and then repeats the last one.
func Sequence(vals ...float64) RandomSource {
	i := 0
	return Func(func() float64 {
		if len(vals) == 0 {
			return 0
		}
		v := vals[min(i, len(vals)-1)]
		i++
		return v
	})
}

// FairRNG derives draws from HMAC-SHA256(serverSeed, "client:nonce:round").
// Every float consumes 4 bytes; a round yields 8 floats.
type FairRNG struct {
	serverSeed string
	clientSeed string
	nonce      uint64

	mu    sync.Mutex
	round uint64
	pos   int
	buf   [32]byte
}

// NewFairRNG creates a verifiable source for one (server, client, nonce) triple.
func NewFairRNG(serverSeed, clientSeed string, nonce uint64) *FairRNG {
	f := &FairRNG{serverSeed: serverSeed, clientSeed: clientSeed, nonce: nonce}
	f.fill()
	return f
}

func (f *FairRNG) fill() {
	h := hmac.New(sha256.New, []byte(f.serverSeed))
	fmt.Fprintf(h, "%s:%d:%d", f.clientSeed, f.nonce, f.round)
	copy(f.buf[:], h.Sum(nil))
	f.pos = 0
}

func (f *FairRNG) Float64() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pos+4 > len(f.buf) {
		f.round++
		f.fill()
	}
	var v float64
	for i := 0; i < 4; i++ {
		v += float64(f.buf[f.pos+i]) / math.Pow(256, float64(i+1))
	}
	f.pos += 4
	return v
}

// FairFloats replays the first n draws for audit.
func FairFloats(serverSeed, clientSeed string, nonce uint64, n int) []float64 {
	f := NewFairRNG(serverSeed, clientSeed, nonce)
	out := make([]float64, n)
	for i := range out {
		out[i] = f.Float64()
	}
	return out
}
