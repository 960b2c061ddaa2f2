// Package vrf builds the protocol's deterministic VRF seeds and models
// the oracle collaborator's two-phase request/fulfill contract.
package vrf

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

const (
	RequestTypeSpawn uint8 = 0
	RequestTypeThrow uint8 = 1

	domainTag = "pkblgame"
	SeedLen   = 32
	RandomnessLen = 64
)

// BuildSeed constructs the deterministic 32-byte VRF seed:
// seed[0..8] = counter_le, seed[8] = request_type, seed[9..24] = 0,
// seed[24..32] = domain tag. Collisions are impossible because counter
// strictly increases across the lifetime of the game config.
func BuildSeed(counter uint64, requestType uint8) [SeedLen]byte {
	var seed [SeedLen]byte
	binary.LittleEndian.PutUint64(seed[0:8], counter)
	seed[8] = requestType
	copy(seed[24:32], domainTag)
	return seed
}

func SeedHex(seed [SeedLen]byte) string {
	return hex.EncodeToString(seed[:])
}

// PendingRequest is the oracle's own bookkeeping entry for a seed it has
// been asked to fulfill. The protocol's VrfRequest record is the
// authoritative one; PendingRequest exists purely on the oracle side of
// that boundary and carries a UUID request id the way a hosted oracle's
// own request log would, for correlation in its audit trail. The table
// holding these entries is keyed by seed hex, not by the UUID.
type PendingRequest struct {
	RequestID uuid.UUID
	SeedHex   string
}

// NewPendingRequest stamps a fresh oracle-side bookkeeping entry for a
// seed the core just requested randomness for.
func NewPendingRequest(seed [SeedLen]byte) PendingRequest {
	return PendingRequest{
		RequestID: uuid.New(),
		SeedHex:   SeedHex(seed),
	}
}

// DeriveRandomnessAccount re-derives the address the oracle would use for
// a given seed, the same way a program-derived-address would be
// recomputed to validate an account passed into an instruction. In this
// localnet model the "address" is just the domain-separated hash of the
// seed; what matters is that it is a pure function of the seed alone, so
// two different requests never collide and a caller cannot substitute a
// different request's randomness account.
func DeriveRandomnessAccount(seed [SeedLen]byte) string {
	h := sha256.New()
	h.Write([]byte("pokeballgame|vrf_randomness_account|"))
	h.Write(seed[:])
	return hex.EncodeToString(h.Sum(nil))
}

// ExtractU32 reads a little-endian uint32 from a fixed 4-byte range and
// reduces it modulo bound. Byte ranges within the 64-byte randomness
// buffer are fixed by the protocol and must never be reused across
// subsystems within a single consume_randomness call.
func ExtractU32(randomness []byte, start int, bound uint32) (uint32, error) {
	if start < 0 || start+4 > len(randomness) {
		return 0, fmt.Errorf("vrf: u32 range [%d:%d] out of bounds (len=%d)", start, start+4, len(randomness))
	}
	v := binary.LittleEndian.Uint32(randomness[start : start+4])
	return v % bound, nil
}

// ExtractU64 reads a little-endian uint64 from a fixed 8-byte range and
// reduces it modulo bound. The mild modulo bias this introduces on a
// 64-bit value is accepted by the protocol.
func ExtractU64(randomness []byte, start int, bound uint64) (uint64, error) {
	if start < 0 || start+8 > len(randomness) {
		return 0, fmt.Errorf("vrf: u64 range [%d:%d] out of bounds (len=%d)", start, start+8, len(randomness))
	}
	v := binary.LittleEndian.Uint64(randomness[start : start+8])
	return v % bound, nil
}
