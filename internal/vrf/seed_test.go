package vrf

import (
	"encoding/binary"
	"testing"
)

func TestBuildSeed_EncodesCounterAndType(t *testing.T) {
	seed := BuildSeed(42, RequestTypeThrow)
	if got := binary.LittleEndian.Uint64(seed[0:8]); got != 42 {
		t.Fatalf("counter: got %d want 42", got)
	}
	if seed[8] != RequestTypeThrow {
		t.Fatalf("request type: got %d want %d", seed[8], RequestTypeThrow)
	}
	for i := 9; i < 24; i++ {
		if seed[i] != 0 {
			t.Fatalf("padding byte %d not zero: %d", i, seed[i])
		}
	}
	if string(seed[24:32]) != domainTag {
		t.Fatalf("domain tag: got %q want %q", seed[24:32], domainTag)
	}
}

func TestBuildSeed_DistinctCountersNeverCollide(t *testing.T) {
	seen := map[string]bool{}
	for i := uint64(0); i < 1000; i++ {
		for _, rt := range []uint8{RequestTypeSpawn, RequestTypeThrow} {
			h := SeedHex(BuildSeed(i, rt))
			if seen[h] {
				t.Fatalf("seed collision at counter=%d type=%d", i, rt)
			}
			seen[h] = true
		}
	}
}

func TestExtractU32_ReducesModuloBound(t *testing.T) {
	buf := make([]byte, RandomnessLen)
	binary.LittleEndian.PutUint32(buf[0:4], 2500)
	v, err := ExtractU32(buf, 0, 1000)
	if err != nil {
		t.Fatalf("ExtractU32: %v", err)
	}
	if v != 500 {
		t.Fatalf("got %d want 500", v)
	}
}

func TestExtractU32_OutOfBoundsRejected(t *testing.T) {
	buf := make([]byte, RandomnessLen)
	if _, err := ExtractU32(buf, 61, 1000); err == nil {
		t.Fatalf("expected out-of-bounds error")
	}
	if _, err := ExtractU32(buf, -1, 1000); err == nil {
		t.Fatalf("expected negative-start error")
	}
}

func TestExtractU64_ReducesModuloBound(t *testing.T) {
	buf := make([]byte, RandomnessLen)
	binary.LittleEndian.PutUint64(buf[8:16], 250)
	v, err := ExtractU64(buf, 8, 100)
	if err != nil {
		t.Fatalf("ExtractU64: %v", err)
	}
	if v != 50 {
		t.Fatalf("got %d want 50", v)
	}
}

func TestExtractU64_OutOfBoundsRejected(t *testing.T) {
	buf := make([]byte, RandomnessLen)
	if _, err := ExtractU64(buf, 57, 100); err == nil {
		t.Fatalf("expected out-of-bounds error")
	}
}

func TestDeriveRandomnessAccount_IsPureFunctionOfSeed(t *testing.T) {
	seedA := BuildSeed(1, RequestTypeSpawn)
	seedB := BuildSeed(1, RequestTypeSpawn)
	seedC := BuildSeed(2, RequestTypeSpawn)

	if DeriveRandomnessAccount(seedA) != DeriveRandomnessAccount(seedB) {
		t.Fatalf("identical seeds must derive identical accounts")
	}
	if DeriveRandomnessAccount(seedA) == DeriveRandomnessAccount(seedC) {
		t.Fatalf("distinct seeds must derive distinct accounts")
	}
}

func TestNewPendingRequest_StampsSeedHex(t *testing.T) {
	seed := BuildSeed(7, RequestTypeThrow)
	pr := NewPendingRequest(seed)
	if pr.SeedHex != SeedHex(seed) {
		t.Fatalf("pending request seed hex mismatch: got %q want %q", pr.SeedHex, SeedHex(seed))
	}
	if pr.RequestID.String() == "" {
		t.Fatalf("expected a non-empty request id")
	}
}
