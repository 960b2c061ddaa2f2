package app

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"

	abci "github.com/cometbft/cometbft/abci/types"

	"pokeballgame/internal/codec"
	"pokeballgame/internal/vrf"
)

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

var testTxNonce uint64

func testEd25519Key(signerID string) (ed25519.PublicKey, ed25519.PrivateKey) {
	seed := sha256.Sum256([]byte("pkbl/test/ed25519/" + signerID))
	priv := ed25519.NewKeyFromSeed(seed[:])
	pub := priv.Public().(ed25519.PublicKey)
	return pub, priv
}

func txBytesSigned(t *testing.T, typ string, value any, signerID string) []byte {
	t.Helper()
	if signerID == "" {
		t.Fatalf("txBytesSigned: missing signerID")
	}
	_, priv := testEd25519Key(signerID)
	valueBytes := mustMarshal(t, value)
	nonce := fmt.Sprintf("%d", atomic.AddUint64(&testTxNonce, 1))
	msg := txAuthSignBytesV0(typ, valueBytes, nonce, signerID)
	sig := ed25519.Sign(priv, msg)

	env := codec.TxEnvelope{
		Type:   typ,
		Value:  valueBytes,
		Nonce:  nonce,
		Signer: signerID,
		Sig:    sig,
	}
	return mustMarshal(t, env)
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func mustOk(t *testing.T, res *abci.ExecTxResult) *abci.ExecTxResult {
	t.Helper()
	if res.Code != 0 {
		t.Fatalf("expected ok, got code=%d log=%q", res.Code, res.Log)
	}
	return res
}

func mustErr(t *testing.T, res *abci.ExecTxResult) *abci.ExecTxResult {
	t.Helper()
	if res.Code == 0 {
		t.Fatalf("expected error, got ok")
	}
	return res
}

func registerAccount(t *testing.T, a *App, height int64, account string) {
	t.Helper()
	pub, _ := testEd25519Key(account)
	mustOk(t, a.deliverTx(txBytesSigned(t, "auth/register_account", map[string]any{
		"account": account,
		"pubKey":  []byte(pub),
	}, account), height))
}

func fundAccount(t *testing.T, a *App, height int64, to string, amount uint64) {
	t.Helper()
	mustOk(t, a.deliverTx(txBytesSigned(t, "bank/mint", map[string]any{
		"to":     to,
		"amount": amount,
	}, to), height))
}

func findEvent(events []abci.Event, typ string) *abci.Event {
	for i := range events {
		if events[i].Type == typ {
			return &events[i]
		}
	}
	return nil
}

func attr(ev *abci.Event, key string) string {
	if ev == nil {
		return ""
	}
	for _, a := range ev.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

const (
	testAuthority = "authority"
	testTreasury  = "treasury"
)

// setupGame initializes the protocol singletons with a four-tier price
// list and ascending catch rates, returning the app ready for play.
func setupGame(t *testing.T, height int64) *App {
	t.Helper()
	a := newTestApp(t)
	registerAccount(t, a, height, testAuthority)

	mustOk(t, a.deliverTx(txBytesSigned(t, "game/initialize", map[string]any{
		"authority":   testAuthority,
		"treasury":    testTreasury,
		"utilityMint": "util-mint",
		"stableMint":  "stable-mint",
		"ballPrices":  [4]uint64{10, 20, 30, 40},
		"catchRates":  [4]uint8{10, 30, 60, 100},
	}, testAuthority), height))
	return a
}

func forceSpawn(t *testing.T, a *App, height int64, slotIndex uint8, x, y uint16) {
	t.Helper()
	mustOk(t, a.deliverTx(txBytesSigned(t, "game/force_spawn", map[string]any{
		"authority": testAuthority,
		"slotIndex": slotIndex,
		"x":         x,
		"y":         y,
	}, testAuthority), height))
}

func depositNft(t *testing.T, a *App, height int64, mint string) {
	t.Helper()
	mustOk(t, a.deliverTx(txBytesSigned(t, "game/deposit_nft", map[string]any{
		"authority": testAuthority,
		"mint":      mint,
	}, testAuthority), height))
}

func buyBalls(t *testing.T, a *App, height int64, player string, ballType uint8, qty uint32) {
	t.Helper()
	mustOk(t, a.deliverTx(txBytesSigned(t, "game/purchase_balls", map[string]any{
		"player":   player,
		"ballType": ballType,
		"quantity": qty,
	}, player), height))
}

// throwAndGetSeed throws a ball and returns the VrfRequest counter and the
// seed hex the oracle must answer to resolve it. Tests live in-package, so
// the counter is read directly off the app's own state rather than parsed
// back out of the emitted event.
func throwAndGetSeed(t *testing.T, a *App, height int64, player string, slotIndex, ballType uint8) (counter uint64, seedHex string) {
	t.Helper()
	counter = a.st.Config.VrfCounter
	res := mustOk(t, a.deliverTx(txBytesSigned(t, "game/throw_ball", map[string]any{
		"player":    player,
		"slotIndex": slotIndex,
		"ballType":  ballType,
	}, player), height))
	ev := findEvent(res.Events, EventThrowAttempted)
	if ev == nil {
		t.Fatalf("expected ThrowAttempted event")
	}
	seedHex = attr(ev, "vrfSeed")
	return counter, seedHex
}

func fulfillOracle(t *testing.T, a *App, height int64, seedHex string, randomness []byte) {
	t.Helper()
	mustOk(t, a.deliverTx(txBytesSigned(t, "oracle/fulfill", map[string]any{
		"seedHex":    seedHex,
		"randomness": randomness,
	}, testAuthority), height))
}

func consumeRandomness(t *testing.T, a *App, height int64, counter uint64, extra []codec.NftCandidate) *abci.ExecTxResult {
	t.Helper()
	return a.deliverTx(txBytesSigned(t, "game/consume_randomness", map[string]any{
		"caller":        testAuthority,
		"counter":       counter,
		"extraAccounts": extra,
	}, testAuthority), height)
}

// craftRandomness builds a 64-byte randomness buffer with u32/u64
// little-endian values planted at the fixed offsets the protocol reads:
// [0:8) catch roll or spawn x/y, [8:16) vault index, [16:24) relocate x/y.
func craftRandomness(u64At0, u64At8 uint64, u32At16, u32At20 uint32) []byte {
	buf := make([]byte, vrf.RandomnessLen)
	binary.LittleEndian.PutUint64(buf[0:8], u64At0)
	binary.LittleEndian.PutUint64(buf[8:16], u64At8)
	binary.LittleEndian.PutUint32(buf[16:20], u32At16)
	binary.LittleEndian.PutUint32(buf[20:24], u32At20)
	return buf
}

