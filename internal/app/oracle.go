package app

import (
	"encoding/hex"
	"encoding/json"

	abci "github.com/cometbft/cometbft/abci/types"

	"pokeballgame/internal/codec"
	"pokeballgame/internal/protoerr"
	"pokeballgame/internal/state"
	"pokeballgame/internal/vrf"
)

// handleOracleFulfill models the external VRF oracle's side of the
// two-step request/fulfill protocol: once its quorum has signed, it
// publishes 64 bytes of randomness under the account derived from the
// request's seed. This is not one of the game's own operations; it is
// the collaborator boundary the randomness consumer reads from.
func (a *App) handleOracleFulfill(env codec.TxEnvelope) *abci.ExecTxResult {
	var msg codec.OracleFulfillTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return badRequest("bad oracle/fulfill value")
	}
	if len(msg.Randomness) != vrf.RandomnessLen {
		return badRequest("randomness must be 64 bytes")
	}
	if _, pending := a.st.PendingOracleRequests[msg.SeedHex]; !pending {
		return errResult(protoerr.ErrVrfSeedNotRequested)
	}
	seedBytes, err := hex.DecodeString(msg.SeedHex)
	if err != nil || len(seedBytes) != vrf.SeedLen {
		return badRequest("seedHex must decode to 32 bytes")
	}
	var seed [vrf.SeedLen]byte
	copy(seed[:], seedBytes)

	a.st.OracleRecords[msg.SeedHex] = &state.OracleRecord{
		SeedHex:    msg.SeedHex,
		Account:    vrf.DeriveRandomnessAccount(seed),
		Randomness: append([]byte(nil), msg.Randomness...),
		Fulfilled:  true,
	}
	delete(a.st.PendingOracleRequests, msg.SeedHex)
	return &abci.ExecTxResult{Code: 0}
}
