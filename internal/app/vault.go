package app

import (
	"encoding/json"
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"

	"pokeballgame/internal/codec"
	"pokeballgame/internal/protoerr"
	"pokeballgame/internal/state"
)

// handleDepositNft adds a mint to the bounded vault.
func (a *App) handleDepositNft(env codec.TxEnvelope) *abci.ExecTxResult {
	var msg codec.DepositNftTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return badRequest("bad game/deposit_nft value")
	}
	if res := a.requireReadyAuthority(env, msg.Authority); res != nil {
		return res
	}
	if msg.Mint == "" {
		return badRequest("missing mint")
	}
	if a.st.Vault.Count >= a.st.Vault.MaxSize {
		return errResult(protoerr.ErrVaultFull)
	}

	// Token-program transfer: authority -> vault token account. NFTs are
	// not ledger balances in this model, so only the vault's mint list
	// changes; no account is debited.
	a.st.Vault.Mints[a.st.Vault.Count] = msg.Mint
	a.st.Vault.Count++

	return okEvent(EventNftDeposited, map[string]string{
		"mint":  msg.Mint,
		"count": fmt.Sprintf("%d", a.st.Vault.Count),
	})
}

// handleWithdrawNft removes a mint from the vault using the same
// swap-and-pop discipline as the award protocol.
func (a *App) handleWithdrawNft(env codec.TxEnvelope) *abci.ExecTxResult {
	var msg codec.WithdrawNftTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return badRequest("bad game/withdraw_nft value")
	}
	if res := a.requireReadyAuthority(env, msg.Authority); res != nil {
		return res
	}

	idx := -1
	for i := uint8(0); i < a.st.Vault.Count; i++ {
		if a.st.Vault.Mints[i] == msg.Mint {
			idx = int(i)
			break
		}
	}
	if idx < 0 {
		return errResult(protoerr.ErrNftNotInVault)
	}

	last := a.st.Vault.Count - 1
	a.st.Vault.Mints[idx] = a.st.Vault.Mints[last]
	a.st.Vault.Mints[last] = state.DefaultPubkey
	a.st.Vault.Count--

	return okEvent(EventNftWithdrawn, map[string]string{
		"mint":  msg.Mint,
		"count": fmt.Sprintf("%d", a.st.Vault.Count),
	})
}
