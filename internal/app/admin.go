package app

import (
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"

	"pokeballgame/internal/codec"
	"pokeballgame/internal/protoerr"
	"pokeballgame/internal/state"
)

// handleInitialize creates the four singleton records (config, slots,
// vault, treasury) exactly once.
func (a *App) handleInitialize(env codec.TxEnvelope) *abci.ExecTxResult {
	var msg codec.InitializeTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return badRequest("bad game/initialize value")
	}
	if a.st.Config != nil && a.st.Config.Initialized {
		return errResult(protoerr.ErrAlreadyInitialized)
	}
	if msg.Authority == "" || msg.Treasury == "" {
		return badRequest("missing authority/treasury")
	}
	if err := requireAccountAuth(a.st, env, msg.Authority); err != nil {
		return errResult(errorsmod.Wrap(protoerr.ErrUnauthorized, err.Error()))
	}
	for i, p := range msg.BallPrices {
		if p == 0 {
			return errResult(errorsmod.Wrapf(protoerr.ErrZeroBallPrice, "ball type %d", i))
		}
	}
	for i, r := range msg.CatchRates {
		if r > 100 {
			return errResult(errorsmod.Wrapf(protoerr.ErrInvalidCatchRate, "ball type %d", i))
		}
	}

	a.st.Config = &state.GameConfig{
		Authority:        msg.Authority,
		Treasury:         msg.Treasury,
		UtilityMint:      msg.UtilityMint,
		StableMint:       msg.StableMint,
		BallPrices:       msg.BallPrices,
		CatchRates:       msg.CatchRates,
		MaxActiveTargets: state.NumSlots,
		Initialized:      true,
	}
	a.st.Slots = &state.PokemonSlots{}
	a.st.Vault = &state.NftVault{
		Authority: msg.Authority,
		MaxSize:   state.DefaultVaultMax,
	}
	a.st.Treasury = &state.TreasuryConfig{Treasury: msg.Treasury}

	return okEvent("GameInitialized", map[string]string{
		"authority": msg.Authority,
		"treasury":  msg.Treasury,
	})
}

// requireReadyAuthority checks the not-initialized/unauthorized
// preconditions every admin handler shares.
func (a *App) requireReadyAuthority(env codec.TxEnvelope, authority string) *abci.ExecTxResult {
	if a.st.Config == nil || !a.st.Config.Initialized {
		return errResult(protoerr.ErrNotInitialized)
	}
	if err := requireAuthoritySigned(a.st, env, authority); err != nil {
		return errResult(errorsmod.Wrap(protoerr.ErrUnauthorized, err.Error()))
	}
	return nil
}

func (a *App) handleSetBallPrice(env codec.TxEnvelope) *abci.ExecTxResult {
	var msg codec.SetBallPriceTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return badRequest("bad game/set_ball_price value")
	}
	if res := a.requireReadyAuthority(env, msg.Authority); res != nil {
		return res
	}
	if int(msg.BallType) >= state.NumBallTypes {
		return errResult(protoerr.ErrInvalidBallType)
	}
	if msg.NewPrice == 0 {
		return errResult(protoerr.ErrZeroBallPrice)
	}
	old := a.st.Config.BallPrices[msg.BallType]
	a.st.Config.BallPrices[msg.BallType] = msg.NewPrice
	return okEvent(EventBallPriceUpdated, map[string]string{
		"ballType": fmt.Sprintf("%d", msg.BallType),
		"old":      fmt.Sprintf("%d", old),
		"new":      fmt.Sprintf("%d", msg.NewPrice),
	})
}

func (a *App) handleSetCatchRate(env codec.TxEnvelope) *abci.ExecTxResult {
	var msg codec.SetCatchRateTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return badRequest("bad game/set_catch_rate value")
	}
	if res := a.requireReadyAuthority(env, msg.Authority); res != nil {
		return res
	}
	if int(msg.BallType) >= state.NumBallTypes {
		return errResult(protoerr.ErrInvalidBallType)
	}
	if msg.NewRate > 100 {
		return errResult(protoerr.ErrInvalidCatchRate)
	}
	old := a.st.Config.CatchRates[msg.BallType]
	a.st.Config.CatchRates[msg.BallType] = msg.NewRate
	return okEvent(EventCatchRateUpdated, map[string]string{
		"ballType": fmt.Sprintf("%d", msg.BallType),
		"old":      fmt.Sprintf("%d", old),
		"new":      fmt.Sprintf("%d", msg.NewRate),
	})
}

func (a *App) handleSetMaxActivePokemon(env codec.TxEnvelope) *abci.ExecTxResult {
	var msg codec.SetMaxActivePokemonTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return badRequest("bad game/set_max_active_pokemon value")
	}
	if res := a.requireReadyAuthority(env, msg.Authority); res != nil {
		return res
	}
	if msg.NewMax < 1 || int(msg.NewMax) > state.NumSlots {
		return errResult(protoerr.ErrInvalidMaxActivePokemon)
	}
	old := a.st.Config.MaxActiveTargets
	a.st.Config.MaxActiveTargets = msg.NewMax
	return okEvent(EventMaxActiveUpdated, map[string]string{
		"old": fmt.Sprintf("%d", old),
		"new": fmt.Sprintf("%d", msg.NewMax),
	})
}

func (a *App) handleWithdrawRevenue(env codec.TxEnvelope) *abci.ExecTxResult {
	var msg codec.WithdrawRevenueTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return badRequest("bad game/withdraw_revenue value")
	}
	if res := a.requireReadyAuthority(env, msg.Authority); res != nil {
		return res
	}
	if msg.Amount == 0 {
		return errResult(protoerr.ErrInsufficientWithdrawalAmount)
	}
	gameBalance := a.st.Config.TotalRevenue - a.st.Treasury.TotalWithdrawn
	if msg.Amount > gameBalance {
		return errResult(protoerr.ErrInsufficientWithdrawalAmount)
	}
	a.st.Treasury.TotalWithdrawn += msg.Amount
	a.st.Accounts[msg.Authority] += msg.Amount
	return okEvent(EventRevenueWithdrawn, map[string]string{
		"recipient": msg.Authority,
		"amount":    fmt.Sprintf("%d", msg.Amount),
	})
}
