package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"

	"pokeballgame/internal/codec"
	"pokeballgame/internal/protoerr"
	"pokeballgame/internal/state"
	"pokeballgame/internal/vrf"
)

// handleThrowBall is the VRF request side of a throw. The ball is spent
// here, up front, and is not refunded if the oracle never fulfills the
// resulting request.
func (a *App) handleThrowBall(env codec.TxEnvelope) *abci.ExecTxResult {
	var msg codec.ThrowBallTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return badRequest("bad game/throw_ball value")
	}
	if a.st.Config == nil || !a.st.Config.Initialized {
		return errResult(protoerr.ErrNotInitialized)
	}
	if int(msg.BallType) >= state.NumBallTypes {
		return errResult(protoerr.ErrInvalidBallType)
	}
	if !a.validSlotIndex(msg.SlotIndex) {
		return errResult(protoerr.ErrInvalidSlotIndex)
	}
	if err := requireAccountAuth(a.st, env, msg.Player); err != nil {
		return badRequest(err.Error())
	}

	slot := &a.st.Slots.Slots[msg.SlotIndex]
	if !slot.Active {
		return errResult(protoerr.ErrSlotNotActive)
	}
	if slot.ThrowAttempts >= state.MaxThrows {
		return errResult(protoerr.ErrMaxAttemptsReached)
	}

	inv, ok := a.st.Inventory[msg.Player]
	if !ok || inv.Balls[msg.BallType] < 1 {
		return errResult(protoerr.ErrInsufficientBalls)
	}
	inv.Balls[msg.BallType]--
	inv.TotalThrows++

	counter := a.st.Config.VrfCounter
	seed := vrf.BuildSeed(counter, vrf.RequestTypeThrow)
	a.st.VrfReqs[counter] = &state.VrfRequest{
		Counter:     counter,
		RequestType: state.VrfRequestThrow,
		Player:      msg.Player,
		SlotIndex:   msg.SlotIndex,
		BallType:    msg.BallType,
		Seed:        seed[:],
	}
	a.st.Config.VrfCounter++
	pr := vrf.NewPendingRequest(seed)
	a.st.PendingOracleRequests[pr.SeedHex] = pr

	return okEvent(EventThrowAttempted, map[string]string{
		"thrower":   msg.Player,
		"pokemonId": fmt.Sprintf("%d", slot.ID),
		"ballType":  fmt.Sprintf("%d", msg.BallType),
		"slotIndex": fmt.Sprintf("%d", msg.SlotIndex),
		"vrfSeed":   hex.EncodeToString(seed[:]),
	})
}
