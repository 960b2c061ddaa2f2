package app

import (
	"encoding/json"
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"

	"pokeballgame/internal/codec"
	"pokeballgame/internal/protoerr"
	"pokeballgame/internal/state"
	"pokeballgame/internal/vrf"
)

func (a *App) validSlotIndex(idx uint8) bool {
	return int(idx) < state.NumSlots
}

func validCoordinate(v uint16) bool {
	return int(v) < state.CoordBound
}

// handleForceSpawn is the authority-driven spawn variant: it places a
// target at a caller-chosen slot and coordinate directly, with no VRF
// round trip.
func (a *App) handleForceSpawn(env codec.TxEnvelope) *abci.ExecTxResult {
	var msg codec.ForceSpawnTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return badRequest("bad game/force_spawn value")
	}
	if res := a.requireReadyAuthority(env, msg.Authority); res != nil {
		return res
	}
	if !a.validSlotIndex(msg.SlotIndex) {
		return errResult(protoerr.ErrInvalidSlotIndex)
	}
	if !validCoordinate(msg.X) || !validCoordinate(msg.Y) {
		return errResult(protoerr.ErrInvalidCoordinate)
	}
	if a.st.Slots.Slots[msg.SlotIndex].Active {
		return errResult(protoerr.ErrSlotAlreadyOccupied)
	}
	if a.st.Slots.ActiveCount >= a.st.Config.MaxActiveTargets {
		return errResult(protoerr.ErrMaxActivePokemonReached)
	}

	a.st.Config.TargetIDCounter++
	id := a.st.Config.TargetIDCounter
	a.st.Slots.Slots[msg.SlotIndex] = state.PokemonSlot{
		Active:  true,
		ID:      id,
		X:       msg.X,
		Y:       msg.Y,
		SpawnTS: a.st.Height,
	}
	a.st.Slots.ActiveCount++

	return okEvent(EventPokemonSpawned, map[string]string{
		"pokemonId": fmt.Sprintf("%d", id),
		"slotIndex": fmt.Sprintf("%d", msg.SlotIndex),
		"x":         fmt.Sprintf("%d", msg.X),
		"y":         fmt.Sprintf("%d", msg.Y),
	})
}

// handleSpawn is the VRF-spawn variant: it only requests randomness. The
// slot itself is written later by consume_randomness.
func (a *App) handleSpawn(env codec.TxEnvelope) *abci.ExecTxResult {
	var msg codec.SpawnTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return badRequest("bad game/spawn value")
	}
	if res := a.requireReadyAuthority(env, msg.Authority); res != nil {
		return res
	}
	if !a.validSlotIndex(msg.SlotIndex) {
		return errResult(protoerr.ErrInvalidSlotIndex)
	}
	if a.st.Slots.Slots[msg.SlotIndex].Active {
		return errResult(protoerr.ErrSlotAlreadyOccupied)
	}
	if a.st.Slots.ActiveCount >= a.st.Config.MaxActiveTargets {
		return errResult(protoerr.ErrMaxActivePokemonReached)
	}

	counter := a.st.Config.VrfCounter
	seed := vrf.BuildSeed(counter, vrf.RequestTypeSpawn)
	a.st.VrfReqs[counter] = &state.VrfRequest{
		Counter:     counter,
		RequestType: state.VrfRequestSpawn,
		SlotIndex:   msg.SlotIndex,
		Seed:        seed[:],
	}
	a.st.Config.VrfCounter++
	pr := vrf.NewPendingRequest(seed)
	a.st.PendingOracleRequests[pr.SeedHex] = pr

	// No event is emitted yet: the spawn itself has not happened, only
	// the randomness request has been placed.
	return &abci.ExecTxResult{Code: 0}
}

// handleReposition moves an already-active target to a new coordinate
// and resets its attempt counter.
func (a *App) handleReposition(env codec.TxEnvelope) *abci.ExecTxResult {
	var msg codec.RepositionTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return badRequest("bad game/reposition value")
	}
	if res := a.requireReadyAuthority(env, msg.Authority); res != nil {
		return res
	}
	if !a.validSlotIndex(msg.SlotIndex) {
		return errResult(protoerr.ErrInvalidSlotIndex)
	}
	if !validCoordinate(msg.NewX) || !validCoordinate(msg.NewY) {
		return errResult(protoerr.ErrInvalidCoordinate)
	}
	slot := &a.st.Slots.Slots[msg.SlotIndex]
	if !slot.Active {
		return errResult(protoerr.ErrSlotNotActive)
	}
	oldX, oldY := slot.X, slot.Y
	slot.X, slot.Y = msg.NewX, msg.NewY
	slot.ThrowAttempts = 0

	return okEvent(EventPokemonRelocated, map[string]string{
		"pokemonId": fmt.Sprintf("%d", slot.ID),
		"slotIndex": fmt.Sprintf("%d", msg.SlotIndex),
		"oldX":      fmt.Sprintf("%d", oldX),
		"oldY":      fmt.Sprintf("%d", oldY),
		"newX":      fmt.Sprintf("%d", msg.NewX),
		"newY":      fmt.Sprintf("%d", msg.NewY),
	})
}

// handleDespawn clears an active target without resolving a catch.
func (a *App) handleDespawn(env codec.TxEnvelope) *abci.ExecTxResult {
	var msg codec.DespawnTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return badRequest("bad game/despawn value")
	}
	if res := a.requireReadyAuthority(env, msg.Authority); res != nil {
		return res
	}
	if !a.validSlotIndex(msg.SlotIndex) {
		return errResult(protoerr.ErrInvalidSlotIndex)
	}
	slot := &a.st.Slots.Slots[msg.SlotIndex]
	if !slot.Active {
		return errResult(protoerr.ErrSlotNotActive)
	}
	id := slot.ID
	*slot = state.PokemonSlot{}
	a.st.Slots.ActiveCount--

	return okEvent(EventPokemonDespawned, map[string]string{
		"pokemonId": fmt.Sprintf("%d", id),
		"slotIndex": fmt.Sprintf("%d", msg.SlotIndex),
	})
}
