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

// handleConsumeRandomness is the randomness consumer and award protocol,
// the hard part of the system. Any caller may drive it; the work it
// performs depends entirely on the VrfRequest it targets, not on who
// sends the transaction.
func (a *App) handleConsumeRandomness(env codec.TxEnvelope) *abci.ExecTxResult {
	var msg codec.ConsumeRandomnessTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return badRequest("bad game/consume_randomness value")
	}
	if a.st.Config == nil || !a.st.Config.Initialized {
		return errResult(protoerr.ErrNotInitialized)
	}

	// Step 1: load the request, idempotency guard.
	req, ok := a.st.VrfReqs[msg.Counter]
	if !ok {
		return errResult(protoerr.ErrVrfRequestNotFound)
	}
	if req.Fulfilled {
		return errResult(protoerr.ErrVrfAlreadyFulfilled)
	}

	// Step 2: read the oracle's randomness record.
	seedHex := hex.EncodeToString(req.Seed)
	rec, ok := a.st.OracleRecords[seedHex]
	if !ok || !rec.Fulfilled || len(rec.Randomness) != vrf.RandomnessLen {
		return errResult(protoerr.ErrVrfNotFulfilled)
	}
	randomness := rec.Randomness

	// Step 3: re-derive the expected randomness account from the (counter,
	// type) fields on the request itself and check it against the account
	// the oracle published under. A mismatch means either the seed on the
	// request was tampered with or the oracle answered the wrong account.
	expectedSeed := vrf.BuildSeed(req.Counter, req.RequestType)
	if vrf.DeriveRandomnessAccount(expectedSeed) != rec.Account {
		return errResult(protoerr.ErrVrfAccountMismatch)
	}

	// Step 4: branch on request type.
	switch req.RequestType {
	case state.VrfRequestSpawn:
		return a.consumeSpawn(req, randomness)
	case state.VrfRequestThrow:
		return a.consumeThrow(req, randomness, msg.ExtraAccounts)
	default:
		return errResult(protoerr.ErrInvalidVrfRequestType)
	}
}

func (a *App) consumeSpawn(req *state.VrfRequest, randomness []byte) *abci.ExecTxResult {
	if !a.validSlotIndex(req.SlotIndex) {
		return errResult(protoerr.ErrInvalidSlotIndex)
	}
	slot := &a.st.Slots.Slots[req.SlotIndex]
	if slot.Active {
		return errResult(protoerr.ErrSlotAlreadyOccupied)
	}
	if a.st.Slots.ActiveCount >= a.st.Config.MaxActiveTargets {
		return errResult(protoerr.ErrMaxActivePokemonReached)
	}

	x, err := vrf.ExtractU32(randomness, 0, state.CoordBound)
	if err != nil {
		return badRequest(err.Error())
	}
	y, err := vrf.ExtractU32(randomness, 4, state.CoordBound)
	if err != nil {
		return badRequest(err.Error())
	}

	a.st.Config.TargetIDCounter++
	id := a.st.Config.TargetIDCounter
	*slot = state.PokemonSlot{
		Active:  true,
		ID:      id,
		X:       uint16(x),
		Y:       uint16(y),
		SpawnTS: a.st.Height,
	}
	a.st.Slots.ActiveCount++
	req.Fulfilled = true

	return okEvent(EventPokemonSpawned, map[string]string{
		"pokemonId": fmt.Sprintf("%d", id),
		"slotIndex": fmt.Sprintf("%d", req.SlotIndex),
		"x":         fmt.Sprintf("%d", x),
		"y":         fmt.Sprintf("%d", y),
	})
}

func (a *App) consumeThrow(req *state.VrfRequest, randomness []byte, extra []codec.NftCandidate) *abci.ExecTxResult {
	if !a.validSlotIndex(req.SlotIndex) {
		return errResult(protoerr.ErrInvalidSlotIndex)
	}
	slot := &a.st.Slots.Slots[req.SlotIndex]
	if !slot.Active {
		return errResult(protoerr.ErrSlotNotActive)
	}
	if int(req.BallType) >= state.NumBallTypes {
		return errResult(protoerr.ErrInvalidBallType)
	}

	roll, err := vrf.ExtractU64(randomness, 0, 100)
	if err != nil {
		return badRequest(err.Error())
	}
	rate := uint64(a.st.Config.CatchRates[req.BallType])
	inv := a.st.GetOrCreateInventory(req.Player)

	var events []abci.Event

	if roll < rate {
		events = a.resolveCatchSuccess(req, slot, randomness, inv, extra)
	} else {
		events = a.resolveCatchFailure(req, slot, randomness)
	}

	req.Fulfilled = true
	return okEvents(events...)
}

// resolveCatchSuccess runs the award protocol's pop-before-transfer
// discipline: the vault slot is removed before any transfer is attempted.
func (a *App) resolveCatchSuccess(req *state.VrfRequest, slot *state.PokemonSlot, randomness []byte, inv *state.PlayerInventory, extra []codec.NftCandidate) []abci.Event {
	inv.TotalCatches++

	awardedMint := state.DefaultPubkey
	vaultRemaining := -1

	if a.st.Vault.Count > 0 {
		vaultIdx, err := vrf.ExtractU64(randomness, 8, uint64(a.st.Vault.Count))
		if err == nil {
			awardedMint = a.st.Vault.Mints[vaultIdx]

			// Swap-and-pop BEFORE any transfer attempt, so the vault is
			// never left in an ambiguous state by a reverted transfer.
			last := a.st.Vault.Count - 1
			a.st.Vault.Mints[vaultIdx] = a.st.Vault.Mints[last]
			a.st.Vault.Mints[last] = state.DefaultPubkey
			a.st.Vault.Count--
			vaultRemaining = int(a.st.Vault.Count)

			a.tryAwardTransfer(awardedMint, extra)
		}
	}

	var events []abci.Event
	if vaultRemaining >= 0 {
		events = append(events,
			newEvent(EventCaughtPokemon, map[string]string{
				"catcher":   req.Player,
				"pokemonId": fmt.Sprintf("%d", slot.ID),
				"slotIndex": fmt.Sprintf("%d", req.SlotIndex),
				"nftMint":   awardedMint,
			}),
			newEvent(EventNftAwarded, map[string]string{
				"winner":         req.Player,
				"nftMint":        awardedMint,
				"vaultRemaining": fmt.Sprintf("%d", vaultRemaining),
			}),
		)
	} else {
		events = append(events, newEvent(EventCaughtPokemon, map[string]string{
			"catcher":   req.Player,
			"pokemonId": fmt.Sprintf("%d", slot.ID),
			"slotIndex": fmt.Sprintf("%d", req.SlotIndex),
			"nftMint":   state.DefaultPubkey,
		}))
	}

	pokemonID := slot.ID
	*slot = state.PokemonSlot{}
	a.st.Slots.ActiveCount--
	events = append(events, newEvent(EventPokemonDespawned, map[string]string{
		"pokemonId": fmt.Sprintf("%d", pokemonID),
		"slotIndex": fmt.Sprintf("%d", req.SlotIndex),
	}))
	return events
}

// tryAwardTransfer scans the trailing extra-accounts groups for the one
// naming awardedMint and, if present, performs the token transfer. The
// token program itself is an external collaborator; here the transfer is
// modeled as a ledger credit to the recipient account. If the caller did
// not supply the winning candidate, the vault has already popped and the
// transfer is simply skipped, leaving the mint parked in the vault token
// account for later sweeper recovery.
func (a *App) tryAwardTransfer(awardedMint string, extra []codec.NftCandidate) {
	for _, cand := range extra {
		if cand.Mint == awardedMint {
			a.st.Accounts[cand.RecipientTokenAccount] += 1
			return
		}
	}
}

// resolveCatchFailure handles a miss: it increments the attempt count,
// relocating the target once the third miss lands.
func (a *App) resolveCatchFailure(req *state.VrfRequest, slot *state.PokemonSlot, randomness []byte) []abci.Event {
	slot.ThrowAttempts++

	if slot.ThrowAttempts < state.MaxThrows {
		return []abci.Event{newEvent(EventFailedCatch, map[string]string{
			"thrower":           req.Player,
			"pokemonId":         fmt.Sprintf("%d", slot.ID),
			"slotIndex":         fmt.Sprintf("%d", req.SlotIndex),
			"attemptsRemaining": fmt.Sprintf("%d", state.MaxThrows-slot.ThrowAttempts),
		})}
	}

	// Third miss: relocate rather than despawn.
	oldX, oldY := slot.X, slot.Y
	newX, _ := vrf.ExtractU32(randomness, 16, state.CoordBound)
	newY, _ := vrf.ExtractU32(randomness, 20, state.CoordBound)
	slot.X, slot.Y = uint16(newX), uint16(newY)
	slot.ThrowAttempts = 0

	return []abci.Event{
		newEvent(EventPokemonRelocated, map[string]string{
			"pokemonId": fmt.Sprintf("%d", slot.ID),
			"slotIndex": fmt.Sprintf("%d", req.SlotIndex),
			"oldX":      fmt.Sprintf("%d", oldX),
			"oldY":      fmt.Sprintf("%d", oldY),
			"newX":      fmt.Sprintf("%d", newX),
			"newY":      fmt.Sprintf("%d", newY),
		}),
		newEvent(EventFailedCatch, map[string]string{
			"thrower":           req.Player,
			"pokemonId":         fmt.Sprintf("%d", slot.ID),
			"slotIndex":         fmt.Sprintf("%d", req.SlotIndex),
			"attemptsRemaining": "3",
		}),
	}
}
