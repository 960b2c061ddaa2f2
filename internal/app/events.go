package app

import (
	"sort"

	abci "github.com/cometbft/cometbft/abci/types"
)

// Event type names for the fourteen structured records the protocol emits.
const (
	EventBallPurchased      = "BallPurchased"
	EventPokemonSpawned     = "PokemonSpawned"
	EventPokemonRelocated   = "PokemonRelocated"
	EventPokemonDespawned   = "PokemonDespawned"
	EventThrowAttempted     = "ThrowAttempted"
	EventCaughtPokemon      = "CaughtPokemon"
	EventFailedCatch        = "FailedCatch"
	EventNftDeposited       = "NftDeposited"
	EventNftWithdrawn       = "NftWithdrawn"
	EventNftAwarded         = "NftAwarded"
	EventBallPriceUpdated   = "BallPriceUpdated"
	EventCatchRateUpdated   = "CatchRateUpdated"
	EventMaxActiveUpdated   = "MaxActiveUpdated"
	EventRevenueWithdrawn   = "RevenueWithdrawn"
)

// okEvent builds a successful ExecTxResult carrying one event with
// deterministically ordered attributes.
func okEvent(typ string, attrs map[string]string) *abci.ExecTxResult {
	return okEvents(abci.Event{Type: typ, Attributes: sortedAttrs(attrs)})
}

// okEvents builds a successful ExecTxResult carrying several events, used
// where one operation's state transition yields more than one record
// (e.g. a catch emits CaughtPokemon, NftAwarded, and PokemonDespawned).
func okEvents(evs ...abci.Event) *abci.ExecTxResult {
	return &abci.ExecTxResult{
		Code:   0,
		Events: evs,
	}
}

func newEvent(typ string, attrs map[string]string) abci.Event {
	return abci.Event{Type: typ, Attributes: sortedAttrs(attrs)}
}

func sortedAttrs(attrs map[string]string) []abci.EventAttribute {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]abci.EventAttribute, 0, len(keys))
	for _, k := range keys {
		out = append(out, abci.EventAttribute{Key: k, Value: attrs[k], Index: true})
	}
	return out
}
