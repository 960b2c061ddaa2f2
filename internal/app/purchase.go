package app

import (
	"encoding/json"
	"fmt"
	"math"

	abci "github.com/cometbft/cometbft/abci/types"

	"pokeballgame/internal/codec"
	"pokeballgame/internal/protoerr"
	"pokeballgame/internal/state"
)

// handlePurchaseBalls debits a player for a batch of throw tokens of one
// tier and credits their inventory. Any player signs; their inventory is
// created lazily on first purchase.
func (a *App) handlePurchaseBalls(env codec.TxEnvelope) *abci.ExecTxResult {
	var msg codec.PurchaseBallsTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return badRequest("bad game/purchase_balls value")
	}
	if a.st.Config == nil || !a.st.Config.Initialized {
		return errResult(protoerr.ErrNotInitialized)
	}
	if int(msg.BallType) >= state.NumBallTypes {
		return errResult(protoerr.ErrInvalidBallType)
	}
	if msg.Quantity == 0 {
		return errResult(protoerr.ErrZeroQuantity)
	}
	if msg.Quantity > 99 {
		return errResult(protoerr.ErrPurchaseExceedsMax)
	}
	if err := requireAccountAuth(a.st, env, msg.Player); err != nil {
		return badRequest(err.Error())
	}

	price := a.st.Config.BallPrices[msg.BallType]
	total, overflow := mulOverflowU64(price, uint64(msg.Quantity))
	if overflow {
		return errResult(protoerr.ErrMathOverflow)
	}

	bal := a.st.Accounts[msg.Player]
	if bal < total {
		return errResult(protoerr.ErrInsufficientSolBalls)
	}

	inv := a.st.GetOrCreateInventory(msg.Player)
	if uint64(inv.Balls[msg.BallType])+uint64(msg.Quantity) > math.MaxUint32 {
		return errResult(protoerr.ErrMathOverflow)
	}

	// Token-program transfer: player -> program-owned utility account,
	// modeled here as a plain ledger debit since the token program itself
	// is an external collaborator.
	a.st.Accounts[msg.Player] = bal - total

	inv.Balls[msg.BallType] += msg.Quantity
	inv.TotalPurchased += uint64(msg.Quantity)
	a.st.Config.TotalRevenue += total

	return okEvent(EventBallPurchased, map[string]string{
		"buyer":    msg.Player,
		"ballType": fmt.Sprintf("%d", msg.BallType),
		"quantity": fmt.Sprintf("%d", msg.Quantity),
		"total":    fmt.Sprintf("%d", total),
	})
}

func mulOverflowU64(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	r := a * b
	if r/a != b {
		return 0, true
	}
	return r, false
}
