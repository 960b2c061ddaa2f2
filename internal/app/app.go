// Package app wires the catch-and-reward protocol to a CometBFT ABCI
// application: one in-memory state.State mutated synchronously by
// deliverTx, persisted to disk on Commit.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	abci "github.com/cometbft/cometbft/abci/types"

	"pokeballgame/internal/codec"
	"pokeballgame/internal/protoerr"
	"pokeballgame/internal/state"
)

const AppVersion uint64 = 1

type App struct {
	*abci.BaseApplication

	home string

	mu       sync.Mutex
	st       *state.State
	lastHash []byte
}

func New(home string) (*App, error) {
	appHome := filepath.Join(home, "app")
	st, err := state.Load(appHome)
	if err != nil {
		return nil, err
	}
	a := &App{
		BaseApplication: abci.NewBaseApplication(),
		home:            home,
		st:              st,
		lastHash:        st.AppHash(),
	}
	return a, nil
}

func (a *App) Info(_ context.Context, _ *abci.InfoRequest) (*abci.InfoResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return &abci.InfoResponse{
		Data:             "pokeballgame (v0)",
		Version:          "v0",
		AppVersion:       AppVersion,
		LastBlockHeight:  a.st.Height,
		LastBlockAppHash: a.lastHash,
	}, nil
}

func (a *App) CheckTx(_ context.Context, req *abci.CheckTxRequest) (*abci.CheckTxResponse, error) {
	_, err := codec.DecodeTxEnvelope(req.Tx)
	if err != nil {
		return &abci.CheckTxResponse{Code: 1, Log: err.Error()}, nil
	}
	// v0: structural validation only; auth and state preconditions are
	// enforced at delivery time.
	return &abci.CheckTxResponse{Code: 0}, nil
}

func (a *App) InitChain(_ context.Context, _ *abci.InitChainRequest) (*abci.InitChainResponse, error) {
	return &abci.InitChainResponse{}, nil
}

func (a *App) FinalizeBlock(_ context.Context, req *abci.FinalizeBlockRequest) (*abci.FinalizeBlockResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.st.Height = req.Height

	txResults := make([]*abci.ExecTxResult, 0, len(req.Txs))
	for _, txBytes := range req.Txs {
		res := a.deliverTx(txBytes, req.Height)
		txResults = append(txResults, res)
	}

	a.lastHash = a.st.AppHash()

	return &abci.FinalizeBlockResponse{
		TxResults: txResults,
		AppHash:   a.lastHash,
	}, nil
}

func (a *App) Commit(_ context.Context, _ *abci.CommitRequest) (*abci.CommitResponse, error) {
	appHome := filepath.Join(a.home, "app")
	if err := a.st.Save(appHome); err != nil {
		return nil, err
	}
	return &abci.CommitResponse{}, nil
}

func (a *App) Query(_ context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Paths:
	// - /config
	// - /slots
	// - /vault
	// - /treasury
	// - /inventory/<player>
	// - /vrf_request/<counter>
	path := strings.TrimSpace(req.Path)
	switch {
	case path == "/config":
		return a.queryJSON(a.st.Config)
	case path == "/slots":
		return a.queryJSON(a.st.Slots)
	case path == "/vault":
		return a.queryJSON(a.st.Vault)
	case path == "/treasury":
		return a.queryJSON(a.st.Treasury)
	case strings.HasPrefix(path, "/inventory/"):
		player := strings.TrimPrefix(path, "/inventory/")
		inv, ok := a.st.Inventory[player]
		if !ok {
			return &abci.QueryResponse{Code: 1, Log: "no inventory for player", Height: a.st.Height}, nil
		}
		return a.queryJSON(inv)
	case strings.HasPrefix(path, "/vrf_request/"):
		raw := strings.TrimPrefix(path, "/vrf_request/")
		counter, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return &abci.QueryResponse{Code: 1, Log: "invalid counter", Height: a.st.Height}, nil
		}
		req, ok := a.st.VrfReqs[counter]
		if !ok {
			return &abci.QueryResponse{Code: 1, Log: "vrf request not found", Height: a.st.Height}, nil
		}
		return a.queryJSON(req)
	default:
		return &abci.QueryResponse{Code: 1, Log: "unknown query path", Height: a.st.Height}, nil
	}
}

func (a *App) queryJSON(v any) (*abci.QueryResponse, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return &abci.QueryResponse{Code: 1, Log: err.Error(), Height: a.st.Height}, nil
	}
	return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil
}

// deliverTx decodes and routes a single transaction. It is also the entry
// point tests drive directly, without going through a full FinalizeBlock
// round trip.
func (a *App) deliverTx(txBytes []byte, height int64) *abci.ExecTxResult {
	env, err := codec.DecodeTxEnvelope(txBytes)
	if err != nil {
		return badRequest(err.Error())
	}

	a.st.Height = height

	switch env.Type {
	case "auth/register_account":
		return a.handleRegisterAccount(env)
	case "bank/mint":
		return a.handleBankMint(env)

	case "game/initialize":
		return a.handleInitialize(env)
	case "game/set_ball_price":
		return a.handleSetBallPrice(env)
	case "game/set_catch_rate":
		return a.handleSetCatchRate(env)
	case "game/set_max_active_pokemon":
		return a.handleSetMaxActivePokemon(env)
	case "game/withdraw_revenue":
		return a.handleWithdrawRevenue(env)

	case "game/purchase_balls":
		return a.handlePurchaseBalls(env)

	case "game/force_spawn":
		return a.handleForceSpawn(env)
	case "game/spawn":
		return a.handleSpawn(env)
	case "game/reposition":
		return a.handleReposition(env)
	case "game/despawn":
		return a.handleDespawn(env)

	case "game/throw_ball":
		return a.handleThrowBall(env)
	case "game/consume_randomness":
		return a.handleConsumeRandomness(env)

	case "game/deposit_nft":
		return a.handleDepositNft(env)
	case "game/withdraw_nft":
		return a.handleWithdrawNft(env)

	case "oracle/fulfill":
		return a.handleOracleFulfill(env)

	default:
		return badRequest("unknown tx type: " + env.Type)
	}
}

func (a *App) handleRegisterAccount(env codec.TxEnvelope) *abci.ExecTxResult {
	var msg codec.AuthRegisterAccountTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return badRequest("bad auth/register_account value")
	}
	if err := requireRegisterAccountAuth(env, msg); err != nil {
		return badRequest(err.Error())
	}
	if existing := a.st.AccountKeys[msg.Account]; len(existing) != 0 {
		if string(existing) != string(msg.PubKey) {
			return badRequest("account pubKey already set (rotation not supported in v0)")
		}
		return okEvent("AccountKeyRegistered", map[string]string{"account": msg.Account, "existing": "true"})
	}
	a.st.AccountKeys[msg.Account] = append([]byte(nil), msg.PubKey...)
	return okEvent("AccountKeyRegistered", map[string]string{"account": msg.Account})
}

func (a *App) handleBankMint(env codec.TxEnvelope) *abci.ExecTxResult {
	var msg codec.BankMintTx
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return badRequest("bad bank/mint value")
	}
	if msg.To == "" || msg.Amount == 0 {
		return badRequest("missing to/amount")
	}
	bal := a.st.Accounts[msg.To]
	if bal > ^uint64(0)-msg.Amount {
		return errResult(protoerr.ErrMathOverflow)
	}
	a.st.Accounts[msg.To] = bal + msg.Amount
	return okEvent("BankMinted", map[string]string{"to": msg.To, "amount": fmt.Sprintf("%d", msg.Amount)})
}
