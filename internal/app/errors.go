package app

import (
	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"
)

// errResult converts a registered protoerr sentinel (or a wrapped one)
// into the deterministic non-zero ExecTxResult the ABCI dispatcher
// returns for every taxonomy error. There is no rollback step: handlers
// return it before mutating any state, so a failed transaction leaves
// the state as it was.
func errResult(err error) *abci.ExecTxResult {
	if err == nil {
		return &abci.ExecTxResult{Code: 0}
	}
	_, code, log := errorsmod.ABCIInfo(err, false)
	return &abci.ExecTxResult{Code: code, Log: log}
}

// badRequest reports a transport-level decode failure. These sit outside
// the protocol's own error taxonomy since they never reach protocol logic
// in the first place.
func badRequest(msg string) *abci.ExecTxResult {
	return &abci.ExecTxResult{Code: 1, Log: msg}
}
