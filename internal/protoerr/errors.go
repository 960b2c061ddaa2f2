// Package protoerr registers the protocol's typed error taxonomy.
package protoerr

import (
	errorsmod "cosmossdk.io/errors"
	grpccodes "google.golang.org/grpc/codes"
)

const ModuleName = "pokeballgame"

var (
	// Lifecycle
	ErrAlreadyInitialized = errorsmod.Register(ModuleName, 1, "already initialized")
	ErrNotInitialized     = errorsmod.RegisterWithGRPCCode(ModuleName, 2, grpccodes.FailedPrecondition, "not initialized")

	// Argument validation
	ErrInvalidBallType             = errorsmod.RegisterWithGRPCCode(ModuleName, 10, grpccodes.InvalidArgument, "invalid ball type")
	ErrInvalidCatchRate             = errorsmod.RegisterWithGRPCCode(ModuleName, 11, grpccodes.InvalidArgument, "invalid catch rate")
	ErrInvalidSlotIndex             = errorsmod.RegisterWithGRPCCode(ModuleName, 12, grpccodes.InvalidArgument, "invalid slot index")
	ErrInvalidCoordinate            = errorsmod.RegisterWithGRPCCode(ModuleName, 13, grpccodes.InvalidArgument, "invalid coordinate")
	ErrInvalidMaxActivePokemon      = errorsmod.RegisterWithGRPCCode(ModuleName, 14, grpccodes.InvalidArgument, "invalid max active pokemon")
	ErrZeroQuantity                 = errorsmod.RegisterWithGRPCCode(ModuleName, 15, grpccodes.InvalidArgument, "zero quantity")
	ErrZeroBallPrice                = errorsmod.RegisterWithGRPCCode(ModuleName, 16, grpccodes.InvalidArgument, "zero ball price")
	ErrPurchaseExceedsMax           = errorsmod.RegisterWithGRPCCode(ModuleName, 17, grpccodes.InvalidArgument, "purchase exceeds max quantity")
	ErrInsufficientWithdrawalAmount = errorsmod.RegisterWithGRPCCode(ModuleName, 18, grpccodes.InvalidArgument, "insufficient withdrawal amount")

	// State preconditions
	ErrSlotNotActive           = errorsmod.RegisterWithGRPCCode(ModuleName, 30, grpccodes.FailedPrecondition, "slot not active")
	ErrSlotAlreadyOccupied     = errorsmod.RegisterWithGRPCCode(ModuleName, 31, grpccodes.FailedPrecondition, "slot already occupied")
	ErrMaxAttemptsReached      = errorsmod.RegisterWithGRPCCode(ModuleName, 32, grpccodes.FailedPrecondition, "max throw attempts reached")
	ErrMaxActivePokemonReached = errorsmod.RegisterWithGRPCCode(ModuleName, 33, grpccodes.FailedPrecondition, "max active pokemon reached")
	ErrInsufficientBalls       = errorsmod.RegisterWithGRPCCode(ModuleName, 34, grpccodes.FailedPrecondition, "insufficient balls")
	ErrInsufficientSolBalls    = errorsmod.RegisterWithGRPCCode(ModuleName, 35, grpccodes.FailedPrecondition, "insufficient funds")
	ErrVaultFull               = errorsmod.RegisterWithGRPCCode(ModuleName, 36, grpccodes.FailedPrecondition, "vault full")
	ErrVaultEmpty              = errorsmod.RegisterWithGRPCCode(ModuleName, 37, grpccodes.FailedPrecondition, "vault empty")
	ErrNftNotInVault           = errorsmod.RegisterWithGRPCCode(ModuleName, 38, grpccodes.NotFound, "nft not in vault")
	ErrInvalidNftIndex         = errorsmod.RegisterWithGRPCCode(ModuleName, 39, grpccodes.InvalidArgument, "invalid nft index")

	// VRF
	ErrVrfAlreadyFulfilled  = errorsmod.RegisterWithGRPCCode(ModuleName, 50, grpccodes.FailedPrecondition, "vrf request already fulfilled")
	ErrVrfNotFulfilled      = errorsmod.RegisterWithGRPCCode(ModuleName, 51, grpccodes.Unavailable, "vrf request not yet fulfilled")
	ErrInvalidVrfRequestType = errorsmod.RegisterWithGRPCCode(ModuleName, 52, grpccodes.Internal, "invalid vrf request type")
	ErrVrfRequestNotFound   = errorsmod.RegisterWithGRPCCode(ModuleName, 53, grpccodes.NotFound, "vrf request not found")
	ErrVrfAccountMismatch   = errorsmod.RegisterWithGRPCCode(ModuleName, 54, grpccodes.InvalidArgument, "vrf account does not match request seed")
	ErrVrfSeedNotRequested  = errorsmod.RegisterWithGRPCCode(ModuleName, 55, grpccodes.NotFound, "vrf seed not pending any request")

	// Authorization
	ErrUnauthorized = errorsmod.RegisterWithGRPCCode(ModuleName, 70, grpccodes.PermissionDenied, "unauthorized")

	// Arithmetic
	ErrMathOverflow = errorsmod.Register(ModuleName, 80, "math overflow")

	// Extra-accounts protocol
	ErrNftTransferAccountsMissing = errorsmod.Register(ModuleName, 90, "nft transfer accounts missing")
)
