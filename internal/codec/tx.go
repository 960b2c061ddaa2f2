package codec

import (
	"encoding/json"
	"fmt"
)

// TxEnvelope is the v0 transaction container. CometBFT transactions are
// opaque bytes; v0 localnet moves fast with JSON-encoded txs rather than
// a binary wire format.
type TxEnvelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`

	// v0 tx auth: Nonce must be non-empty and is covered by the signature,
	// but it is not compared against earlier nonces, so a signed envelope
	// is accepted again if resent; Signer is the logical signer id; Sig is
	// an Ed25519 signature over (type, nonce, signer, sha256(value)).
	Nonce  string `json:"nonce,omitempty"`
	Signer string `json:"signer,omitempty"`
	Sig    []byte `json:"sig,omitempty"`
}

func DecodeTxEnvelope(txBytes []byte) (TxEnvelope, error) {
	var env TxEnvelope
	if err := json.Unmarshal(txBytes, &env); err != nil {
		return TxEnvelope{}, fmt.Errorf("invalid tx json: %w", err)
	}
	if env.Type == "" {
		return TxEnvelope{}, fmt.Errorf("missing tx.type")
	}
	return env, nil
}

// ---- Auth (v0) ----

type AuthRegisterAccountTx struct {
	Account string `json:"account"`
	PubKey  []byte `json:"pubKey"` // base64 (32 bytes)
}

// ---- Bank (v0, used only to fund player token accounts in tests/tools) ----

type BankMintTx struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// ---- Lifecycle & admin ----

type InitializeTx struct {
	Authority   string               `json:"authority"`
	Treasury    string               `json:"treasury"`
	UtilityMint string               `json:"utilityMint"`
	StableMint  string               `json:"stableMint"`
	BallPrices  [4]uint64            `json:"ballPrices"`
	CatchRates  [4]uint8             `json:"catchRates"`
}

type SetBallPriceTx struct {
	Authority string `json:"authority"`
	BallType  uint8  `json:"ballType"`
	NewPrice  uint64 `json:"newPrice"`
}

type SetCatchRateTx struct {
	Authority string `json:"authority"`
	BallType  uint8  `json:"ballType"`
	NewRate   uint8  `json:"newRate"`
}

type SetMaxActivePokemonTx struct {
	Authority string `json:"authority"`
	NewMax    uint8  `json:"newMax"`
}

type WithdrawRevenueTx struct {
	Authority string `json:"authority"`
	Amount    uint64 `json:"amount"`
}

// ---- Purchase ----

type PurchaseBallsTx struct {
	Player   string `json:"player"`
	BallType uint8  `json:"ballType"`
	Quantity uint32 `json:"quantity"`
}

// ---- Spawn / reposition / despawn ----

type ForceSpawnTx struct {
	Authority string `json:"authority"`
	SlotIndex uint8  `json:"slotIndex"`
	X         uint16 `json:"x"`
	Y         uint16 `json:"y"`
}

type SpawnTx struct {
	Authority string `json:"authority"`
	SlotIndex uint8  `json:"slotIndex"`
}

type RepositionTx struct {
	Authority string `json:"authority"`
	SlotIndex uint8  `json:"slotIndex"`
	NewX      uint16 `json:"newX"`
	NewY      uint16 `json:"newY"`
}

type DespawnTx struct {
	Authority string `json:"authority"`
	SlotIndex uint8  `json:"slotIndex"`
}

// ---- Throw / consume ----

type ThrowBallTx struct {
	Player    string `json:"player"`
	SlotIndex uint8  `json:"slotIndex"`
	BallType  uint8  `json:"ballType"`
}

// NftCandidate is one group of the trailing "extra accounts" list: the
// mint under consideration plus the vault-side and recipient-side token
// accounts that would move it, supplied up front since the winning index
// is not known until randomness resolves.
type NftCandidate struct {
	Mint                string `json:"mint"`
	VaultTokenAccount    string `json:"vaultTokenAccount"`
	RecipientTokenAccount string `json:"recipientTokenAccount"`
}

type ConsumeRandomnessTx struct {
	Caller      string         `json:"caller"`
	Counter     uint64         `json:"counter"`
	ExtraAccounts []NftCandidate `json:"extraAccounts,omitempty"`
}

// ---- Vault ----

type DepositNftTx struct {
	Authority string `json:"authority"`
	Mint      string `json:"mint"`
}

type WithdrawNftTx struct {
	Authority string `json:"authority"`
	Mint      string `json:"mint"`
}

// ---- Oracle collaborator (test/tool surface only, not a protocol op) ----

// OracleFulfillTx simulates the external VRF oracle delivering its 64
// bytes of randomness for a previously requested seed. The protocol does
// not define this operation; it exists so a localnet can drive the
// two-phase request/fulfill flow end to end without a live oracle.
type OracleFulfillTx struct {
	SeedHex    string `json:"seedHex"`
	Randomness []byte `json:"randomness"` // exactly 64 bytes
}
