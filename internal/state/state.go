package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"pokeballgame/internal/vrf"
)

const (
	NumBallTypes  = 4
	NumSlots      = 20
	MaxThrows     = 3
	CoordBound    = 1000
	DefaultVaultMax = 20
)

// DefaultPubkey is the sentinel for "no NFT awarded" / an empty vault slot.
const DefaultPubkey = ""

// State is the entire persistent ledger: one GameConfig, one PokemonSlots
// table, one NftVault, one TreasuryConfig, every PlayerInventory keyed by
// player address, and every VrfRequest ever placed (fulfilled ones
// included) keyed by its counter.
type State struct {
	Height int64 `json:"height"`

	Accounts    map[string]uint64 `json:"accounts"`
	AccountKeys map[string][]byte `json:"accountKeys,omitempty"`
	NonceMax    map[string]uint64 `json:"nonceMax,omitempty"`

	Config    *GameConfig               `json:"config,omitempty"`
	Slots     *PokemonSlots             `json:"slots,omitempty"`
	Vault     *NftVault                 `json:"vault,omitempty"`
	Treasury  *TreasuryConfig           `json:"treasury,omitempty"`
	Inventory map[string]*PlayerInventory `json:"inventory"`
	VrfReqs   map[uint64]*VrfRequest    `json:"vrfRequests"`

	// OracleRecords mirrors the VRF oracle's own randomness accounts,
	// keyed by the same seed hex the VrfRequest was created with. A record
	// is absent until the oracle "fulfills" it out of band.
	OracleRecords map[string]*OracleRecord `json:"oracleRecords"`

	// PendingOracleRequests tracks the oracle's own bookkeeping entry for
	// every seed it has been asked to answer but hasn't yet, keyed by seed
	// hex. An oracle fulfill for a seed hex missing here is answering a
	// request nobody placed.
	PendingOracleRequests map[string]vrf.PendingRequest `json:"pendingOracleRequests"`
}

// GameConfig is the singleton admin/config record, seed "game_config".
type GameConfig struct {
	Authority       string    `json:"authority"`
	Treasury        string    `json:"treasury"`
	UtilityMint     string    `json:"utilityMint"`
	StableMint      string    `json:"stableMint"`
	BallPrices      [NumBallTypes]uint64 `json:"ballPrices"`
	CatchRates      [NumBallTypes]uint8  `json:"catchRates"`
	MaxActiveTargets uint8    `json:"maxActiveTargets"`
	TargetIDCounter uint64    `json:"targetIdCounter"`
	VrfCounter      uint64    `json:"vrfCounter"`
	TotalRevenue    uint64    `json:"totalRevenue"`
	Initialized     bool      `json:"initialized"`
}

// PokemonSlot is one fixed-index cell in the target table.
type PokemonSlot struct {
	Active        bool   `json:"active"`
	ID            uint64 `json:"id"`
	X             uint16 `json:"x"`
	Y             uint16 `json:"y"`
	ThrowAttempts uint8  `json:"throwAttempts"`
	SpawnTS       int64  `json:"spawnTs"`
}

// PokemonSlots is the singleton slot table, seed "pokemon_slots".
type PokemonSlots struct {
	Slots       [NumSlots]PokemonSlot `json:"slots"`
	ActiveCount uint8                 `json:"activeCount"`
}

// PlayerInventory is the "player_inv" record, keyed in State.Inventory by
// the player address.
type PlayerInventory struct {
	Player         string                   `json:"player"`
	Balls          [NumBallTypes]uint32     `json:"balls"`
	TotalPurchased uint64                   `json:"totalPurchased"`
	TotalThrows    uint64                   `json:"totalThrows"`
	TotalCatches   uint64                   `json:"totalCatches"`
}

// NftVault is the singleton bounded vault, seed "nft_vault".
type NftVault struct {
	Authority string                  `json:"authority"`
	Mints     [DefaultVaultMax]string `json:"mints"`
	Count     uint8                   `json:"count"`
	MaxSize   uint8                   `json:"maxSize"`
}

// TreasuryConfig is the singleton withdrawal ledger, seed "treasury".
type TreasuryConfig struct {
	Treasury       string `json:"treasury"`
	TotalWithdrawn uint64 `json:"totalWithdrawn"`
}

const (
	VrfRequestSpawn uint8 = 0
	VrfRequestThrow uint8 = 1
)

// VrfRequest is the "vrf_req" record, keyed in State.VrfReqs by the
// counter value captured at request time.
type VrfRequest struct {
	Counter     uint64 `json:"counter"`
	RequestType uint8  `json:"requestType"`
	Player      string `json:"player,omitempty"`
	SlotIndex   uint8  `json:"slotIndex"`
	BallType    uint8  `json:"ballType,omitempty"`
	Seed        []byte `json:"seed"`
	Fulfilled   bool   `json:"fulfilled"`
}

// OracleRecord is the oracle-owned randomness account this module reads
// but never writes directly; it is mutated out of band by the oracle
// collaborator once a request's quorum has signed.
type OracleRecord struct {
	SeedHex     string `json:"seedHex"`
	Account     string `json:"account"` // vrf.DeriveRandomnessAccount(seed), re-checked by the consumer
	Randomness  []byte `json:"randomness,omitempty"` // 64 bytes once fulfilled
	Fulfilled   bool   `json:"fulfilled"`
}

func NewState() *State {
	return &State{
		Height:        0,
		Accounts:      map[string]uint64{},
		AccountKeys:   map[string][]byte{},
		NonceMax:      map[string]uint64{},
		Inventory:     map[string]*PlayerInventory{},
		VrfReqs:       map[uint64]*VrfRequest{},
		OracleRecords: map[string]*OracleRecord{},
		PendingOracleRequests: map[string]vrf.PendingRequest{},
	}
}

func Load(home string) (*State, error) {
	path := filepath.Join(home, "state.json")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	st.fillDefaults()
	return &st, nil
}

func (s *State) fillDefaults() {
	if s.Accounts == nil {
		s.Accounts = map[string]uint64{}
	}
	if s.AccountKeys == nil {
		s.AccountKeys = map[string][]byte{}
	}
	if s.NonceMax == nil {
		s.NonceMax = map[string]uint64{}
	}
	if s.Inventory == nil {
		s.Inventory = map[string]*PlayerInventory{}
	}
	if s.VrfReqs == nil {
		s.VrfReqs = map[uint64]*VrfRequest{}
	}
	if s.OracleRecords == nil {
		s.OracleRecords = map[string]*OracleRecord{}
	}
	if s.PendingOracleRequests == nil {
		s.PendingOracleRequests = map[string]vrf.PendingRequest{}
	}
}

func (s *State) Save(home string) error {
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("mkdir home: %w", err)
	}
	path := filepath.Join(home, "state.json")
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// Clone returns a deep copy of state suitable for staged tx execution
// (CheckTx simulation without mutating the committed tree).
func (s *State) Clone() (*State, error) {
	if s == nil {
		return nil, fmt.Errorf("state is nil")
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state clone: %w", err)
	}
	var out State
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode state clone: %w", err)
	}
	out.fillDefaults()
	return &out, nil
}

func (s *State) AppHash() []byte {
	type accountKV struct {
		Addr    string `json:"addr"`
		Balance uint64 `json:"balance"`
	}
	type invKV struct {
		Addr string           `json:"addr"`
		Inv  *PlayerInventory `json:"inv"`
	}
	type vrfKV struct {
		Counter uint64      `json:"counter"`
		Req     *VrfRequest `json:"req"`
	}
	type oracleKV struct {
		SeedHex string        `json:"seedHex"`
		Rec     *OracleRecord `json:"rec"`
	}
	type pendingKV struct {
		SeedHex string             `json:"seedHex"`
		Req     vrf.PendingRequest `json:"req"`
	}

	accounts := make([]accountKV, 0, len(s.Accounts))
	for k, v := range s.Accounts {
		accounts = append(accounts, accountKV{Addr: k, Balance: v})
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Addr < accounts[j].Addr })

	invs := make([]invKV, 0, len(s.Inventory))
	for k, v := range s.Inventory {
		invs = append(invs, invKV{Addr: k, Inv: v})
	}
	sort.Slice(invs, func(i, j int) bool { return invs[i].Addr < invs[j].Addr })

	vrfs := make([]vrfKV, 0, len(s.VrfReqs))
	for k, v := range s.VrfReqs {
		vrfs = append(vrfs, vrfKV{Counter: k, Req: v})
	}
	sort.Slice(vrfs, func(i, j int) bool { return vrfs[i].Counter < vrfs[j].Counter })

	oracles := make([]oracleKV, 0, len(s.OracleRecords))
	for k, v := range s.OracleRecords {
		oracles = append(oracles, oracleKV{SeedHex: k, Rec: v})
	}
	sort.Slice(oracles, func(i, j int) bool { return oracles[i].SeedHex < oracles[j].SeedHex })

	pending := make([]pendingKV, 0, len(s.PendingOracleRequests))
	for k, v := range s.PendingOracleRequests {
		pending = append(pending, pendingKV{SeedHex: k, Req: v})
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].SeedHex < pending[j].SeedHex })

	normalized := struct {
		Height      int64           `json:"height"`
		Accounts    []accountKV     `json:"accounts"`
		Config      *GameConfig     `json:"config,omitempty"`
		Slots       *PokemonSlots   `json:"slots,omitempty"`
		Vault       *NftVault       `json:"vault,omitempty"`
		Treasury    *TreasuryConfig `json:"treasury,omitempty"`
		Inventory   []invKV         `json:"inventory"`
		VrfReqs     []vrfKV         `json:"vrfRequests"`
		OracleRecs  []oracleKV      `json:"oracleRecords"`
		Pending     []pendingKV     `json:"pendingOracleRequests"`
	}{
		Height:     s.Height,
		Accounts:   accounts,
		Config:     s.Config,
		Slots:      s.Slots,
		Vault:      s.Vault,
		Treasury:   s.Treasury,
		Inventory:  invs,
		VrfReqs:    vrfs,
		OracleRecs: oracles,
		Pending:    pending,
	}

	b, _ := json.Marshal(normalized)
	sum := sha256.Sum256(b)
	return sum[:]
}

// ---- inventory / vault helpers ----

// GetOrCreateInventory returns the player's inventory, creating it lazily
// the first time a player purchases balls.
func (s *State) GetOrCreateInventory(player string) *PlayerInventory {
	inv, ok := s.Inventory[player]
	if !ok {
		inv = &PlayerInventory{Player: player}
		s.Inventory[player] = inv
	}
	return inv
}

// ActiveSlotCount recomputes active slots from scratch, independent of the
// incrementally maintained ActiveCount, so the two can be compared.
func (ps *PokemonSlots) ActiveSlotCount() int {
	n := 0
	for i := range ps.Slots {
		if ps.Slots[i].Active {
			n++
		}
	}
	return n
}

// VaultLiveMints returns the first Count entries of the vault, the live
// set per the invariant that entries at or past Count are not meaningful.
func (v *NftVault) VaultLiveMints() []string {
	out := make([]string, 0, v.Count)
	for i := uint8(0); i < v.Count; i++ {
		out = append(out, v.Mints[i])
	}
	return out
}
