package genesis

import (
	"encoding/json"

	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/crypto"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
	tmjson "github.com/tendermint/tendermint/libs/json"
)

// GenesisAssetHolder is an identity registered at chain start with a
// deposit already committed to the redemption pool.
type GenesisAssetHolder struct {
	Address types.Address
	Balance *uint256.Int
}

type genesisAssetHolderJSON struct {
	Address types.Address `json:"address"`
	Balance string        `json:"balance"`
}

func (gh *GenesisAssetHolder) MarshalJSON() ([]byte, error) {
	return json.Marshal(&genesisAssetHolderJSON{
		Address: gh.Address,
		Balance: gh.Balance.Dec(),
	})
}

func (gh *GenesisAssetHolder) UnmarshalJSON(bz []byte) error {
	gj := &genesisAssetHolderJSON{}
	if err := json.Unmarshal(bz, gj); err != nil {
		return err
	}
	bal, err := uint256.FromDecimal(gj.Balance)
	if err != nil {
		return err
	}
	gh.Address = gj.Address
	gh.Balance = bal
	return nil
}

type GenesisAppState struct {
	AssetHolders []*GenesisAssetHolder   `json:"assetHolders"`
	MechParams   *ctrlertypes.MechParams `json:"mechParams"`
}

func NewGenesisAppState(holders []*GenesisAssetHolder, params *ctrlertypes.MechParams) *GenesisAppState {
	return &GenesisAppState{
		AssetHolders: holders,
		MechParams:   params,
	}
}

func (ga *GenesisAppState) Encode() ([]byte, xerrors.XError) {
	bz, err := tmjson.Marshal(ga)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (ga *GenesisAppState) Decode(bz []byte) xerrors.XError {
	if err := tmjson.Unmarshal(bz, ga); err != nil {
		return xerrors.From(err)
	}
	return nil
}

func (ga *GenesisAppState) Hash() ([]byte, xerrors.XError) {
	bz, xerr := ga.Encode()
	if xerr != nil {
		return nil, xerr
	}
	return crypto.DefaultHash(bz), nil
}
