package genesis

import (
	"testing"

	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestGenesisAppStateCodec(t *testing.T) {
	gen0 := NewGenesisAppState(
		[]*GenesisAssetHolder{
			{Address: types.RandAddress(), Balance: uint256.NewInt(1_000_000)},
			{Address: types.RandAddress(), Balance: uint256.NewInt(500_000)},
		},
		ctrlertypes.Test1MechParams(),
	)

	bz, err := gen0.Encode()
	require.NoError(t, err)

	gen1 := &GenesisAppState{}
	require.NoError(t, gen1.Decode(bz))
	require.Equal(t, gen0, gen1)
}

func TestGenesisAppStateHash(t *testing.T) {
	holder := &GenesisAssetHolder{Address: types.RandAddress(), Balance: uint256.NewInt(77)}
	gen0 := NewGenesisAppState([]*GenesisAssetHolder{holder}, ctrlertypes.Test1MechParams())
	gen1 := NewGenesisAppState([]*GenesisAssetHolder{holder}, ctrlertypes.Test1MechParams())

	h0, err := gen0.Hash()
	require.NoError(t, err)
	h1, err := gen1.Hash()
	require.NoError(t, err)
	require.Equal(t, h0, h1)

	gen2 := NewGenesisAppState(
		[]*GenesisAssetHolder{{Address: types.RandAddress(), Balance: uint256.NewInt(78)}},
		ctrlertypes.Test1MechParams(),
	)
	h2, err := gen2.Hash()
	require.NoError(t, err)
	require.NotEqual(t, h0, h2)
}
