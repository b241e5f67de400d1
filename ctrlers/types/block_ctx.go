package types

import (
	"encoding/json"
	"sync"
	"time"

	abytes "github.com/ReageMeuFilho/octant-v2-core-sub005/types/bytes"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

type BlockContext struct {
	BlockInfo abcitypes.RequestBeginBlock `json:"blockInfo"`
	TxsCnt    int                         `json:"txsCnt"`

	MechHandler     IMechHandler
	RegistryHandler IRegistryHandler
	ShareHandler    IShareHandler
	FundingHandler  IFundingHandler

	appHash abytes.HexBytes
	mtx     sync.RWMutex
}

func NewBlockContext(bi abcitypes.RequestBeginBlock, mech IMechHandler, reg IRegistryHandler, share IShareHandler, fund IFundingHandler) *BlockContext {
	return &BlockContext{
		BlockInfo:       bi,
		MechHandler:     mech,
		RegistryHandler: reg,
		ShareHandler:    share,
		FundingHandler:  fund,
	}
}

func (bctx *BlockContext) Height() int64 {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.BlockInfo.Header.Height
}

func (bctx *BlockContext) TimeSeconds() int64 {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.BlockInfo.Header.Time.Unix()
}

// ExpectedNextBlockTimeSeconds estimates the timestamp of the block a
// checked transaction would land in.
func (bctx *BlockContext) ExpectedNextBlockTimeSeconds(interval time.Duration) int64 {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.BlockInfo.Header.Time.Add(interval).Unix()
}

func (bctx *BlockContext) AppHash() abytes.HexBytes {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.appHash
}

func (bctx *BlockContext) SetAppHash(hash []byte) {
	bctx.mtx.Lock()
	defer bctx.mtx.Unlock()

	bctx.appHash = hash
}

func (bctx *BlockContext) AddTxsCnt(d int) {
	bctx.mtx.Lock()
	defer bctx.mtx.Unlock()

	bctx.TxsCnt += d
}

func (bctx *BlockContext) GetTxsCnt() int {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.TxsCnt
}

func (bctx *BlockContext) MarshalJSON() ([]byte, error) {
	_bctx := &struct {
		BlockInfo abcitypes.RequestBeginBlock `json:"blockInfo"`
		AppHash   abytes.HexBytes             `json:"appHash"`
		TxsCnt    int                         `json:"txsCnt"`
	}{
		BlockInfo: bctx.BlockInfo,
		AppHash:   bctx.AppHash(),
		TxsCnt:    bctx.GetTxsCnt(),
	}
	return json.Marshal(_bctx)
}

func (bctx *BlockContext) UnmarshalJSON(bz []byte) error {
	_bctx := &struct {
		BlockInfo abcitypes.RequestBeginBlock `json:"blockInfo"`
		AppHash   abytes.HexBytes             `json:"appHash"`
		TxsCnt    int                         `json:"txsCnt"`
	}{}
	if err := json.Unmarshal(bz, _bctx); err != nil {
		return err
	}

	bctx.BlockInfo = _bctx.BlockInfo
	bctx.appHash = _bctx.AppHash
	bctx.TxsCnt = _bctx.TxsCnt
	return nil
}
