package node

import (
	"fmt"
	"sync"
	"sync/atomic"

	cfg "github.com/ReageMeuFilho/octant-v2-core-sub005/cmd/config"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/funding"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/mech"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/registry"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/share"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/strategy"
	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/genesis"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/crypto"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmjson "github.com/tendermint/tendermint/libs/json"
	"github.com/tendermint/tendermint/libs/log"
	tmver "github.com/tendermint/tendermint/version"
)

var _ abcitypes.Application = (*MechApp)(nil)

// MechApp is the ABCI application gluing the controllers together: the
// mechanism parameters, the registrant ledger, the proposal lifecycle, and
// the claim-share pool.
type MechApp struct {
	abcitypes.BaseApplication

	lastBlockCtx *ctrlertypes.BlockContext
	nextBlockCtx *ctrlertypes.BlockContext

	metaDB         *MetaDB
	mechCtrler     *mech.MechCtrler
	registryCtrler *registry.RegistryCtrler
	shareCtrler    *share.ShareCtrler
	fundingCtrler  *funding.FundingCtrler
	strategy       ctrlertypes.IStrategy
	txExecutor     *TrxExecutor

	rootConfig *cfg.Config

	started int32
	logger  log.Logger
	mtx     sync.Mutex
}

func NewMechApp(config *cfg.Config, logger log.Logger) *MechApp {
	metaDB, err := openMetaDB("mech_app", config.DBDir())
	if err != nil {
		panic(err)
	}

	mechCtrler, xerr := mech.NewMechCtrler(config, logger)
	if xerr != nil {
		panic(xerr)
	}
	registryCtrler, xerr := registry.NewRegistryCtrler(config, logger)
	if xerr != nil {
		panic(xerr)
	}
	shareCtrler, xerr := share.NewShareCtrler(config, logger)
	if xerr != nil {
		panic(xerr)
	}
	fundingCtrler, xerr := funding.NewFundingCtrler(config, logger)
	if xerr != nil {
		panic(xerr)
	}

	return &MechApp{
		metaDB:         metaDB,
		mechCtrler:     mechCtrler,
		registryCtrler: registryCtrler,
		shareCtrler:    shareCtrler,
		fundingCtrler:  fundingCtrler,
		strategy:       strategy.NewQuadraticStrategy(),
		txExecutor:     NewTrxExecutor(logger),
		rootConfig:     config,
		logger:         logger,
	}
}

// SetStrategy swaps the allocation strategy. Must be called before Start.
func (app *MechApp) SetStrategy(s ctrlertypes.IStrategy) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	app.strategy = s
}

func (app *MechApp) Start() error {
	atomic.CompareAndSwapInt32(&app.started, 0, 1)
	return nil
}

func (app *MechApp) Stop() error {
	if err := app.fundingCtrler.Close(); err != nil {
		return err
	}
	if err := app.shareCtrler.Close(); err != nil {
		return err
	}
	if err := app.registryCtrler.Close(); err != nil {
		return err
	}
	if err := app.mechCtrler.Close(); err != nil {
		return err
	}
	return app.metaDB.Close()
}

func (app *MechApp) Info(info abcitypes.RequestInfo) abcitypes.ResponseInfo {
	app.lastBlockCtx = app.metaDB.LastBlockContext()
	if app.lastBlockCtx == nil {
		app.lastBlockCtx = ctrlertypes.NewBlockContext(
			abcitypes.RequestBeginBlock{},
			app.mechCtrler, app.registryCtrler, app.shareCtrler, app.fundingCtrler)
	}
	app.rootConfig.ChainID = app.metaDB.ChainID()

	return abcitypes.ResponseInfo{
		Version:          tmver.ABCIVersion,
		LastBlockHeight:  app.lastBlockCtx.Height(),
		LastBlockAppHash: app.lastBlockCtx.AppHash(),
	}
}

func (app *MechApp) InitChain(req abcitypes.RequestInitChain) abcitypes.ResponseInitChain {
	if req.GetChainId() == "" {
		panic("there is no chain_id")
	}
	app.rootConfig.ChainID = req.GetChainId()
	_ = app.metaDB.PutChainID(app.rootConfig.ChainID)

	appState := genesis.GenesisAppState{}
	if err := tmjson.Unmarshal(req.AppStateBytes, &appState); err != nil {
		panic(err)
	}

	appHash, xerr := appState.Hash()
	if xerr != nil {
		panic(xerr)
	}

	if xerr := app.mechCtrler.InitLedger(&appState); xerr != nil {
		app.logger.Error("MechApp", "error", xerr)
		panic(xerr)
	}
	if xerr := app.registryCtrler.InitLedger(&appState); xerr != nil {
		app.logger.Error("MechApp", "error", xerr)
		panic(xerr)
	}
	if xerr := app.shareCtrler.InitLedger(&appState); xerr != nil {
		app.logger.Error("MechApp", "error", xerr)
		panic(xerr)
	}
	if xerr := app.fundingCtrler.InitLedger(&appState); xerr != nil {
		app.logger.Error("MechApp", "error", xerr)
		panic(xerr)
	}

	return abcitypes.ResponseInitChain{
		AppHash: appHash,
	}
}

func (app *MechApp) newTrxContext(txbz []byte, height, btime int64, exec bool) (*ctrlertypes.TrxContext, xerrors.XError) {
	return ctrlertypes.NewTrxContext(txbz, height, btime, exec,
		func(_txctx *ctrlertypes.TrxContext) xerrors.XError {
			_txctx.TrxMechHandler = app.mechCtrler
			_txctx.TrxRegistryHandler = app.registryCtrler
			_txctx.TrxShareHandler = app.shareCtrler
			_txctx.TrxFundingHandler = app.fundingCtrler
			_txctx.MechHandler = app.mechCtrler
			_txctx.RegistryHandler = app.registryCtrler
			_txctx.ShareHandler = app.shareCtrler
			_txctx.FundingHandler = app.fundingCtrler
			_txctx.Strategy = app.strategy
			return nil
		})
}

func (app *MechApp) CheckTx(req abcitypes.RequestCheckTx) abcitypes.ResponseCheckTx {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	switch req.Type {
	case abcitypes.CheckTxType_New:
		txctx, xerr := app.newTrxContext(req.Tx,
			app.lastBlockCtx.Height()+1,
			app.lastBlockCtx.ExpectedNextBlockTimeSeconds(app.rootConfig.Consensus.CreateEmptyBlocksInterval),
			false)
		if xerr == nil {
			xerr = app.txExecutor.ExecuteSync(txctx)
		}
		if xerr != nil {
			xerr = xerrors.ErrCheckTx.Wrap(xerr)
			app.logger.Debug("CheckTx", "error", xerr)
			return abcitypes.ResponseCheckTx{
				Code: xerr.Code(),
				Log:  xerr.Error(),
			}
		}
	case abcitypes.CheckTxType_Recheck:
		// do nothing
	}
	return abcitypes.ResponseCheckTx{Code: abcitypes.CodeTypeOK}
}

func (app *MechApp) BeginBlock(req abcitypes.RequestBeginBlock) abcitypes.ResponseBeginBlock {
	if req.Header.Height != app.lastBlockCtx.Height()+1 {
		panic(fmt.Errorf("error block height: expected(%v), actual(%v)", app.lastBlockCtx.Height()+1, req.Header.Height))
	}

	app.mtx.Lock() // unlocked at EndBlock

	app.nextBlockCtx = ctrlertypes.NewBlockContext(req,
		app.mechCtrler, app.registryCtrler, app.shareCtrler, app.fundingCtrler)
	return abcitypes.ResponseBeginBlock{}
}

func (app *MechApp) DeliverTx(req abcitypes.RequestDeliverTx) abcitypes.ResponseDeliverTx {
	txctx, xerr := app.newTrxContext(req.Tx,
		app.nextBlockCtx.Height(),
		app.nextBlockCtx.TimeSeconds(),
		true)
	if xerr == nil {
		app.nextBlockCtx.AddTxsCnt(1)
		xerr = app.txExecutor.ExecuteSync(txctx)
	}
	if xerr != nil {
		xerr = xerrors.ErrDeliverTx.Wrap(xerr)
		app.logger.Error("DeliverTx", "error", xerr)
		return abcitypes.ResponseDeliverTx{
			Code: xerr.Code(),
			Log:  xerr.Error(),
		}
	}

	txctx.Events = append(txctx.Events, abcitypes.Event{
		Type: "tx",
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXTYPE), Value: []byte(txctx.Tx.TypeString()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXSENDER), Value: []byte(txctx.Tx.From.String()), Index: true},
		},
	})

	return abcitypes.ResponseDeliverTx{
		Code:   abcitypes.CodeTypeOK,
		Events: txctx.Events,
	}
}

func (app *MechApp) EndBlock(req abcitypes.RequestEndBlock) abcitypes.ResponseEndBlock {
	defer app.mtx.Unlock() // locked at BeginBlock

	return abcitypes.ResponseEndBlock{}
}

func (app *MechApp) Commit() abcitypes.ResponseCommit {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	appHash0, ver0, xerr := app.mechCtrler.Commit()
	if xerr != nil {
		panic(xerr)
	}
	appHash1, ver1, xerr := app.registryCtrler.Commit()
	if xerr != nil {
		panic(xerr)
	}
	appHash2, ver2, xerr := app.shareCtrler.Commit()
	if xerr != nil {
		panic(xerr)
	}
	appHash3, ver3, xerr := app.fundingCtrler.Commit()
	if xerr != nil {
		panic(xerr)
	}

	if ver0 != ver1 || ver1 != ver2 || ver2 != ver3 {
		panic(fmt.Sprintf("not same versions: mech:%v, registry:%v, share:%v, funding:%v", ver0, ver1, ver2, ver3))
	}

	appHash := crypto.DefaultHash(appHash0, appHash1, appHash2, appHash3)
	app.nextBlockCtx.SetAppHash(appHash)
	app.logger.Debug("MechApp::Commit", "height", ver0, "txs", app.nextBlockCtx.GetTxsCnt(), "appHash", app.nextBlockCtx.AppHash())

	_ = app.metaDB.PutLastBlockContext(app.nextBlockCtx)
	_ = app.metaDB.PutLastBlockHeight(ver0)

	app.lastBlockCtx = app.nextBlockCtx
	app.nextBlockCtx = nil

	return abcitypes.ResponseCommit{
		Data: appHash,
	}
}
