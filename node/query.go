package node

import (
	"encoding/json"

	"github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/funding/proposal"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

func (app *MechApp) Query(req abcitypes.RequestQuery) abcitypes.ResponseQuery {
	response := abcitypes.ResponseQuery{
		Code: abcitypes.CodeTypeOK,
		Key:  req.Data,
	}

	var xerr xerrors.XError

	switch req.Path {
	case "params":
		response.Value, xerr = app.mechCtrler.Query(req)
	case "registrant":
		response.Value, xerr = app.registryCtrler.Query(req)
	case "share", "pool":
		response.Value, xerr = app.shareCtrler.Query(req)
	case "proposal", "proposals", "tally_state":
		response.Value, xerr = app.fundingCtrler.Query(req)
	case "status":
		response.Value, xerr = app.queryStatus(req)
	case "withdraw_limit":
		response.Value, xerr = app.queryWithdrawLimit(req)
	default:
		response.Value, xerr = nil, xerrors.ErrInvalidQueryCmd
	}

	if xerr != nil {
		response.Code = xerr.Code()
		response.Log = xerr.Error()
	}
	return response
}

// queryStatus derives the lifecycle status of one proposal against the
// last committed block.
func (app *MechApp) queryStatus(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	if len(req.Data) < 8 {
		return nil, xerrors.ErrInvalidQueryParams
	}

	prop, xerr := app.fundingCtrler.ReadProposal(types.ProposalIDFromBytes(req.Data))
	if xerr != nil {
		return nil, xerr
	}

	alphaNum, alphaDen := app.mechCtrler.Alpha()
	status := prop.Status(&proposal.StatusCtx{
		Height:      app.lastBlockCtx.Height(),
		Now:         app.lastBlockCtx.TimeSeconds(),
		Finalized:   app.fundingCtrler.ReadTallyState().IsFinalized(),
		QuorumMet:   app.strategy.HasQuorum(prop.Tally, app.mechCtrler.Quorum(), alphaNum, alphaDen),
		VotingStart: app.mechCtrler.VotingStartHeight(),
		GracePeriod: app.mechCtrler.GracePeriodSeconds(),
	})

	bz, err := json.Marshal(&struct {
		ID     uint64 `json:"id"`
		Status string `json:"status"`
	}{
		ID:     prop.ID,
		Status: status.String(),
	})
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return bz, nil
}

func (app *MechApp) queryWithdrawLimit(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	addr := types.Address(req.Data)
	if len(addr) != types.AddrSize {
		return nil, xerrors.ErrInvalidQueryParams
	}

	limit := app.shareCtrler.WithdrawLimit(addr,
		app.lastBlockCtx.TimeSeconds(), app.mechCtrler.GracePeriodSeconds())

	bz, err := json.Marshal(&struct {
		Address types.Address `json:"address"`
		Limit   string        `json:"limit"`
	}{
		Address: addr,
		Limit:   limit.Dec(),
	})
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return bz, nil
}
