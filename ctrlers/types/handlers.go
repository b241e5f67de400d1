package types

import (
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

type ILedgerHandler interface {
	InitLedger(interface{}) xerrors.XError
	Commit() ([]byte, int64, xerrors.XError)
	Query(abcitypes.RequestQuery) ([]byte, xerrors.XError)
	Close() xerrors.XError
}

// IMechHandler exposes the mechanism configuration to the other controllers.
type IMechHandler interface {
	Version() int64
	AssetDecimals() int16
	StartBlock() int64
	VotingStartHeight() int64
	VotingEndHeight() int64
	Quorum() *uint256.Int
	TimelockSeconds() int64
	GracePeriodSeconds() int64
	Alpha() (uint64, uint64)
	Owner() types.Address
	IsOwner(types.Address) bool
	IsPaused() bool
}

// IRegistryHandler is how the funding controller reaches registrants and
// their voting power.
type IRegistryHandler interface {
	IsRegistered(types.Address, bool) bool
	PowerOf(types.Address, bool) *uint256.Int
	SpendPower(types.Address, *uint256.Int, bool) (*uint256.Int, xerrors.XError)
	TotalDeposited(bool) *uint256.Int
}

// IShareHandler is how the funding controller mints claim shares and how the
// registry feeds the redemption pool.
type IShareHandler interface {
	Mint(to types.Address, shares *uint256.Int, redeemableAt int64, exec bool) xerrors.XError
	BalanceOf(types.Address, bool) *uint256.Int
	TotalShares(bool) *uint256.Int
	PoolBalance(bool) *uint256.Int
	DepositPool(*uint256.Int, bool) xerrors.XError
}

// IFundingHandler lets the outer application read proposal facts.
type IFundingHandler interface {
	IsFinalized(bool) bool
	RecipientUsed(types.Address, bool) bool
}

// IStrategy is the fixed hook surface an allocation strategy must fill in.
// A concrete mechanism is exactly one total assignment of these hooks; the
// lifecycle/ledger core never branches on the strategy's identity.
type IStrategy interface {
	Name() string

	// pre-registration gate
	CheckRegistration(alreadyRegistered bool) xerrors.XError
	// pre-proposal gate
	CheckProposer(power *uint256.Int) xerrors.XError
	// proposal validator
	ValidateProposal(proposer, recipient types.Address) xerrors.XError
	// recipient resolution
	ResolveRecipient(recipient types.Address) types.Address
	// voting power computation
	VotingPowerOf(deposit *uint256.Int, assetDecimals int16) (*uint256.Int, xerrors.XError)
	// vote processing; returns the remaining power, which never exceeds the prior power
	ProcessVote(choice int32, weight, power *uint256.Int, tally *VoteTally) (*uint256.Int, xerrors.XError)
	// quorum decision
	HasQuorum(tally *VoteTally, quorum *uint256.Int, alphaNum, alphaDen uint64) bool
	// funding score of a tally under the current alpha
	FundingScore(tally *VoteTally, alphaNum, alphaDen uint64) *uint256.Int
	// funding-to-shares conversion
	SharesOf(score *uint256.Int) *uint256.Int
	// pre-finalization gate
	CheckFinalize(height, votingEndHeight int64) xerrors.XError
	// total pool assets snapshot
	PoolAssets(share IShareHandler, exec bool) *uint256.Int
}
