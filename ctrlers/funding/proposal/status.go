package proposal

type PropStatus int32

const (
	PROP_PENDING PropStatus = iota
	PROP_ACTIVE
	PROP_CANCELED
	PROP_DEFEATED
	PROP_SUCCEEDED
	PROP_QUEUED
	PROP_EXPIRED
)

func (s PropStatus) String() string {
	switch s {
	case PROP_PENDING:
		return "pending"
	case PROP_ACTIVE:
		return "active"
	case PROP_CANCELED:
		return "canceled"
	case PROP_DEFEATED:
		return "defeated"
	case PROP_SUCCEEDED:
		return "succeeded"
	case PROP_QUEUED:
		return "queued"
	case PROP_EXPIRED:
		return "expired"
	}
	return "unknown"
}

// StatusCtx is everything outside the proposal record that status
// derivation depends on.
type StatusCtx struct {
	Height      int64
	Now         int64
	Finalized   bool
	QuorumMet   bool
	VotingStart int64
	GracePeriod int64
}
