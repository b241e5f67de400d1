package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/stretchr/testify/require"
)

// testRecord is a minimal ledger item for exercising the ledgers.
type testRecord struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

func newTestRecord(nm string, val int64) *testRecord {
	return &testRecord{
		Name:  nm,
		Value: val,
	}
}

func (r *testRecord) Key() LedgerKey {
	return ToLedgerKey([]byte(r.Name))
}

func (r *testRecord) Encode() ([]byte, xerrors.XError) {
	bz, err := json.Marshal(r)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (r *testRecord) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, r); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ILedgerItem = (*testRecord)(nil)

func TestSimpleLedger(t *testing.T) {
	dbDir := filepath.Join(os.TempDir(), "simple-ledger-test")
	os.RemoveAll(dbDir)

	simLedger, err := NewSimpleLedger[*testRecord]("records", dbDir, 256, func() *testRecord { return &testRecord{} })
	require.NoError(t, err)

	r0 := newTestRecord("r0", 0)
	r1 := newTestRecord("r1", 1)
	r2 := newTestRecord("r2", 2)

	require.NoError(t, simLedger.Set(r0))
	require.NoError(t, simLedger.Set(r1))

	item, err := simLedger.Get(r0.Key())
	require.NoError(t, err)
	require.NotNil(t, item)
	require.Equal(t, r0, item)

	item, err = simLedger.Get(r1.Key())
	require.NoError(t, err)
	require.NotNil(t, item)
	require.Equal(t, r1, item)

	// staged items are not readable from the tree
	item, err = simLedger.Read(r0.Key())
	require.Error(t, err)
	require.Nil(t, item)

	item, err = simLedger.Del(r1.Key())
	require.NoError(t, err)
	require.NotNil(t, item)
	require.Equal(t, r1, item)

	// delete not exist
	item, err = simLedger.Del(r2.Key())
	require.Error(t, err)
	require.Nil(t, item)

	require.NoError(t, simLedger.Close())
	os.RemoveAll(dbDir)
}
