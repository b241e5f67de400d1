package node

import (
	"encoding/binary"
	"sync"

	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	tmjson "github.com/tendermint/tendermint/libs/json"
	tmdb "github.com/tendermint/tm-db"
)

const (
	keyChainID      = "ci"
	keyBlockHeight  = "bh"
	keyBlockContext = "bc"
)

type MetaDB struct {
	db tmdb.DB

	mtx   sync.RWMutex
	cache map[string][]byte
}

func openMetaDB(name, dir string) (*MetaDB, error) {
	// the returned 'db' instance is safe in concurrent use
	db, err := tmdb.NewDB(name, "goleveldb", dir)
	if err != nil {
		return nil, err
	}

	return &MetaDB{
		db:    db,
		cache: make(map[string][]byte),
	}, nil
}

func (stdb *MetaDB) Close() error {
	stdb.mtx.Lock()
	defer stdb.mtx.Unlock()

	stdb.cache = map[string][]byte{}
	return stdb.db.Close()
}

func (stdb *MetaDB) ChainID() string {
	v := stdb.get(keyChainID)
	if v == nil {
		return ""
	}
	return string(v)
}

func (stdb *MetaDB) PutChainID(chainId string) error {
	return stdb.put(keyChainID, []byte(chainId))
}

func (stdb *MetaDB) LastBlockHeight() int64 {
	v := stdb.get(keyBlockHeight)
	if v == nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(v))
}

func (stdb *MetaDB) PutLastBlockHeight(bh int64) error {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, uint64(bh))
	return stdb.put(keyBlockHeight, v)
}

func (stdb *MetaDB) LastBlockContext() *ctrlertypes.BlockContext {
	bz := stdb.get(keyBlockContext)
	if bz == nil {
		return nil
	}
	ret := &ctrlertypes.BlockContext{}
	if err := tmjson.Unmarshal(bz, ret); err != nil {
		return nil
	}
	return ret
}

func (stdb *MetaDB) PutLastBlockContext(ctx *ctrlertypes.BlockContext) error {
	bz, err := tmjson.Marshal(ctx)
	if err != nil {
		return err
	}
	return stdb.put(keyBlockContext, bz)
}

func (stdb *MetaDB) putCache(k string, v []byte) {
	stdb.mtx.Lock()
	defer stdb.mtx.Unlock()

	stdb.cache[k] = v
}

func (stdb *MetaDB) getCache(k string) []byte {
	stdb.mtx.RLock()
	defer stdb.mtx.RUnlock()

	return stdb.cache[k]
}

func (stdb *MetaDB) get(k string) []byte {
	if v := stdb.getCache(k); v != nil {
		return v
	}

	if v, err := stdb.db.Get([]byte(k)); err == nil {
		stdb.putCache(k, v)
		return v
	}
	return nil
}

func (stdb *MetaDB) put(k string, v []byte) error {
	if err := stdb.db.SetSync([]byte(k), v); err != nil {
		return err
	}
	stdb.putCache(k, v)
	return nil
}
