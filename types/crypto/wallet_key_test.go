package crypto_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	abytes "github.com/ReageMeuFilho/octant-v2-core-sub005/types/bytes"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/crypto"
	"github.com/stretchr/testify/require"
)

func TestWalletKeyLockUnlock(t *testing.T) {
	pass := []byte("mech-test-pass")

	wk := crypto.CreateWalletKey(pass)
	require.NotNil(t, wk)
	require.True(t, wk.IsLock())

	require.Error(t, wk.Unlock([]byte("wrong pass")))
	require.NoError(t, wk.Unlock(pass))
	require.False(t, wk.IsLock())

	msg := abytes.RandBytes(256)
	sig, err := wk.Sign(msg)
	require.NoError(t, err)
	require.True(t, wk.VerifySig(msg, sig))

	wk.Lock()
	require.True(t, wk.IsLock())
	_, err = wk.Sign(msg)
	require.Error(t, err)
}

func TestWalletKeySaveOpen(t *testing.T) {
	dir := filepath.Join(os.TempDir(), "walkey-test")
	os.MkdirAll(dir, 0o700)
	defer os.RemoveAll(dir)

	pass := []byte("mech-test-pass")
	wk0 := crypto.CreateWalletKey(pass)

	var buf bytes.Buffer
	_, err := wk0.Save(&buf)
	require.NoError(t, err)

	wk1, err := crypto.OpenWalletKey(&buf)
	require.NoError(t, err)
	require.Equal(t, wk0.Address, wk1.Address)
	require.True(t, wk1.IsLock())

	require.NoError(t, wk1.Unlock(pass))
	require.Equal(t, wk0.PubKey(), wk1.PubKey())
}

func TestCreateWalletKeyFiles(t *testing.T) {
	dir := filepath.Join(os.TempDir(), "walkey-files-test")
	os.MkdirAll(dir, 0o700)
	defer os.RemoveAll(dir)

	keys, err := crypto.CreateWalletKeyFiles([]byte("s3cr3t"), 3, dir)
	require.NoError(t, err)
	require.Equal(t, 3, len(keys))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Equal(t, 3, len(files))
}
