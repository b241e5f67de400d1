package commands

import (
	"path/filepath"

	cfg "github.com/ReageMeuFilho/octant-v2-core-sub005/cmd/config"
	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/genesis"
	acrypto "github.com/ReageMeuFilho/octant-v2-core-sub005/types/crypto"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"
	"github.com/tendermint/tendermint/p2p"
	"github.com/tendermint/tendermint/privval"
	tmtypes "github.com/tendermint/tendermint/types"
)

var (
	chainID      = "mechnet"
	holderCnt    = 3
	walkeySecret string
)

func NewInitFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a node: node key, validator key, wallet keys and genesis file",
		RunE:  initFiles,
	}
	AddInitFlags(cmd)
	return cmd
}

func AddInitFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&chainID, "chain_id", chainID,
		"the id of chain to generate")
	cmd.Flags().IntVar(&holderCnt, "holders", holderCnt,
		"the number of genesis asset holder accounts to generate; "+
			"their wallet keys are saved under $MECHHOME/walkeys")
	cmd.Flags().StringVar(&walkeySecret, "secret", "",
		"passphrase to encrypt the generated wallet keys")
}

func initFiles(cmd *cobra.Command, args []string) error {
	s := []byte(walkeySecret)
	walkeySecret = ""
	return InitFilesWith(chainID, config, s)
}

func defaultHolderBalance() *uint256.Int {
	return uint256.MustFromDecimal("1000000000000000000000000") // 1_000_000 * 10^18
}

func InitFilesWith(chainId string, config *cfg.Config, secret []byte) error {
	// private validator
	privValKeyFile := config.PrivValidatorKeyFile()
	privValStateFile := config.PrivValidatorStateFile()
	var pv *privval.FilePV
	if tmos.FileExists(privValKeyFile) {
		pv = privval.LoadFilePV(privValKeyFile, privValStateFile)
		logger.Info("Found private validator", "keyFile", privValKeyFile, "stateFile", privValStateFile)
	} else {
		pv = privval.GenFilePV(privValKeyFile, privValStateFile)
		pv.Save()
		logger.Info("Generated private validator", "keyFile", privValKeyFile, "stateFile", privValStateFile)
	}

	nodeKeyFile := config.NodeKeyFile()
	if tmos.FileExists(nodeKeyFile) {
		logger.Info("Found node key", "path", nodeKeyFile)
	} else {
		if _, err := p2p.LoadOrGenNodeKey(nodeKeyFile); err != nil {
			return err
		}
		logger.Info("Generated node key", "path", nodeKeyFile)
	}

	genFile := config.GenesisFile()
	if tmos.FileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
		return nil
	}

	walkeyDir := filepath.Join(config.RootDir, acrypto.DefaultWalletKeyDir)
	if err := tmos.EnsureDir(walkeyDir, acrypto.DefaultWalletKeyDirPerm); err != nil {
		return err
	}
	walkeys, err := acrypto.CreateWalletKeyFiles(secret, holderCnt, walkeyDir)
	if err != nil {
		return err
	}

	holders := make([]*genesis.GenesisAssetHolder, len(walkeys))
	for i, wk := range walkeys {
		if err := wk.Unlock(secret); err != nil {
			return err
		}
		holders[i] = &genesis.GenesisAssetHolder{
			Address: wk.Address,
			Balance: defaultHolderBalance(),
		}
	}
	defer func() {
		for _, wk := range walkeys {
			wk.Lock()
		}
	}()

	// the first generated holder administers the mechanism
	params := ctrlertypes.DefaultMechParams()
	params.SetOwner(walkeys[0].Address)

	pubKey, err := pv.GetPubKey()
	if err != nil {
		return err
	}
	valset := []tmtypes.GenesisValidator{{
		Address: pubKey.Address(),
		PubKey:  pubKey,
		Power:   10,
	}}

	genDoc, err := genesis.NewGenesisDoc(chainId, valset, genesis.NewGenesisAppState(holders, params))
	if err != nil {
		return err
	}
	if err := genDoc.SaveAs(genFile); err != nil {
		return err
	}
	logger.Info("Generated genesis file", "path", genFile)
	return nil
}
