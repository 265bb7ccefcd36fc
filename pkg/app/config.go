package app

import (
	"github.com/evgeny-myasishchev/bank-ledger/config"
	coreCfg "github.com/evgeny-myasishchev/bank-ledger/pkg/lib-core-golang/config"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/version"
)

// LoadConfig will load and initialize config
func LoadConfig(opts ...coreCfg.LocalOpt) (*config.Config, error) {
	appEnv := coreCfg.NewAppEnv(version.AppName)

	var cfg config.Config

	// When running locally using local source for remote params
	// Make sure to define sensible defaults
	if err := coreCfg.Bind(&cfg, appEnv,
		coreCfg.WithSource(coreCfg.LocalSourceName, coreCfg.LocalSource(appEnv, opts...)),
		coreCfg.WithSource(coreCfg.RemoteSourceName, coreCfg.RemoteSource(appEnv, opts...)),
	); err != nil {
		return nil, err
	}
	return &cfg, nil
}
