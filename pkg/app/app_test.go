package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/api"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/dal"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/events"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/ledger"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig()
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, "sqlite3", cfg.Storage.Driver)
	assert.Equal(t, ":memory:", cfg.Storage.DSN)
	assert.Equal(t, "none", cfg.Events.Driver)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Events.KafkaBrokers)
	assert.Equal(t, 4, cfg.Ledger.BcryptCost)
	assert.Equal(t, 100, cfg.Ledger.HistoryMaxLimit)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestBootstrapServices(t *testing.T) {
	cfg, err := LoadConfig()
	if !assert.NoError(t, err) {
		return
	}
	injector := BootstrapServices(cfg)
	err = injector(func(storage dal.Storage, publisher events.Publisher, svc ledger.Service, handlers *api.Handlers) error {
		assert.NotNil(t, publisher)
		assert.NotNil(t, svc)
		assert.NotNil(t, handlers)
		return storage.Setup(context.Background())
	})
	assert.NoError(t, err)
}
