package app

import (
	"database/sql"

	"go.uber.org/dig"

	"github.com/evgeny-myasishchev/bank-ledger/config"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/api"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/dal"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/events"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/ledger"
)

// Injector is a function that will inject desired services
// to a target function
type Injector func(function interface{}) error

// BootstrapServices setup di container with all app services
func BootstrapServices(appCfg *config.Config) Injector {
	c := dig.New()

	mustProvide := func(constructor interface{}) {
		if err := c.Provide(constructor); err != nil {
			panic(err)
		}
	}

	mustProvide(func() (*sql.DB, error) {
		return dal.OpenDB(appCfg.Storage.Driver, appCfg.Storage.DSN)
	})

	mustProvide(func(db *sql.DB) (dal.Storage, error) {
		return dal.NewSQLStorage(dal.WithSQLDb(db))
	})

	mustProvide(func() (events.Publisher, error) {
		return events.NewPublisher(events.PublisherConfig{
			Driver:       appCfg.Events.Driver,
			KafkaBrokers: appCfg.Events.KafkaBrokers,
			KafkaTopic:   appCfg.Events.KafkaTopic,
			NATSURL:      appCfg.Events.NATSURL,
			NATSSubject:  appCfg.Events.NATSSubject,
		})
	})

	mustProvide(func(storage dal.Storage, publisher events.Publisher) ledger.Service {
		return ledger.NewService(storage,
			ledger.WithPublisher(publisher),
			ledger.WithBcryptCost(appCfg.Ledger.BcryptCost),
			ledger.WithHistoryMaxLimit(appCfg.Ledger.HistoryMaxLimit),
		)
	})

	mustProvide(api.NewHandlers)

	return func(function interface{}) error {
		return c.Invoke(function)
	}
}
