package config

import (
	"context"
	"flag"
	"os"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/lib-core-golang/diag"
)

const (
	appEnvVar = "APP_ENV"

	facetVar = "APP_ENV_FACET"

	clusterNameVar = "CLUSTER_NAME"

	awsSSMEndpointURLVar          = "AWS_SSM_ENDPOINT_URL"
	awsSSMEndpointTokenVar        = "AWS_SSM_ENDPOINT_TOKEN"
	awsSSMEndpointTokenHeaderName = "x-access-token"
)

var logger = diag.CreateLogger()

// AppEnv represents app env
type AppEnv struct {
	// ServiceName is a name of a current service
	ServiceName string

	// Name is a env name. By default taken from APP_ENV. Corresponds to NODE_ENV
	Name string

	// Facet is a env facet like preprod (for production). By default taken from APP_ENV_FACET
	Facet string

	// Name of a cluster where service is running
	ClusterName string
}

type appEnvCfg struct {
	lookupFlag func(name string) *flag.Flag
}

type appEnvOpt func(*appEnvCfg)

func withLookupFlag(lookupFlag func(name string) *flag.Flag) appEnvOpt {
	return func(cfg *appEnvCfg) {
		cfg.lookupFlag = lookupFlag
	}
}

// NewAppEnv creates a new instance of the app env from os env
// Will use "dev" by default or "test" when running tests
func NewAppEnv(serviceName string, opts ...appEnvOpt) AppEnv {
	cfg := appEnvCfg{
		lookupFlag: flag.Lookup,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	appEnv := os.Getenv(appEnvVar)
	if appEnv == "" {
		if v := cfg.lookupFlag("test.v"); v == nil {
			appEnv = "dev"
		} else {
			appEnv = "test"
		}
	}
	return AppEnv{
		Name:        appEnv,
		Facet:       os.Getenv(facetVar),
		ClusterName: os.Getenv(clusterNameVar),
		ServiceName: serviceName,
	}
}

// Source is an abstraction to read params
type Source interface {
	GetParameters(ctx context.Context, params []param) (map[paramID]interface{}, error)
}

// SourceFactory is a func that creates an instance of a source
type SourceFactory func() (Source, error)

type binding struct {
	sources        map[string]Source
	paramsBySource map[string][]param
}

func (b *binding) loadValues(ctx context.Context) error {
	for sourceName, sourceParams := range b.paramsBySource {
		source, ok := b.sources[sourceName]
		if !ok {
			return errors.Errorf("Source %v is not configured", sourceName)
		}
		values, err := source.GetParameters(ctx, sourceParams)
		if err != nil {
			return errors.Wrapf(err, "Failed to fetch from source %v", sourceName)
		}
		logger.WithData(diag.MsgData{
			"params": sourceParams,
		}).Debug(ctx, "Fetched %v (of %v requested) values from %v source", len(values), len(sourceParams), sourceName)
		for _, sourceParam := range sourceParams {
			value, ok := values[sourceParam.paramID]
			if !ok {
				return errors.Errorf("Parameter %v not found (source=%v)", sourceParam.paramID, sourceName)
			}
			if err := sourceParam.setValue(value); err != nil {
				return errors.Wrapf(err, "Failed to set parameter %v value (source=%v)", sourceParam.paramID, sourceName)
			}
		}
	}
	return nil
}

// BindOpt represents binding option
type BindOpt func(b *binding) error

// WithSource is a binding option that registers a named source
func WithSource(name string, factory SourceFactory) BindOpt {
	return func(b *binding) error {
		source, err := factory()
		if err != nil {
			return errors.Wrapf(err, "Failed to create source %v", name)
		}
		b.sources[name] = source
		return nil
	}
}

// Bind will populate fields of the receiver (pointer to struct) from sources.
// Fields are bound with the `config:"path/to/key"` tag, the source is selected
// with the `source:"name"` tag (local by default) and the service with `service:"name"`
func Bind(receiver interface{}, appEnv AppEnv, opts ...BindOpt) error {
	b := &binding{
		sources:        map[string]Source{},
		paramsBySource: map[string][]param{},
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return errors.Wrap(err, "Failed to process bind option")
		}
	}

	params, err := bindParamsToReceiver(receiver, appEnv.ServiceName)
	if err != nil {
		return err
	}

	for _, p := range params {
		b.paramsBySource[p.source] = append(b.paramsBySource[p.source], p)
	}

	ctx := diag.ContextWithRequestID(context.Background(), uuid.NewV4().String())
	logger.Info(ctx, "Loading config values")
	return b.loadValues(ctx)
}
