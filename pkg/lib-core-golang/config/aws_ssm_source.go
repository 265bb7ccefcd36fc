package config

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/pkg/errors"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/lib-core-golang/diag"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/version"
)

// SSM rejects GetParameters requests with more names
const ssmMaxNamesPerRequest = 10

type ssmClient interface {
	GetParametersWithContext(ctx aws.Context, input *ssm.GetParametersInput, opts ...request.Option) (*ssm.GetParametersOutput, error)
}

type ssmClientAuthTokenMiddleware func(req *http.Request) (*http.Response, error)

func (rt ssmClientAuthTokenMiddleware) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req)
}

func newSSMClientAuthTokenMiddleware(authToken string, next http.RoundTripper) http.RoundTripper {
	return ssmClientAuthTokenMiddleware(func(req *http.Request) (*http.Response, error) {
		req.Header.Add(awsSSMEndpointTokenHeaderName, authToken)
		// for debugging purposes mostly
		req.Header.Add("x-requested-by", version.AppName+"("+version.Version+")")
		return next.RoundTrip(req)
	})
}

func newSSMClient() (ssmClient, error) {
	s, err := session.NewSession()
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create aws session")
	}

	clientCfg := aws.NewConfig()

	if configURL := os.Getenv(awsSSMEndpointURLVar); configURL != "" {
		logger.Info(nil, "Using service config: %v", configURL)
		httpClient := &http.Client{
			Transport: newSSMClientAuthTokenMiddleware(
				os.Getenv(awsSSMEndpointTokenVar),
				http.DefaultTransport,
			),
		}
		clientCfg = clientCfg.
			WithEndpoint(configURL).
			WithHTTPClient(httpClient)
	}

	return ssm.New(s, clientCfg), nil
}

type awsSSMSource struct {
	appEnv    AppEnv
	ssmClient ssmClient
}

type paramValuePrio struct {
	id   paramID
	prio int
}

func (s *awsSSMSource) GetParameters(ctx context.Context, params []param) (map[paramID]interface{}, error) {
	envName := s.appEnv.Name
	clusterName := s.appEnv.ClusterName
	names := make([]*string, 0, len(params)*2)

	nameToScore := make(map[string]*paramValuePrio, len(params))
	clusterNameToScore := make(map[string]*paramValuePrio, len(params))

	for _, p := range params {
		serviceScopedName := "/" + envName + "/" + p.service + "/" + p.key
		names = append(names, aws.String(serviceScopedName))
		score := &paramValuePrio{id: p.paramID}
		nameToScore[serviceScopedName] = score
		if clusterName != "" {
			clusterScopedName := "/" + envName + "/" + clusterName + "/" + p.service + "/" + p.key
			names = append(names, aws.String(clusterScopedName))
			clusterNameToScore[clusterScopedName] = score
		}
	}
	logger.WithData(diag.MsgData{"paths": names}).Debug(ctx, "Attempting to get SSM parameters")

	result := make(map[paramID]interface{}, len(params))
	for start := 0; start < len(names); start += ssmMaxNamesPerRequest {
		end := start + ssmMaxNamesPerRequest
		if end > len(names) {
			end = len(names)
		}
		output, err := s.ssmClient.GetParametersWithContext(ctx, &ssm.GetParametersInput{
			Names:          names[start:end],
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return nil, errors.Wrap(err, "Failed to get SSM parameters")
		}
		for _, awsParam := range output.Parameters {
			// cluster scoped values win over service scoped
			if score, ok := nameToScore[*awsParam.Name]; ok && score.prio < 1 {
				result[score.id] = *awsParam.Value
				score.prio = 1
			}
			if score, ok := clusterNameToScore[*awsParam.Name]; ok {
				result[score.id] = *awsParam.Value
				score.prio = 2
			}
		}
	}
	return result, nil
}

// AwsSSMOpt is an option of an aws ssm source
type AwsSSMOpt func(s *awsSSMSource)

// AwsSSMOpts are options of an aws ssm source
var AwsSSMOpts = struct {
	// WithAppEnv option will set the app env
	WithAppEnv func(appEnv AppEnv) AwsSSMOpt

	withSSMClient func(client ssmClient) AwsSSMOpt
}{
	WithAppEnv: func(appEnv AppEnv) AwsSSMOpt {
		return func(s *awsSSMSource) {
			s.appEnv = appEnv
		}
	},
	withSSMClient: func(client ssmClient) AwsSSMOpt {
		return func(s *awsSSMSource) {
			s.ssmClient = client
		}
	},
}

// NewAWSSSMSource creates a source factory for a source that reads params from aws SSM
func NewAWSSSMSource(opts ...AwsSSMOpt) SourceFactory {
	return func() (Source, error) {
		source := &awsSSMSource{}

		for _, opt := range opts {
			opt(source)
		}

		if source.ssmClient == nil {
			client, err := newSSMClient()
			if err != nil {
				return nil, err
			}
			source.ssmClient = client
		}

		return source, nil
	}
}
