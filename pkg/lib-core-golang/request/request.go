package request

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/lib-core-golang/diag"
)

const requestIDHeader = "x-request-id"

var defaultLogger = diag.CreateLogger()

type sendCfg struct {
	logger  diag.Logger
	timeout time.Duration
}

// SendOpt is a send specific option
type SendOpt func(cfg *sendCfg)

// WithTimeout sets the timeout of the http client
func WithTimeout(timeout time.Duration) SendOpt {
	return func(cfg *sendCfg) {
		cfg.timeout = timeout
	}
}

// ReqFactory is a function that creates an instance of a request
type ReqFactory func() (*http.Request, error)

// Get creates a new req factory that creates a get request for given url
func Get(url string) ReqFactory {
	return func() (*http.Request, error) {
		return http.NewRequest("GET", url, nil)
	}
}

func jsonRequest(method string, url string, payload interface{}) ReqFactory {
	return func() (*http.Request, error) {
		var body io.Reader
		if payload != nil {
			data, err := json.Marshal(payload)
			if err != nil {
				return nil, errors.Wrap(err, "Failed to marshal payload")
			}
			body = bytes.NewReader(data)
		}
		req, err := http.NewRequest(method, url, body)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("content-type", "application/json")
		}
		return req, nil
	}
}

// Post creates a new req factory that creates a post request with json payload
func Post(url string, payload interface{}) ReqFactory {
	return jsonRequest("POST", url, payload)
}

// Put creates a new req factory that creates a put request with json payload
func Put(url string, payload interface{}) ReqFactory {
	return jsonRequest("PUT", url, payload)
}

// WithHeader returns a factory that adds a header to requests created by the current one
func (f ReqFactory) WithHeader(name string, value string) ReqFactory {
	return func() (*http.Request, error) {
		req, err := f()
		if err != nil {
			return nil, err
		}
		req.Header.Set(name, value)
		return req, nil
	}
}

// ResFactory is a function that holds a request result with a response or error
type ResFactory func() (*http.Response, error)

// ReadAll will read entire body as a byte array
func (f ResFactory) ReadAll() ([]byte, error) {
	res, err := f()
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return ioutil.ReadAll(res.Body)
}

// DecodeJSON will decode the response body into the receiver
func (f ResFactory) DecodeJSON(receiver interface{}) error {
	res, err := f()
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(receiver); err != nil {
		return errors.Wrap(err, "Failed to decode response")
	}
	return nil
}

func newResFactory(res *http.Response, err error) ResFactory {
	return func() (*http.Response, error) {
		if err != nil {
			return nil, err
		}
		if res.StatusCode >= 300 {
			return nil, NewHTTPErrorFromResponse(res)
		}
		return res, nil
	}
}

// Do will send the request. Will fail if response status is other than 2xx
func Do(ctx context.Context, factory ReqFactory, opts ...SendOpt) ResFactory {
	cfg := sendCfg{logger: defaultLogger, timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(&cfg)
	}
	httpClient := &http.Client{
		Transport: http.DefaultTransport,
		Timeout:   cfg.timeout,
	}
	req, err := factory()
	if err != nil {
		return newResFactory(nil, err)
	}
	if requestID := diag.RequestIDValue(ctx); requestID != "" {
		req.Header.Set(requestIDHeader, requestID)
	}
	req = req.WithContext(ctx)

	startedAt := time.Now()
	res, err := httpClient.Do(req)
	if err != nil {
		cfg.logger.WithError(err).Error(ctx, "%v %v failed", req.Method, req.URL)
		return newResFactory(nil, errors.Wrapf(err, "%v %v failed", req.Method, req.URL))
	}
	cfg.logger.WithData(diag.MsgData{
		"statusCode": res.StatusCode,
		"duration":   time.Since(startedAt).String(),
	}).Debug(ctx, "%v %v completed", req.Method, req.URL)
	return newResFactory(res, nil)
}
