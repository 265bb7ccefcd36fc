package config

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

const (
	// LocalSourceName is a name of a source used for params with no source tag
	LocalSourceName = "local"

	// RemoteSourceName is a conventional name of a remote source
	RemoteSourceName = "remote"
)

type paramID struct {
	key     string
	service string
}

func (id paramID) String() string {
	return "{key: " + id.key + "; service: " + id.service + "}"
}

type param struct {
	paramID
	source string
	target reflect.Value
}

func (p param) setValue(newVal interface{}) error {
	return setFieldValue(p.target, newVal)
}

func bindParamsToReceiver(receiver interface{}, serviceName string) ([]param, error) {
	rv := reflect.ValueOf(receiver)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, errors.Errorf("Expected pointer to struct but got: %T", receiver)
	}
	return collectParams(rv.Elem(), serviceName, "", LocalSourceName)
}

func collectParams(rv reflect.Value, serviceName string, prefix string, defaultSource string) ([]param, error) {
	rt := rv.Type()
	params := []param{}
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		key, ok := field.Tag.Lookup("config")
		if !ok {
			continue
		}
		if field.PkgPath != "" {
			return nil, errors.Errorf("Field %v is not exported", field.Name)
		}
		source := defaultSource
		if tagSource, ok := field.Tag.Lookup("source"); ok {
			source = tagSource
		}
		fieldService := serviceName
		if tagService, ok := field.Tag.Lookup("service"); ok {
			fieldService = tagService
		}
		fullKey := strings.TrimPrefix(prefix+"/"+key, "/")

		if field.Type.Kind() == reflect.Struct {
			nested, err := collectParams(rv.Field(i), fieldService, fullKey, source)
			if err != nil {
				return nil, err
			}
			params = append(params, nested...)
			continue
		}
		if !isSupportedKind(field.Type) {
			return nil, errors.Errorf("Field %v has unsupported type %v", field.Name, field.Type)
		}
		params = append(params, param{
			paramID: paramID{key: fullKey, service: fieldService},
			source:  source,
			target:  rv.Field(i),
		})
	}
	return params, nil
}
