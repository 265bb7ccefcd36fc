package config

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_setFieldValue(t *testing.T) {
	var target struct {
		Str   string
		Int   int
		Bool  bool
		Items []string
	}
	rv := reflect.ValueOf(&target).Elem()

	tests := []struct {
		name    string
		field   string
		value   interface{}
		wantErr string
	}{
		{name: "string", field: "Str", value: "val"},
		{name: "string bad", field: "Str", value: 10, wantErr: "Expected string value but got: 10(int)"},
		{name: "int from float", field: "Int", value: float64(42)},
		{name: "int from string", field: "Int", value: "42"},
		{name: "int bad", field: "Int", value: "nope", wantErr: "Expected int value but got: nope(string)"},
		{name: "bool", field: "Bool", value: true},
		{name: "bool from string", field: "Bool", value: "true"},
		{name: "bool bad", field: "Bool", value: "maybe", wantErr: "Expected bool value but got: maybe(string)"},
		{name: "items from csv", field: "Items", value: "a, b"},
		{name: "items bad", field: "Items", value: []interface{}{1}, wantErr: "Expected list of strings but got: [1]([]interface {})"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := setFieldValue(rv.FieldByName(tt.field), tt.value)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
	assert.Equal(t, "val", target.Str)
	assert.Equal(t, 42, target.Int)
	assert.True(t, target.Bool)
	assert.Equal(t, []string{"a", "b"}, target.Items)
}
