package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

func isSupportedKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Bool, reflect.Int, reflect.Int64:
		return true
	case reflect.Slice:
		return t.Elem().Kind() == reflect.String
	}
	return false
}

func setFieldValue(target reflect.Value, newVal interface{}) error {
	switch target.Kind() {
	case reflect.String:
		strVal, ok := newVal.(string)
		if !ok {
			return fmt.Errorf("Expected string value but got: %v(%[1]T)", newVal)
		}
		target.SetString(strVal)
		return nil
	case reflect.Int, reflect.Int64:
		intVal, ok := toInt(newVal)
		if !ok {
			return fmt.Errorf("Expected int value but got: %v(%[1]T)", newVal)
		}
		target.SetInt(intVal)
		return nil
	case reflect.Bool:
		switch v := newVal.(type) {
		case bool:
			target.SetBool(v)
			return nil
		case string:
			if boolVal, err := strconv.ParseBool(v); err == nil {
				target.SetBool(boolVal)
				return nil
			}
		}
		return fmt.Errorf("Expected bool value but got: %v(%[1]T)", newVal)
	case reflect.Slice:
		items, ok := toStrings(newVal)
		if !ok {
			return fmt.Errorf("Expected list of strings but got: %v(%[1]T)", newVal)
		}
		target.Set(reflect.ValueOf(items))
		return nil
	}
	return fmt.Errorf("Unsupported target type: %v", target.Type())
}

func toInt(val interface{}) (int64, bool) {
	switch v := val.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float32:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		if intVal, err := strconv.ParseInt(v, 10, 64); err == nil {
			return intVal, true
		}
	}
	return 0, false
}

// Lists may come from json arrays or from comma separated env values
func toStrings(val interface{}) ([]string, bool) {
	switch v := val.(type) {
	case []string:
		return v, true
	case string:
		if v == "" {
			return []string{}, true
		}
		parts := strings.Split(v, ",")
		for i, part := range parts {
			parts[i] = strings.TrimSpace(part)
		}
		return parts, true
	case []interface{}:
		items := make([]string, 0, len(v))
		for _, item := range v {
			strItem, ok := item.(string)
			if !ok {
				return nil, false
			}
			items = append(items, strItem)
		}
		return items, true
	}
	return nil, false
}
