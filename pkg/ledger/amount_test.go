package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw      string
		want     string
		wantKind Kind
	}{
		{raw: "10", want: "10"},
		{raw: " 10.50 ", want: "10.5"},
		{raw: "-1", want: "-1"},
		{raw: "abc", wantKind: KindInvalidInput},
		{raw: "", wantKind: KindInvalidInput},
		{raw: "1e2", want: "100"},
		{raw: "1e18", want: "1000000000000000000"},
		{raw: "1e1000000", wantKind: KindInvalidInput},
		{raw: "1e100000000", wantKind: KindInvalidInput},
		{raw: "1e-1000000", wantKind: KindInvalidInput},
		{raw: "1234567890123456789012345678901234567890", wantKind: KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, KindOf(err))
				return
			}
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func Test_toMinorUnits(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		allowZero bool
		want      int64
		wantErr   bool
	}{
		{name: "whole", amount: "1000", want: 100000},
		{name: "cents", amount: "10.05", want: 1005},
		{name: "trailing zeros", amount: "10.500", want: 1050},
		{name: "zero not allowed", amount: "0", wantErr: true},
		{name: "zero allowed", amount: "0", allowZero: true, want: 0},
		{name: "negative", amount: "-5", allowZero: true, wantErr: true},
		{name: "sub minor unit", amount: "0.001", wantErr: true},
		{name: "too large", amount: "92233720368547758.08", wantErr: true},
		{name: "huge exponent", amount: "1e1000000", wantErr: true},
		{name: "tiny exponent", amount: "1e-1000000", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toMinorUnits(dec(tt.amount), tt.allowZero)
			if tt.wantErr {
				assert.Equal(t, KindInvalidInput, KindOf(err))
				return
			}
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, tt.want, got)
			assert.True(t, dec(tt.amount).Equal(fromMinorUnits(got)))
		})
	}
}

func TestParseAmount_HugeExponentIsRejectedQuickly(t *testing.T) {
	startedAt := time.Now()
	amount, err := ParseAmount("1e100000000")
	if err == nil {
		_, err = toMinorUnits(amount, false)
	}
	assert.Equal(t, KindInvalidInput, KindOf(err))
	assert.Less(t, time.Since(startedAt), time.Second)
}
