package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1,200.00", "1200"},
		{"350", "350"},
		{"฿1,999.50", "1999.5"},
		{"  42.00 ", "42"},
		{"-15.25", "-15.25"},
		{"free", "0"},
		{"", "0"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseAmount(tc.in).String())
		})
	}
}

func TestAmountUnmarshalJSON(t *testing.T) {
	var payload struct {
		Total Amount `json:"total_price"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"total_price": "1,200.00"}`), &payload))
	assert.Equal(t, "1200", payload.Total.String())

	require.NoError(t, json.Unmarshal([]byte(`{"total_price": 350}`), &payload))
	assert.Equal(t, "350", payload.Total.String())

	require.NoError(t, json.Unmarshal([]byte(`{"total_price": null}`), &payload))
	assert.True(t, payload.Total.IsZero(), "unparsable totals decode as zero")
}

func TestAmountMarshalJSON(t *testing.T) {
	out, err := json.Marshal(ParseAmount("1,534.50"))
	require.NoError(t, err)
	assert.Equal(t, "1534.5", string(out))
}

func TestAmountArithmetic(t *testing.T) {
	gross := ParseAmount("1,200.00").Add(AmountFromInt(350))
	assert.Equal(t, "1550", gross.String())
	assert.Equal(t, "1500", gross.Sub(AmountFromInt(50)).String())
	assert.Equal(t, "700", AmountFromInt(350).MulInt(2).String())
}
