package models

import (
	"testing"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCents(t *testing.T) {
	tests := []struct {
		in   string
		want Cents
	}{
		{"19.99", 1999},
		{"$19.99", 1999},
		{" 0.1 ", 10},
		{"0.30", 30},
		{"5", 500},
		{"-0.5", -50},
		{"-$1.25", -125},
		{"92233720368547758.07", 9223372036854775807},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCents(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCents_Rejects(t *testing.T) {
	for _, in := range []string{"", "abc", "1.999", "$", "92233720368547758.08"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseCents(in)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestCents_String(t *testing.T) {
	assert.Equal(t, "$19.99", Cents(1999).String())
	assert.Equal(t, "$0.05", Cents(5).String())
	assert.Equal(t, "-$0.50", Cents(-50).String())
	assert.Equal(t, "$0.00", Cents(0).String())
}

// Sums of many small amounts stay exact.
func TestCents_NoFloatDrift(t *testing.T) {
	var total Cents
	for i := 0; i < 10; i++ {
		c, err := ParseCents("0.10")
		require.NoError(t, err)
		total += c
	}
	assert.Equal(t, Cents(100), total)
	assert.Equal(t, "$1.00", total.String())
}
