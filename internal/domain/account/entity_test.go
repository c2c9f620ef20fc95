package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalanceDelta(t *testing.T) {
	tests := []struct {
		name   string
		txType string
		amount int64
		want   int64
	}{
		{"income adds", TxIncome, 2500, 2500},
		{"expense subtracts", TxExpense, 2500, -2500},
		{"zero income", TxIncome, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BalanceDelta(tt.txType, tt.amount))
		})
	}
}
