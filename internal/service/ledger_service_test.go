package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/groupledger/internal/money"
	api "github.com/mmynk/groupledger/pkg/api"
)

func TestLedgerService_ComputeSplit(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *api.ComputeSplitRequest
		want    map[string]string
		wantErr bool
	}{
		{
			name: "equal split of 10 among 3",
			req: &api.ComputeSplitRequest{
				Members: []string{"A", "B", "C"}, Amount: dec("10"), PaidBy: "A",
				SplitAmong: []string{"C", "B", "A"},
			},
			want: map[string]string{"A": "3.34", "B": "3.33", "C": "3.33"},
		},
		{
			name: "custom within tolerance",
			req: &api.ComputeSplitRequest{
				Members: []string{"A", "B"}, Amount: dec("10"), PaidBy: "B",
				SplitMethod: "custom", SplitAmong: []string{"A", "B"},
				CustomAmounts: map[string]decimal.Decimal{"A": dec("4.999"), "B": dec("5")},
			},
			want: map[string]string{"A": "5.00", "B": "5.00"},
		},
		{
			name: "amount that overflows cents",
			req: &api.ComputeSplitRequest{
				Members: []string{"A", "B"}, Amount: dec("184467440737095516.17"), PaidBy: "A",
				SplitAmong: []string{"A", "B"},
			},
			wantErr: true,
		},
		{
			name: "payer outside roster",
			req: &api.ComputeSplitRequest{
				Members: []string{"A"}, Amount: dec("10"), PaidBy: "Z", SplitAmong: []string{"A"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := srv.ledger.ComputeSplit(ctx, connect.NewRequest(tt.req))
			if tt.wantErr {
				requireCode(t, err, connect.CodeInvalidArgument)
				return
			}
			require.NoError(t, err)

			got := make(map[string]string)
			for _, s := range resp.Msg.Shares {
				got[s.Member] = s.Amount.StringFixed(2)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLedgerService_ComputeSettlements(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	resp, err := srv.ledger.ComputeSettlements(ctx, connect.NewRequest(&api.ComputeSettlementsRequest{
		Balances: map[string]decimal.Decimal{
			"Alice": dec("50"), "Bob": dec("-20"), "Charlie": dec("-30"), "Diana": dec("0"),
		},
	}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Settlements, 2)
	assert.Equal(t, "Charlie", resp.Msg.Settlements[0].From)
	assert.Equal(t, "Alice", resp.Msg.Settlements[0].To)
	assert.True(t, resp.Msg.Settlements[0].Amount.Equal(dec("30")))
	assert.Equal(t, "Bob", resp.Msg.Settlements[1].From)

	_, err = srv.ledger.ComputeSettlements(ctx, connect.NewRequest(&api.ComputeSettlementsRequest{
		Balances: map[string]decimal.Decimal{"Alice": dec("10"), "Bob": dec("-5")},
	}))
	requireCode(t, err, connect.CodeInvalidArgument)

	resp, err = srv.ledger.ComputeSettlements(ctx, connect.NewRequest(&api.ComputeSettlementsRequest{}))
	require.NoError(t, err)
	assert.Empty(t, resp.Msg.Settlements)

	t.Run("sub-cent balances that net to zero", func(t *testing.T) {
		resp, err := srv.ledger.ComputeSettlements(ctx, connect.NewRequest(&api.ComputeSettlementsRequest{
			Balances: map[string]decimal.Decimal{"A": dec("0.005"), "B": dec("0.005"), "C": dec("-0.01")},
		}))
		require.NoError(t, err)
		require.Len(t, resp.Msg.Settlements, 1)
		assert.Equal(t, "C", resp.Msg.Settlements[0].From)
		assert.Equal(t, "B", resp.Msg.Settlements[0].To)
		assert.True(t, resp.Msg.Settlements[0].Amount.Equal(dec("0.01")))
	})

	t.Run("balance that overflows cents", func(t *testing.T) {
		_, err := srv.ledger.ComputeSettlements(ctx, connect.NewRequest(&api.ComputeSettlementsRequest{
			Balances: map[string]decimal.Decimal{
				"A": dec("184467440737095516.17"), "B": dec("-184467440737095516.17"),
			},
		}))
		requireCode(t, err, connect.CodeInvalidArgument)
	})
}

func TestToBalances_ReconcilesRounding(t *testing.T) {
	got, err := toBalances(map[string]decimal.Decimal{
		"A": dec("0.333"), "B": dec("0.333"), "C": dec("0.334"), "D": dec("-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(0), got.Sum())
	assert.Equal(t, money.Cents(-100), got["D"])
}
