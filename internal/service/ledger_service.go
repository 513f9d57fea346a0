package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/money"
	api "github.com/mmynk/groupledger/pkg/api"
	"github.com/mmynk/groupledger/pkg/api/apiconnect"
)

// LedgerService exposes the stateless split and settlement calculators.
type LedgerService struct {
	apiconnect.UnimplementedLedgerServiceHandler
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService() *LedgerService {
	return &LedgerService{}
}

// ComputeSplit previews how an expense would be divided among a roster.
func (s *LedgerService) ComputeSplit(ctx context.Context, req *connect.Request[api.ComputeSplitRequest]) (*connect.Response[api.ComputeSplitResponse], error) {
	msg := req.Msg
	slog.Debug("ComputeSplit request received",
		"amount", msg.Amount.String(),
		"method", msg.SplitMethod,
		"participants", msg.SplitAmong,
	)

	draft, err := toDraft(msg.Amount, msg.PaidBy, msg.SplitMethod, msg.SplitAmong, msg.CustomAmounts)
	if err != nil {
		return nil, err
	}
	shares, err := calculator.ComputeSplit(msg.Members, draft)
	if err != nil {
		return nil, toConnectError("ComputeSplit", err)
	}

	return connect.NewResponse(&api.ComputeSplitResponse{Shares: toAPIShares(shares)}), nil
}

// ComputeSettlements turns caller-supplied balances into payments.
// Balances that do not net to zero are the caller's mistake here, so they
// are reported as InvalidArgument.
func (s *LedgerService) ComputeSettlements(ctx context.Context, req *connect.Request[api.ComputeSettlementsRequest]) (*connect.Response[api.ComputeSettlementsResponse], error) {
	balances, err := toBalances(req.Msg.Balances)
	if err != nil {
		return nil, err
	}

	settlements, err := calculator.ComputeSettlements(balances)
	if errors.Is(err, calculator.ErrInconsistent) {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err != nil {
		return nil, toConnectError("ComputeSettlements", err)
	}

	return connect.NewResponse(&api.ComputeSettlementsResponse{Settlements: toAPISettlements(settlements)}), nil
}

// toBalances checks the exact decimal sum first, then rounds each balance to
// cents and hands the rounding residual out one cent at a time in ascending
// member order so the result nets to zero.
func toBalances(in map[string]decimal.Decimal) (calculator.Balances, error) {
	sum := decimal.Zero
	for member, amount := range in {
		if member == "" {
			return nil, invalidArgument("balances: empty member name")
		}
		sum = sum.Add(amount)
	}
	if sum.Abs().GreaterThanOrEqual(money.EpsilonDecimal) {
		return nil, invalidArgument("balances sum to %s, want 0", sum.String())
	}

	balances := make(calculator.Balances, len(in))
	for member, amount := range in {
		cents, err := money.FromDecimal(amount)
		if err != nil {
			return nil, invalidArgument("balance for %q: %v", member, err)
		}
		balances[member] = cents
	}

	members := balances.Members()
	residual := -balances.Sum()
	for i := 0; residual != 0 && len(members) > 0; i++ {
		step := money.Cents(1)
		if residual < 0 {
			step = -1
		}
		balances[members[i%len(members)]] += step
		residual -= step
	}
	return balances, nil
}
