package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/middleware"
	"github.com/mmynk/groupledger/internal/storage"
)

var (
	errNotMember      = errors.New("caller is not a member of this group")
	errUnauthorized   = errors.New("authentication required")
	errMissingGroup   = errors.New("group_id required")
	errMissingExpense = errors.New("expense_id required")
)

// toConnectError maps domain errors to Connect codes. Consistency is checked
// before validation: a corrupted stored expense wraps the validation error
// that exposed it, and that is a server fault, not a caller one.
func toConnectError(op string, err error, attrs ...any) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	args := append([]any{"op", op, "error", err}, attrs...)
	switch {
	case errors.Is(err, calculator.ErrInconsistent):
		slog.Error("Ledger consistency failure", args...)
		return connect.NewError(connect.CodeInternal, fmt.Errorf("%s: ledger data is inconsistent", op))
	case errors.Is(err, calculator.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		slog.Error(op+" failed", args...)
		return connect.NewError(connect.CodeInternal, fmt.Errorf("%s failed", op))
	}
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// callerID returns the authenticated member, or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errUnauthorized)
	}
	return userID, nil
}
