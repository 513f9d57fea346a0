package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	api "github.com/mmynk/groupledger/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "groupledger.v1.LedgerService"

const (
	// LedgerServiceComputeSplitProcedure is the fully-qualified name of the LedgerService's
	// ComputeSplit RPC.
	LedgerServiceComputeSplitProcedure = "/groupledger.v1.LedgerService/ComputeSplit"
	// LedgerServiceComputeSettlementsProcedure is the fully-qualified name of the LedgerService's
	// ComputeSettlements RPC.
	LedgerServiceComputeSettlementsProcedure = "/groupledger.v1.LedgerService/ComputeSettlements"
)

// LedgerServiceClient is a client for the groupledger.v1.LedgerService service.
type LedgerServiceClient interface {
	ComputeSplit(context.Context, *connect.Request[api.ComputeSplitRequest]) (*connect.Response[api.ComputeSplitResponse], error)
	ComputeSettlements(context.Context, *connect.Request[api.ComputeSettlementsRequest]) (*connect.Response[api.ComputeSettlementsResponse], error)
}

// NewLedgerServiceClient constructs a client for the groupledger.v1.LedgerService service.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		computeSplit: connect.NewClient[api.ComputeSplitRequest, api.ComputeSplitResponse](
			httpClient, baseURL+LedgerServiceComputeSplitProcedure, opts...,
		),
		computeSettlements: connect.NewClient[api.ComputeSettlementsRequest, api.ComputeSettlementsResponse](
			httpClient, baseURL+LedgerServiceComputeSettlementsProcedure, opts...,
		),
	}
}

type ledgerServiceClient struct {
	computeSplit       *connect.Client[api.ComputeSplitRequest, api.ComputeSplitResponse]
	computeSettlements *connect.Client[api.ComputeSettlementsRequest, api.ComputeSettlementsResponse]
}

func (c *ledgerServiceClient) ComputeSplit(ctx context.Context, req *connect.Request[api.ComputeSplitRequest]) (*connect.Response[api.ComputeSplitResponse], error) {
	return c.computeSplit.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ComputeSettlements(ctx context.Context, req *connect.Request[api.ComputeSettlementsRequest]) (*connect.Response[api.ComputeSettlementsResponse], error) {
	return c.computeSettlements.CallUnary(ctx, req)
}

// LedgerServiceHandler is an implementation of the groupledger.v1.LedgerService service.
type LedgerServiceHandler interface {
	ComputeSplit(context.Context, *connect.Request[api.ComputeSplitRequest]) (*connect.Response[api.ComputeSplitResponse], error)
	ComputeSettlements(context.Context, *connect.Request[api.ComputeSettlementsRequest]) (*connect.Response[api.ComputeSettlementsResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation. It returns the
// path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	computeSplitHandler := connect.NewUnaryHandler(LedgerServiceComputeSplitProcedure, svc.ComputeSplit, opts...)
	computeSettlementsHandler := connect.NewUnaryHandler(LedgerServiceComputeSettlementsProcedure, svc.ComputeSettlements, opts...)
	return "/groupledger.v1.LedgerService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceComputeSplitProcedure:
			computeSplitHandler.ServeHTTP(w, r)
		case LedgerServiceComputeSettlementsProcedure:
			computeSettlementsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) ComputeSplit(context.Context, *connect.Request[api.ComputeSplitRequest]) (*connect.Response[api.ComputeSplitResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupledger.v1.LedgerService.ComputeSplit is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ComputeSettlements(context.Context, *connect.Request[api.ComputeSettlementsRequest]) (*connect.Response[api.ComputeSettlementsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupledger.v1.LedgerService.ComputeSettlements is not implemented"))
}
