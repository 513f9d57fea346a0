package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	api "github.com/mmynk/groupledger/pkg/api"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
const ExpenseServiceName = "groupledger.v1.ExpenseService"

const (
	// ExpenseServiceCreateExpenseProcedure is the fully-qualified name of the ExpenseService's
	// CreateExpense RPC.
	ExpenseServiceCreateExpenseProcedure = "/groupledger.v1.ExpenseService/CreateExpense"
	// ExpenseServiceGetExpenseProcedure is the fully-qualified name of the ExpenseService's
	// GetExpense RPC.
	ExpenseServiceGetExpenseProcedure = "/groupledger.v1.ExpenseService/GetExpense"
	// ExpenseServiceDeleteExpenseProcedure is the fully-qualified name of the ExpenseService's
	// DeleteExpense RPC.
	ExpenseServiceDeleteExpenseProcedure = "/groupledger.v1.ExpenseService/DeleteExpense"
	// ExpenseServiceListExpensesByGroupProcedure is the fully-qualified name of the ExpenseService's
	// ListExpensesByGroup RPC.
	ExpenseServiceListExpensesByGroupProcedure = "/groupledger.v1.ExpenseService/ListExpensesByGroup"
)

// ExpenseServiceClient is a client for the groupledger.v1.ExpenseService service.
type ExpenseServiceClient interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ListExpensesByGroup(context.Context, *connect.Request[api.ListExpensesByGroupRequest]) (*connect.Response[api.ListExpensesByGroupResponse], error)
}

// NewExpenseServiceClient constructs a client for the groupledger.v1.ExpenseService service.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &expenseServiceClient{
		createExpense: connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](
			httpClient, baseURL+ExpenseServiceCreateExpenseProcedure, opts...,
		),
		getExpense: connect.NewClient[api.GetExpenseRequest, api.GetExpenseResponse](
			httpClient, baseURL+ExpenseServiceGetExpenseProcedure, opts...,
		),
		deleteExpense: connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](
			httpClient, baseURL+ExpenseServiceDeleteExpenseProcedure, opts...,
		),
		listExpensesByGroup: connect.NewClient[api.ListExpensesByGroupRequest, api.ListExpensesByGroupResponse](
			httpClient, baseURL+ExpenseServiceListExpensesByGroupProcedure, opts...,
		),
	}
}

type expenseServiceClient struct {
	createExpense       *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	getExpense          *connect.Client[api.GetExpenseRequest, api.GetExpenseResponse]
	deleteExpense       *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	listExpensesByGroup *connect.Client[api.ListExpensesByGroupRequest, api.ListExpensesByGroupResponse]
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpensesByGroup(ctx context.Context, req *connect.Request[api.ListExpensesByGroupRequest]) (*connect.Response[api.ListExpensesByGroupResponse], error) {
	return c.listExpensesByGroup.CallUnary(ctx, req)
}

// ExpenseServiceHandler is an implementation of the groupledger.v1.ExpenseService service.
type ExpenseServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ListExpensesByGroup(context.Context, *connect.Request[api.ListExpensesByGroupRequest]) (*connect.Response[api.ListExpensesByGroupResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler from the service implementation. It returns the
// path on which to mount the handler and the handler itself.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createExpenseHandler := connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...)
	getExpenseHandler := connect.NewUnaryHandler(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts...)
	deleteExpenseHandler := connect.NewUnaryHandler(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...)
	listExpensesByGroupHandler := connect.NewUnaryHandler(ExpenseServiceListExpensesByGroupProcedure, svc.ListExpensesByGroup, opts...)
	return "/groupledger.v1.ExpenseService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ExpenseServiceCreateExpenseProcedure:
			createExpenseHandler.ServeHTTP(w, r)
		case ExpenseServiceGetExpenseProcedure:
			getExpenseHandler.ServeHTTP(w, r)
		case ExpenseServiceDeleteExpenseProcedure:
			deleteExpenseHandler.ServeHTTP(w, r)
		case ExpenseServiceListExpensesByGroupProcedure:
			listExpensesByGroupHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedExpenseServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedExpenseServiceHandler struct{}

func (UnimplementedExpenseServiceHandler) CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupledger.v1.ExpenseService.CreateExpense is not implemented"))
}

func (UnimplementedExpenseServiceHandler) GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupledger.v1.ExpenseService.GetExpense is not implemented"))
}

func (UnimplementedExpenseServiceHandler) DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupledger.v1.ExpenseService.DeleteExpense is not implemented"))
}

func (UnimplementedExpenseServiceHandler) ListExpensesByGroup(context.Context, *connect.Request[api.ListExpensesByGroupRequest]) (*connect.Response[api.ListExpensesByGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupledger.v1.ExpenseService.ListExpensesByGroup is not implemented"))
}
