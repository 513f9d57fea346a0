package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	api "github.com/mmynk/groupledger/pkg/api"
)

// GroupServiceName is the fully-qualified name of the GroupService service.
const GroupServiceName = "groupledger.v1.GroupService"

const (
	// GroupServiceCreateGroupProcedure is the fully-qualified name of the GroupService's
	// CreateGroup RPC.
	GroupServiceCreateGroupProcedure = "/groupledger.v1.GroupService/CreateGroup"
	// GroupServiceGetGroupProcedure is the fully-qualified name of the GroupService's
	// GetGroup RPC.
	GroupServiceGetGroupProcedure = "/groupledger.v1.GroupService/GetGroup"
	// GroupServiceListGroupsProcedure is the fully-qualified name of the GroupService's
	// ListGroups RPC.
	GroupServiceListGroupsProcedure = "/groupledger.v1.GroupService/ListGroups"
	// GroupServiceDeleteGroupProcedure is the fully-qualified name of the GroupService's
	// DeleteGroup RPC.
	GroupServiceDeleteGroupProcedure = "/groupledger.v1.GroupService/DeleteGroup"
	// GroupServiceGetGroupBalancesProcedure is the fully-qualified name of the GroupService's
	// GetGroupBalances RPC.
	GroupServiceGetGroupBalancesProcedure = "/groupledger.v1.GroupService/GetGroupBalances"
	// GroupServiceGetGroupAnalyticsProcedure is the fully-qualified name of the GroupService's
	// GetGroupAnalytics RPC.
	GroupServiceGetGroupAnalyticsProcedure = "/groupledger.v1.GroupService/GetGroupAnalytics"
	// GroupServiceGetUserAnalyticsProcedure is the fully-qualified name of the GroupService's
	// GetUserAnalytics RPC.
	GroupServiceGetUserAnalyticsProcedure = "/groupledger.v1.GroupService/GetUserAnalytics"
)

// GroupServiceClient is a client for the groupledger.v1.GroupService service.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	GetGroupAnalytics(context.Context, *connect.Request[api.GetGroupAnalyticsRequest]) (*connect.Response[api.GetGroupAnalyticsResponse], error)
	GetUserAnalytics(context.Context, *connect.Request[api.GetUserAnalyticsRequest]) (*connect.Response[api.GetUserAnalyticsResponse], error)
}

// NewGroupServiceClient constructs a client for the groupledger.v1.GroupService service.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &groupServiceClient{
		createGroup: connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](
			httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...,
		),
		getGroup: connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](
			httpClient, baseURL+GroupServiceGetGroupProcedure, opts...,
		),
		listGroups: connect.NewClient[api.ListGroupsRequest, api.ListGroupsResponse](
			httpClient, baseURL+GroupServiceListGroupsProcedure, opts...,
		),
		deleteGroup: connect.NewClient[api.DeleteGroupRequest, api.DeleteGroupResponse](
			httpClient, baseURL+GroupServiceDeleteGroupProcedure, opts...,
		),
		getGroupBalances: connect.NewClient[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse](
			httpClient, baseURL+GroupServiceGetGroupBalancesProcedure, opts...,
		),
		getGroupAnalytics: connect.NewClient[api.GetGroupAnalyticsRequest, api.GetGroupAnalyticsResponse](
			httpClient, baseURL+GroupServiceGetGroupAnalyticsProcedure, opts...,
		),
		getUserAnalytics: connect.NewClient[api.GetUserAnalyticsRequest, api.GetUserAnalyticsResponse](
			httpClient, baseURL+GroupServiceGetUserAnalyticsProcedure, opts...,
		),
	}
}

type groupServiceClient struct {
	createGroup       *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup          *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listGroups        *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	deleteGroup       *connect.Client[api.DeleteGroupRequest, api.DeleteGroupResponse]
	getGroupBalances  *connect.Client[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse]
	getGroupAnalytics *connect.Client[api.GetGroupAnalyticsRequest, api.GetGroupAnalyticsResponse]
	getUserAnalytics  *connect.Client[api.GetUserAnalyticsRequest, api.GetUserAnalyticsResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroupAnalytics(ctx context.Context, req *connect.Request[api.GetGroupAnalyticsRequest]) (*connect.Response[api.GetGroupAnalyticsResponse], error) {
	return c.getGroupAnalytics.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetUserAnalytics(ctx context.Context, req *connect.Request[api.GetUserAnalyticsRequest]) (*connect.Response[api.GetUserAnalyticsResponse], error) {
	return c.getUserAnalytics.CallUnary(ctx, req)
}

// GroupServiceHandler is an implementation of the groupledger.v1.GroupService service.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	GetGroupAnalytics(context.Context, *connect.Request[api.GetGroupAnalyticsRequest]) (*connect.Response[api.GetGroupAnalyticsResponse], error)
	GetUserAnalytics(context.Context, *connect.Request[api.GetUserAnalyticsRequest]) (*connect.Response[api.GetUserAnalyticsResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation. It returns the
// path on which to mount the handler and the handler itself.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createGroupHandler := connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...)
	getGroupHandler := connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...)
	listGroupsHandler := connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...)
	deleteGroupHandler := connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...)
	getGroupBalancesHandler := connect.NewUnaryHandler(GroupServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts...)
	getGroupAnalyticsHandler := connect.NewUnaryHandler(GroupServiceGetGroupAnalyticsProcedure, svc.GetGroupAnalytics, opts...)
	getUserAnalyticsHandler := connect.NewUnaryHandler(GroupServiceGetUserAnalyticsProcedure, svc.GetUserAnalytics, opts...)
	return "/groupledger.v1.GroupService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GroupServiceCreateGroupProcedure:
			createGroupHandler.ServeHTTP(w, r)
		case GroupServiceGetGroupProcedure:
			getGroupHandler.ServeHTTP(w, r)
		case GroupServiceListGroupsProcedure:
			listGroupsHandler.ServeHTTP(w, r)
		case GroupServiceDeleteGroupProcedure:
			deleteGroupHandler.ServeHTTP(w, r)
		case GroupServiceGetGroupBalancesProcedure:
			getGroupBalancesHandler.ServeHTTP(w, r)
		case GroupServiceGetGroupAnalyticsProcedure:
			getGroupAnalyticsHandler.ServeHTTP(w, r)
		case GroupServiceGetUserAnalyticsProcedure:
			getUserAnalyticsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedGroupServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGroupServiceHandler struct{}

func (UnimplementedGroupServiceHandler) CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupledger.v1.GroupService.CreateGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupledger.v1.GroupService.GetGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupledger.v1.GroupService.ListGroups is not implemented"))
}

func (UnimplementedGroupServiceHandler) DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupledger.v1.GroupService.DeleteGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupledger.v1.GroupService.GetGroupBalances is not implemented"))
}

func (UnimplementedGroupServiceHandler) GetGroupAnalytics(context.Context, *connect.Request[api.GetGroupAnalyticsRequest]) (*connect.Response[api.GetGroupAnalyticsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupledger.v1.GroupService.GetGroupAnalytics is not implemented"))
}

func (UnimplementedGroupServiceHandler) GetUserAnalytics(context.Context, *connect.Request[api.GetUserAnalyticsRequest]) (*connect.Response[api.GetUserAnalyticsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("groupledger.v1.GroupService.GetUserAnalytics is not implemented"))
}
