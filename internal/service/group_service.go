package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
	api "github.com/mmynk/groupledger/pkg/api"
	"github.com/mmynk/groupledger/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	store   storage.Store
	reports *Reports
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, reports *Reports) *GroupService {
	return &GroupService{store: store, reports: reports}
}

// authorizeGroup loads a group and checks the caller is on its roster.
func authorizeGroup(ctx context.Context, store storage.Store, op, groupID string) (*models.Group, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingGroup)
	}

	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, toConnectError(op, err, "group_id", groupID)
	}
	if !group.HasMember(userID) {
		slog.Warn("Non-member access denied", "op", op, "group_id", groupID, "user_id", userID)
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	return group, nil
}

// normalizeRoster trims names and rejects blanks and duplicates.
func normalizeRoster(members []string) ([]string, error) {
	seen := make(map[string]struct{}, len(members))
	roster := make([]string, 0, len(members))
	for _, m := range members {
		m = strings.TrimSpace(m)
		if m == "" {
			return nil, invalidArgument("members: names must not be empty")
		}
		if _, dup := seen[m]; dup {
			return nil, invalidArgument("members: duplicate member %q", m)
		}
		seen[m] = struct{}{}
		roster = append(roster, m)
	}
	if len(roster) == 0 {
		return nil, invalidArgument("members: at least one member is required")
	}
	return roster, nil
}

// CreateGroup creates a new group. The caller must be on the roster.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name must not be empty")
	}
	roster, err := normalizeRoster(req.Msg.Members)
	if err != nil {
		return nil, err
	}

	group := &models.Group{Name: name, Members: roster}
	if !group.HasMember(userID) {
		return nil, invalidArgument("members: must include the caller %q", userID)
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, toConnectError("CreateGroup", err)
	}

	slog.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	group, err := authorizeGroup(ctx, s.store, "GetGroup", req.Msg.GetGroupId())
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups returns the groups the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsByMember(ctx, userID)
	if err != nil {
		return nil, toConnectError("ListGroups", err)
	}

	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}
	slog.Debug("ListGroups successful", "user_id", userID, "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// DeleteGroup removes a group and its expenses.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	group, err := authorizeGroup(ctx, s.store, "DeleteGroup", req.Msg.GroupId)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteGroup(ctx, group.ID); err != nil {
		return nil, toConnectError("DeleteGroup", err, "group_id", group.ID)
	}
	s.reports.Invalidate(ctx, group.ID)

	slog.Info("Group deleted", "group_id", group.ID)
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// GetGroupBalances returns every member's balance and the payments that
// would settle the group.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	group, err := authorizeGroup(ctx, s.store, "GetGroupBalances", req.Msg.GetGroupId())
	if err != nil {
		return nil, err
	}

	report, err := s.reports.ForGroup(ctx, group)
	if err != nil {
		return nil, toConnectError("GetGroupBalances", err, "group_id", group.ID)
	}

	return connect.NewResponse(&api.GetGroupBalancesResponse{
		Balances:       toAPIBalances(report.Analytics.Members),
		Settlements:    toAPISettlements(report.Analytics.Settlements),
		ExpenseVersion: report.Version,
	}), nil
}

// GetGroupAnalytics returns the spending report for one group.
func (s *GroupService) GetGroupAnalytics(ctx context.Context, req *connect.Request[api.GetGroupAnalyticsRequest]) (*connect.Response[api.GetGroupAnalyticsResponse], error) {
	group, err := authorizeGroup(ctx, s.store, "GetGroupAnalytics", req.Msg.GetGroupId())
	if err != nil {
		return nil, err
	}

	report, err := s.reports.ForGroup(ctx, group)
	if err != nil {
		return nil, toConnectError("GetGroupAnalytics", err, "group_id", group.ID)
	}

	return connect.NewResponse(&api.GetGroupAnalyticsResponse{
		Analytics: toAPIAnalytics(report.Analytics, report.Version),
	}), nil
}

// GetUserAnalytics returns the caller's spending across all their groups.
func (s *GroupService) GetUserAnalytics(ctx context.Context, req *connect.Request[api.GetUserAnalyticsRequest]) (*connect.Response[api.GetUserAnalyticsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	analytics, err := s.reports.ForUser(ctx, userID)
	if err != nil {
		return nil, toConnectError("GetUserAnalytics", err, "user_id", userID)
	}

	return connect.NewResponse(&api.GetUserAnalyticsResponse{
		Analytics: toAPIAnalytics(analytics, 0),
	}), nil
}
