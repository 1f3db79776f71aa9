package http

import (
	"fmt"
	"slices"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/access"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// AssignAccess handles PUT /api/v1/kitchens/:kitchenId/staff/:userId.
func (s *Server) AssignAccess(c echo.Context) error {
	actorID, err := actorOf(c)
	if err != nil {
		return err
	}
	kitchenID, err := pathID(c, "kitchenId")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	var req AssignAccessRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	roleID, err := bodyID("roleId", req.RoleID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignAccessCommand(actorID, userID, kitchenID, roleID, req.IsPrimary)
	if err != nil {
		return err
	}
	if err := s.handlers.AssignAccess.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, IDResponse{ID: userID.Bytes()})
}

// RevokeAccess handles DELETE /api/v1/kitchens/:kitchenId/staff/:userId.
func (s *Server) RevokeAccess(c echo.Context) error {
	actorID, err := actorOf(c)
	if err != nil {
		return err
	}
	kitchenID, err := pathID(c, "kitchenId")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}

	cmd, err := commands.NewRevokeAccessCommand(actorID, userID, kitchenID)
	if err != nil {
		return err
	}
	if err := s.handlers.RevokeAccess.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, IDResponse{ID: userID.Bytes()})
}

// GetUserPermissions handles GET /api/v1/kitchens/:kitchenId/staff/:userId/permissions.
func (s *Server) GetUserPermissions(c echo.Context) error {
	actorID, err := actorOf(c)
	if err != nil {
		return err
	}
	kitchenID, err := pathID(c, "kitchenId")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetUserPermissionsQuery(actorID, userID, kitchenID)
	if err != nil {
		return err
	}
	res, err := s.handlers.UserPermissions.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, PermissionsResponse{
		UserID:      res.UserID.Bytes(),
		KitchenID:   res.KitchenID.Bytes(),
		Permissions: res.Permissions,
	})
}

// StreamKitchenEvents handles GET /ws/kitchens/:kitchenId/events. Subscribers
// need orders:view on the kitchen unless they administer the platform.
func (s *Server) StreamKitchenEvents(c echo.Context) error {
	actorID, err := actorOf(c)
	if err != nil {
		return err
	}
	kitchenID, err := pathID(c, "kitchenId")
	if err != nil {
		return err
	}

	if !s.gate.IsPlatformAdmin(actorID) {
		query, err := queries.NewGetUserPermissionsQuery(actorID, actorID, kitchenID)
		if err != nil {
			return err
		}
		res, err := s.handlers.UserPermissions.Handle(c.Request().Context(), query)
		if err != nil {
			return err
		}
		if !slices.Contains(res.Permissions, access.OrdersView.String()) {
			return fmt.Errorf("%w: %s is required to follow kitchen events", errs.ErrPermissionDenied, access.OrdersView)
		}
	}

	return s.events.Serve(c.Response(), c.Request(), kitchenID)
}
