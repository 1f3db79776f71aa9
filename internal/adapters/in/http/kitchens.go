package http

import (
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// CreateZone handles POST /api/v1/zones.
func (s *Server) CreateZone(c echo.Context) error {
	actorID, err := actorOf(c)
	if err != nil {
		return err
	}
	var req CreateZoneRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewCreateZoneCommand(actorID, req.Name)
	if err != nil {
		return err
	}
	zoneID, err := s.handlers.CreateZone.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return created(c, IDResponse{ID: zoneID.Bytes()})
}

// GetKitchensByZone handles GET /api/v1/zones/:zoneId/kitchens.
func (s *Server) GetKitchensByZone(c echo.Context) error {
	zoneID, err := pathID(c, "zoneId")
	if err != nil {
		return err
	}
	query, err := queries.NewGetKitchensByZoneQuery(zoneID)
	if err != nil {
		return err
	}
	kitchens, err := s.handlers.Kitchens.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, toKitchens(kitchens))
}

// GetKitchens handles GET /api/v1/kitchens - lists active kitchens.
func (s *Server) GetKitchens(c echo.Context) error {
	kitchens, err := s.handlers.Kitchens.Handle(c.Request().Context(), queries.NewGetKitchensQuery())
	if err != nil {
		return err
	}
	return ok(c, toKitchens(kitchens))
}

// GetKitchen handles GET /api/v1/kitchens/:kitchenId.
func (s *Server) GetKitchen(c echo.Context) error {
	kitchenID, err := pathID(c, "kitchenId")
	if err != nil {
		return err
	}
	query, err := queries.NewGetKitchenQuery(kitchenID)
	if err != nil {
		return err
	}
	kitchen, err := s.handlers.Kitchens.HandleOne(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, toKitchen(kitchen))
}

// CreateKitchen handles POST /api/v1/kitchens.
func (s *Server) CreateKitchen(c echo.Context) error {
	actorID, err := actorOf(c)
	if err != nil {
		return err
	}
	var req CreateKitchenRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	zoneID, err := bodyID("zoneId", req.ZoneID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateKitchenCommand(actorID, req.Name, zoneID, req.Capacity)
	if err != nil {
		return err
	}
	kitchenID, err := s.handlers.CreateKitchen.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return created(c, IDResponse{ID: kitchenID.Bytes()})
}

// UpdateKitchen handles PATCH /api/v1/kitchens/:kitchenId. Absent fields are
// left unchanged.
func (s *Server) UpdateKitchen(c echo.Context) error {
	actorID, err := actorOf(c)
	if err != nil {
		return err
	}
	kitchenID, err := pathID(c, "kitchenId")
	if err != nil {
		return err
	}
	var req UpdateKitchenRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	zoneID, err := optionalBodyID("zoneId", req.ZoneID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateKitchenCommand(actorID, kitchenID, req.Name, req.Capacity, zoneID)
	if err != nil {
		return err
	}
	if err := s.handlers.UpdateKitchen.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, IDResponse{ID: kitchenID.Bytes()})
}

// DeactivateKitchen handles DELETE /api/v1/kitchens/:kitchenId. The kitchen
// is kept with its history and stops receiving orders.
func (s *Server) DeactivateKitchen(c echo.Context) error {
	actorID, err := actorOf(c)
	if err != nil {
		return err
	}
	kitchenID, err := pathID(c, "kitchenId")
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeactivateKitchenCommand(actorID, kitchenID)
	if err != nil {
		return err
	}
	if err := s.handlers.DeactivateKitchen.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, IDResponse{ID: kitchenID.Bytes()})
}
