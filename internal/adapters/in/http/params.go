package http

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// pathID binds a required uuid path parameter.
func pathID(c echo.Context, name string) (kernel.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return kernel.UUID{}, invalidRequest(fmt.Sprintf("invalid format for parameter %s: %v", name, err))
	}
	parsed, err := kernel.UUIDFromGoogle(id)
	if err != nil {
		return kernel.UUID{}, invalidRequest(fmt.Sprintf("invalid parameter %s: %v", name, err))
	}
	return parsed, nil
}

// queryParam binds an optional exploded form style query parameter into dst,
// which must be a pointer to a pointer: **int, *[]string for repeated keys.
func queryParam(c echo.Context, name string, dst any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), dst); err != nil {
		return invalidRequest(fmt.Sprintf("invalid format for parameter %s: %v", name, err))
	}
	return nil
}

// bindBody decodes the JSON request body into dst.
func bindBody(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return invalidRequest("request body is not valid JSON for this operation")
	}
	return nil
}

func bodyID(name string, id uuid.UUID) (kernel.UUID, error) {
	parsed, err := kernel.UUIDFromGoogle(id)
	if err != nil {
		return kernel.UUID{}, invalidRequest(fmt.Sprintf("%s must be a non-nil uuid", name))
	}
	return parsed, nil
}

func optionalBodyID(name string, id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	parsed, err := bodyID(name, *id)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
