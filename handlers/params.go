package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/greenpoll/apperror"
)

// queryID reads a required unsigned integer query parameter.
func queryID(c echo.Context, name string) (uint, error) {
	var id uint
	if err := echo.QueryParamsBinder(c).MustUint(name, &id).BindError(); err != nil {
		return 0, apperror.Validation("Invalid " + name)
	}
	return id, nil
}
