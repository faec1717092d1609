package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

// ctxUserID extracts the authenticated user id injected by the Auth
// middleware. An empty id means the middleware did not run; reject with 401
// before any service call.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}

// bindPagination reads the shared page/page_size query parameters. Out-of-range
// values are clamped by Normalize, never rejected.
func bindPagination(c echo.Context) ports.Pagination {
	var p struct {
		Page     int `query:"page"`
		PageSize int `query:"page_size"`
	}
	_ = c.Bind(&p)
	return ports.Pagination{Page: p.Page, PageSize: p.PageSize}.Normalize()
}
