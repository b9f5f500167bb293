package api

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RouteSkipper skips the routes with the given paths, or with the given prefixes when
// the route ends with a wildcard
func RouteSkipper(routes []string) middleware.Skipper {
	routesMap := map[string]struct{}{}
	var prefixes []string
	for _, route := range routes {
		if prefix, ok := strings.CutSuffix(route, "*"); ok {
			prefixes = append(prefixes, prefix)
			continue
		}
		routesMap[route] = struct{}{}
	}

	return func(ec echo.Context) bool {
		if _, ok := routesMap[ec.Path()]; ok {
			return true
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(ec.Path(), prefix) {
				return true
			}
		}
		return false
	}
}
