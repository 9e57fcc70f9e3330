package main

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jedib0t/go-pretty/v6/table"
)

// routeInfo is one method and pattern registered on the router.
type routeInfo struct {
	Method      string
	Pattern     string
	Middlewares int
}

// listRoutes walks the router and returns its routes in registration order.
func listRoutes(r chi.Routes) ([]routeInfo, error) {
	var routes []routeInfo
	err := chi.Walk(r, func(method, route string, _ http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		route = strings.ReplaceAll(route, "/*/", "/")
		routes = append(routes, routeInfo{Method: method, Pattern: route, Middlewares: len(middlewares)})
		return nil
	})
	return routes, err
}

// printRoutes renders the route table sorted by pattern.
func printRoutes(w io.Writer, r chi.Routes) error {
	routes, err := listRoutes(r)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Method", "Route", "Middlewares"})
	for _, route := range routes {
		t.AppendRow(table.Row{route.Method, route.Pattern, route.Middlewares})
	}
	t.SortBy([]table.SortBy{{Name: "Route", Mode: table.Asc}, {Name: "Method", Mode: table.Asc}})
	t.Render()
	return nil
}
