package serverapp

import (
	"net/http"
	"slices"
	"strings"
)

// RouteDoc is one entry of the /api/routes index.
type RouteDoc struct {
	Methods     []string `json:"methods"`
	Pattern     string   `json:"pattern"`
	Summary     string   `json:"summary,omitempty"`
	ExampleBody string   `json:"example_body,omitempty"`
}

type routeRegistry struct {
	mux    *http.ServeMux
	routes []RouteDoc
}

func newRouteRegistry(mux *http.ServeMux) *routeRegistry {
	return &routeRegistry{mux: mux}
}

// handle registers h on pattern and records its documentation. methods is a
// comma separated list; method checks stay inside the handlers.
func (rr *routeRegistry) handle(pattern, methods, summary, exampleBody string, h http.HandlerFunc) {
	var ms []string
	for _, m := range strings.Split(methods, ",") {
		if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
			ms = append(ms, m)
		}
	}
	rr.routes = append(rr.routes, RouteDoc{
		Methods:     ms,
		Pattern:     pattern,
		Summary:     summary,
		ExampleBody: exampleBody,
	})
	rr.mux.HandleFunc(pattern, h)
}

func (rr *routeRegistry) list() []RouteDoc {
	out := slices.Clone(rr.routes)
	slices.SortStableFunc(out, func(a, b RouteDoc) int {
		return strings.Compare(a.Pattern, b.Pattern)
	})
	return out
}
