package middleware

import (
	"net/http"
	"strconv"
)

// Access describes who may call a route.
type Access int

const (
	// Protected routes need a valid session. Unlisted paths are protected.
	Protected Access = iota
	Public
	// PublicUnlessQuery routes need a session only when Param is a true
	// boolean in the query string.
	PublicUnlessQuery
)

type Rule struct {
	Path   string
	Access Access
	Param  string
}

// RouteTable decides per request whether the auth gate applies. Paths
// match exactly; the method is not considered.
type RouteTable struct {
	rules map[string]Rule
}

func NewRouteTable(rules ...Rule) RouteTable {
	m := make(map[string]Rule, len(rules))
	for _, r := range rules {
		m[r.Path] = r
	}
	return RouteTable{rules: m}
}

// DefaultRoutes is the service's whitelist.
func DefaultRoutes() RouteTable {
	return NewRouteTable(
		Rule{Path: "/", Access: Public},
		Rule{Path: "/test", Access: Public},
		Rule{Path: "/tests", Access: PublicUnlessQuery, Param: "requiresAuthentication"},
		Rule{Path: "/signup", Access: Public},
		Rule{Path: "/login", Access: Public},
		Rule{Path: "/metrics", Access: Public},
	)
}

func (t RouteTable) RequiresAuth(r *http.Request) bool {
	rule, ok := t.rules[r.URL.Path]
	if !ok {
		return true
	}

	switch rule.Access {
	case Public:
		return false
	case PublicUnlessQuery:
		want, err := strconv.ParseBool(r.URL.Query().Get(rule.Param))
		return err == nil && want
	default:
		return true
	}
}
