package client

import (
	"net/url"
	"strings"
	"sync"
)

// LoginPath is the client route of the login form.
const LoginPath = "/login"

// Navigator is the front end's router.
type Navigator interface {
	// Current is the route being shown, e.g. "/movies".
	Current() string
	Navigate(route string)
}

// LoginRoute is the login page with a returnUrl back to route.
func LoginRoute(route string) string {
	return LoginPath + "?" + url.Values{"returnUrl": {route}}.Encode()
}

// MemoryNavigator is a Navigator that only records where it has been.
// Front ends without a real router (and tests) use it.
type MemoryNavigator struct {
	mu      sync.Mutex
	current string
	history []string
}

func NewMemoryNavigator(start string) *MemoryNavigator {
	return &MemoryNavigator{current: start}
}

func (n *MemoryNavigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *MemoryNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.history = append(n.history, route)
	n.current = route
}

// History lists every route navigated to, oldest first.
func (n *MemoryNavigator) History() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.history...)
}

func isLoginRoute(route string) bool {
	return route == LoginPath || strings.HasPrefix(route, LoginPath+"?")
}
