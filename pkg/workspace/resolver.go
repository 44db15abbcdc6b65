package workspace

import (
	"net/http"
	"strings"
)

// Resolver extracts a workspace identifier from a request. An empty string
// with a nil error means the request names no workspace.
type Resolver interface {
	Resolve(r *http.Request) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(r *http.Request) (string, error)

func (f ResolverFunc) Resolve(r *http.Request) (string, error) { return f(r) }

// PathResolver reads the workspace slug from a path prefix, e.g.
// "/w/{slug}/...". Prefix is matched as a whole segment.
type PathResolver struct {
	Prefix string
}

// NewPathResolver creates a path resolver for the given prefix segment
// ("w" by default).
func NewPathResolver(prefix string) *PathResolver {
	if prefix == "" {
		prefix = "w"
	}
	return &PathResolver{Prefix: prefix}
}

func (p *PathResolver) Resolve(r *http.Request) (string, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != p.Prefix {
		return "", nil
	}
	return parts[1], nil
}

// HeaderResolver reads the workspace identifier from a request header.
type HeaderResolver struct {
	HeaderName string
}

// NewHeaderResolver creates a header resolver ("X-Workspace" by default).
func NewHeaderResolver(name string) *HeaderResolver {
	if name == "" {
		name = "X-Workspace"
	}
	return &HeaderResolver{HeaderName: name}
}

func (h *HeaderResolver) Resolve(r *http.Request) (string, error) {
	return r.Header.Get(h.HeaderName), nil
}

// CompositeResolver tries resolvers in order and returns the first
// non-empty identifier.
type CompositeResolver struct {
	resolvers []Resolver
}

// NewCompositeResolver creates a resolver chain.
func NewCompositeResolver(resolvers ...Resolver) *CompositeResolver {
	return &CompositeResolver{resolvers: resolvers}
}

func (c *CompositeResolver) Resolve(r *http.Request) (string, error) {
	for _, resolver := range c.resolvers {
		id, err := resolver.Resolve(r)
		if err != nil {
			return "", err
		}
		if id != "" {
			return id, nil
		}
	}
	return "", nil
}
