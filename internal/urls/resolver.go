package urls

import (
	"fmt"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
)

// Route names the resolver knows how to build.
const (
	RouteArticle = "article"
	RouteNews    = "news"
	RouteHome    = "home"
)

// Options configures the go-urlkit backed resolver.
type Options struct {
	Manager      *urlkit.RouteManager
	DefaultGroup string
	// LocaleGroups maps a language code to a group path, dot-separated for
	// nested groups ("frontend.so"). Languages without an entry use the
	// default group.
	LocaleGroups map[string]string
}

// Resolver builds public site URLs through a go-urlkit RouteManager, picking
// a per-language route group when one is configured.
type Resolver struct {
	manager      *urlkit.RouteManager
	defaultGroup string
	localeGroups map[string]string

	groupCache map[string]*urlkit.Group
	mu         sync.RWMutex
}

// NewResolver constructs a resolver backed by go-urlkit.
func NewResolver(opts Options) *Resolver {
	return &Resolver{
		manager:      opts.Manager,
		defaultGroup: strings.TrimSpace(opts.DefaultGroup),
		localeGroups: opts.LocaleGroups,
		groupCache:   make(map[string]*urlkit.Group),
	}
}

// ArticleURL builds the public URL for an article slug in the given language.
func (r *Resolver) ArticleURL(language, slug string) (string, error) {
	return r.build(language, RouteArticle, map[string]any{"slug": slug})
}

// PageURL builds the URL for a named static route in the given language.
func (r *Resolver) PageURL(language, route string) (string, error) {
	return r.build(language, route, nil)
}

func (r *Resolver) build(language, route string, params map[string]any) (string, error) {
	if r == nil || r.manager == nil {
		return "", nil
	}

	groupPath := r.defaultGroup
	langKey := strings.ToLower(strings.TrimSpace(language))
	if path, ok := r.localeGroups[langKey]; ok && strings.TrimSpace(path) != "" {
		groupPath = strings.TrimSpace(path)
	}
	if groupPath == "" {
		return "", nil
	}

	group, err := r.groupForPath(groupPath)
	if err != nil {
		return "", err
	}

	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	for key, val := range params {
		builder.WithParam(key, val)
	}
	return builder.Build()
}

func (r *Resolver) groupForPath(path string) (*urlkit.Group, error) {
	r.mu.RLock()
	group, ok := r.groupCache[path]
	r.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	current, err := lookupGroup(r.manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		current, err = lookupChildGroup(current, part)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.groupCache[path] = current
	r.mu.Unlock()
	return current, nil
}

// urlkit panics on unknown groups and routes, so lookups run behind recover.

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("urls: route group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("urls: route %q not found: %v", route, rec)
		}
	}()
	builder = group.Builder(route)
	return builder, nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("urls: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	if parent == nil {
		return nil, fmt.Errorf("urls: parent group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("urls: child group %q not found", name)
		}
	}()
	group = parent.Group(name)
	return group, nil
}
