/*
 * Copyright 2024 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package engine

import (
	"sync"

	"github.com/rulego/navrouter/api/types"
	"github.com/rulego/navrouter/matcher"
)

var _ types.Route = (*Route)(nil)

// Route is a pattern with its ordered callbacks.
// The matcher is compiled once at registration with the options in effect at that time.
//
// Route 路由模式及其有序回调列表。匹配器在注册时按当时的配置编译一次。
type Route struct {
	path          interface{}
	matcher       types.Matcher
	caseSensitive bool
	strict        bool

	mu        sync.RWMutex
	callbacks []types.Callback
}

// NewRoute compiles path and creates a route.
func NewRoute(path interface{}, callbacks []types.Callback, opts types.MatchOptions) (*Route, error) {
	m, err := matcher.Compile(path, opts)
	if err != nil {
		return nil, err
	}
	cbs := make([]types.Callback, 0, len(callbacks))
	for _, cb := range callbacks {
		if cb != nil {
			cbs = append(cbs, cb)
		}
	}
	return &Route{
		path:          path,
		matcher:       m,
		caseSensitive: opts.CaseSensitive,
		strict:        opts.Strict,
		callbacks:     cbs,
	}, nil
}

// Path returns the pattern as registered.
func (r *Route) Path() interface{} {
	return r.path
}

// Callbacks returns a copy of the callbacks.
func (r *Route) Callbacks() []types.Callback {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Callback, len(r.callbacks))
	copy(out, r.callbacks)
	return out
}

// Match implements types.Route.
func (r *Route) Match(path string) (types.Params, bool) {
	return r.matcher.Match(path)
}

// Matcher returns the compiled matcher.
func (r *Route) Matcher() types.Matcher {
	return r.matcher
}

// CaseSensitive reports the option the route was compiled with.
func (r *Route) CaseSensitive() bool {
	return r.caseSensitive
}

// Strict reports the option the route was compiled with.
func (r *Route) Strict() bool {
	return r.strict
}

// removeCallback removes every occurrence of cb and returns the remaining count.
func (r *Route) removeCallback(cb types.Callback) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	target := matcher.FuncIdentity(cb)
	//写时复制，正在执行的回调链不受影响
	kept := make([]types.Callback, 0, len(r.callbacks))
	for _, item := range r.callbacks {
		if matcher.FuncIdentity(item) != target {
			kept = append(kept, item)
		}
	}
	r.callbacks = kept
	return len(kept)
}

// Table is the ordered route table.
//
// Table 有序路由表。
type Table struct {
	mu     sync.RWMutex
	routes []*Route
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add appends route. Routes with the same pattern may coexist.
func (t *Table) Add(route *Route) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes = append(t.routes, route)
}

// Remove removes routes by pattern identity.
// With a callback, only that callback is removed from every route sharing the pattern
// and routes left without callbacks are dropped. Returns the number of dropped routes.
func (t *Table) Remove(pattern interface{}, callback types.Callback) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := make([]*Route, 0, len(t.routes))
	dropped := 0
	for _, r := range t.routes {
		if !matcher.SamePattern(r.path, pattern) {
			kept = append(kept, r)
			continue
		}
		if callback != nil && r.removeCallback(callback) > 0 {
			kept = append(kept, r)
			continue
		}
		dropped++
	}
	t.routes = kept
	return dropped
}

// FindFirstMatch returns the first route matching path and its captures.
func (t *Table) FindFirstMatch(path string) (*Route, types.Params) {
	for _, r := range t.Snapshot() {
		if params, ok := r.Match(path); ok {
			return r, params
		}
	}
	return nil, nil
}

// Has returns the first route registered with pattern, or nil.
func (t *Table) Has(pattern interface{}) *Route {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, r := range t.routes {
		if matcher.SamePattern(r.path, pattern) {
			return r
		}
	}
	return nil
}

// Snapshot returns the routes in registration order.
func (t *Table) Snapshot() []*Route {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Len returns the number of routes.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.routes)
}

// Clear removes every route.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes = nil
}
