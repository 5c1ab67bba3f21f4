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

// Package navrouter provides an express-like navigation router for single page applications.
//
// # Usage
//
// Routes are registered with string patterns (":name", ":name?", ":name(regex)", "*"),
// regular expressions, expressions, JS or Lua scripts. A callback continues its chain
// with next(types.Proceed) or hands over to the next matching route with
// next(types.SkipRoute).
//
// Create a router over an environment
//
//	browser := memory.NewBrowser("http://localhost/app/")
//	router := navrouter.New(browser.Env(), types.WithUrlRoot("/app"))
//
// Register middleware and routes
//
//	router.Use("/admin", func(req *types.Request, next func()) {
//	    if loggedIn() {
//	        next()
//	    }
//	})
//	router.Get("/users/:id", func(req *types.Request, res *types.Response, next types.Next) {
//	    showUser(req.Params["id"])
//	})
//
// Start and navigate
//
//	err := router.Start()
//	router.Navigate("/users/7")
//
// The package level functions operate on DefaultRouter.
//
// Package navrouter 单页应用导航路由器。包级函数作用于 DefaultRouter。
package navrouter

import (
	"sync"

	"github.com/rulego/navrouter/api/types"
	"github.com/rulego/navrouter/engine"
	"github.com/rulego/navrouter/env/memory"
)

// DefaultHref document of the headless default router
const DefaultHref = "http://localhost/"

var (
	defaultMu     sync.RWMutex
	defaultRouter = engine.NewRouter(memory.NewBrowser(DefaultHref).Env())
)

// New creates a router driven by env.
func New(env types.Environment, opts ...types.Option) *engine.Router {
	return engine.NewRouter(env, opts...)
}

// NewHeadless creates a router over an in-memory browser opened at href.
//
// NewHeadless 创建运行在内存浏览器上的路由器。
func NewHeadless(href string, opts ...types.Option) (*engine.Router, *memory.Browser) {
	browser := memory.NewBrowser(href)
	return engine.NewRouter(browser.Env(), opts...), browser
}

// DefaultRouter returns the router used by the package level functions.
// It is headless until SetDefault installs another environment.
func DefaultRouter() *engine.Router {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultRouter
}

// SetDefault stops the default router and replaces it with a router over env.
//
// SetDefault 停止当前默认路由器，并以 env 创建新的默认路由器。
func SetDefault(env types.Environment, opts ...types.Option) *engine.Router {
	router := engine.NewRouter(env, opts...)
	defaultMu.Lock()
	old := defaultRouter
	defaultRouter = router
	defaultMu.Unlock()
	old.Stop()
	return router
}

// Use registers middleware on the default router.
func Use(prefix string, handler types.Middleware) {
	DefaultRouter().Use(prefix, handler)
}

// UseAll registers middleware for every path on the default router.
func UseAll(handler types.Middleware) {
	DefaultRouter().UseAll(handler)
}

// Get registers a route on the default router.
func Get(pattern interface{}, callbacks ...types.Callback) error {
	return DefaultRouter().Get(pattern, callbacks...)
}

// MatchRoute returns the first route of the default router matching path.
func MatchRoute(path string) *engine.Route {
	return DefaultRouter().MatchRoute(path)
}

// HasRoute returns the route of the default router registered with pattern.
func HasRoute(pattern interface{}) *engine.Route {
	return DefaultRouter().HasRoute(pattern)
}

// RemoveRoute removes routes or callbacks from the default router.
func RemoveRoute(pattern interface{}, callbacks ...types.Callback) {
	DefaultRouter().RemoveRoute(pattern, callbacks...)
}

// ClearRoutes removes every route and middleware of the default router.
func ClearRoutes() {
	DefaultRouter().ClearRoutes()
}

// Navigate navigates the default router.
func Navigate(path string, opts ...types.NavigateOption) {
	DefaultRouter().Navigate(path, opts...)
}

// Dispatch dispatches the current url of the default router.
func Dispatch(backward, replace bool) {
	DefaultRouter().Dispatch(backward, replace)
}

// Configure configures the default router.
func Configure(opts ...types.Option) error {
	return DefaultRouter().Configure(opts...)
}

// ConfigureMap configures the default router from a loosely typed map.
func ConfigureMap(configuration map[string]interface{}) error {
	return DefaultRouter().ConfigureMap(configuration)
}

// Start starts the default router.
func Start(callbacks ...func(router *engine.Router)) error {
	return DefaultRouter().Start(callbacks...)
}

// Stop stops the default router.
func Stop() {
	DefaultRouter().Stop()
}
