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

// Package engine implements the navigation router: the route table, the middleware
// chain, the callback chain executor, the view history and the dispatch orchestrator.
//
// Package engine 实现导航路由器：路由表、中间件链、回调链执行器、视图历史以及分发编排。
//
// Dispatch pipeline:
//
//	Environment.CurrentURL -> Request -> MiddlewareChain -> Table probing -> Executor
package engine

import (
	"errors"
	"strings"
	"sync"

	"github.com/rulego/navrouter/api/types"
	"github.com/rulego/navrouter/utils/maps"
	"github.com/rulego/navrouter/utils/uri"
	"go.uber.org/atomic"
)

// Router is one navigation router instance bound to an environment.
// Registration methods are safe for concurrent use. Dispatches run inline on the
// goroutine that triggered them and are not serialized against each other.
//
// Router 绑定到一个运行环境的导航路由器实例。
type Router struct {
	env types.Environment

	mu     sync.RWMutex
	config types.Config
	// forcedHash startup degraded to hash addressing
	forcedHash bool
	observers  []func(req *types.Request, res *types.Response)

	table      *Table
	middleware *MiddlewareChain
	history    *ViewHistory

	startMu   sync.Mutex
	started   atomic.Bool
	accepting atomic.Bool
	cancel    func()
}

// NewRouter creates a router driven by env.
//
// NewRouter 创建由 env 驱动的路由器。
func NewRouter(env types.Environment, opts ...types.Option) *Router {
	config := types.NewConfig(opts...)
	config.UrlRoot = types.TrimUrlRoot(config.UrlRoot)
	if config.Logger == nil {
		config.Logger = types.DefaultLogger()
	}
	if config.InitialViewId <= 0 {
		config.InitialViewId = types.DefaultInitialViewId
	}
	return &Router{
		env:        env,
		config:     config,
		table:      NewTable(),
		middleware: NewMiddlewareChain(),
		history:    NewViewHistory(config.InitialViewId),
	}
}

// Env returns the environment.
func (r *Router) Env() types.Environment {
	return r.env
}

// Config returns a copy of the configuration.
func (r *Router) Config() types.Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}

// History returns the view history.
func (r *Router) History() *ViewHistory {
	return r.history
}

// Configure applies opts. urlRoot is stored without trailing slash.
// CaseSensitive and Strict only affect routes registered afterwards.
//
// Configure 修改配置。CaseSensitive 和 Strict 只影响之后注册的路由。
func (r *Router) Configure(opts ...types.Option) error {
	r.mu.Lock()
	config := r.config
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			r.mu.Unlock()
			return err
		}
	}
	config.UrlRoot = types.TrimUrlRoot(config.UrlRoot)
	if config.Logger == nil {
		config.Logger = types.DefaultLogger()
	}
	r.config = config
	useHash := config.UseHash || r.forcedHash
	r.mu.Unlock()

	if aware, ok := r.env.(types.AddressingAware); ok && r.started.Load() {
		aware.SetAddressing(config.UrlRoot, useHash)
	}
	return nil
}

// ConfigureMap applies a loosely typed configuration, for example decoded from json:
// {"urlRoot": "/app", "useHash": true, "strict": "true", "scriptMaxExecutionTime": "1s"}
func (r *Router) ConfigureMap(configuration map[string]interface{}) error {
	config := r.Config()
	if err := maps.Map2Struct(configuration, &config); err != nil {
		return err
	}
	return r.Configure(func(c *types.Config) error {
		logger, onEvent := c.Logger, c.OnEvent
		*c = config
		c.Logger, c.OnEvent = logger, onEvent
		return nil
	})
}

// Use registers middleware for every path under prefix.
//
// Use 为 prefix 下的所有路径注册中间件。
func (r *Router) Use(prefix string, handler types.Middleware) {
	r.middleware.Use(prefix, handler)
}

// UseAll registers middleware for every path.
func (r *Router) UseAll(handler types.Middleware) {
	r.middleware.Use("", handler)
}

// Get registers a route. pattern is compiled with the current CaseSensitive and Strict
// options; see package matcher for the supported pattern types.
//
// Get 注册路由。
//
// Example:
//
//	router.Get("/users/:id", func(req *types.Request, res *types.Response, next types.Next) {
//	    render(req.Params["id"])
//	})
func (r *Router) Get(pattern interface{}, callbacks ...types.Callback) error {
	config := r.Config()
	route, err := NewRoute(pattern, callbacks, types.MatchOptions{
		CaseSensitive:          config.CaseSensitive,
		Strict:                 config.Strict,
		ScriptMaxExecutionTime: config.ScriptMaxExecutionTime,
		Logger:                 config.Logger,
	})
	if err != nil {
		return err
	}
	r.table.Add(route)
	return nil
}

// MatchRoute returns the first route matching path, or nil.
func (r *Router) MatchRoute(path string) *Route {
	route, _ := r.table.FindFirstMatch(path)
	return route
}

// HasRoute returns the first route registered with pattern, or nil.
func (r *Router) HasRoute(pattern interface{}) *Route {
	return r.table.Has(pattern)
}

// RemoveRoute removes the routes registered with pattern. With callbacks, only those
// callbacks are removed and routes left without callbacks are dropped.
//
// RemoveRoute 删除指定模式的路由。指定回调时只删除该回调，回调为空的路由被删除。
func (r *Router) RemoveRoute(pattern interface{}, callbacks ...types.Callback) {
	if len(callbacks) == 0 {
		r.table.Remove(pattern, nil)
		return
	}
	for _, cb := range callbacks {
		r.table.Remove(pattern, cb)
	}
}

// ClearRoutes removes every route and middleware.
func (r *Router) ClearRoutes() {
	r.table.Clear()
	r.middleware.Clear()
}

// Routes returns the routes in registration order.
func (r *Router) Routes() []*Route {
	return r.table.Snapshot()
}

// OnDispatch registers an observer called before every dispatch.
func (r *Router) OnDispatch(observer func(req *types.Request, res *types.Response)) {
	if observer == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, observer)
}

// Navigate changes the address to path and dispatches it.
// A path starting with "?" only replaces the query of the current url.
// Navigating to the current url does nothing unless types.TriggerRoute() is given,
// in which case the current url is dispatched as a replace.
//
// Navigate 跳转到 path 并分发。以"?"开头时只替换当前url的查询参数。
func (r *Router) Navigate(path string, opts ...types.NavigateOption) {
	options := types.NewNavigateOptions(opts...)
	current := r.env.CurrentURL()
	if strings.HasPrefix(path, "?") {
		path = replaceQuery(current, path)
	}
	if current != path {
		if !options.Replace {
			r.history.IssueForwardId()
		}
		state := types.State{Vid: r.history.LastId()}
		if announced := r.env.Navigate(path, state, options.Replace); !announced {
			r.Dispatch(false, options.Replace)
		}
	} else if options.TriggerRoute {
		r.Dispatch(false, true)
	}
}

// Dispatch runs the pipeline for the current url.
//
// Dispatch 对当前url执行分发流程。
func (r *Router) Dispatch(backward, replace bool) {
	req := NewRequest(r.env.CurrentURL(), backward, replace)
	res := types.NewResponse(r.Navigate)

	r.mu.RLock()
	config := r.config
	observers := make([]func(req *types.Request, res *types.Response), len(r.observers))
	copy(observers, r.observers)
	r.mu.RUnlock()

	if config.OnEvent != nil {
		config.OnEvent(types.EventDispatch, req, res)
	}
	for _, observer := range observers {
		observer(req, res)
	}
	r.middleware.Run(req, res, r.fireRoutes)
}

func (r *Router) fireRoutes(req *types.Request, res *types.Response) {
	executor := NewExecutor(r.table.Snapshot(), req, res)
	if onEvent := r.Config().OnEvent; onEvent != nil {
		executor.OnUnhandled = func(req *types.Request) {
			onEvent(types.EventUnhandled, req, res)
		}
	}
	executor.Execute()
}

// Start subscribes to the environment, reconciles the address bar and dispatches the
// current url if configured or required by the environment. Calling Start on a started
// router only runs callbacks.
//
// Start 启动路由器：订阅环境事件、校正地址栏，并按需分发当前url。重复调用只执行回调。
func (r *Router) Start(callbacks ...func(router *Router)) error {
	if r.env == nil {
		return types.ErrNilEnvironment
	}
	r.startMu.Lock()
	if r.started.Load() {
		r.startMu.Unlock()
		runStartCallbacks(r, callbacks)
		return nil
	}
	config := r.Config()
	//校正期间环境触发的事件全部丢弃
	r.accepting.Store(false)
	cancel := r.env.Subscribe(r.onNotification)
	startup, err := r.env.Prepare(config, r.history.LastId())
	if err != nil {
		if !errors.Is(err, types.ErrUrlRootMismatch) {
			if cancel != nil {
				cancel()
			}
			r.startMu.Unlock()
			return err
		}
		config.Logger.Printf("%s", err.Error())
	}
	r.mu.Lock()
	r.forcedHash = startup.UseHash && !r.config.UseHash
	r.mu.Unlock()
	r.cancel = cancel
	r.accepting.Store(true)
	r.started.Store(true)
	r.startMu.Unlock()

	trigger := config.TriggerRoute || startup.TriggerRoute
	if startup.UseHash && r.env.CurrentURL() == "" {
		r.Navigate("/", types.ReplaceHistory())
		trigger = false
	}
	if trigger {
		r.Dispatch(false, true)
	}
	if onEvent := r.Config().OnEvent; onEvent != nil {
		onEvent(types.EventStart)
	}
	runStartCallbacks(r, callbacks)
	return nil
}

// Stop detaches from the environment. Routes and history are kept.
func (r *Router) Stop() {
	r.startMu.Lock()
	defer r.startMu.Unlock()
	if !r.started.Load() {
		return
	}
	r.accepting.Store(false)
	r.started.Store(false)
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if onEvent := r.Config().OnEvent; onEvent != nil {
		onEvent(types.EventStop)
	}
}

// Started reports whether the router is started.
func (r *Router) Started() bool {
	return r.started.Load()
}

func (r *Router) onNotification(n types.Notification) {
	if !r.accepting.Load() {
		return
	}
	switch n.Kind {
	case types.PopState:
		//直接修改地址栏产生的popstate没有state
		if n.State == nil {
			return
		}
		r.dispatchByVid(n.State.Vid)
	case types.HashChange:
		vid := uri.GetVid(n.URL)
		if vid == 0 {
			return
		}
		r.dispatchByVid(vid)
	}
}

func (r *Router) dispatchByVid(vid int64) {
	direction := r.history.Classify(vid)
	r.Dispatch(direction == types.Backward, direction == types.Replace)
}

func runStartCallbacks(r *Router, callbacks []func(router *Router)) {
	for _, cb := range callbacks {
		if cb != nil {
			cb(r)
		}
	}
}

// replaceQuery returns current with its query replaced by search ("?a=1").
func replaceQuery(current, search string) string {
	path := current
	if i := strings.IndexByte(current, '?'); i >= 0 {
		path = current[:i]
	}
	if search == "?" {
		return path
	}
	return path + search
}
