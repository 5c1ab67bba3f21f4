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

// Package types defines the core data structures and interfaces shared by the
// navigation router, its matchers and its environments.
//
// Package types 定义导航路由器、路径匹配器以及运行环境共享的核心数据结构和接口。
//
// Key components:
//   - Request / Response: the per-dispatch request and the redirect facility handed to callbacks
//   - Callback / Middleware: user handlers executed by the dispatch pipeline
//   - Signal: the continuation signal that advances a callback chain or skips a route
//   - Matcher: compiled route pattern
//   - Environment: the browser glue the router is driven by (location, navigator, event source)
//   - Config / Option: router configuration and functional options
package types

import (
	"net/url"
)

// Params holds the named captures of a successful route match.
// A successful match without captures yields an empty, non-nil Params.
//
// Params 保存路由匹配成功时的命名捕获值。匹配成功但没有捕获时为空的非nil map。
type Params map[string]string

// Get returns the value of the named capture, or "" if absent.
func (p Params) Get(name string) string {
	if p == nil {
		return ""
	}
	return p[name]
}

// Signal is passed to a callback continuation to decide how the chain continues.
//
// Signal 传递给回调的继续函数，决定回调链如何继续执行。
type Signal int

const (
	// Proceed advances to the next callback of the matched route.
	// Proceed 执行当前路由的下一个回调。
	Proceed Signal = iota
	// SkipRoute abandons the current route and resumes probing the route table after it.
	// SkipRoute 放弃当前路由，从其后的路由继续匹配。
	SkipRoute
)

func (s Signal) String() string {
	switch s {
	case Proceed:
		return "proceed"
	case SkipRoute:
		return "route"
	default:
		return "unknown"
	}
}

// Next is the continuation handed to each route callback.
type Next func(signal Signal)

// Callback handles a matched route.
//
// Callback 路由匹配后的处理函数。req.Params 为本次匹配的捕获值，调用 next 继续执行。
type Callback func(req *Request, res *Response, next Next)

// Middleware handles every dispatch whose path is under its prefix.
// The prefix is stripped from req.Path and req.Url while it runs.
// Calling next continues the dispatch; not calling it halts the dispatch.
//
// Middleware 处理路径位于其前缀下的所有分发。执行期间 req.Path 和 req.Url 已去掉前缀。
// 调用 next 继续分发，不调用则终止本次分发。
type Middleware func(req *Request, next func())

// Direction classifies a navigation relative to the view history.
type Direction int

const (
	// Forward a new view was pushed
	Forward Direction = iota
	// Backward the previous view was restored
	Backward
	// Replace the current view was re-rendered or replaced
	Replace
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Replace:
		return "replace"
	default:
		return "unknown"
	}
}

// Route is a registered route as seen by callbacks.
//
// Route 回调中可见的已注册路由。
type Route interface {
	// Path returns the pattern as it was registered.
	Path() interface{}
	// Callbacks returns a copy of the route's callbacks.
	Callbacks() []Callback
	// Match reports whether the route matches path and returns its captures.
	Match(path string) (Params, bool)
}

// Request describes one dispatch. It is created fresh for every dispatch and never reused.
//
// Request 描述一次分发，每次分发都会新建。
type Request struct {
	// Id unique id of the dispatch
	Id string
	// Path the path part of the router url, without query. Rewritten by middleware while it runs.
	Path string
	// Url the router url including query. Rewritten by middleware while it runs.
	Url string
	// OriginalUrl the router url as it was at dispatch start
	OriginalUrl string
	// Query parsed query string
	Query url.Values
	// Params captures of the route currently executing
	Params Params
	// Route the route currently executing
	Route Route
	// Backward the dispatch restores the previous view
	Backward bool
	// Forward the dispatch shows a new view
	Forward bool
	// Replace the dispatch replaces the current view
	Replace bool
}

// Direction returns the navigation direction of the request.
func (r *Request) Direction() Direction {
	if r.Backward {
		return Backward
	}
	if r.Replace {
		return Replace
	}
	return Forward
}

// Response lets callbacks navigate elsewhere.
//
// Response 允许回调跳转到其他路径。
type Response struct {
	navigate func(path string, opts ...NavigateOption)
}

// NewResponse creates a response bound to the given navigate function.
func NewResponse(navigate func(path string, opts ...NavigateOption)) *Response {
	return &Response{navigate: navigate}
}

// Redirect navigates to path.
func (r *Response) Redirect(path string, opts ...NavigateOption) {
	r.Navigate(path, opts...)
}

// Navigate navigates to path.
func (r *Response) Navigate(path string, opts ...NavigateOption) {
	if r == nil || r.navigate == nil {
		return
	}
	r.navigate(path, opts...)
}

// NavigateOptions options of a single navigation.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing a new one
	Replace bool
	// TriggerRoute dispatches even when the destination equals the current url
	TriggerRoute bool
}

// NavigateOption modifies NavigateOptions.
type NavigateOption func(*NavigateOptions)

// ReplaceHistory replaces the current history entry.
func ReplaceHistory() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// TriggerRoute dispatches even if the destination is the current url.
func TriggerRoute() NavigateOption {
	return func(o *NavigateOptions) {
		o.TriggerRoute = true
	}
}

// NewNavigateOptions applies opts.
func NewNavigateOptions(opts ...NavigateOption) NavigateOptions {
	var o NavigateOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
