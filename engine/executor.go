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
	"github.com/rulego/navrouter/api/types"
)

// Executor probes routes in order and runs the callback chain of the first match.
// A callback continues with next(types.Proceed) or falls through to the following
// matching route with next(types.SkipRoute). Each continuation is single use.
//
// Executor 按顺序匹配路由并执行首个匹配路由的回调链。
type Executor struct {
	routes []*Route
	req    *types.Request
	res    *types.Response
	// OnUnhandled is called when no route handled the request
	OnUnhandled func(req *types.Request)
}

// NewExecutor creates an executor over a snapshot of routes.
func NewExecutor(routes []*Route, req *types.Request, res *types.Response) *Executor {
	return &Executor{routes: routes, req: req, res: res}
}

// Execute starts probing at the first route.
func (e *Executor) Execute() {
	e.probe(0)
}

func (e *Executor) probe(start int) {
	for i := start; i < len(e.routes); i++ {
		route := e.routes[i]
		params, ok := route.Match(e.req.Path)
		if !ok {
			continue
		}
		e.req.Params = params
		e.run(route, i)
		return
	}
	if e.OnUnhandled != nil {
		e.OnUnhandled(e.req)
	}
}

func (e *Executor) run(route *Route, position int) {
	callbacks := route.Callbacks()
	index := -1
	var step func(signal types.Signal)
	step = func(signal types.Signal) {
		if signal == types.SkipRoute {
			e.probe(position + 1)
			return
		}
		index++
		if index < len(callbacks) {
			e.req.Route = route
			callbacks[index](e.req, e.res, once(step))
		}
	}
	step(types.Proceed)
}

func once(step func(signal types.Signal)) types.Next {
	fired := false
	return func(signal types.Signal) {
		if fired {
			return
		}
		fired = true
		step(signal)
	}
}
