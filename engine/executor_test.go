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
	"testing"

	"github.com/rulego/navrouter/api/types"
	"github.com/stretchr/testify/assert"
)

func TestExecutorProceed(t *testing.T) {
	rec := &recorder{}
	routes := []*Route{
		newRoute(t, "/a", rec.handler("a1"), rec.handler("a2")),
		newRoute(t, "/a", rec.handler("b")),
	}
	NewExecutor(routes, NewRequest("/a", false, false), nil).Execute()
	//执行完回调链后不再匹配后续路由
	assert.Equal(t, []string{"a1", "a2"}, rec.names())
}

func TestExecutorSkipRoute(t *testing.T) {
	rec := &recorder{}
	skip := func(req *types.Request, res *types.Response, next types.Next) {
		rec.add("skip", req)
		next(types.SkipRoute)
	}
	var routeSeen types.Route
	routes := []*Route{
		newRoute(t, "/users/:id", skip, rec.handler("never")),
		newRoute(t, "/posts", rec.handler("posts")),
		newRoute(t, "/users/*", func(req *types.Request, res *types.Response, next types.Next) {
			routeSeen = req.Route
			rec.add("wildcard", req)
		}),
	}
	req := NewRequest("/users/7", false, false)
	NewExecutor(routes, req, nil).Execute()
	assert.Equal(t, []string{"skip", "wildcard"}, rec.names())
	assert.Equal(t, types.Params{"id": "7"}, rec.calls[0].params)
	assert.Equal(t, types.Params{"0": "7"}, rec.calls[1].params)
	assert.Same(t, routes[2], routeSeen)
}

func TestExecutorHaltAndSingleUse(t *testing.T) {
	rec := &recorder{}
	var saved types.Next
	routes := []*Route{
		newRoute(t, "/a", func(req *types.Request, res *types.Response, next types.Next) {
			saved = next
		}, rec.handler("second")),
		newRoute(t, "/a", rec.handler("other")),
	}
	NewExecutor(routes, NewRequest("/a", false, false), nil).Execute()
	assert.Equal(t, 0, rec.len())

	saved(types.Proceed)
	assert.Equal(t, []string{"second"}, rec.names())
	saved(types.Proceed)
	saved(types.SkipRoute)
	assert.Equal(t, []string{"second"}, rec.names())
}

func TestExecutorUnhandled(t *testing.T) {
	rec := &recorder{}
	routes := []*Route{newRoute(t, "/a", rec.handler("a"))}
	var unhandled *types.Request
	executor := NewExecutor(routes, NewRequest("/b", false, false), nil)
	executor.OnUnhandled = func(req *types.Request) {
		unhandled = req
	}
	executor.Execute()
	assert.Equal(t, 0, rec.len())
	assert.Equal(t, "/b", unhandled.Path)

	//跳过最后一个匹配路由也视为未处理
	unhandled = nil
	skipAll := NewExecutor([]*Route{newRoute(t, "/b", func(req *types.Request, res *types.Response, next types.Next) {
		next(types.SkipRoute)
	})}, NewRequest("/b", false, false), nil)
	skipAll.OnUnhandled = func(req *types.Request) {
		unhandled = req
	}
	skipAll.Execute()
	assert.NotNil(t, unhandled)
}

func TestExecutorEmptyCallbacks(t *testing.T) {
	rec := &recorder{}
	routes := []*Route{newRoute(t, "/a"), newRoute(t, "/a", rec.handler("later"))}
	handled := true
	executor := NewExecutor(routes, NewRequest("/a", false, false), nil)
	executor.OnUnhandled = func(req *types.Request) { handled = false }
	executor.Execute()
	assert.True(t, handled)
	assert.Equal(t, 0, rec.len())
}
