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
	"fmt"
	"sync"

	"github.com/rulego/navrouter/api/types"
)

// DefaultPool is the default global router pool.
var DefaultPool = NewPool()

// PoolCallbacks lifecycle hooks of a Pool.
type PoolCallbacks struct {
	// OnNew called after a router was created
	OnNew func(id string, router *Router)
	// OnDeleted called after a router was stopped and removed
	OnDeleted func(id string)
}

// Pool manages one router per id, for example one per connected page.
//
// Pool 按id管理多个路由器实例，例如每个连接的页面一个。
type Pool struct {
	entries   sync.Map
	Callbacks PoolCallbacks
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// New creates a router for env under id. It fails if id is already in use.
func (p *Pool) New(id string, env types.Environment, opts ...types.Option) (*Router, error) {
	if env == nil {
		return nil, types.ErrNilEnvironment
	}
	router := NewRouter(env, opts...)
	if _, loaded := p.entries.LoadOrStore(id, router); loaded {
		return nil, fmt.Errorf("router id=%s already exists", id)
	}
	if p.Callbacks.OnNew != nil {
		p.Callbacks.OnNew(id, router)
	}
	return router, nil
}

// Get returns the router of id.
func (p *Pool) Get(id string) (*Router, bool) {
	v, ok := p.entries.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Router), true
}

// Del stops and removes the router of id.
func (p *Pool) Del(id string) {
	v, ok := p.entries.LoadAndDelete(id)
	if !ok {
		return
	}
	v.(*Router).Stop()
	if p.Callbacks.OnDeleted != nil {
		p.Callbacks.OnDeleted(id)
	}
}

// Stop stops and removes every router.
func (p *Pool) Stop() {
	p.entries.Range(func(key, value any) bool {
		p.Del(key.(string))
		return true
	})
}

// Range iterates over the routers.
func (p *Pool) Range(f func(id string, router *Router) bool) {
	p.entries.Range(func(key, value any) bool {
		return f(key.(string), value.(*Router))
	})
}

// Len returns the number of routers.
func (p *Pool) Len() int {
	n := 0
	p.entries.Range(func(key, value any) bool {
		n++
		return true
	})
	return n
}
