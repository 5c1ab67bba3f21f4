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
	"strings"
	"sync"

	"github.com/rulego/navrouter/api/types"
)

type middlewareEntry struct {
	prefix  string
	handler types.Middleware
}

// MiddlewareChain runs prefix scoped middleware in registration order.
//
// MiddlewareChain 按注册顺序执行带前缀的中间件。
type MiddlewareChain struct {
	mu      sync.RWMutex
	entries []middlewareEntry
}

// NewMiddlewareChain creates an empty chain.
func NewMiddlewareChain() *MiddlewareChain {
	return &MiddlewareChain{}
}

// Use appends handler for prefix. "" and "/" apply to every path.
func (c *MiddlewareChain) Use(prefix string, handler types.Middleware) {
	if handler == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, middlewareEntry{prefix: strings.TrimSuffix(prefix, "/"), handler: handler})
}

// Len returns the number of entries.
func (c *MiddlewareChain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes every entry.
func (c *MiddlewareChain) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}

func (c *MiddlewareChain) snapshot() []middlewareEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]middlewareEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Run passes req through the chain and calls onExhausted after the last entry.
// An entry fires when req.Path+"/" starts with prefix+"/". While it runs the prefix is
// stripped from req.Path and req.Url; they are restored before its continuation advances
// and again when it returns. A handler that never continues halts the dispatch.
func (c *MiddlewareChain) Run(req *types.Request, res *types.Response, onExhausted func(req *types.Request, res *types.Response)) {
	entries := c.snapshot()
	var advance func(index int)
	advance = func(index int) {
		for ; index < len(entries); index++ {
			entry := entries[index]
			if !strings.HasPrefix(req.Path+"/", entry.prefix+"/") {
				continue
			}
			savedPath, savedUrl := req.Path, req.Url
			restore := func() {
				req.Path, req.Url = savedPath, savedUrl
			}
			req.Path = stripPrefix(req.Path, entry.prefix)
			if strings.HasPrefix(req.Url, entry.prefix) {
				req.Url = stripUrlPrefix(req.Url, entry.prefix)
			}
			next := index + 1
			fired := false
			entry.handler(req, func() {
				if fired {
					return
				}
				fired = true
				restore()
				advance(next)
			})
			restore()
			return
		}
		if onExhausted != nil {
			onExhausted(req, res)
		}
	}
	advance(0)
}

// stripUrlPrefix strips prefix from url keeping a leading slash: "/admin?x=1" -> "/?x=1".
func stripUrlPrefix(url, prefix string) string {
	url = url[len(prefix):]
	if url == "" || url[0] == '?' || url[0] == '#' {
		return "/" + url
	}
	return url
}

func stripPrefix(path, prefix string) string {
	path = path[len(prefix):]
	if path == "" {
		return "/"
	}
	return path
}
