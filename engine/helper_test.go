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
	"strings"
	"sync"

	"github.com/rulego/navrouter/api/types"
)

type call struct {
	name      string
	path      string
	params    types.Params
	direction types.Direction
	query     string
}

type recorder struct {
	mu    sync.Mutex
	calls []call
}

func (r *recorder) add(name string, req *types.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{
		name:      name,
		path:      req.Path,
		params:    req.Params,
		direction: req.Direction(),
		query:     req.Query.Encode(),
	})
}

// handler records the call and proceeds.
func (r *recorder) handler(name string) types.Callback {
	return func(req *types.Request, res *types.Response, next types.Next) {
		r.add(name, req)
		next(types.Proceed)
	}
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, c := range r.calls {
		out = append(out, c.name)
	}
	return out
}

func (r *recorder) last() call {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return call{}
	}
	return r.calls[len(r.calls)-1]
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type bufferLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *bufferLogger) Printf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func (l *bufferLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}
