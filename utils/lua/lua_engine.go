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

// Package lua runs Lua route matchers on gopher-lua.
//
// LState is not goroutine safe, so every call borrows a state from a pool.
// States are opened with the base, table, string and math libraries only.
package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// ErrEngineClosed is returned by Execute after Close.
var ErrEngineClosed = errors.New("lua engine closed")

// Engine executes a compiled Lua chunk in pooled states.
type Engine struct {
	script           string
	maxExecutionTime time.Duration

	mu     sync.Mutex
	idle   []*lua.LState
	closed bool
}

// NewEngine loads script once to validate it and creates the engine.
func NewEngine(script string, maxExecutionTime time.Duration) (*Engine, error) {
	e := &Engine{script: script, maxExecutionTime: maxExecutionTime}
	L, err := e.newState()
	if err != nil {
		return nil, err
	}
	e.idle = append(e.idle, L)
	return e, nil
}

func (e *Engine) newState() (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	if err := e.withTimeout(L, func() error { return L.DoString(e.script) }); err != nil {
		L.Close()
		return nil, err
	}
	return L, nil
}

func (e *Engine) get() (*lua.LState, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrEngineClosed
	}
	if n := len(e.idle); n > 0 {
		L := e.idle[n-1]
		e.idle = e.idle[:n-1]
		e.mu.Unlock()
		return L, nil
	}
	e.mu.Unlock()
	return e.newState()
}

func (e *Engine) put(L *lua.LState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		L.Close()
		return
	}
	e.idle = append(e.idle, L)
}

func (e *Engine) withTimeout(L *lua.LState, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	if e.maxExecutionTime > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), e.maxExecutionTime)
		defer cancel()
		L.SetContext(ctx)
		defer L.RemoveContext()
	}
	return fn()
}

// HasFunction reports whether the script defines the global function name.
func (e *Engine) HasFunction(name string) bool {
	L, err := e.get()
	if err != nil {
		return false
	}
	defer e.put(L)
	return L.GetGlobal(name).Type() == lua.LTFunction
}

// Execute calls the global function name with string arguments and returns its first
// result converted to a Go value.
func (e *Engine) Execute(name string, args ...string) (interface{}, error) {
	L, err := e.get()
	if err != nil {
		return nil, err
	}
	fn := L.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		e.put(L)
		return nil, fmt.Errorf("%q is not a function", name)
	}
	var out interface{}
	err = e.withTimeout(L, func() error {
		top := L.GetTop()
		L.Push(fn)
		for _, arg := range args {
			L.Push(lua.LString(arg))
		}
		if err := L.PCall(len(args), 1, nil); err != nil {
			return err
		}
		out = ToGo(L.Get(-1))
		L.SetTop(top)
		return nil
	})
	if err != nil {
		// 出错的state栈状态不确定，直接丢弃
		L.Close()
		return nil, err
	}
	e.put(L)
	return out, nil
}

// Close releases the idle states. Borrowed states are closed when returned.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	for _, L := range e.idle {
		L.Close()
	}
	e.idle = nil
}

// ToGo converts a Lua value: tables with string keys become map[string]interface{},
// sequences become []interface{}.
func ToGo(v lua.LValue) interface{} {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		return float64(val)
	case lua.LString:
		return string(val)
	case *lua.LTable:
		if val.MaxN() > 0 {
			list := make([]interface{}, 0, val.MaxN())
			for i := 1; i <= val.MaxN(); i++ {
				list = append(list, ToGo(val.RawGetInt(i)))
			}
			return list
		}
		m := make(map[string]interface{})
		val.ForEach(func(k, v lua.LValue) {
			m[k.String()] = ToGo(v)
		})
		return m
	default:
		return nil
	}
}
