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

package matcher

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rulego/navrouter/api/types"
	"github.com/rulego/navrouter/utils/js"
	"github.com/rulego/navrouter/utils/lua"
	"github.com/rulego/navrouter/utils/maps"
)

// MatchFunctionName name of the function js and lua matchers must define
const MatchFunctionName = "match"

// Expr is an expr-lang expression pattern.
// Variables: path (string), segments ([]string, path split on "/" without empty parts).
// A true result matches without captures, a map result matches with its entries as params.
//
//	router.Get(matcher.Expr(`path startsWith "/admin" && len(segments) == 2`), handler)
//	router.Get(matcher.Expr(`segments[0] == "u" ? {"id": segments[1]} : false`), handler)
type Expr string

// Js is a JavaScript pattern defining function match(path).
// The function returns true, false/null or an object of params.
//
//	router.Get(matcher.Js(`function match(path) { var m = /^\/p\/(\d+)$/.exec(path); return m ? {id: m[1]} : false; }`), handler)
type Js string

// Lua is a Lua pattern defining function match(path).
// The function returns true, false/nil or a table of params.
type Lua string

// ExprMatcher evaluates an Expr.
type ExprMatcher struct {
	source  string
	program *vm.Program
}

// NewExprMatcher compiles source.
func NewExprMatcher(source string) (*ExprMatcher, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: expr can not be empty", types.ErrInvalidPattern)
	}
	program, err := expr.Compile(source, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidPattern, err)
	}
	return &ExprMatcher{source: source, program: program}, nil
}

// Match implements types.Matcher. Evaluation errors are treated as no match.
func (m *ExprMatcher) Match(path string) (types.Params, bool) {
	out, err := vm.Run(m.program, map[string]interface{}{
		"path":     path,
		"segments": Segments(path),
	})
	if err != nil {
		return nil, false
	}
	return toParams(out)
}

func (m *ExprMatcher) String() string {
	return m.source
}

// JsMatcher calls match(path) of a JavaScript source.
type JsMatcher struct {
	source string
	engine *js.GojaJsEngine
	logger types.Logger
}

// NewJsMatcher compiles source.
func NewJsMatcher(source string, opts types.MatchOptions) (*JsMatcher, error) {
	logger := opts.Logger
	if logger == nil {
		logger = types.DiscardLogger()
	}
	engine, err := js.NewGojaJsEngine(source, js.Options{
		MaxExecutionTime: opts.ScriptMaxExecutionTime,
		Logger:           logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidPattern, err)
	}
	if !engine.HasFunction(MatchFunctionName) {
		return nil, fmt.Errorf("%w: js pattern must define function %s(path)", types.ErrInvalidPattern, MatchFunctionName)
	}
	return &JsMatcher{source: source, engine: engine, logger: logger}, nil
}

// Match implements types.Matcher. Script errors are logged and treated as no match.
func (m *JsMatcher) Match(path string) (types.Params, bool) {
	out, err := m.engine.Execute(MatchFunctionName, path)
	if err != nil {
		m.logger.Printf("js matcher error path=%s: %s", path, err.Error())
		return nil, false
	}
	return toParams(out)
}

func (m *JsMatcher) String() string {
	return m.source
}

// LuaMatcher calls match(path) of a Lua source.
type LuaMatcher struct {
	source string
	engine *lua.Engine
	logger types.Logger
}

// NewLuaMatcher loads source.
func NewLuaMatcher(source string, opts types.MatchOptions) (*LuaMatcher, error) {
	logger := opts.Logger
	if logger == nil {
		logger = types.DiscardLogger()
	}
	engine, err := lua.NewEngine(source, opts.ScriptMaxExecutionTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidPattern, err)
	}
	if !engine.HasFunction(MatchFunctionName) {
		engine.Close()
		return nil, fmt.Errorf("%w: lua pattern must define function %s(path)", types.ErrInvalidPattern, MatchFunctionName)
	}
	return &LuaMatcher{source: source, engine: engine, logger: logger}, nil
}

// Match implements types.Matcher. Script errors are logged and treated as no match.
func (m *LuaMatcher) Match(path string) (types.Params, bool) {
	out, err := m.engine.Execute(MatchFunctionName, path)
	if err != nil {
		m.logger.Printf("lua matcher error path=%s: %s", path, err.Error())
		return nil, false
	}
	return toParams(out)
}

// Close releases the Lua states.
func (m *LuaMatcher) Close() {
	m.engine.Close()
}

func (m *LuaMatcher) String() string {
	return m.source
}

// Segments splits path on "/" dropping empty parts.
func Segments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, decode(p))
		}
	}
	return segments
}

func toParams(out interface{}) (types.Params, bool) {
	switch v := out.(type) {
	case bool:
		if v {
			return types.Params{}, true
		}
	case map[string]interface{}:
		if v != nil {
			return types.Params(maps.StringValues(v)), true
		}
	case map[string]string:
		if v != nil {
			params := make(types.Params, len(v))
			for k, val := range v {
				params[k] = val
			}
			return params, true
		}
	}
	return nil, false
}
