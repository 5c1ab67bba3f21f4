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

// Package matcher compiles route patterns into types.Matcher.
//
// Package matcher 把路由模式编译成 types.Matcher。
//
// Supported patterns:
//   - string: path template, see PathMatcher
//   - *regexp.Regexp: named groups by name, unnamed groups under "0", "1", ...
//   - Expr: expr-lang expression over path, segments and query
//   - Js: JavaScript source defining function match(path)
//   - Lua: Lua source defining function match(path)
//   - types.Matcher, func(string) (types.Params, bool), func(string) bool: caller logic
package matcher

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"unsafe"

	"github.com/rulego/navrouter/api/types"
)

// Compile compiles pattern with opts.
func Compile(pattern interface{}, opts types.MatchOptions) (types.Matcher, error) {
	switch p := pattern.(type) {
	case string:
		return NewPathMatcher(p, opts.CaseSensitive, opts.Strict)
	case *regexp.Regexp:
		if p == nil {
			return nil, fmt.Errorf("%w: nil regexp", types.ErrInvalidPattern)
		}
		return NewRegexpMatcher(p), nil
	case Expr:
		return NewExprMatcher(string(p))
	case Js:
		return NewJsMatcher(string(p), opts)
	case Lua:
		return NewLuaMatcher(string(p), opts)
	case types.MatcherFunc:
		if p == nil {
			return nil, fmt.Errorf("%w: nil matcher func", types.ErrInvalidPattern)
		}
		return p, nil
	case func(string) (types.Params, bool):
		if p == nil {
			return nil, fmt.Errorf("%w: nil matcher func", types.ErrInvalidPattern)
		}
		return types.MatcherFunc(p), nil
	case func(string) bool:
		if p == nil {
			return nil, fmt.Errorf("%w: nil matcher func", types.ErrInvalidPattern)
		}
		return types.MatcherFunc(func(path string) (types.Params, bool) {
			if p(path) {
				return types.Params{}, true
			}
			return nil, false
		}), nil
	case types.Matcher:
		if isNil(p) {
			return nil, fmt.Errorf("%w: nil matcher", types.ErrInvalidPattern)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: unsupported pattern type %T", types.ErrInvalidPattern, pattern)
	}
}

// SamePattern reports whether a and b are the same registered pattern.
// Comparable values are compared by value, functions by FuncIdentity and
// other values by reference.
func SamePattern(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Func:
		return FuncIdentity(a) == FuncIdentity(b)
	case reflect.Map, reflect.Slice:
		return va.Pointer() == vb.Pointer()
	}
	if ta.Comparable() {
		return a == b
	}
	return false
}

// FuncIdentity returns the identity of the function value fn: the closure instance, not its
// code address. Closures created by the same literal differ from each other, a top level
// function is always the same. It returns nil for nil or non function values.
//
// FuncIdentity 返回函数值的标识：闭包实例而不是代码地址。
func FuncIdentity(fn interface{}) unsafe.Pointer {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil
	}
	//函数变量保存的是闭包对象的指针
	holder := reflect.New(v.Type())
	holder.Elem().Set(v)
	return *(*unsafe.Pointer)(holder.UnsafePointer())
}

// RegexpMatcher matches a caller supplied regular expression as is.
type RegexpMatcher struct {
	re *regexp.Regexp
}

// NewRegexpMatcher wraps re.
func NewRegexpMatcher(re *regexp.Regexp) *RegexpMatcher {
	return &RegexpMatcher{re: re}
}

// Match implements types.Matcher.
func (m *RegexpMatcher) Match(path string) (types.Params, bool) {
	loc := m.re.FindStringSubmatchIndex(path)
	if loc == nil {
		return nil, false
	}
	params := make(types.Params)
	unnamed := 0
	for i, name := range m.re.SubexpNames() {
		if i == 0 {
			continue
		}
		key := name
		if key == "" {
			key = strconv.Itoa(unnamed)
			unnamed++
		}
		if loc[2*i] < 0 {
			continue
		}
		params[key] = decode(path[loc[2*i]:loc[2*i+1]])
	}
	return params, true
}

func (m *RegexpMatcher) String() string {
	return m.re.String()
}

func isNil(v interface{}) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Interface, reflect.Slice, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
