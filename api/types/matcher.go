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

package types

import "time"

// Matcher is a compiled route pattern.
// Match returns a non-nil Params and true on success, nil and false otherwise.
//
// Matcher 编译后的路由模式。匹配成功返回非nil的 Params 和 true。
type Matcher interface {
	Match(path string) (Params, bool)
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(path string) (Params, bool)

func (f MatcherFunc) Match(path string) (Params, bool) {
	return f(path)
}

// MatchOptions options applied when compiling string patterns.
type MatchOptions struct {
	CaseSensitive bool
	Strict        bool
	// ScriptMaxExecutionTime limit of script matchers
	ScriptMaxExecutionTime time.Duration
	Logger                 Logger
}
