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
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/rulego/navrouter/api/types"
)

const groupPrefix = "navrouter_"

// PathMatcher matches string path templates.
//
// Syntax:
//   - /users/:id       captures one segment under "id"
//   - /users/:id?      optional segment, the preceding slash is optional too
//   - /files/:n(\d+)   constrained capture
//   - /static/*        wildcard, captured under "0", "1", ... in order
//
// Captured values are percent-decoded.
type PathMatcher struct {
	pattern string
	re      *regexp.Regexp
	// groups maps a capture group index to its param key
	groups map[int]string
}

var _ types.Matcher = (*PathMatcher)(nil)

// NewPathMatcher compiles pattern.
func NewPathMatcher(pattern string, caseSensitive, strict bool) (*PathMatcher, error) {
	var sb strings.Builder
	var keys []string
	wildcards := 0

	if !caseSensitive {
		sb.WriteString("(?i)")
	}
	sb.WriteString("^")

	//非严格模式下忽略模式末尾的斜杠
	body := pattern
	if !strict && len(body) > 1 && strings.HasSuffix(body, "/") {
		body = body[:len(body)-1]
	}

	var literal strings.Builder
	flush := func() {
		sb.WriteString(regexp.QuoteMeta(literal.String()))
		literal.Reset()
	}

	for i := 0; i < len(body); {
		c := body[i]
		switch {
		case c == ':' && i+1 < len(body) && isNameChar(body[i+1]):
			j := i + 1
			for j < len(body) && isNameChar(body[j]) {
				j++
			}
			name := body[i+1 : j]
			capture := "[^/]+?"
			if j < len(body) && body[j] == '(' {
				end, err := closingParen(body, j)
				if err != nil {
					return nil, fmt.Errorf("%w: %s: %v", types.ErrInvalidPattern, pattern, err)
				}
				capture = body[j+1 : end]
				if _, err := regexp.Compile(capture); err != nil {
					return nil, fmt.Errorf("%w: %s: %v", types.ErrInvalidPattern, pattern, err)
				}
				j = end + 1
			}
			optional := false
			if j < len(body) && body[j] == '?' {
				optional = true
				j++
			}
			group := "(?P<" + groupPrefix + strconv.Itoa(len(keys)) + ">" + capture + ")"
			keys = append(keys, name)
			if optional {
				lit := literal.String()
				slash := strings.HasSuffix(lit, "/")
				if slash {
					literal.Reset()
					literal.WriteString(lit[:len(lit)-1])
				}
				flush()
				if slash {
					sb.WriteString("(?:/" + group + ")?")
				} else {
					sb.WriteString(group + "?")
				}
			} else {
				flush()
				sb.WriteString(group)
			}
			i = j
		case c == '*':
			flush()
			sb.WriteString("(?P<" + groupPrefix + strconv.Itoa(len(keys)) + ">.*)")
			keys = append(keys, strconv.Itoa(wildcards))
			wildcards++
			i++
		default:
			literal.WriteByte(c)
			i++
		}
	}
	flush()

	if !strict {
		sb.WriteString("/?")
	}
	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrInvalidPattern, pattern, err)
	}
	groups := make(map[int]string, len(keys))
	for i, name := range re.SubexpNames() {
		if !strings.HasPrefix(name, groupPrefix) {
			continue
		}
		if idx, err := strconv.Atoi(name[len(groupPrefix):]); err == nil && idx < len(keys) {
			groups[i] = keys[idx]
		}
	}
	return &PathMatcher{pattern: pattern, re: re, groups: groups}, nil
}

// Match implements types.Matcher.
func (m *PathMatcher) Match(path string) (types.Params, bool) {
	loc := m.re.FindStringSubmatchIndex(path)
	if loc == nil {
		return nil, false
	}
	params := make(types.Params, len(m.groups))
	for group, key := range m.groups {
		//可选参数未出现时不设置
		if loc[2*group] < 0 {
			continue
		}
		params[key] = decode(path[loc[2*group]:loc[2*group+1]])
	}
	return params, true
}

// Pattern returns the source pattern.
func (m *PathMatcher) Pattern() string {
	return m.pattern
}

// Regexp returns the compiled regular expression.
func (m *PathMatcher) Regexp() *regexp.Regexp {
	return m.re
}

func (m *PathMatcher) String() string {
	return m.pattern
}

func decode(s string) string {
	if v, err := url.PathUnescape(s); err == nil {
		return v
	}
	return s
}

func isNameChar(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// closingParen returns the index of the parenthesis closing the one at open.
func closingParen(s string, open int) (int, error) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unbalanced parenthesis at %d", open)
}
