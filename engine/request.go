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
	"net/url"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/rulego/navrouter/api/types"
)

// NewRequest builds the request of one dispatch from the router url rawURL.
// The path is normalised: "" becomes "/", duplicate slashes and dot segments are removed.
func NewRequest(rawURL string, backward, replace bool) *types.Request {
	path, query := splitURL(rawURL)
	var id string
	if v4, err := uuid.NewV4(); err == nil {
		id = v4.String()
	}
	return &types.Request{
		Id:          id,
		Path:        httprouter.CleanPath(path),
		Url:         rawURL,
		OriginalUrl: rawURL,
		Query:       query,
		Backward:    backward,
		Forward:     !backward && !replace,
		Replace:     replace,
	}
}

func splitURL(rawURL string) (string, url.Values) {
	//只接受相对url，其余情况按字符串切分
	if u, err := url.Parse(rawURL); err == nil && u.Scheme == "" && u.Opaque == "" && u.Host == "" {
		return u.EscapedPath(), u.Query()
	}
	path, rawQuery := rawURL, ""
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		path, rawQuery = rawURL[:i], rawURL[i+1:]
	}
	query, _ := url.ParseQuery(rawQuery)
	if query == nil {
		query = url.Values{}
	}
	return path, query
}
