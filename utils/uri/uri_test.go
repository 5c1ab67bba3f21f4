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

package uri

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHash(t *testing.T) {
	assert.Equal(t, "/users/1", GetHash("http://x.com/app/#!/users/1"))
	assert.Equal(t, "/users/1?tab=2", GetHash("http://x.com/#!/users/1?tab=2&__vid=12"))
	assert.Equal(t, "/users/1?tab=2", GetHash("http://x.com/#!/users/1?__vid=12&tab=2"))
	assert.Equal(t, "/", GetHash("http://x.com/#!/?__vid=3"))
	assert.Equal(t, "", GetHash("http://x.com/#/plain"))
	assert.Equal(t, "", GetHash("http://x.com/users"))
}

func TestVid(t *testing.T) {
	assert.Equal(t, "#!/a?__vid=11", AddVid("#!/a", 11))
	assert.Equal(t, "#!/a?b=1&__vid=11", AddVid("#!/a?b=1", 11))

	assert.Equal(t, int64(11), GetVid("http://x.com/#!/a?b=1&__vid=11"))
	assert.Equal(t, int64(0), GetVid("http://x.com/#!/a?b=1"))
	//查询参数中的vid不算
	assert.Equal(t, int64(0), GetVid("http://x.com/a?__vid=11"))

	assert.True(t, HasVid("http://x.com/#!/a?__vid=11"))
	assert.False(t, HasVid("http://x.com/#!/a"))

	assert.Equal(t, "http://x.com/#!/a", RemoveVid("http://x.com/#!/a?__vid=11"))
	assert.Equal(t, "/a?b=1", RemoveVid("/a?__vid=11&b=1"))
	assert.Equal(t, "/a?b=1", RemoveVid("/a?b=1&__vid=11"))
}

func TestSlashHelpers(t *testing.T) {
	assert.True(t, EqualsIgnoreSlash("/app/", "/app"))
	assert.True(t, EqualsIgnoreSlash("/", ""))
	assert.False(t, EqualsIgnoreSlash("/app/x", "/app"))

	assert.Equal(t, "/app/", AddEndSlash("/app"))
	assert.Equal(t, "/app/", AddEndSlash("/app/"))
	assert.Equal(t, "/", AddEndSlash(""))
}

func TestUrlParts(t *testing.T) {
	href := "https://x.com:8080/app/list?page=2#!/a"
	assert.Equal(t, "https://x.com:8080", Origin(href))
	assert.Equal(t, "", Origin("/relative"))
	assert.Equal(t, "https://x.com:8080/app/users", GetFullPath(href, "/users", "/app"))
	assert.Equal(t, "#!/a", Fragment(href))
	assert.Equal(t, "https://x.com:8080/app/list?page=2", StripFragment(href))
	assert.Equal(t, "/app/list", PathOf(href))
	assert.Equal(t, "?page=2", SearchOf(href))
	assert.Equal(t, "", SearchOf("https://x.com/app"))

	assert.True(t, IsValidHash("#!/a"))
	assert.False(t, IsValidHash("#!"))
	assert.False(t, IsValidHash("#/a"))
}

func TestResolve(t *testing.T) {
	base := "http://x.com/app/list?page=2#!/a"
	assert.Equal(t, "http://x.com/app/list?page=2#!/b?__vid=3", Resolve(base, "#!/b?__vid=3"))
	assert.Equal(t, "http://x.com/users?x=1", Resolve(base, "/users?x=1"))
	assert.Equal(t, "https://y.com/", Resolve(base, "https://y.com/"))
	assert.Equal(t, "http://x.com/app/detail", Resolve(base, "detail"))
	assert.Equal(t, "http://x.com/app/list?page=2", Resolve(base, ""))
}
