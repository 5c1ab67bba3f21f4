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
	"testing"

	"github.com/rulego/navrouter/api/types"
	"github.com/rulego/navrouter/env/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool(t *testing.T) {
	pool := NewPool()
	var created, deleted []string
	pool.Callbacks = PoolCallbacks{
		OnNew: func(id string, router *Router) {
			created = append(created, id)
		},
		OnDeleted: func(id string) {
			deleted = append(deleted, id)
		},
	}
	first := memory.NewBrowser("http://x.com/")
	router, err := pool.New("page1", first.Env(), types.WithLogger(types.DiscardLogger()))
	require.NoError(t, err)
	require.NoError(t, router.Start())

	_, err = pool.New("page1", first.Env())
	assert.Error(t, err)
	_, err = pool.New("page2", nil)
	assert.ErrorIs(t, err, types.ErrNilEnvironment)

	_, err = pool.New("page2", memory.NewBrowser("http://y.com/").Env())
	require.NoError(t, err)
	assert.Equal(t, 2, pool.Len())

	got, ok := pool.Get("page1")
	assert.True(t, ok)
	assert.Same(t, router, got)

	ids := map[string]bool{}
	pool.Range(func(id string, router *Router) bool {
		ids[id] = true
		return true
	})
	assert.Equal(t, map[string]bool{"page1": true, "page2": true}, ids)

	pool.Del("page1")
	assert.False(t, router.Started())
	_, ok = pool.Get("page1")
	assert.False(t, ok)
	pool.Del("page1")

	pool.Stop()
	assert.Equal(t, 0, pool.Len())
	assert.Equal(t, []string{"page1", "page2"}, created)
	assert.Equal(t, []string{"page1", "page2"}, deleted)
}
