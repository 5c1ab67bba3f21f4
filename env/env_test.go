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

package env_test

import (
	"testing"

	"github.com/rulego/navrouter/api/types"
	"github.com/rulego/navrouter/env/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentURL(t *testing.T) {
	browser := memory.NewBrowser("http://x.com/app/users/1?a=b#!/ignored")
	e := browser.Env()
	e.SetAddressing("/app/", false)
	assert.False(t, e.HashMode())
	assert.Equal(t, "/users/1?a=b", e.CurrentURL())

	e.SetAddressing("/app", true)
	assert.True(t, e.HashMode())
	assert.Equal(t, "/ignored", e.CurrentURL())

	legacy := memory.NewBrowser("http://x.com/#!/a?__vid=12&b=1", memory.WithoutHistory())
	assert.True(t, legacy.Env().HashMode())
	assert.Equal(t, "/a?b=1", legacy.Env().CurrentURL())
}

func TestNavigateHistoryMode(t *testing.T) {
	browser := memory.NewBrowser("http://x.com/app/")
	e := browser.Env()
	e.SetAddressing("/app", false)

	assert.False(t, e.Navigate("/a?x=1", types.State{Vid: 11}, false))
	assert.Equal(t, "http://x.com/app/a?x=1", browser.Href())
	assert.Equal(t, int64(11), browser.State().Vid)
	assert.Equal(t, 2, len(browser.Entries()))

	assert.False(t, e.Navigate("/b", types.State{Vid: 11}, true))
	assert.Equal(t, "http://x.com/app/b", browser.Href())
	assert.Equal(t, 2, len(browser.Entries()))
}

func TestNavigateHashMode(t *testing.T) {
	browser := memory.NewBrowser("http://x.com/page")
	e := browser.Env()
	e.SetAddressing("", true)
	assert.False(t, e.Navigate("/a", types.State{Vid: 11}, false))
	assert.Equal(t, "http://x.com/page#!/a", browser.Href())
	assert.Equal(t, int64(11), browser.State().Vid)

	legacy := memory.NewBrowser("http://x.com/", memory.WithoutHistory())
	le := legacy.Env()
	var got []types.Notification
	cancel := le.Subscribe(func(n types.Notification) {
		got = append(got, n)
	})
	assert.True(t, le.Navigate("/a?q=1", types.State{Vid: 11}, false))
	assert.Equal(t, "http://x.com/#!/a?q=1&__vid=11", legacy.Href())
	assert.True(t, le.Navigate("/b", types.State{Vid: 11}, true))
	assert.Equal(t, "http://x.com/#!/b?__vid=11", legacy.Href())
	assert.Equal(t, 2, len(legacy.Entries()))
	require.Equal(t, 2, len(got))
	assert.Equal(t, types.HashChange, got[0].Kind)
	assert.Equal(t, "http://x.com/#!/b?__vid=11", got[1].URL)

	cancel()
	le.Navigate("/c", types.State{Vid: 12}, false)
	assert.Equal(t, 2, len(got))
}

func TestSubscribeFiltersKind(t *testing.T) {
	browser := memory.NewBrowser("http://x.com/")
	var got []types.Notification
	browser.Env().Subscribe(func(n types.Notification) {
		got = append(got, n)
	})
	browser.Visit("http://x.com/#top")
	require.Equal(t, 1, len(got))
	assert.Equal(t, types.PopState, got[0].Kind)
	assert.Nil(t, got[0].State)
}

func TestPrepare(t *testing.T) {
	t.Run("history", func(t *testing.T) {
		browser := memory.NewBrowser("http://x.com/app/a")
		startup, err := browser.Env().Prepare(types.NewConfig(types.WithUrlRoot("/app")), 10)
		require.NoError(t, err)
		assert.False(t, startup.UseHash)
		assert.False(t, startup.TriggerRoute)
		assert.Equal(t, int64(10), browser.State().Vid)
	})
	t.Run("migrateUnderUrlRoot", func(t *testing.T) {
		browser := memory.NewBrowser("http://x.com/app/#!/users/2?__vid=13")
		e := browser.Env()
		startup, err := e.Prepare(types.NewConfig(types.WithUrlRoot("/app")), 10)
		require.NoError(t, err)
		assert.True(t, startup.TriggerRoute)
		assert.Equal(t, "http://x.com/app/users/2", browser.Href())
		assert.Equal(t, "/users/2", e.CurrentURL())
	})
	t.Run("mismatch", func(t *testing.T) {
		browser := memory.NewBrowser("http://x.com/other#!/a")
		startup, err := browser.Env().Prepare(types.NewConfig(types.WithUrlRoot("/app")), 10)
		assert.ErrorIs(t, err, types.ErrUrlRootMismatch)
		assert.True(t, startup.UseHash)
		assert.Equal(t, int64(10), browser.State().Vid)
	})
	t.Run("useHashDropsVid", func(t *testing.T) {
		browser := memory.NewBrowser("http://x.com/#!/a?__vid=3")
		startup, err := browser.Env().Prepare(types.NewConfig(types.WithUseHash(true)), 10)
		require.NoError(t, err)
		assert.True(t, startup.UseHash)
		assert.Equal(t, "http://x.com/#!/a", browser.Href())
	})
	t.Run("legacyAtRoot", func(t *testing.T) {
		browser := memory.NewBrowser("http://x.com/app/#!/a?__vid=10", memory.WithoutHistory())
		startup, err := browser.Env().Prepare(types.NewConfig(types.WithUrlRoot("/app")), 10)
		require.NoError(t, err)
		assert.True(t, startup.UseHash)
		assert.True(t, startup.TriggerRoute)
		assert.Equal(t, "http://x.com/app/#!/a?__vid=10", browser.Href())
		assert.Equal(t, 0, browser.Reloads())
	})
	t.Run("legacyReload", func(t *testing.T) {
		browser := memory.NewBrowser("http://x.com/a/b", memory.WithoutHistory())
		_, err := browser.Env().Prepare(types.NewConfig(), 10)
		assert.ErrorIs(t, err, types.ErrReloading)
		assert.Equal(t, "http://x.com/#!/a/b", browser.Href())
		assert.Equal(t, 1, browser.Reloads())
	})
}
