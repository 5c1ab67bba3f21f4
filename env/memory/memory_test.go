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

package memory

import (
	"testing"

	"github.com/rulego/navrouter/api/types"
	"github.com/rulego/navrouter/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(b *Browser) *[]env.Event {
	var events []env.Event
	b.Listen(func(ev env.Event) {
		events = append(events, ev)
	})
	return &events
}

func TestStateTraversal(t *testing.T) {
	b := NewBrowser("http://x.com/")
	events := record(b)
	b.ReplaceState(&types.State{Vid: 10}, "http://x.com/")
	b.PushState(&types.State{Vid: 11}, "/a")
	b.PushState(&types.State{Vid: 12}, "b")
	assert.Equal(t, "http://x.com/b", b.Href())
	assert.Equal(t, 2, b.Index())
	assert.Empty(t, *events)

	assert.True(t, b.Go(-2))
	require.Equal(t, 1, len(*events))
	assert.Equal(t, types.PopState, (*events)[0].Kind)
	assert.Equal(t, int64(10), (*events)[0].State.Vid)

	assert.False(t, b.Back())
	assert.False(t, b.Go(0))
	assert.True(t, b.Forward())
	assert.Equal(t, "http://x.com/a", b.Href())

	//新记录会截断前进历史
	b.PushState(&types.State{Vid: 13}, "/c")
	assert.Equal(t, 3, len(b.Entries()))
	assert.False(t, b.Forward())
}

func TestStateIsCopied(t *testing.T) {
	b := NewBrowser("http://x.com/")
	state := &types.State{Vid: 1}
	b.PushState(state, "/a")
	state.Vid = 2
	assert.Equal(t, int64(1), b.State().Vid)
}

func TestAssignHash(t *testing.T) {
	b := NewBrowser("http://x.com/p")
	events := record(b)
	b.AssignHash("!/a")
	assert.Equal(t, "http://x.com/p#!/a", b.Href())
	require.Equal(t, 2, len(*events))
	assert.Equal(t, types.PopState, (*events)[0].Kind)
	assert.Nil(t, (*events)[0].State)
	assert.Equal(t, types.HashChange, (*events)[1].Kind)

	b.AssignHash("#!/a")
	assert.Equal(t, 2, len(*events))
	assert.Equal(t, 2, len(b.Entries()))

	//锚点不同的记录之间跳转同时触发hashchange
	b.Back()
	assert.Equal(t, 4, len(*events))
	assert.Equal(t, "http://x.com/p", (*events)[3].URL)
}

func TestLegacyEvents(t *testing.T) {
	b := NewBrowser("http://x.com/", WithoutHistory())
	events := record(b)
	assert.False(t, b.HistorySupported())
	b.AssignHash("#!/a")
	b.Back()
	require.Equal(t, 2, len(*events))
	for _, ev := range *events {
		assert.Equal(t, types.HashChange, ev.Kind)
	}
}

func TestReplaceLocationAndVisit(t *testing.T) {
	b := NewBrowser("http://x.com/a")
	events := record(b)
	b.ReplaceLocation("#x")
	assert.Equal(t, "http://x.com/a#x", b.Href())
	assert.Equal(t, 2, len(*events))
	assert.Equal(t, 0, b.Reloads())

	b.ReplaceLocation("/b")
	assert.Equal(t, "http://x.com/b", b.Href())
	assert.Equal(t, 1, b.Reloads())
	assert.Equal(t, 1, len(b.Entries()))

	b.Visit("http://x.com/b#y")
	assert.Equal(t, 4, len(*events))
	b.Visit("http://x.com/b#y")
	assert.Equal(t, 4, len(*events))

	b.Visit("/c")
	assert.Equal(t, 2, b.Reloads())
	assert.Equal(t, 3, len(b.Entries()))
	//新文档不保留监听器
	b.AssignHash("#z")
	assert.Equal(t, 4, len(*events))
}

func TestListenCancel(t *testing.T) {
	b := NewBrowser("http://x.com/")
	n := 0
	cancel := b.Listen(func(ev env.Event) { n++ })
	b.AssignHash("#a")
	cancel()
	b.AssignHash("#b")
	assert.Equal(t, 2, n)
}
