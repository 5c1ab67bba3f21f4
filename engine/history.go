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
	"sync"

	"github.com/rulego/navrouter/api/types"
)

// ViewHistory tracks the ids of the views the user walked through so that an opaque
// history entry id can be classified as backward, forward or replace.
// The top of the stack is the view currently displayed.
//
// ViewHistory 记录用户经过的视图id，用于判断一次历史跳转是后退、前进还是替换。
type ViewHistory struct {
	mu     sync.Mutex
	stack  []int64
	lastId int64
}

// NewViewHistory creates a history holding only initialId.
func NewViewHistory(initialId int64) *ViewHistory {
	return &ViewHistory{stack: []int64{initialId}, lastId: initialId}
}

// IssueForwardId issues a new id and pushes it.
func (h *ViewHistory) IssueForwardId() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastId++
	h.stack = append(h.stack, h.lastId)
	return h.lastId
}

// Classify classifies the entry vid the user arrived at and updates the stack:
// the entry below the top is backward (pop), any id other than the top is forward (push),
// the top itself is replace.
func (h *ViewHistory) Classify(vid int64) types.Direction {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.stack)
	if n >= 2 && vid == h.stack[n-2] {
		h.stack = h.stack[:n-1]
		return types.Backward
	}
	if n == 0 || vid != h.stack[n-1] {
		h.stack = append(h.stack, vid)
		return types.Forward
	}
	return types.Replace
}

// LastId returns the last issued id.
func (h *ViewHistory) LastId() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastId
}

// Top returns the id of the current view.
func (h *ViewHistory) Top() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.stack) == 0 {
		return 0
	}
	return h.stack[len(h.stack)-1]
}

// Len returns the stack depth.
func (h *ViewHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stack)
}

// Ids returns a copy of the stack, bottom first.
func (h *ViewHistory) Ids() []int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]int64, len(h.stack))
	copy(out, h.stack)
	return out
}
