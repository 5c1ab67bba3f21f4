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

// Package memory provides an in-process browser: a session history with states,
// back/forward traversal and synchronous popstate/hashchange events.
// It drives routers in tests and headless applications.
//
// Package memory 提供进程内浏览器实现，事件同步派发，用于测试和无界面应用。
//
//	browser := memory.NewBrowser("http://localhost/app/")
//	router := engine.NewRouter(env.New(browser), types.WithUrlRoot("/app"))
//	router.Start()
//	browser.Back()
package memory

import (
	"sync"

	"github.com/rulego/navrouter/api/types"
	"github.com/rulego/navrouter/env"
	"github.com/rulego/navrouter/utils/uri"
)

var _ env.Browser = (*Browser)(nil)

// Entry is one session history entry.
type Entry struct {
	Href  string
	State *types.State
}

// Option configures a Browser.
type Option func(*Browser)

// WithoutHistory disables the History API, as in legacy browsers.
func WithoutHistory() Option {
	return func(b *Browser) {
		b.historySupported = false
	}
}

// Browser is an in-memory document.
type Browser struct {
	historySupported bool

	mu        sync.Mutex
	entries   []Entry
	index     int
	reloads   int
	listeners map[int]func(env.Event)
	nextId    int
}

// NewBrowser opens href.
func NewBrowser(href string, opts ...Option) *Browser {
	b := &Browser{
		historySupported: true,
		entries:          []Entry{{Href: href}},
		listeners:        make(map[int]func(env.Event)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Env returns an environment over the browser.
func (b *Browser) Env() *env.Environment {
	return env.New(b)
}

// Href implements env.Browser.
func (b *Browser) Href() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.entries[b.index].Href
}

// State returns the state of the current entry.
func (b *Browser) State() *types.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.entries[b.index].State
}

// HistorySupported implements env.Browser.
func (b *Browser) HistorySupported() bool {
	return b.historySupported
}

// PushState implements env.Browser.
func (b *Browser) PushState(state *types.State, rawURL string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.push(Entry{Href: uri.Resolve(b.entries[b.index].Href, rawURL), State: copyState(state)})
}

// ReplaceState implements env.Browser.
func (b *Browser) ReplaceState(state *types.State, rawURL string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[b.index] = Entry{Href: uri.Resolve(b.entries[b.index].Href, rawURL), State: copyState(state)}
}

// AssignHash implements env.Browser.
func (b *Browser) AssignHash(hash string) {
	if hash != "" && hash[0] != '#' {
		hash = "#" + hash
	}
	b.mu.Lock()
	current := b.entries[b.index].Href
	next := uri.StripFragment(current) + hash
	if next == current {
		b.mu.Unlock()
		return
	}
	b.push(Entry{Href: next})
	b.mu.Unlock()
	b.emitFragmentChange(next)
}

// ReplaceLocation implements env.Browser. A url differing only in its fragment keeps
// the document, any other url reloads it.
func (b *Browser) ReplaceLocation(rawURL string) {
	b.mu.Lock()
	current := b.entries[b.index].Href
	next := uri.Resolve(current, rawURL)
	b.entries[b.index] = Entry{Href: next}
	sameDocument := uri.StripFragment(next) == uri.StripFragment(current)
	if !sameDocument {
		b.reloads++
	}
	b.mu.Unlock()
	if sameDocument && next != current {
		b.emitFragmentChange(next)
	}
}

// Listen implements env.Browser.
func (b *Browser) Listen(listener func(env.Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextId
	b.nextId++
	b.listeners[id] = listener
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
}

// Back traverses one entry back.
func (b *Browser) Back() bool {
	return b.Go(-1)
}

// Forward traverses one entry forward.
func (b *Browser) Forward() bool {
	return b.Go(1)
}

// Go traverses delta entries. It returns false if the target is out of range.
func (b *Browser) Go(delta int) bool {
	b.mu.Lock()
	target := b.index + delta
	if delta == 0 || target < 0 || target >= len(b.entries) {
		b.mu.Unlock()
		return false
	}
	from := b.entries[b.index]
	b.index = target
	to := b.entries[target]
	b.mu.Unlock()

	if b.historySupported {
		b.emit(env.Event{Kind: types.PopState, State: copyState(to.State), URL: to.Href})
	}
	if uri.Fragment(from.Href) != uri.Fragment(to.Href) {
		b.emit(env.Event{Kind: types.HashChange, URL: to.Href})
	}
	return true
}

// Visit simulates the user typing href into the address bar. A change of the fragment
// alone keeps the document, anything else loads a new document and drops listeners.
func (b *Browser) Visit(href string) {
	b.mu.Lock()
	current := b.entries[b.index].Href
	next := uri.Resolve(current, href)
	if uri.StripFragment(next) != uri.StripFragment(current) {
		b.push(Entry{Href: next})
		b.reloads++
		b.listeners = make(map[int]func(env.Event))
		b.mu.Unlock()
		return
	}
	if next == current {
		b.mu.Unlock()
		return
	}
	b.push(Entry{Href: next})
	b.mu.Unlock()
	b.emitFragmentChange(next)
}

// Entries returns a copy of the session history.
func (b *Browser) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Index returns the position of the current entry.
func (b *Browser) Index() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.index
}

// Reloads returns how many times the document was reloaded.
func (b *Browser) Reloads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reloads
}

func (b *Browser) push(entry Entry) {
	b.entries = append(b.entries[:b.index+1], entry)
	b.index = len(b.entries) - 1
}

// emitFragmentChange emits the events of a fragment navigation: popstate without
// state when the History API exists, then hashchange.
func (b *Browser) emitFragmentChange(href string) {
	if b.historySupported {
		b.emit(env.Event{Kind: types.PopState, URL: href})
	}
	b.emit(env.Event{Kind: types.HashChange, URL: href})
}

func (b *Browser) emit(ev env.Event) {
	b.mu.Lock()
	listeners := make([]func(env.Event), 0, len(b.listeners))
	for i := 0; i < b.nextId; i++ {
		if l, ok := b.listeners[i]; ok {
			listeners = append(listeners, l)
		}
	}
	b.mu.Unlock()
	for _, l := range listeners {
		l(ev)
	}
}

func copyState(state *types.State) *types.State {
	if state == nil {
		return nil
	}
	s := *state
	return &s
}
