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

// Package env implements types.Environment on top of a Browser driver.
//
// Package env 基于 Browser 驱动实现 types.Environment。
//
// A Browser exposes the primitives of a document: its href, the History API, the
// location hash and the raw popstate/hashchange events. Environment adds the router
// addressing rules on top:
//   - history mode: the router url is the path below urlRoot plus the query
//   - hash mode: the router url is stored after "#!" in the fragment
//   - browsers without the History API carry the view id in the fragment (__vid)
//
// Implementations: env/memory (in-process) and env/bridge (a real page over WebSocket).
package env

import (
	"strings"
	"sync"

	"github.com/rulego/navrouter/api/types"
	"github.com/rulego/navrouter/utils/uri"
)

// Event is a raw browser event.
type Event struct {
	Kind types.NotificationKind
	// State state of the restored entry, popstate only
	State *types.State
	// URL the new href
	URL string
}

// Browser is the primitive surface of a document.
//
// Browser 文档的基础能力。
type Browser interface {
	// Href returns the absolute url of the document
	Href() string
	// HistorySupported reports whether pushState and replaceState are available
	HistorySupported() bool
	// PushState adds a history entry, rawURL may be relative. No event is emitted.
	PushState(state *types.State, rawURL string)
	// ReplaceState replaces the current history entry. No event is emitted.
	ReplaceState(state *types.State, rawURL string)
	// AssignHash sets location.hash, emitting hashchange if it changed
	AssignHash(hash string)
	// ReplaceLocation calls location.replace
	ReplaceLocation(rawURL string)
	// Listen registers a raw event listener
	Listen(listener func(Event)) (cancel func())
}

var (
	_ types.Environment     = (*Environment)(nil)
	_ types.AddressingAware = (*Environment)(nil)
)

// Environment implements types.Environment over a Browser.
type Environment struct {
	browser Browser

	mu      sync.RWMutex
	urlRoot string
	useHash bool
}

// New creates an environment over browser.
func New(browser Browser) *Environment {
	return &Environment{browser: browser}
}

// Browser returns the driver.
func (e *Environment) Browser() Browser {
	return e.browser
}

// SetAddressing implements types.AddressingAware.
func (e *Environment) SetAddressing(urlRoot string, useHash bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.urlRoot = types.TrimUrlRoot(urlRoot)
	e.useHash = useHash
}

func (e *Environment) addressing() (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.urlRoot, e.useHash || !e.browser.HistorySupported()
}

// HashMode reports whether the router url lives in the fragment.
func (e *Environment) HashMode() bool {
	_, hash := e.addressing()
	return hash
}

// CurrentURL implements types.Location.
func (e *Environment) CurrentURL() string {
	return e.urlForRouter(e.browser.Href())
}

func (e *Environment) urlForRouter(href string) string {
	urlRoot, hash := e.addressing()
	if hash {
		return uri.GetHash(href)
	}
	return strings.TrimPrefix(uri.PathOf(href), urlRoot) + uri.SearchOf(href)
}

// Navigate implements types.Navigator. Only browsers without the History API
// announce the change through hashchange.
func (e *Environment) Navigate(path string, state types.State, replace bool) bool {
	urlRoot, hash := e.addressing()
	b := e.browser
	if !hash {
		e.writeState(&state, uri.GetFullPath(b.Href(), path, urlRoot), replace)
		return false
	}
	if b.HistorySupported() {
		e.writeState(&state, uri.HashPrefix+path, replace)
		return false
	}
	fragment := uri.AddVid(uri.HashPrefix+path, state.Vid)
	if replace {
		b.ReplaceLocation(uri.StripFragment(b.Href()) + fragment)
	} else {
		b.AssignHash(fragment)
	}
	return true
}

func (e *Environment) writeState(state *types.State, rawURL string, replace bool) {
	if replace {
		e.browser.ReplaceState(state, rawURL)
	} else {
		e.browser.PushState(state, rawURL)
	}
}

// Subscribe implements types.EventSource. Browsers with the History API report
// popstate, the others hashchange.
func (e *Environment) Subscribe(listener func(types.Notification)) func() {
	history := e.browser.HistorySupported()
	return e.browser.Listen(func(ev Event) {
		if history != (ev.Kind == types.PopState) {
			return
		}
		listener(types.Notification{Kind: ev.Kind, State: ev.State, URL: ev.URL})
	})
}

// Prepare implements types.Environment.
//
//   - history mode with a "#!" fragment: the fragment is moved into the path when urlRoot
//     is empty or equals the document path, otherwise ErrUrlRootMismatch is reported and
//     hash addressing is used
//   - no History API and the document is not urlRoot: the page is reloaded at
//     urlRoot/#!path and ErrReloading is returned
//   - hash mode: a stale view id in the fragment is replaced
//   - the first entry is stamped with vid when the History API is available
func (e *Environment) Prepare(config types.Config, vid int64) (types.Startup, error) {
	b := e.browser
	urlRoot := types.TrimUrlRoot(config.UrlRoot)
	useHash := config.UseHash
	history := b.HistorySupported()
	href := b.Href()
	locPath := uri.PathOf(href)
	var startup types.Startup
	var err error

	if !useHash {
		if history {
			fragment := uri.Fragment(href)
			if uri.IsValidHash(fragment) {
				if urlRoot == "" {
					// http://x.com/#!/a?b=1 -> http://x.com/a?b=1
					tail := strings.TrimPrefix(uri.RemoveVid(fragment[len(uri.HashPrefix):]), "/")
					b.ReplaceState(nil, uri.Origin(href)+uri.AddEndSlash(locPath)+tail)
					startup.TriggerRoute = true
				} else if uri.EqualsIgnoreSlash(locPath, urlRoot) {
					b.ReplaceState(nil, uri.GetFullPath(href, uri.GetHash(href), urlRoot))
					startup.TriggerRoute = true
				} else {
					err = types.ErrUrlRootMismatch
					useHash = true
				}
			}
		} else if !uri.EqualsIgnoreSlash(locPath, urlRoot) {
			// http://x.com/app/a/b -> http://x.com/app/#!/a/b
			routerURL := strings.TrimPrefix(locPath, urlRoot) + uri.SearchOf(href)
			b.ReplaceLocation(uri.Origin(href) + uri.AddEndSlash(urlRoot) + uri.HashPrefix + routerURL)
			return startup, types.ErrReloading
		} else {
			useHash = true
		}
	}
	e.SetAddressing(urlRoot, useHash)

	stamp := history
	if useHash {
		href = b.Href()
		if uri.GetHash(href) == "" {
			//由路由器导航到"/"
			stamp = false
		} else if !history && uri.GetVid(href) != vid {
			b.ReplaceLocation(uri.StripFragment(href) + uri.AddVid(uri.HashPrefix+uri.GetHash(href), vid))
		} else if history && uri.HasVid(href) {
			b.ReplaceLocation(uri.RemoveVid(href))
		}
	}
	if stamp {
		b.ReplaceState(&types.State{Vid: vid}, b.Href())
	}
	if !history {
		startup.TriggerRoute = true
	}
	startup.UseHash = useHash || !history
	return startup, err
}
