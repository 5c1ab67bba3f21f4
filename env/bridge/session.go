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

package bridge

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rulego/navrouter/api/types"
	"github.com/rulego/navrouter/env"
	"github.com/rulego/navrouter/utils/json"
	"github.com/rulego/navrouter/utils/uri"
	"github.com/tidwall/gjson"
	"go.uber.org/atomic"
)

// Frame types exchanged with the page.
const (
	FrameHello           = "hello"
	FramePopState        = "popstate"
	FrameHashChange      = "hashchange"
	FramePushState       = "pushState"
	FrameReplaceState    = "replaceState"
	FrameAssignHash      = "assignHash"
	FrameReplaceLocation = "replaceLocation"
)

// ErrHelloExpected the first frame of a connection was not a hello frame.
var ErrHelloExpected = errors.New("bridge: first frame must be hello")

// Frame is a message sent to the page.
//
// Frame 发送给页面的指令。
type Frame struct {
	Type  string       `json:"type"`
	Url   string       `json:"url,omitempty"`
	Hash  string       `json:"hash,omitempty"`
	State *types.State `json:"state,omitempty"`
}

// Hello is the first frame sent by the page.
type Hello struct {
	Href    string
	History bool
}

// ParseHello parses a hello frame.
func ParseHello(message []byte) (Hello, error) {
	if !gjson.ValidBytes(message) || gjson.GetBytes(message, "type").String() != FrameHello {
		return Hello{}, ErrHelloExpected
	}
	return Hello{
		Href:    gjson.GetBytes(message, "href").String(),
		History: gjson.GetBytes(message, "history").Bool(),
	}, nil
}

var _ env.Browser = (*Session)(nil)

// Session is one connected page seen as an env.Browser.
// It mirrors the page href: commands update the mirror before they are sent and page
// events update it when they arrive. Events are delivered on the connection read goroutine.
//
// Session 一个已连接的页面，实现 env.Browser。
type Session struct {
	id     string
	conn   *websocket.Conn
	logger types.Logger

	writeMu sync.Mutex

	mu        sync.Mutex
	href      string
	history   bool
	state     *types.State
	listeners map[int]func(env.Event)
	nextId    int
	reloading atomic.Bool
}

func newSession(id string, conn *websocket.Conn, hello Hello, logger types.Logger) *Session {
	return &Session{
		id:        id,
		conn:      conn,
		logger:    logger,
		href:      hello.Href,
		history:   hello.History,
		listeners: make(map[int]func(env.Event)),
	}
}

// Id returns the session id.
func (s *Session) Id() string {
	return s.id
}

// Env returns an environment over the session.
func (s *Session) Env() *env.Environment {
	return env.New(s)
}

// Href implements env.Browser.
func (s *Session) Href() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.href
}

// State returns the state of the current entry as last known.
func (s *Session) State() *types.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HistorySupported implements env.Browser.
func (s *Session) HistorySupported() bool {
	return s.history
}

// Reloading reports whether the page was sent to another document.
func (s *Session) Reloading() bool {
	return s.reloading.Load()
}

// PushState implements env.Browser.
func (s *Session) PushState(state *types.State, rawURL string) {
	s.writeState(FramePushState, state, rawURL)
}

// ReplaceState implements env.Browser.
func (s *Session) ReplaceState(state *types.State, rawURL string) {
	s.writeState(FrameReplaceState, state, rawURL)
}

func (s *Session) writeState(frameType string, state *types.State, rawURL string) {
	s.mu.Lock()
	s.href = uri.Resolve(s.href, rawURL)
	s.state = state
	target := s.href
	s.mu.Unlock()
	s.send(Frame{Type: frameType, Url: target, State: state})
}

// AssignHash implements env.Browser. The page reports the hashchange.
func (s *Session) AssignHash(hash string) {
	if hash != "" && hash[0] != '#' {
		hash = "#" + hash
	}
	s.mu.Lock()
	next := uri.StripFragment(s.href) + hash
	if next == s.href {
		s.mu.Unlock()
		return
	}
	s.href = next
	s.state = nil
	s.mu.Unlock()
	s.send(Frame{Type: FrameAssignHash, Hash: hash})
}

// ReplaceLocation implements env.Browser.
func (s *Session) ReplaceLocation(rawURL string) {
	s.mu.Lock()
	next := uri.Resolve(s.href, rawURL)
	if uri.StripFragment(next) != uri.StripFragment(s.href) {
		s.reloading.Store(true)
	}
	s.href = next
	s.state = nil
	s.mu.Unlock()
	s.send(Frame{Type: FrameReplaceLocation, Url: next})
}

// Listen implements env.Browser.
func (s *Session) Listen(listener func(env.Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextId
	s.nextId++
	s.listeners[id] = listener
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// handleFrame applies a page event. Unknown frames are ignored.
func (s *Session) handleFrame(message []byte) {
	if !gjson.ValidBytes(message) {
		s.logger.Printf("bridge session=%s invalid frame", s.id)
		return
	}
	frame := gjson.ParseBytes(message)
	var ev env.Event
	switch frame.Get("type").String() {
	case FramePopState:
		ev.Kind = types.PopState
		if st := frame.Get("state"); st.IsObject() && st.Get("vid").Exists() {
			ev.State = &types.State{Vid: st.Get("vid").Int()}
		}
	case FrameHashChange:
		ev.Kind = types.HashChange
	default:
		return
	}
	ev.URL = frame.Get("href").String()

	s.mu.Lock()
	s.href = ev.URL
	if ev.Kind == types.PopState {
		s.state = ev.State
	}
	listeners := make([]func(env.Event), 0, len(s.listeners))
	for i := 0; i < s.nextId; i++ {
		if l, ok := s.listeners[i]; ok {
			listeners = append(listeners, l)
		}
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(ev)
	}
}

func (s *Session) send(frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		s.logger.Printf("bridge session=%s encode %s error:%v", s.id, frame.Type, err)
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Printf("bridge session=%s write %s error:%v", s.id, frame.Type, err)
	}
}
