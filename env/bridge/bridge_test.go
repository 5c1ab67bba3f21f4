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
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rulego/navrouter/api/types"
	"github.com/rulego/navrouter/engine"
	"github.com/rulego/navrouter/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	var frame Frame
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second*5)))
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func expect(t *testing.T, dispatched chan string, want string) {
	select {
	case got := <-dispatched:
		assert.Equal(t, want, got)
	case <-time.After(time.Second * 5):
		t.Fatalf("timeout waiting for dispatch %s", want)
	}
}

func TestBridgeSession(t *testing.T) {
	dispatched := make(chan string, 16)
	routers := make(chan *engine.Router, 1)
	var mu sync.Mutex
	var events []string

	server := NewServer(Config{}, func(session *Session, router *engine.Router) error {
		routers <- router
		return router.Get("*", func(req *types.Request, res *types.Response, next types.Next) {
			dispatched <- req.Direction().String() + " " + req.Path
		})
	}, types.WithUrlRoot("/app"), types.WithTriggerRoute(true), types.WithLogger(types.DiscardLogger()))
	server.OnEvent = func(eventName string, params ...interface{}) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, eventName)
	}
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	conn := dial(t, ts, DefaultPath)
	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type": "hello", "href": "http://x.com/app/", "history": true,
	}))

	frame := readFrame(t, conn)
	assert.Equal(t, FrameReplaceState, frame.Type)
	assert.Equal(t, "http://x.com/app/", frame.Url)
	require.NotNil(t, frame.State)
	assert.Equal(t, int64(10), frame.State.Vid)
	expect(t, dispatched, "replace /")

	router := <-routers
	router.Navigate("/users/1")
	frame = readFrame(t, conn)
	assert.Equal(t, FramePushState, frame.Type)
	assert.Equal(t, "http://x.com/app/users/1", frame.Url)
	assert.Equal(t, int64(11), frame.State.Vid)
	expect(t, dispatched, "forward /users/1")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"popstate","href":"http://x.com/app/","state":{"vid":10}}`)))
	expect(t, dispatched, "backward /")

	//没有state的popstate和hashchange都不会分发
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"popstate","href":"http://x.com/app/#top","state":null}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"hashchange","href":"http://x.com/app/#top"}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"popstate","href":"http://x.com/app/users/1","state":{"vid":11}}`)))
	expect(t, dispatched, "forward /users/1")
	assert.Equal(t, 1, server.Pool.Len())

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) == 2
	}, time.Second*5, time.Millisecond*10)
	assert.Equal(t, 0, server.Pool.Len())
	assert.False(t, router.Started())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{EventConnect, EventDisconnect}, events)
}

func TestBridgeRejectsMissingHello(t *testing.T) {
	server := NewServer(Config{Path: "/nav"}, nil, types.WithLogger(types.DiscardLogger()))
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	conn := dial(t, ts, "/nav")
	defer conn.Close()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"popstate"}`)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second*5)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation))
	assert.Equal(t, 0, server.Pool.Len())
}

func TestBridgeShim(t *testing.T) {
	server := NewServer(Config{Path: "/nav"}, nil, types.WithLogger(types.DiscardLogger()))
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + ShimPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "javascript")
	assert.Contains(t, string(body), "location.host + '/nav'")
	assert.NotContains(t, string(body), shimPathPlaceholder)
}

func TestParseHello(t *testing.T) {
	hello, err := ParseHello([]byte(`{"type":"hello","href":"http://x.com/","history":false}`))
	require.NoError(t, err)
	assert.Equal(t, "http://x.com/", hello.Href)
	assert.False(t, hello.History)

	_, err = ParseHello([]byte(`{"type":"hashchange"}`))
	assert.ErrorIs(t, err, ErrHelloExpected)
	_, err = ParseHello([]byte(`not json`))
	assert.ErrorIs(t, err, ErrHelloExpected)
}

func TestSessionHandleFrame(t *testing.T) {
	session := newSession("s1", nil, Hello{Href: "http://x.com/", History: true}, types.DiscardLogger())
	assert.True(t, session.HistorySupported())
	var got []env.Event
	cancel := session.Listen(func(ev env.Event) {
		got = append(got, ev)
	})
	session.handleFrame([]byte(`{"type":"popstate","href":"http://x.com/a","state":{"vid":12}}`))
	session.handleFrame([]byte(`{"type":"hashchange","href":"http://x.com/a#b"}`))
	session.handleFrame([]byte(`{"type":"unknown"}`))
	session.handleFrame([]byte(`{`))
	require.Equal(t, 2, len(got))
	assert.Equal(t, types.PopState, got[0].Kind)
	assert.Equal(t, int64(12), got[0].State.Vid)
	assert.Equal(t, types.HashChange, got[1].Kind)
	assert.Equal(t, "http://x.com/a#b", session.Href())
	assert.Equal(t, int64(12), session.State().Vid)

	cancel()
	session.handleFrame([]byte(`{"type":"hashchange","href":"http://x.com/c"}`))
	assert.Equal(t, 2, len(got))
	assert.Equal(t, "http://x.com/c", session.Href())
}

type syncLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *syncLogger) Printf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, format)
}

func (l *syncLogger) contains(s string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

func TestBridgeRecoversCallbackPanic(t *testing.T) {
	logger := &syncLogger{}
	server := NewServer(Config{}, func(session *Session, router *engine.Router) error {
		return router.Get("/boom", func(req *types.Request, res *types.Response, next types.Next) {
			panic("boom")
		})
	}, types.WithLogger(logger))
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	conn := dial(t, ts, DefaultPath)
	defer conn.Close()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"hello","href":"http://x.com/","history":true}`)))
	assert.Equal(t, FrameReplaceState, readFrame(t, conn).Type)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"popstate","href":"http://x.com/boom","state":{"vid":20}}`)))

	assert.Eventually(t, func() bool {
		return server.Pool.Len() == 0
	}, time.Second*5, time.Millisecond*10)
	assert.True(t, logger.contains("%s panic:%v"))
}
