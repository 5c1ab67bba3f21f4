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

// Package bridge drives routers from real pages. A page loads the shim served on
// /shim.js, connects over WebSocket and becomes a Session; the server creates one
// engine.Router per session.
//
// Package bridge 通过 WebSocket 驱动真实页面中的路由。页面加载 /shim.js 后建立连接，
// 每个连接对应一个 Session 和一个 engine.Router。
//
//	server := bridge.NewServer(bridge.Config{Server: ":9090"}, func(s *bridge.Session, router *engine.Router) error {
//	    return router.Get("/users/:id", showUser)
//	}, types.WithUrlRoot("/app"))
//	_ = server.Start()
package bridge

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rulego/navrouter/api/types"
	"github.com/rulego/navrouter/engine"
	"github.com/rulego/navrouter/utils/runtime"
)

const (
	// DefaultPath path of the WebSocket endpoint
	DefaultPath = "/ws"
	// ShimPath path of the page script
	ShimPath = "/shim.js"
	// DefaultHelloTimeout time a page has to send its hello frame
	DefaultHelloTimeout = time.Second * 10
)

const (
	// EventConnect a session completed its hello. params: *Session
	EventConnect = "Connect"
	// EventDisconnect a session closed. params: *Session
	EventDisconnect = "Disconnect"
	// EventInitServer the http server is about to serve. params: *Server
	EventInitServer = "InitServer"
	// EventCompletedServer the http server stopped. params: error
	EventCompletedServer = "CompletedServer"
)

// Config bridge server configuration.
type Config struct {
	// Server listen address, for example ":9090"
	Server      string `json:"server" mapstructure:"server" toml:"server"`
	CertFile    string `json:"certFile" mapstructure:"certFile" toml:"certFile"`
	CertKeyFile string `json:"certKeyFile" mapstructure:"certKeyFile" toml:"certKeyFile"`
	// Path WebSocket endpoint, default /ws
	Path string `json:"path" mapstructure:"path" toml:"path"`
	// HelloTimeout default 10s
	HelloTimeout time.Duration `json:"helloTimeout" mapstructure:"helloTimeout" toml:"helloTimeout"`
}

// SetupFunc registers the routes of a new session's router before it starts.
type SetupFunc func(session *Session, router *engine.Router) error

// Server accepts page connections.
//
// Server 接收页面连接，为每个页面创建路由器。
type Server struct {
	Config Config
	// RouterOptions applied to every session router
	RouterOptions []types.Option
	Setup         SetupFunc
	// Pool holds the session routers, keyed by session id
	Pool     *engine.Pool
	Upgrader websocket.Upgrader
	Logger   types.Logger
	OnEvent  types.OnEvent

	mu       sync.Mutex
	server   *http.Server
	router   *httprouter.Router
	listener net.Listener
}

// NewServer creates a server. opts are applied to every session router.
func NewServer(config Config, setup SetupFunc, opts ...types.Option) *Server {
	return &Server{
		Config:        config,
		RouterOptions: opts,
		Setup:         setup,
		Pool:          engine.NewPool(),
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		Logger: types.NewLogger(types.NewConfig(opts...).Logger),
	}
}

func (s *Server) path() string {
	if s.Config.Path == "" {
		return DefaultPath
	}
	return s.Config.Path
}

// Router returns the http router, creating it on first use.
func (s *Server) Router() *httprouter.Router {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.router == nil {
		s.router = httprouter.New()
		s.router.GET(s.path(), s.handleWebsocket)
		s.router.GET(ShimPath, s.handleShim)
	}
	return s.router
}

// Handler returns the http handler serving the WebSocket endpoint and the shim.
func (s *Server) Handler() http.Handler {
	return s.Router()
}

// Start listens on Config.Server and serves in the background.
func (s *Server) Start() error {
	handler := s.Router()
	s.mu.Lock()
	if s.server != nil {
		s.mu.Unlock()
		return nil
	}
	addr := s.Config.Server
	isTls := s.Config.CertKeyFile != "" && s.Config.CertFile != ""
	if addr == "" {
		if isTls {
			addr = ":https"
		} else {
			addr = ":http"
		}
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.server = &http.Server{Addr: addr, Handler: handler}
	s.listener = ln
	server := s.server
	s.mu.Unlock()

	s.fire(EventInitServer, s)
	go func() {
		defer ln.Close()
		var err error
		if isTls {
			s.Logger.Printf("started bridge server with TLS on %s", ln.Addr())
			err = server.ServeTLS(ln, s.Config.CertFile, s.Config.CertKeyFile)
		} else {
			s.Logger.Printf("started bridge server on %s", ln.Addr())
			err = server.Serve(ln)
		}
		s.fire(EventCompletedServer, err)
	}()
	return nil
}

// Addr returns the listen address once started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close shuts the http server down and stops every session router.
func (s *Server) Close() error {
	s.mu.Lock()
	server := s.server
	s.server, s.listener = nil, nil
	s.mu.Unlock()
	s.Pool.Stop()
	if server != nil {
		return server.Shutdown(context.Background())
	}
	return nil
}

func (s *Server) handleShim(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	_, _ = w.Write([]byte(strings.ReplaceAll(shimScript, shimPathPlaceholder, s.path())))
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := s.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Printf("bridge upgrade error:%v", err)
		return
	}
	defer conn.Close()

	timeout := s.Config.HelloTimeout
	if timeout <= 0 {
		timeout = DefaultHelloTimeout
	}
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	_, message, err := conn.ReadMessage()
	if err != nil {
		s.Logger.Printf("bridge read hello error:%v", err)
		return
	}
	hello, err := ParseHello(message)
	if err != nil {
		s.Logger.Printf("%s", err.Error())
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()), time.Now().Add(time.Second))
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	session := newSession(newSessionId(), conn, hello, s.Logger)
	defer s.closeSession(session)
	defer func() {
		//路由回调在读协程中执行
		if e := recover(); e != nil {
			runtime.Report(s.Logger, "bridge session="+session.Id(), e)
		}
	}()
	if err := s.open(session); err != nil {
		s.Logger.Printf("bridge session=%s start error:%v", session.Id(), err)
		//页面即将跳转到新文档，等待连接关闭
		if !errors.Is(err, types.ErrReloading) {
			return
		}
	}

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if mt != websocket.TextMessage {
			continue
		}
		session.handleFrame(message)
	}
}

// open creates, sets up and starts the router of session.
func (s *Server) open(session *Session) error {
	router, err := s.Pool.New(session.Id(), session.Env(), s.RouterOptions...)
	if err != nil {
		return err
	}
	s.fire(EventConnect, session)
	if s.Setup != nil {
		if err := s.Setup(session, router); err != nil {
			return err
		}
	}
	return router.Start()
}

func (s *Server) closeSession(session *Session) {
	s.Pool.Del(session.Id())
	s.fire(EventDisconnect, session)
}

func (s *Server) fire(eventName string, params ...interface{}) {
	if s.OnEvent != nil {
		s.OnEvent(eventName, params...)
	}
}

func newSessionId() string {
	id, err := uuid.NewV4()
	if err != nil {
		return time.Now().Format(time.RFC3339Nano)
	}
	return id.String()
}
