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

package types

import (
	"strings"
	"time"
)

const (
	// DefaultInitialViewId id of the first view
	DefaultInitialViewId int64 = 10
	// DefaultScriptMaxExecutionTime limit for js and lua matchers
	DefaultScriptMaxExecutionTime = time.Millisecond * 2000
)

const (
	// EventDispatch fired before every dispatch. params: *Request, *Response
	EventDispatch = "Dispatch"
	// EventUnhandled fired when no route handled a dispatch. params: *Request, *Response
	EventUnhandled = "Unhandled"
	// EventStart fired when the router finished starting
	EventStart = "Start"
	// EventStop fired when the router stopped
	EventStop = "Stop"
)

// OnEvent router lifecycle event listener.
//
// OnEvent 路由器生命周期事件监听函数。
//
// Example:
//
//	router.Configure(types.WithOnEvent(func(eventName string, params ...interface{}) {
//	    switch eventName {
//	    case types.EventDispatch:
//	        req := params[0].(*types.Request)
//	        log.Printf("dispatch %s", req.Path)
//	    }
//	}))
type OnEvent func(eventName string, params ...interface{})

// Config defines the configuration of a router.
//
// Config 路由器配置。
type Config struct {
	// UrlRoot root path of the application in history mode, without trailing slash
	UrlRoot string `json:"urlRoot" mapstructure:"urlRoot" toml:"urlRoot"`
	// UseHash forces "#!" addressing even when the History API is available
	UseHash bool `json:"useHash" mapstructure:"useHash" toml:"useHash"`
	// CaseSensitive makes literal segments of string patterns case sensitive.
	// Applies to routes registered after the change.
	CaseSensitive bool `json:"caseSensitive" mapstructure:"caseSensitive" toml:"caseSensitive"`
	// Strict makes trailing slashes significant. Applies to routes registered after the change.
	Strict bool `json:"strict" mapstructure:"strict" toml:"strict"`
	// TriggerRoute dispatches the current url once on start
	TriggerRoute bool `json:"triggerRoute" mapstructure:"triggerRoute" toml:"triggerRoute"`
	// InitialViewId id of the first view, default 10
	InitialViewId int64 `json:"initialViewId" mapstructure:"initialViewId" toml:"initialViewId"`
	// ScriptMaxExecutionTime maximum execution time of js and lua matchers, default 2000 milliseconds
	ScriptMaxExecutionTime time.Duration `json:"scriptMaxExecutionTime" mapstructure:"scriptMaxExecutionTime" toml:"scriptMaxExecutionTime"`
	// Logger logging interface, default DefaultLogger()
	Logger Logger `json:"-" mapstructure:"-" toml:"-"`
	// OnEvent lifecycle event listener
	OnEvent OnEvent `json:"-" mapstructure:"-" toml:"-"`
}

// NewConfig creates a config with default values and applies opts.
func NewConfig(opts ...Option) Config {
	c := &Config{
		InitialViewId:          DefaultInitialViewId,
		ScriptMaxExecutionTime: DefaultScriptMaxExecutionTime,
		Logger:                 DefaultLogger(),
	}
	for _, opt := range opts {
		_ = opt(c)
	}
	return *c
}

// TrimUrlRoot removes one trailing slash of urlRoot.
func TrimUrlRoot(urlRoot string) string {
	return strings.TrimSuffix(urlRoot, "/")
}
