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

// Package config loads router configuration from TOML files and environment variables.
//
// Package config 从 TOML 文件和环境变量加载路由器配置。
//
// File layout:
//
//	[router]
//	urlRoot = "/app"
//	triggerRoute = true
//	scriptMaxExecutionTime = "500ms"
//
//	[log]
//	level = "debug"
//	json = true
//
//	[bridge]
//	server = ":9090"
//	path = "/ws"
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/rulego/navrouter/api/types"
	"github.com/rulego/navrouter/env/bridge"
	"github.com/rulego/navrouter/utils/maps"
	"github.com/rulego/navrouter/utils/zaplog"
)

const (
	sectionRouter = "router"
	sectionLog    = "log"
	sectionBridge = "bridge"
)

// File is a decoded configuration file.
type File struct {
	Router types.Config
	// Log nil when the file has no [log] section
	Log    *zaplog.Config
	Bridge bridge.Config
}

// LoadFile reads the TOML file at path.
func LoadFile(path string) (*File, error) {
	raw := make(map[string]interface{})
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("load config %s error:%w", path, err)
	}
	return decode(raw)
}

// Parse decodes TOML data.
func Parse(data string) (*File, error) {
	raw := make(map[string]interface{})
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, err
	}
	return decode(raw)
}

func decode(raw map[string]interface{}) (*File, error) {
	f := &File{Router: types.NewConfig()}
	if section, ok := raw[sectionRouter]; ok {
		if err := maps.Map2Struct(section, &f.Router); err != nil {
			return nil, fmt.Errorf("section [%s] error:%w", sectionRouter, err)
		}
	}
	if section, ok := raw[sectionLog]; ok {
		f.Log = &zaplog.Config{}
		if err := maps.Map2Struct(section, f.Log); err != nil {
			return nil, fmt.Errorf("section [%s] error:%w", sectionLog, err)
		}
	}
	if section, ok := raw[sectionBridge]; ok {
		if err := maps.Map2Struct(section, &f.Bridge); err != nil {
			return nil, fmt.Errorf("section [%s] error:%w", sectionBridge, err)
		}
	}
	return f, nil
}

// Options converts the file into router options. A [log] section yields a zap logger.
func (f *File) Options() ([]types.Option, error) {
	opts := routerOptions(f.Router)
	if f.Log != nil {
		logger, err := zaplog.New(*f.Log)
		if err != nil {
			return nil, err
		}
		opts = append(opts, types.WithLogger(logger))
	}
	return opts, nil
}

func routerOptions(c types.Config) []types.Option {
	opts := []types.Option{
		types.WithUrlRoot(c.UrlRoot),
		types.WithUseHash(c.UseHash),
		types.WithCaseSensitive(c.CaseSensitive),
		types.WithStrict(c.Strict),
		types.WithTriggerRoute(c.TriggerRoute),
		types.WithScriptMaxExecutionTime(c.ScriptMaxExecutionTime),
	}
	if c.InitialViewId > 0 {
		opts = append(opts, types.WithInitialViewId(c.InitialViewId))
	}
	return opts
}
