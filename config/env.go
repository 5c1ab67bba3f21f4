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

package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rulego/navrouter/api/types"
	"github.com/rulego/navrouter/utils/maps"
	"github.com/rulego/navrouter/utils/zaplog"
)

// Environment variables read by FromEnv.
const (
	EnvUrlRoot                = "NAVROUTER_URL_ROOT"
	EnvUseHash                = "NAVROUTER_USE_HASH"
	EnvCaseSensitive          = "NAVROUTER_CASE_SENSITIVE"
	EnvStrict                 = "NAVROUTER_STRICT"
	EnvTriggerRoute           = "NAVROUTER_TRIGGER_ROUTE"
	EnvInitialViewId          = "NAVROUTER_INITIAL_VIEW_ID"
	EnvScriptMaxExecutionTime = "NAVROUTER_SCRIPT_MAX_EXECUTION_TIME"
	EnvLogLevel               = "NAVROUTER_LOG_LEVEL"
)

var envKeys = map[string]string{
	EnvUrlRoot:                "urlRoot",
	EnvUseHash:                "useHash",
	EnvCaseSensitive:          "caseSensitive",
	EnvStrict:                 "strict",
	EnvTriggerRoute:           "triggerRoute",
	EnvInitialViewId:          "initialViewId",
	EnvScriptMaxExecutionTime: "scriptMaxExecutionTime",
}

// FromEnv returns options for the NAVROUTER_* variables that are set.
// Process variables take precedence over the dotenv files. Without files ".env" is read
// if it exists.
//
// FromEnv 读取已设置的 NAVROUTER_* 变量并转换为路由器配置项。
func FromEnv(files ...string) ([]types.Option, error) {
	values, err := godotenv.Read(files...)
	if err != nil {
		if len(files) > 0 {
			return nil, err
		}
		values = map[string]string{}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}

	raw := make(map[string]interface{})
	for env, key := range envKeys {
		if v, ok := lookup(env); ok {
			raw[key] = v
		}
	}
	var c types.Config
	if err := maps.Map2Struct(raw, &c); err != nil {
		return nil, err
	}

	var opts []types.Option
	set := func(env string, opt types.Option) {
		if _, ok := raw[envKeys[env]]; ok {
			opts = append(opts, opt)
		}
	}
	set(EnvUrlRoot, types.WithUrlRoot(c.UrlRoot))
	set(EnvUseHash, types.WithUseHash(c.UseHash))
	set(EnvCaseSensitive, types.WithCaseSensitive(c.CaseSensitive))
	set(EnvStrict, types.WithStrict(c.Strict))
	set(EnvTriggerRoute, types.WithTriggerRoute(c.TriggerRoute))
	set(EnvInitialViewId, types.WithInitialViewId(c.InitialViewId))
	set(EnvScriptMaxExecutionTime, types.WithScriptMaxExecutionTime(c.ScriptMaxExecutionTime))

	if level, ok := lookup(EnvLogLevel); ok {
		logger, err := zaplog.New(zaplog.Config{Level: level})
		if err != nil {
			return nil, err
		}
		opts = append(opts, types.WithLogger(logger))
	}
	return opts, nil
}
