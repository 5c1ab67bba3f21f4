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
	"fmt"
	"time"
)

// Option is a function type that modifies the Config.
type Option func(*Config) error

// WithUrlRoot sets the url root. A trailing slash is removed.
func WithUrlRoot(urlRoot string) Option {
	return func(c *Config) error {
		c.UrlRoot = TrimUrlRoot(urlRoot)
		return nil
	}
}

// WithUseHash forces hash addressing.
func WithUseHash(useHash bool) Option {
	return func(c *Config) error {
		c.UseHash = useHash
		return nil
	}
}

// WithCaseSensitive sets case sensitive matching of string patterns.
func WithCaseSensitive(caseSensitive bool) Option {
	return func(c *Config) error {
		c.CaseSensitive = caseSensitive
		return nil
	}
}

// WithStrict sets strict trailing slash matching of string patterns.
func WithStrict(strict bool) Option {
	return func(c *Config) error {
		c.Strict = strict
		return nil
	}
}

// WithTriggerRoute dispatches the current url once on start.
func WithTriggerRoute(triggerRoute bool) Option {
	return func(c *Config) error {
		c.TriggerRoute = triggerRoute
		return nil
	}
}

// WithInitialViewId sets the id of the first view.
func WithInitialViewId(vid int64) Option {
	return func(c *Config) error {
		if vid <= 0 {
			return fmt.Errorf("initial view id must be positive, got %d", vid)
		}
		c.InitialViewId = vid
		return nil
	}
}

// WithScriptMaxExecutionTime sets the execution limit of script matchers.
func WithScriptMaxExecutionTime(d time.Duration) Option {
	return func(c *Config) error {
		c.ScriptMaxExecutionTime = d
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithOnEvent sets the lifecycle event listener.
func WithOnEvent(onEvent OnEvent) Option {
	return func(c *Config) error {
		c.OnEvent = onEvent
		return nil
	}
}
