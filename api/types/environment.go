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

// State is the payload stored with every history entry created by the router.
//
// State 路由器写入每条历史记录的状态数据。
type State struct {
	// Vid view id of the entry
	Vid int64 `json:"vid"`
}

// NotificationKind kind of an address change notification.
type NotificationKind int

const (
	// PopState a history entry was restored
	PopState NotificationKind = iota
	// HashChange the url fragment changed
	HashChange
)

func (k NotificationKind) String() string {
	if k == PopState {
		return "popstate"
	}
	return "hashchange"
}

// Notification is an address change reported by an EventSource.
//
// Notification 事件源上报的地址变化通知。
type Notification struct {
	Kind NotificationKind
	// State state of the restored entry, nil when the user edited the url directly. PopState only.
	State *State
	// URL the new absolute url. HashChange only.
	URL string
}

// Location resolves the router-relative url: the path below urlRoot plus query
// in history mode, or the fragment after "#!" in hash mode.
//
// Location 解析路由器使用的相对url。
type Location interface {
	CurrentURL() string
}

// Navigator mutates the address bar.
// It returns announced=true when the environment will report the change through
// its EventSource, in which case the router must not dispatch itself.
//
// Navigator 修改地址栏。announced 为 true 表示环境会通过事件源通知该变化，路由器不需要主动分发。
type Navigator interface {
	Navigate(path string, state State, replace bool) (announced bool)
}

// EventSource delivers address change notifications.
type EventSource interface {
	// Subscribe registers listener and returns a function that removes it.
	Subscribe(listener func(Notification)) (cancel func())
}

// Startup is the outcome of an environment's startup reconciliation.
type Startup struct {
	// UseHash the effective addressing mode
	UseHash bool
	// TriggerRoute the router must dispatch once after startup
	TriggerRoute bool
}

// Environment is everything the router needs from the browser.
//
// Environment 路由器依赖的浏览器能力集合。
type Environment interface {
	Location
	Navigator
	EventSource
	// Prepare reconciles the address bar with config before the router starts accepting
	// notifications. vid is the id of the current view.
	// ErrUrlRootMismatch is reported with a usable Startup; ErrReloading aborts the start.
	Prepare(config Config, vid int64) (Startup, error)
}

// AddressingAware environments follow configuration changes made after start.
type AddressingAware interface {
	SetAddressing(urlRoot string, useHash bool)
}
