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

import "errors"

var (
	// ErrInvalidPattern is returned when a route pattern cannot be compiled
	ErrInvalidPattern = errors.New("invalid route pattern")
	// ErrUrlRootMismatch the document path does not correspond to the configured urlRoot
	ErrUrlRootMismatch = errors.New("router: location path must be same with urlRoot!")
	// ErrNilEnvironment the router was created without an environment
	ErrNilEnvironment = errors.New("router environment is nil")
	// ErrReloading the environment is reloading the document and the router must not continue starting
	ErrReloading = errors.New("environment is reloading the document")
)
