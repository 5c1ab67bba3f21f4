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

// Package runtime reports panics raised by route callbacks on goroutines owned by
// the library, such as the bridge connection loop.
package runtime

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/rulego/navrouter/api/types"
)

const maxFrames = 32

// Stack 获取调用者的堆栈信息，skip 为跳过的调用层数
func Stack(skip int) string {
	pc := make([]uintptr, maxFrames)
	n := runtime.Callers(skip+2, pc)
	frames := runtime.CallersFrames(pc[:n])
	var b strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, " %s\n  %s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return b.String()
}

// Report logs a recovered panic value e with the stack of the panicking goroutine.
// Call it from a deferred function:
//
//	defer func() {
//	    if e := recover(); e != nil {
//	        runtime.Report(logger, "bridge session", e)
//	    }
//	}()
func Report(logger types.Logger, label string, e interface{}) {
	if logger == nil {
		return
	}
	logger.Printf("%s panic:%v\n%s", label, e, Stack(1))
}
