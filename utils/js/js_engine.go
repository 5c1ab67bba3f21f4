/*
 * Copyright 2023 The RuleGo Authors.
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

// Package js runs JavaScript route matchers on the goja engine.
//
// A script is compiled once and evaluated in pooled VMs. Each call may be
// bounded by a maximum execution time, after which the VM is interrupted.
package js

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/rulego/navrouter/api/types"
)

// Options js engine options.
type Options struct {
	// MaxExecutionTime 0 means unlimited
	MaxExecutionTime time.Duration
	// Vars global variables set in every VM
	Vars   map[string]interface{}
	Logger types.Logger
}

// GojaJsEngine goja js engine
type GojaJsEngine struct {
	vmPool   sync.Pool
	options  Options
	jsScript *goja.Program
}

// NewGojaJsEngine compiles jsScript and creates the engine.
func NewGojaJsEngine(jsScript string, options Options) (*GojaJsEngine, error) {
	program, err := goja.Compile("", jsScript, true)
	if err != nil {
		return nil, err
	}
	if options.Logger == nil {
		options.Logger = types.DiscardLogger()
	}
	jsEngine := &GojaJsEngine{
		options:  options,
		jsScript: program,
	}
	//先创建一个VM，校验脚本可以执行
	vm, err := jsEngine.newVm()
	if err != nil {
		return nil, err
	}
	jsEngine.vmPool.Put(vm)
	jsEngine.vmPool.New = func() interface{} {
		vm, err := jsEngine.newVm()
		if err != nil {
			jsEngine.options.Logger.Printf("js vm error: %s", err.Error())
		}
		return vm
	}
	return jsEngine, nil
}

func (g *GojaJsEngine) newVm() (*goja.Runtime, error) {
	vm := goja.New()
	for k, v := range g.options.Vars {
		if err := vm.Set(k, v); err != nil {
			g.options.Logger.Printf("set var %s error: %s", k, err.Error())
		}
	}
	timer := g.startTimeout(vm)
	_, err := vm.RunProgram(g.jsScript)
	g.stopTimeout(timer)
	return vm, err
}

// HasFunction reports whether the script defines functionName.
func (g *GojaJsEngine) HasFunction(functionName string) bool {
	vm := g.vmPool.Get().(*goja.Runtime)
	defer g.vmPool.Put(vm)
	_, ok := goja.AssertFunction(vm.Get(functionName))
	return ok
}

// Execute calls functionName with argumentList and returns the exported result.
func (g *GojaJsEngine) Execute(functionName string, argumentList ...interface{}) (out interface{}, err error) {
	defer func() {
		if caught := recover(); caught != nil {
			err = fmt.Errorf("%s", caught)
		}
	}()

	vm := g.vmPool.Get().(*goja.Runtime)
	defer g.vmPool.Put(vm)

	if timer := g.startTimeout(vm); timer != nil {
		defer func() {
			g.stopTimeout(timer)
			// 超时标记可能在返回后才设置，放回池前清除
			vm.ClearInterrupt()
		}()
	}

	f, ok := goja.AssertFunction(vm.Get(functionName))
	if !ok {
		return nil, errors.New(functionName + " is not a function")
	}

	var params []goja.Value
	if len(argumentList) > 0 {
		params = make([]goja.Value, len(argumentList))
		for i, v := range argumentList {
			params[i] = vm.ToValue(v)
		}
	}

	res, err := f(goja.Undefined(), params...)
	if err != nil {
		return nil, err
	}
	return res.Export(), nil
}

// startTimeout interrupts vm after MaxExecutionTime. Returns nil if no limit is configured.
func (g *GojaJsEngine) startTimeout(vm *goja.Runtime) *time.Timer {
	if g.options.MaxExecutionTime <= 0 {
		return nil
	}
	return time.AfterFunc(g.options.MaxExecutionTime, func() {
		vm.Interrupt("execution timeout")
	})
}

func (g *GojaJsEngine) stopTimeout(timer *time.Timer) {
	if timer != nil {
		timer.Stop()
	}
}
