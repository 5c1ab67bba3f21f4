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

// Package maps decodes loosely typed maps into configuration structs.
package maps

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Map2Struct decodes input into output, which must be a pointer to a map or struct.
// Strings such as "5s" are decoded into time.Duration fields and scalar values are
// converted weakly ("true" -> bool, "10" -> int).
func Map2Struct(input interface{}, output interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           output,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// StringValues converts every value of input to its string form.
// nil values are skipped.
func StringValues(input map[string]interface{}) map[string]string {
	out := make(map[string]string, len(input))
	for k, v := range input {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			out[k] = s
		} else {
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}
