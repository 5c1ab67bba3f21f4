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

package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalKeepsUrls(t *testing.T) {
	data, err := Marshal(map[string]string{"url": "http://x.com/#!/a?b=1&__vid=11"})
	require.NoError(t, err)
	assert.Equal(t, `{"url":"http://x.com/#!/a?b=1&__vid=11"}`, string(data))

	_, err = Marshal(func() {})
	assert.Error(t, err)
}

func TestUnmarshal(t *testing.T) {
	var v struct {
		Vid int64 `json:"vid"`
	}
	require.NoError(t, Unmarshal([]byte(`{"vid":12}`), &v))
	assert.Equal(t, int64(12), v.Vid)
	assert.Error(t, Unmarshal([]byte(`{`), &v))
}
