// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package utf8json

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchModes(t *testing.T) {
	tests := []struct {
		names []string
		mode  LengthMode
		table int
	}{
		{nil, LengthNone, 0},
		{[]string{"a", "b"}, LengthSingle, 0},
		{[]string{"a", "bb"}, LengthPair, 0},
		{[]string{"a", "bb", "ccc"}, LengthTable, 4},
		{[]string{"id", "createdAt", "x"}, LengthTable, 10},
	}
	for _, test := range tests {
		tree := NewDispatchTree(NewNameDictionary(test.names))
		assert.Equal(t, test.mode, tree.Mode, "%v", test.names)
		assert.Equal(t, test.table, tree.TableSize(), "%v", test.names)
	}
}

func TestDispatchNone(t *testing.T) {
	tree := NewDispatchTree(NewNameDictionary(nil))
	assert.Equal(t, -1, tree.Match([]byte("anything")))
	assert.Equal(t, -1, tree.Match(nil))
}

func dispatchNames() []string {
	names := []string{
		"", "a", "b", "id", "ID", "name", "Name", "email", "tags", "type",
		"createdAt", "updatedAt", "deletedAt", "createdBy", "updatedBy",
		"abcdefgh", "abcdefgi", "bbcdefgh", "abcdefghi", "abcdefghj",
		"abcdefghabcdefgh", "abcdefghabcdefgz", "zbcdefghabcdefgh",
		"a_really_long_property_name_that_spans_words",
		"a_really_long_property_name_that_spans_wordz",
		"naïve", "日本",
	}
	for i := 0; i < 20; i++ {
		names = append(names, fmt.Sprintf("member%d", i))
	}
	return names
}

func TestDispatchMatchesEveryName(t *testing.T) {
	names := dispatchNames()
	require.Greater(t, len(names), 40)
	tree := NewDispatchTree(NewNameDictionary(names))
	require.Equal(t, LengthTable, tree.Mode)
	for i, name := range names {
		assert.Equal(t, i, tree.Match([]byte(name)), "%q", name)
	}
}

func TestDispatchRejectsMutations(t *testing.T) {
	names := dispatchNames()
	known := make(map[string]bool, len(names))
	for _, name := range names {
		known[name] = true
	}
	tree := NewDispatchTree(NewNameDictionary(names))
	for _, name := range names {
		for pos := 0; pos < len(name); pos++ {
			for _, delta := range []byte{1, 0x20, 0x80} {
				mutated := []byte(name)
				mutated[pos] ^= delta
				if known[string(mutated)] {
					continue
				}
				assert.Equal(t, -1, tree.Match(mutated), "%q from %q", mutated, name)
			}
		}
		assert.Equal(t, -1, tree.Match([]byte(name+"?")), "%q+?", name)
		if len(name) > 0 && !known[name[1:]] {
			assert.Equal(t, -1, tree.Match([]byte(name[1:])), "%q without first byte", name)
		}
	}
	assert.Equal(t, -1, tree.Match(make([]byte, 1000)))
}

func TestDispatchSingleAndPair(t *testing.T) {
	single := NewDispatchTree(NewNameDictionary([]string{"x", "y", "z"}))
	assert.Equal(t, 2, single.Match([]byte("z")))
	assert.Equal(t, -1, single.Match([]byte("w")))
	assert.Equal(t, -1, single.Match([]byte("xx")))

	pair := NewDispatchTree(NewNameDictionary([]string{"lat", "lng", "altitude"}))
	assert.Equal(t, LengthPair, pair.Mode)
	assert.Equal(t, 0, pair.Match([]byte("lat")))
	assert.Equal(t, 1, pair.Match([]byte("lng")))
	assert.Equal(t, 2, pair.Match([]byte("altitude")))
	assert.Equal(t, -1, pair.Match([]byte("altitudes")))
}

func TestDispatchPlan(t *testing.T) {
	tree := NewDispatchTree(NewNameDictionary([]string{"abcdefgh", "abcdefgi", "abcdefghx", "ab"}))

	plan := tree.Plan()

	assert.Equal(t, LengthTable, plan.Mode)
	assert.Equal(t, []int{2, 8, 9}, plan.Lengths)
	assert.Equal(t, 10, plan.TableSize)
	assert.Equal(t, 4, plan.Entries)
	// "abcdefghx": a word node, a tail byte node, then the leaf
	assert.Equal(t, 2, plan.MaxDepth)
}

func TestDispatchWordBisection(t *testing.T) {
	// many names sharing a length force a bisection over word values
	var names []string
	for c := 'a'; c <= 'z'; c++ {
		names = append(names, fmt.Sprintf("field_%c%c", c, c))
	}
	tree := NewDispatchTree(NewNameDictionary(names))
	require.Equal(t, LengthSingle, tree.Mode)
	root := tree.Roots[0]
	require.True(t, root.Word)
	require.Len(t, root.Values, 26)
	assert.IsIncreasing(t, root.Values)
	for i, name := range names {
		assert.Equal(t, i, tree.Match([]byte(name)))
	}
}

func TestDescribeDispatch(t *testing.T) {
	type pair struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}
	plan, err := New().DescribeDispatch(pair{})
	require.NoError(t, err)
	assert.Equal(t, LengthSingle, plan.Mode)
	assert.Equal(t, []int{3}, plan.Lengths)
	assert.Equal(t, 2, plan.Entries)

	_, err = New().DescribeDispatch(42)
	require.ErrorIs(t, err, ErrInvalidArgument)
}
