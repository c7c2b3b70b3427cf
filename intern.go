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

import "github.com/spaolacci/murmur3"

const (
	minInternLen = 2
	maxInternLen = 256
)

// stringCache hands out previously built strings for repeated byte values.
// It is a lossy direct-mapped table owned by one read call.
type stringCache [256]string

func (c *stringCache) make(b []byte) string {
	if c == nil || len(b) < minInternLen || len(b) > maxInternLen {
		return string(b)
	}
	i := murmur3.Sum64(b) % uint64(len(*c))
	if s := (*c)[i]; s == string(b) {
		return s
	}
	s := string(b)
	(*c)[i] = s
	return s
}
