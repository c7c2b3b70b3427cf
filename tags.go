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
	"reflect"
	"strings"
)

const (
	jsonTagName     = "json"
	utf8jsonTagName = "utf8json"
)

// FormatterSpec names a custom formatter for one member and the arguments
// its factory is instantiated with.
type FormatterSpec struct {
	Name string
	Args []string
}

func (s *FormatterSpec) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + "(" + strings.Join(s.Args, ",") + ")"
}

// MemberTag is the parsed form of the json and utf8json struct tags.
//
//	Name string `json:"name,omitempty,intern"`
//	At   int64  `utf8json:"formatter=unixtime(ms)"`
//	Code rune   `json:"code,char"`
//	Rest map[string]any `json:",extension"`
type MemberTag struct {
	Name      string
	Skip      bool
	OmitEmpty bool
	Intern    bool
	Char      bool
	Extension bool
	Formatter *FormatterSpec
}

func parseMemberTag(field reflect.StructField) (MemberTag, error) {
	return ParseMemberTag(field.Name, field.Tag)
}

// ParseMemberTag parses the tags of the field called fieldName. The source
// generator shares it with reflection so both see the same members.
func ParseMemberTag(fieldName string, st reflect.StructTag) (MemberTag, error) {
	var tag MemberTag
	if raw, ok := st.Lookup(jsonTagName); ok {
		if raw == "-" {
			tag.Skip = true
			return tag, nil
		}
		name, opts, _ := strings.Cut(raw, ",")
		tag.Name = name
		for opts != "" {
			var opt string
			opt, opts, _ = strings.Cut(opts, ",")
			if err := tag.applyOption(opt); err != nil {
				return tag, fmt.Errorf("field %s: %w", fieldName, err)
			}
		}
	}
	if raw, ok := st.Lookup(utf8jsonTagName); ok {
		for _, opt := range strings.Split(raw, ";") {
			opt = strings.TrimSpace(opt)
			if value, found := strings.CutPrefix(opt, "formatter="); found {
				spec, err := parseFormatterSpec(value)
				if err != nil {
					return tag, fmt.Errorf("field %s: %w", fieldName, err)
				}
				tag.Formatter = spec
				continue
			}
			if err := tag.applyOption(opt); err != nil {
				return tag, fmt.Errorf("field %s: %w", fieldName, err)
			}
		}
	}
	return tag, nil
}

func (t *MemberTag) applyOption(opt string) error {
	switch opt {
	case "":
	case "omitempty":
		t.OmitEmpty = true
	case "intern":
		t.Intern = true
	case "char":
		t.Char = true
	case "extension", "inline":
		t.Extension = true
	case "string":
		// accepted for encoding/json compatibility, numbers stay unquoted
	default:
		return fmt.Errorf("unknown tag option %q", opt)
	}
	return nil
}

// parseFormatterSpec parses NAME or NAME(arg1,arg2).
func parseFormatterSpec(value string) (*FormatterSpec, error) {
	name, rest, hasArgs := strings.Cut(value, "(")
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty formatter name in %q", value)
	}
	spec := &FormatterSpec{Name: name}
	if !hasArgs {
		return spec, nil
	}
	body, ok := strings.CutSuffix(strings.TrimSpace(rest), ")")
	if !ok {
		return nil, fmt.Errorf("unterminated formatter arguments in %q", value)
	}
	if strings.TrimSpace(body) == "" {
		return spec, nil
	}
	for _, arg := range strings.Split(body, ",") {
		spec.Args = append(spec.Args, strings.TrimSpace(arg))
	}
	return spec, nil
}
