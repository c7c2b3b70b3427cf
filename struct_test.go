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
	"strconv"
	"strings"
	"testing"
	"unsafe"

	"github.com/apache/fory/go/utf8json/bfloat16"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type point struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Name string `json:"name"`
}

func TestStructRoundTrip(t *testing.T) {
	p := point{X: 1, Y: -2, Name: "origin"}
	data, err := Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, `{"x":1,"y":-2,"name":"origin"}`, string(data))

	result, err := Unmarshal[point](data)
	require.NoError(t, err)
	assert.Equal(t, p, result)
}

func TestStructPropertyOrderIndependent(t *testing.T) {
	result, err := Unmarshal[point]([]byte(` { "name" : "n" , "y":2,"x" :1 } `))
	require.NoError(t, err)
	assert.Equal(t, point{X: 1, Y: 2, Name: "n"}, result)
}

func TestStructUnknownPropertiesSkipped(t *testing.T) {
	input := `{"zzz":{"a":[1,{"b":"}"}]},"x":1,"nothing":null,"y":2,"more":[true,false]}`
	result, err := Unmarshal[point]([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, point{X: 1, Y: 2}, result)
}

func TestStructDuplicatePropertyLastWins(t *testing.T) {
	result, err := Unmarshal[point]([]byte(`{"x":1,"x":5}`))
	require.NoError(t, err)
	assert.Equal(t, 5, result.X)
}

type flagged struct {
	Flag  bool `json:"flag"`
	Count int  `json:"count"`
	On    bool `json:"on,omitempty"`
}

func TestBoolLiterals(t *testing.T) {
	data, err := Marshal(flagged{Flag: true, Count: 3})
	require.NoError(t, err)
	assert.Equal(t, `{"flag":true,"count":3}`, string(data))

	data, err = Marshal(flagged{On: true})
	require.NoError(t, err)
	assert.Equal(t, `{"flag":false,"count":0,"on":true}`, string(data))

	result, err := Unmarshal[flagged]([]byte(`{"flag":true,"on":true}`))
	require.NoError(t, err)
	assert.Equal(t, flagged{Flag: true, On: true}, result)
}

type onlyReferences struct {
	Items []int          `json:"items"`
	Ref   *point         `json:"ref"`
	Meta  map[string]int `json:"meta"`
	Any   any            `json:"any"`
}

func TestNullElision(t *testing.T) {
	value := onlyReferences{Meta: map[string]int{"b": 2, "a": 1}}

	data, err := Marshal(value)
	require.NoError(t, err)
	assert.Equal(t, `{"items":null,"ref":null,"meta":{"a":1,"b":2},"any":null}`, string(data))

	u := New(WithIgnoreNullValues(true))
	data, err = u.Marshal(value)
	require.NoError(t, err)
	assert.Equal(t, `{"meta":{"a":1,"b":2}}`, string(data))

	data, err = u.Marshal(onlyReferences{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	data, err = u.Marshal(onlyReferences{Any: 1.5, Items: []int{}})
	require.NoError(t, err)
	assert.Equal(t, `{"items":[],"any":1.5}`, string(data))
}

func TestNullElisionPerCall(t *testing.T) {
	u := New()
	opts := u.Options()
	opts.IgnoreNullValues = true
	data, err := u.MarshalWithOptions(onlyReferences{}, opts)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

type conditional struct {
	ID      int      `json:"id,omitempty"`
	Title   string   `json:"title,omitempty"`
	Status  string   `json:"status"`
	Labels  []string `json:"labels,omitempty"`
	Visible bool     `json:"visible"`
}

func (c *conditional) ShouldSerializeStatus() bool { return c.Status != "draft" }

// ShouldSerializeVisible has the wrong shape and is ignored.
func (c *conditional) ShouldSerializeVisible() int { return 0 }

func TestConditionalMembers(t *testing.T) {
	tests := []struct {
		value    conditional
		expected string
	}{
		{conditional{}, `{"visible":false,"status":""}`},
		{conditional{Status: "draft"}, `{"visible":false}`},
		{conditional{ID: 7, Title: "t", Status: "done", Labels: []string{"x"}, Visible: true},
			`{"visible":true,"id":7,"title":"t","status":"done","labels":["x"]}`},
		{conditional{Labels: []string{}}, `{"visible":false,"status":""}`},
	}
	for _, test := range tests {
		data, err := Marshal(test.value)
		require.NoError(t, err)
		assert.Equal(t, test.expected, string(data))
	}
}

type allConditional struct {
	A int    `json:"a,omitempty"`
	B string `json:"b,omitempty"`
}

func TestFirstPropertyTracking(t *testing.T) {
	data, err := Marshal(allConditional{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	data, err = Marshal(allConditional{B: "b"})
	require.NoError(t, err)
	assert.Equal(t, `{"b":"b"}`, string(data))

	data, err = Marshal(struct{}{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

type withExtension struct {
	ID   int            `json:"id"`
	Rest map[string]any `json:",extension"`
}

type withBag struct {
	Name string      `json:"name,omitempty"`
	Bag  *OrderedBag `json:",extension"`
}

func TestExtensionDataCapture(t *testing.T) {
	input := `{"zeta":[1,2],"id":3,"alpha":{"k":"v"},"flag":true,"none":null,"n":1.5}`
	result, err := Unmarshal[withExtension]([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, 3, result.ID)
	assert.Equal(t, map[string]any{
		"zeta":  []any{1.0, 2.0},
		"alpha": map[string]any{"k": "v"},
		"flag":  true,
		"none":  nil,
		"n":     1.5,
	}, result.Rest)

	data, err := Marshal(result)
	require.NoError(t, err)
	assert.Equal(t, `{"id":3,"alpha":{"k":"v"},"flag":true,"n":1.5,"none":null,"zeta":[1,2]}`, string(data))
}

func TestExtensionBagKeepsOrder(t *testing.T) {
	input := `{"z":1,"name":"n","a":"x","z":2}`
	result, err := Unmarshal[withBag]([]byte(input))
	require.NoError(t, err)
	require.NotNil(t, result.Bag)
	assert.Equal(t, []string{"z", "a"}, result.Bag.Keys())
	z, _ := result.Bag.Get("z")
	assert.Equal(t, 2.0, z)

	data, err := Marshal(result)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"n","z":2,"a":"x"}`, string(data))

	// the extension opens the object when no member was written
	data, err = Marshal(withBag{Bag: result.Bag})
	require.NoError(t, err)
	assert.Equal(t, `{"z":2,"a":"x"}`, string(data))

	data, err = Marshal(withBag{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

type onlyExtension struct {
	All map[string]int `json:",extension"`
}

func TestExtensionWithoutMembers(t *testing.T) {
	result, err := Unmarshal[onlyExtension]([]byte(`{"a":1,"b":2}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, result.All)

	_, err = Unmarshal[onlyExtension]([]byte(`{"a":"x"}`))
	require.ErrorIs(t, err, ErrMalformedInput)
}

type caseTarget struct {
	UserName string `json:"userName"`
	Age      int    `json:"age"`
}

func TestCaseInsensitiveNames(t *testing.T) {
	input := []byte(`{"USERNAME":"u","Age":3}`)

	result, err := Unmarshal[caseTarget](input)
	require.NoError(t, err)
	assert.Equal(t, caseTarget{}, result)

	u := New(WithCaseInsensitiveNames(true))
	result, err = Deserialize[caseTarget](u, input)
	require.NoError(t, err)
	assert.Equal(t, caseTarget{UserName: "u", Age: 3}, result)
}

func TestEscapedPropertyNames(t *testing.T) {
	result, err := Unmarshal[caseTarget]([]byte(`{"user\u004eame":"u","\u0061ge":5}`))
	require.NoError(t, err)
	assert.Equal(t, caseTarget{UserName: "u", Age: 5}, result)
}

type quotedNames struct {
	Quote string `json:"say \"hi\""`
	Uni   int    `json:"ünï"`
}

func TestNamesNeedingEscapes(t *testing.T) {
	value := quotedNames{Quote: "q", Uni: 1}
	data, err := Marshal(value)
	require.NoError(t, err)
	assert.Equal(t, `{"say \"hi\"":"q","ünï":1}`, string(data))

	result, err := Unmarshal[quotedNames](data)
	require.NoError(t, err)
	assert.Equal(t, value, result)
}

type interned struct {
	A string `json:"a,intern"`
	B string `json:"b,intern"`
	C string `json:"c"`
}

func TestInternedStrings(t *testing.T) {
	result, err := Unmarshal[interned]([]byte(`{"a":"shared","b":"shared","c":"shared"}`))
	require.NoError(t, err)
	assert.Equal(t, interned{A: "shared", B: "shared", C: "shared"}, result)
	assert.Equal(t, unsafe.StringData(result.A), unsafe.StringData(result.B))
}

type charHolder struct {
	Code  rune  `json:"code,char"`
	Plain int32 `json:"plain"`
}

func TestCharMembers(t *testing.T) {
	data, err := Marshal(charHolder{Code: 'é', Plain: 'A'})
	require.NoError(t, err)
	assert.Equal(t, `{"code":"é","plain":65}`, string(data))

	result, err := Unmarshal[charHolder](data)
	require.NoError(t, err)
	assert.Equal(t, 'é', result.Code)

	_, err = Unmarshal[charHolder]([]byte(`{"code":"ab"}`))
	require.ErrorIs(t, err, ErrMalformedInput)
}

type upperFormatter struct{}

func (upperFormatter) Write(ctx *WriteContext, ptr unsafe.Pointer) {
	ctx.Writer().WriteString(strings.ToUpper(*(*string)(ptr)))
}

func (upperFormatter) Read(ctx *ReadContext, ptr unsafe.Pointer) {
	*(*string)(ptr) = strings.ToLower(ctx.Reader().ReadString())
}

type scaledFormatter struct {
	factor int64
}

func (f scaledFormatter) Write(ctx *WriteContext, ptr unsafe.Pointer) {
	ctx.Writer().WriteInt64(*(*int64)(ptr) * f.factor)
}

func (f scaledFormatter) Read(ctx *ReadContext, ptr unsafe.Pointer) {
	*(*int64)(ptr) = ctx.Reader().ReadInt64() / f.factor
}

func init() {
	RegisterFormatter("upper", upperFormatter{})
	RegisterFormatterFactory("scaled", func(t reflect.Type, args []string) (Formatter, error) {
		if t.Kind() != reflect.Int64 {
			return nil, fmt.Errorf("scaled needs int64, got %v", t)
		}
		factor := int64(1)
		if len(args) > 0 {
			n, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return nil, err
			}
			factor = n
		}
		return scaledFormatter{factor: factor}, nil
	})
}

type customMembers struct {
	Code   string `json:"code" utf8json:"formatter=upper"`
	Millis int64  `json:"millis" utf8json:"formatter=scaled(1000)"`
	Raw    int64  `json:"raw" utf8json:"formatter=scaled"`
}

type unknownFormatter struct {
	V string `utf8json:"formatter=nope"`
}

type badFactoryArgs struct {
	V string `utf8json:"formatter=scaled(2)"`
}

func TestCustomFormatters(t *testing.T) {
	value := customMembers{Code: "abc", Millis: 3, Raw: 4}
	data, err := Marshal(value)
	require.NoError(t, err)
	assert.Equal(t, `{"code":"ABC","millis":3000,"raw":4}`, string(data))

	result, err := Unmarshal[customMembers](data)
	require.NoError(t, err)
	assert.Equal(t, value, result)

	_, err = Marshal(unknownFormatter{})
	require.ErrorIs(t, err, ErrUnsupportedMemberType)
	_, err = Marshal(badFactoryArgs{})
	require.ErrorIs(t, err, ErrUnsupportedMemberType)
}

type stamp struct {
	sec int64
}

func (s stamp) MarshalText() ([]byte, error) { return []byte("t" + strconv.FormatInt(s.sec, 10)), nil }

func (s *stamp) UnmarshalText(b []byte) error {
	n, err := strconv.ParseInt(strings.TrimPrefix(string(b), "t"), 10, 64)
	s.sec = n
	return err
}

type rawJSON struct {
	body string
}

func (r rawJSON) MarshalJSON() ([]byte, error) { return []byte(r.body), nil }

func (r *rawJSON) UnmarshalJSON(b []byte) error {
	r.body = string(b)
	return nil
}

type marshalers struct {
	At    stamp           `json:"at"`
	Raw   rawJSON         `json:"raw"`
	ByKey map[stamp]int   `json:"byKey"`
	Bytes []byte          `json:"bytes"`
	Fixed [3]uint16       `json:"fixed"`
	Ptr   *int            `json:"ptr"`
	Deep  map[int][]point `json:"deep"`
}

func TestMarshalerMembers(t *testing.T) {
	seven := 7
	value := marshalers{
		At:    stamp{sec: 5},
		Raw:   rawJSON{body: `{"k":[1,2]}`},
		ByKey: map[stamp]int{{sec: 2}: 1},
		Bytes: []byte("hi"),
		Fixed: [3]uint16{1, 2, 3},
		Ptr:   &seven,
		Deep:  map[int][]point{10: {{X: 1}}, 2: nil},
	}
	data, err := Marshal(value)
	require.NoError(t, err)
	json := string(data)
	assert.Equal(t, "t5", gjson.Get(json, "at").String())
	assert.Equal(t, `{"k":[1,2]}`, gjson.Get(json, "raw").Raw)
	assert.Equal(t, int64(1), gjson.Get(json, "byKey.t2").Int())
	assert.Equal(t, "aGk=", gjson.Get(json, "bytes").String())
	assert.Equal(t, `[1,2,3]`, gjson.Get(json, "fixed").Raw)
	assert.Equal(t, int64(7), gjson.Get(json, "ptr").Int())
	assert.Equal(t, `{"10":[{"x":1,"y":0,"name":""}],"2":null}`, gjson.Get(json, "deep").Raw)

	result, err := Unmarshal[marshalers](data)
	require.NoError(t, err)
	assert.Equal(t, value, result)
}

type stringLevel int8

type levels struct {
	Level stringLevel            `json:"level"`
	Named map[string]stringLevel `json:"named"`
}

func TestNamedPrimitiveTypes(t *testing.T) {
	value := levels{Level: -3, Named: map[string]stringLevel{"x": 4}}
	data, err := Marshal(value)
	require.NoError(t, err)
	assert.Equal(t, `{"level":-3,"named":{"x":4}}`, string(data))
	result, err := Unmarshal[levels](data)
	require.NoError(t, err)
	assert.Equal(t, value, result)
}

type halfPrecision struct {
	Weight  bfloat16.BFloat16   `json:"weight"`
	Weights []bfloat16.BFloat16 `json:"weights"`
}

func TestBFloat16Members(t *testing.T) {
	value := halfPrecision{
		Weight:  bfloat16.FromFloat32(1.5),
		Weights: []bfloat16.BFloat16{bfloat16.FromFloat32(-2), bfloat16.NaN},
	}
	data, err := Marshal(value)
	require.NoError(t, err)
	assert.Equal(t, `{"weight":1.5,"weights":[-2,"NaN"]}`, string(data))
	result, err := Unmarshal[halfPrecision](data)
	require.NoError(t, err)
	assert.Equal(t, value, result)

	result, err = Unmarshal[halfPrecision]([]byte(`{"weight":1.00390625}`))
	require.NoError(t, err)
	assert.Equal(t, uint16(0x3F80), result.Weight.Bits())

	_, err = Unmarshal[halfPrecision]([]byte(`{"weight":null}`))
	assert.ErrorIs(t, err, ErrUnexpectedNull)
}

type accessorBacked struct {
	ID    int `json:"id"`
	first string
	last  string
}

func (a *accessorBacked) JSONProperties() []string {
	return []string{"fullName", "first=FirstName", "readOnly"}
}
func (a *accessorBacked) FullName() string      { return a.first + " " + a.last }
func (a *accessorBacked) FirstName() string     { return a.first }
func (a *accessorBacked) SetFirstName(v string) { a.first = v }
func (a *accessorBacked) SetFullName(v string)  { a.first, a.last, _ = strings.Cut(v, " ") }
func (a *accessorBacked) ReadOnly() bool        { return a.ID > 0 }

func (a *accessorBacked) ShouldSerializeFirstName() bool { return a.first != "" }

func TestPropertyMembers(t *testing.T) {
	value := accessorBacked{ID: 1, first: "Ada", last: "Lovelace"}
	data, err := Marshal(value)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"fullName":"Ada Lovelace","readOnly":true,"first":"Ada"}`, string(data))

	result, err := Unmarshal[accessorBacked]([]byte(`{"fullName":"Grace Hopper","readOnly":false,"id":2}`))
	require.NoError(t, err)
	assert.Equal(t, accessorBacked{ID: 2, first: "Grace", last: "Hopper"}, result)

	data, err = Marshal(accessorBacked{})
	require.NoError(t, err)
	assert.Equal(t, `{"id":0,"fullName":" ","readOnly":false}`, string(data))
}

func TestUnexpectedNull(t *testing.T) {
	_, err := Unmarshal[point]([]byte(`{"x":null}`))
	require.ErrorIs(t, err, ErrUnexpectedNull)

	_, err = Unmarshal[point]([]byte(`null`))
	require.ErrorIs(t, err, ErrUnexpectedNull)

	_, err = Unmarshal[[2]int]([]byte(`null`))
	require.ErrorIs(t, err, ErrUnexpectedNull)

	result, err := Unmarshal[*point]([]byte(`null`))
	require.NoError(t, err)
	assert.Nil(t, result)

	refs, err := Unmarshal[onlyReferences]([]byte(`{"items":null,"ref":null,"meta":null,"any":null}`))
	require.NoError(t, err)
	assert.Equal(t, onlyReferences{}, refs)
}

func TestMalformedInput(t *testing.T) {
	inputs := []string{
		``,
		`{`,
		`{"x":}`,
		`{"x":1,}`,
		`{"x" 1}`,
		`{"x":1}}`,
		`{"x":1 "y":2}`,
		`[1]`,
		`{"x":1.5}`,
		`{"name":12}`,
		`{"x":tru}`,
	}
	for _, input := range inputs {
		_, err := Unmarshal[point]([]byte(input))
		require.ErrorIs(t, err, ErrMalformedInput, "%q", input)
		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, ErrKindMalformedInput, e.Kind())
		assert.GreaterOrEqual(t, e.Offset(), 0, "%q", input)
	}
}

func TestUnmarshalAssignsOnlyOnSuccess(t *testing.T) {
	target := point{X: 9, Name: "keep"}
	err := UnmarshalTo([]byte(`{"x":1,"y":"bad"}`), &target)
	require.Error(t, err)
	assert.Equal(t, point{X: 9, Name: "keep"}, target)

	require.NoError(t, UnmarshalTo([]byte(`{"y":3}`), &target))
	assert.Equal(t, point{Y: 3}, target)
}

func TestUnmarshalInvalidTarget(t *testing.T) {
	var p point
	require.ErrorIs(t, New().Unmarshal([]byte(`{}`), p), ErrInvalidArgument)
	require.ErrorIs(t, New().Unmarshal([]byte(`{}`), nil), ErrInvalidArgument)
	var np *point
	require.ErrorIs(t, New().Unmarshal([]byte(`{}`), np), ErrInvalidArgument)
}

type unsupportedMember struct {
	Ch chan int `json:"ch"`
}

type unsupportedKey struct {
	M map[point]int `json:"m"`
}

func TestUnsupportedMemberTypes(t *testing.T) {
	_, err := Marshal(unsupportedMember{})
	require.ErrorIs(t, err, ErrUnsupportedMemberType)
	assert.Contains(t, err.Error(), "Ch")

	_, err = Unmarshal[unsupportedKey]([]byte(`{}`))
	require.ErrorIs(t, err, ErrUnsupportedMemberType)

	// the failed build is cached and reported again
	_, err = Marshal(unsupportedMember{})
	require.ErrorIs(t, err, ErrUnsupportedMemberType)
}

func TestMarshalTopLevelValues(t *testing.T) {
	data, err := New().Marshal(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	var np *point
	data, err = New().Marshal(np)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	data, err = New().Marshal(&point{X: 1})
	require.NoError(t, err)
	assert.Equal(t, `{"x":1,"y":0,"name":""}`, string(data))

	data, err = Marshal([]any{1, "a", true, nil, map[string]any{"k": []int{1}}})
	require.NoError(t, err)
	assert.Equal(t, `[1,"a",true,null,{"k":[1]}]`, string(data))
}

func TestDynamicValues(t *testing.T) {
	type holder struct {
		V any `json:"v"`
	}
	result, err := Unmarshal[holder]([]byte(`{"v":{"a":[1,"x",null,{"b":false}]}}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": []any{1.0, "x", nil, map[string]any{"b": false}}}, result.V)

	data, err := Marshal(holder{V: point{X: 2}})
	require.NoError(t, err)
	assert.Equal(t, `{"v":{"x":2,"y":0,"name":""}}`, string(data))
}

func TestUnmarshalDecodesIntoFreshValue(t *testing.T) {
	type holder struct {
		P *point `json:"p"`
	}
	existing := &point{Name: "kept"}
	h := holder{P: existing}
	require.NoError(t, UnmarshalTo([]byte(`{"p":{"x":4}}`), &h))
	assert.Equal(t, point{X: 4}, *h.P)
	assert.Equal(t, point{Name: "kept"}, *existing)
}
