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

package benchmark

// NumericStruct is a flat struct of 8 int32 fields.
type NumericStruct struct {
	F1 int32 `json:"f1" msgpack:"1"`
	F2 int32 `json:"f2" msgpack:"2"`
	F3 int32 `json:"f3" msgpack:"3"`
	F4 int32 `json:"f4" msgpack:"4"`
	F5 int32 `json:"f5" msgpack:"5"`
	F6 int32 `json:"f6" msgpack:"6"`
	F7 int32 `json:"f7" msgpack:"7"`
	F8 int32 `json:"f8" msgpack:"8"`
}

// Sample mixes every primitive kind with primitive slices.
type Sample struct {
	IntValue          int32     `json:"intValue" msgpack:"1"`
	LongValue         int64     `json:"longValue" msgpack:"2"`
	FloatValue        float32   `json:"floatValue" msgpack:"3"`
	DoubleValue       float64   `json:"doubleValue" msgpack:"4"`
	ShortValue        int32     `json:"shortValue" msgpack:"5"`
	CharValue         int32     `json:"charValue" msgpack:"6"`
	BooleanValue      bool      `json:"booleanValue" msgpack:"7"`
	IntValueBoxed     int32     `json:"intValueBoxed" msgpack:"8"`
	LongValueBoxed    int64     `json:"longValueBoxed" msgpack:"9"`
	FloatValueBoxed   float32   `json:"floatValueBoxed" msgpack:"10"`
	DoubleValueBoxed  float64   `json:"doubleValueBoxed" msgpack:"11"`
	ShortValueBoxed   int32     `json:"shortValueBoxed" msgpack:"12"`
	CharValueBoxed    int32     `json:"charValueBoxed" msgpack:"13"`
	BooleanValueBoxed bool      `json:"booleanValueBoxed" msgpack:"14"`
	IntArray          []int32   `json:"intArray" msgpack:"15"`
	LongArray         []int64   `json:"longArray" msgpack:"16"`
	FloatArray        []float32 `json:"floatArray" msgpack:"17"`
	DoubleArray       []float64 `json:"doubleArray" msgpack:"18"`
	ShortArray        []int32   `json:"shortArray" msgpack:"19"`
	CharArray         []int32   `json:"charArray" msgpack:"20"`
	BooleanArray      []bool    `json:"booleanArray" msgpack:"21"`
	String            string    `json:"string" msgpack:"22"`
}

// Player enum type
type Player int32

const (
	PlayerJava  Player = 0
	PlayerFlash Player = 1
)

// Size enum type
type Size int32

const (
	SizeSmall Size = 0
	SizeLarge Size = 1
)

// Media represents media metadata
type Media struct {
	URI        string   `json:"uri" msgpack:"1"`
	Title      string   `json:"title" msgpack:"2"`
	Width      int32    `json:"width" msgpack:"3"`
	Height     int32    `json:"height" msgpack:"4"`
	Format     string   `json:"format" msgpack:"5"`
	Duration   int64    `json:"duration" msgpack:"6"`
	Size       int64    `json:"size" msgpack:"7"`
	Bitrate    int32    `json:"bitrate" msgpack:"8"`
	HasBitrate bool     `json:"hasBitrate" msgpack:"9"`
	Persons    []string `json:"persons" msgpack:"10"`
	Player     Player   `json:"player" msgpack:"11"`
	Copyright  string   `json:"copyright" msgpack:"12"`
}

// Image represents image metadata
type Image struct {
	URI    string `json:"uri" msgpack:"1"`
	Title  string `json:"title" msgpack:"2"`
	Width  int32  `json:"width" msgpack:"3"`
	Height int32  `json:"height" msgpack:"4"`
	Size   Size   `json:"size" msgpack:"5"`
}

// MediaContent contains media and images
type MediaContent struct {
	Media  Media   `json:"media" msgpack:"1"`
	Images []Image `json:"images" msgpack:"2"`
}

type StructList struct {
	StructList []NumericStruct `json:"structList" msgpack:"1"`
}

type SampleList struct {
	SampleList []Sample `json:"sampleList" msgpack:"1"`
}

type MediaContentList struct {
	MediaContentList []MediaContent `json:"mediaContentList" msgpack:"1"`
}

// CreateNumericStruct returns the benchmark payload
func CreateNumericStruct() NumericStruct {
	return NumericStruct{
		F1: -12345,
		F2: 987654321,
		F3: -31415,
		F4: 27182818,
		F5: -32000,
		F6: 1000000,
		F7: -999999999,
		F8: 42,
	}
}

// CreateSample returns the benchmark payload
func CreateSample() Sample {
	return Sample{
		IntValue:          123,
		LongValue:         1230000,
		FloatValue:        12.345,
		DoubleValue:       1.234567,
		ShortValue:        12345,
		CharValue:         '!', // 33
		BooleanValue:      true,
		IntValueBoxed:     321,
		LongValueBoxed:    3210000,
		FloatValueBoxed:   54.321,
		DoubleValueBoxed:  7.654321,
		ShortValueBoxed:   32100,
		CharValueBoxed:    '$', // 36
		BooleanValueBoxed: false,
		IntArray:          []int32{-1234, -123, -12, -1, 0, 1, 12, 123, 1234},
		LongArray:         []int64{-123400, -12300, -1200, -100, 0, 100, 1200, 12300, 123400},
		FloatArray:        []float32{-12.34, -12.3, -12.0, -1.0, 0.0, 1.0, 12.0, 12.3, 12.34},
		DoubleArray:       []float64{-1.234, -1.23, -12.0, -1.0, 0.0, 1.0, 12.0, 1.23, 1.234},
		ShortArray:        []int32{-1234, -123, -12, -1, 0, 1, 12, 123, 1234},
		CharArray:         []int32{'a', 's', 'd', 'f', 'A', 'S', 'D', 'F'},
		BooleanArray:      []bool{true, false, false, true},
		String:            "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
	}
}

// CreateMediaContent returns the benchmark payload
func CreateMediaContent() MediaContent {
	return MediaContent{
		Media: Media{
			URI:        "http://javaone.com/keynote.ogg",
			Title:      "",
			Width:      641,
			Height:     481,
			Format:     "video/theora\u1234",
			Duration:   18000001,
			Size:       58982401,
			Bitrate:    0,
			HasBitrate: false,
			Persons:    []string{"Bill Gates, Jr.", "Steven Jobs"},
			Player:     PlayerFlash,
			Copyright:  "Copyright (c) 2009, Scooby Dooby Doo",
		},
		Images: []Image{
			{
				URI:    "http://javaone.com/keynote_huge.jpg",
				Title:  "Javaone Keynote\u1234",
				Width:  32000,
				Height: 24000,
				Size:   SizeLarge,
			},
			{
				URI:    "http://javaone.com/keynote_large.jpg",
				Title:  "",
				Width:  1024,
				Height: 768,
				Size:   SizeLarge,
			},
			{
				URI:    "http://javaone.com/keynote_small.jpg",
				Title:  "",
				Width:  320,
				Height: 240,
				Size:   SizeSmall,
			},
		},
	}
}

func CreateStructList() StructList {
	list := make([]NumericStruct, 20)
	for i := range list {
		list[i] = CreateNumericStruct()
	}
	return StructList{StructList: list}
}

func CreateSampleList() SampleList {
	list := make([]Sample, 20)
	for i := range list {
		list[i] = CreateSample()
	}
	return SampleList{SampleList: list}
}

func CreateMediaContentList() MediaContentList {
	list := make([]MediaContent, 20)
	for i := range list {
		list[i] = CreateMediaContent()
	}
	return MediaContentList{MediaContentList: list}
}
