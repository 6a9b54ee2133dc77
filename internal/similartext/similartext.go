// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package similartext finds the name most similar to a given one inside a
// collection, for use in "did you mean" style error messages.
package similartext

import (
	"fmt"
	"reflect"
	"strings"
)

// maxDistanceIgnored is the edit distance above which a name is not
// considered similar at all.
const maxDistanceIgnored = 3

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// distance is the Levenshtein distance between two strings.
func distance(str1, str2 []rune) int {
	s1len := len(str1)
	s2len := len(str2)
	column := make([]int, s1len+1)

	for y := 1; y <= s1len; y++ {
		column[y] = y
	}
	for x := 1; x <= s2len; x++ {
		column[0] = x
		lastkey := x - 1
		for y := 1; y <= s1len; y++ {
			oldkey := column[y]
			var incr int
			if str1[y-1] != str2[x-1] {
				incr = 1
			}

			column[y] = min(min(column[y]+1, column[y-1]+1), lastkey+incr)
			lastkey = oldkey
		}
	}
	return column[s1len]
}

// Find returns a string with suggestions for the name most similar to src
// among names, ready to be appended to an error message. It returns an empty
// string when nothing is similar enough.
func Find(names []string, src string) string {
	if len(src) == 0 {
		return ""
	}

	minDist := -1
	var similar []string
	for _, name := range names {
		dist := distance([]rune(name), []rune(src))
		if dist > maxDistanceIgnored {
			continue
		}

		if minDist == -1 || dist < minDist {
			minDist = dist
			similar = []string{name}
		} else if dist == minDist {
			similar = append(similar, name)
		}
	}

	if len(similar) == 0 {
		return ""
	}

	return fmt.Sprintf(", maybe you mean %s?", strings.Join(similar, " or "))
}

// FindFromMap does the same as Find but taking a map instead of a string
// slice. It will panic if given anything other than a map with string keys.
func FindFromMap(m interface{}, src string) string {
	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Map {
		panic("not a map: " + rv.Kind().String())
	}

	var names []string
	for _, key := range rv.MapKeys() {
		if key.Kind() != reflect.String {
			panic("map keys are not strings: " + key.Kind().String())
		}
		names = append(names, key.String())
	}

	return Find(names, src)
}
