// Copyright 2021 Dolthub, Inc.
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

package window

import (
	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrEvalUnsupportedOnWindow is returned when Eval is called directly on a
// window function, whose values must be read back from a window buffer.
var ErrEvalUnsupportedOnWindow = errors.NewKind("unimplemented %s.Eval(), the value must be read from a window buffer")
