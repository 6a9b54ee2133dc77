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

package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const expectedTree = `Project(a, b)
 ├─ InnerJoin(a = b)
 │   ├─ employees
 │   └─ departments
 └─ Filter(c > 1)
     ├─ orders
     └─ customers
`

func TestTreePrinter(t *testing.T) {
	p := NewTreePrinter()
	p.WriteNode("Project(%s, %s)", "a", "b")

	p2 := NewTreePrinter()
	p2.WriteNode("InnerJoin(a = b)")
	p2.WriteChildren(
		"employees",
		"departments",
	)

	p3 := NewTreePrinter()
	p3.WriteNode("Filter(c > 1)")
	p3.WriteChildren(
		"orders",
		"customers",
	)

	p.WriteChildren(
		p2.String(),
		p3.String(),
	)

	require.Equal(t, expectedTree, p.String())
}

func TestTreePrinterErrors(t *testing.T) {
	require := require.New(t)

	p := NewTreePrinter()
	require.Equal(ErrNodeNotWritten, p.WriteChildren("child"))

	require.NoError(p.WriteNode("Limit(5)"))
	require.Equal(ErrNodeAlreadyWritten, p.WriteNode("Limit(5)"))

	require.NoError(p.WriteChildren("child"))
	require.Equal(ErrChildrenAlreadyWritten, p.WriteChildren("child"))
}
