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

package plan

import (
	"github.com/dolthub/go-sql-engine/sql"
)

// Except is a node that returns the rows of its left child that are not
// present in its right child. In ALL mode each right-side occurrence
// cancels one left-side occurrence. In distinct mode a single right-side
// occurrence removes every matching left row, and the result is
// deduplicated. Row equality treats NULL as equal to NULL.
type Except struct {
	BinaryNode
	Distinct bool
}

var _ sql.Node = (*Except)(nil)

// NewExcept creates a new Except node with the given children.
func NewExcept(left, right sql.Node, distinct bool) *Except {
	return &Except{
		BinaryNode: BinaryNode{left: left, right: right},
		Distinct:   distinct,
	}
}

// Schema implements the Node interface.
func (n *Except) Schema() sql.Schema {
	return setOperationSchema(n.left.Schema(), n.right.Schema())
}

// Opaque implements the sql.OpaqueNode interface.
func (n *Except) Opaque() bool {
	return true
}

// RowIter implements the Node interface.
func (n *Except) RowIter(ctx *sql.Context, row sql.Row) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.Except")

	ri, err := n.right.RowIter(ctx, row)
	if err != nil {
		span.Finish()
		return nil, err
	}

	counts, err := countRowHashes(ctx, ri)
	if err != nil {
		span.Finish()
		return nil, err
	}

	li, err := n.left.RowIter(ctx, row)
	if err != nil {
		span.Finish()
		return nil, err
	}

	var iter sql.RowIter = &exceptIter{
		childIter: li,
		counts:    counts,
		counted:   !n.Distinct,
	}
	if n.Distinct {
		iter = newDistinctIter(ctx, iter)
	}

	return sql.NewSpanIter(span, iter), nil
}

// WithChildren implements the Node interface.
func (n *Except) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(n, len(children), 2)
	}

	return NewExcept(children[0], children[1], n.Distinct), nil
}

func (n Except) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("Except%s", distinctSuffix(n.Distinct))
	_ = pr.WriteChildren(n.left.String(), n.right.String())
	return pr.String()
}

func (n Except) DebugString() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("Except%s", distinctSuffix(n.Distinct))
	_ = pr.WriteChildren(sql.DebugString(n.left), sql.DebugString(n.right))
	return pr.String()
}

// exceptIter skips left rows whose hash still has a positive count in the
// right-side multiset. When counted, each skip consumes one count, which
// gives EXCEPT ALL its multiset arithmetic. When not counted, a positive
// count suppresses every matching left row.
type exceptIter struct {
	childIter sql.RowIter
	counts    map[uint64]int
	counted   bool
}

func (i *exceptIter) Next() (sql.Row, error) {
	for {
		row, err := i.childIter.Next()
		if err != nil {
			return nil, err
		}

		hash, err := sql.HashOf(row)
		if err != nil {
			return nil, err
		}

		if i.counts[hash] > 0 {
			if i.counted {
				i.counts[hash]--
			}
			continue
		}

		return row, nil
	}
}

func (i *exceptIter) Close(ctx *sql.Context) error {
	i.counts = nil
	return i.childIter.Close(ctx)
}
