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
	"io"

	"github.com/dolthub/go-sql-engine/sql"
)

// Intersect is a node that returns the rows present in both its children.
// In ALL mode membership is counted, so a row appearing twice on each side
// appears twice in the result. In distinct mode the result is deduplicated.
// Row equality treats NULL as equal to NULL.
type Intersect struct {
	BinaryNode
	Distinct bool
}

var _ sql.Node = (*Intersect)(nil)

// NewIntersect creates a new Intersect node with the given children.
func NewIntersect(left, right sql.Node, distinct bool) *Intersect {
	return &Intersect{
		BinaryNode: BinaryNode{left: left, right: right},
		Distinct:   distinct,
	}
}

// Schema implements the Node interface.
func (n *Intersect) Schema() sql.Schema {
	return setOperationSchema(n.left.Schema(), n.right.Schema())
}

// Opaque implements the sql.OpaqueNode interface.
func (n *Intersect) Opaque() bool {
	return true
}

// RowIter implements the Node interface.
func (n *Intersect) RowIter(ctx *sql.Context, row sql.Row) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.Intersect")

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

	var iter sql.RowIter = &intersectIter{
		childIter: li,
		counts:    counts,
	}
	if n.Distinct {
		iter = newDistinctIter(ctx, iter)
	}

	return sql.NewSpanIter(span, iter), nil
}

// WithChildren implements the Node interface.
func (n *Intersect) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(n, len(children), 2)
	}

	return NewIntersect(children[0], children[1], n.Distinct), nil
}

func (n Intersect) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("Intersect%s", distinctSuffix(n.Distinct))
	_ = pr.WriteChildren(n.left.String(), n.right.String())
	return pr.String()
}

func (n Intersect) DebugString() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("Intersect%s", distinctSuffix(n.Distinct))
	_ = pr.WriteChildren(sql.DebugString(n.left), sql.DebugString(n.right))
	return pr.String()
}

func distinctSuffix(distinct bool) string {
	if distinct {
		return " distinct"
	}
	return " all"
}

// countRowHashes drains the given iterator into a multiset of row hashes.
func countRowHashes(ctx *sql.Context, iter sql.RowIter) (map[uint64]int, error) {
	counts := make(map[uint64]int)
	for {
		row, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = iter.Close(ctx)
			return nil, err
		}

		hash, err := sql.HashOf(row)
		if err != nil {
			_ = iter.Close(ctx)
			return nil, err
		}

		counts[hash]++
	}

	return counts, iter.Close(ctx)
}

// intersectIter emits left rows whose hash still has a positive count in
// the right-side multiset, consuming one count per emitted row.
type intersectIter struct {
	childIter sql.RowIter
	counts    map[uint64]int
}

func (i *intersectIter) Next() (sql.Row, error) {
	for {
		row, err := i.childIter.Next()
		if err != nil {
			return nil, err
		}

		hash, err := sql.HashOf(row)
		if err != nil {
			return nil, err
		}

		if i.counts[hash] <= 0 {
			continue
		}
		i.counts[hash]--

		return row, nil
	}
}

func (i *intersectIter) Close(ctx *sql.Context) error {
	i.counts = nil
	return i.childIter.Close(ctx)
}
