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

// FullOuterJoin is a join that preserves unmatched rows from both sides,
// null-extending whichever side has no match. It executes as the
// deduplicated union of the equivalent left and right joins, which the
// analyzer normally reifies before execution.
type FullOuterJoin struct {
	JoinNode
}

var _ sql.Node = (*FullOuterJoin)(nil)
var _ sql.Expressioner = (*FullOuterJoin)(nil)

// NewFullOuterJoin creates a new full outer join node from two tables.
func NewFullOuterJoin(left, right sql.Node, cond sql.Expression) *FullOuterJoin {
	return &FullOuterJoin{
		JoinNode: JoinNode{
			BinaryNode: BinaryNode{
				left:  left,
				right: right,
			},
			Cond: cond,
		},
	}
}

// JoinType implements the joinNode interface.
func (j *FullOuterJoin) JoinType() JoinType {
	return JoinTypeFullOuter
}

// Schema implements the Node interface. Both sides can be null-extended,
// so every column is nullable.
func (j *FullOuterJoin) Schema() sql.Schema {
	return append(makeNullable(j.left.Schema()), makeNullable(j.right.Schema())...)
}

// Reified returns the plan this join executes as: the deduplicated union
// of the left join and the right join over the same children and
// condition.
func (j *FullOuterJoin) Reified() sql.Node {
	return NewDistinct(NewUnion(
		NewLeftJoin(j.left, j.right, j.Cond),
		NewRightJoin(j.left, j.right, j.Cond),
	))
}

// RowIter implements the Node interface.
func (j *FullOuterJoin) RowIter(ctx *sql.Context, row sql.Row) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.FullOuterJoin")

	iter, err := j.Reified().RowIter(ctx, row)
	if err != nil {
		span.Finish()
		return nil, err
	}

	return sql.NewSpanIter(span, iter), nil
}

// WithChildren implements the Node interface.
func (j *FullOuterJoin) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(j, len(children), 2)
	}

	return NewFullOuterJoin(children[0], children[1], j.Cond), nil
}

// Expressions implements the Expressioner interface.
func (j *FullOuterJoin) Expressions() []sql.Expression {
	return []sql.Expression{j.Cond}
}

// WithExpressions implements the Expressioner interface.
func (j *FullOuterJoin) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(j, len(exprs), 1)
	}

	return NewFullOuterJoin(j.left, j.right, exprs[0]), nil
}

func (j *FullOuterJoin) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("FullOuterJoin(%s)", j.Cond)
	_ = pr.WriteChildren(j.left.String(), j.right.String())
	return pr.String()
}

func (j *FullOuterJoin) DebugString() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("FullOuterJoin(%s)", sql.DebugString(j.Cond))
	_ = pr.WriteChildren(sql.DebugString(j.left), sql.DebugString(j.right))
	return pr.String()
}
