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

	opentracing "github.com/opentracing/opentracing-go"

	"github.com/dolthub/go-sql-engine/sql"
)

// Limit is a node that only allows up to N rows to be retrieved.
type Limit struct {
	UnaryNode
	Limit sql.Expression
}

var _ sql.Node = (*Limit)(nil)
var _ sql.Expressioner = (*Limit)(nil)

// NewLimit creates a new Limit node with the given size.
func NewLimit(size sql.Expression, child sql.Node) *Limit {
	return &Limit{
		UnaryNode: UnaryNode{Child: child},
		Limit:     size,
	}
}

// Expressions implements sql.Expressioner.
func (l *Limit) Expressions() []sql.Expression {
	return []sql.Expression{l.Limit}
}

// WithExpressions implements sql.Expressioner.
func (l *Limit) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(l, len(exprs), 1)
	}
	return NewLimit(exprs[0], l.Child), nil
}

// Resolved implements the Resolvable interface.
func (l *Limit) Resolved() bool {
	return l.UnaryNode.Child.Resolved() && l.Limit.Resolved()
}

// RowIter implements the Node interface.
func (l *Limit) RowIter(ctx *sql.Context, row sql.Row) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.Limit", opentracing.Tag{Key: "limit", Value: l.Limit})

	limit, err := getInt64Value(ctx, l.Limit, "LIMIT must be an integer")
	if err != nil {
		span.Finish()
		return nil, err
	}

	li, err := l.Child.RowIter(ctx, row)
	if err != nil {
		span.Finish()
		return nil, err
	}
	return sql.NewSpanIter(span, &limitIter{limit: limit, childIter: li}), nil
}

// WithChildren implements the Node interface.
func (l *Limit) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(l, len(children), 1)
	}
	return NewLimit(l.Limit, children[0]), nil
}

func (l Limit) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("Limit(%s)", l.Limit)
	_ = pr.WriteChildren(l.Child.String())
	return pr.String()
}

func (l Limit) DebugString() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("Limit(%s)", sql.DebugString(l.Limit))
	_ = pr.WriteChildren(sql.DebugString(l.Child))
	return pr.String()
}

type limitIter struct {
	limit      int64
	currentPos int64
	childIter  sql.RowIter
}

func (li *limitIter) Next() (sql.Row, error) {
	if li.currentPos >= li.limit {
		return nil, io.EOF
	}

	childRow, err := li.childIter.Next()
	if err != nil {
		return nil, err
	}
	li.currentPos++

	return childRow, nil
}

func (li *limitIter) Close(ctx *sql.Context) error {
	return li.childIter.Close(ctx)
}
