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
	"strings"

	"github.com/dolthub/go-sql-engine/sql"
	"github.com/dolthub/go-sql-engine/sql/expression"
)

// Window is a top-level projection whose expressions may include window
// aggregations. The entire input is buffered, every window function result
// is computed, and rows are emitted in their original input order with the
// function results attached.
type Window struct {
	SelectExprs []sql.Expression
	UnaryNode
}

var _ sql.Node = (*Window)(nil)
var _ sql.Expressioner = (*Window)(nil)

// NewWindow creates a new Window node.
func NewWindow(selectExprs []sql.Expression, node sql.Node) *Window {
	return &Window{
		SelectExprs: selectExprs,
		UnaryNode:   UnaryNode{node},
	}
}

// Resolved implements sql.Node
func (w *Window) Resolved() bool {
	return w.UnaryNode.Child.Resolved() &&
		expression.ExpressionsResolved(w.SelectExprs...)
}

func (w *Window) String() string {
	pr := sql.NewTreePrinter()
	var exprs = make([]string, len(w.SelectExprs))
	for i, expr := range w.SelectExprs {
		exprs[i] = expr.String()
	}
	_ = pr.WriteNode("Window(%s)", strings.Join(exprs, ", "))
	_ = pr.WriteChildren(w.Child.String())
	return pr.String()
}

func (w *Window) DebugString() string {
	pr := sql.NewTreePrinter()
	var exprs = make([]string, len(w.SelectExprs))
	for i, expr := range w.SelectExprs {
		exprs[i] = sql.DebugString(expr)
	}
	_ = pr.WriteNode("Window(%s)", strings.Join(exprs, ", "))
	_ = pr.WriteChildren(sql.DebugString(w.Child))
	return pr.String()
}

// Schema implements sql.Node
func (w *Window) Schema() sql.Schema {
	return expression.ExpressionsToColumns(w.SelectExprs)
}

// WithChildren implements sql.Node
func (w *Window) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(w, len(children), 1)
	}

	return NewWindow(w.SelectExprs, children[0]), nil
}

// Expressions implements sql.Expressioner
func (w *Window) Expressions() []sql.Expression {
	return w.SelectExprs
}

// WithExpressions implements sql.Expressioner
func (w *Window) WithExpressions(e ...sql.Expression) (sql.Node, error) {
	if len(e) != len(w.SelectExprs) {
		return nil, sql.ErrInvalidChildrenNumber.New(w, len(e), len(w.SelectExprs))
	}

	return NewWindow(e, w.Child), nil
}

// RowIter implements sql.Node
func (w *Window) RowIter(ctx *sql.Context, row sql.Row) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.Window")

	childIter, err := w.Child.RowIter(ctx, row)
	if err != nil {
		span.Finish()
		return nil, err
	}

	return sql.NewSpanIter(span, &windowIter{
		selectExprs: w.SelectExprs,
		childIter:   childIter,
		ctx:         ctx,
	}), nil
}

type windowIter struct {
	selectExprs []sql.Expression
	childIter   sql.RowIter
	ctx         *sql.Context
	rows        []sql.Row
	buffers     []sql.Row
	pos         int
	computed    bool
	dispose     sql.DisposeFunc
}

func (i *windowIter) Next() (sql.Row, error) {
	if !i.computed {
		if err := i.compute(); err != nil {
			return nil, err
		}
		i.computed = true
	}

	if i.pos >= len(i.rows) {
		return nil, io.EOF
	}

	row := make(sql.Row, len(i.selectExprs))
	for j, expr := range i.selectExprs {
		var val interface{}
		var err error
		switch expr := expr.(type) {
		case sql.WindowAggregation:
			val, err = expr.EvalRow(i.pos, i.buffers[j])
		default:
			val, err = expr.Eval(i.ctx, i.rows[i.pos])
		}
		if err != nil {
			return nil, err
		}
		row[j] = val
	}

	i.pos++
	return row, nil
}

// compute drains the child, feeding every row to the buffer of each window
// aggregation, then finishes the buffers so results can be read back by
// input position.
func (i *windowIter) compute() error {
	i.buffers = make([]sql.Row, len(i.selectExprs))
	for j, expr := range i.selectExprs {
		if wa, ok := expr.(sql.WindowAggregation); ok {
			i.buffers[j] = wa.NewBuffer()
		}
	}

	cache, dispose := i.ctx.Memory.NewRowsCache()
	i.dispose = dispose

	for {
		row, err := i.childIter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if err := cache.Add(row); err != nil {
			return err
		}

		for j, expr := range i.selectExprs {
			if wa, ok := expr.(sql.WindowAggregation); ok {
				if err := wa.Add(i.ctx, i.buffers[j], row); err != nil {
					return err
				}
			}
		}
	}

	i.rows = cache.Get()

	for j, expr := range i.selectExprs {
		if wa, ok := expr.(sql.WindowAggregation); ok {
			if err := wa.Finish(i.ctx, i.buffers[j]); err != nil {
				return err
			}
		}
	}

	return nil
}

func (i *windowIter) Close(ctx *sql.Context) error {
	i.Dispose()
	i.rows = nil
	i.buffers = nil
	return i.childIter.Close(ctx)
}

func (i *windowIter) Dispose() {
	if i.dispose != nil {
		i.dispose()
		i.dispose = nil
	}
}
