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
	"strings"

	"github.com/dolthub/go-sql-engine/sql"
)

// Rank ranks the rows of each partition in the window's order. Rows whose
// order by columns are equal are peers and share a rank, and the rank after
// a peer group skips ahead by the size of the group, so a partition ranked
// 1, 1 continues at 3.
type Rank struct {
	window *sql.Window
	pos    int
}

var _ sql.FunctionExpression = (*Rank)(nil)
var _ sql.WindowAggregation = (*Rank)(nil)

func NewRank() *Rank {
	return &Rank{}
}

// Window implements sql.WindowAggregation
func (r *Rank) Window() *sql.Window {
	return r.window
}

// Resolved implements sql.Expression
func (r *Rank) Resolved() bool {
	return windowResolved(r.window)
}

func (r *Rank) NewBuffer() sql.Row {
	return sql.NewRow(make([]sql.Row, 0))
}

func (r *Rank) String() string {
	sb := strings.Builder{}
	sb.WriteString("rank()")
	if r.window != nil {
		sb.WriteString(" ")
		sb.WriteString(r.window.String())
	}
	return sb.String()
}

func (r *Rank) DebugString() string {
	sb := strings.Builder{}
	sb.WriteString("rank()")
	if r.window != nil {
		sb.WriteString(" ")
		sb.WriteString(sql.DebugString(r.window))
	}
	return sb.String()
}

// FunctionName implements sql.FunctionExpression
func (r *Rank) FunctionName() string {
	return "RANK"
}

// Type implements sql.Expression
func (r *Rank) Type() sql.Type {
	return sql.Int64
}

// IsNullable implements sql.Expression
func (r *Rank) IsNullable() bool {
	return false
}

// Eval implements sql.Expression
func (r *Rank) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return nil, ErrEvalUnsupportedOnWindow.New("RANK")
}

// Children implements sql.Expression
func (r *Rank) Children() []sql.Expression {
	return r.window.ToExpressions()
}

// WithChildren implements sql.Expression
func (r *Rank) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	window, err := r.window.FromExpressions(children)
	if err != nil {
		return nil, err
	}

	return r.WithWindow(window)
}

// WithWindow implements sql.WindowAggregation
func (r *Rank) WithWindow(window *sql.Window) (sql.WindowAggregation, error) {
	nr := *r
	nr.window = window
	return &nr, nil
}

// Add implements sql.WindowAggregation
func (r *Rank) Add(ctx *sql.Context, buffer, row sql.Row) error {
	rows := buffer[0].([]sql.Row)
	buffer[0] = append(rows, append(row, nil, r.pos))
	r.pos++
	return nil
}

// Finish implements sql.WindowAggregation
func (r *Rank) Finish(ctx *sql.Context, buffer sql.Row) error {
	rows := buffer[0].([]sql.Row)
	if len(rows) == 0 {
		return nil
	}

	if err := sortBuffered(ctx, r.window, rows); err != nil {
		return err
	}

	var partitionBy []sql.Expression
	var orderByExprs []sql.Expression
	if r.window != nil {
		partitionBy = r.window.PartitionBy
		orderByExprs = r.window.OrderBy.ToExpressions()
	}

	rankIdx := len(rows[0]) - 2
	var last sql.Row
	var rank int64
	var partitionCnt int64
	for _, row := range rows {
		isNew, err := isNewPartition(ctx, partitionBy, last, row)
		if err != nil {
			return err
		}
		if isNew {
			partitionCnt = 1
			rank = 1
		} else {
			// peers keep the rank of the first of their group
			partitionCnt++
			newValue, err := isNewOrderValue(ctx, orderByExprs, last, row)
			if err != nil {
				return err
			}
			if newValue {
				rank = partitionCnt
			}
		}

		row[rankIdx] = rank

		last = row
	}

	restoreOriginalOrder(rows)
	return nil
}

// EvalRow implements sql.WindowAggregation
func (r *Rank) EvalRow(i int, buffer sql.Row) (interface{}, error) {
	rows := buffer[0].([]sql.Row)
	return rows[i][len(rows[i])-2], nil
}

// DenseRank ranks the rows of each partition in the window's order like
// Rank, except that the rank after a peer group is one more than the
// group's rank, so a partition ranked 1, 1 continues at 2.
type DenseRank struct {
	window *sql.Window
	pos    int
}

var _ sql.FunctionExpression = (*DenseRank)(nil)
var _ sql.WindowAggregation = (*DenseRank)(nil)

func NewDenseRank() *DenseRank {
	return &DenseRank{}
}

// Window implements sql.WindowAggregation
func (d *DenseRank) Window() *sql.Window {
	return d.window
}

// Resolved implements sql.Expression
func (d *DenseRank) Resolved() bool {
	return windowResolved(d.window)
}

func (d *DenseRank) NewBuffer() sql.Row {
	return sql.NewRow(make([]sql.Row, 0))
}

func (d *DenseRank) String() string {
	sb := strings.Builder{}
	sb.WriteString("dense_rank()")
	if d.window != nil {
		sb.WriteString(" ")
		sb.WriteString(d.window.String())
	}
	return sb.String()
}

func (d *DenseRank) DebugString() string {
	sb := strings.Builder{}
	sb.WriteString("dense_rank()")
	if d.window != nil {
		sb.WriteString(" ")
		sb.WriteString(sql.DebugString(d.window))
	}
	return sb.String()
}

// FunctionName implements sql.FunctionExpression
func (d *DenseRank) FunctionName() string {
	return "DENSE_RANK"
}

// Type implements sql.Expression
func (d *DenseRank) Type() sql.Type {
	return sql.Int64
}

// IsNullable implements sql.Expression
func (d *DenseRank) IsNullable() bool {
	return false
}

// Eval implements sql.Expression
func (d *DenseRank) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return nil, ErrEvalUnsupportedOnWindow.New("DENSE_RANK")
}

// Children implements sql.Expression
func (d *DenseRank) Children() []sql.Expression {
	return d.window.ToExpressions()
}

// WithChildren implements sql.Expression
func (d *DenseRank) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	window, err := d.window.FromExpressions(children)
	if err != nil {
		return nil, err
	}

	return d.WithWindow(window)
}

// WithWindow implements sql.WindowAggregation
func (d *DenseRank) WithWindow(window *sql.Window) (sql.WindowAggregation, error) {
	nd := *d
	nd.window = window
	return &nd, nil
}

// Add implements sql.WindowAggregation
func (d *DenseRank) Add(ctx *sql.Context, buffer, row sql.Row) error {
	rows := buffer[0].([]sql.Row)
	buffer[0] = append(rows, append(row, nil, d.pos))
	d.pos++
	return nil
}

// Finish implements sql.WindowAggregation
func (d *DenseRank) Finish(ctx *sql.Context, buffer sql.Row) error {
	rows := buffer[0].([]sql.Row)
	if len(rows) == 0 {
		return nil
	}

	if err := sortBuffered(ctx, d.window, rows); err != nil {
		return err
	}

	var partitionBy []sql.Expression
	var orderByExprs []sql.Expression
	if d.window != nil {
		partitionBy = d.window.PartitionBy
		orderByExprs = d.window.OrderBy.ToExpressions()
	}

	rankIdx := len(rows[0]) - 2
	var last sql.Row
	var rank int64
	for _, row := range rows {
		isNew, err := isNewPartition(ctx, partitionBy, last, row)
		if err != nil {
			return err
		}
		if isNew {
			rank = 1
		} else {
			newValue, err := isNewOrderValue(ctx, orderByExprs, last, row)
			if err != nil {
				return err
			}
			if newValue {
				rank++
			}
		}

		row[rankIdx] = rank

		last = row
	}

	restoreOriginalOrder(rows)
	return nil
}

// EvalRow implements sql.WindowAggregation
func (d *DenseRank) EvalRow(i int, buffer sql.Row) (interface{}, error) {
	rows := buffer[0].([]sql.Row)
	return rows[i][len(rows[i])-2], nil
}
