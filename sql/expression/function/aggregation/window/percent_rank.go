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

// PercentRank computes the relative rank of each row within its partition,
// (rank - 1) / (partition rows - 1). The first rank of every partition is 0
// and the last distinct rank is 1. A single-row partition is 0.
type PercentRank struct {
	window *sql.Window
	pos    int
}

var _ sql.FunctionExpression = (*PercentRank)(nil)
var _ sql.WindowAggregation = (*PercentRank)(nil)

func NewPercentRank() *PercentRank {
	return &PercentRank{}
}

// Window implements sql.WindowAggregation
func (p *PercentRank) Window() *sql.Window {
	return p.window
}

// Resolved implements sql.Expression
func (p *PercentRank) Resolved() bool {
	return windowResolved(p.window)
}

func (p *PercentRank) NewBuffer() sql.Row {
	return sql.NewRow(make([]sql.Row, 0))
}

func (p *PercentRank) String() string {
	sb := strings.Builder{}
	sb.WriteString("percent_rank()")
	if p.window != nil {
		sb.WriteString(" ")
		sb.WriteString(p.window.String())
	}
	return sb.String()
}

func (p *PercentRank) DebugString() string {
	sb := strings.Builder{}
	sb.WriteString("percent_rank()")
	if p.window != nil {
		sb.WriteString(" ")
		sb.WriteString(sql.DebugString(p.window))
	}
	return sb.String()
}

// FunctionName implements sql.FunctionExpression
func (p *PercentRank) FunctionName() string {
	return "PERCENT_RANK"
}

// Type implements sql.Expression
func (p *PercentRank) Type() sql.Type {
	return sql.Float64
}

// IsNullable implements sql.Expression
func (p *PercentRank) IsNullable() bool {
	return false
}

// Eval implements sql.Expression
func (p *PercentRank) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return nil, ErrEvalUnsupportedOnWindow.New("PERCENT_RANK")
}

// Children implements sql.Expression
func (p *PercentRank) Children() []sql.Expression {
	return p.window.ToExpressions()
}

// WithChildren implements sql.Expression
func (p *PercentRank) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	window, err := p.window.FromExpressions(children)
	if err != nil {
		return nil, err
	}

	return p.WithWindow(window)
}

// WithWindow implements sql.WindowAggregation
func (p *PercentRank) WithWindow(window *sql.Window) (sql.WindowAggregation, error) {
	np := *p
	np.window = window
	return &np, nil
}

// Add implements sql.WindowAggregation
func (p *PercentRank) Add(ctx *sql.Context, buffer, row sql.Row) error {
	rows := buffer[0].([]sql.Row)
	// partition count, rank, then the original position for the final re-sort
	buffer[0] = append(rows, append(row, nil, nil, p.pos))
	p.pos++
	return nil
}

// Finish implements sql.WindowAggregation
func (p *PercentRank) Finish(ctx *sql.Context, buffer sql.Row) error {
	rows := buffer[0].([]sql.Row)
	if len(rows) == 0 {
		return nil
	}

	if err := sortBuffered(ctx, p.window, rows); err != nil {
		return err
	}

	var partitionBy []sql.Expression
	var orderByExprs []sql.Expression
	if p.window != nil {
		partitionBy = p.window.PartitionBy
		orderByExprs = p.window.OrderBy.ToExpressions()
	}

	partitionCountIdx := len(rows[0]) - 3
	rankIdx := len(rows[0]) - 2
	var last sql.Row
	var rank int64
	var partitionCnt int64
	partitionStart := 0
	for i, row := range rows {
		isNew, err := isNewPartition(ctx, partitionBy, last, row)
		if err != nil {
			return err
		}
		if isNew {
			for j := partitionStart; j < i; j++ {
				rows[j][partitionCountIdx] = int64(i - partitionStart)
			}
			partitionStart = i
			partitionCnt = 1
			rank = 1
		} else {
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
	for j := partitionStart; j < len(rows); j++ {
		rows[j][partitionCountIdx] = int64(len(rows) - partitionStart)
	}

	restoreOriginalOrder(rows)
	return nil
}

// EvalRow implements sql.WindowAggregation
func (p *PercentRank) EvalRow(i int, buffer sql.Row) (interface{}, error) {
	rows := buffer[0].([]sql.Row)

	partitionCount := rows[i][len(rows[i])-3].(int64)
	if partitionCount <= 1 {
		return float64(0), nil
	}

	rank := rows[i][len(rows[i])-2].(int64)
	return float64(rank-1) / float64(partitionCount-1), nil
}
