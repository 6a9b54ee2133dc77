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
	"os"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/pbnjay/memory"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/go-sql-engine/sql"
)

const (
	inMemoryJoinKey           = "INMEMORY_JOINS"
	maxMemoryJoinKey          = "MAX_MEMORY_JOIN"
	inMemoryJoinSessionVar    = "inmemory_joins"
	memoryThresholdSessionVar = "max_memory_joins"
)

var (
	useInMemoryJoins = shouldUseMemoryJoinsByEnv()
	// One fifth of the total physical memory available on the OS, ignoring
	// the memory used by other processes.
	defaultMemoryThreshold = memory.TotalMemory() / 5
	// Maximum amount of memory the engine can be using before all joins are
	// done in multipass mode.
	maxMemoryJoin = loadMemoryThreshold()
)

func shouldUseMemoryJoinsByEnv() bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(inMemoryJoinKey)))
	return v == "on" || v == "1"
}

func loadMemoryThreshold() uint64 {
	v, ok := os.LookupEnv(maxMemoryJoinKey)
	if !ok {
		return defaultMemoryThreshold
	}

	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		logrus.Warnf("invalid value %q given to %s environment variable", v, maxMemoryJoinKey)
		return defaultMemoryThreshold
	}

	return n
}

// JoinType is the category of join a join node performs.
type JoinType byte

const (
	// JoinTypeInner returns only the combined rows whose condition is true.
	JoinTypeInner JoinType = iota
	// JoinTypeLeft preserves unmatched rows from the left side with the
	// right columns null-extended.
	JoinTypeLeft
	// JoinTypeRight preserves unmatched rows from the right side with the
	// left columns null-extended.
	JoinTypeRight
	// JoinTypeFullOuter preserves unmatched rows from both sides.
	JoinTypeFullOuter
)

func (t JoinType) String() string {
	switch t {
	case JoinTypeInner:
		return "InnerJoin"
	case JoinTypeLeft:
		return "LeftJoin"
	case JoinTypeRight:
		return "RightJoin"
	case JoinTypeFullOuter:
		return "FullOuterJoin"
	default:
		return "INVALID"
	}
}

// JoinNode contains all the common data fields and implements the common
// sql.Node getters for all join types.
type JoinNode struct {
	BinaryNode
	Cond sql.Expression
}

// Comparable joins, those with a condition, implement this interface.
type joinNode interface {
	sql.Node
	JoinType() JoinType
	JoinCond() sql.Expression
}

// JoinCond returns the join condition.
func (j *JoinNode) JoinCond() sql.Expression {
	return j.Cond
}

// Schema implements the Node interface.
func (j *JoinNode) Schema() sql.Schema {
	return append(j.left.Schema(), j.right.Schema()...)
}

func makeNullable(cols []*sql.Column) []*sql.Column {
	var rs = make([]*sql.Column, len(cols))
	for i, col := range cols {
		c := *col
		c.Nullable = true
		rs[i] = &c
	}
	return rs
}

// Resolved implements the Resolvable interface.
func (j *JoinNode) Resolved() bool {
	return j.left.Resolved() && j.right.Resolved() && j.Cond.Resolved()
}

// InnerJoin is a join that returns the combination of rows from both sides
// for which the condition evaluates to true.
type InnerJoin struct {
	JoinNode
}

var _ sql.Node = (*InnerJoin)(nil)
var _ sql.Expressioner = (*InnerJoin)(nil)

// NewInnerJoin creates a new inner join node from two tables.
func NewInnerJoin(left, right sql.Node, cond sql.Expression) *InnerJoin {
	return &InnerJoin{
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
func (j *InnerJoin) JoinType() JoinType {
	return JoinTypeInner
}

// RowIter implements the Node interface.
func (j *InnerJoin) RowIter(ctx *sql.Context, row sql.Row) (sql.RowIter, error) {
	return joinRowIter(ctx, j, row)
}

// WithChildren implements the Node interface.
func (j *InnerJoin) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(j, len(children), 2)
	}

	return NewInnerJoin(children[0], children[1], j.Cond), nil
}

// Expressions implements the Expressioner interface.
func (j *InnerJoin) Expressions() []sql.Expression {
	return []sql.Expression{j.Cond}
}

// WithExpressions implements the Expressioner interface.
func (j *InnerJoin) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(j, len(exprs), 1)
	}

	return NewInnerJoin(j.left, j.right, exprs[0]), nil
}

func (j *InnerJoin) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("InnerJoin(%s)", j.Cond)
	_ = pr.WriteChildren(j.left.String(), j.right.String())
	return pr.String()
}

func (j *InnerJoin) DebugString() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("InnerJoin(%s)", sql.DebugString(j.Cond))
	_ = pr.WriteChildren(sql.DebugString(j.left), sql.DebugString(j.right))
	return pr.String()
}

// LeftJoin is a join that returns every row from the left side, combined
// with matching rows from the right side, or nulls when there is no match.
type LeftJoin struct {
	JoinNode
}

var _ sql.Node = (*LeftJoin)(nil)
var _ sql.Expressioner = (*LeftJoin)(nil)

// NewLeftJoin creates a new left join node from two tables.
func NewLeftJoin(left, right sql.Node, cond sql.Expression) *LeftJoin {
	return &LeftJoin{
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
func (j *LeftJoin) JoinType() JoinType {
	return JoinTypeLeft
}

// Schema implements the Node interface. The right side is null-extended
// when it has no match, so its columns are nullable.
func (j *LeftJoin) Schema() sql.Schema {
	return append(j.left.Schema(), makeNullable(j.right.Schema())...)
}

// RowIter implements the Node interface.
func (j *LeftJoin) RowIter(ctx *sql.Context, row sql.Row) (sql.RowIter, error) {
	return joinRowIter(ctx, j, row)
}

// WithChildren implements the Node interface.
func (j *LeftJoin) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(j, len(children), 2)
	}

	return NewLeftJoin(children[0], children[1], j.Cond), nil
}

// Expressions implements the Expressioner interface.
func (j *LeftJoin) Expressions() []sql.Expression {
	return []sql.Expression{j.Cond}
}

// WithExpressions implements the Expressioner interface.
func (j *LeftJoin) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(j, len(exprs), 1)
	}

	return NewLeftJoin(j.left, j.right, exprs[0]), nil
}

func (j *LeftJoin) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("LeftJoin(%s)", j.Cond)
	_ = pr.WriteChildren(j.left.String(), j.right.String())
	return pr.String()
}

func (j *LeftJoin) DebugString() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("LeftJoin(%s)", sql.DebugString(j.Cond))
	_ = pr.WriteChildren(sql.DebugString(j.left), sql.DebugString(j.right))
	return pr.String()
}

// RightJoin is a join that returns every row from the right side, combined
// with matching rows from the left side, or nulls when there is no match.
type RightJoin struct {
	JoinNode
}

var _ sql.Node = (*RightJoin)(nil)
var _ sql.Expressioner = (*RightJoin)(nil)

// NewRightJoin creates a new right join node from two tables.
func NewRightJoin(left, right sql.Node, cond sql.Expression) *RightJoin {
	return &RightJoin{
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
func (j *RightJoin) JoinType() JoinType {
	return JoinTypeRight
}

// Schema implements the Node interface. The left side is null-extended
// when it has no match, so its columns are nullable.
func (j *RightJoin) Schema() sql.Schema {
	return append(makeNullable(j.left.Schema()), j.right.Schema()...)
}

// RowIter implements the Node interface.
func (j *RightJoin) RowIter(ctx *sql.Context, row sql.Row) (sql.RowIter, error) {
	return joinRowIter(ctx, j, row)
}

// WithChildren implements the Node interface.
func (j *RightJoin) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(j, len(children), 2)
	}

	return NewRightJoin(children[0], children[1], j.Cond), nil
}

// Expressions implements the Expressioner interface.
func (j *RightJoin) Expressions() []sql.Expression {
	return []sql.Expression{j.Cond}
}

// WithExpressions implements the Expressioner interface.
func (j *RightJoin) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(j, len(exprs), 1)
	}

	return NewRightJoin(j.left, j.right, exprs[0]), nil
}

func (j *RightJoin) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("RightJoin(%s)", j.Cond)
	_ = pr.WriteChildren(j.left.String(), j.right.String())
	return pr.String()
}

func (j *RightJoin) DebugString() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("RightJoin(%s)", sql.DebugString(j.Cond))
	_ = pr.WriteChildren(sql.DebugString(j.left), sql.DebugString(j.right))
	return pr.String()
}

func joinRowIter(ctx *sql.Context, j joinNode, row sql.Row) (sql.RowIter, error) {
	typ := j.JoinType()
	l, r := joinSides(j)

	var left, right string
	if leftTable, ok := l.(sql.Nameable); ok {
		left = leftTable.Name()
	} else {
		left = reflect.TypeOf(l).String()
	}

	if rightTable, ok := r.(sql.Nameable); ok {
		right = rightTable.Name()
	} else {
		right = reflect.TypeOf(r).String()
	}

	span, ctx := ctx.Span("plan."+typ.String(), opentracing.Tags{
		"left":  left,
		"right": right,
	})

	var inMemorySession bool
	_, val := ctx.Get(inMemoryJoinSessionVar)
	if val != nil {
		inMemorySession = true
	}

	var mode = unknownMode
	if useInMemoryJoins || inMemorySession {
		mode = memoryMode
	}

	// RightJoin is implemented by iterating the right side as the primary
	// and rearranging each combined row back into left-then-right order.
	primary, secondary := l, r
	if typ == JoinTypeRight {
		primary, secondary = r, l
	}

	primaryIter, err := primary.RowIter(ctx, row)
	if err != nil {
		span.Finish()
		return nil, err
	}

	return sql.NewSpanIter(span, &joinIter{
		typ:               typ,
		primary:           primaryIter,
		secondaryProvider: secondary,
		secondarySchemaLn: len(secondary.Schema()),
		ctx:               ctx,
		cond:              j.JoinCond(),
		mode:              mode,
	}), nil
}

func joinSides(j joinNode) (sql.Node, sql.Node) {
	switch n := j.(type) {
	case *InnerJoin:
		return n.left, n.right
	case *LeftJoin:
		return n.left, n.right
	case *RightJoin:
		return n.left, n.right
	case *FullOuterJoin:
		return n.left, n.right
	default:
		return nil, nil
	}
}

// joinMode defines the mode in which a join will be performed.
type joinMode byte

const (
	// unknownMode is the default mode. It starts iterating without knowing
	// how the join will be computed. If the secondary side is iterated fully
	// once and fits in memory, the iterator switches to memory mode.
	// Otherwise it switches to multipass mode.
	unknownMode joinMode = iota
	// memoryMode computes the join in memory, iterating each side exactly
	// once.
	memoryMode
	// multipassMode iterates the primary side once and the secondary side
	// once per primary row.
	multipassMode
)

type joinIter struct {
	typ               JoinType
	primary           sql.RowIter
	secondaryProvider rowIterProvider
	secondary         sql.RowIter
	secondarySchemaLn int
	ctx               *sql.Context
	cond              sql.Expression

	primaryRow sql.Row
	foundMatch bool

	mode          joinMode
	secondaryRows []sql.Row
	pos           int
}

func (i *joinIter) loadPrimary() error {
	if i.primaryRow == nil {
		r, err := i.primary.Next()
		if err != nil {
			return err
		}

		i.primaryRow = r
		i.foundMatch = false
	}

	return nil
}

func (i *joinIter) loadSecondaryInMemory() error {
	iter, err := i.secondaryProvider.RowIter(i.ctx, i.primaryRow)
	if err != nil {
		return err
	}

	i.secondaryRows, err = sql.RowIterToRows(i.ctx, iter)
	if err != nil {
		return err
	}

	if len(i.secondaryRows) == 0 {
		return io.EOF
	}

	return nil
}

func (i *joinIter) fitsInMemory() bool {
	var maxMemory uint64
	_, v := i.ctx.Get(memoryThresholdSessionVar)
	if n, ok := v.(int64); ok {
		maxMemory = uint64(n)
	} else {
		maxMemory = maxMemoryJoin
	}

	if maxMemory <= 0 {
		return true
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return (ms.HeapInuse + ms.StackInuse) < maxMemory
}

func (i *joinIter) loadSecondary() (row sql.Row, err error) {
	if i.mode == memoryMode {
		if len(i.secondaryRows) == 0 {
			if err = i.loadSecondaryInMemory(); err != nil {
				if err == io.EOF {
					i.primaryRow = nil
					i.pos = 0
				}
				return nil, err
			}
		}

		if i.pos >= len(i.secondaryRows) {
			i.primaryRow = nil
			i.pos = 0
			return nil, io.EOF
		}

		row := i.secondaryRows[i.pos]
		i.pos++
		return row, nil
	}

	if i.secondary == nil {
		var iter sql.RowIter
		iter, err = i.secondaryProvider.RowIter(i.ctx, i.primaryRow)
		if err != nil {
			return nil, err
		}

		i.secondary = iter
	}

	rightRow, err := i.secondary.Next()
	if err != nil {
		if err == io.EOF {
			err = i.secondary.Close(i.ctx)
			i.secondary = nil
			if err != nil {
				return nil, err
			}
			i.primaryRow = nil

			// If we made it this far with the mode still unknown, the
			// secondary side fits in memory.
			if i.mode == unknownMode {
				i.mode = memoryMode
			}

			return nil, io.EOF
		}
		return nil, err
	}

	if i.mode == unknownMode {
		if !i.fitsInMemory() {
			i.secondaryRows = nil
			i.mode = multipassMode
		} else {
			i.secondaryRows = append(i.secondaryRows, rightRow)
		}
	}

	return rightRow, nil
}

func (i *joinIter) Next() (sql.Row, error) {
	for {
		if err := i.loadPrimary(); err != nil {
			return nil, err
		}

		primary := i.primaryRow
		secondary, err := i.loadSecondary()
		if err != nil {
			if err == io.EOF {
				if !i.foundMatch && (i.typ == JoinTypeLeft || i.typ == JoinTypeRight) {
					return i.buildRow(primary, nil), nil
				}
				continue
			}
			return nil, err
		}

		row := i.buildRow(primary, secondary)
		v, err := sql.EvaluateCondition(i.ctx, i.cond, row)
		if err != nil {
			return nil, err
		}

		if !sql.IsTrue(v) {
			continue
		}

		i.foundMatch = true
		return row, nil
	}
}

// buildRow concatenates the primary and secondary rows in left-then-right
// order. A nil secondary row produces the null-extended row of an outer
// join.
func (i *joinIter) buildRow(primary, secondary sql.Row) sql.Row {
	secondaryLen := i.secondarySchemaLn
	if secondary != nil {
		secondaryLen = len(secondary)
	}

	row := make(sql.Row, len(primary)+secondaryLen)

	if i.typ == JoinTypeRight {
		copy(row, secondary)
		copy(row[secondaryLen:], primary)
	} else {
		copy(row, primary)
		copy(row[len(primary):], secondary)
	}

	return row
}

func (i *joinIter) Close(ctx *sql.Context) (err error) {
	i.Dispose()

	if i.primary != nil {
		if err = i.primary.Close(ctx); err != nil {
			if i.secondary != nil {
				_ = i.secondary.Close(ctx)
			}
			return err
		}
	}

	if i.secondary != nil {
		err = i.secondary.Close(ctx)
		i.secondary = nil
	}

	return err
}

func (i *joinIter) Dispose() {
	i.secondaryRows = nil
}
