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
	"fmt"
)

// Resolvable is the interface implemented by all nodes that can be resolved
// or not.
type Resolvable interface {
	// Resolved returns whether the node is resolved.
	Resolved() bool
}

// Nameable is something that has a name.
type Nameable interface {
	// Name returns the name.
	Name() string
}

// Tableable is something that belongs to a table.
type Tableable interface {
	// Table returns the table name.
	Table() string
}

// Expression is a combination of one or more SQL expressions.
type Expression interface {
	Resolvable
	fmt.Stringer
	// Type returns the expression type.
	Type() Type
	// IsNullable returns whether the expression can be null.
	IsNullable() bool
	// Eval evaluates the given row and returns a result.
	Eval(ctx *Context, row Row) (interface{}, error)
	// Children returns the children expressions of this expression.
	Children() []Expression
	// WithChildren returns a copy of the expression with children replaced.
	// It will return an error if the number of children is different than
	// the current number of children. They must be given in the same order
	// as they are returned by Children.
	WithChildren(children ...Expression) (Expression, error)
}

// NonDeterministicExpression is an expression that can vary between
// evaluations of the same row, so its results must never be cached.
type NonDeterministicExpression interface {
	Expression
	// IsNonDeterministic returns whether this expression returns a
	// non-deterministic result.
	IsNonDeterministic() bool
}

// FunctionExpression is an Expression that represents a function.
type FunctionExpression interface {
	Expression
	// FunctionName returns the name of this function.
	FunctionName() string
}

// Aggregation implements an aggregation expression, where an aggregation
// buffer is created for each grouping (NewBuffer) and rows in the grouping
// are fed to the buffer (Update). Multiple groupings can be in flight at
// the same time, so any stateful computation must live in the buffer, not
// in the expression itself.
type Aggregation interface {
	Expression
	// NewBuffer creates a new aggregation buffer for this aggregation.
	NewBuffer() (AggregationBuffer, error)
}

// AggregationBuffer holds the state of an aggregation for a single grouping.
type AggregationBuffer interface {
	Disposable
	// Eval the given buffer.
	Eval(ctx *Context) (interface{}, error)
	// Update the given buffer with the given row.
	Update(ctx *Context, row Row) error
}

// WindowAggregation implements a window aggregation expression. Rows of the
// input are fed to a buffer (Add), results for every buffered row are
// computed once all rows have been seen (Finish), and then read back out in
// the original input order (EvalRow).
type WindowAggregation interface {
	Expression
	// Window returns this expression's window definition.
	Window() *Window
	// WithWindow returns a version of this window aggregation with the
	// window given.
	WithWindow(window *Window) (WindowAggregation, error)
	// NewBuffer creates a new buffer to hold this aggregation's rows.
	NewBuffer() Row
	// Add adds the given row to the buffer.
	Add(ctx *Context, buffer, row Row) error
	// Finish computes the aggregation result for every buffered row. It is
	// called exactly once, after the last Add.
	Finish(ctx *Context, buffer Row) error
	// EvalRow returns the value of the aggregation for the row with the
	// given index in the original input order.
	EvalRow(i int, buffer Row) (interface{}, error)
}

// Node is a node in the execution plan tree.
type Node interface {
	Resolvable
	fmt.Stringer
	// Schema of the node.
	Schema() Schema
	// Children nodes.
	Children() []Node
	// RowIter produces a row iterator from this node. The current row being
	// evaluated is provided, for expressions that take the outer scope into
	// account, as in correlated subqueries. For a top level node it is nil.
	RowIter(ctx *Context, row Row) (RowIter, error)
	// WithChildren returns a copy of the node with children replaced.
	// It will return an error if the number of children is different than
	// the current number of children. They must be given in the same order
	// as they are returned by Children.
	WithChildren(children ...Node) (Node, error)
}

// OpaqueNode is a node that doesn't allow transformations to its children
// and acts as a black box.
type OpaqueNode interface {
	Node
	// Opaque reports whether the node is opaque or not.
	Opaque() bool
}

// TransformNodeFunc is a function that given a node will return that node
// as is or transformed along with an error, if any.
type TransformNodeFunc func(Node) (Node, error)

// TransformExprFunc is a function that given an expression will return that
// expression as is or transformed along with an error, if any.
type TransformExprFunc func(Expression) (Expression, error)

// Expressioner is a node that contains expressions.
type Expressioner interface {
	// Expressions returns the list of expressions contained by the node.
	Expressions() []Expression
	// WithExpressions returns a copy of the node with expressions replaced.
	// It will return an error if the number of expressions is different
	// than the current number of expressions. They must be given in the
	// same order as they are returned by Expressions.
	WithExpressions(expressions ...Expression) (Node, error)
}

// Partition represents a partition from a table.
type Partition interface {
	// Key returns the key of this partition.
	Key() []byte
}

// PartitionIter is an iterator over a table's partitions.
type PartitionIter interface {
	// Next returns the next partition, or io.EOF when there are no more.
	Next() (Partition, error)
	// Close releases the resources held by the iterator.
	Close(ctx *Context) error
}

// Table represents a relation with a schema. Rows are produced per
// partition; implementations with no sensible partitioning scheme return a
// single partition.
type Table interface {
	Nameable
	fmt.Stringer
	// Schema returns the table's schema.
	Schema() Schema
	// Partitions returns the table's partitions in an iterator.
	Partitions(ctx *Context) (PartitionIter, error)
	// PartitionRows returns the rows in the given partition, which was
	// returned by Partitions.
	PartitionRows(ctx *Context, partition Partition) (RowIter, error)
}

// Database represents a collection of tables.
type Database interface {
	Nameable
	// Tables returns the information of all tables.
	Tables() map[string]Table
}

// TableCreator is a database that can create new tables.
type TableCreator interface {
	Database
	// CreateTable creates a new table in the database with the given name
	// and schema.
	CreateTable(ctx *Context, name string, schema Schema) error
}

// EvaluateCondition evaluates a condition, an expression whose value will be
// nil or a coerced boolean.
func EvaluateCondition(ctx *Context, cond Expression, row Row) (interface{}, error) {
	v, err := cond.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}

	return Boolean.Convert(v)
}

// IsTrue coerces an EvaluateCondition result to a boolean, with nil treated
// as not true.
func IsTrue(val interface{}) bool {
	res, ok := val.(bool)
	return ok && res
}

// IsFalse coerces an EvaluateCondition result to a boolean, with nil treated
// as not false.
func IsFalse(val interface{}) bool {
	res, ok := val.(bool)
	return ok && !res
}

// DebugStringer is implemented by nodes and expressions that can describe
// themselves with more detail than fmt.Stringer provides, for analyzer
// debug output.
type DebugStringer interface {
	// DebugString prints a debug string of the node in question.
	DebugString() string
}

// DebugString returns a debug string for the Node or Expression given.
func DebugString(nodeOrExpression interface{}) string {
	if ds, ok := nodeOrExpression.(DebugStringer); ok {
		return ds.DebugString()
	}
	if s, ok := nodeOrExpression.(fmt.Stringer); ok {
		return s.String()
	}
	panic(fmt.Sprintf("expected sql.DebugStringer or fmt.Stringer for %T", nodeOrExpression))
}
