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
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-sql-engine/sql"
)

// ErrNoPartitionable is returned when no Partitionable node is found
// in the Exchange tree.
var ErrNoPartitionable = errors.NewKind("no partitionable node found in exchange tree")

// Exchange is a node that can parallelize the underlying tree iterating
// partitions concurrently.
type Exchange struct {
	UnaryNode
	Parallelism int
}

var _ sql.Node = (*Exchange)(nil)

// NewExchange creates a new Exchange node.
func NewExchange(
	parallelism int,
	child sql.Node,
) *Exchange {
	return &Exchange{
		UnaryNode:   UnaryNode{Child: child},
		Parallelism: parallelism,
	}
}

// RowIter implements the sql.Node interface.
func (e *Exchange) RowIter(ctx *sql.Context, row sql.Row) (sql.RowIter, error) {
	var t sql.Table
	Inspect(e.Child, func(n sql.Node) bool {
		if table, ok := n.(*ResolvedTable); ok {
			t = table.Table
			return false
		}
		return true
	})
	if t == nil {
		return nil, ErrNoPartitionable.New()
	}

	partitions, err := t.Partitions(ctx)
	if err != nil {
		return nil, sql.WrapCollaboratorError(err)
	}

	return newExchangeRowIter(ctx, e.Parallelism, partitions, e.Child, row), nil
}

func (e *Exchange) String() string {
	p := sql.NewTreePrinter()
	_ = p.WriteNode("Exchange(parallelism=%d)", e.Parallelism)
	_ = p.WriteChildren(e.Child.String())
	return p.String()
}

func (e *Exchange) DebugString() string {
	p := sql.NewTreePrinter()
	_ = p.WriteNode("Exchange(parallelism=%d)", e.Parallelism)
	_ = p.WriteChildren(sql.DebugString(e.Child))
	return p.String()
}

// WithChildren implements the Node interface.
func (e *Exchange) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(e, len(children), 1)
	}

	return NewExchange(e.Parallelism, children[0]), nil
}

// ExchangePartition is the leaf each exchange worker runs the child plan
// over: the original table pinned to a single partition.
type ExchangePartition struct {
	sql.Partition
	Table sql.Table
}

var _ sql.Node = (*ExchangePartition)(nil)

func (p *ExchangePartition) String() string {
	return fmt.Sprintf("Partition(%s)", string(p.Key()))
}

func (ExchangePartition) Children() []sql.Node { return nil }

func (ExchangePartition) Resolved() bool { return true }

func (p *ExchangePartition) Schema() sql.Schema {
	return p.Table.Schema()
}

// RowIter implements the sql.Node interface.
func (p *ExchangePartition) RowIter(ctx *sql.Context, _ sql.Row) (sql.RowIter, error) {
	iter, err := p.Table.PartitionRows(ctx, p.Partition)
	if err != nil {
		return nil, sql.WrapCollaboratorError(err)
	}
	return iter, nil
}

// WithChildren implements the Node interface.
func (p *ExchangePartition) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), 0)
	}

	return p, nil
}

// exchangeRowIter fans the partitions of a table out to a pool of workers,
// each of which runs the child plan over its partition, and fans the
// resulting rows back into a single channel.
type exchangeRowIter struct {
	ctx         *sql.Context
	parallelism int
	partitions  sql.PartitionIter
	tree        sql.Node
	scopeRow    sql.Row

	g    *errgroup.Group
	rows chan sql.Row
	done chan struct{}
	err  error
}

func newExchangeRowIter(
	ctx *sql.Context,
	parallelism int,
	iter sql.PartitionIter,
	tree sql.Node,
	scopeRow sql.Row,
) *exchangeRowIter {
	return &exchangeRowIter{
		ctx:         ctx,
		parallelism: parallelism,
		partitions:  iter,
		tree:        tree,
		scopeRow:    scopeRow,
	}
}

func (it *exchangeRowIter) start() {
	it.rows = make(chan sql.Row, it.parallelism)
	it.done = make(chan struct{})

	partitions := make(chan sql.Partition)
	it.g, _ = errgroup.WithContext(it.ctx)

	it.g.Go(func() error {
		defer close(partitions)
		for {
			p, err := it.partitions.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return sql.WrapCollaboratorError(err)
			}

			select {
			case partitions <- p:
			case <-it.ctx.Done():
				return it.ctx.Err()
			}
		}
	})

	workers := it.parallelism
	if workers < 1 {
		workers = 1
	}

	results := new(errgroup.Group)
	for i := 0; i < workers; i++ {
		results.Go(func() error {
			for p := range partitions {
				if err := it.iterPartition(p); err != nil {
					return err
				}
			}
			return nil
		})
	}

	go func() {
		err := results.Wait()
		if gerr := it.g.Wait(); err == nil {
			err = gerr
		}
		it.err = err
		close(it.rows)
		close(it.done)
	}()
}

func (it *exchangeRowIter) iterPartition(p sql.Partition) error {
	node, err := TransformUp(it.tree, func(n sql.Node) (sql.Node, error) {
		if t, ok := n.(*ResolvedTable); ok {
			return &ExchangePartition{p, t.Table}, nil
		}
		return n, nil
	})
	if err != nil {
		return err
	}

	iter, err := node.RowIter(it.ctx, it.scopeRow)
	if err != nil {
		return err
	}
	defer iter.Close(it.ctx)

	for {
		row, err := iter.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		select {
		case it.rows <- row:
		case <-it.ctx.Done():
			return it.ctx.Err()
		}
	}
}

func (it *exchangeRowIter) Next() (sql.Row, error) {
	if it.rows == nil {
		it.start()
	}

	row, ok := <-it.rows
	if !ok {
		<-it.done
		if it.err != nil {
			return nil, it.err
		}
		return nil, io.EOF
	}

	return row, nil
}

func (it *exchangeRowIter) Close(ctx *sql.Context) error {
	if it.rows != nil {
		// Drain pending rows so the workers can finish.
		go func() {
			for range it.rows {
			}
		}()
		<-it.done
	}

	return it.partitions.Close(ctx)
}
