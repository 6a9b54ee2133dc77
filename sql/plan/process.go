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

// QueryProcess represents a running query process node. It will use a
// callback to notify when it has finished running, either because the last
// row was read or because the iterator was closed early.
type QueryProcess struct {
	UnaryNode
	Notify NotifyFunc
}

// NotifyFunc is a function to notify about some event.
type NotifyFunc func()

var _ sql.Node = (*QueryProcess)(nil)

// NewQueryProcess creates a new QueryProcess node.
func NewQueryProcess(node sql.Node, notify NotifyFunc) *QueryProcess {
	return &QueryProcess{UnaryNode{Child: node}, notify}
}

// RowIter implements the sql.Node interface.
func (p *QueryProcess) RowIter(ctx *sql.Context, row sql.Row) (sql.RowIter, error) {
	iter, err := p.Child.RowIter(ctx, row)
	if err != nil {
		return nil, err
	}

	return &trackedRowIter{iter: iter, onDone: p.Notify}, nil
}

// WithChildren implements the Node interface.
func (p *QueryProcess) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), 1)
	}

	return NewQueryProcess(children[0], p.Notify), nil
}

func (p *QueryProcess) String() string { return p.Child.String() }

func (p *QueryProcess) DebugString() string {
	tp := sql.NewTreePrinter()
	_ = tp.WriteNode("QueryProcess")
	_ = tp.WriteChildren(sql.DebugString(p.Child))
	return tp.String()
}

// TrackProgress is a plan stage wrapper that reports every row the stage
// produces to the process list under the stage's name. The engine inserts
// one for each operator of the plan, and reads the counts back into the
// execution report when the query finishes.
type TrackProgress struct {
	UnaryNode
	Stage string
}

var _ sql.Node = (*TrackProgress)(nil)

// NewTrackProgress creates a new TrackProgress node for the stage named.
func NewTrackProgress(stage string, child sql.Node) *TrackProgress {
	return &TrackProgress{UnaryNode{Child: child}, stage}
}

// RowIter implements the sql.Node interface.
func (t *TrackProgress) RowIter(ctx *sql.Context, row sql.Row) (sql.RowIter, error) {
	iter, err := t.Child.RowIter(ctx, row)
	if err != nil {
		return nil, err
	}

	ctx.ProcessList.AddStageProgress(ctx.Pid(), t.Stage, 0)

	return &trackedRowIter{
		iter: iter,
		onRow: func() {
			ctx.ProcessList.AddStageProgress(ctx.Pid(), t.Stage, 1)
		},
	}, nil
}

// WithChildren implements the Node interface.
func (t *TrackProgress) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(t, len(children), 1)
	}

	return NewTrackProgress(t.Stage, children[0]), nil
}

func (t *TrackProgress) String() string { return t.Child.String() }

func (t *TrackProgress) DebugString() string {
	tp := sql.NewTreePrinter()
	_ = tp.WriteNode("TrackProgress(%s)", t.Stage)
	_ = tp.WriteChildren(sql.DebugString(t.Child))
	return tp.String()
}

type trackedRowIter struct {
	iter   sql.RowIter
	onRow  NotifyFunc
	onDone NotifyFunc
}

func (i *trackedRowIter) done() {
	if i.onDone != nil {
		i.onDone()
		i.onDone = nil
	}
}

func (i *trackedRowIter) Next() (sql.Row, error) {
	row, err := i.iter.Next()
	if err != nil {
		if err == io.EOF {
			i.done()
		}
		return nil, err
	}

	if i.onRow != nil {
		i.onRow()
	}

	return row, nil
}

func (i *trackedRowIter) Close(ctx *sql.Context) error {
	i.done()
	return i.iter.Close(ctx)
}
