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

package sqle

import (
	"context"
	"sync/atomic"

	"github.com/dolthub/go-sql-engine/sql"
	"github.com/dolthub/go-sql-engine/sql/analyzer"
	"github.com/dolthub/go-sql-engine/sql/plan"
)

// Engine analyzes and executes query plans against the tables registered in
// its catalog. Plans are built programmatically with the plan and expression
// constructors; table and column references may enter unresolved and are
// bound by the analyzer.
type Engine struct {
	Catalog     *sql.Catalog
	Analyzer    *analyzer.Analyzer
	Config      Config
	ProcessList *ProcessList

	memory *sql.MemoryManager
	pid    uint64
}

// New creates a new Engine with the default configuration.
func New() *Engine {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a new Engine using the given configuration.
func NewWithConfig(cfg Config) *Engine {
	catalog := sql.NewCatalog()

	b := analyzer.NewBuilder(catalog).
		WithParallelism(cfg.Parallelism).
		WithNullOrdering(cfg.SortNullOrdering())
	if cfg.Debug {
		b = b.WithDebug()
	}

	var reporter sql.Reporter
	if cfg.MaxMemory > 0 {
		reporter = sql.NewFixedReporter(cfg.MaxMemory)
	}

	return &Engine{
		Catalog:     catalog,
		Analyzer:    b.Build(),
		Config:      cfg,
		ProcessList: NewProcessList(),
		memory:      sql.NewMemoryManager(reporter),
	}
}

// AddDatabase adds the given database to the catalog.
func (e *Engine) AddDatabase(db sql.Database) {
	e.Catalog.AddDatabase(db)
}

// NewContext returns a context attached to the engine's process list and
// memory manager, carrying the next free process id. Options given here
// override the engine defaults.
func (e *Engine) NewContext(ctx context.Context, opts ...sql.ContextOption) *sql.Context {
	defaults := []sql.ContextOption{
		sql.WithPid(atomic.AddUint64(&e.pid, 1)),
		sql.WithProcessList(e.ProcessList),
		sql.WithMemoryManager(e.memory),
	}
	return sql.NewContext(ctx, append(defaults, opts...)...)
}

// Execute analyzes the plan and returns its schema together with a row
// iterator over the results. The query stays in the process list until the
// iterator is exhausted or closed.
func (e *Engine) Execute(ctx *sql.Context, node sql.Node) (sql.Schema, sql.RowIter, error) {
	ctx, err := e.ProcessList.AddProcess(ctx, node.String())
	if err != nil {
		return nil, nil, err
	}

	analyzed, err := e.Analyzer.Analyze(ctx, node, nil)
	if err != nil {
		e.ProcessList.Done(ctx.Pid())
		return nil, nil, err
	}

	iter, err := analyzed.RowIter(ctx, nil)
	if err != nil {
		e.ProcessList.Done(ctx.Pid())
		return nil, nil, err
	}

	return analyzed.Schema(), iter, nil
}

// Run executes the plan to exhaustion and returns the materialized result
// together with a report of how many rows every plan stage produced.
func (e *Engine) Run(ctx *sql.Context, node sql.Node) (sql.Schema, []sql.Row, *sql.Report, error) {
	report := sql.NewReport(node.String())

	ctx, err := e.ProcessList.AddProcess(ctx, node.String())
	if err != nil {
		return nil, nil, nil, err
	}
	defer e.ProcessList.Done(ctx.Pid())

	analyzed, err := e.Analyzer.Analyze(ctx, node, nil)
	if err != nil {
		return nil, nil, nil, err
	}

	// The process is removed from the list as soon as the last row is read,
	// so the stage counts have to be captured right before that happens.
	var progress map[string]sql.StageProgress
	if qp, ok := analyzed.(*plan.QueryProcess); ok {
		notify := qp.Notify
		analyzed = plan.NewQueryProcess(qp.Child, func() {
			progress = e.stageProgress(ctx.Pid())
			notify()
		})
	}

	iter, err := analyzed.RowIter(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}

	rows, err := sql.RowIterToRows(ctx, iter)
	if err != nil {
		return nil, nil, nil, err
	}

	report.Finish()
	report.Stages = stageStats(analyzed, progress)

	return analyzed.Schema(), rows, report, nil
}

func (e *Engine) stageProgress(pid uint64) map[string]sql.StageProgress {
	for _, p := range e.ProcessList.Processes() {
		if p.Pid == pid {
			return p.Progress
		}
	}
	return nil
}

// stageStats pairs every tracked stage of the plan, in the order the
// operators appear in it, with the rows it reported.
func stageStats(n sql.Node, progress map[string]sql.StageProgress) []sql.StageStats {
	var stages []sql.StageStats
	plan.Inspect(n, func(n sql.Node) bool {
		if tp, ok := n.(*plan.TrackProgress); ok {
			stages = append(stages, sql.StageStats{
				Operator: tp.Stage,
				Rows:     progress[tp.Stage].Rows,
			})
		}
		return true
	})
	return stages
}
