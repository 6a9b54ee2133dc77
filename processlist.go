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
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dolthub/go-sql-engine/sql"
)

// ProcessList is a structure that keeps track of all the queries in
// execution and their per stage progress.
type ProcessList struct {
	mu    sync.RWMutex
	procs map[uint64]*sql.Process
}

var _ sql.ProcessList = (*ProcessList)(nil)

// NewProcessList creates a new process list.
func NewProcessList() *ProcessList {
	return &ProcessList{
		procs: make(map[uint64]*sql.Process),
	}
}

// Processes returns the list of current running processes.
func (pl *ProcessList) Processes() []sql.Process {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	var result = make([]sql.Process, 0, len(pl.procs))

	for _, proc := range pl.procs {
		p := *proc
		var progress = make(map[string]sql.StageProgress, len(proc.Progress))
		for name, pg := range proc.Progress {
			progress[name] = pg
		}
		p.Progress = progress
		result = append(result, p)
	}

	return result
}

// AddProcess adds a new process to the list given its query.
func (pl *ProcessList) AddProcess(
	ctx *sql.Context,
	query string,
) (*sql.Context, error) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	if _, ok := pl.procs[ctx.Pid()]; ok {
		return nil, sql.ErrPidAlreadyUsed.New(ctx.Pid())
	}

	newCtx, cancel := context.WithCancel(ctx)
	ctx = ctx.WithContext(newCtx)

	pl.procs[ctx.Pid()] = &sql.Process{
		Pid:        ctx.Pid(),
		Connection: ctx.ID(),
		User:       ctx.Session.Client().User,
		Query:      query,
		Progress:   make(map[string]sql.StageProgress),
		StartedAt:  time.Now(),
		Kill:       cancel,
	}

	return ctx, nil
}

// AddStageProgress adds delta rows to the progress of the given stage of the
// process with the given pid, registering the stage if it was not seen
// before. If the pid does not exist, it will do nothing.
func (pl *ProcessList) AddStageProgress(pid uint64, stage string, delta int64) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	p, ok := pl.procs[pid]
	if !ok {
		return
	}

	progress, ok := p.Progress[stage]
	if !ok {
		progress = sql.StageProgress{Name: stage}
	}

	progress.Rows += delta
	p.Progress[stage] = progress
}

// Kill terminates the query with the given pid, canceling its context.
func (pl *ProcessList) Kill(pid uint64) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	if proc, ok := pl.procs[pid]; ok {
		logrus.Infof("kill query: pid %d", pid)
		proc.Done()
		delete(pl.procs, pid)
	}
}

// Done removes the finished process with the given pid from the process list.
// If the process does not exist, it will do nothing.
func (pl *ProcessList) Done(pid uint64) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	if proc, ok := pl.procs[pid]; ok {
		proc.Done()
	}

	delete(pl.procs, pid)
}
