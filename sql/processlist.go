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
	"context"
	"fmt"
	"time"
)

// ProcessList is a structure that keeps track of all the queries in
// execution and the rows each of their plan stages has produced so far.
type ProcessList interface {
	// Processes returns the list of current running processes.
	Processes() []Process

	// AddProcess adds a new process to the list given a query. It returns a
	// new context that should be used for the query wrapping the one given,
	// which will be canceled when the query finishes or is killed.
	AddProcess(ctx *Context, query string) (*Context, error)

	// AddStageProgress adds to the number of rows produced by the given
	// stage of the process with the given pid, registering the stage if it
	// was not seen before.
	AddStageProgress(pid uint64, stage string, delta int64)

	// Kill terminates the process with the given pid, canceling its context.
	Kill(pid uint64)

	// Done removes the finished process with the given pid from the process
	// list. If there is no such process, it does nothing.
	Done(pid uint64)
}

// EmptyProcessList is a no-op implementation of ProcessList suitable for use
// in tests or other installations that don't require process tracking.
type EmptyProcessList struct{}

var _ ProcessList = EmptyProcessList{}

func (e EmptyProcessList) Processes() []Process { return nil }
func (e EmptyProcessList) AddProcess(ctx *Context, query string) (*Context, error) {
	return ctx, nil
}
func (e EmptyProcessList) AddStageProgress(pid uint64, stage string, delta int64) {}
func (e EmptyProcessList) Kill(pid uint64)                                       {}
func (e EmptyProcessList) Done(pid uint64)                                       {}

// Process represents a query in execution.
type Process struct {
	Pid        uint64
	Connection uint32
	User       string
	Query      string
	Progress   map[string]StageProgress
	StartedAt  time.Time
	Kill       context.CancelFunc
}

// Done needs to be called when this process has finished.
func (p *Process) Done() { p.Kill() }

// Seconds returns the number of seconds this process has been running.
func (p *Process) Seconds() uint64 {
	return uint64(time.Since(p.StartedAt) / time.Second)
}

// StageProgress keeps track of how many rows a stage of a query plan has
// produced.
type StageProgress struct {
	Name string
	Rows int64
}

func (p StageProgress) String() string {
	return fmt.Sprintf("%s (%d rows)", p.Name, p.Rows)
}
