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
	"time"

	uuid "github.com/satori/go.uuid"
)

// Report summarizes a single plan execution: which stages the plan had and
// how many rows each of them produced. Stages appear in the order the
// operators appear in the plan, outermost first.
type Report struct {
	// ID uniquely identifies the execution.
	ID uuid.UUID
	// Query is the text form of the executed plan.
	Query string
	// StartedAt and FinishedAt bound the execution wall clock time.
	StartedAt  time.Time
	FinishedAt time.Time
	// Stages holds the per operator row counts.
	Stages []StageStats
}

// StageStats is the portion of a Report belonging to one plan operator.
type StageStats struct {
	// Operator is the name of the plan node, e.g. "Filter".
	Operator string
	// Rows is the number of rows the operator produced.
	Rows int64
}

// NewReport creates a Report for the given query text with a fresh id and
// the start time set to now.
func NewReport(query string) *Report {
	return &Report{
		ID:        uuid.NewV4(),
		Query:     query,
		StartedAt: time.Now(),
	}
}

// Finish marks the report as finished now.
func (r *Report) Finish() {
	r.FinishedAt = time.Now()
}

// Duration returns the wall clock time the execution took.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *Report) String() string {
	pr := NewTreePrinter()
	_ = pr.WriteNode("Report(%s)", r.ID)
	children := make([]string, len(r.Stages))
	for i, stage := range r.Stages {
		children[i] = fmt.Sprintf("%s: %d rows", stage.Operator, stage.Rows)
	}
	_ = pr.WriteChildren(children...)
	return pr.String()
}
