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

package analyzer

import (
	"fmt"

	"github.com/dolthub/go-sql-engine/sql"
	"github.com/dolthub/go-sql-engine/sql/plan"
)

// trackProcess wraps every row-producing operator of the plan in a progress
// tracking node and the whole plan in a QueryProcess, so that the process
// list accumulates per stage row counts while the query runs.
func trackProcess(ctx *sql.Context, a *Analyzer, n sql.Node, scope *Scope) (sql.Node, error) {
	if !n.Resolved() {
		return n, nil
	}

	// Subqueries run within the process of the outer query.
	if !scope.IsEmpty() {
		return n, nil
	}

	if _, ok := n.(*plan.QueryProcess); ok {
		return n, nil
	}

	processList := ctx.ProcessList

	seen := make(map[string]int)
	n, err := plan.TransformUp(n, func(n sql.Node) (sql.Node, error) {
		switch n.(type) {
		case *plan.TrackProgress, *plan.QueryProcess, *plan.ResolvedTable:
			return n, nil
		}

		if !isTrackableStage(n) {
			return n, nil
		}

		stage := stageName(n)
		seen[stage]++
		if count := seen[stage]; count > 1 {
			stage = fmt.Sprintf("%s(%d)", stage, count)
		}

		a.Log("tracking stage %s", stage)
		return plan.NewTrackProgress(stage, n), nil
	})
	if err != nil {
		return nil, err
	}

	return plan.NewQueryProcess(n, func() {
		processList.Done(ctx.Pid())
		if span := ctx.RootSpan(); span != nil {
			span.Finish()
		}
	}), nil
}

// isTrackableStage reports whether the node is an operator whose output row
// count belongs in the execution report.
func isTrackableStage(n sql.Node) bool {
	switch n.(type) {
	case *plan.Project, *plan.Filter, *plan.GroupBy, *plan.Having,
		*plan.Window, *plan.Sort, *plan.Limit, *plan.Offset,
		*plan.Distinct, *plan.OrderedDistinct,
		*plan.CrossJoin, *plan.InnerJoin, *plan.LeftJoin, *plan.RightJoin,
		*plan.Union, *plan.Intersect, *plan.Except:
		return true
	default:
		return false
	}
}

// stageName returns a short operator name for the progress stage.
func stageName(n sql.Node) string {
	switch n := n.(type) {
	case *plan.Project:
		return "Project"
	case *plan.Filter:
		return "Filter"
	case *plan.GroupBy:
		return "GroupBy"
	case *plan.Having:
		return "Having"
	case *plan.Window:
		return "Window"
	case *plan.Sort:
		return "Sort"
	case *plan.Limit:
		return "Limit"
	case *plan.Offset:
		return "Offset"
	case *plan.Distinct:
		return "Distinct"
	case *plan.OrderedDistinct:
		return "OrderedDistinct"
	case *plan.CrossJoin:
		return "CrossJoin"
	case *plan.InnerJoin:
		return "InnerJoin"
	case *plan.LeftJoin:
		return "LeftJoin"
	case *plan.RightJoin:
		return "RightJoin"
	case *plan.Union:
		return "Union"
	case *plan.Intersect:
		return "Intersect"
	case *plan.Except:
		return "Except"
	default:
		return fmt.Sprintf("%T", n)
	}
}
