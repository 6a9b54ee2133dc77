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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-sql-engine/memory"
	"github.com/dolthub/go-sql-engine/sql"
	"github.com/dolthub/go-sql-engine/sql/expression"
	"github.com/dolthub/go-sql-engine/sql/expression/function/aggregation"
	"github.com/dolthub/go-sql-engine/sql/plan"
)

func testCatalog(t *testing.T) *sql.Catalog {
	t.Helper()

	db := memory.NewDatabase("mydb")
	db.AddTable("users", memory.NewTable("users", sql.Schema{
		{Name: "id", Type: sql.Int64, Source: "users"},
		{Name: "name", Type: sql.Text, Source: "users"},
	}))
	db.AddTable("orders", memory.NewTable("orders", sql.Schema{
		{Name: "id", Type: sql.Int64, Source: "orders"},
		{Name: "user_id", Type: sql.Int64, Source: "orders"},
	}))

	catalog := sql.NewCatalog()
	catalog.AddDatabase(db)
	return catalog
}

func testContext() *sql.Context {
	ctx := sql.NewEmptyContext()
	ctx.SetCurrentDatabase("mydb")
	return ctx
}

func TestAnalyzerResolvesTablesAndColumns(t *testing.T) {
	require := require.New(t)

	a := NewDefault(testCatalog(t))
	node := plan.NewProject(
		[]sql.Expression{expression.NewUnresolvedColumn("name")},
		plan.NewFilter(
			expression.NewGreaterThan(
				expression.NewUnresolvedColumn("id"),
				expression.NewLiteral(int64(1), sql.Int64),
			),
			plan.NewUnresolvedTable("users", ""),
		),
	)

	analyzed, err := a.Analyze(testContext(), node, nil)
	require.NoError(err)
	require.True(analyzed.Resolved())

	qp, ok := analyzed.(*plan.QueryProcess)
	require.True(ok)

	var project *plan.Project
	plan.Inspect(qp, func(n sql.Node) bool {
		if p, ok := n.(*plan.Project); ok {
			project = p
		}
		return true
	})
	require.NotNil(project)

	field, ok := project.Projections[0].(*expression.GetField)
	require.True(ok)
	require.Equal(1, field.Index())
	require.Equal(sql.Text, field.Type())
}

func TestAnalyzerTableNotFound(t *testing.T) {
	require := require.New(t)

	a := NewDefault(testCatalog(t))
	_, err := a.Analyze(testContext(), plan.NewUnresolvedTable("absent", ""), nil)
	require.Error(err)
	require.True(sql.ErrTableNotFound.Is(err))
}

func TestAnalyzerColumnNotFound(t *testing.T) {
	require := require.New(t)

	a := NewDefault(testCatalog(t))
	node := plan.NewProject(
		[]sql.Expression{expression.NewUnresolvedColumn("absent")},
		plan.NewUnresolvedTable("users", ""),
	)

	_, err := a.Analyze(testContext(), node, nil)
	require.Error(err)
	require.True(sql.ErrColumnNotFound.Is(err))
}

func TestAnalyzerAmbiguousColumn(t *testing.T) {
	require := require.New(t)

	a := NewDefault(testCatalog(t))
	// Both users and orders have an id column.
	node := plan.NewProject(
		[]sql.Expression{expression.NewUnresolvedColumn("id")},
		plan.NewCrossJoin(
			plan.NewUnresolvedTable("users", ""),
			plan.NewUnresolvedTable("orders", ""),
		),
	)

	_, err := a.Analyze(testContext(), node, nil)
	require.Error(err)
	require.True(sql.ErrAmbiguousColumnName.Is(err))
}

func TestAnalyzerQualifiedColumn(t *testing.T) {
	require := require.New(t)

	a := NewDefault(testCatalog(t))
	node := plan.NewProject(
		[]sql.Expression{expression.NewUnresolvedQualifiedColumn("orders", "id")},
		plan.NewCrossJoin(
			plan.NewUnresolvedTable("users", ""),
			plan.NewUnresolvedTable("orders", ""),
		),
	)

	analyzed, err := a.Analyze(testContext(), node, nil)
	require.NoError(err)
	require.True(analyzed.Resolved())

	var project *plan.Project
	plan.Inspect(analyzed, func(n sql.Node) bool {
		if p, ok := n.(*plan.Project); ok {
			project = p
		}
		return true
	})

	field, ok := project.Projections[0].(*expression.GetField)
	require.True(ok)
	// orders.id sits after the two users columns.
	require.Equal(2, field.Index())
}

func TestAnalyzerExpandsStars(t *testing.T) {
	require := require.New(t)

	a := NewDefault(testCatalog(t))
	node := plan.NewProject(
		[]sql.Expression{expression.NewStar()},
		plan.NewUnresolvedTable("users", ""),
	)

	analyzed, err := a.Analyze(testContext(), node, nil)
	require.NoError(err)

	var project *plan.Project
	plan.Inspect(analyzed, func(n sql.Node) bool {
		if p, ok := n.(*plan.Project); ok {
			project = p
		}
		return true
	})
	require.NotNil(project)
	require.Len(project.Projections, 2)
}

func TestAnalyzerReifiesFullOuterJoin(t *testing.T) {
	require := require.New(t)

	a := NewDefault(testCatalog(t))
	node := plan.NewFullOuterJoin(
		plan.NewUnresolvedTable("users", ""),
		plan.NewUnresolvedTable("orders", ""),
		expression.NewEquals(
			expression.NewUnresolvedQualifiedColumn("users", "id"),
			expression.NewUnresolvedQualifiedColumn("orders", "user_id"),
		),
	)

	analyzed, err := a.Analyze(testContext(), node, nil)
	require.NoError(err)

	var sawFullOuter, sawLeft, sawRight, sawDistinct bool
	plan.Inspect(analyzed, func(n sql.Node) bool {
		switch n.(type) {
		case *plan.FullOuterJoin:
			sawFullOuter = true
		case *plan.LeftJoin:
			sawLeft = true
		case *plan.RightJoin:
			sawRight = true
		case *plan.Distinct:
			sawDistinct = true
		}
		return true
	})
	require.False(sawFullOuter)
	require.True(sawLeft)
	require.True(sawRight)
	require.True(sawDistinct)
}

func TestAnalyzerAppliesNullOrdering(t *testing.T) {
	require := require.New(t)

	node := plan.NewSort(
		sql.SortFields{{
			Column: expression.NewUnresolvedColumn("name"),
			Order:  sql.Ascending,
		}},
		plan.NewUnresolvedTable("users", ""),
	)

	findSort := func(n sql.Node) *plan.Sort {
		var sort *plan.Sort
		plan.Inspect(n, func(n sql.Node) bool {
			if s, ok := n.(*plan.Sort); ok {
				sort = s
			}
			return true
		})
		return sort
	}

	a := NewBuilder(testCatalog(t)).WithNullOrdering(sql.NullsLast).Build()
	analyzed, err := a.Analyze(testContext(), node, nil)
	require.NoError(err)

	sort := findSort(analyzed)
	require.NotNil(sort)
	require.Equal(sql.NullsLast, sort.SortFields[0].NullOrdering)

	// Without a configured ordering the sort field is left alone.
	analyzed, err = NewDefault(testCatalog(t)).Analyze(testContext(), node, nil)
	require.NoError(err)

	sort = findSort(analyzed)
	require.NotNil(sort)
	require.Equal(sql.NullsFirst, sort.SortFields[0].NullOrdering)
}

func TestAnalyzerValidatesGroupBy(t *testing.T) {
	require := require.New(t)

	a := NewDefault(testCatalog(t))
	// name is neither grouped nor aggregated.
	node := plan.NewGroupBy(
		[]sql.Expression{expression.NewUnresolvedColumn("name")},
		[]sql.Expression{expression.NewUnresolvedColumn("id")},
		plan.NewUnresolvedTable("users", ""),
	)

	_, err := a.Analyze(testContext(), node, nil)
	require.Error(err)
	require.True(sql.ErrInvalidProjection.Is(err))
}

func TestAnalyzerValidatesOrderBy(t *testing.T) {
	require := require.New(t)

	a := NewDefault(testCatalog(t))
	node := plan.NewSort(
		sql.SortFields{{
			Column: aggregation.NewCount(expression.NewUnresolvedColumn("id")),
			Order:  sql.Ascending,
		}},
		plan.NewUnresolvedTable("users", ""),
	)

	_, err := a.Analyze(testContext(), node, nil)
	require.Error(err)
	require.True(ErrOrderByAggregation.Is(err))
}

func TestAnalyzerValidatesSetOperandArity(t *testing.T) {
	require := require.New(t)

	a := NewDefault(testCatalog(t))
	node := plan.NewUnion(
		plan.NewUnresolvedTable("users", ""),
		plan.NewProject(
			[]sql.Expression{expression.NewUnresolvedColumn("id")},
			plan.NewUnresolvedTable("orders", ""),
		),
	)

	_, err := a.Analyze(testContext(), node, nil)
	require.Error(err)
	require.True(sql.ErrSetOpArityMismatch.Is(err))
}

func TestAnalyzerValidatesNegativeLimit(t *testing.T) {
	require := require.New(t)

	a := NewDefault(testCatalog(t))
	node := plan.NewLimit(
		expression.NewLiteral(int64(-1), sql.Int64),
		plan.NewUnresolvedTable("users", ""),
	)

	_, err := a.Analyze(testContext(), node, nil)
	require.Error(err)
	require.True(sql.ErrInvalidArgument.Is(err))
}

func TestAnalyzerCachesUncorrelatedSubquery(t *testing.T) {
	require := require.New(t)

	a := NewDefault(testCatalog(t))
	node := plan.NewFilter(
		plan.NewInSubquery(
			expression.NewUnresolvedColumn("id"),
			plan.NewSubquery(
				plan.NewProject(
					[]sql.Expression{expression.NewUnresolvedQualifiedColumn("orders", "user_id")},
					plan.NewUnresolvedTable("orders", ""),
				),
				"select user_id from orders",
			),
		),
		plan.NewUnresolvedTable("users", ""),
	)

	analyzed, err := a.Analyze(testContext(), node, nil)
	require.NoError(err)
	require.True(analyzed.Resolved())

	var sq *plan.Subquery
	plan.InspectExpressions(analyzed, func(e sql.Expression) bool {
		if in, ok := e.(*plan.InSubquery); ok {
			sq = in.Right.(*plan.Subquery)
		}
		return true
	})
	require.NotNil(sq)
	require.False(sq.IsNonDeterministic())
}

func TestAnalyzerParallelism(t *testing.T) {
	require := require.New(t)

	a := NewBuilder(testCatalog(t)).WithParallelism(4).Build()
	node := plan.NewProject(
		[]sql.Expression{expression.NewUnresolvedColumn("name")},
		plan.NewUnresolvedTable("users", ""),
	)

	analyzed, err := a.Analyze(testContext(), node, nil)
	require.NoError(err)

	var exchanges int
	plan.Inspect(analyzed, func(n sql.Node) bool {
		if _, ok := n.(*plan.Exchange); ok {
			exchanges++
		}
		return true
	})
	require.Equal(1, exchanges)
}

func TestAnalyzerTracksProcess(t *testing.T) {
	require := require.New(t)

	a := NewDefault(testCatalog(t))
	node := plan.NewProject(
		[]sql.Expression{expression.NewUnresolvedColumn("name")},
		plan.NewFilter(
			expression.NewGreaterThan(
				expression.NewUnresolvedColumn("id"),
				expression.NewLiteral(int64(0), sql.Int64),
			),
			plan.NewUnresolvedTable("users", ""),
		),
	)

	analyzed, err := a.Analyze(testContext(), node, nil)
	require.NoError(err)

	_, ok := analyzed.(*plan.QueryProcess)
	require.True(ok)

	var stages []string
	plan.Inspect(analyzed, func(n sql.Node) bool {
		if tp, ok := n.(*plan.TrackProgress); ok {
			stages = append(stages, tp.Stage)
		}
		return true
	})
	require.Equal([]string{"Project", "Filter"}, stages)
}

func TestAnalyzerBatchFixpoint(t *testing.T) {
	require := require.New(t)

	// A rule that rewrites nothing must converge immediately.
	batch := &Batch{
		Desc:       "noop",
		Iterations: maxAnalysisIterations,
		Rules: []Rule{
			{"noop", func(ctx *sql.Context, a *Analyzer, n sql.Node, scope *Scope) (sql.Node, error) {
				return n, nil
			}},
		},
	}

	table := plan.NewUnresolvedTable("users", "")
	result, err := batch.Eval(sql.NewEmptyContext(), NewDefault(testCatalog(t)), table, nil)
	require.NoError(err)
	require.Equal(table, result)
}
