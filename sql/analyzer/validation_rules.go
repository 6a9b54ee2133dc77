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
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-sql-engine/sql"
	"github.com/dolthub/go-sql-engine/sql/expression"
	"github.com/dolthub/go-sql-engine/sql/plan"
)

const (
	validateResolvedRule       = "validate_resolved"
	validateGroupByRule        = "validate_group_by"
	validateOrderByRule        = "validate_order_by"
	validateSetOperandsRule    = "validate_set_operands"
	validateLimitAndOffsetRule = "validate_limit_and_offset"
)

// ErrValidationResolved is returned when the plan can not be resolved.
var ErrValidationResolved = errors.NewKind("plan is not resolved because of node '%T'")

// ErrOrderByAggregation is returned when an aggregation is used as a sort
// field.
var ErrOrderByAggregation = errors.NewKind("OrderBy does not support aggregation expressions")

func validateIsResolved(ctx *sql.Context, a *Analyzer, n sql.Node, scope *Scope) (sql.Node, error) {
	span, _ := ctx.Span("validate_is_resolved")
	defer span.Finish()

	if !n.Resolved() {
		return nil, unresolvedError(n)
	}

	return n, nil
}

// unresolvedError returns an appropriate error message for the unresolved
// node given.
func unresolvedError(n sql.Node) error {
	var err error
	plan.InspectExpressions(n, func(e sql.Expression) bool {
		if err != nil {
			return false
		}
		if uc, ok := e.(*expression.UnresolvedColumn); ok {
			err = sql.ErrColumnNotFound.New(uc.Name())
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	plan.Inspect(n, func(n sql.Node) bool {
		if err != nil {
			return false
		}
		if ut, ok := n.(*plan.UnresolvedTable); ok {
			err = sql.ErrTableNotFound.New(ut.Name())
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	return ErrValidationResolved.New(n)
}

// validateGroupBy checks that every selected expression of a grouped node
// either appears in the grouping expressions or is an aggregation.
func validateGroupBy(ctx *sql.Context, a *Analyzer, n sql.Node, scope *Scope) (sql.Node, error) {
	span, _ := ctx.Span("validate_group_by")
	defer span.Finish()

	var err error
	plan.Inspect(n, func(n sql.Node) bool {
		gb, ok := n.(*plan.GroupBy)
		if !ok || err != nil {
			return true
		}

		// An empty grouping means a single implicit group, where any
		// selected expression is valid.
		if len(gb.GroupByExprs) == 0 {
			return true
		}

		validKeys := make(map[string]struct{}, len(gb.GroupByExprs))
		for _, expr := range gb.GroupByExprs {
			validKeys[expr.String()] = struct{}{}
		}

		for _, expr := range gb.SelectedExprs {
			if !isValidGroupedExpression(expr, validKeys) {
				err = sql.ErrInvalidProjection.New(expr.String())
				return false
			}
		}

		return true
	})
	if err != nil {
		return nil, err
	}

	return n, nil
}

func isValidGroupedExpression(expr sql.Expression, groupings map[string]struct{}) bool {
	if alias, ok := expr.(*expression.Alias); ok {
		expr = alias.Child
	}

	if _, ok := groupings[expr.String()]; ok {
		return true
	}

	if _, ok := expr.(sql.Aggregation); ok {
		return true
	}

	// Expressions over aggregations or grouping keys are fine, e.g.
	// SUM(x) / COUNT(x).
	if len(expr.Children()) > 0 {
		for _, child := range expr.Children() {
			if !isValidGroupedExpression(child, groupings) && !isConstant(child) {
				return false
			}
		}
		return true
	}

	return isConstant(expr)
}

func isConstant(expr sql.Expression) bool {
	constant := true
	expression.Inspect(expr, func(e sql.Expression) bool {
		switch e.(type) {
		case *expression.GetField, *expression.UnresolvedColumn:
			constant = false
			return false
		}
		return true
	})
	return constant
}

// validateOrderBy checks that no sort field is an aggregation, which has to
// be computed under a GroupBy and referred to by field instead.
func validateOrderBy(ctx *sql.Context, a *Analyzer, n sql.Node, scope *Scope) (sql.Node, error) {
	span, _ := ctx.Span("validate_order_by")
	defer span.Finish()

	var err error
	plan.Inspect(n, func(n sql.Node) bool {
		sort, ok := n.(*plan.Sort)
		if !ok || err != nil {
			return true
		}

		for _, field := range sort.SortFields {
			if _, ok := field.Column.(sql.Aggregation); ok {
				err = ErrOrderByAggregation.New()
				return false
			}
		}

		return true
	})
	if err != nil {
		return nil, err
	}

	return n, nil
}

// validateSetOperands checks that both operands of every set operation have
// the same number of columns and pairwise compatible column types.
func validateSetOperands(ctx *sql.Context, a *Analyzer, n sql.Node, scope *Scope) (sql.Node, error) {
	span, _ := ctx.Span("validate_set_operands")
	defer span.Finish()

	var err error
	plan.Inspect(n, func(n sql.Node) bool {
		if err != nil {
			return false
		}

		var opName string
		switch n.(type) {
		case *plan.Union:
			opName = "UNION"
		case *plan.Intersect:
			opName = "INTERSECT"
		case *plan.Except:
			opName = "EXCEPT"
		default:
			return true
		}

		bn, ok := n.(interface {
			Left() sql.Node
			Right() sql.Node
		})
		if !ok {
			return true
		}

		ls, rs := bn.Left().Schema(), bn.Right().Schema()
		if len(ls) != len(rs) {
			err = sql.ErrSetOpArityMismatch.New(opName, len(ls), len(rs))
			return false
		}

		for i := range ls {
			if !setOperandTypesCompatible(ls[i].Type, rs[i].Type) {
				err = sql.ErrSetOpSchemasIncompatible.New(opName, i, ls[i].Type, rs[i].Type)
				return false
			}
		}

		return true
	})
	if err != nil {
		return nil, err
	}

	return n, nil
}

func setOperandTypesCompatible(l, r sql.Type) bool {
	if l == sql.Null || r == sql.Null {
		return true
	}
	if l.String() == r.String() {
		return true
	}
	return sql.IsNumber(l) && sql.IsNumber(r)
}

// validateLimitAndOffset checks that limit and offset expressions evaluate to
// non-negative integers.
func validateLimitAndOffset(ctx *sql.Context, a *Analyzer, n sql.Node, scope *Scope) (sql.Node, error) {
	span, _ := ctx.Span("validate_limit_and_offset")
	defer span.Finish()

	var err error
	plan.Inspect(n, func(n sql.Node) bool {
		if err != nil {
			return false
		}

		switch n := n.(type) {
		case *plan.Limit:
			var v int64
			v, err = literalInt64(ctx, n.Limit)
			if err == nil && v < 0 {
				err = sql.ErrInvalidArgument.New("LIMIT", n.Limit.String())
			}
		case *plan.Offset:
			var v int64
			v, err = literalInt64(ctx, n.Offset)
			if err == nil && v < 0 {
				err = sql.ErrInvalidOffset.New(n.Offset.String())
			}
		}

		return err == nil
	})
	if err != nil {
		return nil, err
	}

	return n, nil
}

func literalInt64(ctx *sql.Context, expr sql.Expression) (int64, error) {
	v, err := expr.Eval(ctx, nil)
	if err != nil {
		return 0, err
	}

	converted, err := sql.Int64.Convert(v)
	if err != nil {
		return 0, err
	}

	return converted.(int64), nil
}
