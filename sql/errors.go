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
	"io"

	"gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrInvalidType is thrown when there is an unexpected type at some part of
	// the execution tree.
	ErrInvalidType = errors.NewKind("invalid type: %s")

	// ErrTypeMismatch is returned when the value of an expression has a type
	// incompatible with the operation applied to it.
	ErrTypeMismatch = errors.NewKind("expected a %s, but got a %s")

	// ErrTableNotFound is returned when the table is not available from the
	// current scope.
	ErrTableNotFound = errors.NewKind("table not found: %s")

	// ErrPartitionNotFound is returned when the partition key given to a
	// table is not one the table handed out.
	ErrPartitionNotFound = errors.NewKind("partition not found %q")

	// ErrTableColumnNotFound is thrown when a column named cannot be found in scope
	ErrTableColumnNotFound = errors.NewKind("table %q does not have column %q")

	// ErrColumnNotFound is returned when the column does not exist in any
	// table in scope.
	ErrColumnNotFound = errors.NewKind("column %q could not be found in any table in scope")

	// ErrAmbiguousColumnName is returned when there is a column reference that
	// is present in more than one table.
	ErrAmbiguousColumnName = errors.NewKind("ambiguous column name %q, it's present in all these tables: %v")

	// ErrDatabaseNotFound is returned when the database is not found.
	ErrDatabaseNotFound = errors.NewKind("database not found: %s")

	// ErrTableAlreadyExists is thrown when someone tries to create a
	// table with a name of an existing one.
	ErrTableAlreadyExists = errors.NewKind("table with name %s already exists")

	// ErrUnexpectedRowLength is thrown when the obtained row has more columns than the schema
	ErrUnexpectedRowLength = errors.NewKind("expected %d values, got %d")

	// ErrInvalidChildrenNumber is returned when the WithChildren method of a
	// node or expression is called with an invalid number of arguments.
	ErrInvalidChildrenNumber = errors.NewKind("%T: invalid children number, got %d, expected %d")

	// ErrInvalidChildType is returned when the WithChildren method of a
	// node or expression is called with an invalid child type. This error is indicative of a bug.
	ErrInvalidChildType = errors.NewKind("%T: invalid child type, got %T, expected %T")

	// ErrInvalidProjection is returned when a grouped query projects a column
	// that is neither in the grouping list nor inside an aggregation.
	ErrInvalidProjection = errors.NewKind("expression %q must appear in the GROUP BY clause or be used in an aggregate function")

	// ErrSetOpArityMismatch is returned when the operands of a set operation
	// do not have the same number of columns.
	ErrSetOpArityMismatch = errors.NewKind("the used %s operations must have an equal number of columns, got %d and %d")

	// ErrSetOpSchemasIncompatible is returned when the operands of a set
	// operation have columns with incompatible types.
	ErrSetOpSchemasIncompatible = errors.NewKind("%s operand column %d types are incompatible: %s and %s")

	// ErrExpectedSingleRow is returned when a subquery executed in normal queries or expressions
	// returns other than exactly 1 row without an attached IN clause.
	ErrExpectedSingleRow = errors.NewKind("the subquery returned %d rows, expected 1")

	// ErrSubqueryMultipleColumns is returned when an expression subquery
	// returns more than a single column.
	ErrSubqueryMultipleColumns = errors.NewKind("operand should contain 1 column(s), found %d")

	// ErrInvalidOperandColumns is returned when the columns in the left
	// operand and the elements of the right operand don't match.
	ErrInvalidOperandColumns = errors.NewKind("operand should contain %d column(s), not %d")

	// ErrCollaboratorFailure wraps errors raised by external collaborators,
	// such as a storage backend, that the engine does not interpret.
	ErrCollaboratorFailure = errors.NewKind("collaborator failure: %s")

	// ErrIndexOutOfBounds is returned when an index reached the boundary of
	// the slice it indexes.
	ErrIndexOutOfBounds = errors.NewKind("unable to find field with index %d in row of %d columns")

	// ErrNotTuple is returned when the value is not a tuple.
	ErrNotTuple = errors.NewKind("value of type %T is not a tuple")

	// ErrInvalidColumnNumber is returned when a tuple has an invalid number of
	// arguments.
	ErrInvalidColumnNumber = errors.NewKind("tuple should contain %d column(s), but has %d")

	// ErrInvalidArgument is returned when an argument to a function or plan
	// node is invalid.
	ErrInvalidArgument = errors.NewKind("invalid argument to %s: %s")

	// ErrInvalidOffset is returned when an offset is not a non-negative
	// integer.
	ErrInvalidOffset = errors.NewKind("offset must be a non-negative integer; found: %v")

	// ErrInvalidSyntax is returned for plan shapes that can never be
	// executed, such as a HAVING over a node without aggregations.
	ErrInvalidSyntax = errors.NewKind("invalid syntax: %s")

	// ErrUnsupportedFeature is thrown when a feature is not already supported
	ErrUnsupportedFeature = errors.NewKind("unsupported feature: %s")

	// ErrProcessKilled is returned when a process is killed while it is
	// still executing.
	ErrProcessKilled = errors.NewKind("the process %d has been killed")

	// ErrPidAlreadyUsed is returned when the pid of a new process is already
	// registered in the process list.
	ErrPidAlreadyUsed = errors.NewKind("pid %d is already in use")

	// ErrUnableSort is thrown when something happens on sorting.
	ErrUnableSort = errors.NewKind("unable to sort")
)

// WrapCollaboratorError wraps an error raised by an external collaborator,
// such as a storage backend, in ErrCollaboratorFailure. Errors raised by the
// engine itself, and io.EOF, pass through unchanged.
func WrapCollaboratorError(err error) error {
	if err == nil || err == io.EOF {
		return err
	}
	if _, ok := err.(*errors.Error); ok {
		return err
	}
	return ErrCollaboratorFailure.Wrap(err, err.Error())
}
