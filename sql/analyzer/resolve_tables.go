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
	"github.com/dolthub/go-sql-engine/sql"
	"github.com/dolthub/go-sql-engine/sql/plan"
)

// resolveTables replaces UnresolvedTable nodes with tables found in the
// catalog.
func resolveTables(ctx *sql.Context, a *Analyzer, n sql.Node, scope *Scope) (sql.Node, error) {
	span, ctx := ctx.Span("resolve_tables")
	defer span.Finish()

	return plan.TransformUp(n, func(n sql.Node) (sql.Node, error) {
		t, ok := n.(*plan.UnresolvedTable)
		if !ok {
			return n, nil
		}

		name := t.Name()
		dbName := t.Database()
		if dbName == "" {
			dbName = ctx.GetCurrentDatabase()
		}

		rt, err := a.Catalog.Table(dbName, name)
		if err != nil {
			return nil, err
		}

		db, err := a.Catalog.Database(dbName)
		if err != nil {
			return nil, err
		}

		a.Log("table resolved: %s", name)
		return plan.NewResolvedTable(rt, db), nil
	})
}
