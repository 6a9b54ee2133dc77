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

// reifyFullOuterJoin converts a full outer join into the deduplicating union
// of the left and right joins over the same operands.
func reifyFullOuterJoin(ctx *sql.Context, a *Analyzer, n sql.Node, scope *Scope) (sql.Node, error) {
	return plan.TransformUp(n, func(n sql.Node) (sql.Node, error) {
		foj, ok := n.(*plan.FullOuterJoin)
		if !ok {
			return n, nil
		}

		if !foj.Resolved() {
			return n, nil
		}

		a.Log("reifying full outer join as distinct union of left and right joins")
		return foj.Reified(), nil
	})
}
