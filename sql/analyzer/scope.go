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
)

// Scope of the analysis being performed: the lexical environments of the
// plans a subquery is nested inside, outermost first. A nil or empty scope
// means a top level query. During execution, rows of the inner plan are
// prepended with one row per scope level in the same order, so the schema of
// the scope is the field index space that precedes the inner plan's own
// columns.
type Scope struct {
	nodes []sql.Node
}

// NewScope returns a new scope with the node given as the innermost level of
// the receiver. The receiver may be nil.
func (s *Scope) NewScope(node sql.Node) *Scope {
	if s == nil {
		return &Scope{nodes: []sql.Node{node}}
	}
	nodes := make([]sql.Node, len(s.nodes), len(s.nodes)+1)
	copy(nodes, s.nodes)
	return &Scope{nodes: append(nodes, node)}
}

// IsEmpty reports whether this scope has any outer levels.
func (s *Scope) IsEmpty() bool {
	return s == nil || len(s.nodes) == 0
}

// Schema returns the concatenation of the schemas of all scope levels,
// outermost first. It matches the layout of the scope row prepended to inner
// rows during execution.
func (s *Scope) Schema() sql.Schema {
	if s.IsEmpty() {
		return nil
	}

	var schema sql.Schema
	for _, n := range s.nodes {
		schema = append(schema, n.Schema()...)
	}
	return schema
}
