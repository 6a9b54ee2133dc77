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

package memory

import (
	"fmt"
	"io"

	"github.com/dolthub/go-sql-engine/sql"
)

// Table represents an in-memory database table. Rows are divided into an
// arbitrary number of partitions and kept in insertion order within each.
type Table struct {
	name       string
	schema     sql.Schema
	partitions map[string][]sql.Row
	keys       [][]byte

	insert int
}

var _ sql.Table = (*Table)(nil)

// NewTable creates a new Table with the given name and schema, with a single
// partition.
func NewTable(name string, schema sql.Schema) *Table {
	return NewPartitionedTable(name, schema, 0)
}

// NewPartitionedTable creates a new Table with the given name, schema and
// number of partitions.
func NewPartitionedTable(name string, schema sql.Schema, numPartitions int) *Table {
	var keys [][]byte
	var partitions = map[string][]sql.Row{}

	if numPartitions < 1 {
		numPartitions = 1
	}

	for i := 0; i < numPartitions; i++ {
		key := []byte(fmt.Sprint(i))
		keys = append(keys, key)
		partitions[string(key)] = []sql.Row{}
	}

	return &Table{
		name:       name,
		schema:     schema,
		partitions: partitions,
		keys:       keys,
	}
}

// Name implements the sql.Nameable interface.
func (t *Table) Name() string { return t.name }

// Schema implements the sql.Table interface.
func (t *Table) Schema() sql.Schema { return t.schema }

// Partitions implements the sql.Table interface.
func (t *Table) Partitions(ctx *sql.Context) (sql.PartitionIter, error) {
	var keys [][]byte
	for _, k := range t.keys {
		if rows, ok := t.partitions[string(k)]; ok && len(rows) > 0 {
			keys = append(keys, k)
		}
	}
	// No rows at all still yields one partition, so that aggregates over an
	// empty table see an empty stream instead of no stream.
	if len(keys) == 0 && len(t.keys) > 0 {
		keys = append(keys, t.keys[0])
	}
	return &partitionIter{keys: keys}, nil
}

// PartitionRows implements the sql.Table interface.
func (t *Table) PartitionRows(ctx *sql.Context, partition sql.Partition) (sql.RowIter, error) {
	rows, ok := t.partitions[string(partition.Key())]
	if !ok {
		return nil, sql.ErrPartitionNotFound.New(partition.Key())
	}

	var rowsCopy = make([]sql.Row, len(rows))
	copy(rowsCopy, rows)

	return &tableIter{rows: rowsCopy}, nil
}

// Insert appends a new row to the table, checking it against the schema.
// Rows are spread across partitions round robin.
func (t *Table) Insert(ctx *sql.Context, row sql.Row) error {
	if err := t.schema.CheckRow(row); err != nil {
		return err
	}

	key := string(t.keys[t.insert])
	t.insert = (t.insert + 1) % len(t.keys)
	t.partitions[key] = append(t.partitions[key], row.Copy())
	return nil
}

func (t *Table) String() string {
	return t.name
}

func (t *Table) DebugString() string {
	p := sql.NewTreePrinter()
	_ = p.WriteNode("Table(%s)", t.name)
	var children = make([]string, len(t.schema))
	for i, col := range t.schema {
		children[i] = fmt.Sprintf("Column(%s, %s, nullable=%v)", col.Name, col.Type, col.Nullable)
	}
	_ = p.WriteChildren(children...)
	return p.String()
}

type partition struct {
	key []byte
}

func (p *partition) Key() []byte { return p.key }

type partitionIter struct {
	keys [][]byte
	pos  int
}

func (p *partitionIter) Next() (sql.Partition, error) {
	if p.pos >= len(p.keys) {
		return nil, io.EOF
	}

	key := p.keys[p.pos]
	p.pos++
	return &partition{key}, nil
}

func (p *partitionIter) Close(_ *sql.Context) error {
	p.keys = nil
	return nil
}

type tableIter struct {
	rows []sql.Row
	pos  int
}

var _ sql.RowIter = (*tableIter)(nil)

func (i *tableIter) Next() (sql.Row, error) {
	if i.pos >= len(i.rows) {
		return nil, io.EOF
	}

	row := i.rows[i.pos]
	i.pos++
	return row, nil
}

func (i *tableIter) Close(_ *sql.Context) error {
	i.rows = nil
	return nil
}
