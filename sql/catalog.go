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
	"strings"
	"sync"

	"github.com/dolthub/go-sql-engine/internal/similartext"
)

// Catalog holds the databases known to the engine.
type Catalog struct {
	mu  sync.RWMutex
	dbs Databases
}

// NewCatalog returns a new empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// AllDatabases returns all databases in the catalog.
func (c *Catalog) AllDatabases() Databases {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(Databases, len(c.dbs))
	copy(result, c.dbs)
	return result
}

// AddDatabase adds a new database to the catalog.
func (c *Catalog) AddDatabase(db Database) {
	c.mu.Lock()
	c.dbs.Add(db)
	c.mu.Unlock()
}

// Database returns the database with the given name.
func (c *Catalog) Database(name string) (Database, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dbs.Database(name)
}

// Table returns the table in the given database with the given name.
func (c *Catalog) Table(dbName, tableName string) (Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dbs.Table(dbName, tableName)
}

// Databases is a collection of Database.
type Databases []Database

// Add adds a new database to the collection.
func (d *Databases) Add(db Database) {
	*d = append(*d, db)
}

// Database returns the Database with the given name if it exists. Names are
// matched case insensitively.
func (d Databases) Database(name string) (Database, error) {
	name = strings.ToLower(name)
	for _, db := range d {
		if strings.ToLower(db.Name()) == name {
			return db, nil
		}
	}

	names := make([]string, len(d))
	for i, db := range d {
		names[i] = db.Name()
	}
	return nil, ErrDatabaseNotFound.New(name + similartext.Find(names, name))
}

// Table returns the Table with the given name in the given database, if it
// exists. Names are matched case insensitively.
func (d Databases) Table(dbName string, tableName string) (Table, error) {
	db, err := d.Database(dbName)
	if err != nil {
		return nil, err
	}

	tables := db.Tables()
	tbl, ok := tables[tableName]
	if !ok {
		lowered := strings.ToLower(tableName)
		for name, table := range tables {
			if strings.ToLower(name) == lowered {
				return table, nil
			}
		}
		return nil, ErrTableNotFound.New(tableName + similartext.FindFromMap(tables, tableName))
	}

	return tbl, nil
}
