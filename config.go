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

package sqle

import (
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"

	"github.com/dolthub/go-sql-engine/sql"
)

// Config holds the engine level settings.
type Config struct {
	// MaxMemory is the maximum number of bytes the engine may use for its
	// in-memory caches. Zero means the MAX_MEMORY environment variable, or
	// no limit if that is unset too.
	MaxMemory uint64 `yaml:"max_memory"`
	// Parallelism is how many workers table scans may fan out to. Values
	// below 2 keep execution single-threaded.
	Parallelism int `yaml:"parallelism"`
	// NullOrdering is where sorts place NULL keys when the sort field does
	// not say: "nulls_first" (the default) or "nulls_last".
	NullOrdering string `yaml:"null_ordering"`
	// Debug enables verbose analyzer logging.
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return Config{NullOrdering: "nulls_first"}
}

// SortNullOrdering translates the configured null ordering for use in sort
// fields. Anything other than "nulls_last" means nulls first.
func (c Config) SortNullOrdering() sql.NullOrdering {
	if c.NullOrdering == "nulls_last" {
		return sql.NullsLast
	}
	return sql.NullsFirst
}

// LoadConfig reads a Config from the YAML file at path. Fields not present
// in the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, sql.ErrInvalidArgument.Wrap(err, "LoadConfig", err.Error())
	}

	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, sql.ErrInvalidArgument.Wrap(err, "LoadConfig", err.Error())
	}

	return cfg, nil
}
