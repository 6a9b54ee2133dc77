// Copyright 2021 Dolthub, Inc.
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

package window

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-sql-engine/sql"
)

func TestPercentRank_OrderBy(t *testing.T) {
	require := require.New(t)

	agg, err := NewPercentRank().WithWindow(salaryDesc())
	require.NoError(err)

	result := evalWindow(t, agg,
		sql.NewRow(int64(100)),
		sql.NewRow(int64(200)),
		sql.NewRow(int64(70)),
		sql.NewRow(int64(200)),
		sql.NewRow(int64(50)),
		sql.NewRow(int64(100)),
		sql.NewRow(int64(60)),
	)
	require.Equal([]interface{}{
		float64(2) / float64(6),
		float64(0),
		float64(4) / float64(6),
		float64(0),
		float64(1),
		float64(2) / float64(6),
		float64(5) / float64(6),
	}, result)
}

func TestPercentRank_Partitions(t *testing.T) {
	require := require.New(t)

	agg, err := NewPercentRank().WithWindow(deptSalaryDesc())
	require.NoError(err)

	result := evalWindow(t, agg,
		sql.NewRow("IT", int64(100)),
		sql.NewRow("HR", int64(70)),
		sql.NewRow("IT", int64(200)),
		sql.NewRow("HR", int64(70)),
		sql.NewRow("IT", int64(200)),
		sql.NewRow("HR", int64(50)),
	)
	require.Equal([]interface{}{
		float64(1), float64(0), float64(0), float64(0), float64(0), float64(1),
	}, result)
}

func TestPercentRank_SingleRow(t *testing.T) {
	require := require.New(t)

	agg, err := NewPercentRank().WithWindow(salaryDesc())
	require.NoError(err)

	result := evalWindow(t, agg, sql.NewRow(int64(100)))
	require.Equal([]interface{}{float64(0)}, result)
}

func TestPercentRank_String(t *testing.T) {
	require := require.New(t)

	agg, err := NewPercentRank().WithWindow(salaryDesc())
	require.NoError(err)
	require.Equal("percent_rank() over ( order by salary DESC)", agg.String())
}
