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

package sqle

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-sql-engine/sql"
)

func TestProcessList(t *testing.T) {
	require := require.New(t)

	p := NewProcessList()
	sess := sql.NewSession("0.0.0.0:3306", sql.Client{Address: "127.0.0.1:34567", User: "foo"}, 1)
	ctx := sql.NewContext(context.Background(), sql.WithPid(1), sql.WithSession(sess))
	ctx, err := p.AddProcess(ctx, "Project(a)")
	require.NoError(err)

	require.Equal(uint64(1), ctx.Pid())
	require.Len(p.procs, 1)

	p.AddStageProgress(ctx.Pid(), "Project", 0)
	p.AddStageProgress(ctx.Pid(), "Filter", 0)

	expectedProcess := &sql.Process{
		Pid:        1,
		Connection: 1,
		User:       "foo",
		Query:      "Project(a)",
		Progress: map[string]sql.StageProgress{
			"Project": {Name: "Project", Rows: 0},
			"Filter":  {Name: "Filter", Rows: 0},
		},
		StartedAt: p.procs[ctx.Pid()].StartedAt,
	}
	require.NotNil(p.procs[ctx.Pid()].Kill)
	p.procs[ctx.Pid()].Kill = nil
	require.Equal(expectedProcess, p.procs[ctx.Pid()])

	ctx = sql.NewContext(context.Background(), sql.WithPid(2), sql.WithSession(sess))
	ctx, err = p.AddProcess(ctx, "Project(b)")
	require.NoError(err)

	require.Equal(uint64(2), ctx.Pid())
	require.Len(p.procs, 2)

	p.AddStageProgress(1, "Project", 3)
	p.AddStageProgress(1, "Project", 1)
	p.AddStageProgress(1, "Filter", 2)
	p.AddStageProgress(2, "Project", 1)

	require.Equal(int64(4), p.procs[1].Progress["Project"].Rows)
	require.Equal(int64(2), p.procs[1].Progress["Filter"].Rows)
	require.Equal(int64(1), p.procs[2].Progress["Project"].Rows)

	var expected []sql.Process
	for _, proc := range p.procs {
		np := *proc
		np.Kill = nil
		expected = append(expected, np)
	}

	result := p.Processes()
	for i := range result {
		result[i].Kill = nil
	}

	sortByPid(expected)
	sortByPid(result)
	require.Equal(expected, result)

	p.Done(2)

	require.Len(p.procs, 1)
	_, ok := p.procs[1]
	require.True(ok)
}

func TestProcessListPidReuse(t *testing.T) {
	require := require.New(t)

	p := NewProcessList()
	ctx := sql.NewContext(context.Background(), sql.WithPid(1))
	_, err := p.AddProcess(ctx, "Project(a)")
	require.NoError(err)

	ctx = sql.NewContext(context.Background(), sql.WithPid(1))
	_, err = p.AddProcess(ctx, "Project(b)")
	require.Error(err)
	require.True(sql.ErrPidAlreadyUsed.Is(err))
}

func sortByPid(slice []sql.Process) {
	sort.Slice(slice, func(i, j int) bool {
		return slice[i].Pid < slice[j].Pid
	})
}

func TestProcessListKill(t *testing.T) {
	pl := NewProcessList()

	var killed = make(map[uint64]bool)
	for i := uint64(1); i <= 3; i++ {
		_, err := pl.AddProcess(
			sql.NewContext(context.Background(), sql.WithPid(i)),
			"foo",
		)
		require.NoError(t, err)

		i := i
		pl.procs[i].Kill = func() {
			killed[i] = true
		}
	}

	pl.Kill(2)
	require.Len(t, pl.procs, 2)

	require.False(t, killed[1])
	require.True(t, killed[2])
	require.False(t, killed[3])
}
