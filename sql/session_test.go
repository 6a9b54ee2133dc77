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
	"context"
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/stretchr/testify/require"
)

func TestSessionWarnings(t *testing.T) {
	require := require.New(t)

	sess := NewSession("srv", Client{Address: "client", User: "user"}, 1)

	sess.Warn(&Warning{Code: 1, Message: "first"})
	sess.Warn(&Warning{Code: 2, Message: "second"})
	require.Equal(uint16(2), sess.WarningCount())

	warns := sess.Warnings()
	require.Len(warns, 2)
	// Most recent warning comes first.
	require.Equal(2, warns[0].Code)
	require.Equal(1, warns[1].Code)

	sess.ClearWarnings()
	require.Empty(sess.Warnings())
}

func TestSessionConfig(t *testing.T) {
	require := require.New(t)

	sess := NewSession("srv", Client{Address: "client", User: "user"}, 1)

	typ, v := sess.Get("max_memory_joins")
	require.Equal(Null, typ)
	require.Nil(v)

	err := sess.Set(context.Background(), "max_memory_joins", Int64, int64(2048))
	require.NoError(err)

	typ, v = sess.Get("max_memory_joins")
	require.Equal(Int64, typ)
	require.Equal(int64(2048), v)

	require.Equal(
		map[string]TypedValue{"max_memory_joins": {Int64, int64(2048)}},
		sess.GetAll(),
	)
}

func TestSessionIdentity(t *testing.T) {
	require := require.New(t)

	sess := NewSession("srv", Client{Address: "client", User: "someone"}, 42)
	require.Equal("srv", sess.Address())
	require.Equal(Client{Address: "client", User: "someone"}, sess.Client())
	require.Equal(uint32(42), sess.ID())

	sess.SetCurrentDatabase("mydb")
	require.Equal("mydb", sess.GetCurrentDatabase())
}

func TestContextDefaults(t *testing.T) {
	require := require.New(t)

	ctx := NewContext(context.Background())
	require.NotNil(ctx.Session)
	require.NotNil(ctx.Memory)
	require.Equal(uint64(0), ctx.Pid())
	require.Equal("", ctx.Query())
	require.Equal(EmptyProcessList{}, ctx.ProcessList)
}

func TestContextOptions(t *testing.T) {
	require := require.New(t)

	sess := NewBaseSession()
	ctx := NewContext(
		context.Background(),
		WithSession(sess),
		WithPid(29),
		WithQuery("Project(foo)"),
	)

	require.Equal(sess, ctx.Session)
	require.Equal(uint64(29), ctx.Pid())
	require.Equal("Project(foo)", ctx.Query())
}

func TestContextSpan(t *testing.T) {
	require := require.New(t)

	ctx := NewContext(context.Background(), WithTracer(opentracing.NoopTracer{}))
	span, newCtx := ctx.Span("test-span")

	require.NotNil(span)
	require.NotNil(newCtx)
	require.Equal(ctx.Session, newCtx.Session)
	span.Finish()
}

func TestNewSpanIter(t *testing.T) {
	require := require.New(t)

	ctx := NewEmptyContext()
	span, _ := ctx.Span("plan.Filter")

	rows := []Row{NewRow(int64(1)), NewRow(int64(2))}
	iter := NewSpanIter(span, RowsToRowIter(rows...))

	result, err := RowIterToRows(ctx, iter)
	require.NoError(err)
	require.Equal(rows, result)
}
