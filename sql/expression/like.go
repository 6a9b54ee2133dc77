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

package expression

import (
	"bytes"
	"fmt"
	"regexp"
	"sync"

	"github.com/dolthub/go-sql-engine/sql"
)

// Like performs pattern matching against two strings. In the pattern, a
// percent matches any sequence of zero or more characters and an underscore
// matches exactly one. A backslash escapes the wildcard that follows it.
type Like struct {
	BinaryExpression
	pool   *sync.Pool
	cached bool
}

var _ sql.Expression = (*Like)(nil)

// NewLike creates a new LIKE expression.
func NewLike(left, right sql.Expression) sql.Expression {
	var cached = true
	Inspect(right, func(e sql.Expression) bool {
		if _, ok := e.(*GetField); ok {
			cached = false
		}
		return true
	})

	return &Like{
		BinaryExpression: BinaryExpression{left, right},
		pool:             nil,
		cached:           cached,
	}
}

// Type implements the sql.Expression interface.
func (l *Like) Type() sql.Type { return sql.Boolean }

// Eval implements the sql.Expression interface.
func (l *Like) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	span, ctx := ctx.Span("expression.Like")
	defer span.Finish()

	var re *regexp.Regexp
	if l.cached && l.pool != nil {
		re = l.pool.Get().(*regexp.Regexp)
		defer l.pool.Put(re)
	} else {
		v, err := l.Right.Eval(ctx, row)
		if err != nil || v == nil {
			return nil, err
		}

		sv, err := sql.Text.Convert(v)
		if err != nil {
			return nil, err
		}

		re, err = regexp.Compile(patternToRegex(sv.(string)))
		if err != nil {
			return nil, err
		}

		if l.cached {
			l.pool = &sync.Pool{
				New: func() interface{} { return re },
			}
		}
	}

	value, err := l.Left.Eval(ctx, row)
	if err != nil || value == nil {
		return nil, err
	}

	svalue, err := sql.Text.Convert(value)
	if err != nil {
		return nil, err
	}

	return re.MatchString(svalue.(string)), nil
}

func (l *Like) String() string {
	return fmt.Sprintf("%s LIKE %s", l.Left, l.Right)
}

func (l *Like) DebugString() string {
	return fmt.Sprintf("%s LIKE %s", sql.DebugString(l.Left), sql.DebugString(l.Right))
}

// WithChildren implements the Expression interface.
func (l *Like) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(l, len(children), 2)
	}
	return NewLike(children[0], children[1]), nil
}

// patternToRegex compiles a pattern to a go regular expression anchored at
// both ends. The (?s) flag makes the percent wildcard match newlines too.
func patternToRegex(pattern string) string {
	var buf bytes.Buffer
	buf.WriteString("(?s)^")
	var escaped bool
	for _, r := range pattern {
		switch r {
		case '_':
			if escaped {
				buf.WriteRune(r)
			} else {
				buf.WriteRune('.')
			}
		case '%':
			if escaped {
				buf.WriteRune(r)
			} else {
				buf.WriteString(".*")
			}
		case '\\':
			if escaped {
				buf.WriteString(`\\`)
			} else {
				escaped = true
				continue
			}
		default:
			buf.WriteString(regexp.QuoteMeta(string(r)))
		}

		if escaped {
			escaped = false
		}
	}

	buf.WriteRune('$')
	return buf.String()
}
