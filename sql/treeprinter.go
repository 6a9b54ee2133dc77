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
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// TreePrinter is a printer for tree nodes.
type TreePrinter struct {
	buf             bytes.Buffer
	nodeWritten     bool
	childrenWritten bool
}

// NewTreePrinter creates a new tree printer.
func NewTreePrinter() *TreePrinter {
	return new(TreePrinter)
}

var (
	// ErrNodeAlreadyWritten is returned when the node has already been written.
	ErrNodeAlreadyWritten = errors.New("treeprinter: node already written")

	// ErrNodeNotWritten is returned when the children are written before the node.
	ErrNodeNotWritten = errors.New("treeprinter: children written before node")

	// ErrChildrenAlreadyWritten is returned when the children have already been written.
	ErrChildrenAlreadyWritten = errors.New("treeprinter: children already written")
)

// WriteNode writes the main node.
func (p *TreePrinter) WriteNode(format string, args ...interface{}) error {
	if p.nodeWritten {
		return ErrNodeAlreadyWritten
	}

	_, err := fmt.Fprintf(&p.buf, format, args...)
	if err != nil {
		return err
	}
	p.nodeWritten = true
	return p.buf.WriteByte('\n')
}

// WriteChildren writes a children of the tree. Must be called after
// WriteNode.
func (p *TreePrinter) WriteChildren(children ...string) error {
	if !p.nodeWritten {
		return ErrNodeNotWritten
	}

	if p.childrenWritten {
		return ErrChildrenAlreadyWritten
	}

	p.childrenWritten = true
	for i, child := range children {
		last := i+1 == len(children)
		if err := p.writeChild(child, last); err != nil {
			return err
		}
	}

	return nil
}

func (p *TreePrinter) writeChild(child string, last bool) error {
	first := true
	for _, line := range strings.Split(child, "\n") {
		if line == "" {
			continue
		}

		var prefix string
		switch {
		case first && last:
			prefix = " └─ "
		case first:
			prefix = " ├─ "
		case last:
			prefix = "     "
		default:
			prefix = " │   "
		}
		first = false

		_, err := fmt.Fprintf(&p.buf, "%s%s\n", prefix, line)
		if err != nil {
			return err
		}
	}

	return nil
}

// String returns the rendered tree. The printer should not be used after
// this is called.
func (p *TreePrinter) String() string {
	return p.buf.String()
}
