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
	"os"

	"github.com/sirupsen/logrus"
)

// Log field names used by the engine.
const (
	ConnectionIdLogField = "connectionID"
	QueryLogField        = "query"
)

func init() {
	if level := os.Getenv("ENGINE_LOG_LEVEL"); level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			logrus.Warnf("invalid ENGINE_LOG_LEVEL %q: %s", level, err)
		} else {
			logrus.SetLevel(lvl)
		}
	}
}
