/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

// Package ionlog holds the package-wide logger used by ion, ionhash, and
// cmd/ionbench. It defaults to a no-op logger so the library stays silent
// unless SetLogger is called. Being internal, it can only be imported from
// within this module.
package ionlog

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.SugaredLogger
	loggerOnce sync.Once
)

// Get returns the shared logger, initializing it to a no-op logger on first
// use if SetLogger was never called.
func Get() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop().Sugar()
		}
	})
	return logger
}

// SetLogger installs l as the shared logger. Code in this module that wants
// decoder/encoder/hasher diagnostics (cmd/ionbench) calls this before
// touching the rest of the package; library code never calls it itself.
func SetLogger(l *zap.SugaredLogger) {
	logger = l
}
