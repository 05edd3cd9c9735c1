// Copyright 2021 FerretDB Inc.
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

// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// NewHandlerOpts controls the handler returned by NewHandler.
type NewHandlerOpts struct {
	// Level is the minimum level that will be logged.
	Level slog.Leveler

	// Format selects the wire shape of log lines: "text" or "json".
	Format string

	// RemoveSource omits the source file:line from each record.
	RemoveSource bool
}

// NewHandler builds an slog.Handler writing to out per opts.
func NewHandler(out io.Writer, opts *NewHandlerOpts) slog.Handler {
	if opts == nil {
		opts = new(NewHandlerOpts)
	}

	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{
		AddSource: !opts.RemoveSource,
		Level:     opts.Level,
	}

	if opts.Format == "json" {
		return slog.NewJSONHandler(out, handlerOpts)
	}

	return slog.NewTextHandler(out, handlerOpts)
}

// Setup installs a logger built from opts as the slog default, and returns
// it so callers can also store it explicitly.
func Setup(opts *NewHandlerOpts) *slog.Logger {
	logger := slog.New(NewHandler(os.Stderr, opts))
	slog.SetDefault(logger)

	return logger
}
