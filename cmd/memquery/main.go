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

// Package main is the entry point for the memquery command-line tool.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/memquery-io/memquery/internal/facade"
	"github.com/memquery-io/memquery/internal/util/logging"
)

// The cli struct represents all command-line commands, fields and flags.
// It's used for parsing the user input.
var cli struct {
	Demo struct{} `cmd:"" default:"1" help:"Run the bundled end-to-end scenarios against an in-process store."`

	Log struct {
		Level  string `default:"info" help:"Log level: 'debug', 'info', 'warn', 'error'."`
		Format string `default:"text" help:"Log format: 'text' or 'json'."                enum:"text,json"`
	} `embed:"" prefix:"log-"`
}

var kongOptions = []kong.Option{
	kong.DefaultEnvars("MEMQUERY"),
}

func main() {
	ctx := kong.Parse(&cli, kongOptions...)

	var level slog.Level
	if err := level.UnmarshalText([]byte(cli.Log.Level)); err != nil {
		log.Fatal(err)
	}

	logger := logging.Setup(&logging.NewHandlerOpts{
		Level:  level,
		Format: cli.Log.Format,
	})

	switch ctx.Command() {
	case "demo":
		runDemo(logger)

	default:
		panic("unknown sub-command")
	}
}

// runDemo exercises the programmatic surface end-to-end against a fresh
// facade, printing each request's envelope.
func runDemo(logger *slog.Logger) {
	f := facade.New(logger)

	call := func(method string, args any) {
		raw, err := json.Marshal(args)
		if err != nil {
			log.Fatalf("marshal args for %s: %s", method, err)
		}

		env := f.Dispatch(method, raw)

		out, err := json.Marshal(env)
		if err != nil {
			log.Fatalf("marshal envelope for %s: %s", method, err)
		}

		fmt.Printf("%s -> %s\n", method, out)
	}

	call("create_collection", map[string]any{"name": "TestCollection"})
	call("collection", map[string]any{"name": "TestCollection"})

	call("insert", map[string]any{"name": "TestCollection", "doc": map[string]any{"name": "Rob", "age": 25}})
	call("insert", map[string]any{"name": "TestCollection", "doc": map[string]any{"name": "Bob", "age": 20}})
	call("insert", map[string]any{"name": "TestCollection", "doc": map[string]any{"name": "Tom", "age": 30}})

	call("find", map[string]any{"name": "TestCollection", "query": map[string]any{"name": "Bob"}})

	call("find", map[string]any{
		"name": "TestCollection",
		"query": map[string]any{
			"$or": []any{
				map[string]any{"name": "Bob"},
				map[string]any{"age": 30},
			},
		},
	})

	call("find_and_update", map[string]any{
		"name":   "TestCollection",
		"query":  map[string]any{"name": "Bob"},
		"update": map[string]any{"$inc": map[string]any{"age": 5}},
	})

	call("find", map[string]any{"name": "TestCollection", "query": map[string]any{"name": "Bob"}})

	call("find_and_update", map[string]any{
		"name":   "TestCollection",
		"query":  map[string]any{"name": "Bob"},
		"update": map[string]any{"$set": map[string]any{"age.$set": 21}},
	})

	call("find_and_delete", map[string]any{"name": "TestCollection", "query": map[string]any{}})

	call("find", map[string]any{"name": "TestCollection", "query": map[string]any{}})

	call("create_collection", map[string]any{"name": "Orders"})

	call("insert", map[string]any{
		"name": "Orders",
		"doc":  map[string]any{"item": map[string]any{"name": "ab"}, "qty": 15, "tags": []any{"A", "B", "C"}},
	})
	call("insert", map[string]any{
		"name": "Orders",
		"doc":  map[string]any{"item": map[string]any{"name": "cd"}, "qty": 20, "tags": []any{"B"}},
	})
	call("insert", map[string]any{
		"name": "Orders",
		"doc":  map[string]any{"item": map[string]any{"name": "mn"}, "qty": 20, "tags": []any{[]any{"A", "B"}, "C"}},
	})

	call("find", map[string]any{
		"name":  "Orders",
		"query": map[string]any{"tags": map[string]any{"$eq": []any{"A", "B"}}},
	})

	call("find", map[string]any{
		"name":  "Orders",
		"query": map[string]any{"tags": map[string]any{"$eq": "B"}},
	})
}
