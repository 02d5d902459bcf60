//go:build wasip1

// Command exprtree-wasm-wasi is the WASI (wasip1) entrypoint for use from any
// language that supports the WebAssembly System Interface.
//
// Protocol: single JSON object on stdin, single JSON object on stdout.
//
//	stdin:  { "tree": <element>, "types": "<yaml metadata>" }
//	stdout: { "tree": <canonical element> }           on success
//	        { "error": "<message>", "code": "E0301" }  on failure (exit code 1)
//
// "types" is optional and holds host type metadata in the same YAML form
// the exprtree CLI reads with -types.
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o exprtree.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"tree":{"tag":"default","attrs":{"type":"guid"}}}' | wasmtime exprtree.wasm
package main

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/sandrolain/exprtree"
	"github.com/sandrolain/exprtree/pkg/codec"
	"github.com/sandrolain/exprtree/pkg/metadata"
	"github.com/sandrolain/exprtree/pkg/types"
)

type request struct {
	Tree  json.RawMessage `json:"tree"`
	Types string          `json:"types,omitempty"`
}

type response struct {
	Tree  json.RawMessage `json:"tree,omitempty"`
	Error string          `json:"error,omitempty"`
	Code  string          `json:"code,omitempty"`
}

func writeResponse(r response, exitCode int) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	os.Exit(exitCode)
}

func fail(err error) {
	r := response{Error: err.Error()}
	var ce *types.Error
	if errors.As(err, &ce) {
		r.Code = string(ce.Code)
	}
	writeResponse(r, 1)
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(response{Error: "invalid request JSON: " + err.Error()}, 1)
	}
	if len(req.Tree) == 0 {
		writeResponse(response{Error: "request without tree"}, 1)
	}

	var opts []codec.Option
	if req.Types != "" {
		tb, err := metadata.LoadYAML(strings.NewReader(req.Types))
		if err != nil {
			fail(err)
		}
		opts = append(opts, codec.WithProvider(metadata.Chain{tb, metadata.Builtin()}))
	}

	out, err := exprtree.Canonicalize(req.Tree, opts...)
	if err != nil {
		fail(err)
	}
	writeResponse(response{Tree: out}, 0)
}
