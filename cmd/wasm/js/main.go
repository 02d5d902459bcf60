//go:build js && wasm

// Command exprtree-wasm-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `exprtree` object with the following API:
//
//	exprtree.version()                   → string
//	exprtree.canonicalize(treeJSON)      → canonical treeJSON  (throws on error)
//	exprtree.withTypes(yaml)             → { canonicalize(treeJSON) → treeJSON }  (throws on error)
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o exprtree.wasm ./cmd/wasm/js/
package main

import (
	"fmt"
	"strings"
	"syscall/js"

	"github.com/sandrolain/exprtree"
	"github.com/sandrolain/exprtree/pkg/codec"
	"github.com/sandrolain/exprtree/pkg/metadata"
)

// jsThrow panics with a JS Error so the caller receives a thrown exception.
func jsThrow(msg string) {
	js.Global().Get("Error").New(msg)
	panic(msg)
}

func canonicalizeWith(name string, opts []codec.Option) js.Func {
	return js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) < 1 {
			jsThrow(name + " requires 1 argument: tree (JSON string)")
		}
		out, err := exprtree.Canonicalize([]byte(args[0].String()), opts...)
		if err != nil {
			jsThrow(fmt.Sprintf("%s: %v", name, err))
		}
		return string(out)
	})
}

// jsWithTypes implements exprtree.withTypes(yaml) → { canonicalize(treeJSON) }.
func jsWithTypes(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		jsThrow("exprtree.withTypes requires 1 argument: metadata (YAML string)")
	}
	tb, err := metadata.LoadYAML(strings.NewReader(args[0].String()))
	if err != nil {
		jsThrow(fmt.Sprintf("exprtree.withTypes: %v", err))
	}
	c := codec.New(codec.WithProvider(metadata.Chain{tb, metadata.Builtin()}))
	return js.ValueOf(map[string]any{
		"canonicalize": canonicalizeWith("canonicalize", []codec.Option{codec.WithResolver(c.Resolver())}),
	})
}

func main() {
	api := map[string]any{
		"canonicalize": canonicalizeWith("exprtree.canonicalize", nil),
		"withTypes":    js.FuncOf(jsWithTypes),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) any {
			return exprtree.Version()
		}),
	}
	js.Global().Set("exprtree", js.ValueOf(api))

	// Block forever; the JS event loop owns execution from here.
	select {}
}
