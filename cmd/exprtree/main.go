// Command exprtree checks, formats and explores serialized expression trees.
//
// Usage:
//
//	exprtree check [-types meta.yaml] file...
//	exprtree fmt   [-types meta.yaml] [-w] file...
//	exprtree repl  [-types meta.yaml]
//
// Files hold one tree in the JSON element form; comments and trailing
// commas are accepted. -types loads host type metadata from YAML in
// addition to the built-in types.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/tailscale/hujson"

	"github.com/sandrolain/exprtree"
	"github.com/sandrolain/exprtree/pkg/codec"
	"github.com/sandrolain/exprtree/pkg/metadata"
)

const (
	appName     = "exprtree"
	historyFile = ".exprtree_history"
	promptMain  = "tree> "
	promptCont  = "....> "
)

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "check":
		os.Exit(cmdCheck(os.Args[2:]))
	case "fmt":
		os.Exit(cmdFmt(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(exprtree.Version())
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [flags] [files]

Commands:
  check    decode each file and report errors
  fmt      decode and re-encode each file in canonical indented form
  repl     read trees interactively and print their canonical form
  version  print the version
`, appName)
}

// commonFlags registers the flags every command accepts.
type commonFlags struct {
	types *string
	debug *bool
}

func addCommon(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		types: fs.String("types", "", "YAML file with host type metadata"),
		debug: fs.Bool("debug", false, "log every node"),
	}
}

// newCodec builds a codec over the built-in metadata plus the -types table.
func (f commonFlags) newCodec() (*codec.Codec, error) {
	opts := []codec.Option{codec.WithIndent(true)}
	if *f.debug {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, codec.WithDebug(true), codec.WithLogger(logger))
	}
	if *f.types != "" {
		tb, err := metadata.LoadYAMLFile(*f.types)
		if err != nil {
			return nil, err
		}
		opts = append(opts, codec.WithProvider(metadata.Chain{tb, metadata.Builtin()}))
	}
	return codec.New(opts...), nil
}

// -----------------------------------------------------------------------------
// check
// -----------------------------------------------------------------------------

func cmdCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	common := addCommon(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "%s check: no files\n", appName)
		return 2
	}
	c, err := common.newCodec()
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}

	bad := 0
	for _, path := range fs.Args() {
		src, err := os.ReadFile(path)
		if err == nil {
			_, err = c.Decode(src)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", path, red(err.Error()))
			bad++
			continue
		}
		fmt.Printf("%s: %s\n", path, green("ok"))
	}
	if bad > 0 {
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// fmt
// -----------------------------------------------------------------------------

func cmdFmt(args []string) int {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	common := addCommon(fs)
	write := fs.Bool("w", false, "write result to the source file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "%s fmt: no files\n", appName)
		return 2
	}
	c, err := common.newCodec()
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}

	for _, path := range fs.Args() {
		out, err := canonical(c, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", path, red(err.Error()))
			return 1
		}
		if !*write {
			os.Stdout.Write(out)
			continue
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", path, red(err.Error()))
			return 1
		}
	}
	return 0
}

// canonical decodes a file and encodes it again.
func canonical(c *codec.Codec, path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree, err := c.Decode(src)
	if err != nil {
		return nil, err
	}
	return c.Encode(tree)
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	common := addCommon(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	c, err := common.newCodec()
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}

	fmt.Printf("%s %s\nEnter a tree; Ctrl+C cancels input, Ctrl+D exits. Type :quit to exit.\n", appName, exprtree.Version())

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	for {
		src, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}
		trimmed := strings.TrimSpace(src)
		switch {
		case trimmed == "":
			continue
		case trimmed == ":quit":
			return 0
		case strings.HasPrefix(trimmed, ":"):
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		tree, err := c.Decode([]byte(src))
		if err == nil {
			var out []byte
			if out, err = c.Encode(tree); err == nil {
				fmt.Println(green(string(out)))
			}
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	}
}

// readByParseProbe reads lines until they form a complete HuJSON value or
// a syntax error that more input cannot fix.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := hujson.Parse([]byte(src)); err != nil && errors.Is(err, io.ErrUnexpectedEOF) {
			continue
		}
		return src, true
	}
}
