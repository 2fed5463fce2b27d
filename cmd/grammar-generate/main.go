// Command grammar-generate reads a grammar file in the PEG dialect
// and emits a Go source file declaring a pegrat.Grammar builder
// function for it.
package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/rs/zerolog"

	"github.com/peglang/pegrat"
	"github.com/peglang/pegrat/internal/compiler"
)

func main() {
	var (
		postprocess = flag.Bool("postprocess", false, "privatize anonymous item fields")
		indent      = flag.String("indent", "", "Go regex pattern overriding the no-linefeed whitespace rule")
		pkg         = flag.String("package", "generated", "package name of the emitted Go file")
		funcName    = flag.String("func", "BuildGrammar", "exported build-function name in the emitted Go file")
		digestLen   = flag.Int("digest-len", 8, "length of the content digest used to name synthesized sub-rules")
		trace       = flag.Bool("trace", false, "log rule-attempt trace events to stderr while parsing the input grammar")
	)
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		log.Fatal("usage: grammar-generate [--postprocess] [--indent EXPR] INFILE OUTFILE")
	}
	infile, outfile := args[0], args[1]

	cfg := pegrat.NewConfig()
	cfg.SetBool("compiler.postprocess", *postprocess)
	cfg.SetString("compiler.indent", *indent)
	cfg.SetInt("compiler.synthetic_name_digest_len", *digestLen)
	cfg.SetBool("trace.enabled", *trace)

	src, err := readAll(infile)
	if err != nil {
		log.Fatalf("can't read grammar: %s", err)
	}

	dialectGrammar, start := compiler.BuildDialectGrammar()
	parser := pegrat.NewParserWithConfig(dialectGrammar, pegrat.NewZerologTracer(zerolog.New(os.Stderr)), cfg)
	result, err := parser.ParseWithDefaults(start, src)
	if err != nil {
		log.Fatalf("can't parse grammar: %s", err)
	}

	grammarAST, ok := result.(compiler.Grammar)
	if !ok {
		log.Fatalf("internal error: bootstrap grammar produced %T, not compiler.Grammar", result)
	}

	out, err := compiler.Compile(grammarAST, *pkg, *funcName, cfg)
	if err != nil {
		log.Fatalf("can't emit code: %s", err)
	}

	if cfg.GetBool("compiler.postprocess") {
		out = compiler.PrivatizeAnonymousFields(out)
	}
	if cfg.GetString("compiler.indent") != "" {
		out = compiler.SwapIndentRegex(out, cfg.GetString("compiler.indent"))
	}

	if err := writeAll(outfile, out); err != nil {
		log.Fatalf("can't write output: %s", err)
	}
}

func readAll(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func writeAll(path, data string) error {
	if path == "-" {
		_, err := os.Stdout.WriteString(data)
		return err
	}
	return os.WriteFile(path, []byte(data), 0644)
}
