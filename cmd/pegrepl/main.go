// Command pegrepl is an interactive sandbox for exercising the
// engine against a small built-in left-recursive arithmetic grammar
// (spec.md §8's worked example): type an expression, see the parsed
// tree or the failure position.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/peglang/pegrat"
)

// Plus is the record produced by a successful Expr + Num match.
type Plus struct {
	Left  any
	Right int
}

func buildArithmeticGrammar() (*pegrat.Grammar, pegrat.RuleID) {
	g := pegrat.NewGrammar()
	pegrat.InstallBuiltins(g)

	num := g.Regex(`[0-9]+`, func(s string) (any, error) {
		return strconv.Atoi(s)
	})
	g.Named("Num", num)

	plus := g.Sequence(
		func(v []any) (any, error) {
			return Plus{Left: v[0], Right: v[1].(int)}, nil
		},
		pegrat.Field{Name: "left", Rule: g.Ref("Expr")},
		pegrat.Field{Name: "_plus", Rule: g.Literal("+"), Hidden: true},
		pegrat.Field{Name: "right", Rule: num},
	)
	expr := g.Choice(plus, num)
	g.Named("Expr", expr)

	return g, expr
}

func main() {
	trace := flag.Bool("trace", false, "log rule-attempt trace events to stderr while parsing each line")
	flag.Parse()

	pterm.Info.Println("pegrepl: type an arithmetic expression, e.g. 1+2+3")

	rl, err := readline.New("pegrat> ")
	if err != nil {
		pterm.Error.Printfln("readline init: %s", err)
		return
	}
	defer rl.Close()

	g, start := buildArithmeticGrammar()

	cfg := pegrat.NewConfig()
	cfg.SetBool("trace.enabled", *trace)
	tracer := pegrat.NewZerologTracer(zerolog.New(os.Stderr))

	for {
		line, err := rl.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return
		}
		if err != nil {
			pterm.Error.Printfln("read error: %s", err)
			return
		}
		if line == "" {
			continue
		}

		parser := pegrat.NewParserWithConfig(g, tracer, cfg)
		val, parseErr := parser.ParseWithDefaults(start, line)
		if parseErr != nil {
			pterm.Error.Println(parseErr.Error())
			continue
		}
		pterm.Success.Println(renderTree(val))
	}
}

func renderTree(v any) string {
	switch t := v.(type) {
	case Plus:
		return fmt.Sprintf("Plus(%s, %d)", renderTree(t.Left), t.Right)
	case int:
		return fmt.Sprintf("%d", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
