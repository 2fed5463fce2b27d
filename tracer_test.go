package pegrat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologTracerEmitsOneEventPerAttempt(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewZerologTracer(zerolog.New(&buf))

	g := NewGrammar()
	InstallBuiltins(g)
	name := g.Ref("NAME")

	cfg := NewConfig()
	cfg.SetBool("trace.enabled", true)
	p := NewParserWithConfig(g, tracer, cfg)

	_, err := p.Parse(name, "hi", true)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.Contains(out, "rule attempt"))
	assert.True(t, strings.Contains(out, `"rule":"NAME"`))
}

func TestConfigGatesTracerAttempts(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewZerologTracer(zerolog.New(&buf))

	g := NewGrammar()
	InstallBuiltins(g)
	name := g.Ref("NAME")

	cfg := NewConfig()
	cfg.SetBool("trace.enabled", false)
	p := NewParserWithConfig(g, tracer, cfg)

	_, err := p.Parse(name, "hi", true)
	require.NoError(t, err)
	assert.Empty(t, buf.String(), "trace.enabled=false must suppress all Tracer.Attempt calls")
}

func TestParseWithDefaultsHonorsConfiguredRaiseOnUnconsumed(t *testing.T) {
	g := NewGrammar()
	InstallBuiltins(g)
	name := g.Ref("NAME")

	cfg := NewConfig()
	cfg.SetBool("parse.raise_on_unconsumed", false)
	p := NewParserWithConfig(g, nil, cfg)

	val, err := p.ParseWithDefaults(name, "foo bar")
	require.NoError(t, err)
	assert.Equal(t, "foo", val)

	cfg2 := NewConfig()
	cfg2.SetBool("parse.raise_on_unconsumed", true)
	p2 := NewParserWithConfig(g, nil, cfg2)
	_, err2 := p2.ParseWithDefaults(name, "foo bar")
	require.Error(t, err2)
	_, ok := err2.(*UnconsumedInputError)
	assert.True(t, ok)
}
