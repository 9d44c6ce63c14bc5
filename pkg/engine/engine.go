// Package engine evaluates user-supplied ease curves written in a small Lisp
// dialect. It wraps zygomys in a sandboxed environment and bakes the curve
// into a table of samples that the rasterizer can read without calling back
// into the interpreter.
package engine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
)

// MinSamples is the smallest table Bake will produce.
const MinSamples = 2

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine bakes ease scripts. Each call to Bake creates a fresh sandboxed
// environment. When calls overlap only the most recent one returns samples;
// older ones report that they were superseded.
type Engine struct {
	// Timeout bounds a single Bake. Zero means EvalTimeout.
	Timeout time.Duration

	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Bake evaluates source as the body of a function of x and samples it at
// samples evenly spaced points over [0, 1], both ends included.
//
// Return semantics:
//   - On success: returns samples + nil errors + nil error
//   - On parse/eval failure: returns nil + eval errors + nil error
//   - On fatal failure (timeout, panic, bad arguments): returns nil + nil + error
func (e *Engine) Bake(source string, samples int) ([]float64, []EvalError, error) {
	if samples < MinSamples {
		return nil, nil, fmt.Errorf("engine: need at least %d samples, got %d", MinSamples, samples)
	}
	if strings.TrimSpace(source) == "" {
		return nil, []EvalError{{Message: "empty ease expression"}}, nil
	}

	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan bakeResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- bakeResult{err: fmt.Errorf("engine: panic during evaluation: %v", r)}
			}
		}()

		table, evalErrs, err := bake(source, samples)
		ch <- bakeResult{samples: table, errors: evalErrs, err: err}
	}()

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = EvalTimeout
	}
	res, err := waitWithTimeout(ch, timeout, gen, &e.mu, &e.generation)
	if err != nil {
		return nil, nil, err
	}
	return res.samples, res.errors, res.err
}

// bake performs the actual zygomys evaluation in a fresh sandbox.
func bake(source string, samples int) ([]float64, []EvalError, error) {
	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	var out []float64
	registerBuiltins(env, &out)

	err := env.LoadString(program(preprocessSource(source), samples))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	if len(out) != samples {
		return nil, []EvalError{{Message: fmt.Sprintf(
			"ease expression produced %d samples, want %d", len(out), samples)}}, nil
	}
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, []EvalError{{Message: fmt.Sprintf(
				"ease expression is not finite at x=%g", sampleX(i, samples))}}, nil
		}
	}
	return out, nil, nil
}

// program wraps the user body in a function of x followed by one emit call
// per sample. The body starts on line 2 of the generated program.
func program(body string, samples int) string {
	var b strings.Builder
	b.WriteString("(defn ease_fn [x]\n")
	b.WriteString(body)
	b.WriteString("\n)\n")
	for i := 0; i < samples; i++ {
		fmt.Fprintf(&b, "(emit (ease_fn %.9f))\n", sampleX(i, samples))
	}
	return b.String()
}

func sampleX(i, samples int) float64 {
	return float64(i) / float64(samples-1)
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// Line numbers are reported relative to the user's source.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    sourceLine(line),
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}

// sourceLine maps a line of the generated program back to the user body.
func sourceLine(line int) int {
	if line <= 1 {
		return 0
	}
	return line - 1
}
