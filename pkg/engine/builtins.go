package engine

import (
	"fmt"
	"math"

	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms ease script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Line comments: ; and ;; comments become // comments, which is the
//     comment syntax zygomys understands.
//
//  2. Kebab-case to underscore: ease-in -> ease_in
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/8)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Only when the hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// floatArgs converts every argument to float64, checking the count.
func floatArgs(name string, args []zygo.Sexp, want int) ([]float64, error) {
	if len(args) != want {
		return nil, fmt.Errorf("%s: expected %d arguments, got %d", name, want, len(args))
	}
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", name, i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

type unaryFunc func(float64) float64

// unaryBuiltins are the shaping functions exposed to ease scripts.
var unaryBuiltins = map[string]unaryFunc{
	"ease_in":       func(x float64) float64 { return x * x },
	"ease_out":      func(x float64) float64 { return 1 - (1-x)*(1-x) },
	"ease_in_out":   smoothstep01,
	"invert":        func(x float64) float64 { return 1 - x },
	"sqrt":          math.Sqrt,
	"abs":           math.Abs,
	"exp":           math.Exp,
	"cos":           math.Cos,
	"sin":           math.Sin,
	"clamp01":       func(x float64) float64 { return math.Max(0, math.Min(1, x)) },
	"smootherstep":  func(x float64) float64 { return x * x * x * (x*(x*6-15) + 10) },
	"gaussian_fade": func(x float64) float64 { return math.Exp(-4 * x * x) },
}

func smoothstep01(x float64) float64 {
	return x * x * (3 - 2*x)
}

// registerBuiltins installs the ease script vocabulary. emit appends each
// evaluated sample to out.
func registerBuiltins(env *zygo.Zlisp, out *[]float64) {
	env.AddFunction("emit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("emit: expected 1 argument, got %d", len(args))
		}
		v, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("ease expression must return a number: %w", err)
		}
		*out = append(*out, v)
		return zygo.SexpNull, nil
	})

	for fname, fn := range unaryBuiltins {
		fn := fn
		env.AddFunction(fname, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			v, err := floatArgs(name, args, 1)
			if err != nil {
				return zygo.SexpNull, err
			}
			return &zygo.SexpFloat{Val: fn(v[0])}, nil
		})
	}

	// (clamp v lo hi)
	env.AddFunction("clamp", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := floatArgs(name, args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpFloat{Val: math.Max(v[1], math.Min(v[2], v[0]))}, nil
	})

	// (lerp a b t)
	env.AddFunction("lerp", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := floatArgs(name, args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpFloat{Val: v[0] + (v[1]-v[0])*v[2]}, nil
	})

	// (smoothstep edge0 edge1 x)
	env.AddFunction("smoothstep", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := floatArgs(name, args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		if v[1] == v[0] {
			if v[2] < v[0] {
				return &zygo.SexpFloat{Val: 0}, nil
			}
			return &zygo.SexpFloat{Val: 1}, nil
		}
		t := math.Max(0, math.Min(1, (v[2]-v[0])/(v[1]-v[0])))
		return &zygo.SexpFloat{Val: smoothstep01(t)}, nil
	})

	// (pow base exp)
	env.AddFunction("pow", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := floatArgs(name, args, 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpFloat{Val: math.Pow(v[0], v[1])}, nil
	})
}
