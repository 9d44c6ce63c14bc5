package graph

import (
	"fmt"
	"math"
)

// ValidationSeverity indicates whether a finding makes the graph unusable
// downstream or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // graph cannot be rasterized
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding. Node is -1 for
// graph-level findings.
type ValidationError struct {
	Node     int
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Node < 0 {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %d: %s", e.Severity, e.Node, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Node    int
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory).
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether the result carries no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate checks the structural invariants of a graph: matrix sizes,
// symmetric 0/1 adjacency with an empty diagonal, and that every node is
// reached by at least one connection. Geometric findings (disconnected
// components, connections passing within radius of each other) are reported
// as warnings. Validate never mutates the graph.
func Validate(g *Graph, radius float64) ValidationResult {
	var result ValidationResult
	if g == nil {
		result.Errors = append(result.Errors, graphError("graph is nil"))
		return result
	}

	structural := validateMatrices(g)
	result.Errors = append(result.Errors, structural...)
	if len(structural) > 0 {
		// Later checks index the matrices.
		return result
	}

	result.Errors = append(result.Errors, validateAdjacency(g)...)
	result.Errors = append(result.Errors, validateWeights(g)...)
	result.Errors = append(result.Errors, validateIsolated(g)...)
	if len(result.Errors) > 0 {
		return result
	}

	result.Warnings = append(result.Warnings, validateGeometry(g, radius)...)
	return result
}

func graphError(msg string) ValidationError {
	return ValidationError{Node: -1, Message: msg, Severity: SeverityError}
}

func validateMatrices(g *Graph) []ValidationError {
	var errs []ValidationError
	n := len(g.Nodes)
	if len(g.Adjacency) != n*n {
		errs = append(errs, graphError(fmt.Sprintf(
			"adjacency has %d entries, want %d", len(g.Adjacency), n*n)))
	}
	if g.Weights != nil {
		if r := g.Weights.SymmetricDim(); r != n {
			errs = append(errs, graphError(fmt.Sprintf(
				"weight matrix dimension %d, want %d", r, n)))
		}
	}
	return errs
}

func validateAdjacency(g *Graph) []ValidationError {
	var errs []ValidationError
	n := len(g.Nodes)
	for i := 0; i < n; i++ {
		if g.Adjacency[i*n+i] != 0 {
			errs = append(errs, ValidationError{Node: i, Message: "connected to itself", Severity: SeverityError})
		}
		for j := i + 1; j < n; j++ {
			a, b := g.Adjacency[i*n+j], g.Adjacency[j*n+i]
			if a > 1 || b > 1 {
				errs = append(errs, ValidationError{Node: i, Message: fmt.Sprintf(
					"adjacency entry with node %d is not 0 or 1", j), Severity: SeverityError})
				continue
			}
			if a != b {
				errs = append(errs, ValidationError{Node: i, Message: fmt.Sprintf(
					"adjacency with node %d is not symmetric", j), Severity: SeverityError})
			}
		}
	}
	return errs
}

func validateWeights(g *Graph) []ValidationError {
	if g.Weights == nil {
		return nil
	}
	var errs []ValidationError
	n := len(g.Nodes)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w := g.Weights.At(i, j)
			if math.IsNaN(w) || w < 0 {
				errs = append(errs, ValidationError{Node: i, Message: fmt.Sprintf(
					"weight to node %d is %v", j, w), Severity: SeverityError})
			}
		}
	}
	return errs
}

func validateIsolated(g *Graph) []ValidationError {
	n := len(g.Nodes)
	if n < 2 {
		return nil
	}
	var errs []ValidationError
	for i := 0; i < n; i++ {
		if g.Degree(i) == 0 {
			errs = append(errs, ValidationError{Node: i, Message: "has no connections", Severity: SeverityError})
		}
	}
	return errs
}

func validateGeometry(g *Graph, radius float64) []ValidationWarning {
	var warnings []ValidationWarning
	if !g.IsConnected() {
		warnings = append(warnings, ValidationWarning{Node: -1, Message: "graph has more than one component"})
	}
	if radius > 0 {
		if c := g.IntersectionCount(radius); c > 0 {
			warnings = append(warnings, ValidationWarning{Node: -1, Message: fmt.Sprintf(
				"%d connection pairs pass within %g of each other", c, radius)})
		}
	}
	return warnings
}
