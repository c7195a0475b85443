// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/ankitools/internal/textutil"
)

// Operation is an arithmetic operator.
type Operation string

const (
	OpAdd      Operation = "add"
	OpMultiply Operation = "multiply"
)

// ErrInvalidOperands is returned when the operand list cannot be parsed.
var ErrInvalidOperands = errors.New("operands must be a comma-delimited list of integers")

// Symbol returns the operator as shown on the card front.
func (op Operation) Symbol() string {
	if op == OpMultiply {
		return "×"
	}
	return "+"
}

// Tag returns the kind tag for notes of this operation.
func (op Operation) Tag() string {
	if op == OpMultiply {
		return TagMultiplication
	}
	return TagAddition
}

// Apply computes a op b.
func (op Operation) Apply(a, b int64) int64 {
	if op == OpMultiply {
		return a * b
	}
	return a + b
}

// ParseOperations maps a CLI selection (addition, multiplication, all) to
// operations in generation order.
func ParseOperations(s string) ([]Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return []Operation{OpAdd, OpMultiply}, nil
	case "addition", "add":
		return []Operation{OpAdd}, nil
	case "multiplication", "multiply":
		return []Operation{OpMultiply}, nil
	}
	return nil, fmt.Errorf("unknown operation %q (want addition, multiplication or all)", s)
}

// ParseOperands parses a comma-delimited integer list such as "3,7,8".
func ParseOperands(s string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("%w: empty operand in %q", ErrInvalidOperands, s)
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidOperands, part)
		}
		out = append(out, n)
	}
	return out, nil
}

// ArithmeticOptions controls how problems are rendered.
type ArithmeticOptions struct {
	Deck        string
	GroupDigits bool
}

// Arithmetic builds the note for a op b: front "a + b" or "a × b", back the result.
func Arithmetic(a, b int64, op Operation, opts ArithmeticOptions) Draft {
	front := fmt.Sprintf("%s %s %s",
		textutil.FormatInt(a, opts.GroupDigits), op.Symbol(), textutil.FormatInt(b, opts.GroupDigits))
	back := textutil.FormatInt(op.Apply(a, b), opts.GroupDigits)
	return Draft{
		Label: front,
		Note:  basicNote(opts.Deck, front, back, TagArithmetic, op.Tag()),
	}
}

// ArithmeticSet builds every ordered operand pair for each operation.
// Problems whose front repeats within the set are generated once.
func ArithmeticSet(operands []int64, ops []Operation, opts ArithmeticOptions) []Draft {
	seen := make(map[string]bool)
	var drafts []Draft
	for _, a := range operands {
		for _, b := range operands {
			for _, op := range ops {
				d := Arithmetic(a, b, op, opts)
				if seen[d.Label] {
					continue
				}
				seen[d.Label] = true
				drafts = append(drafts, d)
			}
		}
	}
	return drafts
}
