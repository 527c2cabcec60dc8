package state

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Predicate decides whether a single state sample satisfies a condition.
type Predicate interface {
	Holds(v float64) bool
	String() string
}

// Op is a comparison operator for Compare.
type Op int

const (
	Less Op = iota
	LessEqual
	Greater
	GreaterEqual
	NotEqual
)

var opSymbols = map[Op]string{
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
	NotEqual:     "!=",
}

func (o Op) String() string {
	if s, ok := opSymbols[o]; ok {
		return s
	}

	return fmt.Sprintf("Op(%d)", int(o))
}

// ParseOp maps "<", "<=", ">", ">=", "!=" to an Op.
func ParseOp(s string) (Op, error) {
	for op, sym := range opSymbols {
		if sym == s {
			return op, nil
		}
	}

	return 0, fmt.Errorf("state: unknown comparison %q", s)
}

type equal float64

// Equal holds for samples equal to code.
func Equal(code float64) Predicate { return equal(code) }

func (p equal) Holds(v float64) bool { return v == float64(p) }
func (p equal) String() string       { return fmt.Sprintf("== %g", float64(p)) }

type in []float64

// In holds for samples equal to any of codes.
func In(codes ...float64) Predicate {
	c := slices.Clone(codes)
	slices.Sort(c)

	return in(c)
}

func (p in) Holds(v float64) bool {
	_, ok := slices.BinarySearch(p, v)
	return ok
}

func (p in) String() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = fmt.Sprintf("%g", c)
	}

	return "in {" + strings.Join(parts, ", ") + "}"
}

type compare struct {
	op Op
	v  float64
}

// Compare holds for samples s with "s op v".
func Compare(op Op, v float64) Predicate { return compare{op: op, v: v} }

func (p compare) Holds(v float64) bool {
	switch p.op {
	case Less:
		return v < p.v
	case LessEqual:
		return v <= p.v
	case Greater:
		return v > p.v
	case GreaterEqual:
		return v >= p.v
	case NotEqual:
		return v != p.v
	default:
		return false
	}
}

func (p compare) String() string { return fmt.Sprintf("%v %g", p.op, p.v) }

type bit uint

// Bit holds for non-negative integral samples with bit n set, the
// state-vector convention where each bit reports one subsystem.
func Bit(n uint) Predicate { return bit(n) }

func (p bit) Holds(v float64) bool {
	if v < 0 || v != math.Trunc(v) || v >= 1<<63 {
		return false
	}

	return uint64(v)&(1<<uint(p)) != 0
}

func (p bit) String() string { return fmt.Sprintf("bit %d", uint(p)) }

type not struct{ p Predicate }

// Not inverts p.
func Not(p Predicate) Predicate { return not{p: p} }

func (p not) Holds(v float64) bool { return !p.p.Holds(v) }
func (p not) String() string       { return "not (" + p.p.String() + ")" }

// Parse reads the textual form produced by the predicates' String methods:
// "== 500", "!= 3", "< 10", "in {1, 2}", "bit 4" and "not (...)". A bare
// number is shorthand for equality.
func Parse(text string) (Predicate, error) {
	s := strings.TrimSpace(text)

	switch {
	case s == "":
		return nil, fmt.Errorf("state: empty predicate")
	case strings.HasPrefix(s, "not "):
		inner := strings.TrimSpace(strings.TrimPrefix(s, "not "))
		if strings.HasPrefix(inner, "(") && strings.HasSuffix(inner, ")") {
			inner = inner[1 : len(inner)-1]
		}

		p, err := Parse(inner)
		if err != nil {
			return nil, err
		}

		return Not(p), nil
	case strings.HasPrefix(s, "bit "):
		n, err := strconv.ParseUint(strings.TrimSpace(s[len("bit "):]), 10, 6)
		if err != nil {
			return nil, fmt.Errorf("state: bit index in %q: %w", text, err)
		}

		return Bit(uint(n)), nil
	case strings.HasPrefix(s, "in "):
		list := strings.Trim(strings.TrimSpace(s[len("in "):]), "{}")

		var codes []float64

		for _, field := range strings.Split(list, ",") {
			v, err := parseCode(field)
			if err != nil {
				return nil, fmt.Errorf("state: %q: %w", text, err)
			}

			codes = append(codes, v)
		}

		return In(codes...), nil
	case strings.HasPrefix(s, "=="):
		v, err := parseCode(s[2:])
		if err != nil {
			return nil, fmt.Errorf("state: %q: %w", text, err)
		}

		return Equal(v), nil
	}

	// two-character operators first so "<=" is not read as "<"
	for _, sym := range []string{"<=", ">=", "!=", "<", ">"} {
		if !strings.HasPrefix(s, sym) {
			continue
		}

		op, _ := ParseOp(sym)

		v, err := parseCode(s[len(sym):])
		if err != nil {
			return nil, fmt.Errorf("state: %q: %w", text, err)
		}

		return Compare(op, v), nil
	}

	v, err := parseCode(s)
	if err != nil {
		return nil, fmt.Errorf("state: unknown predicate %q", text)
	}

	return Equal(v), nil
}

func parseCode(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite state code %v", v)
	}

	return v, nil
}
