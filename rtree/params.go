package rtree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidParams is returned by New when the node size parameters can't
// produce a valid tree.
var ErrInvalidParams = errors.New("invalid rtree params")

// Strategy selects the node split algorithm used when a node overflows.
type Strategy int

const (
	// Linear picks split seeds in linear time and assigns the remaining
	// entries in a single pass.
	Linear Strategy = iota
	// Quadratic picks the pair of seeds that would waste the most space if
	// grouped together, then greedily assigns the rest.
	Quadratic
	// RStar uses forced reinsertion before splitting, and splits along the
	// axis with the smallest total margin.
	RStar
)

var strategyNames = [...]string{
	Linear:    "linear",
	Quadratic: "quadratic",
	RStar:     "rstar",
}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return strategyNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(strategyNames) {
		return nil, fmt.Errorf("unknown strategy %d", int(s))
	}
	return []byte(strategyNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Names are matched
// case-insensitively, and "r*" is accepted as an alias of "rstar".
func (s *Strategy) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	if name == "r*" {
		name = "rstar"
	}
	for i, n := range strategyNames {
		if n == name {
			*s = Strategy(i)
			return nil
		}
	}
	return fmt.Errorf("unknown strategy %q", string(text))
}

// Set and Type let a Strategy be used directly as a command line flag.
func (s *Strategy) Set(v string) error { return s.UnmarshalText([]byte(v)) }

func (s *Strategy) Type() string { return "strategy" }

// Params are the fixed construction parameters of a Tree.
type Params struct {
	// Dims is the number of dimensions of every indexable in the tree.
	Dims int `yaml:"dims" validate:"gte=1"`

	// MaxEntries is the largest number of entries a node may hold.
	MaxEntries int `yaml:"max_entries" validate:"gte=2"`

	// MinEntries is the smallest number of entries a non-root node may
	// hold. It must be at most half of MaxEntries.
	MinEntries int `yaml:"min_entries" validate:"gte=1"`

	Strategy Strategy `yaml:"strategy" validate:"gte=0,lte=2"`

	// ReinsertCount is how many entries RStar removes from an overflowing
	// node for forced reinsertion. Zero means 30% of MaxEntries. Ignored by
	// the other strategies.
	ReinsertCount int `yaml:"reinsert_count" validate:"gte=0"`
}

// DefaultParams returns R* parameters suited to general use.
func DefaultParams(dims int) Params {
	return Params{
		Dims:       dims,
		MaxEntries: 16,
		MinEntries: 4,
		Strategy:   RStar,
	}
}

var paramsValidate *validator.Validate

func init() {
	paramsValidate = validator.New()
	paramsValidate.RegisterStructValidation(validateParamsStruct, Params{})
}

func validateParamsStruct(sl validator.StructLevel) {
	p := sl.Current().Interface().(Params)
	if p.MinEntries > p.MaxEntries/2 {
		sl.ReportError(p.MinEntries, "MinEntries", "MinEntries", "halfmax", "")
	}
	if p.Strategy == RStar && p.ReinsertCount > p.MaxEntries+1-p.MinEntries {
		sl.ReportError(p.ReinsertCount, "ReinsertCount", "ReinsertCount", "reinsertmax", "")
	}
}

// Validate checks the parameters, returning an error wrapping
// ErrInvalidParams if they are unusable.
func (p Params) Validate() error {
	err := paramsValidate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe, p))
	}
	return fmt.Errorf("%w: %s", ErrInvalidParams, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError, p Params) string {
	switch fe.Tag() {
	case "halfmax":
		return fmt.Sprintf("min entries (%d) must be less than or equal to half of the max entries (%d)", p.MinEntries, p.MaxEntries)
	case "reinsertmax":
		return fmt.Sprintf("reinsert count (%d) would leave fewer than %d entries in a node", p.ReinsertCount, p.MinEntries)
	default:
		return fmt.Sprintf("%s is %v, must be %s %s", fe.Field(), fe.Value(), fe.Tag(), fe.Param())
	}
}

// reinsertCount resolves the number of entries removed by forced reinsertion.
func (p Params) reinsertCount() int {
	n := p.ReinsertCount
	if n == 0 {
		n = p.MaxEntries * 3 / 10
		if n < 1 {
			n = 1
		}
	}
	if limit := p.MaxEntries + 1 - p.MinEntries; n > limit {
		n = limit
	}
	return n
}
