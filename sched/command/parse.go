package command

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/twitter/procsim/sched/domain"
)

// Parser validates input lines against the command grammar and turns them into
// domain.Commands. It checks form only; whether a command makes sense for the
// current engine state is the engine's business.
//
//	S pid value runTime
//	B rid
//	U rid
//	Q
//	C op operand      op is one of A S M D
//	P
//	T
type Parser struct {
	// When > 0, B and U resource ids must be < Resources.
	Resources int
}

func NewParser(resources int) *Parser {
	return &Parser{Resources: resources}
}

var arity = map[domain.CommandType]int{
	domain.AdmitCmd:     3,
	domain.BlockCmd:     1,
	domain.UnblockCmd:   1,
	domain.TickCmd:      0,
	domain.ComputeCmd:   2,
	domain.ReportCmd:    0,
	domain.SummarizeCmd: 0,
}

// Validate reports whether line is a well formed command.
func (p *Parser) Validate(line string) error {
	_, err := p.Parse(line)
	return err
}

// Parse converts one line into a Command. Errors are MalformedCommand, or
// IndexOutOfRange for a resource id beyond the configured range.
func (p *Parser) Parse(line string) (domain.Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return domain.Command{}, malformed(line, "empty command")
	}
	t, ok := domain.CommandTypeForLetter(tokens[0])
	if !ok {
		return domain.Command{}, malformed(line, "unknown command %q", tokens[0])
	}
	args := tokens[1:]
	if len(args) != arity[t] {
		return domain.Command{}, malformed(line, "%s takes %d arguments, got %d", t, arity[t], len(args))
	}

	switch t {
	case domain.AdmitCmd:
		nums, err := digits(line, args)
		if err != nil {
			return domain.Command{}, err
		}
		if nums[0] > int64(maxInt) {
			return domain.Command{}, malformed(line, "pid %d is too large", nums[0])
		}
		return domain.Admit(domain.PID(nums[0]), nums[1], nums[2]), nil

	case domain.BlockCmd, domain.UnblockCmd:
		nums, err := digits(line, args)
		if err != nil {
			return domain.Command{}, err
		}
		if p.Resources > 0 && nums[0] >= int64(p.Resources) {
			return domain.Command{}, errors.Wrapf(
				domain.NewError(domain.IndexOutOfRange, "resource %d outside [0, %d)", nums[0], p.Resources),
				"line %q", line)
		}
		if nums[0] > int64(maxInt) {
			return domain.Command{}, malformed(line, "resource %d is too large", nums[0])
		}
		if t == domain.BlockCmd {
			return domain.Block(int(nums[0])), nil
		}
		return domain.Unblock(int(nums[0])), nil

	case domain.ComputeCmd:
		op, ok := domain.ComputeOpForLetter(args[0])
		if !ok {
			return domain.Command{}, malformed(line, "unknown compute op %q", args[0])
		}
		nums, err := digits(line, args[1:])
		if err != nil {
			return domain.Command{}, err
		}
		return domain.Compute(op, nums[0]), nil

	case domain.TickCmd:
		return domain.Tick(), nil
	case domain.ReportCmd:
		return domain.Report(), nil
	}
	return domain.Summarize(), nil
}

const maxInt = int(^uint(0) >> 1)

// digits converts tokens that must be made only of decimal digits.
func digits(line string, tokens []string) ([]int64, error) {
	out := make([]int64, len(tokens))
	for i, tok := range tokens {
		if !isDigits(tok) {
			return nil, malformed(line, "argument %q is not a non-negative integer", tok)
		}
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(domain.NewError(domain.MalformedCommand, "argument %q out of range", tok), "line %q", line)
		}
		out[i] = n
	}
	return out, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func malformed(line, format string, args ...interface{}) error {
	return errors.Wrapf(domain.NewError(domain.MalformedCommand, format, args...), "line %q", line)
}
