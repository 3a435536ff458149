package domain

import (
	"fmt"
)

// CommandType selects the engine operation a Command drives.
type CommandType int

const (
	AdmitCmd CommandType = iota
	BlockCmd
	UnblockCmd
	TickCmd
	ComputeCmd
	ReportCmd
	SummarizeCmd
)

var commandLetters = map[CommandType]string{
	AdmitCmd:     "S",
	BlockCmd:     "B",
	UnblockCmd:   "U",
	TickCmd:      "Q",
	ComputeCmd:   "C",
	ReportCmd:    "P",
	SummarizeCmd: "T",
}

var commandNames = map[CommandType]string{
	AdmitCmd:     "admit",
	BlockCmd:     "block",
	UnblockCmd:   "unblock",
	TickCmd:      "tick",
	ComputeCmd:   "compute",
	ReportCmd:    "report",
	SummarizeCmd: "summarize",
}

// Letter is the wire token for the command type.
func (t CommandType) Letter() string {
	return commandLetters[t]
}

func (t CommandType) String() string {
	if n, ok := commandNames[t]; ok {
		return n
	}
	return fmt.Sprintf("CommandType(%d)", int(t))
}

// CommandTypeForLetter maps a wire token back to its CommandType.
func CommandTypeForLetter(letter string) (CommandType, bool) {
	for t, l := range commandLetters {
		if l == letter {
			return t, true
		}
	}
	return 0, false
}

// ComputeOp is the arithmetic applied by a Compute command.
type ComputeOp int

const (
	Add ComputeOp = iota
	Subtract
	Multiply
	Divide
)

var opLetters = map[ComputeOp]string{
	Add:      "A",
	Subtract: "S",
	Multiply: "M",
	Divide:   "D",
}

func (o ComputeOp) Letter() string {
	return opLetters[o]
}

func (o ComputeOp) String() string {
	switch o {
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Multiply:
		return "multiply"
	case Divide:
		return "divide"
	}
	return fmt.Sprintf("ComputeOp(%d)", int(o))
}

// ComputeOpForLetter maps A, S, M and D to their ops.
func ComputeOpForLetter(letter string) (ComputeOp, bool) {
	for o, l := range opLetters {
		if l == letter {
			return o, true
		}
	}
	return 0, false
}

// Apply computes value <op> operand. Division by zero is reported, not evaluated.
func (o ComputeOp) Apply(value, operand int64) (int64, error) {
	switch o {
	case Add:
		return value + operand, nil
	case Subtract:
		return value - operand, nil
	case Multiply:
		return value * operand, nil
	case Divide:
		if operand == 0 {
			return value, NewError(DivisionByZero, "cannot divide value %d by zero", value)
		}
		return value / operand, nil
	}
	return value, NewError(MalformedCommand, "unknown compute op %d", int(o))
}

// Command is one parsed, validated unit of input. Only the fields relevant
// to Type are meaningful.
type Command struct {
	Type     CommandType
	PID      PID
	Value    int64
	RunTime  int64
	Resource int
	Op       ComputeOp
	Operand  int64
}

func Admit(pid PID, value, runTime int64) Command {
	return Command{Type: AdmitCmd, PID: pid, Value: value, RunTime: runTime}
}

func Block(resource int) Command {
	return Command{Type: BlockCmd, Resource: resource}
}

func Unblock(resource int) Command {
	return Command{Type: UnblockCmd, Resource: resource}
}

func Tick() Command {
	return Command{Type: TickCmd}
}

func Compute(op ComputeOp, operand int64) Command {
	return Command{Type: ComputeCmd, Op: op, Operand: operand}
}

func Report() Command {
	return Command{Type: ReportCmd}
}

func Summarize() Command {
	return Command{Type: SummarizeCmd}
}

// String renders the command in its line form, e.g. "S 1 100 3".
func (c Command) String() string {
	switch c.Type {
	case AdmitCmd:
		return fmt.Sprintf("S %d %d %d", c.PID, c.Value, c.RunTime)
	case BlockCmd:
		return fmt.Sprintf("B %d", c.Resource)
	case UnblockCmd:
		return fmt.Sprintf("U %d", c.Resource)
	case ComputeCmd:
		return fmt.Sprintf("C %s %d", c.Op.Letter(), c.Operand)
	}
	return c.Type.Letter()
}
