package command

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/twitter/procsim/sched/domain"
)

func TestParse_ValidLines(t *testing.T) {
	p := NewParser(3)
	tests := []struct {
		line string
		want domain.Command
	}{
		{"S 1 100 3", domain.Admit(1, 100, 3)},
		{"S 0 0 0", domain.Admit(0, 0, 0)},
		{"B 2", domain.Block(2)},
		{"U 0", domain.Unblock(0)},
		{"Q", domain.Tick()},
		{"C A 7", domain.Compute(domain.Add, 7)},
		{"C S 7", domain.Compute(domain.Subtract, 7)},
		{"C M 2", domain.Compute(domain.Multiply, 2)},
		{"C D 0", domain.Compute(domain.Divide, 0)},
		{"P", domain.Report()},
		{"T", domain.Summarize()},
		{"  S\t4  5 6 ", domain.Admit(4, 5, 6)},
	}
	for _, test := range tests {
		cmd, err := p.Parse(test.line)
		if assert.NoError(t, err, test.line) {
			assert.Equal(t, test.want, cmd, test.line)
		}
	}
}

func TestParse_MalformedLines(t *testing.T) {
	p := NewParser(3)
	lines := []string{
		"",
		"   ",
		"X",
		"s 1 2 3",
		"S 1 2",
		"S 1 2 3 4",
		"S -1 2 3",
		"S 1 2.5 3",
		"S a b c",
		"B",
		"B 1 2",
		"U x",
		"Q 1",
		"C",
		"C X 1",
		"C A",
		"C A -1",
		"C a 1",
		"P now",
		"T 0",
		"S 99999999999999999999 1 1",
	}
	for _, line := range lines {
		_, err := p.Parse(line)
		assert.True(t, domain.IsKind(err, domain.MalformedCommand), "%q: %v", line, err)
	}
}

func TestParse_ResourceRange(t *testing.T) {
	p := NewParser(3)
	_, err := p.Parse("B 3")
	assert.True(t, domain.IsKind(err, domain.IndexOutOfRange), "%v", err)
	_, err = p.Parse("U 7")
	assert.True(t, domain.IsKind(err, domain.IndexOutOfRange), "%v", err)

	unbounded := NewParser(0)
	cmd, err := unbounded.Parse("B 7")
	assert.NoError(t, err)
	assert.Equal(t, domain.Block(7), cmd)
}

func TestValidate(t *testing.T) {
	p := NewParser(3)
	assert.NoError(t, p.Validate("Q"))
	assert.Error(t, p.Validate("Q Q"))
}

func TestParse_RoundTripsGeneratedStreams(t *testing.T) {
	p := NewParser(3)
	rng := NewRand()
	lines := GenRandomStream(rng, 200, 3)
	assert.Equal(t, "T", lines[len(lines)-1])
	for _, line := range lines {
		cmd, err := p.Parse(line)
		if assert.NoError(t, err, line) {
			assert.Equal(t, line, cmd.String())
		}
	}
}

func Test_ParseNeverAcceptsNonDigitArguments(t *testing.T) {
	properties := gopter.NewProperties(nil)
	p := NewParser(0)

	properties.Property("admit with a non digit argument is malformed", prop.ForAll(
		func(arg string) bool {
			_, err := p.Parse("S 1 " + arg + " 3")
			if isDigits(arg) {
				return err == nil
			}
			return domain.IsKind(err, domain.MalformedCommand)
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.Property("digit arguments always parse", prop.ForAll(
		func(pid, value, runTime uint32) bool {
			cmd, err := p.Parse(domain.Admit(domain.PID(pid), int64(value), int64(runTime)).String())
			return err == nil && cmd == domain.Admit(domain.PID(pid), int64(value), int64(runTime))
		},
		gen.UInt32(), gen.UInt32(), gen.UInt32(),
	))

	properties.TestingRun(t)
}
