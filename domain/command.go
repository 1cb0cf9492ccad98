package domain

import (
	"strings"
)

// Verb is the keyword opening an inbound protocol line.
type Verb string

const (
	Say  Verb = "say"
	Name Verb = "name"
)

// Command is one parsed inbound line. It only lives for the duration of a dispatch step.
type Command struct {
	Verb     Verb
	Argument string
}

// ParseCommand strips the trailing line terminator and splits the line on its first space.
// A line without a space yields an empty argument.
func ParseCommand(line string) Command {
	line = strings.TrimRight(line, "\r\n")
	verb, argument, _ := strings.Cut(line, " ")
	return Command{Verb: Verb(verb), Argument: argument}
}

// SplitLines breaks a received unit into the lines it carries.
// Blank lines are dropped, a unit without any terminator is a single line.
func SplitLines(unit string) []string {
	var lines []string
	for _, line := range strings.Split(unit, "\n") {
		if strings.TrimRight(line, "\r") == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
