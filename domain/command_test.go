package domain

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func TestParseCommand(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		name     string
		line     string
		expected Command
	}{
		{
			name:     "Verb and argument",
			line:     "say hello",
			expected: Command{Verb: Say, Argument: "hello"},
		},
		{
			name:     "Argument keeps its inner spaces",
			line:     "say hello  big world",
			expected: Command{Verb: Say, Argument: "hello  big world"},
		},
		{
			name:     "Trailing CRLF is stripped",
			line:     "name Alice\r\n",
			expected: Command{Verb: Name, Argument: "Alice"},
		},
		{
			name:     "No space means no argument",
			line:     "say\n",
			expected: Command{Verb: Say, Argument: ""},
		},
		{
			name:     "Unknown verb is kept as is",
			line:     "foo bar",
			expected: Command{Verb: "foo", Argument: "bar"},
		},
		{
			name:     "Empty line",
			line:     "",
			expected: Command{},
		},
	}

	for _, tt := range tests {
		req.Equal(tt.expected, ParseCommand(tt.line), "test=%s", tt.name)
	}
}

func TestSplitLines(t *testing.T) {
	req := require.New(t)

	// Given a unit sent without terminator
	// Then it is a single line
	req.Equal([]string{"say hi"}, SplitLines("say hi"))

	// Given two lines received in the same read
	// Then both are returned in order, blank lines dropped
	req.Equal([]string{"say a\r", "name b"}, SplitLines("say a\r\n\nname b\n"))

	// Given only terminators
	req.Nil(SplitLines("\r\n\n"))
}

func TestHelpMessage(t *testing.T) {
	req := require.New(t)
	req.Equal("Invalid command. Commands are:\nsay\nname\n", HelpMessage([]Verb{Say, Name}))
}

func TestFormatBroadcast(t *testing.T) {
	req := require.New(t)
	req.Equal("[Bob] hello\n", FormatBroadcast("Bob", "hello"))
	req.Equal("[Server] Anonymous renamed to Alice\n", FormatBroadcast(ServerName, RenameNotice(AnonymousName, "Alice")))
	req.Equal("Welcome\n", EnsureNewline("Welcome"))
	req.Equal("Welcome\n", EnsureNewline("Welcome\n"))
}
