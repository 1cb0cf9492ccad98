// Package domain contains core concepts of the chat system.
// This file defines the text lines exchanged with clients.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"fmt"
	"strings"
)

const (
	// AnonymousName is the display name of a connection that never renamed itself.
	AnonymousName = "Anonymous"
	// ServerName labels messages generated by the server itself. No client may take it.
	ServerName = "Server"
)

// FormatBroadcast renders the wire shape of a chat line: "[<origin>] <text>\n".
func FormatBroadcast(origin, text string) string {
	return fmt.Sprintf("[%s] %s\n", origin, text)
}

// EnsureNewline terminates a line if it is not terminated yet.
func EnsureNewline(line string) string {
	if strings.HasSuffix(line, "\n") {
		return line
	}
	return line + "\n"
}

func JoinNotice(addr string) string {
	return fmt.Sprintf("New connection from %s", addr)
}

func LeaveNotice(name string) string {
	return fmt.Sprintf("%s left", name)
}

func RenameNotice(oldName, newName string) string {
	return fmt.Sprintf("%s renamed to %s", oldName, newName)
}

// HelpMessage lists the recognized verbs, one per line.
func HelpMessage(verbs []Verb) string {
	var b strings.Builder
	b.WriteString("Invalid command. Commands are:\n")
	for _, v := range verbs {
		b.WriteString(string(v))
		b.WriteString("\n")
	}
	return b.String()
}
