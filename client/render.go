package client

import (
	"chat-relay/domain"
	"strings"

	"github.com/gookit/color"
)

var serverPrefix = "[" + domain.ServerName + "] "

// Render splits received text into display lines, highlighting senders when colours is set.
func Render(text string, colours bool) []string {
	var lines []string
	for _, line := range domain.SplitLines(text) {
		line = strings.TrimRight(line, "\r")
		if colours {
			line = colourize(line)
		}
		lines = append(lines, line)
	}
	return lines
}

func colourize(line string) string {
	if strings.HasPrefix(line, serverPrefix) {
		return color.Yellow.Sprint(line)
	}
	if strings.HasPrefix(line, "[") {
		if end := strings.Index(line, "] "); end > 0 {
			return color.New(color.FgCyan, color.OpBold).Render(line[:end+1]) + line[end+1:]
		}
	}
	return color.Gray.Sprint(line)
}
