package discord

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"pung-bot/backend/internal/constants"
)

const (
	// "*(Part X/Y)*" plus a newline
	partIndicatorReserve = 20
	fenceClose           = "\n```"
)

// chunkMessage splits content for sending and labels the parts when there is
// more than one
func chunkMessage(content string) []string {
	maxLength := constants.DiscordMaxMessageLength
	if utf8.RuneCountInString(content) <= maxLength {
		return []string{content}
	}
	chunks := splitMessage(content, maxLength-partIndicatorReserve)
	if len(chunks) == 1 {
		return chunks
	}
	for i := range chunks {
		chunks[i] = fmt.Sprintf("%s\n*(Part %d/%d)*", chunks[i], i+1, len(chunks))
	}
	return chunks
}

// splitMessage breaks content into chunks of at most maxLength runes. It
// prefers line boundaries and reopens a code block that spans two chunks.
func splitMessage(content string, maxLength int) []string {
	if utf8.RuneCountInString(content) <= maxLength {
		return []string{content}
	}

	var (
		chunks  []string
		current strings.Builder
		size    int
		fence   string // opening marker of the code block in progress
	)
	write := func(s string) {
		current.WriteString(s)
		size += utf8.RuneCountInString(s)
	}
	flush := func() {
		text := current.String()
		if fence != "" {
			text += fenceClose
		}
		chunks = append(chunks, text)
		current.Reset()
		size = 0
		if fence != "" {
			write(fence)
		}
	}

	for _, line := range strings.Split(content, "\n") {
		width := maxLength - utf8.RuneCountInString(fenceClose) - utf8.RuneCountInString(fence) - 1
		if width < 1 {
			width = maxLength / 2
		}
		for _, piece := range wrapRunes(line, width) {
			if size > 0 {
				need := size + 1 + utf8.RuneCountInString(piece)
				if fence != "" {
					need += utf8.RuneCountInString(fenceClose)
				}
				if need > maxLength {
					flush()
				}
			}
			if size > 0 {
				write("\n")
			}
			write(piece)
		}

		if marker := strings.TrimSpace(line); strings.HasPrefix(marker, "```") {
			if fence == "" {
				fence = marker
			} else {
				fence = ""
			}
		}
	}
	if size > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// wrapRunes cuts a single line into pieces of at most width runes
func wrapRunes(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}
	var pieces []string
	runes := []rune(line)
	for len(runes) > width {
		cut := width
		// back off to a space in the second half of the window
		if i := lastSpace(runes[:width]); i > width/2 {
			cut = i
		}
		pieces = append(pieces, string(runes[:cut]))
		runes = runes[cut:]
		if len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		pieces = append(pieces, string(runes))
	}
	return pieces
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}
