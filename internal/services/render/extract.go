package render

import "strings"

// ExtractAnswer drops non user-facing preamble from an assistant answer.
//
// Text before the first marker is always dropped. When the line after the
// marker's line is not a list item, the answer restarts at the next marker
// (if any), discarding the reasoning in between. Content without the marker
// is returned unchanged, as is everything when marker is empty.
func ExtractAnswer(content, marker string) string {
	if marker == "" {
		return content
	}

	first := strings.Index(content, marker)
	if first < 0 {
		return content
	}
	answer := content[first:]

	nl := strings.IndexByte(answer, '\n')
	if nl < 0 {
		return answer
	}

	next := answer[nl+1:]
	if end := strings.IndexByte(next, '\n'); end >= 0 {
		next = next[:end]
	}
	if isListItem(next) {
		return answer
	}

	second := strings.Index(answer[len(marker):], marker)
	if second < 0 {
		return answer
	}
	return answer[len(marker)+second:]
}

// isListItem reports whether line opens a markdown bullet or numbered item.
func isListItem(line string) bool {
	line = strings.TrimRight(strings.TrimLeft(line, " \t"), "\r")
	if line == "" {
		return false
	}

	switch line[0] {
	case '-', '*', '+':
		return len(line) == 1 || line[1] == ' ' || line[1] == '\t'
	}

	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) || (line[i] != '.' && line[i] != ')') {
		return false
	}
	return i+1 == len(line) || line[i+1] == ' ' || line[i+1] == '\t'
}
