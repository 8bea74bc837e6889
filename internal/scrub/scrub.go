package scrub

import (
	"slices"
	"strings"
)

// Remove strips every reference to the attachment from body. changed is false
// exactly when the returned body equals body.
func Remove(body string, attachmentID int64, rawURL string) (string, bool) {
	return RemoveTarget(body, NewTarget(attachmentID, rawURL))
}

// RemoveTarget is Remove with a prepared Target. Cleanup only touches the
// text around each removal; the rest of body is left byte for byte.
func RemoveTarget(body string, t Target) (string, bool) {
	out := body
	var seams []int
	for _, m := range Matchers {
		var cuts []cut
		out, cuts = m.apply(out, t)
		if len(cuts) > 0 {
			seams = shiftSeams(seams, cuts)
		}
	}
	if len(seams) == 0 {
		return body, false
	}
	out = tidy(out, seams)
	return out, out != body
}

// cut is a removed byte range of the body it was taken from.
type cut struct {
	start, end int
}

// shiftSeams maps seams through cuts and adds the seams the cuts leave behind.
func shiftSeams(seams []int, cuts []cut) []int {
	out := make([]int, 0, len(seams)+len(cuts))
	for _, p := range seams {
		out = append(out, remap(p, cuts))
	}
	for _, c := range cuts {
		out = append(out, remap(c.start, cuts))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func remap(p int, cuts []cut) int {
	removed := 0
	for _, c := range cuts {
		if p <= c.start {
			break
		}
		if p < c.end {
			return c.start - removed
		}
		removed += c.end - c.start
	}
	return p - removed
}

// tidy drops paragraphs emptied by a removal and collapses blank line runs
// that meet a seam. Seams are ascending; they are handled from the back so
// earlier offsets stay valid.
func tidy(body string, seams []int) string {
	for i := len(seams) - 1; i >= 0; i-- {
		var at int
		body, at = tidySeam(body, seams[i])
		for j := 0; j < i; j++ {
			seams[j] = min(seams[j], at)
		}
	}
	return body
}

func tidySeam(body string, at int) (string, int) {
	for {
		start, end, ok := emptyParagraph(body, at)
		if !ok {
			break
		}
		start, end = lineBounds(body, start, end)
		body = body[:start] + body[end:]
		at = start
	}
	return collapseBlankLines(body, at)
}

// emptyParagraph reports the <p>...</p> around at when only whitespace
// separates at from both tags.
func emptyParagraph(body string, at int) (int, int, bool) {
	i := at
	for i > 0 && isSpace(body[i-1]) {
		i--
	}
	if i == 0 || body[i-1] != '>' {
		return 0, 0, false
	}
	open := strings.LastIndexByte(body[:i], '<')
	if open < 0 || !isParagraphOpen(body[open:i]) {
		return 0, 0, false
	}
	j := at
	for j < len(body) && isSpace(body[j]) {
		j++
	}
	const closing = "</p>"
	if len(body)-j < len(closing) || !strings.EqualFold(body[j:j+len(closing)], closing) {
		return 0, 0, false
	}
	return open, j + len(closing), true
}

func isParagraphOpen(tag string) bool {
	if len(tag) < 3 || !strings.EqualFold(tag[:2], "<p") {
		return false
	}
	return tag[2] == '>' || isSpace(tag[2])
}

// collapseBlankLines replaces a whitespace run at the seam holding three or
// more newlines with a single blank line.
func collapseBlankLines(body string, at int) (string, int) {
	start, end := at, at
	for start > 0 && isSpace(body[start-1]) {
		start--
	}
	for end < len(body) && isSpace(body[end]) {
		end++
	}
	run := body[start:end]
	if strings.Count(run, "\n") < 3 {
		return body, at
	}
	first := start + strings.IndexByte(run, '\n')
	last := start + strings.LastIndexByte(run, '\n')
	return body[:first] + "\n\n" + body[last+1:], first
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
