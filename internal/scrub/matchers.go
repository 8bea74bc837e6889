package scrub

import (
	"regexp"
	"strings"
)

// Matcher removes one structural form of media reference.
type Matcher struct {
	Name  string
	elem  element
	match func(sp span, t Target) bool
}

var (
	blockElement = element{
		open:  regexp.MustCompile(`(?is)<!--\s*wp:video\b(.*?)-->`),
		close: regexp.MustCompile(`(?is)<!--\s*/wp:video\s*-->`),
		selfClosing: func(opening string) bool {
			return strings.HasSuffix(strings.TrimSpace(strings.TrimSuffix(opening, "-->")), "/")
		},
	}
	shortcodeElement = element{
		open:  regexp.MustCompile(`(?is)\[video(?:\s([^\]]*))?\]`),
		close: regexp.MustCompile(`(?i)\[/video\]`),
	}
	videoElement = element{
		open:  regexp.MustCompile(`(?is)<video\b([^>]*)>`),
		close: regexp.MustCompile(`(?i)</video\s*>`),
		selfClosing: func(opening string) bool {
			return strings.HasSuffix(opening, "/>")
		},
	}
	anchorElement = element{
		open:  regexp.MustCompile(`(?is)<a\b([^>]*)>`),
		close: regexp.MustCompile(`(?i)</a\s*>`),
	}
)

// BlockByID removes wp:video blocks whose JSON attributes carry the attachment id.
var BlockByID = Matcher{
	Name: "block_by_id",
	elem: blockElement,
	match: func(sp span, t Target) bool {
		return t.idRe != nil && t.idRe.MatchString(sp.attrs)
	},
}

// BlockByURL removes wp:video blocks whose body contains the URL or its path.
var BlockByURL = Matcher{
	Name: "block_by_url",
	elem: blockElement,
	match: func(sp span, t Target) bool {
		return t.literalRe != nil && t.literalRe.MatchString(sp.inner)
	},
}

// Shortcode removes [video src="..."]...[/video] shortcodes.
var Shortcode = Matcher{
	Name: "shortcode",
	elem: shortcodeElement,
	match: func(sp span, t Target) bool {
		return t.srcRe != nil && t.srcRe.MatchString(sp.attrs)
	},
}

// VideoElement removes <video> elements whose src, or a nested <source> src,
// is the URL.
var VideoElement = Matcher{
	Name: "video_element",
	elem: videoElement,
	match: func(sp span, t Target) bool {
		if t.srcRe == nil {
			return false
		}
		return t.srcRe.MatchString(sp.attrs) || t.sourceRe.MatchString(sp.inner)
	},
}

// Anchor removes <a> links pointing at the URL.
var Anchor = Matcher{
	Name: "anchor",
	elem: anchorElement,
	match: func(sp span, t Target) bool {
		return t.hrefRe != nil && t.hrefRe.MatchString(sp.attrs)
	},
}

// Matchers is the ordered list applied by Remove. Blocks go first so that a
// block's inner <video> does not hide the block from BlockByURL.
var Matchers = []Matcher{BlockByID, BlockByURL, Shortcode, VideoElement, Anchor}

// Apply removes every occurrence matched for t and reports how many were removed.
func (m Matcher) Apply(body string, t Target) (string, int) {
	out, cuts := m.apply(body, t)
	return out, len(cuts)
}

func (m Matcher) apply(body string, t Target) (string, []cut) {
	var (
		b    strings.Builder
		last int
		cuts []cut
	)
	for _, sp := range m.elem.spans(body) {
		if sp.start < last || !m.match(sp, t) {
			continue
		}
		start, end := lineBounds(body, sp.start, sp.end)
		b.WriteString(body[last:start])
		last = end
		cuts = append(cuts, cut{start: start, end: end})
	}
	if len(cuts) == 0 {
		return body, nil
	}
	b.WriteString(body[last:])
	return b.String(), cuts
}

// lineBounds widens [start, end) to the whole line, including its newline,
// when nothing but horizontal whitespace shares the line with the span.
func lineBounds(body string, start, end int) (int, int) {
	lineStart := start
	for lineStart > 0 && isBlank(body[lineStart-1]) {
		lineStart--
	}
	if lineStart > 0 && body[lineStart-1] != '\n' {
		return start, end
	}
	lineEnd := end
	for lineEnd < len(body) && isBlank(body[lineEnd]) {
		lineEnd++
	}
	switch {
	case lineEnd == len(body):
		return lineStart, lineEnd
	case body[lineEnd] == '\n':
		return lineStart, lineEnd + 1
	case body[lineEnd] == '\r' && lineEnd+1 < len(body) && body[lineEnd+1] == '\n':
		return lineStart, lineEnd + 2
	}
	return start, end
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}
