package scrub

import "regexp"

// element locates one kind of markup by its opening and closing markers.
// The opening pattern captures the element's attributes in group 1.
type element struct {
	open  *regexp.Regexp
	close *regexp.Regexp
	// selfClosing reports whether an opening marker has no body.
	selfClosing func(opening string) bool
}

type span struct {
	start, end int
	attrs      string
	inner      string
}

// spans returns every element occurrence in body in order. An opening marker
// with no closing marker before the next opening marker spans only itself.
func (e element) spans(body string) []span {
	opens := e.open.FindAllStringSubmatchIndex(body, -1)
	out := make([]span, 0, len(opens))
	for i, loc := range opens {
		sp := span{start: loc[0], end: loc[1]}
		if loc[2] >= 0 {
			sp.attrs = body[loc[2]:loc[3]]
		}
		if e.selfClosing != nil && e.selfClosing(body[loc[0]:loc[1]]) {
			out = append(out, sp)
			continue
		}
		limit := len(body)
		if i+1 < len(opens) {
			limit = opens[i+1][0]
		}
		if closeLoc := e.close.FindStringIndex(body[loc[1]:limit]); closeLoc != nil {
			sp.inner = body[loc[1] : loc[1]+closeLoc[0]]
			sp.end = loc[1] + closeLoc[1]
		}
		out = append(out, sp)
	}
	return out
}
