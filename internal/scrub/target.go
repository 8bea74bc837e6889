package scrub

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Target identifies the media item whose references are removed.
type Target struct {
	AttachmentID int64
	URL          string
	// Path is the URL with scheme and host stripped; empty when unusable.
	Path string

	keys      []string
	idRe      *regexp.Regexp
	srcRe     *regexp.Regexp
	hrefRe    *regexp.Regexp
	sourceRe  *regexp.Regexp
	literalRe *regexp.Regexp
}

// NewTarget prepares the match keys for attachmentID and rawURL.
func NewTarget(attachmentID int64, rawURL string) Target {
	t := Target{AttachmentID: attachmentID, URL: rawURL, Path: urlPath(rawURL)}
	t.keys = matchKeys(rawURL, t.Path)
	if attachmentID > 0 {
		t.idRe = regexp.MustCompile(`"id"\s*:\s*` + strconv.FormatInt(attachmentID, 10) + `\b`)
	}
	if len(t.keys) == 0 {
		return t
	}

	quoted := make([]string, len(t.keys))
	for i, key := range t.keys {
		quoted[i] = regexp.QuoteMeta(key)
	}
	alt := "(?:" + strings.Join(quoted, "|") + ")"
	value := `\s*=\s*(?:"` + alt + `"|'` + alt + `')`

	t.srcRe = regexp.MustCompile(`(?i)(?:^|\s)src` + value)
	t.hrefRe = regexp.MustCompile(`(?i)(?:^|\s)href` + value)
	t.sourceRe = regexp.MustCompile(`(?is)<source\b[^>]*?\ssrc` + value)
	t.literalRe = regexp.MustCompile(alt + `(?:[^\w.%/-]|$)`)
	return t
}

// urlPath returns the escaped path of rawURL, or "" when the path is empty,
// the root, or the URL does not parse.
func urlPath(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	path := u.EscapedPath()
	if path == "" || path == "/" {
		return ""
	}
	return path
}

func matchKeys(rawURL, path string) []string {
	var keys []string
	add := func(key string) {
		if key == "" || key == "/" {
			return
		}
		for _, existing := range keys {
			if existing == key {
				return
			}
		}
		keys = append(keys, key)
	}
	for _, key := range []string{rawURL, path} {
		add(key)
		if strings.Contains(key, "&") {
			add(strings.ReplaceAll(key, "&", "&amp;"))
		}
	}
	return keys
}
