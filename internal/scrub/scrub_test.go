package scrub_test

import (
	"strings"
	"testing"

	"vidsweep/internal/scrub"
)

const (
	videoURL  = "https://example.com/uploads/v.mp4"
	videoPath = "/uploads/v.mp4"
)

func TestRemoveScenario(t *testing.T) {
	body := "<p>intro</p>\n[video src=\"https://example.com/uploads/v.mp4\"][/video]\n<p>outro</p>"
	got, changed := scrub.Remove(body, 42, videoURL)
	if !changed {
		t.Fatal("expected change")
	}
	if want := "<p>intro</p>\n<p>outro</p>"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestMatchersIndividually(t *testing.T) {
	target := scrub.NewTarget(42, videoURL)
	cases := []struct {
		name    string
		matcher scrub.Matcher
		body    string
		want    string
		removed int
	}{
		{
			name:    "block by id",
			matcher: scrub.BlockByID,
			body:    "a\n<!-- wp:video {\"id\":42} -->\n<figure class=\"wp-block-video\"><video src=\"https://elsewhere/x.mp4\"></video></figure>\n<!-- /wp:video -->\nb",
			want:    "a\nb",
			removed: 1,
		},
		{
			name:    "block by id ignores longer ids",
			matcher: scrub.BlockByID,
			body:    "<!-- wp:video {\"id\":420} --><figure></figure><!-- /wp:video -->",
			want:    "<!-- wp:video {\"id\":420} --><figure></figure><!-- /wp:video -->",
		},
		{
			name:    "block by id tolerates spacing and case",
			matcher: scrub.BlockByID,
			body:    "x<!--WP:VIDEO {\"autoplay\":true, \"id\" : 42}--><figure></figure><!-- /wp:video -->y",
			want:    "xy",
			removed: 1,
		},
		{
			name:    "block by url",
			matcher: scrub.BlockByURL,
			body:    "<!-- wp:video -->\n<figure><video controls src=\"https://example.com/uploads/v.mp4\"></video></figure>\n<!-- /wp:video -->",
			want:    "",
			removed: 1,
		},
		{
			name:    "block by url leaves other blocks",
			matcher: scrub.BlockByURL,
			body:    "<!-- wp:video --><video src=\"https://example.com/uploads/other.mp4\"></video><!-- /wp:video -->",
			want:    "<!-- wp:video --><video src=\"https://example.com/uploads/other.mp4\"></video><!-- /wp:video -->",
		},
		{
			name:    "block by url needs a boundary after the url",
			matcher: scrub.BlockByURL,
			body:    "<!-- wp:video --><video src=\"https://example.com/uploads/v.mp4.bak\"></video><!-- /wp:video -->",
			want:    "<!-- wp:video --><video src=\"https://example.com/uploads/v.mp4.bak\"></video><!-- /wp:video -->",
		},
		{
			name:    "shortcode with attributes in any order",
			matcher: scrub.Shortcode,
			body:    "before [VIDEO width=\"640\" SRC='https://example.com/uploads/v.mp4' loop=\"on\"]caption[/Video] after",
			want:    "before  after",
			removed: 1,
		},
		{
			name:    "shortcode ignores data-src",
			matcher: scrub.Shortcode,
			body:    "[video data-src=\"https://example.com/uploads/v.mp4\"][/video]",
			want:    "[video data-src=\"https://example.com/uploads/v.mp4\"][/video]",
		},
		{
			name:    "video element src spanning lines",
			matcher: scrub.VideoElement,
			body:    "<p>a</p>\n<video\n  controls\n  src=\"https://example.com/uploads/v.mp4\">\n  fallback\n</VIDEO>\n<p>b</p>",
			want:    "<p>a</p>\n<p>b</p>",
			removed: 1,
		},
		{
			name:    "video element nested source",
			matcher: scrub.VideoElement,
			body:    "<Video controls><source type=\"video/mp4\" SRC=\"https://example.com/uploads/v.mp4\"></Video>",
			want:    "",
			removed: 1,
		},
		{
			name:    "video element does not reach into the next element",
			matcher: scrub.VideoElement,
			body:    "<video src=\"https://a/other.mp4\"></video><video><source src=\"https://example.com/uploads/v.mp4\"></video>",
			want:    "<video src=\"https://a/other.mp4\"></video>",
			removed: 1,
		},
		{
			name:    "anchor",
			matcher: scrub.Anchor,
			body:    "see <A class=\"dl\" HREF=\"https://example.com/uploads/v.mp4\">the\nvideo</a>.",
			want:    "see .",
			removed: 1,
		},
		{
			name:    "anchor to another url",
			matcher: scrub.Anchor,
			body:    "<a href=\"https://example.com/uploads/v.mp4?dl=1\">x</a>",
			want:    "<a href=\"https://example.com/uploads/v.mp4?dl=1\">x</a>",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, removed := tc.matcher.Apply(tc.body, target)
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
			if removed != tc.removed {
				t.Fatalf("removed %d, want %d", removed, tc.removed)
			}
		})
	}
}

func TestRemoveStripsExactlyNReferences(t *testing.T) {
	unrelated := []string{
		"<h2>Heading</h2>",
		"<p>Some   text with   spacing</p>",
		"[video src=\"https://example.com/uploads/keep.mp4\"][/video]",
		"<video src=\"https://cdn.example/keep.webm\"></video>",
		"<a href=\"https://example.com/\">home</a>",
	}
	references := []string{
		"<!-- wp:video {\"id\":42} -->\n<figure><video src=\"https://example.com/uploads/v.mp4\"></video></figure>\n<!-- /wp:video -->",
		"[video src=\"https://example.com/uploads/v.mp4\"][/video]",
		"<video controls><source src=\"/uploads/v.mp4\" type=\"video/mp4\"></video>",
		"<a href=\"https://example.com/uploads/v.mp4\">download</a>",
	}

	var mixed, expected []string
	for i := range unrelated {
		mixed = append(mixed, unrelated[i])
		expected = append(expected, unrelated[i])
		if i < len(references) {
			mixed = append(mixed, references[i])
		}
	}
	body := strings.Join(mixed, "\n")

	got, changed := scrub.Remove(body, 42, videoURL)
	if !changed {
		t.Fatal("expected change")
	}
	if want := strings.Join(expected, "\n"); got != want {
		t.Fatalf("got\n%q\nwant\n%q", got, want)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	bodies := []string{
		"<p>intro</p>\n[video src=\"https://example.com/uploads/v.mp4\"][/video]\n<p>outro</p>",
		"<p><a href=\"/uploads/v.mp4\">x</a></p>\n\n\n\n<p>after</p>",
		"<p><p><video src=\"https://example.com/uploads/v.mp4\"></video></p></p>",
	}
	for _, body := range bodies {
		once, changed := scrub.Remove(body, 42, videoURL)
		if !changed {
			t.Fatalf("expected first pass to change %q", body)
		}
		twice, changedAgain := scrub.Remove(once, 42, videoURL)
		if changedAgain || twice != once {
			t.Fatalf("second pass changed %q to %q", once, twice)
		}
	}
}

func TestPathOnlyReferencesMatchLikeFullURL(t *testing.T) {
	forms := []string{
		"[video src=\"%s\"][/video]",
		"<video src=\"%s\"></video>",
		"<video><source src=\"%s\"></video>",
		"<a href=\"%s\">v</a>",
		"<!-- wp:video --><figure><video src=\"%s\"></video></figure><!-- /wp:video -->",
	}
	for _, form := range forms {
		full := "<p>a</p>\n" + strings.Replace(form, "%s", videoURL, 1) + "\n<p>b</p>"
		path := "<p>a</p>\n" + strings.Replace(form, "%s", videoPath, 1) + "\n<p>b</p>"

		gotFull, changedFull := scrub.Remove(full, 42, videoURL)
		gotPath, changedPath := scrub.Remove(path, 42, videoURL)
		if !changedFull || !changedPath {
			t.Fatalf("form %q: changed full=%v path=%v", form, changedFull, changedPath)
		}
		if gotFull != gotPath || gotFull != "<p>a</p>\n<p>b</p>" {
			t.Fatalf("form %q: full=%q path=%q", form, gotFull, gotPath)
		}
	}
}

func TestRemoveEscapesPatternSyntax(t *testing.T) {
	url := "https://example.com/uploads/a+b(1).mp4?x=1&y=[2]"
	body := "<p>k</p>\n<a href=\"https://example.com/uploads/a+b(1).mp4?x=1&amp;y=[2]\">v</a>\n" +
		"<a href=\"https://example.com/uploads/aab(1).mp4\">keep</a>"
	got, changed := scrub.Remove(body, 0, url)
	if !changed {
		t.Fatal("expected change")
	}
	if want := "<p>k</p>\n<a href=\"https://example.com/uploads/aab(1).mp4\">keep</a>"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRemoveLeavesUnrelatedBodiesUntouched(t *testing.T) {
	body := "<p></p>\n\n\n\n<p>nothing here</p>"
	got, changed := scrub.Remove(body, 42, videoURL)
	if changed || got != body {
		t.Fatalf("expected untouched body, got %q changed=%v", got, changed)
	}
}

func TestRootPathIsNeverAKey(t *testing.T) {
	body := "<a href=\"/\">home</a>\n<a href=\"https://example.com/\">site</a>"
	got, changed := scrub.Remove(body, 0, "https://example.com")
	if changed || got != body {
		t.Fatalf("root path must not match, got %q", got)
	}
	target := scrub.NewTarget(0, "https://example.com/")
	if target.Path != "" {
		t.Fatalf("expected empty path, got %q", target.Path)
	}
}

func TestRemoveCleansOnlyAroundRemovals(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "unrelated pre and empty paragraph survive",
			body: "<pre>line1\n\n\n\nline2</pre>\n<p></p>\n<a href=\"https://example.com/uploads/v.mp4\">v</a>\n<p>end</p>",
			want: "<pre>line1\n\n\n\nline2</pre>\n<p></p>\n<p>end</p>",
		},
		{
			name: "paragraph emptied by the removal is dropped",
			body: "<p>a</p>\n<p>\n  <video src=\"https://example.com/uploads/v.mp4\"></video>\n</p>\n<p></p>\n<p>b</p>",
			want: "<p>a</p>\n<p></p>\n<p>b</p>",
		},
		{
			name: "paragraph with remaining text is kept",
			body: "<p class=\"x\">see <a href=\"/uploads/v.mp4\">v</a> here</p>",
			want: "<p class=\"x\">see  here</p>",
		},
		{
			name: "blank lines collapse only at the seam",
			body: "a\n\n\n\nb\n\n<a href=\"/uploads/v.mp4\">v</a>\n\n\nc",
			want: "a\n\n\n\nb\n\nc",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := scrub.Remove(tc.body, 42, videoURL)
			if !changed {
				t.Fatal("expected change")
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestShortcodeLeavesOtherShortcodeNames(t *testing.T) {
	body := "[video-playlist src=\"https://example.com/uploads/v.mp4\"][/video]\n[videos src=\"https://example.com/uploads/v.mp4\"]"
	got, changed := scrub.Remove(body, 42, videoURL)
	if changed || got != body {
		t.Fatalf("expected untouched body, got %q", got)
	}
	got, changed = scrub.Remove("[video]x[/video][video src=\"https://example.com/uploads/v.mp4\"]", 42, videoURL)
	if !changed || got != "[video]x[/video]" {
		t.Fatalf("got %q changed=%v", got, changed)
	}
}
