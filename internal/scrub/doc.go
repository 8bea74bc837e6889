// Package scrub removes every structural reference to one media URL from a
// document body.
//
// Each reference form (wp:video blocks keyed by attachment id, wp:video blocks
// containing the URL, [video] shortcodes, <video> elements and <a> links) is a
// separate Matcher so forms can be tested in isolation. Matchers locate an
// element by its opening and closing markers first and only then test the
// element's attributes or body against the URL and its path-only form, so a
// match never spans two unrelated elements.
//
// Tidying happens only where something was cut: a <p></p> emptied by the cut
// is dropped and a run of blank lines meeting the cut collapses to one. Text
// away from the cuts, and any body with no reference, is returned byte for byte.
package scrub
