package review

import "testing"

func TestSanitizeTextPlainPassthrough(t *testing.T) {
	if got := SanitizeText("Great phone for the price"); got != "Great phone for the price" {
		t.Errorf("got %q", got)
	}
}

func TestSanitizeTextCollapsesWhitespace(t *testing.T) {
	if got := SanitizeText("  too   many\n\nspaces  "); got != "too many spaces" {
		t.Errorf("got %q", got)
	}
}

func TestSanitizeTextStripsMarkup(t *testing.T) {
	in := `<div><b>Great</b> phone<script>alert("x")</script></div>`
	if got := SanitizeText(in); got != "Great phone" {
		t.Errorf("got %q", got)
	}
}

func TestSanitizeTextDecodesEntities(t *testing.T) {
	if got := SanitizeText("Tom &amp; Jerry"); got != "Tom & Jerry" {
		t.Errorf("got %q", got)
	}
}
