package utils

import "testing"

func TestFormatINR(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "₹0"},
		{999, "₹999"},
		{1000, "₹1,000"},
		{79999.4, "₹79,999"},
		{79999.5, "₹80,000"},
		{1234567, "₹1,234,567"},
		{-2500, "-₹2,500"},
	}
	for _, c := range cases {
		if got := FormatINR(c.in); got != c.want {
			t.Errorf("FormatINR(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 4); got != "abcd..." {
		t.Errorf("expected abcd..., got %q", got)
	}
	if got := Truncate("abc", 4); got != "abc" {
		t.Errorf("expected unchanged string, got %q", got)
	}
	if got := Truncate("abc", 0); got != "abc" {
		t.Errorf("expected unchanged string for n=0, got %q", got)
	}
}

func TestStripCodeFences(t *testing.T) {
	in := "```json\n{\"a\": 1}\n```"
	if got := StripCodeFences(in); got != "{\"a\": 1}" {
		t.Errorf("unexpected fence strip result: %q", got)
	}
	if got := StripCodeFences("plain"); got != "plain" {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestSmartParseRepairsLLMOutput(t *testing.T) {
	var out struct {
		Category string   `json:"category"`
		Keywords []string `json:"keywords"`
	}

	// Trailing comma and single quotes, typical sloppy model output.
	_, err := SmartParse(`{'category': 'Laptops', 'keywords': ['gaming',],}`, &out)
	if err != nil {
		t.Fatalf("expected repair to succeed: %v", err)
	}
	if out.Category != "Laptops" {
		t.Errorf("expected Laptops, got %q", out.Category)
	}
	if len(out.Keywords) != 1 || out.Keywords[0] != "gaming" {
		t.Errorf("unexpected keywords: %v", out.Keywords)
	}
}

func TestSmartParseFailsOnGarbage(t *testing.T) {
	var out map[string]interface{}
	if _, err := SmartParse("not even close", &out); err == nil {
		t.Error("expected failure for unparseable input")
	}
}

func TestExtractJSONObject(t *testing.T) {
	in := "Here you go: {\"a\": 1} hope that helps"
	if got := ExtractJSONObject(in); got != "{\"a\": 1}" {
		t.Errorf("unexpected extraction: %q", got)
	}
	if got := ExtractJSONObject("no braces"); got != "no braces" {
		t.Errorf("expected passthrough, got %q", got)
	}
}
