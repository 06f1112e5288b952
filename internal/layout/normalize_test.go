package layout

import "testing"

func TestNormalize_LineEndingsAndTabs(t *testing.T) {
	got := Normalize("  one\r\ntwo\rthree\tfour\n\n")
	want := "one\ntwo\nthree    four"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"plain",
		"\r\n\r\nlead and trail\r\n",
		"a\r\r\nb",
		"\ttabbed\tline\t",
		"page one\fpage two",
		"mixed \r\n\t endings \r",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("input %q: normalize not idempotent: %q vs %q", in, once, twice)
		}
	}
}

func TestNormalize_BareCarriageReturnThenCRLF(t *testing.T) {
	// "\r\r\n" is one bare CR followed by one CRLF: two line breaks.
	got := Normalize("a\r\r\nb")
	if got != "a\n\nb" {
		t.Errorf("expected %q, got %q", "a\n\nb", got)
	}
}
