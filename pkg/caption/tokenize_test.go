package caption

import (
	"slices"
	"testing"
)

func TestTokenizeSingleSeparator(t *testing.T) {
	got := Tokenize("a, b , c,d", []string{","})
	want := []string{"a", "b", "c", "d"}
	if !slices.Equal(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeSequentialSeparators(t *testing.T) {
	// Separators compose: fragments from the first split are themselves
	// split by the second.
	got := Tokenize("a, b; c, d; e", []string{",", ";"})
	want := []string{"a", "b", "c", "d", "e"}
	if !slices.Equal(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}

	// Same token set as splitting by hand, regardless of separator order.
	reversed := Tokenize("a, b; c, d; e", []string{";", ","})
	slices.Sort(got)
	slices.Sort(reversed)
	if !slices.Equal(got, reversed) {
		t.Errorf("token sets differ across separator order: %v vs %v", got, reversed)
	}
}

func TestTokenizeDropsEmptyFragments(t *testing.T) {
	got := Tokenize(",, a ,,  , b,", []string{","})
	want := []string{"a", "b"}
	if !slices.Equal(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeEmptyCaption(t *testing.T) {
	if got := Tokenize("", []string{","}); len(got) != 0 {
		t.Errorf("Tokenize(\"\") = %v, want empty", got)
	}
	if got := Tokenize("   \t ", []string{","}); len(got) != 0 {
		t.Errorf("Tokenize(whitespace) = %v, want empty", got)
	}
}

func TestTokenizeDefaultsSeparators(t *testing.T) {
	// Empty and all-empty separator sets fall back to comma.
	if got := Tokenize("a,b", nil); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Tokenize with nil separators = %v", got)
	}
	if got := Tokenize("a,b", []string{""}); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Tokenize with empty separator = %v", got)
	}
}

func TestPrimary(t *testing.T) {
	if got := Primary([]string{";", ","}); got != ";" {
		t.Errorf("Primary = %q, want %q", got, ";")
	}
	if got := Primary(nil); got != "," {
		t.Errorf("Primary(nil) = %q, want %q", got, ",")
	}
}

func TestJoinAppendsSpace(t *testing.T) {
	got := Join([]string{"a", "b", "c"}, []string{","})
	if got != "a, b, c" {
		t.Errorf("Join = %q, want %q", got, "a, b, c")
	}
}

func TestJoinSeparatorAlreadySpaced(t *testing.T) {
	got := Join([]string{"a", "b"}, []string{", "})
	if got != "a, b" {
		t.Errorf("Join = %q, want %q", got, "a, b")
	}
}
