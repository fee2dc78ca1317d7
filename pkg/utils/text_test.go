package utils

import (
	"testing"
)

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if Truncate("hello world", 5) != "hello..." {
		t.Errorf("got %s", Truncate("hello world", 5))
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
	if got := Truncate("💕💕💕", 2); got != "💕💕..." {
		t.Errorf("multibyte truncate: got %s", got)
	}
}

func TestCharAndWordCount(t *testing.T) {
	if CharCount("café") != 4 {
		t.Errorf("CharCount(café) = %d", CharCount("café"))
	}
	if WordCount("  we went   to the beach ") != 5 {
		t.Errorf("WordCount = %d", WordCount("  we went   to the beach "))
	}
	if WordCount("") != 0 {
		t.Error("empty string has no words")
	}
}

func TestContainsAny(t *testing.T) {
	if !ContainsAny("a lovely day", "love", "fun") {
		t.Error("substring match expected")
	}
	if ContainsAny("a quiet day", "love", "fun") {
		t.Error("no match expected")
	}
}
