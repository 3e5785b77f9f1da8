package scrape

import (
	"reflect"
	"strings"
	"testing"
)

func TestChunk_GreedyPacking(t *testing.T) {
	paragraphs := []string{"aaaa", "bbbb", "cccc"}

	// 4+2+4 = 10, third paragraph overflows the budget
	chunks := Chunk(paragraphs, 12)
	want := []string{"aaaa\n\nbbbb", "cccc"}
	if !reflect.DeepEqual(chunks, want) {
		t.Errorf("Chunk = %q, want %q", chunks, want)
	}
}

func TestChunk_AllFit(t *testing.T) {
	chunks := Chunk([]string{"one", "two"}, 100)
	want := []string{"one\n\ntwo"}
	if !reflect.DeepEqual(chunks, want) {
		t.Errorf("Chunk = %q, want %q", chunks, want)
	}
}

func TestChunk_Empty(t *testing.T) {
	if chunks := Chunk(nil, 100); chunks != nil {
		t.Errorf("expected nil for no paragraphs, got %q", chunks)
	}
}

func TestChunk_OversizedParagraph(t *testing.T) {
	long := strings.Repeat("word ", 10) // 10 words, 50 chars with spaces
	chunks := Chunk([]string{"intro", strings.TrimSpace(long), "outro"}, 24)

	if len(chunks) < 3 {
		t.Fatalf("expected oversized paragraph split into word chunks, got %q", chunks)
	}

	// Word splits respect the budget
	for i, chunk := range chunks {
		if len(chunk) > 24 {
			t.Errorf("chunk %d exceeds budget: %d chars", i, len(chunk))
		}
	}

	// Order preserved across the split
	if chunks[0] != "intro" {
		t.Errorf("expected intro first, got %q", chunks[0])
	}
	if chunks[len(chunks)-1] != "outro" {
		t.Errorf("expected outro last, got %q", chunks[len(chunks)-1])
	}
}

func TestChunk_OversizedFlushesCurrent(t *testing.T) {
	chunks := Chunk([]string{"aa", strings.Repeat("x", 30)}, 10)

	if chunks[0] != "aa" {
		t.Errorf("expected pending chunk flushed before split, got %q", chunks[0])
	}
	for _, c := range chunks[1:] {
		if len(c) > 10 {
			// A single word longer than the budget cannot be split further
			if strings.Contains(c, " ") {
				t.Errorf("multi-word chunk exceeds budget: %q", c)
			}
		}
	}
}

func TestSplitWords(t *testing.T) {
	chunks := splitWords("one two three four", 9)
	want := []string{"one two", "three", "four"}
	if !reflect.DeepEqual(chunks, want) {
		t.Errorf("splitWords = %q, want %q", chunks, want)
	}
}
