package textutil

import "testing"

func TestPromptKey(t *testing.T) {
	// "café" composed vs decomposed.
	composed := "café"
	decomposed := "café"
	if PromptKey("  "+composed+"  ") != PromptKey(decomposed) {
		t.Fatal("expected equivalent prompts to share a key")
	}
	if PromptKey("a cat") == PromptKey("a dog") {
		t.Fatal("distinct prompts must not collide")
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer string", 8, "a longe…"},
		{"héllo wörld", 6, "héllo…"},
		{"anything", 0, ""},
	}
	for _, tc := range cases {
		if got := Truncate(tc.in, tc.max); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}
