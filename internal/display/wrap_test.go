package display

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestSentence(t *testing.T) {
	testutil.AssertEqual(t, "capitalized", Sentence("a cave troll is slain"), "A cave troll is slain")
	testutil.AssertEqual(t, "empty", Sentence(""), "")

	long := strings.Repeat("word ", 30)
	for _, line := range strings.Split(Sentence(long), "\n") {
		if len(line) > DefaultWidth {
			t.Errorf("line longer than %d: %q", DefaultWidth, line)
		}
	}
}
