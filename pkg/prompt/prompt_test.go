package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"header after blank lines", "\n\n# Title\nBody line 1\nBody line 2\n", "Body line 1\nBody line 2"},
		{"no header", "   \nNot a header\nMore text\n", "Not a header\nMore text"},
		{"only blank lines", "\n  \n\t\n", ""},
		{"empty", "", ""},
		{"only header", "# Title\n", ""},
		{"header without space", "#Title\nBody", "Body"},
		{"indented header", "   ## Section\nBody", "Body"},
		{"only first header removed", "# One\n# Two\nBody", "# Two\nBody"},
		{"blank line after header", "# Title\n\nBody\n\n", "Body"},
		{"crlf line endings", "\r\n# Title\r\nBody\r\n", "Body"},
		{"hash later in file kept", "Intro\n# Not stripped\n", "Intro\n# Not stripped"},
		{"inner whitespace kept", "Line 1\n\n    indented\nLine 3", "Line 1\n\n    indented\nLine 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.content))
		})
	}
}

func TestNormalize_PlainContentIsTrimmed(t *testing.T) {
	content := "Explain goroutines.\nKeep it short.  \n\n"
	assert.Equal(t, strings.TrimSpace(content), Normalize(content))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"\n\n# Title\nBody line 1\nBody line 2\n",
		"   \nNot a header\nMore text\n",
		"# Title\n\n  Body with trailing space  \n",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}
