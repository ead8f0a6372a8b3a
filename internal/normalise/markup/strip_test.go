package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain text untouched",
			text: "Hello",
			want: "Hello",
		},
		{
			name: "simple tags",
			text: "<p>Hello</p>",
			want: "Hello",
		},
		{
			name: "nested tags",
			text: "<div><p>Hello</p></div>",
			want: "Hello",
		},
		{
			name: "jats abstract markup",
			text: `<jats:p>We study <jats:italic>E. coli</jats:italic> growth.</jats:p>`,
			want: "We study E. coli growth.",
		},
		{
			name: "attributes ignored",
			text: `<a href="https://example.com">link text</a>`,
			want: "link text",
		},
		{
			name: "surrounding whitespace trimmed",
			text: "  <b> padded </b>  ",
			want: "padded",
		},
		{
			name: "interior whitespace kept",
			text: "<i>two</i>  words",
			want: "two  words",
		},
		{
			name: "empty input",
			text: "",
			want: "",
		},
		{
			name: "whitespace only",
			text: "   ",
			want: "",
		},
		{
			name: "tags only",
			text: "<br/><hr>",
			want: "",
		},
		{
			name: "entities not decoded",
			text: "<p>Fish &amp; Chips</p>",
			want: "Fish &amp; Chips",
		},
		{
			name: "dangling open bracket kept",
			text: "a < b",
			want: "a < b",
		},
		{
			name: "unclosed tag consumes to next close",
			text: "<b unclosed>text",
			want: "text",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Strip(tc.text))
		})
	}
}

func TestStrip_NullIfEquals(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		sentinels []string
		want      string
	}{
		{
			name:      "exact match nulled",
			text:      "<b>N/A</b>",
			sentinels: []string{"N/A"},
			want:      "",
		},
		{
			name:      "match after stripping",
			text:      "<p>None</p>",
			sentinels: []string{"None"},
			want:      "",
		},
		{
			name:      "datacite unavailable sentinel",
			text:      ":unav",
			sentinels: []string{":unav", "Cover title."},
			want:      "",
		},
		{
			name:      "case sensitive comparison",
			text:      "<b>n/a</b>",
			sentinels: []string{"N/A"},
			want:      "n/a",
		},
		{
			name:      "no sentinel match",
			text:      "<b>Hello</b>",
			sentinels: []string{"N/A"},
			want:      "Hello",
		},
		{
			name:      "empty sentinel list",
			text:      "<b>Hello</b>",
			sentinels: nil,
			want:      "Hello",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Strip(tc.text, tc.sentinels...))
		})
	}
}

// Stripping an already-stripped string must be a no-op, otherwise repeated
// normalisation passes would mangle stored values.
func TestStrip_Idempotent(t *testing.T) {
	inputs := []string{
		"<p>Hello</p>",
		"Fish &amp; Chips",
		"a < b",
		"plain text",
		"<div><p>nested</p></div>",
		`<jats:p>JATS <jats:sub>2</jats:sub></jats:p>`,
	}

	for _, input := range inputs {
		once := Strip(input)
		assert.Equal(t, once, Strip(once), "input %q", input)
	}
}

func BenchmarkStrip(b *testing.B) {
	text := `<jats:p>Research on the <jats:italic>effects</jats:italic> of ` +
		`intervention remains <jats:bold>scarce</jats:bold> in the literature.</jats:p>`
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Strip(text)
	}
}
