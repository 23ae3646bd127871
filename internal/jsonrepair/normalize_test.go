package jsonrepair

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &v), "normalized text should parse: %q", s)
	return v
}

func TestNormalize_ParsesToExpectedValue(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "json fenced block",
			raw:      "```json\n{\"a\":1}\n```",
			expected: `{"a":1}`,
		},
		{
			name:     "fence without language tag",
			raw:      "```\n{\"a\":1}\n```",
			expected: `{"a":1}`,
		},
		{
			name:     "upper case language tag",
			raw:      "```JSON\n{\"a\":1}\n```",
			expected: `{"a":1}`,
		},
		{
			name:     "trailing comma in object",
			raw:      `{"a":1,}`,
			expected: `{"a":1}`,
		},
		{
			name:     "trailing comma in nested array",
			raw:      `{"items":[1,2,],}`,
			expected: `{"items":[1,2]}`,
		},
		{
			name:     "bare keys",
			raw:      `{a: 1, b: 2}`,
			expected: `{"a":1,"b":2}`,
		},
		{
			name:     "prose around the object",
			raw:      `Here is your JSON: {"a":1} Hope that helps!`,
			expected: `{"a":1}`,
		},
		{
			name:     "single quoted strings",
			raw:      `{'name': 'widget', 'tags': ['x', 'y']}`,
			expected: `{"name":"widget","tags":["x","y"]}`,
		},
		{
			name:     "apostrophe inside single quoted value",
			raw:      `{'name': 'it's here'}`,
			expected: `{"name":"it's here"}`,
		},
		{
			name:     "apostrophe inside double quoted value",
			raw:      `{"note": "don't stop", 'mood': 'fine'}`,
			expected: `{"note":"don't stop","mood":"fine"}`,
		},
		{
			name:     "block and line comments",
			raw:      "{\n  \"a\": 1, /* the count */\n  \"b\": 2 // second\n}",
			expected: `{"a":1,"b":2}`,
		},
		{
			name:     "fenced block with prose and trailing comma",
			raw:      "Sure, here you go:\n```json\n{\"steps\": [\"one\", \"two\",],}\n```\nLet me know!",
			expected: `{"steps":["one","two"]}`,
		},
		{
			name:     "end to end model output",
			raw:      "Sure! ```json\n{name: 'O'Brien', age: 30,}\n```",
			expected: `{"name":"O'Brien","age":30}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			assert.Equal(t, decode(t, tt.expected), decode(t, got))
		})
	}
}

func TestNormalize_ValidJSONIsPreserved(t *testing.T) {
	docs := []string{
		`{}`,
		`{"a":1}`,
		`{"name":"widget","count":3,"price":4.5,"active":true,"parent":null}`,
		`{"nested":{"list":[1,2,3],"objects":[{"k":"v"},{"k":"w"}]}}`,
		"{\n  \"pretty\": [\n    \"printed\"\n  ]\n}",
		`{"text":"braces { inside } strings"}`,
		`{"title":"Fix","link":"https://example.com/guide"}`,
		`{"note":"see a, b: c","url":"http://x.io"}`,
		`{"list":"one,]","block":"/* kept */","escaped":"say \"x, y: z\" // here"}`,
	}

	for _, doc := range docs {
		t.Run(doc, func(t *testing.T) {
			assert.Equal(t, decode(t, doc), decode(t, Normalize(doc)))
		})
	}
}

func TestNormalize_FencedJSONKeepsURLs(t *testing.T) {
	raw := "```json\n{\"title\":\"Fix\",\"link\":\"https://example.com/guide\"}\n```"
	assert.Equal(t, `{"title":"Fix","link":"https://example.com/guide"}`, Normalize(raw))
}

func TestNormalize_TruncatedOutputParses(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "open array",
			raw:      `{"a": [1, 2`,
			expected: `{"a":[1,2]}`,
		},
		{
			name:     "array of objects",
			raw:      `{"steps": [{"title": "one"}, {"title": "two"`,
			expected: `{"steps":[{"title":"one"},{"title":"two"}]}`,
		},
		{
			name:     "inside a string",
			raw:      `{"summary": "the meeting cover`,
			expected: `{"summary":"the meeting cover"}`,
		},
		{
			name:     "after a comma",
			raw:      "{\"a\": 1,\n",
			expected: `{"a":1}`,
		},
		{
			name:     "after a colon",
			raw:      `{"a": 1, "b":`,
			expected: `{"a":1,"b":null}`,
		},
		{
			name:     "fenced and truncated",
			raw:      "```json\n{\"items\": [\"milk\", \"eggs\"",
			expected: `{"items":["milk","eggs"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			assert.Equal(t, decode(t, tt.expected), decode(t, got))
		})
	}
}

func TestNormalize_NeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"no json here",
		"}{",
		"'",
		"\\",
		"```",
		"{",
		"[1,2,",
		"{'unterminated",
		"{\"a\": \"trailing backslash \\",
		"/* only a comment",
		"}}}{{{",
		"{\"emoji\": \"café's 🚀\"}",
	}

	for _, in := range inputs {
		assert.NotPanics(t, func() { _ = Normalize(in) }, "input %q", in)
	}
}

func TestNormalize_TextWithoutBracesIsReturnedTrimmed(t *testing.T) {
	assert.Equal(t, "plain prose", Normalize("  plain prose \n"))
}

func TestNormalizeQuotes(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{
			name:     "single quotes become double quotes",
			in:       `{'a': 'b'}`,
			expected: `{"a": "b"}`,
		},
		{
			name:     "single quote inside double quoted string is kept",
			in:       `{"a": "it's"}`,
			expected: `{"a": "it's"}`,
		},
		{
			name:     "escaped single quote is copied as a pair",
			in:       `{'name': 'it\'s here'}`,
			expected: `{"name": "it\'s here"}`,
		},
		{
			name:     "escaped double quote does not end the string",
			in:       `{"a": "say \"hi\" 'now'"}`,
			expected: `{"a": "say \"hi\" 'now'"}`,
		},
		{
			name:     "word apostrophe is not a delimiter",
			in:       `{'who': 'O'Brien'}`,
			expected: `{"who": "O'Brien"}`,
		},
		{
			name:     "unterminated single quoted region is closed",
			in:       `{'a': 'open`,
			expected: `{"a": "open"`,
		},
		{
			name:     "trailing backslash is copied",
			in:       `\`,
			expected: `\`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeQuotes(tt.in))
		})
	}
}

func TestRemoveTrailingCommas(t *testing.T) {
	assert.Equal(t, "[1,2]", RemoveTrailingCommas("[1,2,]"))
	assert.Equal(t, `{"a":1 }`, RemoveTrailingCommas(`{"a":1, }`))
	assert.Equal(t, "[[1],[2]]", RemoveTrailingCommas("[[1,],[2,],]"))
	assert.Equal(t, `{"a":"x,]"}`, RemoveTrailingCommas(`{"a":"x,]",}`))

	var v []int
	require.NoError(t, json.Unmarshal([]byte(RemoveTrailingCommas("[1,2,]")), &v))
	assert.Equal(t, []int{1, 2}, v)
}

func TestQuoteBareKeys(t *testing.T) {
	assert.Equal(t, `{"a": 1,"b_2": 2}`, QuoteBareKeys(`{a: 1, b_2: 2}`))
	assert.Equal(t, `{"already": 1}`, QuoteBareKeys(`{"already": 1}`))
	assert.Equal(t, `[{"x":1}]`, QuoteBareKeys(`[{x:1}]`))
	assert.Equal(t, `{"note":"a, b: c", "d": 1}`, QuoteBareKeys(`{"note":"a, b: c", d: 1}`))
}

func TestStripComments(t *testing.T) {
	assert.Equal(t, "{\"a\": 1 }", StripComments("{\"a\": 1 /* note\nspanning */}"))
	assert.Equal(t, "{\"a\": 1 \n}", StripComments("{\"a\": 1 // note\n}"))
	assert.Equal(t, `{"u": "https://x.io/a"}`, StripComments(`{"u": "https://x.io/a"}`))
	assert.Equal(t, `{"u": "/* x */"} `, StripComments(`{"u": "/* x */"} // done`))
	assert.Equal(t, `{"a": 1 /* open`, StripComments(`{"a": 1 /* open`))
}

func TestExtractObject(t *testing.T) {
	assert.Equal(t, `{"a":{"b":1}}`, ExtractObject(`prefix {"a":{"b":1}} suffix`))
	assert.Equal(t, "no braces", ExtractObject("no braces"))
	assert.Equal(t, "{", ExtractObject("} backwards {"))
	assert.Equal(t, `{"a": [{"b": 1}, {"c"`, ExtractObject(`ok: {"a": [{"b": 1}, {"c"`))
}

func TestBalanceTruncated_IgnoresBracketsInsideStrings(t *testing.T) {
	got := BalanceTruncated(`{"a": "[{", "b": [1`)
	assert.Equal(t, `{"a": "[{", "b": [1]}`, got)
}

func BenchmarkNormalize(b *testing.B) {
	raw := "Sure! Here is the plan:\n```json\n{overview: 'Fix the leak', difficulty: 'moderate', steps: [{title: 'Shut off water', detail: 'Turn the valve',}, {title: 'Replace washer', detail: 'Use the right size',},],}\n```"
	for i := 0; i < b.N; i++ {
		_ = Normalize(raw)
	}
}
