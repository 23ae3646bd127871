// Package jsonrepair coerces free-form model output into text a JSON parser will accept.
package jsonrepair

import (
	"regexp"
	"strings"
)

var (
	jsonFenceRe     = regexp.MustCompile("(?i)```json\\s*")
	fenceRe         = regexp.MustCompile("```\\s*")
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{,])\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*:`)
)

// Normalize rewrites raw model text into a best-effort JSON document.
// It never fails; in the worst case the input comes back largely unchanged.
// The steps run in a fixed order and later steps rely on earlier ones.
func Normalize(raw string) string {
	cleaned := StripCodeFences(raw)
	cleaned = NormalizeQuotes(cleaned)
	cleaned = ExtractObject(cleaned)
	cleaned = RemoveTrailingCommas(cleaned)
	cleaned = StripComments(cleaned)
	cleaned = QuoteBareKeys(cleaned)
	cleaned = BalanceTruncated(cleaned)
	return strings.TrimSpace(cleaned)
}

// StripCodeFences removes markdown fences, with or without a json language tag.
func StripCodeFences(s string) string {
	s = jsonFenceRe.ReplaceAllString(s, "")
	return fenceRe.ReplaceAllString(s, "")
}

// NormalizeQuotes turns single-quoted strings into double-quoted ones.
//
// Single quotes inside a double-quoted string are left alone, so apostrophes
// in values like "don't" survive. A single quote between two word characters
// (O'Brien, it's) is an apostrophe, never a delimiter. A backslash and the
// character after it are copied as a pair. An unterminated single-quoted
// region is closed at the end.
func NormalizeQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 1)

	inSingle := false
	inDouble := false
	for i := 0; i < len(s); i++ {
		c := s[i]

		if c == '"' && !inSingle {
			b.WriteByte(c)
			if i == 0 || s[i-1] != '\\' {
				inDouble = !inDouble
			}
			continue
		}

		if c == '\'' && !inDouble {
			if i > 0 && i+1 < len(s) && isWordByte(s[i-1]) && isWordByte(s[i+1]) {
				b.WriteByte(c)
				continue
			}
			b.WriteByte('"')
			inSingle = !inSingle
			continue
		}

		if c == '\\' && i+1 < len(s) {
			b.WriteByte(c)
			b.WriteByte(s[i+1])
			i++
			continue
		}

		b.WriteByte(c)
	}

	if inSingle {
		b.WriteByte('"')
	}
	return b.String()
}

// ExtractObject slices s to the span between the first '{' and the last '}'.
// When the object opened by the first '{' never closes, the tail is kept so
// BalanceTruncated can close it. Text without a '{' is returned unchanged.
func ExtractObject(s string) string {
	first := strings.Index(s, "{")
	if first == -1 {
		return s
	}
	if st := scanObject(s[first:]); st.end == -1 {
		return s[first:]
	}
	return s[first : strings.LastIndex(s, "}")+1]
}

// RemoveTrailingCommas drops commas that directly precede a closing '}' or ']'.
// Double-quoted string contents are left untouched.
func RemoveTrailingCommas(s string) string {
	return outsideStrings(s, func(chunk string) string {
		return trailingCommaRe.ReplaceAllString(chunk, "$1")
	})
}

// StripComments removes /* block */ and // line comments outside strings,
// so "https://..." in a value survives. A line comment runs to the newline,
// which is kept. An unterminated block comment is left as is.
func StripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			b.WriteByte(c)
			continue
		}

		if c == '/' && i+1 < len(s) {
			switch s[i+1] {
			case '/':
				nl := strings.IndexByte(s[i:], '\n')
				if nl == -1 {
					return b.String()
				}
				i += nl - 1
				continue
			case '*':
				end := strings.Index(s[i+2:], "*/")
				if end == -1 {
					b.WriteString(s[i:])
					return b.String()
				}
				i += end + 3
				continue
			}
		}

		if c == '"' {
			inString = true
		}
		b.WriteByte(c)
	}
	return b.String()
}

// QuoteBareKeys wraps unquoted object keys in double quotes. Text inside
// double-quoted strings is never treated as a key.
func QuoteBareKeys(s string) string {
	return outsideStrings(s, func(chunk string) string {
		return bareKeyRe.ReplaceAllString(chunk, `$1"$2":`)
	})
}

// outsideStrings applies fn to every run of s that lies outside a
// double-quoted string. Strings, quotes included, are copied verbatim, as is
// an unterminated string at the end.
func outsideStrings(s string, fn func(string) string) string {
	var b strings.Builder
	b.Grow(len(s))

	start := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
				b.WriteString(s[start : i+1])
				start = i + 1
			}
			continue
		}
		if c == '"' {
			b.WriteString(fn(s[start:i]))
			start = i
			inString = true
		}
	}

	if inString {
		b.WriteString(s[start:])
	} else {
		b.WriteString(fn(s[start:]))
	}
	return b.String()
}

// BalanceTruncated re-trims s to its outermost braces. When the object
// opened by the first '{' never closes, the output was cut off: an open
// string is closed, a dangling comma or colon is settled, and the still-open
// arrays and objects are closed innermost first. Fields the model never
// emitted stay absent.
func BalanceTruncated(s string) string {
	first := strings.Index(s, "{")
	if first == -1 {
		return s
	}
	s = s[first:]
	st := scanObject(s)
	if st.end != -1 {
		return s[:strings.LastIndex(s, "}")+1]
	}

	if st.inString {
		if st.escaped {
			s = s[:len(s)-1]
		}
		s += `"`
	}
	s = strings.TrimRight(s, " \t\r\n")
	s = strings.TrimSuffix(s, ",")
	if strings.HasSuffix(s, ":") {
		s += " null"
	}

	var b strings.Builder
	b.WriteString(s)
	for i := len(st.open) - 1; i >= 0; i-- {
		if st.open[i] == '[' {
			b.WriteByte(']')
		} else {
			b.WriteByte('}')
		}
	}
	return b.String()
}

type scanState struct {
	end      int
	open     []byte
	inString bool
	escaped  bool
}

// scanObject walks s, which starts with '{', until that object closes.
// end is the index of the closing brace, or -1 if the input runs out first,
// in which case open holds the containers still waiting to be closed.
func scanObject(s string) scanState {
	st := scanState{end: -1}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if st.inString {
			switch {
			case st.escaped:
				st.escaped = false
			case c == '\\':
				st.escaped = true
			case c == '"':
				st.inString = false
			}
			continue
		}
		switch c {
		case '"':
			st.inString = true
		case '{', '[':
			st.open = append(st.open, c)
		case '}', ']':
			if n := len(st.open); n > 0 && st.open[n-1] == opener(c) {
				st.open = st.open[:n-1]
				if len(st.open) == 0 {
					st.end = i
					return st
				}
			}
		}
	}
	return st
}

func opener(closer byte) byte {
	if closer == ']' {
		return '['
	}
	return '{'
}

func isWordByte(c byte) bool {
	return c >= 0x80 ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
