// Package content parses structured JSON out of free-form LLM responses.
// Models wrap JSON in prose and markdown fences and produce artifacts like
// comments and trailing commas; extraction tolerates all of these and
// validates the decoded value against the expected shape for its content
// type before anything downstream sees it.
package content

import (
	"encoding/json"
	"regexp"
	"strings"
)

// trailingCommaPattern matches trailing commas before ] or }.
var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

// Extract locates the first top-level JSON object or array in raw and
// returns it as a standalone string. Delimiters are matched with a
// string-aware balance scan, so braces inside quoted values don't end the
// extraction early. Surrounding prose and code fences are ignored. A
// snippet that already decodes is returned verbatim; comment and
// trailing-comma cleanup runs only on invalid snippets, so string values
// containing sequences like ",]" are never rewritten. The result is not
// guaranteed to decode; use the Decode helpers for validated shapes.
func Extract(raw string) (string, error) {
	snippet, _, err := scanBalanced(raw)
	if err != nil {
		return "", err
	}
	if json.Valid([]byte(snippet)) {
		return snippet, nil
	}
	return cleanJSON(snippet), nil
}

// scanBalanced finds the first '{' or '[' and scans to its matching closer.
// If the input ends before balance is restored it returns the remainder with
// complete=false; repair decides what to do with it.
func scanBalanced(raw string) (snippet string, complete bool, err error) {
	start := strings.IndexAny(raw, "{[")
	if start < 0 {
		return "", false, NewMalformed("no JSON object or array found", nil)
	}

	var stack []byte
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch ch {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			// A mismatched closer ends the scan; the repair pass will
			// balance whatever was extracted.
			if len(stack) == 0 || stack[len(stack)-1] != ch {
				return raw[start:i], false, nil
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return raw[start : i+1], true, nil
			}
		}
	}
	return raw[start:], false, nil
}

// decode extracts JSON from raw and unmarshals it into v. On decode failure
// it makes exactly one repair attempt (close unterminated strings and
// brackets, strip trailing commas) before giving up with a malformed error.
func decode(raw string, v any) error {
	snippet, err := Extract(raw)
	if err != nil {
		return err
	}

	firstErr := json.Unmarshal([]byte(snippet), v)
	if firstErr == nil {
		return nil
	}

	if err := json.Unmarshal([]byte(repair(snippet)), v); err != nil {
		return NewMalformed("undecodable JSON content", firstErr)
	}
	return nil
}

// repair balances a truncated or mangled JSON snippet: closes an
// unterminated string, drops a dangling trailing comma, and appends the
// closers still open at end of input.
func repair(snippet string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(snippet); i++ {
		ch := snippet[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch ch {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 && stack[len(stack)-1] == ch {
				stack = stack[:len(stack)-1]
			}
		}
	}

	var b strings.Builder
	b.WriteString(snippet)
	if inString {
		b.WriteByte('"')
	}
	repaired := strings.TrimRight(b.String(), " \t\r\n")
	repaired = strings.TrimSuffix(repaired, ",")
	for i := len(stack) - 1; i >= 0; i-- {
		repaired += string(stack[i])
	}
	return trailingCommaPattern.ReplaceAllString(repaired, "$1")
}

// cleanJSON removes JavaScript-style comments and trailing commas from JSON.
// LLMs commonly produce these invalid JSON artifacts.
func cleanJSON(raw string) string {
	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, stripLineComment(line))
	}
	result := strings.Join(cleaned, "\n")
	return trailingCommaPattern.ReplaceAllString(result, "$1")
}

// stripLineComment removes a // comment from a JSON line, respecting string
// values so URLs like "http://example.com" survive intact.
func stripLineComment(line string) string {
	if !strings.Contains(line, "//") {
		return line
	}

	inString := false
	escaped := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if !inString && ch == '/' && i+1 < len(line) && line[i+1] == '/' {
			return strings.TrimRight(line[:i], " \t")
		}
	}
	return line
}
