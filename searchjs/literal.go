package searchjs

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/sphinxdex"
)

// callPrefix is the function call Sphinx wraps the index in.
const callPrefix = "Search.setIndex("

// unwrap strips the Search.setIndex(...) call around the index object.
// A bare object is returned unchanged.
func unwrap(data []byte) ([]byte, error) {
	body := bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	body = bytes.TrimSpace(body)

	if bytes.HasPrefix(body, []byte(callPrefix)) {
		body = body[len(callPrefix):]
		body = bytes.TrimRight(body, "; \t\r\n")
		if !bytes.HasSuffix(body, []byte(")")) {
			return nil, sphinxdex.Errorf(sphinxdex.EINVALID, "search index: unterminated %s call", callPrefix)
		}
		body = bytes.TrimSpace(body[:len(body)-1])
	}

	if len(body) == 0 || body[0] != '{' {
		return nil, sphinxdex.Errorf(sphinxdex.EINVALID, "search index: expected an object literal")
	}
	return body, nil
}

// toJSON rewrites a JavaScript object literal as JSON. Sphinx versions before
// 6 emit object keys as bare identifiers whenever they are valid names; those
// keys are quoted. Strings, numbers and the true/false/null literals pass
// through. JSON input is returned as an equivalent copy.
func toJSON(src []byte) ([]byte, error) {
	out := make([]byte, 0, len(src)+len(src)/8)

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '"':
			j, err := skipString(src, i)
			if err != nil {
				return nil, err
			}
			out = append(out, src[i:j]...)
			i = j

		case c == '-' || isDigit(c):
			j := i + 1
			for j < len(src) && isNumberPart(src[j]) {
				j++
			}
			out = append(out, src[i:j]...)
			i = j

		default:
			r, size := utf8.DecodeRune(src[i:])
			if !isIdentStart(r) {
				out = append(out, c)
				i++
				continue
			}

			j := i + size
			for j < len(src) {
				r, size := utf8.DecodeRune(src[j:])
				if !isIdentPart(r) {
					break
				}
				j += size
			}

			word := src[i:j]
			switch string(word) {
			case "true", "false", "null":
				out = append(out, word...)
			default:
				k := j
				for k < len(src) && isSpace(src[k]) {
					k++
				}
				if k >= len(src) || src[k] != ':' {
					return nil, sphinxdex.Errorf(sphinxdex.EINVALID, "search index: unexpected identifier %q at offset %d", word, i)
				}
				out = append(out, '"')
				out = append(out, word...)
				out = append(out, '"')
			}
			i = j
		}
	}

	return out, nil
}

// skipString returns the offset just past the double-quoted string starting at i.
func skipString(src []byte, i int) (int, error) {
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case '"':
			return j + 1, nil
		}
	}
	return 0, sphinxdex.Errorf(sphinxdex.EINVALID, "search index: unterminated string at offset %d", i)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNumberPart(c byte) bool {
	return isDigit(c) || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
