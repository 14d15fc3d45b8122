package cli

import (
	"errors"
	"strings"
)

var (
	errUnterminatedQuote  = errors.New("unterminated quote")
	errUnterminatedEscape = errors.New("unterminated escape")
)

// splitShellArgs splits a shell line into words. Single quotes are literal;
// double quotes honour backslash escapes, as does bare text. Quoting may
// join with bare text inside one word, as in title="Fix login".
func splitShellArgs(input string) ([]string, error) {
	var (
		words   []string
		word    strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range input {
		switch {
		case escaped:
			word.WriteRune(r)
			escaped = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				word.WriteRune(r)
			}
		case r == '\\':
			escaped = true
			inWord = true
		case quote == '"':
			if r == '"' {
				quote = 0
			} else {
				word.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				words = append(words, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}

	if escaped {
		return nil, errUnterminatedEscape
	}
	if quote != 0 {
		return nil, errUnterminatedQuote
	}
	if inWord {
		words = append(words, word.String())
	}
	return words, nil
}
