// Package bindvalue implements the `--bind` CLI micro-language: a small,
// fixed-vocabulary grammar of bracket-wrapped `name: value` pairs, used to
// supply a compose.Bindings map from the command line without requiring the
// caller to write JSON.
package bindvalue

import (
	"fmt"
	"strings"
	"unicode"

	pc "github.com/shibukawa/parsercombinator"
)

func errUnterminatedString(at int) error {
	return fmt.Errorf("bind value: unterminated string starting at character %d", at)
}

func errUnexpectedChar(c rune, at int) error {
	return fmt.Errorf("bind value: unexpected character %q at position %d", c, at)
}

type kind int

const (
	kName kind = iota
	kColon
	kComma
	kLBracket
	kRBracket
	kLParen
	kRParen
	kString
	kNumber
	kNull
)

type lexeme struct {
	kind kind
	text string // for kString, already unescaped; for others the raw text
}

// tokenize lexes a --bind argument into the fixed token set the grammar
// operates over. Free-form SQL text never appears here, unlike the template
// grammar in the parser package — the whole point of this micro-language is
// that its vocabulary is small and fully enumerable up front, which is
// exactly what parsercombinator-style token-stream parsing is built for.
func tokenize(s string) ([]pc.Token[lexeme], error) {
	runes := []rune(s)
	var out []pc.Token[lexeme]
	i := 0

	push := func(k kind, text string, raw string) {
		out = append(out, pc.Token[lexeme]{
			Type: typeName(k),
			Pos:  &pc.Pos{Index: i},
			Val:  lexeme{kind: k, text: text},
			Raw:  raw,
		})
	}

	for i < len(runes) {
		c := runes[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == ':':
			push(kColon, ":", ":")
			i++
		case c == ',':
			push(kComma, ",", ",")
			i++
		case c == '[':
			push(kLBracket, "[", "[")
			i++
		case c == ']':
			push(kRBracket, "]", "]")
			i++
		case c == '(':
			push(kLParen, "(", "(")
			i++
		case c == ')':
			push(kRParen, ")", ")")
			i++
		case c == '\'':
			start := i
			i++
			textStart := i
			for i < len(runes) && runes[i] != '\'' {
				i++
			}
			if i >= len(runes) {
				return nil, errUnterminatedString(start)
			}
			push(kString, string(runes[textStart:i]), string(runes[start:i+1]))
			i++
		case unicode.IsDigit(c) || (c == '-' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			start := i
			i++
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			push(kNumber, string(runes[start:i]), string(runes[start:i]))
		default:
			start := i
			for i < len(runes) && isNameChar(runes[i]) {
				i++
			}
			if i == start {
				return nil, errUnexpectedChar(c, start)
			}
			word := string(runes[start:i])
			if strings.EqualFold(word, "null") {
				push(kNull, word, word)
			} else {
				push(kName, word, word)
			}
		}
	}

	return out, nil
}

func isNameChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func typeName(k kind) string {
	switch k {
	case kName:
		return "name"
	case kColon:
		return "colon"
	case kComma:
		return "comma"
	case kLBracket:
		return "lbracket"
	case kRBracket:
		return "rbracket"
	case kLParen:
		return "lparen"
	case kRParen:
		return "rparen"
	case kString:
		return "string"
	case kNumber:
		return "number"
	case kNull:
		return "null"
	default:
		return "unknown"
	}
}
