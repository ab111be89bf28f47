package bindvalue

import (
	"fmt"
	"strconv"
	"strings"

	pc "github.com/shibukawa/parsercombinator"
	"github.com/shopspring/decimal"

	"github.com/soulstompp/tqlcompose/compose"
	"github.com/soulstompp/tqlcompose/dialect"
)

func kindIs(k kind) pc.Parser[lexeme] {
	return func(pctx *pc.ParseContext[lexeme], tokens []pc.Token[lexeme]) (int, []pc.Token[lexeme], error) {
		if len(tokens) > 0 && tokens[0].Val.kind == k {
			return 1, tokens[:1], nil
		}
		return 0, nil, pc.ErrNotMatch
	}
}

var (
	nameTok     = kindIs(kName)
	colonTok    = pc.Drop(kindIs(kColon))
	commaTok    = pc.Drop(kindIs(kComma))
	lbracketTok = pc.Drop(kindIs(kLBracket))
	rbracketTok = pc.Drop(kindIs(kRBracket))
	lparenTok   = pc.Drop(kindIs(kLParen))
	rparenTok   = pc.Drop(kindIs(kRParen))
	valueTok    = pc.Or(kindIs(kString), kindIs(kNumber), kindIs(kNull))

	bracketedList = pc.SeqWithLabel("bracketed value list",
		lbracketTok,
		valueTok,
		pc.ZeroOrMore("more values", pc.Seq(commaTok, valueTok)),
		rbracketTok)
	parenList = pc.SeqWithLabel("paren value list",
		lparenTok,
		valueTok,
		pc.ZeroOrMore("more values", pc.Seq(commaTok, valueTok)),
		rparenTok)

	valueSet = pc.Or(bracketedList, parenList, valueTok)

	pair = pc.SeqWithLabel("bind pair", nameTok, colonTok, valueSet)
	pairs = pc.SeqWithLabel("bind pairs", pair, pc.ZeroOrMore("more pairs", pc.Seq(commaTok, pair)))

	namedItem = pc.Or(
		pc.SeqWithLabel("named item (brackets)", lbracketTok, pairs, rbracketTok),
		pc.SeqWithLabel("named item (parens)", lparenTok, pairs, rparenTok),
	)
)

// Parse reads a --bind argument — one or more bracket-wrapped groups of
// comma-separated `name: value` pairs — into a compose.Bindings map.
// Repeated names across groups append to the same value list, matching the
// reference CLI's accumulate-into-a-multimap behavior.
func Parse(s string) (compose.Bindings, error) {
	tokens, err := tokenize(s)
	if err != nil {
		return nil, err
	}

	result := compose.Bindings{}
	pctx := pc.NewParseContext[lexeme]()

	for len(tokens) > 0 {
		n, matched, err := namedItem(pctx, tokens)
		if err != nil {
			return nil, fmt.Errorf("bind value: %w", err)
		}

		if err := accumulate(matched, result); err != nil {
			return nil, err
		}

		tokens = tokens[n:]

		if len(tokens) > 0 {
			if n, _, err := commaTok(pctx, tokens); err == nil {
				tokens = tokens[n:]
			}
		}
	}

	return result, nil
}

// accumulate walks a flattened, bracket/colon/comma-dropped token slice —
// alternating NAME tokens (starting a new key) with one or more VALUE
// tokens (string/number/null) belonging to that key — and appends each
// value onto the named entry in bindings.
func accumulate(tokens []pc.Token[lexeme], bindings compose.Bindings) error {
	var key string
	haveKey := false

	for _, tok := range tokens {
		switch tok.Val.kind {
		case kName:
			key = tok.Val.text
			haveKey = true
		case kString, kNumber, kNull:
			if !haveKey {
				return fmt.Errorf("bind value: value with no preceding name")
			}
			v, err := toValue(tok.Val)
			if err != nil {
				return err
			}
			bindings[key] = append(bindings[key], v)
		}
	}

	return nil
}

func toValue(l lexeme) (dialect.Value, error) {
	switch l.kind {
	case kString:
		return l.text, nil
	case kNull:
		return nil, nil
	case kNumber:
		if !strings.Contains(l.text, ".") {
			if n, err := strconv.ParseInt(l.text, 10, 64); err == nil {
				return n, nil
			}
		}
		d, err := decimal.NewFromString(l.text)
		if err != nil {
			return nil, fmt.Errorf("bind value: invalid number %q: %w", l.text, err)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("bind value: not a value token")
	}
}
