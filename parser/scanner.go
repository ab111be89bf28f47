// Package parser turns .tql source text into a position-preserving
// ast.Statement and, via Load, resolves every macro-call alias reference it
// contains (and theirs, transitively) into fully populated alias tables.
//
// The grammar mixes two very different shapes: long, irregular runs of
// plain SQL text, and small, fixed-vocabulary argument lists inside macro
// calls. The scanner here reads the free-form SQL directly off the rune
// stream, the way the reference implementation's own nom-based parser does;
// the bind-value micro-language used by the CLI collaborator, whose grammar
// is a small closed set of tokens, is instead built on
// github.com/shibukawa/parsercombinator in the bindvalue package, where that
// library's strengths actually fit.
package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/soulstompp/tqlcompose/alias"
	"github.com/soulstompp/tqlcompose/ast"
	"github.com/soulstompp/tqlcompose/position"
	"github.com/soulstompp/tqlcompose/tqlerrors"
)

var macroCommands = map[string]bool{"compose": true, "count": true, "union": true}

// keywordWords lists the reserved words recognized verbatim by the grammar,
// longest (multi-word) first so matchKeywordAt tries "INSERT INTO" before
// the bare words that could otherwise shadow it.
var keywordWords = []string{"INSERT INTO", "SELECT", "WHERE", "FROM", "JOIN", "ON", "USING", "UPDATE"}

func isReservedWord(w string) bool {
	for _, k := range keywordWords {
		if strings.EqualFold(k, w) {
			return true
		}
	}
	return false
}

// ParseSource parses one template's raw text into a Statement. It performs
// no I/O and does not resolve the alias references found in any macro call
// it encounters; see Load for that.
func ParseSource(src string, origin alias.Alias) (*ast.Statement, error) {
	s := &scanner{runes: []rune(src), originAlias: origin}
	return s.parseStatement()
}

type scanner struct {
	runes       []rune
	i           int
	line        int
	originAlias alias.Alias
}

func (s *scanner) eof() bool { return s.i >= len(s.runes) }
func (s *scanner) peek() rune { return s.runes[s.i] }

func (s *scanner) advance() {
	if s.runes[s.i] == '\n' {
		s.line++
	}
	s.i++
}

func (s *scanner) advanceN(n int) {
	for k := 0; k < n; k++ {
		s.advance()
	}
}

func (s *scanner) consume(r rune) bool {
	if !s.eof() && s.peek() == r {
		s.advance()
		return true
	}
	return false
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isPathChar(r rune) bool {
	return isWordChar(r) || r == '.' || r == '-' || r == '/' || r == '\\'
}

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.peek()) {
		s.advance()
	}
}

func (s *scanner) readName() (string, bool) {
	start := s.i
	for !s.eof() && isWordChar(s.peek()) {
		s.advance()
	}
	if s.i == start {
		return "", false
	}
	return string(s.runes[start:s.i]), true
}

func (s *scanner) readPath() (string, bool) {
	start := s.i
	for !s.eof() && isPathChar(s.peek()) {
		s.advance()
	}
	if s.i == start {
		return "", false
	}
	return string(s.runes[start:s.i]), true
}

func (s *scanner) matchWordCI(word string) bool {
	save := s.i
	name, ok := s.readName()
	if !ok || !strings.EqualFold(name, word) {
		s.i = save
		return false
	}
	return true
}

func (s *scanner) tryReadInt() (int, bool) {
	start := s.i
	for !s.eof() && unicode.IsDigit(s.peek()) {
		s.advance()
	}
	if s.i == start {
		return 0, false
	}
	n, err := strconv.Atoi(string(s.runes[start:s.i]))
	if err != nil {
		return 0, false
	}
	return n, true
}

// pos captures the scanner's current location plus a short run of
// surrounding text, for error messages and AST node positions.
func (s *scanner) pos() position.Position {
	end := s.i
	for end < len(s.runes) && s.runes[end] != '\n' && end-s.i < 40 {
		end++
	}
	return position.Parsed(s.line+1, s.i, string(s.runes[s.i:end]), s.originAlias.String())
}

// atWordBoundary reports whether the scanner sits just after a non-word
// character (or at the very start of input) — the condition under which a
// reserved word can begin.
func (s *scanner) atWordBoundary() bool {
	return s.i == 0 || !isWordChar(s.runes[s.i-1])
}

// matchesCI reports whether word (one or more space-separated parts, e.g.
// "INSERT INTO") matches verbatim at the current position, returning the
// rune count consumed. Matching requires a word boundary on both ends.
func (s *scanner) matchesCI(word string) (int, bool) {
	parts := strings.Fields(word)
	i := s.i
	for pi, part := range parts {
		if pi > 0 {
			j := i
			for j < len(s.runes) && isSpace(s.runes[j]) {
				j++
			}
			if j == i {
				return 0, false
			}
			i = j
		}
		if i+len(part) > len(s.runes) {
			return 0, false
		}
		if !strings.EqualFold(string(s.runes[i:i+len(part)]), part) {
			return 0, false
		}
		i += len(part)
		if i < len(s.runes) && isWordChar(s.runes[i]) {
			return 0, false
		}
	}
	return i - s.i, true
}

func (s *scanner) matchKeywordAt() (int, bool) {
	if !s.atWordBoundary() {
		return 0, false
	}
	for _, kw := range keywordWords {
		if n, ok := s.matchesCI(kw); ok {
			return n, true
		}
	}
	return 0, false
}

// parseStatement is the top-level grammar loop: statement := fragment+ ';'?
func (s *scanner) parseStatement() (*ast.Statement, error) {
	var nodes []ast.Node

	for {
		if s.eof() {
			return &ast.Statement{Nodes: nodes, Complete: false}, nil
		}

		switch s.peek() {
		case ';':
			pos := s.pos()
			s.advance()
			nodes = append(nodes, ast.Node{Kind: ast.Ending, Pos: pos})
			return &ast.Statement{Nodes: nodes, Complete: true}, nil

		case '\'':
			node, err := s.parseQuotedBind()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)

		case ':':
			pos := s.pos()
			s.advance()
			word, ok := s.readName()
			if !ok {
				return nil, tqlerrors.New(tqlerrors.ErrCompositionCommandUnknown, pos, "missing macro name")
			}
			lower := strings.ToLower(word)
			switch {
			case lower == "bind":
				node, err := s.parseBindBody(pos, false)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, node)
			case macroCommands[lower]:
				node, err := s.parseMacroCall(pos, lower)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, node)
			default:
				return nil, tqlerrors.Newf(tqlerrors.ErrCompositionCommandUnknown, pos, "%s", word)
			}

		default:
			frag, err := s.parseLiteralOrKeyword()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, frag...)
		}
	}
}

// parseQuotedBind handles "'" ':bind(' ... ')' "'" — the surrounding quotes
// are consumed and the resulting node is marked Quoted.
func (s *scanner) parseQuotedBind() (ast.Node, error) {
	pos := s.pos()
	s.advance() // opening '
	s.skipSpace()
	if !s.consume(':') {
		return ast.Node{}, tqlerrors.New(tqlerrors.ErrCompositionIncomplete, pos, "unbalanced bind quote")
	}
	word, ok := s.readName()
	if !ok || !strings.EqualFold(word, "bind") {
		return ast.Node{}, tqlerrors.New(tqlerrors.ErrCompositionIncomplete, pos, "quoted fragment must be a bind")
	}
	return s.parseBindBody(pos, true)
}

// parseBindBody parses "(' NAME expecting? 'null'? ')" and, for a quoted
// bind, the trailing closing quote.
func (s *scanner) parseBindBody(pos position.Position, quoted bool) (ast.Node, error) {
	s.skipSpace()
	if !s.consume('(') {
		return ast.Node{}, tqlerrors.New(tqlerrors.ErrCompositionCommandArgInvalid, pos, "bind requires (")
	}

	s.skipSpace()
	name, ok := s.readName()
	if !ok {
		return ast.Node{}, tqlerrors.New(tqlerrors.ErrCompositionCommandArgInvalid, pos, "bind requires a name")
	}

	node := ast.Node{Kind: ast.Binding, Pos: pos, Name: name, Quoted: quoted}

	s.skipSpace()
	if s.matchWordCI("EXPECTING") {
		s.skipSpace()
		if err := s.parseExpecting(&node, pos); err != nil {
			return ast.Node{}, err
		}
		s.skipSpace()
	}

	if s.matchWordCI("null") {
		node.Nullable = true
		s.skipSpace()
	}

	if !s.consume(')') {
		return ast.Node{}, tqlerrors.New(tqlerrors.ErrCompositionCommandArgInvalid, pos, "bind requires )")
	}

	if quoted && !s.consume('\'') {
		return ast.Node{}, tqlerrors.New(tqlerrors.ErrCompositionIncomplete, pos, "unbalanced bind quote")
	}

	return node, nil
}

// parseExpecting handles "(INT | ('MIN' INT)? _ ('MAX' INT)?)".
func (s *scanner) parseExpecting(node *ast.Node, pos position.Position) error {
	if n, ok := s.tryReadInt(); ok {
		min, max := n, n
		node.Min, node.Max = &min, &max
		return nil
	}

	if s.matchWordCI("MIN") {
		s.skipSpace()
		n, ok := s.tryReadInt()
		if !ok {
			return tqlerrors.New(tqlerrors.ErrCompositionCommandArgInvalid, pos, "malformed EXPECTING MIN clause")
		}
		node.Min = &n
		s.skipSpace()
	}

	if s.matchWordCI("MAX") {
		s.skipSpace()
		n, ok := s.tryReadInt()
		if !ok {
			return tqlerrors.New(tqlerrors.ErrCompositionCommandArgInvalid, pos, "malformed EXPECTING MAX clause")
		}
		node.Max = &n
	}

	if node.Min == nil && node.Max == nil {
		return tqlerrors.New(tqlerrors.ErrCompositionCommandArgInvalid, pos, "malformed EXPECTING clause")
	}

	return nil
}

// parseMacroCall handles ':' NAME '(' distinct? all? (colList 'of')? aliasList ')'.
func (s *scanner) parseMacroCall(pos position.Position, command string) (ast.Node, error) {
	s.skipSpace()
	if !s.consume('(') {
		return ast.Node{}, tqlerrors.New(tqlerrors.ErrCompositionCommandArgInvalid, pos, command+" requires (")
	}

	node := ast.Node{Kind: ast.MacroCall, Pos: pos, Command: command}

	s.skipSpace()
	if s.matchWordCI("distinct") {
		node.Distinct = true
		s.skipSpace()
	}
	if s.matchWordCI("all") {
		node.All = true
		s.skipSpace()
	}

	save := s.i
	if cols, ok := s.tryReadColListOf(); ok {
		node.Columns = cols
	} else {
		s.i = save
	}

	s.skipSpace()
	aliases, err := s.readAliasList()
	if err != nil {
		return ast.Node{}, err
	}
	node.Of = aliases

	s.skipSpace()
	if !s.consume(')') {
		return ast.Node{}, tqlerrors.New(tqlerrors.ErrCompositionCommandArgInvalid, pos, command+" requires )")
	}

	if command == "union" && len(node.Of) < 2 {
		return ast.Node{}, tqlerrors.New(tqlerrors.ErrCompositionCommandArgInvalid, pos, "union requires 2 or more alias names")
	}

	return node, nil
}

// tryReadColListOf reads "NAME (',' NAME)* 'of'", backtracking entirely
// (the caller restores s.i) if the trailing 'of' keyword never appears.
func (s *scanner) tryReadColListOf() ([]string, bool) {
	name, ok := s.readName()
	if !ok {
		return nil, false
	}
	cols := []string{name}

	for {
		save := s.i
		s.skipSpace()
		if !s.consume(',') {
			s.i = save
			break
		}
		s.skipSpace()
		n, ok := s.readName()
		if !ok {
			s.i = save
			break
		}
		cols = append(cols, n)
	}

	s.skipSpace()
	if !s.matchWordCI("of") {
		return nil, false
	}
	return cols, true
}

func (s *scanner) readAliasList() ([]alias.Alias, error) {
	var out []alias.Alias
	for {
		s.skipSpace()
		item, ok := s.readPath()
		if !ok {
			return nil, tqlerrors.New(tqlerrors.ErrCompositionCommandArgInvalid, s.pos(), "expected alias")
		}
		out = append(out, alias.NewPath(item))
		s.skipSpace()
		if !s.consume(',') {
			break
		}
	}
	return out, nil
}

// parseLiteralOrKeyword consumes a run of plain text up to the next special
// character or reserved keyword, then — if a keyword stopped the run —
// consumes that keyword (and, for FROM/JOIN, the db-object reference that
// follows it) as well.
func (s *scanner) parseLiteralOrKeyword() ([]ast.Node, error) {
	var nodes []ast.Node

	start := s.i
	startPos := s.pos()
	for !s.eof() {
		c := s.peek()
		if c == ':' || c == ';' || c == '\'' {
			break
		}
		if _, ok := s.matchKeywordAt(); ok {
			break
		}
		s.advance()
	}

	if s.i > start {
		nodes = append(nodes, ast.Node{Kind: ast.Literal, Pos: startPos, Text: string(s.runes[start:s.i])})
	}

	if s.eof() {
		return nodes, nil
	}
	if c := s.peek(); c == ':' || c == ';' || c == '\'' {
		return nodes, nil
	}

	kwPos := s.pos()
	n, _ := s.matchKeywordAt()
	word := string(s.runes[s.i : s.i+n])
	s.advanceN(n)
	nodes = append(nodes, ast.Node{Kind: ast.Keyword, Pos: kwPos, Text: word})

	upper := strings.ToUpper(word)
	if upper == "FROM" || upper == "JOIN" {
		dbNode, ok := s.parseDbObject()
		if ok {
			nodes = append(nodes, dbNode)
		}
	}

	return nodes, nil
}

// parseDbObject handles the alias tail of a dbref: NAME (('AS')? NAME)?.
func (s *scanner) parseDbObject() (ast.Node, bool) {
	s.skipSpace()
	dbPos := s.pos()
	name, ok := s.readName()
	if !ok {
		return ast.Node{}, false
	}

	node := ast.Node{Kind: ast.DbObject, Pos: dbPos, DbObj: alias.NewDbObject(name, "")}

	save := s.i
	s.skipSpace()
	hasAs := s.matchWordCI("AS")
	if hasAs {
		s.skipSpace()
	}

	aliasStart := s.i
	if as, ok := s.readName(); ok && !isReservedWord(as) {
		node.DbObj = alias.NewDbObject(name, as)
	} else if hasAs {
		s.i = save
	} else {
		s.i = aliasStart
	}

	return node, true
}
