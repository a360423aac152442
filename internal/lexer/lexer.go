// Package lexer implements the Lexer (C3): UTF-8 source text to a Token
// stream with location and leading-whitespace tracking, per spec §4.3.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/veil-lang/veil/internal/errors"
	"github.com/veil-lang/veil/internal/source"
)

// defaultMaxCommentDepth bounds block-comment nesting so a runaway or
// adversarial input can't spin skipBlockComment forever; internal/config
// makes this a project-configurable tunable via TokenizeWithLimits.
const defaultMaxCommentDepth = 64

// Lexer scans a normalized source buffer into a Token stream.
type Lexer struct {
	src             []byte
	filename        string
	pos             int // byte offset into src
	cur             *source.Cursor
	leadingWS       bool
	maxCommentDepth int
	extraReserved   map[string]bool
}

// Tokenize turns source bytes into a token stream (§4.3's tokenize
// operation). It normalizes the input (BOM strip + NFC) before scanning, so
// lex(s) and lex(NFC(s)) always agree (§8 NFC-idempotence). It uses the
// built-in comment-depth limit and reserved-word list; TokenizeWithLimits
// exposes both as configurable.
func Tokenize(src []byte, filename string) ([]Token, error) {
	return TokenizeWithLimits(src, filename, defaultMaxCommentDepth, nil)
}

// TokenizeWithLimits is Tokenize with the block-comment nesting cap and an
// additional set of project-reserved words (raised as VF1500, the same as
// ReservedForFuture) both overridable. maxCommentDepth <= 0 falls back to
// defaultMaxCommentDepth.
func TokenizeWithLimits(src []byte, filename string, maxCommentDepth int, extraReserved map[string]bool) ([]Token, error) {
	if maxCommentDepth <= 0 {
		maxCommentDepth = defaultMaxCommentDepth
	}
	norm := Normalize(src)
	l := &Lexer{
		src: norm, filename: filename, cur: source.NewCursor(filename),
		maxCommentDepth: maxCommentDepth, extraReserved: extraReserved,
	}
	return l.run()
}

func (l *Lexer) run() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens, nil
		}
	}
}

// --- low-level rune cursor -------------------------------------------------

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

// peekRuneAt decodes, without consuming, the rune starting at byte offset
// l.pos+skip bytes past the current runes already peeked — callers pass an
// explicit byte offset for simplicity.
func (l *Lexer) peekRuneAt(byteOffset int) (rune, int) {
	if byteOffset >= len(l.src) {
		return 0, 0
	}
	r, w := utf8.DecodeRune(l.src[byteOffset:])
	return r, w
}

func (l *Lexer) peek() rune {
	r, _ := l.peekRuneAt(l.pos)
	return r
}

func (l *Lexer) peek2() rune {
	_, w := l.peekRuneAt(l.pos)
	r, _ := l.peekRuneAt(l.pos + w)
	return r
}

// threeQuotesAhead reports whether the next three runes from the current
// position are all '"', i.e. the closing delimiter of a triple-quoted
// string rather than one or two literal quote characters inside it.
func (l *Lexer) threeQuotesAhead() bool {
	off := l.pos
	for i := 0; i < 3; i++ {
		r, w := l.peekRuneAt(off)
		if r != '"' {
			return false
		}
		off += w
	}
	return true
}

func (l *Lexer) advance() rune {
	r, w := l.peekRuneAt(l.pos)
	if w == 0 {
		return 0
	}
	l.pos += w
	l.cur.Advance(r, w)
	return r
}

func (l *Lexer) startPos() source.Pos { return l.cur.Pos() }

func (l *Lexer) errAt(pos source.Pos, code errors.Code, vars map[string]string) error {
	return errors.Throw(code, pos, vars)
}

// --- whitespace and comments ------------------------------------------------

// skipTrivia consumes spaces, tabs, CR, and comments, setting l.leadingWS
// whenever at least one was consumed. \n is not trivia: it is emitted as a
// NEWLINE token by the caller.
func (l *Lexer) skipTrivia() error {
	for {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
			l.leadingWS = true
		case '/':
			if l.peek2() == '/' {
				for !l.atEnd() && l.peek() != '\n' {
					l.advance()
				}
				l.leadingWS = true
				continue
			}
			if l.peek2() == '*' {
				if err := l.skipBlockComment(); err != nil {
					return err
				}
				l.leadingWS = true
				continue
			}
			return nil
		default:
			return nil
		}
	}
}

func (l *Lexer) skipBlockComment() error {
	start := l.startPos()
	l.advance() // '/'
	l.advance() // '*'
	depth := 1
	for depth > 0 {
		if l.atEnd() {
			return l.errAt(start, "VF1300", nil)
		}
		if l.peek() == '/' && l.peek2() == '*' {
			if depth >= l.maxCommentDepth {
				return l.errAt(start, "VF1300", nil)
			}
			l.advance()
			l.advance()
			depth++
			continue
		}
		if l.peek() == '*' && l.peek2() == '/' {
			l.advance()
			l.advance()
			depth--
			continue
		}
		l.advance()
	}
	return nil
}

// --- main dispatch ----------------------------------------------------------

func (l *Lexer) next() (Token, error) {
	if err := l.skipTrivia(); err != nil {
		return Token{}, err
	}

	if l.atEnd() {
		return Token{Kind: EOF, Pos: l.startPos()}, nil
	}

	startPos := l.startPos()
	ws := l.leadingWS
	l.leadingWS = false

	r := l.peek()

	switch {
	case r == '\n':
		l.advance()
		return Token{Kind: NEWLINE, Lexeme: "\n", Pos: startPos, LeadingWS: ws}, nil
	case r == '"':
		return l.readString(startPos, ws)
	case unicode.IsDigit(r):
		return l.readNumber(startPos, ws)
	case isIdentStart(r):
		return l.readIdentifier(startPos, ws)
	default:
		return l.readOperator(startPos, ws)
	}
}

// --- identifiers -------------------------------------------------------------

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || isEmojiPresentation(r)
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) ||
		unicode.Is(unicode.Mc, r) || r == zeroWidthJoiner
}

func (l *Lexer) readIdentifier(pos source.Pos, ws bool) (Token, error) {
	var b strings.Builder
	for !l.atEnd() && isIdentCont(l.peek()) {
		b.WriteRune(l.advance())
	}
	name := b.String()

	if ReservedForFuture[name] || l.extraReserved[name] {
		return Token{}, l.errAt(pos, "VF1500", map[string]string{"name": name})
	}
	if name == "true" || name == "false" {
		return Token{Kind: BOOL_LITERAL, Lexeme: name, Value: name == "true", Pos: pos, LeadingWS: ws}, nil
	}
	if Keywords[name] {
		return Token{Kind: KEYWORD, Lexeme: name, Pos: pos, LeadingWS: ws}, nil
	}
	return Token{Kind: IDENTIFIER, Lexeme: name, Pos: pos, LeadingWS: ws}, nil
}

// --- numbers -----------------------------------------------------------------

func (l *Lexer) readNumber(pos source.Pos, ws bool) (Token, error) {
	if l.peek() == '0' && (l.peek2() == 'x' || l.peek2() == 'X') {
		return l.readRadixNumber(pos, ws, 16, "VF1102", isHexDigit)
	}
	if l.peek() == '0' && (l.peek2() == 'b' || l.peek2() == 'B') {
		return l.readRadixNumber(pos, ws, 2, "VF1101", isBinDigit)
	}
	return l.readDecimalNumber(pos, ws)
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
func isBinDigit(r rune) bool { return r == '0' || r == '1' }

func (l *Lexer) readRadixNumber(pos source.Pos, ws bool, radix int, emptyCode errors.Code, isDigit func(rune) bool) (Token, error) {
	var raw strings.Builder
	raw.WriteRune(l.advance()) // '0'
	raw.WriteRune(l.advance()) // 'x'/'b'

	digits, err := l.readDigitRun(isDigit)
	if err != nil {
		return Token{}, err
	}
	if digits == "" {
		return Token{}, l.errAt(pos, emptyCode, nil)
	}
	raw.WriteString(digits)

	clean := strings.ReplaceAll(digits, "_", "")
	v, convErr := strconv.ParseInt(clean, radix, 64)
	if convErr != nil {
		return Token{}, l.errAt(pos, "VF1103", map[string]string{"lexeme": raw.String()})
	}
	return Token{Kind: INT_LITERAL, Lexeme: raw.String(), Value: v, Pos: pos, LeadingWS: ws}, nil
}

// readDigitRun consumes digits of isDigit plus underscore separators,
// enforcing the §4.3 underscore rule: never leading, trailing, or adjacent
// to another separator — except a single underscore immediately after a
// radix prefix, which the caller already consumed before calling this.
func (l *Lexer) readDigitRun(isDigit func(rune) bool) (string, error) {
	var b strings.Builder
	lastWasUnderscore := false
	sawDigit := false
	for {
		r := l.peek()
		if isDigit(r) {
			b.WriteRune(l.advance())
			lastWasUnderscore = false
			sawDigit = true
			continue
		}
		if r == '_' {
			if !sawDigit && !lastWasUnderscore {
				// underscore right after the prefix: permitted once.
				b.WriteRune(l.advance())
				lastWasUnderscore = true
				continue
			}
			if lastWasUnderscore {
				return "", l.errAt(l.startPos(), "VF1100", map[string]string{"lexeme": b.String()})
			}
			// lookahead: underscore must be followed by another digit
			if !isDigit(l.peek2()) {
				return "", l.errAt(l.startPos(), "VF1100", map[string]string{"lexeme": b.String()})
			}
			b.WriteRune(l.advance())
			lastWasUnderscore = true
			continue
		}
		break
	}
	if lastWasUnderscore {
		return "", l.errAt(l.startPos(), "VF1100", map[string]string{"lexeme": b.String()})
	}
	return b.String(), nil
}

func (l *Lexer) readDecimalNumber(pos source.Pos, ws bool) (Token, error) {
	intPart, err := l.readDigitRun(unicode.IsDigit)
	if err != nil {
		return Token{}, err
	}
	raw := intPart
	isFloat := false

	// fractional part: only when '.' is followed by a digit — "3." tokenizes
	// as INT_LITERAL(3) then DOT.
	if l.peek() == '.' && unicode.IsDigit(l.peek2()) {
		isFloat = true
		raw += string(l.advance()) // '.'
		frac, err := l.readDigitRun(unicode.IsDigit)
		if err != nil {
			return Token{}, err
		}
		raw += frac
	}

	if l.peek() == 'e' || l.peek() == 'E' {
		exp := string(l.advance())
		if l.peek() == '+' || l.peek() == '-' {
			exp += string(l.advance())
		}
		digits, err := l.readDigitRun(unicode.IsDigit)
		if err != nil {
			return Token{}, err
		}
		if digits == "" {
			return Token{}, l.errAt(l.startPos(), "VF1104", nil)
		}
		isFloat = true
		raw += exp + digits
	}

	clean := strings.ReplaceAll(raw, "_", "")
	if isFloat {
		v, convErr := strconv.ParseFloat(clean, 64)
		if convErr != nil {
			return Token{}, l.errAt(pos, "VF1103", map[string]string{"lexeme": raw})
		}
		return Token{Kind: FLOAT_LITERAL, Lexeme: raw, Value: v, Pos: pos, LeadingWS: ws}, nil
	}
	v, convErr := strconv.ParseInt(clean, 10, 64)
	if convErr != nil {
		return Token{}, l.errAt(pos, "VF1103", map[string]string{"lexeme": raw})
	}
	return Token{Kind: INT_LITERAL, Lexeme: raw, Value: v, Pos: pos, LeadingWS: ws}, nil
}

// --- strings -----------------------------------------------------------------

func (l *Lexer) readString(pos source.Pos, ws bool) (Token, error) {
	l.advance() // opening '"'
	triple := false
	if l.peek() == '"' && l.peek2() == '"' {
		l.advance()
		l.advance()
		triple = true
	}

	var b strings.Builder
	for {
		if l.atEnd() {
			return Token{}, l.errAt(pos, "VF1002", nil)
		}
		r := l.peek()
		if r == '\n' && !triple {
			return Token{}, l.errAt(pos, "VF1001", nil)
		}
		if r == '"' {
			if triple {
				if l.threeQuotesAhead() {
					l.advance()
					l.advance()
					l.advance()
					break
				}
				b.WriteRune(l.advance())
				continue
			}
			l.advance()
			break
		}
		if r == '\\' {
			decoded, err := l.readEscape(pos)
			if err != nil {
				return Token{}, err
			}
			b.WriteRune(decoded)
			continue
		}
		b.WriteRune(l.advance())
	}

	decoded := string(Normalize([]byte(b.String())))
	return Token{Kind: STRING_LITERAL, Lexeme: b.String(), Value: decoded, Pos: pos, LeadingWS: ws}, nil
}

func (l *Lexer) readEscape(stringStart source.Pos) (rune, error) {
	escPos := l.startPos()
	l.advance() // backslash
	if l.atEnd() {
		return 0, l.errAt(stringStart, "VF1002", nil)
	}
	switch r := l.peek(); r {
	case 'n':
		l.advance()
		return '\n', nil
	case 't':
		l.advance()
		return '\t', nil
	case 'r':
		l.advance()
		return '\r', nil
	case '"':
		l.advance()
		return '"', nil
	case '\'':
		l.advance()
		return '\'', nil
	case '\\':
		l.advance()
		return '\\', nil
	case 'x':
		l.advance()
		hex := make([]rune, 0, 2)
		for i := 0; i < 2 && isHexDigit(l.peek()); i++ {
			hex = append(hex, l.advance())
		}
		if len(hex) != 2 {
			return 0, l.errAt(escPos, "VF1011", map[string]string{"escape": "x" + string(hex)})
		}
		v, err := strconv.ParseInt(string(hex), 16, 32)
		if err != nil {
			return 0, l.errAt(escPos, "VF1011", map[string]string{"escape": "x" + string(hex)})
		}
		return rune(v), nil
	case 'u':
		l.advance()
		if l.peek() == '{' {
			l.advance()
			var hex []rune
			for l.peek() != '}' {
				if l.atEnd() || !isHexDigit(l.peek()) {
					return 0, l.errAt(escPos, "VF1012", map[string]string{"escape": "u{" + string(hex)})
				}
				hex = append(hex, l.advance())
				if len(hex) > 6 {
					return 0, l.errAt(escPos, "VF1012", map[string]string{"escape": "u{" + string(hex)})
				}
			}
			l.advance() // '}'
			if len(hex) == 0 {
				return 0, l.errAt(escPos, "VF1012", map[string]string{"escape": "u{}"})
			}
			v, err := strconv.ParseInt(string(hex), 16, 32)
			if err != nil || v > 0x10FFFF {
				return 0, l.errAt(escPos, "VF1012", map[string]string{"escape": "u{" + string(hex) + "}"})
			}
			return rune(v), nil
		}
		hex := make([]rune, 0, 4)
		for i := 0; i < 4 && isHexDigit(l.peek()); i++ {
			hex = append(hex, l.advance())
		}
		if len(hex) != 4 {
			return 0, l.errAt(escPos, "VF1012", map[string]string{"escape": "u" + string(hex)})
		}
		v, err := strconv.ParseInt(string(hex), 16, 32)
		if err != nil {
			return 0, l.errAt(escPos, "VF1012", map[string]string{"escape": "u" + string(hex)})
		}
		return rune(v), nil
	default:
		return 0, l.errAt(escPos, "VF1010", map[string]string{"escape": string(r)})
	}
}

// --- operators and punctuation -----------------------------------------------

// three, two, and single describe the maximal-munch table in §4.3 priority
// order: 3-char > 2-char > 1-char.
var three = map[string]Kind{"...": SPREAD}

var two = map[string]Kind{
	"==": OP_EQ, "!=": OP_NEQ, "<=": OP_LTE, ">=": OP_GTE,
	"|>": OP_PIPE_GT, ">>": OP_GT_GT, "<<": OP_LT_LT, "->": ARROW,
	"=>": FAT_ARROW, "::": OP_CONS, ":=": OP_ASSIGN, "&&": OP_AND, "||": OP_OR,
}

var single = map[rune]Kind{
	'(': LPAREN, ')': RPAREN, '{': LBRACE, '}': RBRACE,
	'[': LBRACKET, ']': RBRACKET, ',': COMMA, '.': DOT,
	':': COLON, ';': SEMICOLON, '|': PIPE,
	'+': OP_PLUS, '-': OP_MINUS, '*': OP_STAR, '/': OP_SLASH,
	'%': OP_PERCENT, '<': OP_LT, '>': OP_GT, '=': OP_EQUALS,
	'!': OP_BANG, '&': OP_AMPERSAND,
}

func (l *Lexer) readOperator(pos source.Pos, ws bool) (Token, error) {
	r1, w1 := l.peekRuneAt(l.pos)
	r2, w2 := l.peekRuneAt(l.pos + w1)
	r3, _ := l.peekRuneAt(l.pos + w1 + w2)

	if k, ok := three[string([]rune{r1, r2, r3})]; ok {
		l.advance()
		l.advance()
		l.advance()
		return Token{Kind: k, Lexeme: string([]rune{r1, r2, r3}), Pos: pos, LeadingWS: ws}, nil
	}
	if k, ok := two[string([]rune{r1, r2})]; ok {
		l.advance()
		l.advance()
		return Token{Kind: k, Lexeme: string([]rune{r1, r2}), Pos: pos, LeadingWS: ws}, nil
	}
	if k, ok := single[r1]; ok {
		l.advance()
		return Token{Kind: k, Lexeme: string(r1), Pos: pos, LeadingWS: ws}, nil
	}
	return Token{}, l.errAt(pos, "VF1400", map[string]string{"char": fmt.Sprintf("%c", r1)})
}
