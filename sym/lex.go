package sym

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int8

const (
	tokenNone tokenKind = iota
	tokenEOF
	tokenNum   // integer or decimal literal, possibly with an exponent
	tokenIdent // symbol, constant, or function name
	tokenOp
	tokenOpen  // (
	tokenClose // )
	tokenSep   // ,
)

var tokenKindNames = [...]string{"None", "EOF", "Num", "Ident", "Op", "Open", "Close", "Sep"}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// token is a lexeme with the 1-based column of its first rune.
type token struct {
	kind tokenKind
	text string
	col  int
}

func (t token) String() string {
	return t.kind.String() + "(" + strconv.Quote(t.text) + ")@" + strconv.Itoa(t.col)
}

// opRunes are the single-rune operators. "**" is lexed specially.
const opRunes = "+-*/^×÷"

// delimits reports whether r ends a number or identifier.
func delimits(r rune) bool {
	return unicode.IsSpace(r) || r == '(' || r == ')' || r == ',' || strings.ContainsRune(opRunes, r)
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

// lexer produces tokens on demand from a rune stream. One token may be
// unread at a time.
type lexer struct {
	src io.RuneScanner
	// col is the column of the next rune to be read.
	col  int
	text strings.Builder
	back *token
	done bool
}

func newLexer(src io.RuneScanner) *lexer {
	return &lexer{src: src, col: 1}
}

// unread makes tok the next token returned. Only one token may be unread.
func (l *lexer) unread(tok token) {
	if l.back != nil {
		panic("sym: lexer already holds an unread token")
	}
	l.back = &tok
}

// reread returns the unread token. The caller must have unread one.
func (l *lexer) reread() token {
	if l.back == nil {
		panic("sym: lexer has no unread token")
	}
	tok := *l.back
	l.back = nil
	return tok
}

func (l *lexer) read() (rune, error) {
	r, n, err := l.src.ReadRune()
	if n > 0 {
		l.col++
	}
	return r, err
}

func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.col--
}

// peek returns the next rune without consuming it. ok is false at the end of
// input.
func (l *lexer) peek() (r rune, ok bool, err error) {
	r, err = l.read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, false, nil
		}
		return 0, false, err
	}
	l.unreadRune()
	return r, true, nil
}

// accept consumes the next rune into the token text if it is one of set.
func (l *lexer) accept(set string) (bool, error) {
	r, ok, err := l.peek()
	if err != nil || !ok || !strings.ContainsRune(set, r) {
		return false, err
	}
	l.read()
	l.text.WriteRune(r)
	return true, nil
}

// next returns the next token. The end of input produces one EOF token;
// calls after that return io.EOF. On a lexical error, the returned token
// holds only the column where it began.
func (l *lexer) next() (token, error) {
	if l.back != nil {
		return l.reread(), nil
	}
	if l.done {
		return token{}, io.EOF
	}
	l.text.Reset()
	var r rune
	for {
		c, ok, err := l.peek()
		if err != nil {
			return token{col: l.col}, err
		}
		if !ok {
			l.done = true
			return token{kind: tokenEOF, col: l.col}, nil
		}
		if !unicode.IsSpace(c) {
			r = c
			break
		}
		l.read()
	}

	start := l.col
	switch {
	case isDigit(r) || r == '.':
		if err := l.number(); err != nil {
			return token{col: start}, err
		}
		return token{kind: tokenNum, text: l.text.String(), col: start}, nil
	case r == '_' || unicode.IsLetter(r):
		if err := l.ident(); err != nil {
			return token{col: start}, err
		}
		return token{kind: tokenIdent, text: l.text.String(), col: start}, nil
	}

	l.read()
	switch r {
	case '(':
		return token{kind: tokenOpen, text: "(", col: start}, nil
	case ')':
		return token{kind: tokenClose, text: ")", col: start}, nil
	case ',':
		return token{kind: tokenSep, text: ",", col: start}, nil
	case '*':
		l.text.WriteRune(r)
		if _, err := l.accept("*"); err != nil {
			return token{col: start}, err
		}
		return token{kind: tokenOp, text: l.text.String(), col: start}, nil
	}
	if strings.ContainsRune(opRunes, r) {
		return token{kind: tokenOp, text: string(r), col: start}, nil
	}
	l.text.WriteRune(r)
	return token{col: start}, l.fail("")
}

// digits consumes a run of decimal digits and reports how many there were.
func (l *lexer) digits() (int, error) {
	n := 0
	for {
		ok, err := l.accept("0123456789")
		if err != nil || !ok {
			return n, err
		}
		n++
	}
}

// number scans mantissa digits with an optional fraction, then an optional
// exponent. The literal must end at a delimiter.
func (l *lexer) number() error {
	whole, err := l.digits()
	if err != nil {
		return err
	}
	frac := 0
	if ok, err := l.accept("."); err != nil {
		return err
	} else if ok {
		if frac, err = l.digits(); err != nil {
			return err
		}
	}
	if whole+frac == 0 {
		return l.failNumber()
	}
	if ok, err := l.accept("eE"); err != nil {
		return err
	} else if ok {
		if _, err := l.accept("+-"); err != nil {
			return err
		}
		n, err := l.digits()
		if err != nil {
			return err
		}
		if n == 0 {
			return l.failNumber()
		}
	}
	r, ok, err := l.peek()
	if err != nil {
		return err
	}
	if ok && !delimits(r) {
		return l.failNumber()
	}
	return nil
}

// failNumber reports a malformed number, including the rune that broke it
// unless that rune starts a new token.
func (l *lexer) failNumber() error {
	r, ok, err := l.peek()
	if err != nil {
		return err
	}
	if ok && !delimits(r) {
		l.read()
		l.text.WriteRune(r)
	}
	return l.fail("number")
}

func (l *lexer) ident() error {
	for {
		r, ok, err := l.peek()
		if err != nil || !ok {
			return err
		}
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return nil
		}
		l.read()
		l.text.WriteRune(r)
	}
}

func (l *lexer) fail(kind string) error {
	return &LexError{Text: l.text.String(), Kind: kind, Col: l.col}
}

// LexError is a malformed token. It implements InputError.
type LexError struct {
	// Text is what was scanned of the token, through the offending rune.
	Text string
	// Kind is "number" for malformed numbers, or empty for runes that cannot
	// begin any token.
	Kind string
	// Col is the column just past the offending rune.
	Col int
}

func (err *LexError) Error() string {
	what := "token"
	if err.Kind != "" {
		what = err.Kind
	}
	return errpos(err.Col, "malformed "+what+" "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}
