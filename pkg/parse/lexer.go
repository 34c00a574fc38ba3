package parse

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/patrickelectric/sixtyfps/pkg/diag"
)

// Kind is the kind of a token.
type Kind int

// Possible values of Kind. The names are used verbatim in "expected X"
// parse errors.
const (
	ErrorToken Kind = iota
	Eof
	Identifier
	NumberLiteral
	StringLiteral
	ColorLiteral
	ColonEqual
	FatArrow
	EqualEqual
	NotEqual
	LessEqual
	GreaterEqual
	AndAnd
	OrOr
	PlusEqual
	MinusEqual
	StarEqual
	DivEqual
	Equal
	Colon
	Semicolon
	Comma
	Dot
	Question
	Bang
	Plus
	Minus
	Star
	Div
	LAngle
	RAngle
	LBrace
	RBrace
	LParent
	RParent
	LBracket
	RBracket
)

var kindNames = [...]string{
	ErrorToken: "Error", Eof: "Eof", Identifier: "Identifier",
	NumberLiteral: "NumberLiteral", StringLiteral: "StringLiteral",
	ColorLiteral: "ColorLiteral", ColonEqual: "ColonEqual", FatArrow: "FatArrow",
	EqualEqual: "EqualEqual", NotEqual: "NotEqual", LessEqual: "LessEqual",
	GreaterEqual: "GreaterEqual", AndAnd: "AndAnd", OrOr: "OrOr",
	PlusEqual: "PlusEqual", MinusEqual: "MinusEqual", StarEqual: "StarEqual",
	DivEqual: "DivEqual", Equal: "Equal", Colon: "Colon", Semicolon: "Semicolon",
	Comma: "Comma", Dot: "Dot", Question: "Question", Bang: "Bang", Plus: "Plus",
	Minus: "Minus", Star: "Star", Div: "Div", LAngle: "LAngle", RAngle: "RAngle",
	LBrace: "LBrace", RBrace: "RBrace", LParent: "LParent", RParent: "RParent",
	LBracket: "LBracket", RBracket: "RBracket",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Token is a lexical token. Whitespace and comments are not tokens.
type Token struct {
	Kind Kind
	Text string
	diag.Ranging
}

// Punctuation, longest first so that a greedy match wins.
var punctuations = []struct {
	text string
	kind Kind
}{
	{":=", ColonEqual}, {"=>", FatArrow}, {"==", EqualEqual}, {"!=", NotEqual},
	{"<=", LessEqual}, {">=", GreaterEqual}, {"&&", AndAnd}, {"||", OrOr},
	{"+=", PlusEqual}, {"-=", MinusEqual}, {"*=", StarEqual}, {"/=", DivEqual},
	{"=", Equal}, {":", Colon}, {";", Semicolon}, {",", Comma}, {".", Dot},
	{"?", Question}, {"!", Bang}, {"+", Plus}, {"-", Minus}, {"*", Star},
	{"/", Div}, {"<", LAngle}, {">", RAngle}, {"{", LBrace}, {"}", RBrace},
	{"(", LParent}, {")", RParent}, {"[", LBracket}, {"]", RBracket},
}

// Lex splits src into tokens. The last token always has kind Eof. Runes that
// cannot start a token produce a token of kind Error, and unterminated
// comments and strings are reported through onError.
func Lex(src string, onError func(diag.Ranging, string)) []Token {
	var tokens []Token
	pos := 0
	for {
		pos = skipSpaceAndComments(src, pos, onError)
		if pos == len(src) {
			tokens = append(tokens, Token{Eof, "", diag.PointRanging(pos)})
			return tokens
		}
		kind, end := lexOne(src, pos, onError)
		tokens = append(tokens, Token{kind, src[pos:end], diag.Ranging{From: pos, To: end}})
		pos = end
	}
}

func skipSpaceAndComments(src string, pos int, onError func(diag.Ranging, string)) int {
	for pos < len(src) {
		r, size := utf8.DecodeRuneInString(src[pos:])
		switch {
		case unicode.IsSpace(r):
			pos += size
		case strings.HasPrefix(src[pos:], "//"):
			i := strings.IndexByte(src[pos:], '\n')
			if i == -1 {
				return len(src)
			}
			pos += i + 1
		case strings.HasPrefix(src[pos:], "/*"):
			i := strings.Index(src[pos+2:], "*/")
			if i == -1 {
				onError(diag.Ranging{From: pos, To: len(src)}, "unterminated comment")
				return len(src)
			}
			pos += i + 4
		default:
			return pos
		}
	}
	return pos
}

func lexOne(src string, pos int, onError func(diag.Ranging, string)) (Kind, int) {
	r, size := utf8.DecodeRuneInString(src[pos:])
	switch {
	case isIdentStart(r):
		end := pos + size
		for end < len(src) {
			r, size := utf8.DecodeRuneInString(src[end:])
			if !isIdentRest(r) {
				break
			}
			end += size
		}
		return Identifier, end
	case isDigit(r):
		end := pos
		for end < len(src) && (isDigit(rune(src[end])) || src[end] == '.') {
			end++
		}
		// Unit suffix, like px or ms.
		for end < len(src) && (isLetter(rune(src[end])) || src[end] == '%') {
			end++
		}
		return NumberLiteral, end
	case r == '"':
		end := pos + 1
		for end < len(src) {
			switch src[end] {
			case '\\':
				end += 2
				continue
			case '"':
				return StringLiteral, end + 1
			case '\n':
				onError(diag.Ranging{From: pos, To: end}, "unterminated string")
				return StringLiteral, end
			}
			end++
		}
		onError(diag.Ranging{From: pos, To: len(src)}, "unterminated string")
		return StringLiteral, len(src)
	case r == '#':
		end := pos + 1
		for end < len(src) && isHexDigit(rune(src[end])) {
			end++
		}
		return ColorLiteral, end
	}
	for _, p := range punctuations {
		if strings.HasPrefix(src[pos:], p.text) {
			return p.kind, pos + len(p.text)
		}
	}
	return ErrorToken, pos + size
}

func isIdentStart(r rune) bool { return r == '_' || isLetter(r) }
func isIdentRest(r rune) bool  { return isIdentStart(r) || isDigit(r) }
func isLetter(r rune) bool     { return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') }
func isDigit(r rune) bool      { return '0' <= r && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}
