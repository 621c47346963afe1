package arith

import (
	"math/big"
	"strings"
)

// Normalize rewrites the math symbols found on Japanese worksheets into
// their ASCII equivalents: ×/· → *, ÷ → " / ", ＝ → =, full-width
// digits, operators and parentheses to half-width. The division sign
// gets surrounding spaces so "30÷3" never turns into the glued "30/3",
// which would read as a fraction.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '×' || r == '·':
			b.WriteByte('*')
		case r == '÷':
			b.WriteString(" / ")
		case r == '＝':
			b.WriteByte('=')
		case r == '　':
			b.WriteByte(' ')
		case r >= '０' && r <= '９':
			b.WriteByte(byte('0' + r - '０'))
		case r == '＋':
			b.WriteByte('+')
		case r == '－' || r == '−':
			b.WriteByte('-')
		case r == '（':
			b.WriteByte('(')
		case r == '）':
			b.WriteByte(')')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sanitized reports whether s contains only the characters the evaluator
// is allowed to see. Anything else (letters, brackets, control bytes)
// makes the whole expression non-evaluable rather than an error.
func sanitized(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '+' || r == '-' || r == '*' || r == '/':
		case r == '(' || r == ')' || r == '.' || r == ' ':
		default:
			return false
		}
	}
	return true
}

// Eval computes the exact rational value of an arithmetic expression.
// Supported: + - * / (and their Japanese school forms via Normalize),
// parentheses, decimals, fractions "a/b" and mixed numbers "w a/b".
// A slash glued to digits is a fraction; a slash with surrounding spaces
// is division, matching how worksheets distinguish "3/4" from "12 / 4".
// Returns (nil, false) for anything it cannot evaluate. Never panics on
// malformed input.
func Eval(expr string) (*big.Rat, bool) {
	s := Normalize(expr)
	s = strings.TrimSpace(s)
	if s == "" || !sanitized(s) {
		return nil, false
	}

	p := &parser{toks: lex(s)}
	v, ok := p.parseExpr()
	if !ok || p.pos != len(p.toks) {
		return nil, false
	}
	return v, true
}

// ExtractExpression pulls the arithmetic expression out of a question
// text such as "12-5=？" or "3 1/2 + 2 = いくつですか". It cuts at the
// first "=" (normalized), then accepts the prefix only if it evaluates
// and actually contains an operator. Returns ("", false) for word
// problems and anything else that is not pure arithmetic.
func ExtractExpression(question string) (string, bool) {
	s := Normalize(question)
	if i := strings.IndexByte(s, '='); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" || !sanitized(s) {
		return "", false
	}
	if !strings.ContainsAny(s, "+-*/") {
		return "", false
	}
	if _, ok := Eval(s); !ok {
		return "", false
	}
	return s, true
}

// --- lexer ---

type tokKind int

const (
	tokNum tokKind = iota
	tokOp          // + - * /
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	op   byte
	val  *big.Rat
	frac bool // the number was written as a slash fraction "a/b"
}

func lex(s string) []token {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen})
			i++
		case c >= '0' && c <= '9' || c == '.':
			num, frac, n := lexNumber(s[i:])
			if num == nil {
				return nil
			}
			toks = append(toks, token{kind: tokNum, val: num, frac: frac})
			i += n
		case c == '+' || c == '-' || c == '*' || c == '/':
			toks = append(toks, token{kind: tokOp, op: c})
			i++
		default:
			return nil
		}
	}
	return toks
}

// lexNumber reads a number literal starting at s[0]: digits, an optional
// decimal part, and an optional glued "/digits" fraction tail. Returns
// the value, whether it was a slash fraction, and the bytes consumed.
func lexNumber(s string) (*big.Rat, bool, int) {
	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
	}
	lit := s[:i]
	if lit == "" || lit == "." || strings.Count(lit, ".") > 1 {
		return nil, false, 0
	}

	// Glued fraction: "3/4" with no spaces around the slash.
	if i < len(s) && s[i] == '/' && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9' {
		j := i + 1
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		den := s[i+1 : j]
		if strings.Contains(lit, ".") || den == "0" || allZero(den) {
			return nil, false, 0
		}
		r, ok := new(big.Rat).SetString(lit + "/" + den)
		if !ok {
			return nil, false, 0
		}
		return r, true, j
	}

	r, ok := new(big.Rat).SetString(lit)
	if !ok {
		return nil, false, 0
	}
	return r, false, i
}

func allZero(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' {
			return false
		}
	}
	return true
}

// --- parser ---

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) parseExpr() (*big.Rat, bool) {
	left, ok := p.parseTerm()
	if !ok {
		return nil, false
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOp || (t.op != '+' && t.op != '-') {
			return left, true
		}
		p.pos++
		right, ok := p.parseTerm()
		if !ok {
			return nil, false
		}
		if t.op == '+' {
			left = new(big.Rat).Add(left, right)
		} else {
			left = new(big.Rat).Sub(left, right)
		}
	}
}

func (p *parser) parseTerm() (*big.Rat, bool) {
	left, ok := p.parseFactor()
	if !ok {
		return nil, false
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOp || (t.op != '*' && t.op != '/') {
			return left, true
		}
		p.pos++
		right, ok := p.parseFactor()
		if !ok {
			return nil, false
		}
		if t.op == '*' {
			left = new(big.Rat).Mul(left, right)
		} else {
			if right.Sign() == 0 {
				return nil, false
			}
			left = new(big.Rat).Quo(left, right)
		}
	}
}

func (p *parser) parseFactor() (*big.Rat, bool) {
	t, ok := p.peek()
	if !ok {
		return nil, false
	}

	switch t.kind {
	case tokOp:
		if t.op != '-' {
			return nil, false
		}
		p.pos++
		v, ok := p.parseFactor()
		if !ok {
			return nil, false
		}
		return new(big.Rat).Neg(v), true

	case tokLParen:
		p.pos++
		v, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		t, ok = p.peek()
		if !ok || t.kind != tokRParen {
			return nil, false
		}
		p.pos++
		return v, true

	case tokNum:
		p.pos++
		v := new(big.Rat).Set(t.val)
		// Mixed number: an integer immediately followed by a slash
		// fraction ("3 1/2") reads as 3 + 1/2, not implicit multiply.
		if t.val.IsInt() && !t.frac {
			if next, ok := p.peek(); ok && next.kind == tokNum && next.frac {
				p.pos++
				frac := new(big.Rat).Set(next.val)
				if v.Sign() < 0 {
					frac.Neg(frac)
				}
				return v.Add(v, frac), true
			}
		}
		return v, true

	default:
		return nil, false
	}
}
