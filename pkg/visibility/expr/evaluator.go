package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/visibility"
)

// Evaluator parses and evaluates string visibility expressions.
//
// Supported syntax:
// - truthiness: `enabled`, `!enabled`
// - comparisons: `plan == "pro"`, `age >= 18`, `country != null`
// - composition: `a && (b || !c)`
//
// Identifiers resolve through visibility.Lookup against Context.Values (dot
// and bracket paths) or Context.Extras with the `extras.` prefix. Comparisons
// share the loose semantics of visibility.Compare.
type Evaluator struct{}

func New() *Evaluator { return &Evaluator{} }

var _ visibility.Evaluator = (*Evaluator)(nil)

// Eval implements visibility.Evaluator. An empty rule is visible.
func (e *Evaluator) Eval(_ string, rule string, ctx visibility.Context) (bool, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return true, nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return false, err
	}
	if len(tokens) == 0 {
		return true, nil
	}

	root, err := parse(tokens)
	if err != nil {
		return false, err
	}
	return root.eval(ctx), nil
}

// Validate reports syntax errors without evaluating the rule.
func Validate(rule string) error {
	tokens, err := tokenize(strings.TrimSpace(rule))
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}
	_, err = parse(tokens)
	return err
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenCompare
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDelimiter(ch byte) bool {
	return isSpace(ch) || strings.IndexByte("()!=&|<>", ch) >= 0
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(input); {
		ch := input[i]
		if isSpace(ch) {
			i++
			continue
		}

		peek := byte(0)
		if i+1 < len(input) {
			peek = input[i+1]
		}

		switch {
		case ch == '(':
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
			i++
		case ch == '!' && peek == '=':
			tokens = append(tokens, token{kind: tokenCompare, raw: "!="})
			i += 2
		case ch == '!':
			tokens = append(tokens, token{kind: tokenNot, raw: "!"})
			i++
		case ch == '=':
			if peek != '=' {
				return nil, errors.New("visibility/expr: unexpected '='; use '=='")
			}
			tokens = append(tokens, token{kind: tokenCompare, raw: "=="})
			i += 2
		case ch == '<' || ch == '>':
			op := string(ch)
			i++
			if peek == '=' {
				op += "="
				i++
			}
			tokens = append(tokens, token{kind: tokenCompare, raw: op})
		case ch == '&':
			if peek != '&' {
				return nil, errors.New("visibility/expr: unexpected '&'; use '&&'")
			}
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
			i += 2
		case ch == '|':
			if peek != '|' {
				return nil, errors.New("visibility/expr: unexpected '|'; use '||'")
			}
			tokens = append(tokens, token{kind: tokenOr, raw: "||"})
			i += 2
		case ch == '"' || ch == '\'':
			value, next, err := readString(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, raw: value})
			i = next
		default:
			start := i
			for i < len(input) && !isDelimiter(input[i]) {
				i++
			}
			tokens = append(tokens, classifyWord(input[start:i]))
		}
	}
	return tokens, nil
}

func readString(input string, start int) (string, int, error) {
	quote := input[start]
	escaped := false
	for i := start + 1; i < len(input); i++ {
		c := input[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c != quote {
			continue
		}
		body := input[start+1 : i]
		if quote == '\'' {
			body = strings.ReplaceAll(strings.ReplaceAll(body, `\'`, `'`), `"`, `\"`)
		}
		value, err := strconv.Unquote(`"` + body + `"`)
		if err != nil {
			return "", 0, fmt.Errorf("visibility/expr: invalid string literal: %w", err)
		}
		return value, i + 1, nil
	}
	return "", 0, errors.New("visibility/expr: unterminated string literal")
}

func classifyWord(raw string) token {
	switch strings.ToLower(raw) {
	case "true", "false":
		return token{kind: tokenBool, raw: strings.ToLower(raw)}
	case "null", "nil":
		return token{kind: tokenNull, raw: "null"}
	}
	if raw != "" && strings.IndexByte("0123456789-+.", raw[0]) >= 0 {
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			return token{kind: tokenNumber, raw: raw}
		}
	}
	return token{kind: tokenIdentifier, raw: raw}
}

type node interface {
	eval(ctx visibility.Context) bool
}

type orNode struct{ left, right node }

func (n orNode) eval(ctx visibility.Context) bool { return n.left.eval(ctx) || n.right.eval(ctx) }

type andNode struct{ left, right node }

func (n andNode) eval(ctx visibility.Context) bool { return n.left.eval(ctx) && n.right.eval(ctx) }

type notNode struct{ inner node }

func (n notNode) eval(ctx visibility.Context) bool { return !n.inner.eval(ctx) }

type compareNode struct {
	identifier string
	op         visibility.Operator
	value      any
}

func (n compareNode) eval(ctx visibility.Context) bool {
	actual, _ := lookup(ctx, n.identifier)
	return visibility.Compare(actual, n.op, n.value)
}

type truthyNode struct{ identifier string }

func (n truthyNode) eval(ctx visibility.Context) bool {
	value, ok := lookup(ctx, n.identifier)
	return ok && visibility.Truthy(value)
}

type parser struct {
	tokens []token
	pos    int
}

func parse(tokens []token) (node, error) {
	p := &parser{tokens: tokens}
	out, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("visibility/expr: unexpected token %q", p.tokens[p.pos].raw)
	}
	return out, nil
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(tokenOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.match(tokenAnd) {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.match(tokenNot) {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	if p.match(tokenLParen) {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.match(tokenRParen) {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}

	if p.pos >= len(p.tokens) {
		return nil, errors.New("visibility/expr: empty expression")
	}
	ident := p.tokens[p.pos]
	if ident.kind != tokenIdentifier {
		return nil, fmt.Errorf("visibility/expr: expected identifier, got %q", ident.raw)
	}
	p.pos++

	if p.pos < len(p.tokens) && p.tokens[p.pos].kind == tokenCompare {
		op := p.tokens[p.pos].raw
		p.pos++
		value, err := p.literal()
		if err != nil {
			return nil, err
		}
		return compareNode{identifier: ident.raw, op: visibility.Operator(op), value: value}, nil
	}
	return truthyNode{identifier: ident.raw}, nil
}

func (p *parser) match(kind tokenKind) bool {
	if p.pos >= len(p.tokens) || p.tokens[p.pos].kind != kind {
		return false
	}
	p.pos++
	return true
}

func (p *parser) literal() (any, error) {
	if p.pos >= len(p.tokens) {
		return nil, errors.New("visibility/expr: missing literal")
	}
	tok := p.tokens[p.pos]
	p.pos++
	switch tok.kind {
	case tokenString, tokenIdentifier:
		// Bare identifiers are treated as strings to keep the evaluator forgiving.
		return tok.raw, nil
	case tokenNumber:
		return strconv.ParseFloat(tok.raw, 64)
	case tokenBool:
		return tok.raw == "true", nil
	case tokenNull:
		return nil, nil
	default:
		return nil, fmt.Errorf("visibility/expr: expected literal, got %q", tok.raw)
	}
}

func lookup(ctx visibility.Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(strings.ToLower(key), "extras.") {
		return visibility.Lookup(ctx.Extras, key[len("extras."):])
	}
	return visibility.Lookup(ctx.Values, key)
}
