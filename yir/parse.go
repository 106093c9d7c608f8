// Copyright 2024 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package yir

import (
	"strings"
)

// builder interns the keywords, arguments and strings of one source so that
// repeated node names share a single object.
type builder struct {
	strs     map[string]string
	keywords map[Keyword]*Keyword
	args     map[argKey]*Argument
}

type argKey struct {
	kind ArgumentKind
	raw  string
}

func newBuilder() *builder {
	return &builder{
		strs:     map[string]string{},
		keywords: map[Keyword]*Keyword{},
		args:     map[argKey]*Argument{},
	}
}

func (b *builder) str(s string) string {
	if v, ok := b.strs[s]; ok {
		return v
	}
	// Detach from the source text so that it can be collected.
	s = strings.Clone(s)
	b.strs[s] = s
	return s
}

func (b *builder) keyword(prefix, ident string) *Keyword {
	k := Keyword{Prefix: b.str(prefix), Identifier: b.str(ident)}
	if v, ok := b.keywords[k]; ok {
		return v
	}
	v := &k
	b.keywords[k] = v
	return v
}

func (b *builder) argument(kind ArgumentKind, raw string) *Argument {
	k := argKey{kind: kind, raw: b.str(raw)}
	if v, ok := b.args[k]; ok {
		return v
	}
	v := &Argument{Kind: kind, Raw: k.raw}
	b.args[k] = v
	return v
}

type parser struct {
	lex *lexer
	b   *builder
}

// Parse parses the YANG text of source into its IR tree. source names the
// text in diagnostics. Errors are *ycommon.SourceError values carrying the
// line and column of the offending token.
func Parse(source, text string) (*Statement, error) {
	p := &parser{lex: newLexer(source, text), b: newBuilder()}
	tok, err := p.lex.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokEOF {
		return nil, p.lex.errorf(tok.line, tok.column, "missing root statement")
	}
	root, err := p.statement(tok)
	if err != nil {
		return nil, err
	}
	tok, err = p.lex.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokEOF {
		return nil, p.lex.errorf(tok.line, tok.column, "unexpected %s after root statement", tok.kind)
	}
	return root, nil
}

// keyword validates tok as a statement keyword.
func (p *parser) keyword(tok token) (*Keyword, error) {
	if tok.kind != tokUnquoted {
		return nil, p.lex.errorf(tok.line, tok.column, "unexpected %s, expecting a keyword", tok.kind)
	}
	prefix, ident, qualified := strings.Cut(tok.text, ":")
	if !qualified {
		prefix, ident = "", tok.text
	}
	if (qualified && !isIdentifier(prefix)) || !isIdentifier(ident) {
		return nil, p.lex.errorf(tok.line, tok.column, "invalid keyword %q", tok.text)
	}
	return p.b.keyword(prefix, ident), nil
}

// statement parses the statement starting with keyword token kw.
func (p *parser) statement(kw token) (*Statement, error) {
	k, err := p.keyword(kw)
	if err != nil {
		return nil, err
	}
	stmt := &Statement{Keyword: k, Line: kw.line, Column: kw.column}

	tok, err := p.lex.next()
	if err != nil {
		return nil, err
	}
	switch {
	case tok.kind == tokUnquoted:
		kind := Unquoted
		if isIdentifier(tok.text) {
			kind = Identifier
		}
		stmt.Argument = p.b.argument(kind, tok.text)
		if tok, err = p.lex.next(); err != nil {
			return nil, err
		}
		if tok.kind == tokUnquoted && tok.text == "+" {
			return nil, p.lex.errorf(tok.line, tok.column, "malformed concatenation: unquoted string cannot be concatenated")
		}
	case tok.kind.quoted():
		if stmt.Argument, tok, err = p.quoted(tok); err != nil {
			return nil, err
		}
	}

	switch tok.kind {
	case tokSemicolon:
		return stmt, nil
	case tokLBrace:
	default:
		return nil, p.lex.errorf(tok.line, tok.column, "unexpected %s in statement %q, expecting ';' or '{'", tok.kind, k)
	}

	for {
		tok, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokRBrace:
			return stmt, nil
		case tokEOF:
			return nil, p.lex.errorf(kw.line, kw.column, "unterminated block of statement %q", k)
		}
		child, err := p.statement(tok)
		if err != nil {
			return nil, err
		}
		stmt.Children = append(stmt.Children, child)
	}
}

// quoted parses a quoted argument starting at first, folding any '+'
// concatenation. It returns the argument and the token following it.
func (p *parser) quoted(first token) (*Argument, token, error) {
	parts := []*Argument{p.quotedPart(first)}
	for {
		tok, err := p.lex.next()
		if err != nil {
			return nil, token{}, err
		}
		if tok.kind != tokPlus {
			if len(parts) == 1 {
				return parts[0], tok, nil
			}
			return &Argument{Kind: Concatenation, Parts: parts}, tok, nil
		}
		next, err := p.lex.next()
		if err != nil {
			return nil, token{}, err
		}
		if !next.kind.quoted() {
			return nil, token{}, p.lex.errorf(next.line, next.column, "malformed concatenation: unexpected %s after '+'", next.kind)
		}
		parts = append(parts, p.quotedPart(next))
	}
}

func (p *parser) quotedPart(tok token) *Argument {
	if tok.kind == tokSingleQuoted {
		return p.b.argument(SingleQuoted, tok.text)
	}
	return p.b.argument(DoubleQuoted, tok.text)
}
