package parser

import "strings"

// 原始SQL中的一个标识符，begin为字节偏移
type identifier struct {
	// text exactly as written, without enclosing backquotes
	literals string
	name     string
	begin    int
	quoted   bool
}

// 一串以点连接的标识符，如 db.t.col
type identChain struct {
	idents []identifier
	// lower-cased bare word directly before the chain, e.g. "from"; empty after any other text
	prev string
}

type identScanner struct {
	src string
	n   int
	i   int
}

// scanIdentifierChains returns every identifier chain (t, db.t, db.t.col, `db`.`t`)
// outside of string literals and comments. The body of an executable comment
// (/*! ... */, /*!40100 ... */) is scanned as SQL.
func scanIdentifierChains(sql string) (chains []identChain) {
	s := &identScanner{src: sql, n: len(sql)}
	prev := ""
	for s.i < s.n {
		c := s.src[s.i]
		switch {
		case c == '\'' || c == '"':
			s.consumeQuoted(c)
			prev = ""
		case c == '#':
			s.consumeLine()
		case c == '-' && s.peek(1) == '-' && (s.i+2 == s.n || isSpace(s.peek(2))):
			s.consumeLine()
		case c == '/' && s.peek(1) == '*' && s.peek(2) == '!':
			// MySQL runs the body, the closing */ is skipped as plain text
			s.i += 3
			for s.i < s.n && s.src[s.i] >= '0' && s.src[s.i] <= '9' {
				s.i++
			}
		case c == '/' && s.peek(1) == '*':
			s.consumeBlockComment()
		case c == '`' || isIdentChar(c):
			chain := identChain{idents: s.scanChain(), prev: prev}
			if len(chain.idents) == 0 {
				prev = ""
				continue
			}
			chains = append(chains, chain)
			prev = ""
			if len(chain.idents) == 1 && !chain.idents[0].quoted {
				prev = strings.ToLower(chain.idents[0].name)
			}
		default:
			if !isSpace(c) {
				prev = ""
			}
			s.i++
		}
	}
	return
}

func (s *identScanner) peek(k int) (b byte) {
	if s.i+k < s.n {
		b = s.src[s.i+k]
	}
	return
}

func (s *identScanner) consumeQuoted(quote byte) {
	s.i++
	for s.i < s.n {
		c := s.src[s.i]
		if c == '\\' {
			s.i += 2
			continue
		}
		s.i++
		if c == quote {
			// 'it''s'
			if s.i < s.n && s.src[s.i] == quote {
				s.i++
				continue
			}
			return
		}
	}
}

func (s *identScanner) consumeLine() {
	for s.i < s.n && s.src[s.i] != '\n' {
		s.i++
	}
}

func (s *identScanner) consumeBlockComment() {
	s.i += 2
	for s.i < s.n-1 {
		if s.src[s.i] == '*' && s.src[s.i+1] == '/' {
			s.i += 2
			return
		}
		s.i++
	}
	s.i = s.n
}

func (s *identScanner) scanChain() (chain []identifier) {
	first, ok := s.readIdent()
	if !ok {
		return
	}
	chain = append(chain, first)
	for {
		dot := s.skipSpaces(s.i)
		if dot >= s.n || s.src[dot] != '.' {
			return
		}
		next := s.skipSpaces(dot + 1)
		if next >= s.n || (s.src[next] != '`' && !isIdentChar(s.src[next])) {
			// db.* or a trailing dot
			return
		}
		s.i = next
		ident, ok := s.readIdent()
		if !ok {
			return
		}
		chain = append(chain, ident)
	}
}

func (s *identScanner) readIdent() (ident identifier, ok bool) {
	if s.i >= s.n {
		return
	}
	if s.src[s.i] == '`' {
		begin := s.i + 1
		end := begin
		for end < s.n {
			if s.src[end] == '`' {
				if end+1 < s.n && s.src[end+1] == '`' {
					end += 2
					continue
				}
				break
			}
			end++
		}
		literals := s.src[begin:end]
		s.i = end + 1
		if s.i > s.n {
			s.i = s.n
		}
		ident = identifier{literals: literals, name: strings.ReplaceAll(literals, "``", "`"), begin: begin, quoted: true}
		return ident, literals != ""
	}
	begin := s.i
	for s.i < s.n && isIdentChar(s.src[s.i]) {
		s.i++
	}
	if s.i == begin {
		return
	}
	literals := s.src[begin:s.i]
	return identifier{literals: literals, name: literals, begin: begin}, true
}

func (s *identScanner) skipSpaces(i int) int {
	for i < s.n && isSpace(s.src[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// 非ASCII字节均视为标识符的一部分
func isIdentChar(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
