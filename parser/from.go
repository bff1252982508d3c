package parser

import "github.com/vinsidious/sqlfmt/ast"

var joinKeywords = map[string]bool{
	"JOIN": true, "INNER": true, "LEFT": true, "RIGHT": true, "FULL": true,
	"CROSS": true, "NATURAL": true,
}

func (p *parser) parseFromList() ([]ast.FromItem, error) {
	var items []ast.FromItem
	first, err := p.parseFromItem()
	if err != nil {
		return nil, err
	}
	items = append(items, first)
	for {
		if p.isPunct(",") {
			p.advance()
			item, err := p.parseFromItem()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			continue
		}
		if p.isAnyKw("JOIN", "INNER", "LEFT", "RIGHT", "FULL", "CROSS", "NATURAL") {
			item, err := p.parseJoinedItem()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			continue
		}
		break
	}
	return items, nil
}

func (p *parser) parseJoinedItem() (ast.FromItem, error) {
	kind := ""
	if p.isKw("NATURAL") {
		kind = "NATURAL"
		p.advance()
	}
	switch {
	case p.isKw("INNER"):
		kind = joinWord(kind, "INNER")
		p.advance()
	case p.isKw("LEFT"):
		kind = joinWord(kind, "LEFT")
		p.advance()
		if p.tryKw("OUTER") {
			kind += " OUTER"
		}
	case p.isKw("RIGHT"):
		kind = joinWord(kind, "RIGHT")
		p.advance()
		if p.tryKw("OUTER") {
			kind += " OUTER"
		}
	case p.isKw("FULL"):
		kind = joinWord(kind, "FULL")
		p.advance()
		if p.tryKw("OUTER") {
			kind += " OUTER"
		}
	case p.isKw("CROSS"):
		kind = joinWord(kind, "CROSS")
		p.advance()
	}
	if kind == "" {
		kind = "INNER"
	}
	if err := p.expectKw("JOIN"); err != nil {
		return ast.FromItem{}, err
	}
	item, err := p.parseFromItem()
	if err != nil {
		return ast.FromItem{}, err
	}
	jc := &ast.JoinClause{Kind: kind}
	if p.isKw("ON") {
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return ast.FromItem{}, err
		}
		jc.On = cond
	} else if p.isKw("USING") {
		p.advance()
		cols, err := p.parseIdentList()
		if err != nil {
			return ast.FromItem{}, err
		}
		jc.Using = cols
	}
	item.Join = jc
	return item, nil
}

func joinWord(prefix, word string) string {
	if prefix == "" {
		return word
	}
	return prefix + " " + word
}

func (p *parser) parseFromItem() (ast.FromItem, error) {
	item := ast.FromItem{}
	if p.isKw("LATERAL") {
		p.advance()
		item.Lateral = true
	}
	if p.isPunct("(") {
		openIdx := p.pos
		p.advance()
		if p.isKw("SELECT") || p.isKw("WITH") {
			q, err := p.parseStatement()
			if err != nil {
				return item, err
			}
			if err := p.expectPunct(")"); err != nil {
				return item, err
			}
			item.Source = &ast.Subquery{Query: q}
		} else {
			inner, err := p.parseFromList()
			if err != nil {
				return item, err
			}
			closeIdx := p.pos
			if err := p.expectPunct(")"); err != nil {
				return item, err
			}
			if len(inner) == 1 {
				item = inner[0]
			} else {
				// A parenthesized join tree: keep the original source text
				// verbatim, matching spec.md's Raw-fallback policy for
				// constructs the model doesn't normalize.
				item.Source = &ast.Raw{Reason: ast.Verbatim, Text: p.sliceText(openIdx, closeIdx+1)}
			}
		}
	} else {
		name, err := p.parseIdentPath()
		if err != nil {
			return item, err
		}
		if p.isPunct("(") {
			e, err := p.parseFuncCallTail(name)
			if err != nil {
				return item, err
			}
			item.Source = e
		} else {
			item.Source = &ast.Ident{Parts: splitDotted(name)}
		}
	}
	if p.isKw("TABLESAMPLE") {
		p.advance()
		method := p.cur().Text
		p.advance()
		args, err := p.parseParenExprList()
		if err != nil {
			return item, err
		}
		item.TableSample = &ast.TableSample{Method: method, Args: args}
	}
	if p.isKw("AS") {
		p.advance()
		item.Alias = p.cur().Text
		p.advance()
	} else if p.isIdent() {
		item.Alias = p.cur().Text
		p.advance()
	}
	if item.Alias != "" && p.isPunct("(") {
		cols, err := p.parseIdentList()
		if err != nil {
			return item, err
		}
		item.Columns = cols
	}
	return item, nil
}

func splitDotted(name string) []string {
	parts := []string{}
	cur := ""
	for _, r := range name {
		if r == '.' {
			parts = append(parts, cur)
			cur = ""
			continue
		}
		cur += string(r)
	}
	parts = append(parts, cur)
	return parts
}
