package language

import (
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/lexer"
)

// ParseQuery parses an executable document using the fragment argument
// extension. Base tokens come from gqlparser's lexer; the grammar here is
// standard executable-document grammar plus argument definitions on fragment
// definitions and argument lists on fragment spreads.
func ParseQuery(source string) (*Document, error) {
	return ParseQueryFile("", source)
}

// ParseQueryFile parses source, attributing positions to the given file name.
func ParseQueryFile(name, source string) (*Document, error) {
	p := &parser{lexer: lexer.New(&Source{Name: name, Input: source})}
	doc := p.parseDocument()
	if p.err != nil {
		return nil, p.err
	}
	return doc, nil
}

type parser struct {
	lexer lexer.Lexer
	err   error

	peeked    bool
	peekToken lexer.Token
}

func (p *parser) peek() lexer.Token {
	if !p.peeked {
		p.peekToken = p.read()
		p.peeked = true
	}
	return p.peekToken
}

func (p *parser) next() lexer.Token {
	tok := p.peek()
	p.peeked = false
	return tok
}

func (p *parser) read() lexer.Token {
	for {
		tok, err := p.lexer.ReadToken()
		if err != nil && p.err == nil {
			p.err = err
		}
		if p.err != nil {
			return tok
		}
		if tok.Kind == lexer.Comment {
			continue
		}
		return tok
	}
}

func (p *parser) expect(kind lexer.Type) lexer.Token {
	tok := p.peek()
	if tok.Kind != kind {
		p.errorf(&tok.Pos, "expected %s, found %s", kind.String(), tok.Kind.String())
		return tok
	}
	return p.next()
}

func (p *parser) expectKeyword(value string) lexer.Token {
	tok := p.peek()
	if tok.Kind != lexer.Name || tok.Value != value {
		p.errorf(&tok.Pos, "expected %q, found %s", value, tok.Kind.String())
		return tok
	}
	return p.next()
}

func (p *parser) errorf(pos *Position, format string, args ...any) {
	if p.err == nil {
		p.err = gqlerror.ErrorPosf(pos, format, args...)
	}
}

func (p *parser) parseDocument() *Document {
	doc := &Document{}
	pos := p.peek().Pos
	doc.Position = &pos
	for p.err == nil && p.peek().Kind != lexer.EOF {
		tok := p.peek()
		switch {
		case tok.Kind == lexer.BraceL:
			doc.Operations = append(doc.Operations, p.parseOperationDefinition())
		case tok.Kind == lexer.Name && tok.Value == "fragment":
			doc.Fragments = append(doc.Fragments, p.parseFragmentDefinition())
		case tok.Kind == lexer.Name && (tok.Value == "query" || tok.Value == "mutation" || tok.Value == "subscription"):
			doc.Operations = append(doc.Operations, p.parseOperationDefinition())
		default:
			p.errorf(&tok.Pos, "expected an operation or fragment definition, found %s", tok.Kind.String())
		}
	}
	return doc
}

func (p *parser) parseOperationDefinition() *OperationDefinition {
	tok := p.peek()
	pos := tok.Pos
	op := &OperationDefinition{Position: &pos}
	if tok.Kind == lexer.BraceL {
		op.Operation = Query
		op.SelectionSet = p.parseSelectionSet()
		return op
	}
	op.Operation = Operation(p.next().Value)
	if p.peek().Kind == lexer.Name {
		op.Name = p.next().Value
	}
	op.VariableDefinitions = p.parseVariableDefinitions()
	op.Directives = p.parseDirectives(false)
	op.SelectionSet = p.parseSelectionSet()
	return op
}

func (p *parser) parseFragmentDefinition() *FragmentDefinition {
	tok := p.expectKeyword("fragment")
	pos := tok.Pos
	def := &FragmentDefinition{Position: &pos}
	def.Name = p.parseFragmentName()
	def.ArgumentDefinitions = p.parseVariableDefinitions()
	p.expectKeyword("on")
	def.TypeCondition = p.parseName()
	def.Directives = p.parseDirectives(false)
	def.SelectionSet = p.parseSelectionSet()
	return def
}

func (p *parser) parseFragmentName() string {
	tok := p.peek()
	if tok.Kind == lexer.Name && tok.Value == "on" {
		p.errorf(&tok.Pos, "fragment name cannot be %q", "on")
		return ""
	}
	return p.parseName()
}

// parseVariableDefinitions parses both operation variable definitions and
// fragment argument definitions; the two share a grammar.
func (p *parser) parseVariableDefinitions() VariableDefinitionList {
	if p.peek().Kind != lexer.ParenL {
		return nil
	}
	open := p.next()
	var defs VariableDefinitionList
	for p.err == nil && p.peek().Kind != lexer.ParenR && p.peek().Kind != lexer.EOF {
		defs = append(defs, p.parseVariableDefinition())
	}
	p.expect(lexer.ParenR)
	if len(defs) == 0 {
		p.errorf(&open.Pos, "expected at least one variable definition")
	}
	return defs
}

func (p *parser) parseVariableDefinition() *VariableDefinition {
	tok := p.expect(lexer.Dollar)
	pos := tok.Pos
	def := &VariableDefinition{Position: &pos}
	def.Variable = p.parseName()
	p.expect(lexer.Colon)
	def.Type = p.parseType()
	if p.peek().Kind == lexer.Equals {
		p.next()
		def.DefaultValue = p.parseValue(true)
	}
	return def
}

func (p *parser) parseType() *Type {
	tok := p.peek()
	pos := tok.Pos
	var t *Type
	if tok.Kind == lexer.BracketL {
		p.next()
		elem := p.parseType()
		p.expect(lexer.BracketR)
		t = &Type{Elem: elem, Position: &pos}
	} else {
		t = &Type{NamedType: p.parseName(), Position: &pos}
	}
	if p.peek().Kind == lexer.Bang {
		p.next()
		t.NonNull = true
	}
	return t
}

func (p *parser) parseSelectionSet() SelectionSet {
	open := p.expect(lexer.BraceL)
	var set SelectionSet
	for p.err == nil && p.peek().Kind != lexer.BraceR && p.peek().Kind != lexer.EOF {
		set = append(set, p.parseSelection())
	}
	p.expect(lexer.BraceR)
	if len(set) == 0 {
		p.errorf(&open.Pos, "expected at least one selection")
	}
	return set
}

func (p *parser) parseSelection() Selection {
	if p.peek().Kind == lexer.Spread {
		return p.parseFragmentSelection()
	}
	return p.parseField()
}

func (p *parser) parseField() *Field {
	tok := p.peek()
	pos := tok.Pos
	f := &Field{Position: &pos}
	name := p.parseName()
	if p.peek().Kind == lexer.Colon {
		p.next()
		f.Alias = name
		f.Name = p.parseName()
	} else {
		f.Name = name
	}
	if p.peek().Kind == lexer.ParenL {
		f.Arguments = p.parseArguments(false)
	}
	f.Directives = p.parseDirectives(false)
	if p.peek().Kind == lexer.BraceL {
		f.SelectionSet = p.parseSelectionSet()
	}
	return f
}

func (p *parser) parseFragmentSelection() Selection {
	dots := p.expect(lexer.Spread)
	pos := dots.Pos
	tok := p.peek()
	if tok.Kind == lexer.Name && tok.Value != "on" {
		spread := &FragmentSpread{Position: &pos}
		spread.Name = p.parseName()
		if p.peek().Kind == lexer.ParenL {
			spread.Arguments = p.parseArguments(false)
		}
		spread.Directives = p.parseDirectives(false)
		return spread
	}
	inline := &InlineFragment{Position: &pos}
	if tok.Kind == lexer.Name {
		p.next()
		inline.TypeCondition = p.parseName()
	}
	inline.Directives = p.parseDirectives(false)
	inline.SelectionSet = p.parseSelectionSet()
	return inline
}

func (p *parser) parseArguments(constOnly bool) ArgumentList {
	open := p.expect(lexer.ParenL)
	var args ArgumentList
	for p.err == nil && p.peek().Kind != lexer.ParenR && p.peek().Kind != lexer.EOF {
		tok := p.peek()
		pos := tok.Pos
		arg := &Argument{Position: &pos}
		arg.Name = p.parseName()
		p.expect(lexer.Colon)
		arg.Value = p.parseValue(constOnly)
		args = append(args, arg)
	}
	p.expect(lexer.ParenR)
	if len(args) == 0 {
		p.errorf(&open.Pos, "expected at least one argument")
	}
	return args
}

func (p *parser) parseDirectives(constOnly bool) DirectiveList {
	var dirs DirectiveList
	for p.err == nil && p.peek().Kind == lexer.At {
		at := p.next()
		pos := at.Pos
		d := &Directive{Position: &pos}
		d.Name = p.parseName()
		if p.peek().Kind == lexer.ParenL {
			d.Arguments = p.parseArguments(constOnly)
		}
		dirs = append(dirs, d)
	}
	return dirs
}

func (p *parser) parseValue(constOnly bool) *Value {
	tok := p.peek()
	pos := tok.Pos
	switch tok.Kind {
	case lexer.Dollar:
		if constOnly {
			p.errorf(&tok.Pos, "variables are not allowed here")
			return nil
		}
		p.next()
		return &Value{Raw: p.parseName(), Kind: Variable, Position: &pos}
	case lexer.Int:
		p.next()
		return &Value{Raw: tok.Value, Kind: IntValue, Position: &pos}
	case lexer.Float:
		p.next()
		return &Value{Raw: tok.Value, Kind: FloatValue, Position: &pos}
	case lexer.String:
		p.next()
		return &Value{Raw: tok.Value, Kind: StringValue, Position: &pos}
	case lexer.BlockString:
		p.next()
		return &Value{Raw: tok.Value, Kind: BlockValue, Position: &pos}
	case lexer.Name:
		p.next()
		switch tok.Value {
		case "true", "false":
			return &Value{Raw: tok.Value, Kind: BooleanValue, Position: &pos}
		case "null":
			return &Value{Raw: tok.Value, Kind: NullValue, Position: &pos}
		default:
			return &Value{Raw: tok.Value, Kind: EnumValue, Position: &pos}
		}
	case lexer.BracketL:
		p.next()
		v := &Value{Kind: ListValue, Position: &pos}
		for p.err == nil && p.peek().Kind != lexer.BracketR && p.peek().Kind != lexer.EOF {
			elem := p.parseValue(constOnly)
			v.Children = append(v.Children, &ChildValue{Value: elem})
		}
		p.expect(lexer.BracketR)
		return v
	case lexer.BraceL:
		p.next()
		v := &Value{Kind: ObjectValue, Position: &pos}
		for p.err == nil && p.peek().Kind != lexer.BraceR && p.peek().Kind != lexer.EOF {
			fieldTok := p.peek()
			fieldPos := fieldTok.Pos
			name := p.parseName()
			p.expect(lexer.Colon)
			fv := p.parseValue(constOnly)
			v.Children = append(v.Children, &ChildValue{Name: name, Value: fv, Position: &fieldPos})
		}
		p.expect(lexer.BraceR)
		return v
	default:
		p.errorf(&tok.Pos, "expected a value, found %s", tok.Kind.String())
		return nil
	}
}

func (p *parser) parseName() string {
	return p.expect(lexer.Name).Value
}
