package language

import "github.com/vektah/gqlparser/v2/ast"

// Leaf node types come from gqlparser: values, types and variable
// definitions are open structs there and need no extension. Selections are
// redefined below because gqlparser's Selection interface is closed and a
// fragment spread cannot carry arguments in its AST.
type (
	Value                  = ast.Value
	ChildValue             = ast.ChildValue
	ChildValueList         = ast.ChildValueList
	Type                   = ast.Type
	VariableDefinition     = ast.VariableDefinition
	VariableDefinitionList = ast.VariableDefinitionList
	Argument               = ast.Argument
	ArgumentList           = ast.ArgumentList
	Directive              = ast.Directive
	DirectiveList          = ast.DirectiveList
	Position               = ast.Position
	Source                 = ast.Source
)

type Operation = ast.Operation

type ValueKind = ast.ValueKind

const (
	Query        Operation = ast.Query
	Mutation     Operation = ast.Mutation
	Subscription Operation = ast.Subscription

	Variable     ValueKind = ast.Variable
	IntValue     ValueKind = ast.IntValue
	FloatValue   ValueKind = ast.FloatValue
	StringValue  ValueKind = ast.StringValue
	BlockValue   ValueKind = ast.BlockValue
	BooleanValue ValueKind = ast.BooleanValue
	NullValue    ValueKind = ast.NullValue
	EnumValue    ValueKind = ast.EnumValue
	ListValue    ValueKind = ast.ListValue
	ObjectValue  ValueKind = ast.ObjectValue
)

// Document is an executable GraphQL document extended with fragment argument
// definitions and fragment spread arguments.
type Document struct {
	Operations OperationList
	Fragments  FragmentList
	Position   *Position
}

type OperationDefinition struct {
	Operation           Operation
	Name                string
	VariableDefinitions VariableDefinitionList
	Directives          DirectiveList
	SelectionSet        SelectionSet
	Position            *Position
}

type OperationList []*OperationDefinition

func (l OperationList) ForName(name string) *OperationDefinition {
	for _, op := range l {
		if op.Name == name {
			return op
		}
	}
	return nil
}

// FragmentDefinition declares a named selection set together with the
// arguments it accepts:
//
//	fragment FriendsList($nFriends: Int! = 10) on User { ... }
type FragmentDefinition struct {
	Name                string
	ArgumentDefinitions VariableDefinitionList
	TypeCondition       string
	Directives          DirectiveList
	SelectionSet        SelectionSet
	Position            *Position
}

type FragmentList []*FragmentDefinition

func (l FragmentList) ForName(name string) *FragmentDefinition {
	for _, frag := range l {
		if frag.Name == name {
			return frag
		}
	}
	return nil
}

type SelectionSet []Selection

type Selection interface {
	isSelection()
	GetPosition() *Position
}

func (*Field) isSelection()          {}
func (*FragmentSpread) isSelection() {}
func (*InlineFragment) isSelection() {}

func (f *Field) GetPosition() *Position          { return f.Position }
func (s *FragmentSpread) GetPosition() *Position { return s.Position }
func (f *InlineFragment) GetPosition() *Position { return f.Position }

type Field struct {
	Alias        string
	Name         string
	Arguments    ArgumentList
	Directives   DirectiveList
	SelectionSet SelectionSet
	Position     *Position
}

// FragmentSpread references a fragment, optionally supplying values for its
// declared arguments: `...FriendsList(nFriends: 20)`.
type FragmentSpread struct {
	Name       string
	Arguments  ArgumentList
	Directives DirectiveList
	Position   *Position
}

type InlineFragment struct {
	TypeCondition string
	Directives    DirectiveList
	SelectionSet  SelectionSet
	Position      *Position
}
