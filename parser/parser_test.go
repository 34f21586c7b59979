package parser

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/atl-run/atl/ast"
)

type ParserTestSuite struct {
	suite.Suite
}

func (s *ParserTestSuite) parseExpr(src string) ast.Expression {
	p := NewFromString(src, "test.atl")
	expr := p.ParseExpression()
	s.Require().NoError(p.Err(), "unexpected parse error for %q", src)
	s.Require().NotNil(expr)
	return expr
}

func (s *ParserTestSuite) TestLiterals() {
	s.IsType(&ast.Literal{}, s.parseExpr("42"))
	s.IsType(&ast.Literal{}, s.parseExpr("3.14"))
	s.IsType(&ast.Literal{}, s.parseExpr("'hi'"))
	s.IsType(&ast.Literal{}, s.parseExpr("true"))
	s.IsType(&ast.Variable{}, s.parseExpr("self"))
}

func (s *ParserTestSuite) TestPrecedenceAdditiveBeforeMultiplicative() {
	expr := s.parseExpr("1 + 2 * 3")
	s.Equal("(1 + (2 * 3))", expr.String())
}

func (s *ParserTestSuite) TestPrecedenceLeftAssociative() {
	expr := s.parseExpr("1 - 2 - 3")
	s.Equal("((1 - 2) - 3)", expr.String())
}

func (s *ParserTestSuite) TestPrecedenceComparisonAndLogical() {
	expr := s.parseExpr("1 < 2 and 3 > 4")
	s.Equal("((1 < 2) and (3 > 4))", expr.String())
}

func (s *ParserTestSuite) TestPrecedenceOrLooserThanAnd() {
	expr := s.parseExpr("1 and 2 or 3")
	s.Equal("((1 and 2) or 3)", expr.String())
}

func (s *ParserTestSuite) TestGroupedExpressionOverridesPrecedence() {
	expr := s.parseExpr("(1 + 2) * 3")
	s.Equal("((1 + 2) * 3)", expr.String())
}

func (s *ParserTestSuite) TestUnaryMinus() {
	expr := s.parseExpr("-1")
	un, ok := expr.(*ast.UnaryOp)
	s.Require().True(ok)
	s.Equal("-", un.Op)
}

func (s *ParserTestSuite) TestUnaryNot() {
	expr := s.parseExpr("not true")
	un, ok := expr.(*ast.UnaryOp)
	s.Require().True(ok)
	s.Equal("not", un.Op)
}

func (s *ParserTestSuite) TestNavigation() {
	expr := s.parseExpr("self.name")
	nav, ok := expr.(*ast.Navigation)
	s.Require().True(ok)
	s.Equal("name", nav.Prop)
}

func (s *ParserTestSuite) TestChainedNavigation() {
	expr := s.parseExpr("a.b.c")
	outer, ok := expr.(*ast.Navigation)
	s.Require().True(ok)
	s.Equal("c", outer.Prop)
	inner, ok := outer.Source.(*ast.Navigation)
	s.Require().True(ok)
	s.Equal("b", inner.Prop)
}

func (s *ParserTestSuite) TestMethodCallViaDot() {
	expr := s.parseExpr("self.foo(1, 2)")
	call, ok := expr.(*ast.MethodCall)
	s.Require().True(ok)
	s.Equal("foo", call.Name)
	s.Len(call.Args, 2)
	s.False(call.Arrow)
}

func (s *ParserTestSuite) TestCollectionOpViaArrow() {
	expr := s.parseExpr("self.items->select(x | x > 1)")
	call, ok := expr.(*ast.MethodCall)
	s.Require().True(ok)
	s.Equal("select", call.Name)
	s.True(call.Arrow)
	s.Require().Len(call.Args, 1)
	s.IsType(&ast.Lambda{}, call.Args[0])
}

func (s *ParserTestSuite) TestIterate() {
	expr := s.parseExpr("self.items->iterate(x; acc : Integer = 0 | acc + x)")
	it, ok := expr.(*ast.Iterate)
	s.Require().True(ok)
	s.Equal("x", it.Param)
	s.Equal("acc", it.Acc)
	s.Require().NotNil(it.AccType)
	s.Equal("Integer", it.AccType.Name)
}

func (s *ParserTestSuite) TestHelperCall() {
	expr := s.parseExpr("frobnicate(1, 2)")
	call, ok := expr.(*ast.HelperCall)
	s.Require().True(ok)
	s.Equal("frobnicate", call.Name)
	s.Len(call.Args, 2)
}

func (s *ParserTestSuite) TestTypeLiteral() {
	expr := s.parseExpr("IN!Person")
	lit, ok := expr.(*ast.TypeLiteral)
	s.Require().True(ok)
	s.Equal(ast.TypeRefQualified, lit.Ref.Kind)
	s.Equal("IN", lit.Ref.Alias)
	s.Equal("Person", lit.Ref.Class)
}

func (s *ParserTestSuite) TestCollectionLiteral() {
	expr := s.parseExpr("Sequence{1, 2, 3}")
	lit, ok := expr.(*ast.CollectionLiteral)
	s.Require().True(ok)
	s.Equal("Sequence", lit.Kind)
	s.Len(lit.Elems, 3)
}

func (s *ParserTestSuite) TestTupleExpr() {
	expr := s.parseExpr("Tuple{x = 1, y = 'a'}")
	tup, ok := expr.(*ast.TupleExpr)
	s.Require().True(ok)
	s.Require().Len(tup.Fields, 2)
	s.Equal("x", tup.Fields[0].Name)
	s.Equal("y", tup.Fields[1].Name)
}

func (s *ParserTestSuite) TestConditional() {
	expr := s.parseExpr("if true then 1 else 2 endif")
	cond, ok := expr.(*ast.Conditional)
	s.Require().True(ok)
	s.NotNil(cond.Cond)
	s.NotNil(cond.Then)
	s.NotNil(cond.Else)
}

func (s *ParserTestSuite) TestLet() {
	expr := s.parseExpr("let x : Integer = 1 in x + 1")
	let, ok := expr.(*ast.Let)
	s.Require().True(ok)
	s.Equal("x", let.Name)
	s.Require().NotNil(let.Type)
	s.Equal("Integer", let.Type.Name)
}

func (s *ParserTestSuite) TestLambdaArgument() {
	expr := s.parseExpr("self.items->collect(e | e.name)")
	call, ok := expr.(*ast.MethodCall)
	s.Require().True(ok)
	lam, ok := call.Args[0].(*ast.Lambda)
	s.Require().True(ok)
	s.Equal("e", lam.Param)
}

func (s *ParserTestSuite) TestTypeRefGeneric() {
	p := NewFromString("Sequence(Integer)", "test.atl")
	ref := p.parseTypeRef()
	s.Require().NoError(p.Err())
	s.Equal(ast.TypeRefGeneric, ref.Kind)
	s.Equal("Sequence", ref.Name)
	s.Equal("Integer", ref.Inner.Name)
}

func (s *ParserTestSuite) TestTypeRefTuple() {
	p := NewFromString("TupleType(x : Integer, y : String)", "test.atl")
	ref := p.parseTypeRef()
	s.Require().NoError(p.Err())
	s.Equal(ast.TypeRefTuple, ref.Kind)
	s.Require().Len(ref.Fields, 2)
}

func (s *ParserTestSuite) TestSimpleModule() {
	src := `module M;
create OUT : TargetMeta from IN : SourceMeta;

rule Foo from s : IN!Source to t : OUT!Target ( name <- s.name );
`
	p := NewFromString(src, "test.atl")
	mod, err := p.ParseModule()
	s.Require().NoError(err)
	s.Equal("M", mod.Name)
	s.True(mod.SourceAliases.Has("IN"))
	s.True(mod.TargetAliases.Has("OUT"))
	s.Require().Len(mod.MatchedRules, 1)
	s.Equal("Foo", mod.MatchedRules[0].Name)
	s.Require().Len(mod.MatchedRules[0].Targets, 1)
	s.Require().Len(mod.MatchedRules[0].Targets[0].Bindings, 1)
	s.Equal("name", mod.MatchedRules[0].Targets[0].Bindings[0].Property)
}

func (s *ParserTestSuite) TestModuleWithoutCreateUsesDefaultAliases() {
	src := `module M;
rule Foo from s : Person to t : PersonDTO;
`
	p := NewFromString(src, "test.atl")
	mod, err := p.ParseModule()
	s.Require().NoError(err)
	s.True(mod.SourceAliases.Has("IN"))
	s.True(mod.TargetAliases.Has("OUT"))
}

func (s *ParserTestSuite) TestCalledRuleWithParams() {
	src := `module M;
rule makeTarget(x : Integer) to t : OUT!Target;
`
	p := NewFromString(src, "test.atl")
	mod, err := p.ParseModule()
	s.Require().NoError(err)
	rule, ok := mod.CalledRules.Get("makeTarget")
	s.Require().True(ok)
	s.Require().Len(rule.Params, 1)
	s.False(rule.Lazy)
}

func (s *ParserTestSuite) TestLazyRule() {
	src := `module M;
lazy rule makeLazy from p : Person to t : OUT!Target;
`
	p := NewFromString(src, "test.atl")
	mod, err := p.ParseModule()
	s.Require().NoError(err)
	rule, ok := mod.CalledRules.Get("makeLazy")
	s.Require().True(ok)
	s.True(rule.Lazy)
	s.Require().Len(rule.Params, 1)
	s.Equal("p", rule.Params[0].Name)
}

func (s *ParserTestSuite) TestHelperWithContext() {
	src := `module M;
helper context Person def : fullName() : String = self.name;
`
	p := NewFromString(src, "test.atl")
	mod, err := p.ParseModule()
	s.Require().NoError(err)
	h, ok := mod.Helpers.Get(ast.HelperKey("Person", "fullName"))
	s.Require().True(ok)
	s.Equal("fullName", h.Name)
	s.Equal("Person", h.Context)
}

func (s *ParserTestSuite) TestGuardedRule() {
	src := `module M;
rule Adult from p : Person (p.age > 17) to t : OUT!Target;
`
	p := NewFromString(src, "test.atl")
	mod, err := p.ParseModule()
	s.Require().NoError(err)
	s.Require().NotNil(mod.MatchedRules[0].Source.Guard)
}

func (s *ParserTestSuite) TestPathDirectiveRecorded() {
	src := `-- @path People=./people.yaml
module M;
rule Foo from s : Person to t : OUT!Target;
`
	p := NewFromString(src, "test.atl")
	_, err := p.ParseModule()
	s.Require().NoError(err)
	path, ok := p.PathDirectives().Get("People")
	s.Require().True(ok)
	s.Equal("./people.yaml", path)
}

func (s *ParserTestSuite) TestParseErrorOnMissingPrefix() {
	p := NewFromString("->", "test.atl")
	expr := p.ParseExpression()
	s.Nil(expr)
	s.Error(p.Err())
}

func (s *ParserTestSuite) TestDoBlockIsSkippedNotRetained() {
	src := `module M;
rule Foo from s : Person to t : OUT!Target do {
  self.log(s);
};
`
	p := NewFromString(src, "test.atl")
	mod, err := p.ParseModule()
	s.Require().NoError(err)
	s.Require().Len(mod.MatchedRules, 1)
}

func TestParserTestSuite(t *testing.T) {
	suite.Run(t, new(ParserTestSuite))
}
