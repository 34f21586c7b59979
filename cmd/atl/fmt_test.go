package main

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/atl-run/atl/parser"
)

type FmtTestSuite struct {
	suite.Suite
}

func TestFmtTestSuite(t *testing.T) {
	suite.Run(t, new(FmtTestSuite))
}

const roundTripProgram = `module Example;
create OUT : TargetMeta from IN : SourceMeta;

helper context Person def : greeting() : String = self.name;

rule ToTarget from p : IN!Person (p.age > 17) to t : OUT!Target (
	name <- p.name
);
`

func (s *FmtTestSuite) parse(src string) *parser.Parser {
	return parser.NewFromString(src, "test.atl")
}

// TestFormatIsAFixpointAfterOneRoundTrip checks that re-parsing
// formatModule's own output and formatting that second parse yields
// exactly the same text (a Module carries nothing formatModule can't
// re-derive, so the second pass can't drift from the first).
func (s *FmtTestSuite) TestFormatIsAFixpointAfterOneRoundTrip() {
	p1 := s.parse(roundTripProgram)
	mod1, err := p1.ParseModule()
	s.Require().NoError(err)
	first := formatModule(mod1)

	p2 := s.parse(first)
	mod2, err := p2.ParseModule()
	s.Require().NoError(err)
	second := formatModule(mod2)

	s.Equal(first, second)
}

func (s *FmtTestSuite) TestFormatPreservesRuleAndHelperCounts() {
	p := s.parse(roundTripProgram)
	mod, err := p.ParseModule()
	s.Require().NoError(err)
	out := formatModule(mod)

	reparsed, err := s.parse(out).ParseModule()
	s.Require().NoError(err)
	s.Equal(mod.Name, reparsed.Name)
	s.Len(reparsed.MatchedRules, 1)
	s.Equal(1, reparsed.Helpers.Len())
}

func (s *FmtTestSuite) TestFormatGuardedRuleIncludesGuard() {
	p := s.parse(roundTripProgram)
	mod, err := p.ParseModule()
	s.Require().NoError(err)
	out := formatModule(mod)
	s.Contains(out, "(p.age > 17)")
}

func (s *FmtTestSuite) TestFormatLazyRule() {
	src := `module M;
lazy rule makeLazy from p : Person to t : OUT!Target;
`
	mod, err := s.parse(src).ParseModule()
	s.Require().NoError(err)
	out := formatModule(mod)
	s.Contains(out, "lazy rule makeLazy from p : Person to")

	reparsed, err := s.parse(out).ParseModule()
	s.Require().NoError(err)
	rule, ok := reparsed.CalledRules.Get("makeLazy")
	s.Require().True(ok)
	s.True(rule.Lazy)
}

func (s *FmtTestSuite) TestFormatCalledRuleWithParams() {
	src := `module M;
rule makeTarget(x : Integer) to t : OUT!Target;
`
	mod, err := s.parse(src).ParseModule()
	s.Require().NoError(err)
	out := formatModule(mod)
	s.Contains(out, "rule makeTarget(x : Integer) to")
}
