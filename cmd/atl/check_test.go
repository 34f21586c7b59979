package main

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/metamodel"
)

type CheckTestSuite struct {
	suite.Suite
}

func TestCheckTestSuite(t *testing.T) {
	suite.Run(t, new(CheckTestSuite))
}

func (s *CheckTestSuite) TestCheckSourceTypeBareWithNoBoundSourcesIsOk() {
	sources := map[string]metamodel.Provider{}
	err := checkSourceType("R", &ast.TypeRef{Kind: ast.TypeRefBare, Name: "Person"}, sources)
	s.NoError(err, "no bound sources at all means nothing to check against")
}

func (s *CheckTestSuite) TestCheckTargetTypeUnboundAliasIsError() {
	targets := map[string]metamodel.Provider{}
	err := checkTargetType("R", &ast.TypeRef{Kind: ast.TypeRefQualified, Alias: "OUT", Class: "Target"}, targets)
	s.Error(err)
}

func (s *CheckTestSuite) TestParseResourceSpecsParsesAliasSchemaInstance() {
	specs, err := parseResourceSpecs("IN=schema.yaml:instances.yaml,OUT=other.yaml")
	s.Require().NoError(err)
	s.Require().Len(specs, 2)
	s.Equal("IN", specs[0].alias)
	s.Equal("schema.yaml", specs[0].schemaPath)
	s.Equal("instances.yaml", specs[0].instancePath)
	s.Equal("OUT", specs[1].alias)
	s.Equal("other.yaml", specs[1].schemaPath)
	s.Empty(specs[1].instancePath)
}

func (s *CheckTestSuite) TestParseResourceSpecsEmptyFlagIsNil() {
	specs, err := parseResourceSpecs("")
	s.Require().NoError(err)
	s.Nil(specs)
}

func (s *CheckTestSuite) TestParseResourceSpecsRejectsMissingEquals() {
	_, err := parseResourceSpecs("not-a-valid-spec")
	s.Error(err)
}
