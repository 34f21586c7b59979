package metamodel

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/atl-run/atl/value"
)

type YAMLProviderTestSuite struct {
	suite.Suite
}

func TestYAMLProviderTestSuite(t *testing.T) {
	suite.Run(t, new(YAMLProviderTestSuite))
}

const providerSchema = `
classes:
  Person:
    features:
      - name: name
        type: String
      - name: age
        type: Integer
  Student:
    supertypes: [Person]
    features:
      - name: school
`

const providerInstances = `
instances:
  - id: p1
    class: Person
    fields:
      name: Ada
      age: 30
`

func (s *YAMLProviderTestSuite) loadSchema() *Schema {
	schema, err := LoadSchema(strings.NewReader(providerSchema))
	s.Require().NoError(err)
	return schema
}

func (s *YAMLProviderTestSuite) TestReadFeatureFromSeedDocument() {
	schema := s.loadSchema()
	p, err := NewYAMLProvider(schema, strings.NewReader(providerInstances), false)
	s.Require().NoError(err)

	v, err := p.ReadFeature("p1", "name")
	s.Require().NoError(err)
	s.Equal("Ada", v.Str())

	age, err := p.ReadFeature("p1", "age")
	s.Require().NoError(err)
	s.Equal(int64(30), age.Int())
}

func (s *YAMLProviderTestSuite) TestReadUnknownFeatureIsError() {
	schema := s.loadSchema()
	p, err := NewYAMLProvider(schema, strings.NewReader(providerInstances), false)
	s.Require().NoError(err)
	_, err = p.ReadFeature("p1", "nope")
	s.Require().Error(err)
	s.Equal(UnknownFeature, err.(*Error).Kind)
}

func (s *YAMLProviderTestSuite) TestCreateInstanceFailsOnReadOnlyProvider() {
	schema := s.loadSchema()
	p, err := NewYAMLProvider(schema, nil, false)
	s.Require().NoError(err)
	_, err = p.CreateInstance("Person")
	s.Require().Error(err)
	s.Equal(ReadOnlyModel, err.(*Error).Kind)
}

func (s *YAMLProviderTestSuite) TestCreateInstanceOnWritableProvider() {
	schema := s.loadSchema()
	p, err := NewYAMLProvider(schema, nil, true)
	s.Require().NoError(err)
	id, err := p.CreateInstance("Person")
	s.Require().NoError(err)
	s.NotEmpty(id)
	class, err := p.ClassOf(id)
	s.Require().NoError(err)
	s.Equal("Person", class)
}

func (s *YAMLProviderTestSuite) TestWriteFeatureRejectsMistypedValue() {
	schema := s.loadSchema()
	p, err := NewYAMLProvider(schema, nil, true)
	s.Require().NoError(err)
	id, err := p.CreateInstance("Person")
	s.Require().NoError(err)

	err = p.WriteFeature(id, "age", value.Str("not a number"))
	s.Error(err, "age is declared Integer; writing a String must be rejected by typecheck.Check")
}

func (s *YAMLProviderTestSuite) TestWriteFeatureAcceptsCorrectlyTypedValue() {
	schema := s.loadSchema()
	p, err := NewYAMLProvider(schema, nil, true)
	s.Require().NoError(err)
	id, err := p.CreateInstance("Person")
	s.Require().NoError(err)

	s.Require().NoError(p.WriteFeature(id, "age", value.Int(42)))
	v, err := p.ReadFeature(id, "age")
	s.Require().NoError(err)
	s.Equal(int64(42), v.Int())
}

func (s *YAMLProviderTestSuite) TestAllInstancesIncludesSubclasses() {
	schema := s.loadSchema()
	p, err := NewYAMLProvider(schema, nil, true)
	s.Require().NoError(err)
	_, err = p.CreateInstance("Person")
	s.Require().NoError(err)
	_, err = p.CreateInstance("Student")
	s.Require().NoError(err)

	ids, err := p.AllInstances("Person")
	s.Require().NoError(err)
	s.Len(ids, 2, "Student is a subclass of Person so both instances should be included")
}

func (s *YAMLProviderTestSuite) TestFindFeatureWalksSupertypeChain() {
	schema := s.loadSchema()
	p, err := NewYAMLProvider(schema, nil, true)
	s.Require().NoError(err)
	id, err := p.CreateInstance("Student")
	s.Require().NoError(err)

	s.Require().NoError(p.WriteFeature(id, "name", value.Str("Ada")))
	v, err := p.ReadFeature(id, "name")
	s.Require().NoError(err)
	s.Equal("Ada", v.Str())
}

func (s *YAMLProviderTestSuite) TestDumpRoundTripsThroughReload() {
	schema := s.loadSchema()
	p, err := NewYAMLProvider(schema, nil, true)
	s.Require().NoError(err)
	id, err := p.CreateInstance("Person")
	s.Require().NoError(err)
	s.Require().NoError(p.WriteFeature(id, "name", value.Str("Grace")))
	s.Require().NoError(p.WriteFeature(id, "age", value.Int(55)))

	var buf bytes.Buffer
	s.Require().NoError(p.Dump(&buf))

	reloaded, err := NewYAMLProvider(schema, &buf, false)
	s.Require().NoError(err)
	v, err := reloaded.ReadFeature(id, "name")
	s.Require().NoError(err)
	s.Equal("Grace", v.Str())
}
