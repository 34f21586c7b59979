package metamodel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type SchemaTestSuite struct {
	suite.Suite
}

func TestSchemaTestSuite(t *testing.T) {
	suite.Run(t, new(SchemaTestSuite))
}

const sampleSchema = `
classes:
  Animal:
    features:
      - name: name
  Dog:
    supertypes: [Animal]
    features:
      - name: breed
  Puppy:
    supertypes: [Dog]
    features: []
`

func (s *SchemaTestSuite) TestLoadSchemaParsesClassesAndFeatures() {
	schema, err := LoadSchema(strings.NewReader(sampleSchema))
	s.Require().NoError(err)
	s.Require().Contains(schema.Classes, "Dog")
	s.Equal([]string{"Animal"}, schema.Classes["Dog"].Supertypes)
	s.Require().Len(schema.Classes["Animal"].Features, 1)
	s.Equal("name", schema.Classes["Animal"].Features[0].Name)
}

func (s *SchemaTestSuite) TestSupertypesWalksTransitively() {
	schema, err := LoadSchema(strings.NewReader(sampleSchema))
	s.Require().NoError(err)
	chain := schema.Supertypes("Puppy")
	s.Contains(chain, "Dog")
	s.Contains(chain, "Animal")
}

func (s *SchemaTestSuite) TestSupertypesOfUnknownClassIsEmpty() {
	schema, err := LoadSchema(strings.NewReader(sampleSchema))
	s.Require().NoError(err)
	s.Empty(schema.Supertypes("Nonexistent"))
}

func (s *SchemaTestSuite) TestIsKindOf() {
	schema, err := LoadSchema(strings.NewReader(sampleSchema))
	s.Require().NoError(err)
	s.True(schema.IsKindOf("Puppy", "Animal"))
	s.True(schema.IsKindOf("Dog", "Dog"))
	s.False(schema.IsKindOf("Animal", "Dog"))
}

func (s *SchemaTestSuite) TestFeatureTypeIsParsedFromTypeString() {
	const withType = `
classes:
  Person:
    features:
      - name: friends
        many: true
        type: Sequence(Person)
`
	schema, err := LoadSchema(strings.NewReader(withType))
	s.Require().NoError(err)
	f := schema.Classes["Person"].Features[0]
	s.True(f.Many)
	s.Require().NotNil(f.Type)
	s.Equal("Sequence(Person)", f.Type.String())
}
