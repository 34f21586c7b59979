package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/atl-run/atl/metamodel"
	"github.com/atl-run/atl/value"
)

type RunTestSuite struct {
	suite.Suite
}

func TestRunTestSuite(t *testing.T) {
	suite.Run(t, new(RunTestSuite))
}

func (s *RunTestSuite) TestDumpTargetWritesYAMLFile() {
	schema, err := metamodel.LoadSchema(strings.NewReader("classes:\n  Person:\n    features:\n      - name: name\n"))
	s.Require().NoError(err)

	p, err := metamodel.NewYAMLProvider(schema, nil, true)
	s.Require().NoError(err)
	id, err := p.CreateInstance("Person")
	s.Require().NoError(err)
	s.Require().NoError(p.WriteFeature(id, "name", value.Str("Ada")))

	out := filepath.Join(s.T().TempDir(), "out.yaml")
	s.Require().NoError(dumpTarget(p, out))

	body, err := os.ReadFile(out)
	s.Require().NoError(err)
	s.Contains(string(body), "Ada")
}

func (s *RunTestSuite) TestDumpTargetRejectsUnwritablePath() {
	schema, err := metamodel.LoadSchema(strings.NewReader("classes:\n  Person:\n    features: []\n"))
	s.Require().NoError(err)
	p, err := metamodel.NewYAMLProvider(schema, nil, true)
	s.Require().NoError(err)

	err = dumpTarget(p, filepath.Join(s.T().TempDir(), "missing-dir", "out.yaml"))
	s.Error(err)
}
