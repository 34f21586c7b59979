package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ManifestTestSuite struct {
	suite.Suite
}

func TestManifestTestSuite(t *testing.T) {
	suite.Run(t, new(ManifestTestSuite))
}

func (s *ManifestTestSuite) writeManifest(dir, body string) {
	s.Require().NoError(os.WriteFile(filepath.Join(dir, ManifestFileName), []byte(body), 0o644))
}

func (s *ManifestTestSuite) TestLoadFindsManifestInRoot() {
	dir := s.T().TempDir()
	s.writeManifest(dir, `searchPaths = ["metamodels"]`+"\n")

	m, err := Load(dir)
	s.Require().NoError(err)
	s.Equal([]string{"metamodels"}, m.SearchPaths)
	s.Equal(dir, m.Location)
}

func (s *ManifestTestSuite) TestLoadWalksUpFromNestedDirectory() {
	dir := s.T().TempDir()
	s.writeManifest(dir, `searchPaths = ["metamodels"]`+"\n")
	nested := filepath.Join(dir, "a", "b", "c")
	s.Require().NoError(os.MkdirAll(nested, 0o755))

	m, err := Load(nested)
	s.Require().NoError(err)
	s.Equal(dir, m.Location)
}

func (s *ManifestTestSuite) TestLoadReturnsErrManifestNotFoundWhenAbsent() {
	dir := s.T().TempDir()
	_, err := Load(dir)
	s.ErrorIs(err, ErrManifestNotFound)
}

func (s *ManifestTestSuite) TestLoadRejectsEmptyRoot() {
	_, err := Load("   ")
	s.Error(err)
}

func (s *ManifestTestSuite) TestCheckCompatibilityNoConstraintAlwaysPasses() {
	s.NoError(CheckCompatibility(&Manifest{}))
}

func (s *ManifestTestSuite) TestCheckCompatibilitySatisfiedConstraint() {
	s.NoError(CheckCompatibility(&Manifest{RequiresEngine: ">=1.0.0 <2.0.0"}))
}

func (s *ManifestTestSuite) TestCheckCompatibilityUnsatisfiedConstraint() {
	err := CheckCompatibility(&Manifest{RequiresEngine: ">=2.0.0"})
	s.Error(err)
}

func (s *ManifestTestSuite) TestCheckCompatibilityInvalidConstraintIsError() {
	err := CheckCompatibility(&Manifest{RequiresEngine: "not a semver range"})
	s.Error(err)
}
