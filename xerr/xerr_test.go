package xerr

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"

	"github.com/atl-run/atl/tokens"
)

type XerrTestSuite struct {
	suite.Suite
}

func (s *XerrTestSuite) TestErrorMessageVariants() {
	r := tokens.Range{File: "m.atl", From: tokens.Pos{Line: 1, Column: 1}, To: tokens.Pos{Line: 1, Column: 2}}

	err := NewUnexpectedToken(r, "Ident(\"x\")", "Colon")
	s.Contains(err.Error(), "UnexpectedToken")
	s.Contains(err.Error(), "m.atl")

	err = NewHelperNotFound("frobnicate")
	s.Contains(err.Error(), "HelperNotFound")
	s.Contains(err.Error(), "frobnicate")

	err = NewDivisionByZero()
	s.Equal("DivisionByZero: division by zero", err.Error())
}

func (s *XerrTestSuite) TestKindOf() {
	s.Equal(VariableNotFound, KindOf(NewVariableNotFound("x")))
	s.Equal(Navigation, KindOf(NewNavigation("prop")))
	s.Equal(Kind(""), KindOf(errors.New("plain error")))
}

func (s *XerrTestSuite) TestKindOfUnwrapsWrappedErrors() {
	wrapped := errors.Wrap(NewNavigation("age"), "while evaluating binding")
	s.Equal(Navigation, KindOf(wrapped))

	e, ok := As(wrapped)
	s.Require().True(ok)
	s.Equal("age", e.Name)
}

func (s *XerrTestSuite) TestIsRecoverableBindingError() {
	s.True(IsRecoverableBindingError(NewNavigation("age")))
	s.True(IsRecoverableBindingError(NewVariableNotFound("x")))
	s.False(IsRecoverableBindingError(NewDivisionByZero()))
	s.False(IsRecoverableBindingError(NewTypeError("bad type")))
	s.False(IsRecoverableBindingError(errors.New("unrelated")))
}

func TestXerrTestSuite(t *testing.T) {
	suite.Run(t, new(XerrTestSuite))
}
