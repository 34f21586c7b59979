package lexer

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/atl-run/atl/tokens"
)

type LexerTestSuite struct {
	suite.Suite
}

func (s *LexerTestSuite) allTokens(src string) []tokens.Instance {
	l := NewFromString(src, "test.atl")
	var out []tokens.Instance
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Kind == tokens.EOF {
			return out
		}
	}
}

func (s *LexerTestSuite) kinds(src string) []tokens.Kind {
	toks := s.allTokens(src)
	out := make([]tokens.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func (s *LexerTestSuite) TestKeywordsAndIdentifiers() {
	toks := s.allTokens("module rule myRule")
	s.Equal(tokens.KeywordModule, toks[0].Kind)
	s.Equal(tokens.KeywordRule, toks[1].Kind)
	s.Equal(tokens.Ident, toks[2].Kind)
	s.Equal("myRule", toks[2].Value)
}

func (s *LexerTestSuite) TestIntegerAndRealLiterals() {
	toks := s.allTokens("42 3.14 1.")
	s.Equal(tokens.Int, toks[0].Kind)
	s.Equal("42", toks[0].Value)
	s.Equal(tokens.Real, toks[1].Kind)
	s.Equal("3.14", toks[1].Value)
	// "1." with no following digit: Int "1", then a Dot token.
	s.Equal(tokens.Int, toks[2].Kind)
	s.Equal("1", toks[2].Value)
	s.Equal(tokens.OpDot, toks[3].Kind)
}

func (s *LexerTestSuite) TestStringLiteral() {
	toks := s.allTokens(`'hello world'`)
	s.Equal(tokens.String, toks[0].Kind)
	s.Equal("hello world", toks[0].Value)
}

func (s *LexerTestSuite) TestUnterminatedStringIsError() {
	toks := s.allTokens(`'hello`)
	s.Equal(tokens.Error, toks[0].Kind)
}

func (s *LexerTestSuite) TestOperators() {
	s.Equal([]tokens.Kind{
		tokens.OpArrow, tokens.OpNeq, tokens.OpLte, tokens.OpGte,
		tokens.OpBind, tokens.EOF,
	}, s.kinds("-> <> <= >= <-"))
}

func (s *LexerTestSuite) TestSingleCharOperators() {
	s.Equal([]tokens.Kind{
		tokens.OpPlus, tokens.OpMinus, tokens.OpMul, tokens.OpDiv,
		tokens.OpAssign, tokens.OpLt, tokens.OpGt, tokens.OpDot,
		tokens.OpColon, tokens.OpBang, tokens.OpPipe, tokens.OpSemi,
		tokens.OpComma, tokens.OpLParen, tokens.OpRParen, tokens.OpLCurly,
		tokens.OpRCurly, tokens.OpLBracket, tokens.OpRBracket, tokens.EOF,
	}, s.kinds("+ - * / = < > . : ! | ; , ( ) { } [ ]"))
}

func (s *LexerTestSuite) TestLineCommentToken() {
	toks := s.allTokens("-- a comment\nx")
	s.Equal(tokens.LineComment, toks[0].Kind)
	s.Equal("a comment", toks[0].Value)
	s.Equal(tokens.Ident, toks[1].Kind)
}

func (s *LexerTestSuite) TestPathDirectiveCommentPreservedVerbatim() {
	toks := s.allTokens("-- @path Foo=./foo.yaml")
	s.Equal(tokens.LineComment, toks[0].Kind)
	s.Equal("@path Foo=./foo.yaml", toks[0].Value)
}

func (s *LexerTestSuite) TestUnrecognisedCharacterIsError() {
	toks := s.allTokens("@")
	s.Equal(tokens.Error, toks[0].Kind)
}

func (s *LexerTestSuite) TestPositionsTrackLineAndColumn() {
	l := NewFromString("x\ny", "test.atl")
	first := l.NextToken()
	s.Equal(1, first.Range.From.Line)

	second := l.NextToken() // 'y' on line 2
	s.Equal(2, second.Range.From.Line)
}

func (s *LexerTestSuite) TestEmptyInputYieldsEOF() {
	toks := s.allTokens("")
	s.Require().Len(toks, 1)
	s.Equal(tokens.EOF, toks[0].Kind)
}

func TestLexerTestSuite(t *testing.T) {
	suite.Run(t, new(LexerTestSuite))
}
