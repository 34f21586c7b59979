package value

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type HashTestSuite struct {
	suite.Suite
}

func (s *HashTestSuite) TestEqualScalarsHashEqual() {
	s.Equal(HashKey(Int(1)), HashKey(Int(1)))
	s.Equal(HashKey(Str("a")), HashKey(Str("a")))
	s.Equal(HashKey(Bool(true)), HashKey(Bool(true)))
}

func (s *HashTestSuite) TestDistinctScalarsHashDistinct() {
	s.NotEqual(HashKey(Int(1)), HashKey(Int(2)))
	s.NotEqual(HashKey(Str("a")), HashKey(Str("b")))
	s.NotEqual(HashKey(Int(1)), HashKey(Str("1")))
}

func (s *HashTestSuite) TestIntAndRealMixHashEqualWhenNumericallyEqual() {
	s.Equal(HashKey(Int(2)), HashKey(Real(2.0)), "Set dedup must treat 2 and 2.0 as the same element")
}

func (s *HashTestSuite) TestUUIDHash() {
	id := uuid.New()
	s.Equal(HashKey(UUID(id)), HashKey(UUID(id)))
	s.NotEqual(HashKey(UUID(id)), HashKey(UUID(uuid.New())))
}

func (s *HashTestSuite) TestCollectionHashRespectsElementOrderForSequence() {
	a := NewCollection(Sequence, []Value{Int(1), Int(2)})
	b := NewCollection(Sequence, []Value{Int(2), Int(1)})
	s.NotEqual(HashKey(a), HashKey(b))
}

func (s *HashTestSuite) TestTupleHashIndependentOfFieldInsertionOrder() {
	a := NewTuple(NewTupleBuilder().Set("x", Int(1)).Set("y", Int(2)))
	b := NewTuple(NewTupleBuilder().Set("y", Int(2)).Set("x", Int(1)))
	s.Equal(HashKey(a), HashKey(b))
}

func (s *HashTestSuite) TestSetDedupUsesHashKey() {
	c := NewCollection(Set, []Value{Int(1), Real(1.0), Int(2)})
	s.Len(c.Elements(), 2, "1 (Int) and 1.0 (Real) must dedup to a single element")
}

func TestHashTestSuite(t *testing.T) {
	suite.Run(t, new(HashTestSuite))
}
