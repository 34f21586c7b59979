package value

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type OrderedMapTestSuite struct {
	suite.Suite
}

func (s *OrderedMapTestSuite) TestSetGetHas() {
	m := NewOrderedMap[int]()
	m.Set("a", 1)

	v, ok := m.Get("a")
	s.True(ok)
	s.Equal(1, v)
	s.True(m.Has("a"))
	s.False(m.Has("b"))
}

func (s *OrderedMapTestSuite) TestKeysPreservesInsertionOrder() {
	m := NewOrderedMap[int]()
	m.Set("c", 1)
	m.Set("a", 2)
	m.Set("b", 3)
	s.Equal([]string{"c", "a", "b"}, m.Keys())
}

func (s *OrderedMapTestSuite) TestOverwriteDoesNotReorder() {
	m := NewOrderedMap[int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 99)
	s.Equal([]string{"a", "b"}, m.Keys())
	v, _ := m.Get("a")
	s.Equal(99, v)
}

func (s *OrderedMapTestSuite) TestValuesFollowsOrder() {
	m := NewOrderedMap[string]()
	m.Set("first", "x")
	m.Set("second", "y")
	s.Equal([]string{"x", "y"}, m.Values())
}

func (s *OrderedMapTestSuite) TestRangeStopsEarly() {
	m := NewOrderedMap[int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	var seen []string
	m.Range(func(k string, v int) bool {
		seen = append(seen, k)
		return k != "b"
	})
	s.Equal([]string{"a", "b"}, seen)
}

func (s *OrderedMapTestSuite) TestLen() {
	m := NewOrderedMap[int]()
	s.Equal(0, m.Len())
	m.Set("a", 1)
	m.Set("b", 2)
	s.Equal(2, m.Len())
}

func TestOrderedMapTestSuite(t *testing.T) {
	suite.Run(t, new(OrderedMapTestSuite))
}
