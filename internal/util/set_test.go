package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Set_basicOperations(t *testing.T) {
	assert := assert.New(t)

	s := NewSet("a", "b", "b")
	assert.Equal(2, s.Len())
	assert.True(s.Has("a"))
	assert.False(s.Has("c"))

	s.Add("c")
	assert.True(s.Has("c"))
	s.Remove("a")
	assert.False(s.Has("a"))
	s.Remove("missing")
	assert.Equal(2, s.Len())
}

func Test_Set_copyIsIndependent(t *testing.T) {
	assert := assert.New(t)

	s := NewSet(1, 2)
	c := s.Copy()
	c.Add(3)
	assert.False(s.Has(3))
	assert.True(c.Has(3))
}

func Test_Set_equalAndAddAll(t *testing.T) {
	assert := assert.New(t)

	a := NewSet("x", "y")
	b := NewSet("y")
	assert.False(a.Equal(b))
	b.AddAll(a)
	assert.True(a.Equal(b))
}

func Test_SortedStrings(t *testing.T) {
	assert.Equal(t, []string{"A", "M", "Z"}, SortedStrings(NewSet("Z", "A", "M")))
}

func Test_TextList(t *testing.T) {
	testCases := []struct {
		name   string
		items  []string
		expect string
	}{
		{name: "empty", items: nil, expect: ""},
		{name: "one", items: []string{"B"}, expect: "B"},
		{name: "two", items: []string{"A", "B"}, expect: "A and B"},
		{name: "three uses the oxford comma", items: []string{"A", "B", "C"}, expect: "A, B, and C"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, TextList(tc.items))
		})
	}
}
