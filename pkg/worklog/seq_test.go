package worklog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupBy(t *testing.T) {
	// when
	groups := GroupBy([]string{"b1", "a1", "b2", "c1", "a2"}, func(s string) byte { return s[0] })

	// then
	assert.Equal(t, []Grouping[byte, string]{
		{Key: 'b', Values: []string{"b1", "b2"}},
		{Key: 'a', Values: []string{"a1", "a2"}},
		{Key: 'c', Values: []string{"c1"}},
	}, groups)
	assert.Empty(t, GroupBy([]string{}, func(s string) string { return s }))
}

func TestUnion(t *testing.T) {
	result := Union([][]int{{1, 2}, {}, {3}}, func(v []int) []int { return v })

	assert.Equal(t, []int{1, 2, 3}, result)
}

func TestUnionErr(t *testing.T) {
	failure := errors.New("boom")
	calls := 0

	_, err := UnionErr([]int{1, 2, 3}, func(v int) ([]int, error) {
		calls++
		if v == 2 {
			return nil, failure
		}
		return []int{v}, nil
	})

	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 2, calls)
}
