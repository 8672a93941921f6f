// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/erpconsole/pkg/slice"
)

/*
TestMap keeps order and nil-ness.
*/
func TestMap(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, slice.Map([]int{1, 2, 3}, strconv.Itoa))
	assert.Nil(t, slice.Map[int, string](nil, strconv.Itoa))
}

/*
TestFilter keeps matching elements in order.
*/
func TestFilter(t *testing.T) {
	even := func(n int) bool { return n%2 == 0 }

	assert.Equal(t, []int{2, 4}, slice.Filter([]int{1, 2, 3, 4}, even))
	assert.Nil(t, slice.Filter([]int{1, 3}, even))
	assert.Nil(t, slice.Filter(nil, even))
}
