// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

package slicest

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, strconv.Itoa)
	require.Equal(t, []string{"1", "2", "3"}, got)

	empty := Map([]int(nil), strconv.Itoa)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestMapX(t *testing.T) {
	got, err := MapX([]string{"4", "5"}, strconv.Atoi)
	require.NoError(t, err)
	require.Equal(t, []int{4, 5}, got)

	_, err = MapX([]string{"4", "x"}, strconv.Atoi)
	var numErr *strconv.NumError
	require.True(t, errors.As(err, &numErr))
}
