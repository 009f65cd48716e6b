package common

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPadAlignTo(t *testing.T) {
	cases := []struct{ pos, align, want int }{
		{0, 8, 0},
		{1, 8, 7},
		{11, 8, 5},
		{16, 8, 0},
		{3, 1, 0},
		{3, 0, 0},
		{5, 4, 3},
	}
	for _, c := range cases {
		require.Equal(t, c.want, PadAlignTo(c.pos, c.align), "pos=%d align=%d", c.pos, c.align)
		require.Zero(t, (c.pos+PadAlignTo(c.pos, c.align))%max(c.align, 1))
	}
}

func TestPlanPadding(t *testing.T) {
	type packed struct {
		A uint32
		B uint32
		C uint64
	}
	type padded struct {
		A uint8
		B uint64
	}
	type tail struct {
		A uint64
		B uint8
	}
	type nested struct {
		P [2]padded
	}
	require.False(t, PlanOf(reflect.TypeFor[packed]()).HasPadding)
	require.True(t, PlanOf(reflect.TypeFor[padded]()).HasPadding)
	require.True(t, PlanOf(reflect.TypeFor[tail]()).HasPadding)
	require.True(t, PlanOf(reflect.TypeFor[nested]()).HasPadding)
	require.False(t, PlanOf(reflect.TypeFor[[4]uint16]()).HasPadding)
}

func TestPlanIndirection(t *testing.T) {
	type flat struct {
		A [3]int32
		B float64
	}
	type withString struct {
		A uint64
		S string
	}
	require.False(t, PlanOf(reflect.TypeFor[flat]()).HasIndirection)
	require.True(t, PlanOf(reflect.TypeFor[withString]()).HasIndirection)
	require.True(t, PlanOf(reflect.TypeFor[[2][]byte]()).HasIndirection)
}

func TestPlanFields(t *testing.T) {
	type point struct {
		X int32
		Y int32
	}
	plan := PlanOf(reflect.TypeFor[point]())
	require.Len(t, plan.Fields, 2)
	require.Equal(t, "Y", plan.Fields[1].Name)
	require.Equal(t, 1, plan.Fields[1].Index)
	require.Equal(t, 4, plan.Fields[1].Size)
	require.Equal(t, 4, plan.Fields[1].Offset)
	require.Same(t, plan, PlanOf(reflect.TypeFor[point]()))
}

func TestQualifiedName(t *testing.T) {
	type local struct{}
	require.Equal(t, "github.com/rawbytedev/epsilon/internal/common.local", QualifiedName(reflect.TypeFor[local]()))
	require.Equal(t, "[]int", QualifiedName(reflect.TypeFor[[]int]()))
	require.Equal(t, "uint64", QualifiedName(reflect.TypeFor[uint64]()))
}
