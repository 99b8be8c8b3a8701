package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// indexStep reproduces the per-direction index arithmetic and file guards of
// the hand-written stepper the vector table replaces.
func indexStep(d Direction, team Team, idx int) int {
	x := idx % 8
	type rule struct {
		delta   int
		blocked int // file on which the step would wrap
	}
	white := map[Direction]rule{
		Advance:      {8, -1},
		Retreat:      {-8, -1},
		Left:         {1, 7},
		Right:        {-1, 0},
		AdvanceLeft:  {9, 7},
		AdvanceRight: {7, 0},
		RetreatLeft:  {-7, 7},
		RetreatRight: {-9, 0},
	}
	r := white[d]
	if team == Black {
		r.delta = -r.delta
		if r.blocked >= 0 {
			r.blocked = 7 - r.blocked
		}
	}
	if x == r.blocked {
		return -1
	}
	next := idx + r.delta
	if next < 0 || next > 63 {
		return -1
	}
	return next
}

func TestDirection_StepMatchesIndexArithmetic(t *testing.T) {
	for _, team := range []Team{White, Black} {
		for _, d := range KingDirections {
			for idx := 0; idx < BoardSize; idx++ {
				want := indexStep(d, team, idx)
				got, ok := d.Step(team, Square(idx))
				if want == -1 {
					assert.False(t, ok, "%s %s from %d should be blocked", team, d, idx)
					continue
				}
				if assert.True(t, ok, "%s %s from %d should step to %d", team, d, idx, want) {
					assert.Equal(t, Square(want), got, "%s %s from %d", team, d, idx)
				}
			}
		}
	}
}

func TestDirection_PerspectiveIsMirrored(t *testing.T) {
	sq, ok := Advance.Step(White, 8)
	assert.True(t, ok)
	assert.Equal(t, Square(16), sq)

	sq, ok = Advance.Step(Black, 48)
	assert.True(t, ok)
	assert.Equal(t, Square(40), sq)

	// White's left is toward the h-file, Black's left toward the a-file.
	sq, ok = Left.Step(White, 3)
	assert.True(t, ok)
	assert.Equal(t, Square(4), sq)

	sq, ok = Left.Step(Black, 60)
	assert.True(t, ok)
	assert.Equal(t, Square(59), sq)
}

func TestDirection_EdgeGuards(t *testing.T) {
	tests := []struct {
		name string
		dir  Direction
		team Team
		from Square
	}{
		{"white advance off rank 8", Advance, White, 60},
		{"black advance off rank 1", Advance, Black, 3},
		{"white left off h-file", Left, White, 15},
		{"white right off a-file", Right, White, 8},
		{"black left off a-file", Left, Black, 8},
		{"black right off h-file", Right, Black, 15},
		{"white advance-left wraps", AdvanceLeft, White, 23},
		{"white retreat-right off a1", RetreatRight, White, 0},
		{"invalid source", Advance, White, 64},
		{"negative source", Advance, White, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := tt.dir.Step(tt.team, tt.from)
			assert.False(t, ok)
		})
	}
}

func TestDirection_StepOptChains(t *testing.T) {
	start := SomeSquare(1) // b1
	two := Advance.StepOpt(White, Advance.StepOpt(White, start))
	assert.Equal(t, SomeSquare(17), two)

	off := Right.StepOpt(White, Right.StepOpt(White, start))
	assert.False(t, off.Valid)
	assert.False(t, Advance.StepOpt(White, off).Valid)
}

func TestDirection_String(t *testing.T) {
	assert.Equal(t, "advance-left", AdvanceLeft.String())
	assert.Equal(t, "Direction(42)", Direction(42).String())
}
