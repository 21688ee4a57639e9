package vec

import (
	"math"
	"testing"
)

func TestToChunkCoords(t *testing.T) {
	cases := []struct {
		world     Vec2
		chunkSize int
		expected  Vec2
	}{
		{Vec2{X: 0, Y: 0}, 32, Vec2{X: 0, Y: 0}},
		{Vec2{X: 31, Y: 31}, 32, Vec2{X: 0, Y: 0}},
		{Vec2{X: 32, Y: 64}, 32, Vec2{X: 1, Y: 2}},
		{Vec2{X: -1, Y: -33}, 32, Vec2{X: -1, Y: -2}},
	}

	for _, c := range cases {
		got := c.world.ToChunkCoords(c.chunkSize)
		if got != c.expected {
			t.Errorf("ToChunkCoords(%v, %d): ожидалось %v, получено %v", c.world, c.chunkSize, c.expected, got)
		}
	}
}

func TestLocalInChunk(t *testing.T) {
	// Локальные координаты всегда в [0, chunkSize), в том числе для отрицательных
	cases := []struct {
		world    Vec2
		expected Vec2
	}{
		{Vec2{X: 5, Y: 7}, Vec2{X: 5, Y: 7}},
		{Vec2{X: 32, Y: 33}, Vec2{X: 0, Y: 1}},
		{Vec2{X: -1, Y: -32}, Vec2{X: 31, Y: 0}},
	}

	for _, c := range cases {
		got := c.world.LocalInChunk(32)
		if got != c.expected {
			t.Errorf("LocalInChunk(%v): ожидалось %v, получено %v", c.world, c.expected, got)
		}
		if got.X < 0 || got.X >= 32 || got.Y < 0 || got.Y >= 32 {
			t.Errorf("LocalInChunk(%v) вне диапазона [0,32): %v", c.world, got)
		}
	}
}

func TestDistanceToOrigin(t *testing.T) {
	v := Vec2{X: 3, Y: 4}
	if d := v.DistanceToOrigin(); math.Abs(d-5.0) > 1e-9 {
		t.Errorf("Ожидалось расстояние 5.0, получено %f", d)
	}
}

func TestInRect(t *testing.T) {
	min := Vec2{X: 0, Y: 0}
	max := Vec2{X: 2, Y: 2}

	inside := []Vec2{{0, 0}, {1, 1}, {2, 2}, {0, 2}}
	for _, v := range inside {
		if !v.InRect(min, max) {
			t.Errorf("%v должен лежать внутри [%v, %v]", v, min, max)
		}
	}

	outside := []Vec2{{-1, 0}, {3, 1}, {1, 3}, {-1, -1}}
	for _, v := range outside {
		if v.InRect(min, max) {
			t.Errorf("%v не должен лежать внутри [%v, %v]", v, min, max)
		}
	}
}

func TestMod(t *testing.T) {
	cases := []struct{ a, b, expected int }{
		{5, 4, 1},
		{-1, 4, 3},
		{-4, 4, 0},
		{4, 4, 0},
	}
	for _, c := range cases {
		if got := Mod(c.a, c.b); got != c.expected {
			t.Errorf("Mod(%d, %d): ожидалось %d, получено %d", c.a, c.b, c.expected, got)
		}
	}
}
