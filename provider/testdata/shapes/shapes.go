// Package shapes is loaded by the source provider tests.
package shapes

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Point is a position on a plane.
//
//jvm:export
type Point struct {
	X, Y float64
}

// Shape is implemented by every figure.
type Shape interface {
	Area() float64
}

// Celsius maps to its underlying primitive.
type Celsius float64

// Box holds one value.
type Box[T any] struct {
	v T
}

type hidden struct{}

// Tree and Link refer to themselves through their underlying types.
type Tree []Tree

type Link *Link

// NewPoint is mapped to a constructor of Point.
//
//jvm:export
func NewPoint(x, y float64) *Point {
	return &Point{X: x, Y: y}
}

//jvm:export
func Parse(s string) (*Point, error) {
	var p Point
	if _, err := fmt.Sscanf(s, "%g,%g", &p.X, &p.Y); err != nil {
		return nil, errors.New("shapes: malformed point")
	}
	return &p, nil
}

//jvm:export
func (p *Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

//jvm:export
func (p Point) Scale(factors ...float64) Point {
	for _, f := range factors {
		p.X *= f
		p.Y *= f
	}
	return p
}

//jvm:export
func Sum(xs []int32, flags ...bool) int64 {
	var n int64
	for _, x := range xs {
		n += int64(x)
	}
	return n
}

//jvm:export
func Flags(b bool, i8 int8, c uint16, s int16, r rune, f float32, t Celsius) byte {
	return 0
}

//jvm:export
func Lookup(m map[string]int, key string) (int, bool) {
	v, ok := m[key]
	return v, ok
}

//jvm:export
func Validate(s Shape) error {
	if s.Area() < 0 {
		return errors.New("shapes: negative area")
	}
	return nil
}

//jvm:export
func Largest[T Shape](items ...T) T {
	var best T
	for _, it := range items {
		if it.Area() > best.Area() {
			best = it
		}
	}
	return best
}

//jvm:export
func First[T any](items []T) T {
	return items[0]
}

//jvm:export
func Wrap(v any) *Box[string] {
	return &Box[string]{v: fmt.Sprint(v)}
}

//jvm:export
func (b *Box[T]) Get() T {
	return b.v
}

//jvm:export
func Watch(ch chan int) {
	close(ch)
}

//jvm:export
func Timeout(d time.Duration) {
	time.Sleep(d)
}

//jvm:export
func Depth(t Tree) int {
	d := 0
	for _, c := range t {
		d = max(d, Depth(c))
	}
	return d + 1
}

//jvm:export
func Follow(l Link) {
	for l != nil {
		l = *l
	}
}

//jvm:keep
func Describe(err error) string {
	return err.Error()
}

// Unmarked is not reported.
func Unmarked() {}
