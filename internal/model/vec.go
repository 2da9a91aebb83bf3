package model

import "github.com/solarlune/resolv"

// Vec is a 2D point or displacement in field units. It shares its layout
// with resolv.Vector and delegates the arithmetic to it.
type Vec resolv.Vector

func V(x, y float64) Vec { return Vec{X: x, Y: y} }

// R converts v for use with resolv shapes.
func (v Vec) R() resolv.Vector { return resolv.Vector(v) }

func (v Vec) Add(o Vec) Vec       { return Vec(v.R().Add(o.R())) }
func (v Vec) Sub(o Vec) Vec       { return Vec(v.R().Sub(o.R())) }
func (v Vec) Scale(k float64) Vec { return Vec(v.R().Scale(k)) }
func (v Vec) Dot(o Vec) float64   { return v.R().Dot(o.R()) }
func (v Vec) Len() float64        { return v.R().Magnitude() }
func (v Vec) Dist(o Vec) float64  { return v.Sub(o).Len() }

func (v Vec) Lerp(o Vec, t float64) Vec {
	return v.Add(o.Sub(v).Scale(t))
}

// Norm returns the unit vector, or zero for a zero-length input.
func (v Vec) Norm() Vec {
	if v == (Vec{}) {
		return Vec{}
	}
	return Vec(v.R().Unit())
}
