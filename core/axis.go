package core

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/orbital-tracts/model"
)

// Bin is one interval along a partition axis. Bins share edges with their
// neighbours; the union of an axis's bins reconstructs the requested range
// exactly.
type Bin struct {
	Lo float64
	Hi float64
}

// Width returns the bin extent.
func (b Bin) Width() float64 { return b.Hi - b.Lo }

// DivisionPolicy decides what happens when an axis range is not an integer
// multiple of the requested bin width.
type DivisionPolicy int

const (
	// AbsorbRemainder widens the last bin to cover the leftover range.
	AbsorbRemainder DivisionPolicy = iota
	// StrictDivision rejects the axis with a configuration error instead.
	StrictDivision
)

// divisionEps bounds the float slack tolerated before a remainder counts as
// a real leftover rather than rounding noise.
const divisionEps = 1e-9

// AxisSpec describes one axis of the tract partition. Exactly one of Bins,
// Width, or Edges selects the slicing mode:
//
//   - Bins: n equal-width bins across [Min, Max].
//   - Width: fixed-width bins from Min upward; the remainder is absorbed or
//     rejected according to the division policy.
//   - Edges: explicit shared bin edges, strictly increasing from Min to Max.
type AxisSpec struct {
	Name  string
	Min   float64
	Max   float64
	Bins  int
	Width float64
	Edges []float64
}

// Partition slices the axis range into contiguous bins under the given
// division policy. The returned bins cover [Min, Max] with no gaps and no
// overlap; the final bin's upper edge is Max exactly.
func (a AxisSpec) Partition(policy DivisionPolicy) ([]Bin, error) {
	if a.Min >= a.Max {
		return nil, &model.ConfigurationError{
			Field:  a.Name,
			Reason: fmt.Sprintf("range [%g, %g] is empty", a.Min, a.Max),
		}
	}

	modes := 0
	if a.Bins > 0 {
		modes++
	}
	if a.Width > 0 {
		modes++
	}
	if len(a.Edges) > 0 {
		modes++
	}
	if modes != 1 {
		return nil, &model.ConfigurationError{
			Field:  a.Name,
			Reason: "exactly one of bins, width, or edges must be set",
		}
	}

	switch {
	case a.Bins > 0:
		return a.partitionByCount(), nil
	case a.Width > 0:
		return a.partitionByWidth(policy)
	default:
		return a.partitionByEdges()
	}
}

func (a AxisSpec) partitionByCount() []Bin {
	span := a.Max - a.Min
	bins := make([]Bin, a.Bins)
	for i := range bins {
		bins[i] = Bin{
			Lo: a.Min + span*float64(i)/float64(a.Bins),
			Hi: a.Min + span*float64(i+1)/float64(a.Bins),
		}
	}
	bins[len(bins)-1].Hi = a.Max
	return bins
}

func (a AxisSpec) partitionByWidth(policy DivisionPolicy) ([]Bin, error) {
	span := a.Max - a.Min
	n := int(math.Floor(span/a.Width + divisionEps))
	if n < 1 {
		return nil, &model.ConfigurationError{
			Field:  a.Name,
			Reason: fmt.Sprintf("bin width %g exceeds range [%g, %g]", a.Width, a.Min, a.Max),
		}
	}

	remainder := span - float64(n)*a.Width
	if remainder > divisionEps && policy == StrictDivision {
		return nil, &model.ConfigurationError{
			Field: a.Name,
			Reason: fmt.Sprintf("range [%g, %g] is not divisible by bin width %g (remainder %g)",
				a.Min, a.Max, a.Width, remainder),
		}
	}

	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{Lo: a.Min + float64(i)*a.Width, Hi: a.Min + float64(i+1)*a.Width}
	}
	// The last bin always reaches Max: it absorbs both the remainder and
	// any accumulated rounding drift.
	bins[len(bins)-1].Hi = a.Max
	return bins, nil
}

func (a AxisSpec) partitionByEdges() ([]Bin, error) {
	edges := a.Edges
	if len(edges) < 2 {
		return nil, &model.ConfigurationError{Field: a.Name, Reason: "at least two edges required"}
	}
	if edges[0] != a.Min || edges[len(edges)-1] != a.Max {
		return nil, &model.ConfigurationError{
			Field:  a.Name,
			Reason: fmt.Sprintf("edges must run from %g to %g", a.Min, a.Max),
		}
	}

	bins := make([]Bin, 0, len(edges)-1)
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return nil, &model.ConfigurationError{
				Field:  a.Name,
				Reason: fmt.Sprintf("edges not strictly increasing at %g", edges[i]),
			}
		}
		bins = append(bins, Bin{Lo: edges[i-1], Hi: edges[i]})
	}
	return bins, nil
}
