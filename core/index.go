package core

import (
	"fmt"
	"math"
	"strconv"

	"github.com/signalsfoundry/orbital-tracts/model"
)

// IndexTuple addresses one tract cell before assembly: the bin bounds along
// each axis plus the longitudinal sector indices derived from the azimuth
// slice.
type IndexTuple struct {
	Alt        Bin
	Inc        Bin
	Az         Bin
	ThetaStart int
	ThetaEnd   int
}

// String renders the tuple for diagnostics.
func (t IndexTuple) String() string {
	return fmt.Sprintf("alt[%g,%g] inc[%g,%g] az[%g,%g] theta[%d,%d]",
		t.Alt.Lo, t.Alt.Hi, t.Inc.Lo, t.Inc.Hi, t.Az.Lo, t.Az.Hi, t.ThetaStart, t.ThetaEnd)
}

// IndexModel holds the full discretization for one requested zone and
// enumerates every tract index tuple it contains.
type IndexModel struct {
	Zone    string
	AltBins []Bin
	IncBins []Bin
	AzBins  []Bin
	// Sectors is the longitudinal sector count N; each sector spans 360/N
	// degrees of azimuth.
	Sectors int
}

// NewIndexModel partitions the three axes and validates the sector count.
func NewIndexModel(zone string, alt, inc, az AxisSpec, sectors int, policy DivisionPolicy) (*IndexModel, error) {
	if zone == "" {
		return nil, &model.ConfigurationError{Field: "zone", Reason: "empty zone name"}
	}
	if sectors < 1 {
		return nil, &model.ConfigurationError{Field: "sectors", Reason: fmt.Sprintf("sector count %d < 1", sectors)}
	}
	if inc.Min < 0 || inc.Max > 180 {
		return nil, &model.ConfigurationError{
			Field:  inc.Name,
			Reason: fmt.Sprintf("inclination range [%g, %g] outside [0, 180]", inc.Min, inc.Max),
		}
	}
	if az.Min < 0 || az.Max > 360 {
		return nil, &model.ConfigurationError{
			Field:  az.Name,
			Reason: fmt.Sprintf("azimuth range [%g, %g] outside [0, 360]", az.Min, az.Max),
		}
	}
	if alt.Min < 0 {
		return nil, &model.ConfigurationError{
			Field:  alt.Name,
			Reason: fmt.Sprintf("negative minimum altitude %g", alt.Min),
		}
	}

	altBins, err := alt.Partition(policy)
	if err != nil {
		return nil, err
	}
	incBins, err := inc.Partition(policy)
	if err != nil {
		return nil, err
	}
	azBins, err := az.Partition(policy)
	if err != nil {
		return nil, err
	}

	return &IndexModel{
		Zone:    zone,
		AltBins: altBins,
		IncBins: incBins,
		AzBins:  azBins,
		Sectors: sectors,
	}, nil
}

// SegmentSpanDeg returns the angular width of one longitudinal sector.
func (m *IndexModel) SegmentSpanDeg() float64 { return 360.0 / float64(m.Sectors) }

// Count returns the number of tuples the model enumerates.
func (m *IndexModel) Count() int { return len(m.AltBins) * len(m.IncBins) * len(m.AzBins) }

// Tuples enumerates the full cartesian product of the three axes in a fixed
// order: altitude outermost, then inclination, then azimuth. The sequence is
// deterministic and can be re-enumerated at will.
func (m *IndexModel) Tuples() []IndexTuple {
	span := m.SegmentSpanDeg()
	tuples := make([]IndexTuple, 0, m.Count())
	for _, alt := range m.AltBins {
		for _, inc := range m.IncBins {
			for _, az := range m.AzBins {
				tuples = append(tuples, IndexTuple{
					Alt:        alt,
					Inc:        inc,
					Az:         az,
					ThetaStart: thetaIndex(az.Lo, span, m.Sectors),
					ThetaEnd:   thetaIndex(az.Hi, span, m.Sectors),
				})
			}
		}
	}
	return tuples
}

// thetaIndex maps an azimuth edge onto its sector index, wrapping modulo the
// sector count so an edge at 360 degrees lands on sector 0.
func thetaIndex(azDeg, spanDeg float64, sectors int) int {
	idx := int(math.Floor(azDeg/spanDeg+divisionEps)) % sectors
	if idx < 0 {
		idx += sectors
	}
	return idx
}

// TractID derives the stable identifier for a tuple within a zone. The
// derivation is a pure function of its inputs: the same tuple and zone
// always produce the same identifier, across processes and runs.
func TractID(zone string, t IndexTuple) string {
	return zone +
		"-A" + fnum(t.Alt.Lo) +
		"-I" + fnum(t.Inc.Lo) +
		"-RAAN" + fnum(t.Az.Lo) + "_" + fnum(t.Az.Hi)
}

func fnum(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
