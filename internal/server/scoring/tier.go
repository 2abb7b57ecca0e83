package scoring

import "fmt"

// Tier is a ranked title derived from points, 1 (lowest) through 6.
type Tier int

const (
	TierNewcomer Tier = iota + 1
	TierContributor
	TierIdealizer
	TierCreative
	TierInnovator
	TierLegend
)

var tierNames = map[Tier]string{
	TierNewcomer:    "newcomer",
	TierContributor: "contributor",
	TierIdealizer:   "idealizer",
	TierCreative:    "creative",
	TierInnovator:   "innovator",
	TierLegend:      "legend",
}

func (t Tier) String() string {
	if n, ok := tierNames[t]; ok {
		return n
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	for tier, name := range tierNames {
		if name == string(b) {
			*t = tier
			return nil
		}
	}
	return fmt.Errorf("unknown tier %q", b)
}

// Threshold is the minimum number of points a tier requires.
type Threshold struct {
	Tier   Tier
	Points int
}

// thresholds are ascending; each one is an inclusive lower bound.
var thresholds = []Threshold{
	{TierContributor, 100},
	{TierIdealizer, 250},
	{TierCreative, 500},
	{TierInnovator, 750},
	{TierLegend, 1000},
}

// TierFor returns the highest tier whose threshold points reaches.
func TierFor(points int) Tier {
	tier := TierNewcomer
	for _, th := range thresholds {
		if points >= th.Points {
			tier = th.Tier
		}
	}
	return tier
}

// NextTier returns the smallest threshold strictly above points.
// ok is false once the top tier is reached.
func NextTier(points int) (next Threshold, ok bool) {
	for _, th := range thresholds {
		if th.Points > points {
			return th, true
		}
	}
	return Threshold{}, false
}
