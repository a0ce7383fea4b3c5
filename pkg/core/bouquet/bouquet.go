// Package bouquet defines the immutable description of a bouquet: which
// flowers it contains, the layout seed, and the greenery preset.
//
// A [Spec] is everything needed to regenerate a bouquet's arrangement. It is
// what gets persisted (as a theme payload) or embedded in a share link; the
// placed flowers themselves are always derived from it and never stored.
package bouquet

import (
	"cmp"
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/digibouquet/pkg/core/flower"
	"github.com/matzehuels/digibouquet/pkg/errors"
)

const (
	// MaxFlowers is the largest bouquet the generator accepts.
	MaxFlowers = 10

	// MinAuthoringFlowers is the smallest bouquet a sender may create.
	// The generator itself accepts anything from one flower upward.
	MinAuthoringFlowers = 6

	// MaxSeed bounds seeds produced by NewSeed.
	MaxSeed = 10000
)

// Spec is a bouquet's flower composition, layout seed, and greenery style.
// Treat it as a value: use [New] or [Spec.Clone] rather than sharing the map.
type Spec struct {
	Flowers  map[string]int `json:"flowers" bson:"flowers"`
	Seed     int64          `json:"seed" bson:"seed"`
	Greenery Greenery       `json:"greenery" bson:"greenery"`
}

// New returns a Spec holding a private copy of flowers.
func New(flowers map[string]int, seed int64, g Greenery) Spec {
	return Spec{Flowers: maps.Clone(flowers), Seed: seed, Greenery: g}
}

// FromKeys builds a Spec from a flat list of flower keys, one per flower.
func FromKeys(keys []string, seed int64, g Greenery) Spec {
	counts := make(map[string]int, len(keys))
	for _, k := range keys {
		counts[k]++
	}
	return Spec{Flowers: counts, Seed: seed, Greenery: g}
}

// NewSeed returns a fresh random layout seed in [0, MaxSeed).
func NewSeed() int64 {
	return rand.Int64N(MaxSeed)
}

// Clone returns a deep copy of s.
func (s Spec) Clone() Spec {
	return New(s.Flowers, s.Seed, s.Greenery)
}

// Total returns the number of flowers in the bouquet.
func (s Spec) Total() int {
	n := 0
	for _, c := range s.Flowers {
		if c > 0 {
			n += c
		}
	}
	return n
}

// Validate checks that s can be laid out: no negative counts, between one
// and MaxFlowers flowers, and a known greenery style.
func (s Spec) Validate() error {
	total := 0
	for k, c := range s.Flowers {
		if c < 0 {
			return errors.New(errors.ErrCodeInvalidSelection, "negative count %d for %q", c, k)
		}
		// Checked per key so huge counts cannot wrap the sum.
		if c > MaxFlowers || total+c > MaxFlowers {
			return errors.New(errors.ErrCodeInvalidSelection, "a bouquet holds at most %d flowers", MaxFlowers)
		}
		total += c
	}
	if total == 0 {
		return errors.New(errors.ErrCodeInvalidSelection, "pick at least one flower")
	}
	if !s.Greenery.Valid() {
		return errors.New(errors.ErrCodeInvalidSelection, "unknown greenery style %q", s.Greenery)
	}
	return nil
}

// ValidateForAuthoring applies Validate plus the sender-side minimum.
func (s Spec) ValidateForAuthoring() error {
	if err := s.Validate(); err != nil {
		return err
	}
	if total := s.Total(); total < MinAuthoringFlowers {
		return errors.New(errors.ErrCodeInvalidSelection, "pick at least %d flowers, got %d", MinAuthoringFlowers, total)
	}
	return nil
}

// Group is a run of identical flowers in the arrangement order.
type Group struct {
	Key   string
	Count int
}

// Groups returns the flower groups in arrangement order. Unknown keys are
// resolved to the default flower and merged into its group. Groups are
// ordered by size weight, then count (both descending), then key.
func (s Spec) Groups() []Group {
	counts := make(map[string]int, len(s.Flowers))
	for k, c := range s.Flowers {
		if c > 0 {
			counts[flower.Resolve(k)] += c
		}
	}
	groups := make([]Group, 0, len(counts))
	for k, c := range counts {
		groups = append(groups, Group{Key: k, Count: c})
	}
	slices.SortFunc(groups, func(a, b Group) int {
		if d := cmp.Compare(flower.Get(b.Key).Weight(), flower.Get(a.Key).Weight()); d != 0 {
			return d
		}
		if d := cmp.Compare(b.Count, a.Count); d != 0 {
			return d
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return groups
}

// Sequence flattens Groups into one key per flower. Identical flowers are
// always contiguous.
func (s Spec) Sequence() []string {
	var seq []string
	for _, g := range s.Groups() {
		for range g.Count {
			seq = append(seq, g.Key)
		}
	}
	return seq
}

// Dominant returns the flower with the highest count, breaking ties by key.
// An empty bouquet reports the default flower.
func (s Spec) Dominant() string {
	best, bestCount := flower.DefaultKey, 0
	for _, k := range slices.Sorted(maps.Keys(s.Flowers)) {
		if c := s.Flowers[k]; c > bestCount {
			best, bestCount = k, c
		}
	}
	return best
}
