package simulate

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/pipeline"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/sensorapi"
)

// Profile is the random range and metadata of one simulated medium.
type Profile struct {
	Min       float64
	Max       float64
	Integer   bool
	Unit      string
	Label     string
	Location  string
	Threshold pipeline.Threshold
}

// Profiles holds one profile per medium.
type Profiles struct {
	Air   Profile
	Water Profile
	Soil  Profile
}

// DefaultProfiles returns the stock ranges with the given thresholds.
func DefaultProfiles(air, water, soil pipeline.Threshold) Profiles {
	return Profiles{
		Air:   Profile{Min: 5, Max: 50, Unit: "µg/m³", Label: "PM2.5", Location: "Sector A1", Threshold: air},
		Water: Profile{Min: 0.01, Max: 0.2, Unit: "mg/L", Label: "Metales", Location: "Pozo B1", Threshold: water},
		Soil:  Profile{Min: 100, Max: 1500, Integer: true, Unit: "ppm", Label: "pH/Metales", Location: "Zona C1", Threshold: soil},
	}
}

// Generator produces simulated readings classified against each medium's
// threshold. It is safe for concurrent use.
type Generator struct {
	mu       sync.Mutex
	rng      *rand.Rand
	profiles Profiles
}

// NewGenerator returns a generator; a nil rng is seeded from the clock.
func NewGenerator(profiles Profiles, rng *rand.Rand) *Generator {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Generator{rng: rng, profiles: profiles}
}

// Next draws one reading per medium.
func (g *Generator) Next() sensorapi.WriteRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return sensorapi.WriteRequest{
		Air:   g.reading(g.profiles.Air),
		Water: g.reading(g.profiles.Water),
		Soil:  g.reading(g.profiles.Soil),
	}
}

func (g *Generator) reading(p Profile) models.RawReading {
	var v float64
	if p.Integer {
		lo, hi := int(math.Ceil(p.Min)), int(math.Floor(p.Max))
		v = float64(lo + g.rng.IntN(hi-lo+1))
	} else {
		v = math.Round((g.rng.Float64()*(p.Max-p.Min)+p.Min)*1000) / 1000
	}
	return models.RawReading{
		Value:    models.NewNumber(v),
		Unit:     p.Unit,
		Status:   string(pipeline.Classify(v, p.Threshold)),
		Location: p.Location,
		Label:    p.Label,
	}
}
