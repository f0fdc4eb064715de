package layout

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
)

// Default is the site map shipped with the dashboard.
var Default = []models.SensorLocation{
	{ID: "suelo1", Kind: models.KindSoil, Top: "70%", Left: "30%", Location: "Zona C1"},
	{ID: "suelo2", Kind: models.KindSoil, Top: "55%", Left: "15%", Location: "Zona C2"},
	{ID: "suelo3", Kind: models.KindSoil, Top: "45%", Left: "55%", Location: "Zona C3"},
	{ID: "agua1", Kind: models.KindWater, Top: "85%", Left: "5%", Location: "Pozo B1"},
	{ID: "agua2", Kind: models.KindWater, Top: "90%", Left: "40%", Location: "Pozo B2"},
	{ID: "aire1", Kind: models.KindAir, Top: "30%", Left: "60%", Location: "Sector A1"},
	{ID: "aire2", Kind: models.KindAir, Top: "15%", Left: "40%", Location: "Sector A2"},
}

type sensorEntry struct {
	ID       string `mapstructure:"id"`
	Type     string `mapstructure:"type"`
	Top      string `mapstructure:"top"`
	Left     string `mapstructure:"left"`
	Location string `mapstructure:"location"`
}

type file struct {
	Sensors []sensorEntry `mapstructure:"sensors"`
}

// Load reads the sensor map from a YAML, JSON or TOML file. An empty path
// returns the default layout.
//
//	sensors:
//	  - {id: suelo1, type: suelo, top: "70%", left: "30%", location: Zona C1}
func Load(path string) ([]models.SensorLocation, error) {
	if strings.TrimSpace(path) == "" {
		return Default, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read sensor layout: %w", err)
	}

	var f file
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("decode sensor layout: %w", err)
	}
	return fromEntries(f.Sensors)
}

func fromEntries(entries []sensorEntry) ([]models.SensorLocation, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("sensor layout has no sensors")
	}

	seen := make(map[string]struct{}, len(entries))
	out := make([]models.SensorLocation, 0, len(entries))
	for i, e := range entries {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return nil, fmt.Errorf("sensor %d: id is required", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("sensor %s: duplicate id", id)
		}
		seen[id] = struct{}{}

		kind, ok := models.ParseKind(e.Type)
		if !ok {
			return nil, fmt.Errorf("sensor %s: unknown type %q", id, e.Type)
		}
		loc := strings.TrimSpace(e.Location)
		if loc == "" {
			loc = models.DefaultLocation
		}
		out = append(out, models.SensorLocation{ID: id, Kind: kind, Top: e.Top, Left: e.Left, Location: loc})
	}
	return out, nil
}

// Find returns the location with the given id, ignoring case.
func Find(locations []models.SensorLocation, id string) (models.SensorLocation, bool) {
	for _, loc := range locations {
		if strings.EqualFold(loc.ID, id) {
			return loc, true
		}
	}
	return models.SensorLocation{}, false
}
