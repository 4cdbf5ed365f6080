package orbtr

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb/geojson"
)

// FeaturesFromGeoJSON decodes a GeoJSON FeatureCollection. Features without
// an id are named after their position in the collection. Features without
// a geometry are skipped.
func FeaturesFromGeoJSON(data []byte) ([]Feature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decoding feature collection: %w", err)
	}
	features := make([]Feature, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		id := strconv.Itoa(i)
		if f.ID != nil {
			id = fmt.Sprint(f.ID)
		}
		features = append(features, Feature{ID: id, Geometry: f.Geometry})
	}
	return features, nil
}
