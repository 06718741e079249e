package data

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BrokenHeaven/storage/internal/curves"
	"github.com/BrokenHeaven/storage/internal/period"
)

// CurveResponse is the JSON shape of a forward curve file or request body.
//
// Example:
//
//	{
//	  "data": [
//	    {"period": "2024-04-01", "price": 23.5},
//	    {"period": "2024-04-02", "price": 23.7}
//	  ]
//	}
type CurveResponse struct {
	Data []CurvePoint `json:"data"`
}

type CurvePoint struct {
	Period period.Period `json:"period"`
	Price  float64       `json:"price"`
}

// LoadCurveJSON reads a forward curve from a JSON file. The points must form
// a contiguous daily run.
func LoadCurveJSON(path string) (curves.Series, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return curves.Series{}, err
	}
	var resp CurveResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return curves.Series{}, fmt.Errorf("parsing curve %s: %w", path, err)
	}
	return ToSeries(resp.Data)
}

// ToSeries converts curve points into a validated Series.
func ToSeries(points []CurvePoint) (curves.Series, error) {
	pts := make([]curves.Point, len(points))
	for i, p := range points {
		pts[i] = curves.Point{Period: p.Period, Value: p.Price}
	}
	s, err := curves.FromPoints(pts)
	if err != nil {
		return curves.Series{}, fmt.Errorf("invalid forward curve: %w", err)
	}
	return s, nil
}
