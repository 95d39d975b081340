package poi

// POI is a point of interest along a trail: a cabin, water source, signal
// spot and the like.
type POI struct {
	ID          string  `json:"id"`
	TrailID     string  `json:"trail_id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}
