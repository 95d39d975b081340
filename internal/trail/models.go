package trail

// Trail is one official route as listed in the catalogue.
type Trail struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Location       string  `json:"location"`
	Difficulty     int     `json:"difficulty"`
	PermitRequired bool    `json:"permitRequired"`
	LengthKm       float64 `json:"-"`
	ElevationGainM int     `json:"-"`
	DescentM       int     `json:"-"`
	DurationH      float64 `json:"-"`
	WeatherStation string  `json:"-"`
}

type Stats struct {
	TotalTime string `json:"totalTime"`
	Distance  string `json:"distance"`
	Ascent    string `json:"ascent"`
	Descent   string `json:"descent"`
}
