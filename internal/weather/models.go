package weather

// Slot is one forecast period as clients render it.
type Slot struct {
	Time string `json:"time"`
	Temp string `json:"temp"`
	PoP  string `json:"pop"`
	Wx   string `json:"wx"`
}
