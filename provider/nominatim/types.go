package nominatim

// place mirrors the relevant parts of the jsonv2 search payload.
type place struct {
	PlaceID     int64   `json:"place_id"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Address     address `json:"address"`
}

type address struct {
	Road         string `json:"road"`
	HouseNumber  string `json:"house_number"`
	Postcode     string `json:"postcode"`
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	Hamlet       string `json:"hamlet"`
	State        string `json:"state"`
	County       string `json:"county"`
}
