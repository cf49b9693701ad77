package geo

import (
	"strconv"
	"strings"
)

// Sentinel values used when the provider omits an address component.
const (
	UnknownCity     = "Unknown City"
	UnknownState    = "Unknown State"
	UnknownCountry  = "Unknown Country"
	UnknownLocation = "Unknown Location"
)

// Result is the structured address derived from reverse-geocoding a
// coordinate pair. One Result is produced per unique coordinate key and
// shared by reference across every device and site at that location.
type Result struct {
	DisplayName      string `json:"display_name"`
	City             string `json:"city"`
	State            string `json:"state"`
	Country          string `json:"country"`
	CountryCode      string `json:"country_code"`
	Postcode         string `json:"postcode"`
	FormattedAddress string `json:"formatted_address"`
}

// Fallback builds the degraded Result used when the provider fails or
// returns a malformed payload. It carries the raw coordinates so the
// output still identifies the location.
func Fallback(lat, lon float64) *Result {
	coords := formatCoordinate(lat) + ", " + formatCoordinate(lon)

	return &Result{
		DisplayName:      "Location at " + coords,
		City:             UnknownCity,
		State:            UnknownState,
		Country:          UnknownCountry,
		CountryCode:      "",
		Postcode:         "",
		FormattedAddress: coords,
	}
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatAddress joins the available city, state and country components
// into a readable single line.
func formatAddress(components ...string) string {
	var parts []string

	for _, c := range components {
		if c != "" {
			parts = append(parts, c)
		}
	}

	if len(parts) == 0 {
		return UnknownLocation
	}

	return strings.Join(parts, ", ")
}
