package sitemapper

import (
	"strconv"

	"github.com/wanstack/sitemapper/vmanage"
)

// Coordinate is a latitude/longitude pair as received from the
// controller, kept at full precision for export round-tripping.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Device is the canonical form of one inventory record. It is built
// once per raw record and not mutated afterwards.
type Device struct {
	Hostname     string
	SystemIP     string
	SiteID       string
	Type         string
	Model        string
	Reachability string
	Version      string
	Platform     string

	// Location is nil when the record carried no usable coordinate;
	// such devices are excluded from geocoding but still aggregated.
	Location *Coordinate

	// IsDeviceGPS is true when the coordinate came from the device's
	// own GPS rather than the configured system location.
	IsDeviceGPS bool
}

// normalizeDevice maps a raw inventory record onto a Device. Absent
// optional fields resolve to defaults; nothing here fails.
func normalizeDevice(raw vmanage.Device) Device {
	d := Device{
		Hostname:     defaultString(raw.HostName, "N/A"),
		SystemIP:     defaultString(raw.SystemIP, "N/A"),
		SiteID:       defaultString(raw.SiteID, "unknown"),
		Type:         defaultString(raw.DeviceType, "N/A"),
		Model:        defaultString(raw.DeviceModel, "N/A"),
		Reachability: defaultString(raw.Reachability, "N/A"),
		Version:      defaultString(raw.Version, "N/A"),
		Platform:     defaultString(raw.Platform, "N/A"),
	}

	// Device-reported GPS takes precedence over the system location
	// when both are present, even if they disagree.
	if loc := parseCoordinate(raw.GPSLatitude, raw.GPSLongitude); loc != nil {
		d.Location = loc
		d.IsDeviceGPS = true
	} else if loc := parseCoordinate(raw.Latitude, raw.Longitude); loc != nil {
		d.Location = loc
		d.IsDeviceGPS = raw.IsDeviceGeoData
	}

	return d
}

// parseCoordinate parses the controller's string coordinates.
// Absent, unparseable, or 0,0 pairs yield nil.
func parseCoordinate(latStr, lonStr string) *Coordinate {
	if latStr == "" || lonStr == "" {
		return nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)

	if err != nil {
		return nil
	}

	lon, err := strconv.ParseFloat(lonStr, 64)

	if err != nil {
		return nil
	}

	// 0,0 is the controller's placeholder for "no location".
	if lat == 0 && lon == 0 {
		return nil
	}

	return &Coordinate{
		Latitude:  lat,
		Longitude: lon,
	}
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}

	return v
}
