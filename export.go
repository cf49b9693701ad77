package sitemapper

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/wanstack/sitemapper/geo"
)

// LocationExport is a coordinate pair with its geocoded address block.
type LocationExport struct {
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	IsDeviceGPS bool        `json:"is_device_gps"`
	Geocoded    *geo.Result `json:"geocoded"`
}

// DeviceExport is one device record in the exported hierarchy.
type DeviceExport struct {
	Hostname     string          `json:"hostname"`
	SystemIP     string          `json:"system_ip"`
	DeviceType   string          `json:"device_type"`
	DeviceModel  string          `json:"device_model"`
	Reachability string          `json:"reachability"`
	Version      string          `json:"version"`
	Platform     string          `json:"platform"`
	Location     *LocationExport `json:"location,omitempty"`
	TLOCInfo     []*LinkSummary  `json:"tloc_info,omitempty"`
}

// SiteExport is one site record in the exported hierarchy. The site
// geocode appears both inside location and under geocoded_location for
// export compatibility.
type SiteExport struct {
	Devices          []*DeviceExport `json:"devices"`
	Location         *LocationExport `json:"location"`
	GeocodedLocation *geo.Result     `json:"geocoded_location"`
	SiteType         SiteType        `json:"site_type"`
}

// assembleHierarchy combines the aggregated sites with geocode results
// into the site-keyed export structure. Devices resolve against their
// own coordinates; the resolver cache makes site-mates at the same
// location a single external call. Site Geocoded fields are filled in
// as a side effect so the report can reuse them.
func assembleHierarchy(sites []*Site, resolver *geo.Resolver) map[string]*SiteExport {
	export := make(map[string]*SiteExport, len(sites))

	for _, site := range sites {
		if site.Location != nil && site.Geocoded == nil {
			site.Geocoded = resolver.Resolve(site.Location.Latitude, site.Location.Longitude)
		}

		record := &SiteExport{
			Devices:          make([]*DeviceExport, 0, len(site.Devices)),
			GeocodedLocation: site.Geocoded,
			SiteType:         site.Type,
		}

		if site.Location != nil {
			record.Location = &LocationExport{
				Latitude:    site.Location.Latitude,
				Longitude:   site.Location.Longitude,
				IsDeviceGPS: site.IsDeviceGPS,
				Geocoded:    site.Geocoded,
			}
		}

		for _, device := range site.Devices {
			d := &DeviceExport{
				Hostname:     device.Hostname,
				SystemIP:     device.SystemIP,
				DeviceType:   device.Type,
				DeviceModel:  device.Model,
				Reachability: device.Reachability,
				Version:      device.Version,
				Platform:     device.Platform,
				TLOCInfo:     device.Links,
			}

			if device.Location != nil {
				d.Location = &LocationExport{
					Latitude:    device.Location.Latitude,
					Longitude:   device.Location.Longitude,
					IsDeviceGPS: device.IsDeviceGPS,
					Geocoded:    resolver.Resolve(device.Location.Latitude, device.Location.Longitude),
				}
			}

			record.Devices = append(record.Devices, d)
		}

		export[site.ID] = record
	}

	return export
}

// WriteJSON persists the assembled hierarchy as a single indented JSON
// document.
func (s *SiteMapper) WriteJSON(path string) error {
	f, err := os.Create(path)

	if err != nil {
		return errors.Wrap(err, "unable to create output file")
	}

	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	if err := enc.Encode(s.export); err != nil {
		return errors.Wrap(err, "unable to encode site hierarchy")
	}

	return nil
}
