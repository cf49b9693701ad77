package sitemapper

import (
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/wanstack/sitemapper/geo"
	"github.com/wanstack/sitemapper/vmanage"
)

// SiteType categorizes a site by the roles of the devices in it.
type SiteType string

const (
	SiteTypeControlPlane SiteType = "control_plane"
	SiteTypeBranch       SiteType = "branch"
)

// controlPlaneRoles are the device types forming the management and
// control fabric. One such device promotes its whole site.
var controlPlaneRoles = []string{"vmanage", "vsmart", "vbond"}

// SiteDevice pairs a normalized device with the link summaries matched
// to it during aggregation.
type SiteDevice struct {
	Device

	Links []*LinkSummary
}

// Site is a logical grouping of devices sharing a site identifier, the
// unit the hierarchy is reconstructed around.
type Site struct {
	ID      string
	Devices []SiteDevice

	// Location is the representative coordinate for the site, nil when
	// no member device carries one.
	Location    *Coordinate
	IsDeviceGPS bool

	// Geocoded is filled in during assembly, once per site.
	Geocoded *geo.Result

	Type SiteType
}

// aggregateSites groups devices by site identifier and attaches link
// summaries. Sites keep the order their first device appeared in,
// which only affects report ordering.
func aggregateSites(devices []Device, tlocs []vmanage.TLOC) []*Site {
	links := summarizeTLOCs(tlocs)

	var sites []*Site

	index := make(map[string]*Site)

	for _, device := range devices {
		site, ok := index[device.SiteID]

		if !ok {
			site = &Site{ID: device.SiteID}

			index[device.SiteID] = site
			sites = append(sites, site)
		}

		site.Devices = append(site.Devices, SiteDevice{
			Device: device,
			Links:  links[device.SystemIP],
		})
	}

	for _, site := range sites {
		site.Location, site.IsDeviceGPS = representativeLocation(site.Devices)
		site.Type = classify(site)

		log.WithFields(log.Fields{
			"site":    site.ID,
			"devices": len(site.Devices),
			"type":    site.Type,
		}).Debug("Aggregated site")
	}

	return sites
}

// representativeLocation picks the site coordinate: the first
// GPS-reported coordinate if any device has one, otherwise the first
// coordinate of any kind. GPS wins because it is definitionally more
// precise than a configured system location.
func representativeLocation(devices []SiteDevice) (*Coordinate, bool) {
	for _, device := range devices {
		if device.Location != nil && device.IsDeviceGPS {
			return device.Location, true
		}
	}

	for _, device := range devices {
		if device.Location != nil {
			return device.Location, false
		}
	}

	return nil, false
}

// classify assigns the site type from the aggregated device roles.
func classify(site *Site) SiteType {
	isControl := lo.SomeBy(site.Devices, func(device SiteDevice) bool {
		return lo.Contains(controlPlaneRoles, device.Type)
	})

	if isControl {
		return SiteTypeControlPlane
	}

	return SiteTypeBranch
}
