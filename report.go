package sitemapper

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var headingCaser = cases.Title(language.Und)

// siteTypeHeading turns a site type into a report heading, e.g.
// control_plane -> "Control Plane Sites".
func siteTypeHeading(t SiteType) string {
	return headingCaser.String(strings.ReplaceAll(string(t), "_", " ")) + " Sites"
}

// WriteReport renders the console report: summary counts, sites by
// category, then the per-country and per-city location summary.
func (s *SiteMapper) WriteReport(w io.Writer) {
	banner := strings.Repeat("=", 80)

	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "SD-WAN SITES WITH GEOCODED LOCATIONS")
	fmt.Fprintln(w, banner)

	control := lo.Filter(s.sites, func(site *Site, _ int) bool {
		return site.Type == SiteTypeControlPlane
	})

	branch := lo.Filter(s.sites, func(site *Site, _ int) bool {
		return site.Type == SiteTypeBranch
	})

	fmt.Fprintf(w, "\nSummary: %d sites discovered\n", len(s.sites))
	fmt.Fprintf(w, "   %s: %d\n", siteTypeHeading(SiteTypeControlPlane), len(control))
	fmt.Fprintf(w, "   %s: %d\n", siteTypeHeading(SiteTypeBranch), len(branch))

	writeSiteSection(w, siteTypeHeading(SiteTypeControlPlane), control)
	writeSiteSection(w, siteTypeHeading(SiteTypeBranch), branch)

	s.writeLocationSummary(w)
}

func writeSiteSection(w io.Writer, heading string, sites []*Site) {
	if len(sites) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s\n%s\n", heading, strings.Repeat("-", 40))

	for _, site := range sites {
		writeSite(w, site)
	}
}

func writeSite(w io.Writer, site *Site) {
	fmt.Fprintf(w, "\nSite %s (%d devices)\n", site.ID, len(site.Devices))

	if site.Geocoded != nil && site.Location != nil {
		label := "Site Location"

		if site.IsDeviceGPS {
			label = "Device GPS"
		}

		geocoded := site.Geocoded

		fmt.Fprintf(w, "   %s: %s\n", label, geocoded.FormattedAddress)
		fmt.Fprintf(w, "   City: %s, %s, %s %s\n", geocoded.City, geocoded.State, geocoded.Country, geocoded.CountryCode)

		if geocoded.Postcode != "" {
			fmt.Fprintf(w, "   Postal Code: %s\n", geocoded.Postcode)
		}

		fmt.Fprintf(w, "   Coordinates: %v, %v\n", site.Location.Latitude, site.Location.Longitude)
	}

	for _, device := range site.Devices {
		status := "OFFLINE"

		if device.Reachability == "reachable" {
			status = "ONLINE"
		}

		fmt.Fprintf(w, "   [%s] %s (%s)\n", status, device.Hostname, device.Type)
		fmt.Fprintf(w, "      System IP: %s, Model: %s\n", device.SystemIP, device.Model)
		fmt.Fprintf(w, "      Version: %s, Platform: %s\n", device.Version, device.Platform)

		if len(device.Links) > 0 {
			fmt.Fprintln(w, "      Network Connections:")

			for _, link := range device.Links {
				fmt.Fprintf(w, "        %s: %d control, %d BFD\n", link.Color, link.ControlConnections, link.BfdSessions)
			}
		}
	}
}

// writeLocationSummary groups sites by geocoded country and city.
func (s *SiteMapper) writeLocationSummary(w io.Writer) {
	fmt.Fprintf(w, "\nLocation Summary\n%s\n", strings.Repeat("-", 40))

	countries := make(map[string][]string)
	cities := make(map[string][]string)

	for _, site := range s.sites {
		if site.Geocoded == nil {
			continue
		}

		geocoded := site.Geocoded
		city := fmt.Sprintf("%s, %s, %s", geocoded.City, geocoded.State, geocoded.Country)

		countries[geocoded.Country] = append(countries[geocoded.Country], "Site "+site.ID)
		cities[city] = append(cities[city], "Site "+site.ID)
	}

	fmt.Fprintf(w, "\nCountries (%d):\n", len(countries))

	for _, country := range sortedKeys(countries) {
		fmt.Fprintf(w, "   %s: %s\n", country, strings.Join(countries[country], ", "))
	}

	fmt.Fprintf(w, "\nCities (%d):\n", len(cities))

	for _, city := range sortedKeys(cities) {
		fmt.Fprintf(w, "   %s: %s\n", city, strings.Join(cities[city], ", "))
	}
}

func sortedKeys(m map[string][]string) []string {
	keys := lo.Keys(m)

	sort.Strings(keys)

	return keys
}
