package sitemapper

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wanstack/sitemapper/vmanage"
)

func testDevice(siteID, hostname, systemIP, deviceType string, location *Coordinate, gps bool) Device {
	return Device{
		Hostname:     hostname,
		SystemIP:     systemIP,
		SiteID:       siteID,
		Type:         deviceType,
		Model:        "N/A",
		Reachability: "reachable",
		Version:      "20.9.1",
		Platform:     "x86_64",
		Location:     location,
		IsDeviceGPS:  gps,
	}
}

var _ = Describe("Site aggregator", func() {
	It("Should merge devices sharing a site identifier into one site", func() {
		devices := []Device{
			testDevice("101", "vmanage-01", "10.10.1.1", "vmanage", &Coordinate{37.6667, -122.777}, true),
			testDevice("200", "edge-01", "10.3.0.1", "vedge", nil, false),
			testDevice("101", "vsmart-01", "10.10.1.5", "vsmart", nil, false),
		}

		sites := aggregateSites(devices, nil)

		Expect(sites).To(HaveLen(2))
		Expect(sites[0].ID).To(Equal("101"))
		Expect(sites[0].Devices).To(HaveLen(2))
		Expect(sites[1].ID).To(Equal("200"))
		Expect(sites[1].Devices).To(HaveLen(1))
	})

	It("Should sum control and BFD sessions per color from matching TLOCs", func() {
		devices := []Device{
			testDevice("200", "edge-01", "10.3.0.1", "vedge", nil, false),
		}

		tlocs := []vmanage.TLOC{
			{SystemIP: "10.3.0.1", Color: "public-internet", ControlConnectionsUp: 2, BfdSessionsUp: 4},
			{SystemIP: "10.3.0.1", Color: "mpls", ControlConnectionsUp: 1, BfdSessionsUp: 3},
			{SystemIP: "10.3.0.1", Color: "public-internet", ControlConnectionsUp: 1, BfdSessionsUp: 2},
			{SystemIP: "10.9.9.9", Color: "lte", ControlConnectionsUp: 1, BfdSessionsUp: 1},
		}

		sites := aggregateSites(devices, tlocs)

		links := sites[0].Devices[0].Links

		Expect(links).To(HaveLen(2))
		Expect(links[0].Color).To(Equal("public-internet"))
		Expect(links[0].ControlConnections).To(Equal(3))
		Expect(links[0].BfdSessions).To(Equal(6))
		Expect(links[1].Color).To(Equal("mpls"))
		Expect(links[1].ControlConnections).To(Equal(1))
		Expect(links[1].BfdSessions).To(Equal(3))
	})

	It("Should leave devices without matching TLOCs with an empty summary", func() {
		devices := []Device{
			testDevice("200", "edge-01", "10.3.0.1", "vedge", nil, false),
		}

		sites := aggregateSites(devices, []vmanage.TLOC{
			{SystemIP: "10.9.9.9", Color: "lte", ControlConnectionsUp: 1, BfdSessionsUp: 1},
		})

		Expect(sites[0].Devices[0].Links).To(BeEmpty())
	})

	It("Should pick the first coordinate-bearing device as the site location", func() {
		devices := []Device{
			testDevice("101", "vmanage-01", "10.10.1.1", "vmanage", nil, false),
			testDevice("101", "vsmart-01", "10.10.1.5", "vsmart", &Coordinate{37.6667, -122.777}, false),
		}

		sites := aggregateSites(devices, nil)

		Expect(sites[0].Location).ToNot(BeNil())
		Expect(sites[0].Location.Latitude).To(Equal(37.6667))
		Expect(sites[0].IsDeviceGPS).To(BeFalse())
	})

	It("Should prefer a GPS-reported coordinate over an earlier system one", func() {
		devices := []Device{
			testDevice("101", "vmanage-01", "10.10.1.1", "vmanage", &Coordinate{1, 1}, false),
			testDevice("101", "vsmart-01", "10.10.1.5", "vsmart", &Coordinate{37.6667, -122.777}, true),
		}

		sites := aggregateSites(devices, nil)

		Expect(sites[0].Location.Latitude).To(Equal(37.6667))
		Expect(sites[0].IsDeviceGPS).To(BeTrue())
	})

	It("Should leave the site location nil when no device has one", func() {
		devices := []Device{
			testDevice("200", "edge-01", "10.3.0.1", "vedge", nil, false),
		}

		sites := aggregateSites(devices, nil)

		Expect(sites[0].Location).To(BeNil())
	})
})

var _ = Describe("Site classifier", func() {
	It("Should classify a site with a single control device among many edges as control plane", func() {
		devices := []Device{
			testDevice("101", "vmanage-01", "10.10.1.1", "vmanage", nil, false),
		}

		for i := 0; i < 10; i++ {
			devices = append(devices, testDevice("101", "edge", "10.3.0.1", "vedge", nil, false))
		}

		sites := aggregateSites(devices, nil)

		Expect(sites[0].Type).To(Equal(SiteTypeControlPlane))
	})

	It("Should classify sites without control-plane roles as branch", func() {
		devices := []Device{
			testDevice("200", "edge-01", "10.3.0.1", "vedge", nil, false),
			testDevice("200", "edge-02", "10.3.0.2", "vedge", nil, false),
		}

		sites := aggregateSites(devices, nil)

		Expect(sites[0].Type).To(Equal(SiteTypeBranch))
	})

	It("Should recognize each control-plane role", func() {
		for _, role := range []string{"vmanage", "vsmart", "vbond"} {
			sites := aggregateSites([]Device{
				testDevice("101", role+"-01", "10.10.1.1", role, nil, false),
			}, nil)

			Expect(sites[0].Type).To(Equal(SiteTypeControlPlane))
		}
	})
})
