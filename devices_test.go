package sitemapper

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wanstack/sitemapper/vmanage"
)

var _ = Describe("Device normalizer", func() {
	It("Should map a complete record", func() {
		device := normalizeDevice(vmanage.Device{
			HostName:     "vmanage-01",
			SystemIP:     "10.10.1.1",
			SiteID:       "101",
			DeviceType:   "vmanage",
			DeviceModel:  "vmanage",
			Reachability: "reachable",
			Version:      "20.9.1",
			Platform:     "x86_64",
			Latitude:     "37.6667",
			Longitude:    "-122.777",
		})

		Expect(device.Hostname).To(Equal("vmanage-01"))
		Expect(device.SiteID).To(Equal("101"))
		Expect(device.Location).ToNot(BeNil())
		Expect(device.Location.Latitude).To(Equal(37.6667))
		Expect(device.Location.Longitude).To(Equal(-122.777))
		Expect(device.IsDeviceGPS).To(BeFalse())
	})

	It("Should default absent optional fields instead of failing", func() {
		device := normalizeDevice(vmanage.Device{
			HostName: "edge-01",
			SiteID:   "200",
		})

		Expect(device.SystemIP).To(Equal("N/A"))
		Expect(device.Model).To(Equal("N/A"))
		Expect(device.Reachability).To(Equal("N/A"))
		Expect(device.Location).To(BeNil())
	})

	It("Should default a missing site identifier to unknown", func() {
		device := normalizeDevice(vmanage.Device{HostName: "edge-02"})

		Expect(device.SiteID).To(Equal("unknown"))
	})

	It("Should prefer device-reported GPS over the system location", func() {
		device := normalizeDevice(vmanage.Device{
			HostName:     "edge-03",
			SiteID:       "300",
			Latitude:     "40.0",
			Longitude:    "-74.0",
			GPSLatitude:  "40.7128",
			GPSLongitude: "-74.006",
		})

		Expect(device.Location.Latitude).To(Equal(40.7128))
		Expect(device.IsDeviceGPS).To(BeTrue())
	})

	It("Should carry the geo-data flag for plain coordinates", func() {
		device := normalizeDevice(vmanage.Device{
			HostName:        "edge-04",
			SiteID:          "300",
			Latitude:        "40.0",
			Longitude:       "-74.0",
			IsDeviceGeoData: true,
		})

		Expect(device.IsDeviceGPS).To(BeTrue())
	})

	It("Should treat unparseable or placeholder coordinates as absent", func() {
		Expect(parseCoordinate("abc", "-74.0")).To(BeNil())
		Expect(parseCoordinate("40.0", "")).To(BeNil())
		Expect(parseCoordinate("0", "0")).To(BeNil())
		Expect(parseCoordinate("0", "10.5")).ToNot(BeNil())
	})
})
