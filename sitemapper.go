package sitemapper

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/wanstack/sitemapper/geo"
	"github.com/wanstack/sitemapper/vmanage"
)

var (
	devicesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sitemapper_devices_processed",
		Help: "The total number of inventory records processed",
	})

	sitesDiscovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sitemapper_sites_discovered",
		Help: "The total number of sites reconstructed from inventory",
	})
)

// DeviceSource provides the two inventory feeds the pipeline consumes.
// It is implemented by vmanage.Client; tests substitute a fake.
type DeviceSource interface {
	Devices() ([]vmanage.Device, error)
	TLOCs() ([]vmanage.TLOC, error)
}

// SiteMapper is our application instance. It owns the run-scoped
// geocode resolver and holds the extracted hierarchy after Extract.
type SiteMapper struct {
	config   *Config
	source   DeviceSource
	resolver *geo.Resolver

	sites  []*Site
	export map[string]*SiteExport
}

// New creates a SiteMapper over the given inventory source. The
// geocode resolver and its pacing gate are constructed here, scoped to
// this instance rather than shared process-wide.
func New(config *Config, source DeviceSource) (*SiteMapper, error) {
	provider := geo.NewNominatimProvider(config.HTTPClient())

	if config.GeocodeURL != "" {
		provider.BaseURL = config.GeocodeURL
	}

	resolver, err := geo.NewResolver(provider, config.CacheSize, geo.NewIntervalGate(config.GeocodeInterval))

	if err != nil {
		return nil, errors.Wrap(err, "unable to create geocode resolver")
	}

	return &SiteMapper{
		config:   config,
		source:   source,
		resolver: resolver,
	}, nil
}

// Extract runs the pipeline once: fetch inventory and topology,
// normalize, aggregate into sites, then assemble the geocoded export
// structure. Geocoding failures degrade to Unknown fields and never
// abort the run.
func (s *SiteMapper) Extract() error {
	log.Info("Fetching device inventory")

	raw, err := s.source.Devices()

	if err != nil {
		return errors.Wrap(err, "unable to fetch devices")
	}

	log.WithField("devices", len(raw)).Info("Fetching TLOC topology")

	// TLOC data only enriches the hierarchy; a failed fetch degrades
	// to sites without connection summaries rather than aborting.
	tlocs, err := s.source.TLOCs()

	if err != nil {
		log.WithError(err).Warning("Unable to fetch tloc data, continuing without connection summaries")

		tlocs = nil
	}

	devices := make([]Device, len(raw))

	for i, record := range raw {
		devices[i] = normalizeDevice(record)
		devicesProcessed.Inc()
	}

	s.sites = aggregateSites(devices, tlocs)

	sitesDiscovered.Add(float64(len(s.sites)))

	log.WithFields(log.Fields{
		"sites": len(s.sites),
		"tlocs": len(tlocs),
	}).Info("Geocoding site locations")

	s.export = assembleHierarchy(s.sites, s.resolver)

	return nil
}

// Sites returns the aggregated sites in first-appearance order.
func (s *SiteMapper) Sites() []*Site {
	return s.sites
}

// Export returns the assembled site-keyed hierarchy.
func (s *SiteMapper) Export() map[string]*SiteExport {
	return s.export
}
