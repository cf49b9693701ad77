package sitemapper

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"time"
)

// Config represents our application's configuration.
type Config struct {
	// URL is the base address of the vManage controller.
	URL string `mapstructure:"url"`

	// Username and Password are the controller credentials.
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// Insecure disables TLS verification. Lab controllers commonly run
	// on self-signed certificates.
	Insecure bool `mapstructure:"insecure"`

	// Output is the path the geocoded hierarchy is written to.
	Output string `mapstructure:"output"`

	// Bind, when set, serves the extracted snapshot over HTTP.
	Bind string `mapstructure:"bind"`

	// CacheSize is the number of coordinate keys kept in the geocode cache.
	CacheSize int `mapstructure:"cacheSize"`

	// GeocodeURL overrides the geocoding endpoint, mainly for
	// self-hosted Nominatim instances.
	GeocodeURL string `mapstructure:"geocodeUrl"`

	// GeocodeInterval is the minimum time between external geocoding
	// calls. The public Nominatim policy is one request per second.
	GeocodeInterval time.Duration `mapstructure:"geocodeInterval"`

	// RootCAs is the CA pool used for outbound TLS.
	RootCAs *x509.CertPool

	httpClient *http.Client
}

// SetRootCAs sets the root CA pool and creates the outbound http client.
// This **MUST** be called before HTTPClient is used.
func (c *Config) SetRootCAs(cas *x509.CertPool) {
	c.RootCAs = cas

	t := &http.Transport{
		TLSClientConfig: &tls.Config{
			RootCAs:            cas,
			InsecureSkipVerify: c.Insecure,
		},
	}

	c.httpClient = &http.Client{
		Transport: t,
		Timeout:   30 * time.Second,
	}
}

// HTTPClient returns the shared outbound client, falling back to a
// default when SetRootCAs was never called (tests, mostly).
func (c *Config) HTTPClient() *http.Client {
	if c.httpClient == nil {
		return &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	return c.httpClient
}
