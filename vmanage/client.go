// Package vmanage is a minimal client for the Cisco SD-WAN (vManage)
// management API, covering the endpoints the site pipeline consumes.
package vmanage

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrAuthFailed is returned when the controller rejects the
	// credentials. Authentication failure is fatal to a run.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadStatus is returned on unexpected response codes.
	ErrBadStatus = errors.New("unexpected response status")
)

// Device is one record from the /dataservice/device inventory.
// vManage serializes coordinates as strings, and most fields are
// optional depending on device state.
type Device struct {
	HostName        string `json:"host-name"`
	SystemIP        string `json:"system-ip"`
	SiteID          string `json:"site-id"`
	DeviceType      string `json:"device-type"`
	DeviceModel     string `json:"device-model"`
	Reachability    string `json:"reachability"`
	Version         string `json:"version"`
	Platform        string `json:"platform"`
	Latitude        string `json:"latitude"`
	Longitude       string `json:"longitude"`
	GPSLatitude     string `json:"gps-latitude"`
	GPSLongitude    string `json:"gps-longitude"`
	IsDeviceGeoData bool   `json:"isDeviceGeoData"`
}

// TLOC is one transport-locator record from /dataservice/device/tloc,
// linking a WAN transport to a device via its system IP.
type TLOC struct {
	SystemIP             string `json:"system-ip"`
	Color                string `json:"color"`
	ControlConnectionsUp int    `json:"controlConnectionsUp"`
	BfdSessionsUp        int    `json:"bfdSessionsUp"`
}

// Client is an authenticated vManage API session.
type Client struct {
	baseURL  string
	username string
	password string
	client   *http.Client
	token    string
}

// NewClient creates a client for the controller at baseURL. The given
// http.Client supplies transport and TLS settings; its cookie jar is
// replaced, since vManage tracks the session via cookies.
func NewClient(baseURL, username, password string, client *http.Client) (*Client, error) {
	jar, err := cookiejar.New(nil)

	if err != nil {
		return nil, err
	}

	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	session := *client
	session.Jar = jar

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		client:   &session,
	}, nil
}

// Login performs the form-based security check, then fetches the XSRF
// token attached to all subsequent requests.
func (c *Client) Login() error {
	res, err := c.client.PostForm(c.baseURL+"/j_security_check", url.Values{
		"j_username": {c.username},
		"j_password": {c.password},
	})

	if err != nil {
		return errors.Wrap(err, "unable to reach controller")
	}

	body, err := io.ReadAll(res.Body)

	res.Body.Close()

	if err != nil {
		return err
	}

	// On bad credentials vManage answers 200 with the login page
	// instead of an error status.
	if res.StatusCode != http.StatusOK || bytes.Contains(body, []byte("<html")) {
		return ErrAuthFailed
	}

	token, err := c.fetchToken()

	if err != nil {
		return err
	}

	c.token = token

	log.WithField("controller", c.baseURL).Info("Authenticated")

	return nil
}

func (c *Client) fetchToken() (string, error) {
	req, err := c.newRequest("/dataservice/client/token")

	if err != nil {
		return "", err
	}

	res, err := c.client.Do(req)

	if err != nil {
		return "", errors.Wrap(err, "unable to fetch session token")
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", errors.Wrap(ErrAuthFailed, res.Status)
	}

	token, err := io.ReadAll(res.Body)

	if err != nil {
		return "", err
	}

	return string(token), nil
}

func (c *Client) newRequest(path string) (*http.Request, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)

	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", "SiteMapper/1.0 (Go "+runtime.Version()+")")

	if c.token != "" {
		req.Header.Set("X-XSRF-TOKEN", c.token)
	}

	return req, nil
}

// fetch retrieves a dataservice collection, unwrapping the {"data": []}
// envelope every vManage list endpoint uses.
func fetch[T any](c *Client, path string) ([]T, error) {
	req, err := c.newRequest(path)

	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)

	if err != nil {
		return nil, errors.Wrap(err, "request failed: "+path)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Wrap(ErrBadStatus, res.Status+": "+path)
	}

	var payload struct {
		Data []T `json:"data"`
	}

	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "unable to decode response: "+path)
	}

	return payload.Data, nil
}

// Devices returns the full device inventory.
func (c *Client) Devices() ([]Device, error) {
	return fetch[Device](c, "/dataservice/device")
}

// TLOCs returns the transport-locator records for all devices.
func (c *Client) TLOCs() ([]TLOC, error) {
	return fetch[TLOC](c, "/dataservice/device/tloc")
}
