// Package ledger talks to the certification ledger backend that holds
// per-device status reports. The backend is an opaque remote service;
// every call can fail, and callers surface failures as a generic
// operation-failed condition rather than retrying.
package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/amrshaker000/origin-trace/internal/model"
)

// ErrNoReport is returned when the ledger has no report for a device
// yet. It is an ordinary empty state, not a failure.
var ErrNoReport = errors.New("no report yet")

// Client is an HTTP client for the ledger backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a ledger client against baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// GetReport fetches the status report for a device.
func (c *Client) GetReport(deviceID int) (*model.DeviceReport, error) {
	url := fmt.Sprintf("%s/devices/%d/report", c.baseURL, deviceID)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoReport
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var report model.DeviceReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}

// SubmitReport records a status report for a device.
func (c *Client) SubmitReport(deviceID int, report model.DeviceReport) error {
	url := fmt.Sprintf("%s/devices/%d/report", c.baseURL, deviceID)

	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	resp, err := c.httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to submit report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
