package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// controlClient talks to the control API of a running daemon. The address
// comes from the same configuration file the daemon was started with.
type controlClient struct {
	base   string
	client *http.Client
}

func newControlClient() (*controlClient, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return &controlClient{
		base:   "http://" + cfg.Server.ListenAddress,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *controlClient) post(path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := c.client.Post(c.base+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("cannot reach daemon at %s (is it running?): %w", c.base, err)
	}
	return decodeResponse(resp, out)
}

func (c *controlClient) get(path string, out any) error {
	resp, err := c.client.Get(c.base + path)
	if err != nil {
		return fmt.Errorf("cannot reach daemon at %s (is it running?): %w", c.base, err)
	}
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("daemon returned %s", resp.Status)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
