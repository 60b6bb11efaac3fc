package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type apiClient struct {
	addr string
	http *http.Client
}

func newAPIClient(addr string) *apiClient {
	return &apiClient{addr: addr, http: &http.Client{Timeout: 5 * time.Second}}
}

func (c *apiClient) get(path string, out any) error {
	resp, err := c.http.Get(c.addr + path)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type healthResponse struct {
	Status string        `json:"status"`
	Uptime time.Duration `json:"uptime"`
}

type categorySlotDTO struct {
	State string    `json:"state"`
	Set   bool      `json:"set"`
	At    time.Time `json:"at"`
}

type stateResponse struct {
	Current string                     `json:"current"`
	Slots   map[string]categorySlotDTO `json:"slots"`
}

type historyEntryDTO struct {
	Prev      string    `json:"prev"`
	New       string    `json:"new"`
	Cause     string    `json:"cause"`
	Timestamp time.Time `json:"timestamp"`
}

type zoneDTO struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Enabled bool   `json:"enabled"`
	Active  bool   `json:"active"`
}

type upcomingDTO struct {
	Name      string    `json:"name"`
	SolarDate time.Time `json:"solar_date"`
}
