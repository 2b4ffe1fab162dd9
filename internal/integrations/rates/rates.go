package rates

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/finwise/finance-service/internal/config"
	"github.com/finwise/finance-service/internal/currency"
)

// Client fetches the ECB daily reference rates and serves conversion factors
// from an in-memory table. Rates are EUR-based; cross rates are derived.
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger

	mu    sync.RWMutex
	table map[string]float64
	asOf  time.Time
}

// NewClient initializes a new rates client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.RatesURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log:   log,
		table: map[string]float64{"EUR": 1},
	}
}

// Refresh fetches the current daily rates and replaces the in-memory table
func (c *Client) Refresh() error {
	resp, err := c.client.Get(c.url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	table, asOf, err := parseDailyRates(body)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.table = table
	c.asOf = asOf
	c.mu.Unlock()

	c.log.Infof("Loaded %d reference rates as of %s", len(table), asOf.Format("2006-01-02"))
	return nil
}

// parseDailyRates extracts the currency/rate pairs from the ECB daily feed
func parseDailyRates(rawBody []byte) (map[string]float64, time.Time, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to parse XML: %w", err)
	}

	dayCube := doc.FindElement("//Cube/Cube[@time]")
	if dayCube == nil {
		return nil, time.Time{}, fmt.Errorf("no daily rate block found in XML")
	}

	asOf, err := time.Parse("2006-01-02", dayCube.SelectAttrValue("time", ""))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to parse rate date: %w", err)
	}

	table := map[string]float64{"EUR": 1}
	for _, cube := range dayCube.SelectElements("Cube") {
		code := cube.SelectAttrValue("currency", "")
		rate, err := strconv.ParseFloat(cube.SelectAttrValue("rate", ""), 64)
		if err != nil || code == "" {
			return nil, time.Time{}, fmt.Errorf("malformed rate entry for %q", code)
		}
		table[code] = rate
	}
	if len(table) == 1 {
		return nil, time.Time{}, fmt.Errorf("no rates found in XML")
	}
	return table, asOf, nil
}

// Rate returns the conversion factor from one currency into another using
// EUR as the pivot. The date argument is accepted for interface compatibility
// but the daily feed carries a single table.
func (c *Client) Rate(from, to string, _ time.Time) (float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fromRate, ok := c.table[from]
	if !ok {
		return 0, fmt.Errorf("unknown currency %s", from)
	}
	toRate, ok := c.table[to]
	if !ok {
		return 0, fmt.Errorf("unknown currency %s", to)
	}
	return toRate / fromRate, nil
}

// RateFunc exposes the client as the lookup capability consumed by the
// currency normalizer.
func (c *Client) RateFunc() currency.RateFunc {
	return c.Rate
}

// Snapshot returns a copy of the current rate table and its date
func (c *Client) Snapshot() (map[string]float64, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]float64, len(c.table))
	for code, rate := range c.table {
		out[code] = rate
	}
	return out, c.asOf
}
