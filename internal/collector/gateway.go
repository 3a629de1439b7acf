package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"SignalDesk/internal/model"
)

// GatewayFetcher reads bars and option chains from a broker gateway REST API.
type GatewayFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewGatewayFetcher creates a gateway client with optional proxy support.
func NewGatewayFetcher(baseURL, apiKey, proxyURL string) *GatewayFetcher {
	return &GatewayFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *GatewayFetcher) Name() string { return "gateway" }

// gatewayBar is the JSON shape of one bar.
type gatewayBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// gatewayChain is the JSON shape of an option chain.
type gatewayChain struct {
	Expiry    string `json:"expiry"`
	Contracts []struct {
		Strike       float64 `json:"strike"`
		Type         string  `json:"type"`
		LastPrice    float64 `json:"last_price"`
		IV           float64 `json:"iv"`
		OpenInterest float64 `json:"oi"`
		Volume       float64 `json:"volume"`
	} `json:"contracts"`
}

func (f *GatewayFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&limit=%d", f.BaseURL, url.QueryEscape(symbol), days)
	var raw []gatewayBar
	if err := f.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	bars := make([]model.PriceBar, len(raw))
	for i, gb := range raw {
		bars[i] = model.PriceBar{
			Time:   time.Unix(gb.Timestamp, 0).UTC(),
			Open:   gb.Open,
			High:   gb.High,
			Low:    gb.Low,
			Close:  gb.Close,
			Volume: gb.Volume,
		}
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (f *GatewayFetcher) FetchChain(ctx context.Context, symbol string) (*model.ChainSnapshot, error) {
	endpoint := fmt.Sprintf("%s/api/v1/options/chain?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	var raw gatewayChain
	if err := f.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("fetch chain: %w", err)
	}
	expiry, err := time.Parse("2006-01-02", raw.Expiry)
	if err != nil {
		return nil, fmt.Errorf("fetch chain: bad expiry %q: %w", raw.Expiry, err)
	}
	chain := &model.ChainSnapshot{Underlying: symbol, Expiry: expiry, FetchedAt: time.Now()}
	for _, c := range raw.Contracts {
		t, err := parseOptionType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("fetch chain: %w", err)
		}
		chain.Contracts = append(chain.Contracts, model.Contract{
			Strike:            c.Strike,
			Type:              t,
			Expiry:            expiry,
			LastPrice:         c.LastPrice,
			ImpliedVolatility: c.IV,
			OpenInterest:      c.OpenInterest,
			Volume:            c.Volume,
		})
	}
	return chain, nil
}

func (f *GatewayFetcher) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func parseOptionType(s string) (model.OptionType, error) {
	switch s {
	case "CE", "CALL", "call", "C":
		return model.OptionCall, nil
	case "PE", "PUT", "put", "P":
		return model.OptionPut, nil
	}
	return "", fmt.Errorf("unknown option type %q", s)
}
