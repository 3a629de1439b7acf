package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalDesk/internal/model"
)

func TestYahooFetcher_ParsesChart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/INFY.NS", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		fmt.Fprint(w, `{"chart":{"result":[{"timestamp":[1741000000,1741086400,1741172800],
			"indicators":{"quote":[{"open":[100,null,102],"high":[101,null,104],
			"low":[99,null,101],"close":[100.5,null,103],"volume":[1000,null,1500]}]}}],"error":null}}`)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL

	bars, err := f.FetchDailyBars(context.Background(), "infy", 30)
	require.NoError(t, err)
	require.Len(t, bars, 2, "null session must be skipped")
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 103.0, bars[1].Close)
	assert.True(t, bars[0].Time.Before(bars[1].Time))
}

func TestYahooFetcher_IndexMapping(t *testing.T) {
	f := NewYahooFetcher("")
	assert.Equal(t, "^NSEI", f.yahooSymbol("nifty"))
	assert.Equal(t, "TCS.NS", f.yahooSymbol("TCS"))
}

func TestYahooFetcher_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyBars(context.Background(), "INFY", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGatewayFetcher_BarsAndChain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/v1/bars/daily":
			assert.Equal(t, "INFY", r.URL.Query().Get("symbol"))
			fmt.Fprint(w, `[{"timestamp":1741086400,"open":2,"high":3,"low":1,"close":2.5,"volume":10},
				{"timestamp":1741000000,"open":1,"high":2,"low":0.5,"close":1.5,"volume":5}]`)
		case "/api/v1/options/chain":
			fmt.Fprint(w, `{"expiry":"2025-04-24","contracts":[
				{"strike":1650,"type":"CE","last_price":40,"iv":22,"oi":12000,"volume":900},
				{"strike":1650,"type":"PE","last_price":35,"iv":24,"oi":8000,"volume":700}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewGatewayFetcher(srv.URL, "secret", "")

	bars, err := f.FetchDailyBars(context.Background(), "INFY", 2)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 1.5, bars[0].Close, "bars must be sorted oldest first")

	chain, err := f.FetchChain(context.Background(), "INFY")
	require.NoError(t, err)
	require.Len(t, chain.Contracts, 2)
	assert.Equal(t, model.OptionCall, chain.Contracts[0].Type)
	assert.Equal(t, model.OptionPut, chain.Contracts[1].Type)
	assert.Equal(t, time.Date(2025, 4, 24, 0, 0, 0, 0, time.UTC), chain.Contracts[0].Expiry)
}

func TestFileChainSource(t *testing.T) {
	dir := t.TempDir()
	body := `{"expiry":"2025-04-24T00:00:00Z","contracts":[{"strike":1650,"type":"CE","last_price":40}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "INFY.json"), []byte(body), 0o644))

	src := &FileChainSource{Dir: dir}
	chain, err := src.FetchChain(context.Background(), "infy")
	require.NoError(t, err)
	assert.Equal(t, "infy", chain.Underlying)
	require.Len(t, chain.Contracts, 1)
	assert.Equal(t, chain.Expiry, chain.Contracts[0].Expiry)

	_, err = src.FetchChain(context.Background(), "TCS")
	assert.ErrorIs(t, err, ErrNoChain)
}

func TestEarningsCalendar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "earnings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("earnings:\n  infy: [2025-01-16, 2025-04-17]\n"), 0o644))

	cal, err := LoadEarningsCalendar(path)
	require.NoError(t, err)

	from := time.Date(2025, 4, 10, 15, 0, 0, 0, time.UTC)
	next, ok := cal.NextEarnings("INFY", from)
	require.True(t, ok)
	assert.Equal(t, 7, DaysUntil(from, next))

	_, ok = cal.NextEarnings("INFY", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)

	empty, err := LoadEarningsCalendar(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	_, ok = empty.NextEarnings("INFY", from)
	assert.False(t, ok)
}

type staticCalendar struct{ at time.Time }

func (c staticCalendar) NextEarnings(string, time.Time) (time.Time, bool) { return c.at, true }

type failingChains struct{}

func (failingChains) FetchChain(context.Context, string) (*model.ChainSnapshot, error) {
	return nil, errors.New("gateway timeout")
}

func TestCollector_GatherFallsBack(t *testing.T) {
	now := time.Date(2025, 4, 10, 10, 0, 0, 0, time.UTC)
	c := &Collector{
		Fetcher:  &MockFetcher{Err: errors.New("primary down")},
		Fallback: &MockFetcher{Price: 1600},
		Chains:   failingChains{},
		Calendar: staticCalendar{at: now.AddDate(0, 0, 5)},
		Days:     60,
	}

	g, err := c.Gather(context.Background(), " infy ", now)
	require.NoError(t, err)
	assert.Equal(t, "INFY", g.Series.Symbol)
	assert.Len(t, g.Series.Bars, 60)
	assert.NoError(t, g.Series.Validate())
	assert.Nil(t, g.Chain, "chain failure degrades to absent")
	require.NotNil(t, g.DaysToEarnings)
	assert.Equal(t, 5, *g.DaysToEarnings)
}

func TestCollector_GatherFailsWithoutHistory(t *testing.T) {
	c := NewCollector(&MockFetcher{Err: errors.New("down")}, 60)
	_, err := c.Gather(context.Background(), "INFY", time.Now())
	assert.Error(t, err)
}
