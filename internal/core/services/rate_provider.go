package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portssvc "github.com/SscSPs/reverse_auction_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// DefaultNBPURL is the table-A endpoint of the National Bank of Poland.
const DefaultNBPURL = "http://api.nbp.pl/api/exchangerates/rates/a/"

const rateLookupTimeout = time.Second

// nbpRateProvider asks the central bank for mid rates and falls back to fixed defaults.
type nbpRateProvider struct {
	BaseService
	baseURL  string
	client   *http.Client
	fallback domain.Rates
}

// NewNBPRateProvider creates a RateProvider. An empty baseURL disables lookups so
// that only the fallback rates are suggested.
func NewNBPRateProvider(baseURL string, fallback domain.Rates) portssvc.RateProvider {
	return &nbpRateProvider{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: rateLookupTimeout},
		fallback: fallback,
	}
}

type nbpRateResponse struct {
	Rates []struct {
		Mid decimal.Decimal `json:"mid"`
	} `json:"rates"`
}

func (p *nbpRateProvider) SuggestRates(ctx context.Context) domain.Rates {
	return domain.Rates{
		EURRate: p.midRate(ctx, "eur", p.fallback.EURRate),
		USDRate: p.midRate(ctx, "usd", p.fallback.USDRate),
	}
}

func (p *nbpRateProvider) midRate(ctx context.Context, code string, fallback decimal.Decimal) decimal.Decimal {
	if p.baseURL == "" {
		return fallback
	}
	rate, err := p.fetch(ctx, code)
	if err != nil {
		p.LogDebug(ctx, "Live rate unavailable, using fallback", slog.String("currency", code), slog.String("error", err.Error()))
		return fallback
	}
	return rate
}

func (p *nbpRateProvider) fetch(ctx context.Context, code string) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, rateLookupTimeout)
	defer cancel()

	url := strings.TrimRight(p.baseURL, "/") + "/" + code + "/?format=json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rate lookup for %s returned %s", code, resp.Status)
	}

	var body nbpRateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, err
	}
	if len(body.Rates) == 0 || !body.Rates[0].Mid.IsPositive() {
		return decimal.Zero, fmt.Errorf("rate lookup for %s returned no usable rate", code)
	}
	return body.Rates[0].Mid.Round(4), nil
}
