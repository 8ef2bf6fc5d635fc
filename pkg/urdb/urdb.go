package urdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/rateexplorer/pkg/common"
	"github.com/raterudder/rateexplorer/pkg/log"
	"github.com/raterudder/rateexplorer/pkg/types"
)

// pageLimit is the most items the API returns per request.
const pageLimit = 500

// Client fetches residential rate plans from the OpenEI Utility Rate
// Database.
type Client struct {
	apiURL string
	apiKey string
	client *http.Client
}

// Configured sets up flags for the URDB client and returns the instance.
func Configured() *Client {
	c := &Client{
		client: common.HTTPClient(30 * time.Second),
	}
	apiURL := lflag.String("urdb-api-url", "https://api.openei.org/utility_rates", "URL for the OpenEI Utility Rate Database API")
	apiKey := lflag.String("urdb-api-key", "", "API key for the OpenEI Utility Rate Database")

	lflag.Do(func() {
		c.apiURL = *apiURL
		c.apiKey = *apiKey
	})

	return c
}

// NewClient returns a Client for the given API url and key.
func NewClient(apiURL, apiKey string, client *http.Client) *Client {
	if client == nil {
		client = common.HTTPClient(30 * time.Second)
	}
	return &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		client: client,
	}
}

// Validate ensures the configuration is valid.
func (c *Client) Validate() error {
	if c.apiURL == "" {
		return fmt.Errorf("urdb-api-url is required")
	}
	if _, err := url.Parse(c.apiURL); err != nil {
		return fmt.Errorf("failed to parse urdb url (%s): %w", c.apiURL, err)
	}
	return nil
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiResponse struct {
	Items []Rate    `json:"items"`
	Error *apiError `json:"error"`
}

// FetchRates returns every residential plan published by the utility with
// the given EIA id. Records that fail validation are logged and skipped.
func (c *Client) FetchRates(ctx context.Context, eiaid int64) ([]*types.RatePlan, error) {
	ctx = log.WithAttrs(ctx, slog.Int64("eiaid", eiaid))

	var plans []*types.RatePlan
	for offset := 0; ; offset += pageLimit {
		items, err := c.fetchPage(ctx, eiaid, offset)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			plan, err := ConvertRate(item)
			if err != nil {
				log.Ctx(ctx).WarnContext(
					ctx,
					"skipping invalid urdb rate",
					slog.String("label", item.Label),
					slog.Any("error", err),
				)
				continue
			}
			plans = append(plans, plan)
		}
		if len(items) < pageLimit {
			break
		}
	}

	log.Ctx(ctx).DebugContext(ctx, "fetched urdb rates", slog.Int("count", len(plans)))
	return plans, nil
}

func (c *Client) fetchPage(ctx context.Context, eiaid int64, offset int) ([]Rate, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}

	params := url.Values{}
	params.Set("version", "7")
	params.Set("format", "json")
	params.Set("detail", "full")
	params.Set("sector", "Residential")
	params.Set("eia", strconv.FormatInt(eiaid, 10))
	params.Set("limit", strconv.Itoa(pageLimit))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("api_key", c.apiKey)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	log.Ctx(ctx).DebugContext(ctx, "fetching rates from urdb", slog.Int("offset", offset))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("urdb api returned status: %d", resp.StatusCode)
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if data.Error != nil {
		return nil, fmt.Errorf("urdb api error (%s): %s", data.Error.Code, data.Error.Message)
	}
	return data.Items, nil
}
