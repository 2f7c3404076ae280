// Package postal resolves Japanese postal codes to addresses through a
// zipcloud-compatible search API.
package postal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gdg-garage/meibo/internal/format"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidCode  = errors.New("postal code must be NNN-NNNN")
	ErrLookupFailed = errors.New("postal lookup failed")
)

var codePattern = regexp.MustCompile(`^\d{3}-\d{4}$`)

type searchResponse struct {
	Status  int     `json:"status"`
	Message *string `json:"message"`
	Results []struct {
		Address1 string `json:"address1"`
		Address2 string `json:"address2"`
		Address3 string `json:"address3"`
		Kana1    string `json:"kana1"`
		Kana2    string `json:"kana2"`
		Kana3    string `json:"kana3"`
		Zipcode  string `json:"zipcode"`
	} `json:"results"`
}

type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
	group      singleflight.Group
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		logger:     logger,
	}
}

// Lookup returns the prefecture, city and town of a postal code joined
// together. The code is normalised first, so "1000001" and "100-0001" are
// the same query. Concurrent lookups of one code share a single request,
// which keeps running when the caller that started it goes away.
func (c *Client) Lookup(ctx context.Context, code string) (string, error) {
	code = format.JPZip(code)
	if !codePattern.MatchString(code) {
		return "", ErrInvalidCode
	}
	key := strings.ReplaceAll(code, "-", "")

	// The shared call outlives any one caller; the client timeout bounds it.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.search(shared, key)
	})
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrLookupFailed, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *Client) search(ctx context.Context, zipcode string) (string, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("zipcode", zipcode).
		Get("/search")
	if err != nil {
		c.logger.Warn("postal API call failed", zap.String("zipcode", zipcode), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	if resp.StatusCode() != http.StatusOK {
		c.logger.Warn("postal API returned error",
			zap.String("zipcode", zipcode),
			zap.Int("status_code", resp.StatusCode()),
		)
		return "", fmt.Errorf("%w: HTTP %d", ErrLookupFailed, resp.StatusCode())
	}

	// zipcloud answers text/plain, so the body is decoded by hand.
	var body searchResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		c.logger.Warn("postal API response is not JSON", zap.String("zipcode", zipcode), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	if body.Status != 0 && body.Status != http.StatusOK {
		msg := ""
		if body.Message != nil {
			msg = *body.Message
		}
		c.logger.Warn("postal API rejected query",
			zap.String("zipcode", zipcode),
			zap.Int("status", body.Status),
			zap.String("msg", msg),
		)
		return "", fmt.Errorf("%w: %s", ErrLookupFailed, msg)
	}
	if len(body.Results) == 0 {
		c.logger.Info("postal code has no address", zap.String("zipcode", zipcode))
		return "", fmt.Errorf("%w: no address for %s", ErrLookupFailed, zipcode)
	}

	r := body.Results[0]
	return r.Address1 + r.Address2 + r.Address3, nil
}
