package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/phuslu/log"

	"github.com/gaurav-prasanna/opuspipe/core/opus"
)

const (
	// DefaultBaseURL is the Bilibili web API host.
	DefaultBaseURL = "https://api.bilibili.com"
	detailPath     = "/x/polymer/web-dynamic/v1/opus/detail"
	detailFeatures = "onlyfansVote,onlyfansAssetsV2,decorationCard,htmlNewStyle,ugcDelete,editable,opusPrivateVisible,tribeeEdit,avatarAutoTheme,avatarTypeOpus"
)

// OpusFetcher retrieves opus details from the web API.
type OpusFetcher struct {
	client   *Client
	endpoint string
	logger   *log.Logger
}

// NewOpusFetcher creates an OpusFetcher. An empty baseURL selects
// DefaultBaseURL; a nil logger selects log.DefaultLogger.
func NewOpusFetcher(client *Client, baseURL string, logger *log.Logger) *OpusFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	endpoint := strings.TrimRight(baseURL, "/") + detailPath
	if logger == nil {
		logger = &log.DefaultLogger
	}
	return &OpusFetcher{client: client, endpoint: endpoint, logger: logger}
}

// DetailURL returns the request URL for id.
func (f *OpusFetcher) DetailURL(id string) string {
	q := url.Values{}
	q.Set("id", id)
	q.Set("features", detailFeatures)
	return f.endpoint + "?" + q.Encode()
}

// Fetch retrieves the detail of opus id. A non-zero API code is returned
// as *opus.APIError.
func (f *OpusFetcher) Fetch(ctx context.Context, id string) (*opus.Detail, error) {
	target := f.DetailURL(id)
	f.logger.Debug().Str("id", id).Str("url", target).Msg("fetching opus detail")

	var resp opus.Response[opus.Detail]
	if err := f.client.Get(ctx, target, &resp); err != nil {
		return nil, fmt.Errorf("opus %s: %w", id, err)
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return &opus.Detail{}, nil
	}

	f.logger.Debug().Str("id", id).Int("modules", len(resp.Data.Item.Modules)).Msg("fetched opus detail")
	return resp.Data, nil
}
