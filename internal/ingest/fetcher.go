package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the published archive location.
const DefaultBaseURL = "https://www.cftc.gov/files/dea/history"

// firstReportYear is the first year the disaggregated report exists for.
const firstReportYear = 2006

// ArchiveFetcher downloads the compressed yearly report archive.
type ArchiveFetcher interface {
	Fetch(ctx context.Context, year int) ([]byte, error)
}

// Fetcher implements ArchiveFetcher over HTTP. It never retries on its own
// (retry policy belongs to the scheduler) but does trip a circuit breaker
// on repeated failures and paces requests with a client-side limiter.
// Cancellation and deadlines come from the caller's context.
type Fetcher struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	baseURL string
}

// NewFetcher creates a fetcher against baseURL (DefaultBaseURL when empty).
func NewFetcher(baseURL string) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	settings := gobreaker.Settings{
		Name:    "report-archive",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("archive fetch circuit state changed")
		},
	}

	return &Fetcher{
		client:  resty.New().SetRetryCount(0).SetHeader("User-Agent", "cotscan/1.0"),
		breaker: gobreaker.NewCircuitBreaker(settings),
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		baseURL: baseURL,
	}
}

// Fetch downloads the archive for one report year.
func (f *Fetcher) Fetch(ctx context.Context, year int) ([]byte, error) {
	url := fmt.Sprintf("%s/fut_disagg_txt_%d.zip", f.baseURL, year)

	if year < firstReportYear || year > time.Now().Year() {
		return nil, &AcquisitionError{URL: url, Year: year, Err: ErrYearOutOfRange}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, &AcquisitionError{URL: url, Year: year, Err: err}
	}

	body, err := f.breaker.Execute(func() (interface{}, error) {
		resp, err := f.client.R().SetContext(ctx).Get(url)
		if err != nil {
			return nil, err
		}
		if !resp.IsSuccess() {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
		}
		b := resp.Body()
		if len(b) == 0 {
			return nil, fmt.Errorf("empty response body")
		}
		return b, nil
	})
	if err != nil {
		return nil, &AcquisitionError{URL: url, Year: year, Err: err}
	}

	archive := body.([]byte)
	log.Debug().Int("year", year).Int("bytes", len(archive)).Msg("report archive downloaded")
	return archive, nil
}
