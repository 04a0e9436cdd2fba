package discovery

import (
	"context"
	"time"
)

// DefaultScanTimeout is the default duration of a one-off scan
const DefaultScanTimeout = 5 * time.Second

// Scan runs d for timeout and returns the distinct advertisements heard,
// in arrival order. Used for a quick listing without querying devices.
func Scan(ctx context.Context, d Discoverer, timeout time.Duration) ([]Advertisement, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	responses := make(chan Response)
	errc := make(chan error, 1)
	go func() {
		errc <- d.Discover(ctx, responses)
	}()

	seen := make(map[Advertisement]bool)
	var ads []Advertisement
	for {
		select {
		case resp := <-responses:
			for _, a := range resp.Answers {
				ad, ok := Match(resp.Address, a)
				if !ok || seen[ad] {
					continue
				}
				seen[ad] = true
				ads = append(ads, ad)
			}
		case err := <-errc:
			return ads, err
		}
	}
}
