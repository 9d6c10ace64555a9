package manager

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/kasuboski/snatcher/pkg/download"
	mhttp "github.com/kasuboski/snatcher/pkg/http"
	"github.com/kasuboski/snatcher/pkg/storage"
)

// maxFetchSize bounds nzb and torrent files read into memory
const maxFetchSize = 32 << 20

// NewURLFetch downloads the file behind a release url so downloaders that cannot reach the
// provider still receive it. Magnet links are passed through untouched. A provider answering
// 404 or 410 means the release is gone and the next one should be tried.
func NewURLFetch(client mhttp.HTTPClient) Fetch {
	return func(ctx context.Context, info storage.ReleaseInfo) ([]byte, error) {
		if info.Protocol() == download.ProtocolTorrentMagnet || info.URL() == "" {
			return nil, nil
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, info.URL(), nil)
		if err != nil {
			return nil, err
		}

		res, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		switch {
		case res.StatusCode == http.StatusNotFound || res.StatusCode == http.StatusGone:
			return nil, ErrTryNext
		case res.StatusCode != http.StatusOK:
			return nil, fmt.Errorf("unexpected status fetching %s: %s", info.Name(), res.Status)
		}

		return io.ReadAll(io.LimitReader(res.Body, maxFetchSize))
	}
}
