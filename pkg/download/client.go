package download

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kasuboski/snatcher/pkg/http"
)

//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks Client

const (
	ProtocolNZB           = "nzb"
	ProtocolTorrent       = "torrent"
	ProtocolTorrentMagnet = "torrent_magnet"
)

var (
	ErrNoDownloader = errors.New("no downloader available")
	ErrNoID         = errors.New("download client returned no id")
)

// State is the normalized state a download client reports for a transfer
type State string

const (
	StateBusy      State = "busy"
	StateSeeding   State = "seeding"
	StateFailed    State = "failed"
	StateCompleted State = "completed"
)

// Status is a transfer as reported by a single download client
type Status struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	State     State         `json:"status"`
	Folder    string        `json:"folder"`
	Files     []string      `json:"files"`
	TimeLeft  time.Duration `json:"timeleft"`
	SeedRatio float64       `json:"seedRatio"`
	Progress  float64       `json:"progress"`
	Size      int64         `json:"size"`
}

// AddRequest hands a release to a download client. Data is a fetched nzb or torrent file and
// takes precedence over URL when present.
type AddRequest struct {
	Name string
	URL  string
	Data []byte
}

type Client interface {
	Name() string
	Protocols() []string
	Add(ctx context.Context, request AddRequest) (string, error)
	// List returns transfers with the given ids, or every transfer when no id is given
	List(ctx context.Context, ids ...string) ([]Status, error)
	Pause(ctx context.Context, id string, pause bool) error
	Remove(ctx context.Context, id string, deleteFiles bool) error
}

// ClientConfig describes one configured download client
type ClientConfig struct {
	Name           string
	Implementation string
	Scheme         string
	Host           string
	Port           int
	APIKey         string
	Category       string
	DownloadDir    string
	MountPrefix    string
}

// NewClient builds the client for the configured implementation
func NewClient(config ClientConfig, httpClient http.HTTPClient) (Client, error) {
	host := config.Host
	if config.Port != 0 {
		host = fmt.Sprintf("%s:%d", host, config.Port)
	}

	name := config.Name
	if name == "" {
		name = config.Implementation
	}

	switch config.Implementation {
	case "sabnzbd":
		return NewSabnzbdClient(httpClient, name, config.Scheme, host, config.APIKey, config.Category), nil
	case "transmission":
		return NewTransmissionClient(httpClient, name, config.Scheme, host, config.DownloadDir, config.MountPrefix), nil
	default:
		return nil, fmt.Errorf("unknown download client implementation: %v", config.Implementation)
	}
}

func filterByID(statuses []Status, ids []string) []Status {
	if len(ids) == 0 {
		return statuses
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	filtered := make([]Status, 0, len(ids))
	for _, s := range statuses {
		if _, ok := wanted[s.ID]; ok {
			filtered = append(filtered, s)
		}
	}

	return filtered
}
