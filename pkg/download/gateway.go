package download

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/kasuboski/snatcher/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=gateway.go -destination=mocks/mock_gateway.go -package=mocks Gateway

// Gateway is the single entry point to every configured download client
type Gateway interface {
	// Enabled reports whether any downloader accepts the protocol. Downloaders marked
	// manual only count when manual is set.
	Enabled(protocol string, manual bool) bool
	Submit(ctx context.Context, request SubmitRequest) (*Result, error)
	// Status polls every enabled downloader. A nil slice means no downloader answered. When only
	// some answered their records come with an *UnreachableError naming the others.
	Status(ctx context.Context, refs []Ref) ([]Record, error)
	Pause(ctx context.Context, record Record, pause bool) error
	RemoveFailed(ctx context.Context, record Record) error
	ProcessComplete(ctx context.Context, record Record) error
}

type SubmitRequest struct {
	Protocol string
	Manual   bool
	AddRequest
}

// Result identifies a submitted transfer. Metadata is stored on the release prefixed with download_.
type Result struct {
	Downloader string
	ID         string
	Metadata   map[string]string
}

// Ref points at a transfer previously returned by Submit
type Ref struct {
	ID         string
	Downloader string
}

// Record is a Status tagged with the downloader that reported it
type Record struct {
	Status
	Downloader string `json:"downloader"`
}

// Downloader is a configured client together with how the gateway may use it
type Downloader struct {
	Client         Client
	Enabled        bool
	Manual         bool
	DeleteFailed   bool
	RemoveComplete bool
	DeleteFiles    bool
}

func (d Downloader) accepts(protocol string, manual bool) bool {
	if !d.Enabled || (d.Manual && !manual) {
		return false
	}

	return slices.Contains(d.Client.Protocols(), protocol)
}

// UnreachableError names the downloaders that could not be polled
type UnreachableError struct {
	Downloaders map[string]error
}

func (e *UnreachableError) Error() string {
	names := slices.Sorted(maps.Keys(e.Downloaders))
	return fmt.Sprintf("downloaders did not answer: %s", strings.Join(names, ", "))
}

func (e *UnreachableError) Unwrap() []error {
	errs := make([]error, 0, len(e.Downloaders))
	for _, name := range slices.Sorted(maps.Keys(e.Downloaders)) {
		errs = append(errs, e.Downloaders[name])
	}
	return errs
}

// Unreachable reports whether the named downloader failed to answer
func (e *UnreachableError) Unreachable(name string) bool {
	if e == nil {
		return false
	}
	_, ok := e.Downloaders[name]
	return ok
}

var _ Gateway = (*ClientGateway)(nil)

type ClientGateway struct {
	downloaders []Downloader
	maxParallel int
}

func NewGateway(downloaders ...Downloader) *ClientGateway {
	return &ClientGateway{
		downloaders: downloaders,
		maxParallel: 4,
	}
}

func (g *ClientGateway) Enabled(protocol string, manual bool) bool {
	for _, d := range g.downloaders {
		if d.accepts(protocol, manual) {
			return true
		}
	}

	return false
}

// Submit hands the request to the first downloader accepting it
func (g *ClientGateway) Submit(ctx context.Context, request SubmitRequest) (*Result, error) {
	for _, d := range g.downloaders {
		if !d.accepts(request.Protocol, request.Manual) {
			continue
		}

		name := d.Client.Name()
		log := logger.FromCtx(ctx).With("downloader", name)

		id, err := d.Client.Add(ctx, request.AddRequest)
		if err != nil {
			return nil, fmt.Errorf("failed to add %q to %s: %w", request.Name, name, err)
		}

		log.Infow("sent release to downloader", "release", request.Name, "id", id)

		return &Result{
			Downloader: name,
			ID:         id,
			Metadata: map[string]string{
				"id":         id,
				"downloader": name,
			},
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNoDownloader, request.Protocol)
}

func (g *ClientGateway) Status(ctx context.Context, refs []Ref) ([]Record, error) {
	log := logger.FromCtx(ctx)

	var (
		mu          sync.Mutex
		records     []Record
		answered    bool
		unreachable = make(map[string]error)
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.maxParallel)

	for _, d := range g.downloaders {
		if !d.Enabled {
			continue
		}

		name := d.Client.Name()
		ids := make([]string, 0)
		for _, ref := range refs {
			if ref.Downloader == name {
				ids = append(ids, ref.ID)
			}
		}

		group.Go(func() error {
			statuses, err := d.Client.List(groupCtx, ids...)
			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				// one unreachable downloader must not hide the others
				log.Warnw("failed to get download status", "downloader", name, zap.Error(err))
				unreachable[name] = err
				return nil
			}

			answered = true
			for _, s := range statuses {
				records = append(records, Record{Status: s, Downloader: name})
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !answered {
		return nil, nil
	}

	if records == nil {
		records = make([]Record, 0)
	}

	if len(unreachable) > 0 {
		return records, &UnreachableError{Downloaders: unreachable}
	}

	return records, nil
}

func (g *ClientGateway) Pause(ctx context.Context, record Record, pause bool) error {
	d, err := g.downloader(record.Downloader)
	if err != nil {
		return err
	}

	return d.Client.Pause(ctx, record.ID, pause)
}

// RemoveFailed removes a failed transfer and its files when the downloader is set to delete failed downloads
func (g *ClientGateway) RemoveFailed(ctx context.Context, record Record) error {
	d, err := g.downloader(record.Downloader)
	if err != nil {
		return err
	}

	if !d.DeleteFailed {
		return nil
	}

	return d.Client.Remove(ctx, record.ID, true)
}

// ProcessComplete lets the downloader forget a transfer the organizer handled
func (g *ClientGateway) ProcessComplete(ctx context.Context, record Record) error {
	d, err := g.downloader(record.Downloader)
	if err != nil {
		return err
	}

	if !d.RemoveComplete {
		return nil
	}

	return d.Client.Remove(ctx, record.ID, d.DeleteFiles)
}

func (g *ClientGateway) downloader(name string) (Downloader, error) {
	for _, d := range g.downloaders {
		if d.Client.Name() == name {
			return d, nil
		}
	}

	return Downloader{}, fmt.Errorf("%w: %q", ErrNoDownloader, name)
}
