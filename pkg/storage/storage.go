package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kasuboski/snatcher/pkg/machine"
	"github.com/kasuboski/snatcher/pkg/storage/sqlite/schema/gen/model"
)

var (
	ErrNotFound      = errors.New("not found in storage")
	ErrMalformedInfo = errors.New("release info is malformed")
)

type Storage interface {
	RunMigrations(ctx context.Context) error
	Close() error
	MediaStorage
	QualityStorage
	ReleaseStorage
}

type MediaStatus string

const (
	MediaStatusActive MediaStatus = "active"
	MediaStatusDone   MediaStatus = "done"
)

type MediaStorage interface {
	CreateMedia(ctx context.Context, media model.Media) (int64, error)
	GetMedia(ctx context.Context, id int64) (*model.Media, error)
	GetMediaByIdentifier(ctx context.Context, identifier string) (*model.Media, error)
	ListMediaByStatus(ctx context.Context, status MediaStatus) ([]*model.Media, error)
	UpdateMediaStatus(ctx context.Context, id int64, status MediaStatus) error
	DeleteMedia(ctx context.Context, id int64) error
}

// QualityProfile is an ordered list of quality targets for a media item
type QualityProfile struct {
	model.QualityProfile
	Items []model.QualityProfileItem `json:"items"`
}

// Item returns the profile item targeting the given quality
func (p QualityProfile) Item(quality string) (model.QualityProfileItem, bool) {
	for _, item := range p.Items {
		if item.Quality == quality {
			return item, true
		}
	}

	return model.QualityProfileItem{}, false
}

type QualityStorage interface {
	CreateQualityProfile(ctx context.Context, profile model.QualityProfile) (int64, error)
	CreateQualityProfileItem(ctx context.Context, item model.QualityProfileItem) (int64, error)
	GetQualityProfile(ctx context.Context, id int64) (QualityProfile, error)
}

type ReleaseStatus string

const (
	ReleaseStatusNew        ReleaseStatus = ""
	ReleaseStatusAvailable  ReleaseStatus = "available"
	ReleaseStatusSnatched   ReleaseStatus = "snatched"
	ReleaseStatusSeeding    ReleaseStatus = "seeding"
	ReleaseStatusMissing    ReleaseStatus = "missing"
	ReleaseStatusFailed     ReleaseStatus = "failed"
	ReleaseStatusDownloaded ReleaseStatus = "downloaded"
	ReleaseStatusDone       ReleaseStatus = "done"
	ReleaseStatusIgnored    ReleaseStatus = "ignored"
)

// InFlightStatuses are the statuses the reconcile loop checks against download clients
var InFlightStatuses = []ReleaseStatus{ReleaseStatusSnatched, ReleaseStatusSeeding, ReleaseStatusMissing}

type Release struct {
	model.Release
	Status ReleaseStatus `alias:"release_transition.to_state" json:"status"`
}

type ReleaseTransition model.ReleaseTransition

func (r Release) Machine() *machine.StateMachine[ReleaseStatus] {
	return machine.New(r.Status,
		machine.From(ReleaseStatusNew).To(ReleaseStatusAvailable, ReleaseStatusSnatched, ReleaseStatusDone, ReleaseStatusIgnored),
		// downloaded straight from available when nothing organizes the snatch
		machine.From(ReleaseStatusAvailable).To(ReleaseStatusSnatched, ReleaseStatusDownloaded, ReleaseStatusFailed, ReleaseStatusIgnored, ReleaseStatusDone),
		machine.From(ReleaseStatusSnatched).To(ReleaseStatusSeeding, ReleaseStatusMissing, ReleaseStatusFailed, ReleaseStatusDownloaded, ReleaseStatusIgnored, ReleaseStatusDone),
		machine.From(ReleaseStatusSeeding).To(ReleaseStatusSnatched, ReleaseStatusMissing, ReleaseStatusFailed, ReleaseStatusDownloaded, ReleaseStatusIgnored, ReleaseStatusDone),
		machine.From(ReleaseStatusMissing).To(ReleaseStatusSnatched, ReleaseStatusSeeding, ReleaseStatusFailed, ReleaseStatusDownloaded, ReleaseStatusIgnored, ReleaseStatusDone),
		machine.From(ReleaseStatusDownloaded).To(ReleaseStatusDone, ReleaseStatusIgnored),
		machine.From(ReleaseStatusFailed).To(ReleaseStatusAvailable, ReleaseStatusSnatched, ReleaseStatusIgnored, ReleaseStatusDone),
		machine.From(ReleaseStatusIgnored).To(ReleaseStatusAvailable, ReleaseStatusDone),
	)
}

// ParsedInfo decodes the stored info column. A missing column or anything other than a
// json object of strings is reported as ErrMalformedInfo.
func (r Release) ParsedInfo() (ReleaseInfo, error) {
	return ParseReleaseInfo(r.Info)
}

// FileList decodes the stored files column
func (r Release) FileList() ([]string, error) {
	if r.Files == nil || *r.Files == "" {
		return nil, nil
	}

	var files []string
	if err := json.Unmarshal([]byte(*r.Files), &files); err != nil {
		return nil, fmt.Errorf("failed to decode release files: %w", err)
	}

	return files, nil
}

type ReleaseStorage interface {
	CreateRelease(ctx context.Context, release Release, initialStatus ReleaseStatus) (int64, error)
	GetRelease(ctx context.Context, id int64) (*Release, error)
	GetReleaseByIdentifier(ctx context.Context, identifier string) (*Release, error)
	ListReleasesByMedia(ctx context.Context, mediaID int64) ([]*Release, error)
	ListReleasesByStatus(ctx context.Context, statuses ...ReleaseStatus) ([]*Release, error)
	ListReleaseTransitions(ctx context.Context, id int64) ([]*ReleaseTransition, error)
	UpdateRelease(ctx context.Context, release model.Release) error
	UpdateReleaseStatus(ctx context.Context, id int64, status ReleaseStatus, at time.Time) error
	DeleteRelease(ctx context.Context, id int64) error
}

// Well known info keys
const (
	InfoName       = "name"
	InfoURL        = "url"
	InfoProtocol   = "protocol"
	InfoProvider   = "provider"
	InfoScore      = "score"
	InfoAge        = "age"
	InfoSize       = "size"
	InfoDownloadID = "download_id"
	InfoDownloader = "download_downloader"
)

// ReleaseInfo is the free form metadata stored with a release
type ReleaseInfo map[string]string

func ParseReleaseInfo(raw *string) (ReleaseInfo, error) {
	if raw == nil || *raw == "" {
		return nil, ErrMalformedInfo
	}

	var info ReleaseInfo
	if err := json.Unmarshal([]byte(*raw), &info); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInfo, err)
	}

	if info == nil {
		return nil, ErrMalformedInfo
	}

	return info, nil
}

// Encode returns the json form stored in the info column
func (i ReleaseInfo) Encode() (*string, error) {
	b, err := json.Marshal(i)
	if err != nil {
		return nil, err
	}

	s := string(b)
	return &s, nil
}

func (i ReleaseInfo) Name() string       { return i[InfoName] }
func (i ReleaseInfo) URL() string        { return i[InfoURL] }
func (i ReleaseInfo) Protocol() string   { return i[InfoProtocol] }
func (i ReleaseInfo) DownloadID() string { return i[InfoDownloadID] }
func (i ReleaseInfo) Downloader() string { return i[InfoDownloader] }

// Score returns the provider score, zero when absent or unparsable
func (i ReleaseInfo) Score() float64 {
	score, err := strconv.ParseFloat(i[InfoScore], 64)
	if err != nil {
		return 0
	}
	return score
}

// Age returns the release age in days
func (i ReleaseInfo) Age() int {
	age, err := strconv.Atoi(i[InfoAge])
	if err != nil {
		return 0
	}
	return age
}

// Size returns the release size in bytes. Providers report it in megabytes.
func (i ReleaseInfo) Size() uint64 {
	size, err := strconv.ParseFloat(i[InfoSize], 64)
	if err != nil || size < 0 {
		return 0
	}
	return uint64(size * 1024 * 1024)
}

// EncodeFiles returns the json form stored in the files column
func EncodeFiles(files []string) (*string, error) {
	if files == nil {
		files = []string{}
	}

	b, err := json.Marshal(files)
	if err != nil {
		return nil, err
	}

	s := string(b)
	return &s, nil
}
