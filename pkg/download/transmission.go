package download

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	snatcherhttp "github.com/kasuboski/snatcher/pkg/http"
	"github.com/kasuboski/snatcher/pkg/logger"
)

var _ Client = (*TransmissionClient)(nil)

const sessionHeader = "X-Transmission-Session-Id"

type torrentMethod string

const (
	addTorrentMethod    torrentMethod = "torrent-add"
	getTorrentMethod    torrentMethod = "torrent-get"
	stopTorrentMethod   torrentMethod = "torrent-stop"
	startTorrentMethod  torrentMethod = "torrent-start"
	removeTorrentMethod torrentMethod = "torrent-remove"
)

// transmission rpc torrent status codes
const (
	torrentStopped   = 0
	torrentSeedWait  = 5
	torrentSeeding   = 6
	torrentNoError   = 0
	resultSuccess    = "success"
	transmissionPath = "/transmission/rpc"
)

var torrentFields = []string{
	"id",
	"hashString",
	"name",
	"status",
	"error",
	"errorString",
	"percentDone",
	"isFinished",
	"eta",
	"downloadDir",
	"uploadRatio",
	"totalSize",
	"files",
}

type TransmissionClient struct {
	http        snatcherhttp.HTTPClient
	name        string
	scheme      string
	host        string
	downloadDir string
	mountPrefix string

	mu      sync.Mutex
	session string
}

func NewTransmissionClient(http snatcherhttp.HTTPClient, name, scheme, host, downloadDir, mountPrefix string) *TransmissionClient {
	return &TransmissionClient{
		http:        http,
		name:        name,
		scheme:      scheme,
		host:        host,
		downloadDir: downloadDir,
		mountPrefix: mountPrefix,
	}
}

func (c *TransmissionClient) Name() string {
	return c.name
}

func (c *TransmissionClient) Protocols() []string {
	return []string{ProtocolTorrent, ProtocolTorrentMagnet}
}

type TransmissionRequest struct {
	Arguments any           `json:"arguments"`
	Method    torrentMethod `json:"method"`
}

type TransmissionResponse struct {
	Arguments json.RawMessage `json:"arguments"`
	Result    string          `json:"result"`
}

type AddTorrentPayload struct {
	DownloadDir string `json:"download-dir,omitempty"`
	Filename    string `json:"filename,omitempty"`
	MetaInfo    string `json:"metainfo,omitempty"`
	Paused      bool   `json:"paused"`
}

type AddTorrentResponse struct {
	TorrentAdded     *AddedTorrent `json:"torrent-added"`
	TorrentDuplicate *AddedTorrent `json:"torrent-duplicate"`
}

type AddedTorrent struct {
	HashString string `json:"hashString"`
	Name       string `json:"name"`
	ID         int    `json:"id"`
}

// Add starts a torrent and returns its info hash, which is stable across transmission restarts
func (c *TransmissionClient) Add(ctx context.Context, request AddRequest) (string, error) {
	payload := AddTorrentPayload{DownloadDir: c.downloadDir}
	switch {
	case len(request.Data) > 0:
		payload.MetaInfo = base64.StdEncoding.EncodeToString(request.Data)
	case request.URL != "":
		payload.Filename = request.URL
	default:
		return "", errors.New("release has no url")
	}

	var response AddTorrentResponse
	if err := c.call(ctx, addTorrentMethod, payload, &response); err != nil {
		return "", err
	}

	added := response.TorrentAdded
	if added == nil {
		added = response.TorrentDuplicate
	}
	if added == nil || added.HashString == "" {
		return "", ErrNoID
	}

	return strings.ToUpper(added.HashString), nil
}

type TorrentList struct {
	Torrents []TransmissionTorrent `json:"torrents"`
}

type TransmissionTorrent struct {
	Name        string             `json:"name"`
	HashString  string             `json:"hashString"`
	DownloadDir string             `json:"downloadDir"`
	ErrorString string             `json:"errorString"`
	Files       []TransmissionFile `json:"files"`
	ID          int                `json:"id"`
	Status      int                `json:"status"`
	Error       int                `json:"error"`
	PercentDone float64            `json:"percentDone"`
	ETA         int64              `json:"eta"`
	UploadRatio float64            `json:"uploadRatio"`
	TotalSize   int64              `json:"totalSize"`
	IsFinished  bool               `json:"isFinished"`
}

type TransmissionFile struct {
	Name           string `json:"name"`
	Length         int64  `json:"length"`
	BytesCompleted int64  `json:"bytesCompleted"`
}

func (t TransmissionTorrent) state() State {
	switch {
	case t.Error != torrentNoError:
		return StateFailed
	case t.Status == torrentStopped && (t.IsFinished || t.PercentDone == 1):
		return StateCompleted
	case t.Status == torrentSeedWait || t.Status == torrentSeeding:
		return StateSeeding
	default:
		return StateBusy
	}
}

// ToStatus maps the torrent to a Status with paths as seen from this host
func (t TransmissionTorrent) ToStatus(mountPrefix string) Status {
	dir := filepath.Join(mountPrefix, t.DownloadDir)

	files := make([]string, 0, len(t.Files))
	for _, f := range t.Files {
		files = append(files, filepath.Join(dir, f.Name))
	}

	folder := dir
	if len(files) != 1 {
		folder = filepath.Join(dir, t.Name)
	}

	timeLeft := time.Duration(-1)
	if t.ETA >= 0 {
		timeLeft = time.Duration(t.ETA) * time.Second
	}

	return Status{
		ID:        strings.ToUpper(t.HashString),
		Name:      t.Name,
		State:     t.state(),
		Folder:    folder,
		Files:     files,
		TimeLeft:  timeLeft,
		SeedRatio: t.UploadRatio,
		Progress:  t.PercentDone * 100,
		Size:      t.TotalSize >> 20,
	}
}

func (c *TransmissionClient) List(ctx context.Context, ids ...string) ([]Status, error) {
	arguments := map[string]any{"fields": torrentFields}
	if len(ids) > 0 {
		arguments["ids"] = hashes(ids)
	}

	var list TorrentList
	if err := c.call(ctx, getTorrentMethod, arguments, &list); err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(list.Torrents))
	for _, t := range list.Torrents {
		statuses = append(statuses, t.ToStatus(c.mountPrefix))
	}

	return filterByID(statuses, ids), nil
}

func (c *TransmissionClient) Pause(ctx context.Context, id string, pause bool) error {
	method := startTorrentMethod
	if pause {
		method = stopTorrentMethod
	}

	return c.call(ctx, method, map[string]any{"ids": hashes([]string{id})}, nil)
}

func (c *TransmissionClient) Remove(ctx context.Context, id string, deleteFiles bool) error {
	arguments := map[string]any{
		"ids":               hashes([]string{id}),
		"delete-local-data": deleteFiles,
	}

	return c.call(ctx, removeTorrentMethod, arguments, nil)
}

// transmission matches info hashes case sensitively in lower case
func hashes(ids []string) []string {
	lower := make([]string, len(ids))
	for i, id := range ids {
		lower[i] = strings.ToLower(id)
	}
	return lower
}

func (c *TransmissionClient) call(ctx context.Context, method torrentMethod, arguments any, out any) error {
	b, err := json.Marshal(TransmissionRequest{Method: method, Arguments: arguments})
	if err != nil {
		return err
	}

	u := url.URL{
		Host:   c.host,
		Scheme: c.scheme,
		Path:   transmissionPath,
	}

	logger.FromCtx(ctx).Debugw("transmission call", "method", method)

	b, err = c.do(ctx, u.String(), b, false)
	if err != nil {
		return err
	}

	var response TransmissionResponse
	if err := json.Unmarshal(b, &response); err != nil {
		return err
	}

	if response.Result != resultSuccess {
		return fmt.Errorf("unexpected result: %v", response.Result)
	}

	if out == nil || len(response.Arguments) == 0 {
		return nil
	}

	return json.Unmarshal(response.Arguments, out)
}

func (c *TransmissionClient) do(ctx context.Context, u string, body []byte, retried bool) ([]byte, error) {
	if c.http == nil {
		return nil, errors.New("http client is nil")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(sessionHeader, c.getSessionID())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusConflict:
		// a fresh session id only helps once per call
		if retried {
			return nil, errors.New("session id is invalid after retry")
		}

		session := resp.Header.Get(sessionHeader)
		if session == "" {
			return nil, errors.New("session id is empty")
		}

		c.setSessionID(session)
		return c.do(ctx, u, body, true)

	case http.StatusOK:
		return io.ReadAll(resp.Body)

	default:
		return nil, fmt.Errorf("unexpected status code: %v", resp.Status)
	}
}

func (c *TransmissionClient) setSessionID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = id
}

func (c *TransmissionClient) getSessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}
