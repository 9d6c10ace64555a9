package download

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	snatcherhttp "github.com/kasuboski/snatcher/pkg/http"
	"github.com/kasuboski/snatcher/pkg/logger"
)

var _ Client = (*SabnzbdClient)(nil)

type SabnzbdClient struct {
	http     snatcherhttp.HTTPClient
	name     string
	scheme   string
	host     string
	apiKey   string
	category string
}

func NewSabnzbdClient(http snatcherhttp.HTTPClient, name, scheme, host, apiKey, category string) *SabnzbdClient {
	return &SabnzbdClient{
		http:     http,
		name:     name,
		scheme:   scheme,
		host:     host,
		apiKey:   apiKey,
		category: category,
	}
}

func (c *SabnzbdClient) Name() string {
	return c.name
}

func (c *SabnzbdClient) Protocols() []string {
	return []string{ProtocolNZB}
}

type AddNewsResponse struct {
	NzoIDs []string `json:"nzo_ids"`
	Status bool     `json:"status"`
	Error  string   `json:"error"`
}

// Add queues an nzb by url, or uploads it when the nzb was already fetched
func (c *SabnzbdClient) Add(ctx context.Context, request AddRequest) (string, error) {
	q := url.Values{}
	if c.category != "" {
		q.Set("cat", c.category)
	}
	if request.Name != "" {
		q.Set("nzbname", request.Name)
	}

	var (
		b   []byte
		err error
	)

	if len(request.Data) > 0 {
		q.Set("mode", "addfile")
		b, err = c.upload(ctx, q, request.Name, request.Data)
	} else {
		if request.URL == "" {
			return "", errors.New("release has no url")
		}
		q.Set("mode", "addurl")
		q.Set("name", request.URL)
		b, err = c.get(ctx, q)
	}
	if err != nil {
		return "", err
	}

	var response AddNewsResponse
	if err := json.Unmarshal(b, &response); err != nil {
		return "", err
	}

	if !response.Status && response.Error != "" {
		return "", fmt.Errorf("sabnzbd refused nzb: %s", response.Error)
	}

	if len(response.NzoIDs) == 0 {
		return "", ErrNoID
	}

	return response.NzoIDs[0], nil
}

type QueueResponse struct {
	Queue Queue `json:"queue"`
}

type Queue struct {
	Status string `json:"status"`
	Speed  string `json:"speed"`
	Slots  []Slot `json:"slots"`
	Paused bool   `json:"paused"`
}

type Slot struct {
	NzoID      string `json:"nzo_id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	MB         string `json:"mb"`
	Percentage string `json:"percentage"`
	Timeleft   string `json:"timeleft"`
	Cat        string `json:"cat"`
}

type HistoryResponse struct {
	History History `json:"history"`
}

type History struct {
	Slots     []HistorySlot `json:"slots"`
	NoOfSlots int           `json:"noofslots"`
}

type HistorySlot struct {
	NzoID       string `json:"nzo_id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	FailMessage string `json:"fail_message"`
	Storage     string `json:"storage"`
	Category    string `json:"category"`
	Bytes       int64  `json:"bytes"`
}

// List merges the queue, where everything is still busy, with the history
func (c *SabnzbdClient) List(ctx context.Context, ids ...string) ([]Status, error) {
	b, err := c.get(ctx, url.Values{"mode": {"queue"}, "limit": {"0"}})
	if err != nil {
		return nil, err
	}

	var queue QueueResponse
	if err := json.Unmarshal(b, &queue); err != nil {
		return nil, err
	}

	history, err := c.history(ctx, ids...)
	if err != nil {
		return nil, err
	}

	statuses := queueToStatus(queue.Queue)
	statuses = append(statuses, historyToStatus(history.History)...)

	return filterByID(statuses, ids), nil
}

func (c *SabnzbdClient) history(ctx context.Context, ids ...string) (HistoryResponse, error) {
	q := url.Values{}
	q.Set("mode", "history")
	q.Set("limit", "60")
	if len(ids) > 0 {
		q.Set("nzo_ids", strings.Join(ids, ","))
	}

	var history HistoryResponse
	b, err := c.get(ctx, q)
	if err != nil {
		return history, err
	}

	err = json.Unmarshal(b, &history)
	return history, err
}

func queueToStatus(queue Queue) []Status {
	statuses := make([]Status, 0, len(queue.Slots))
	for _, s := range queue.Slots {
		progress, err := strconv.ParseFloat(s.Percentage, 64)
		if err != nil {
			progress = 0
		}
		size, err := strconv.ParseFloat(s.MB, 64)
		if err != nil {
			size = 0
		}

		statuses = append(statuses, Status{
			ID:       s.NzoID,
			Name:     s.Filename,
			State:    StateBusy,
			TimeLeft: parseTimeLeft(s.Timeleft),
			Progress: progress,
			Size:     int64(size),
		})
	}

	return statuses
}

func historyToStatus(history History) []Status {
	statuses := make([]Status, 0, len(history.Slots))
	for _, h := range history.Slots {
		state := StateBusy
		switch {
		case h.Status == "Failed" || (h.Status == "Completed" && h.FailMessage != ""):
			state = StateFailed
		case h.Status == "Completed":
			state = StateCompleted
		}

		statuses = append(statuses, Status{
			ID:       h.NzoID,
			Name:     h.Name,
			State:    state,
			Folder:   h.Storage,
			Progress: 100,
			Size:     h.Bytes >> 20,
		})
	}

	return statuses
}

// parseTimeLeft reads the h:mm:ss form sabnzbd reports, returning -1 when unknown
func parseTimeLeft(s string) time.Duration {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return -1
	}

	var total time.Duration
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return -1
		}
		total += time.Duration(n) * units[i]
	}

	return total
}

func (c *SabnzbdClient) Pause(ctx context.Context, id string, pause bool) error {
	name := "resume"
	if pause {
		name = "pause"
	}

	_, err := c.get(ctx, url.Values{"mode": {"queue"}, "name": {name}, "value": {id}})
	return err
}

// Remove deletes the transfer from the queue and the history
func (c *SabnzbdClient) Remove(ctx context.Context, id string, deleteFiles bool) error {
	delFiles := "0"
	if deleteFiles {
		delFiles = "1"
	}

	_, err := c.get(ctx, url.Values{"mode": {"queue"}, "name": {"delete"}, "value": {id}, "del_files": {delFiles}})
	if err != nil {
		return err
	}

	_, err = c.get(ctx, url.Values{"mode": {"history"}, "name": {"delete"}, "value": {id}, "del_files": {delFiles}})
	return err
}

func (c *SabnzbdClient) endpoint(q url.Values) *url.URL {
	q.Set("apikey", c.apiKey)
	q.Set("output", "json")

	return &url.URL{
		Host:     c.host,
		Scheme:   c.scheme,
		Path:     "/sabnzbd/api",
		RawQuery: q.Encode(),
	}
}

func (c *SabnzbdClient) get(ctx context.Context, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(q).String(), nil)
	if err != nil {
		return nil, err
	}

	return c.do(ctx, req)
}

func (c *SabnzbdClient) upload(ctx context.Context, q url.Values, name string, data []byte) ([]byte, error) {
	if name == "" {
		name = "release"
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("name", name+".nzb")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(q).String(), &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(ctx, req)
}

func (c *SabnzbdClient) do(ctx context.Context, req *http.Request) ([]byte, error) {
	if c.http == nil {
		return nil, errors.New("http client is nil")
	}

	logger.FromCtx(ctx).Debugw("sabnzbd do", "mode", req.URL.Query().Get("mode"), "name", req.URL.Query().Get("name"))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code not ok: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
