// Package genmedia is the generative-media collaborator: it submits a
// reference keyframe plus a prompt and returns the URI of a generated video.
// The editor only applies the resulting layer update after full success.
package genmedia

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// AspectClass tells the service which output shape to target.
type AspectClass string

const (
	AspectClassLandscape AspectClass = "landscape"
	AspectClassPortrait  AspectClass = "portrait"
	AspectClassSquare    AspectClass = "square"
)

// Request carries everything the service needs for one generation.
type Request struct {
	Keyframe image.Image
	Prompt   string
	Aspect   AspectClass
}

// ProgressFunc receives human-readable progress text while a generation runs.
type ProgressFunc func(status string)

// Client is the narrow contract the editor depends on.
type Client interface {
	Generate(ctx context.Context, req Request, progress ProgressFunc) (videoURI string, err error)
}

var ErrGenerationFailed = errors.New("genmedia: generation failed")

// HTTPClient drives a submit-then-poll JSON API.
type HTTPClient struct {
	base     string
	client   *http.Client
	interval time.Duration
	log      *logrus.Entry
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		base:     strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: 60 * time.Second},
		interval: 2 * time.Second,
		log:      logrus.WithField("component", "genmedia"),
	}
}

type submitRequest struct {
	Keyframe string      `json:"keyframe"` // base64 PNG
	Prompt   string      `json:"prompt"`
	Aspect   AspectClass `json:"aspect"`
}

type jobStatus struct {
	ID       string `json:"id"`
	State    string `json:"state"` // queued | running | done | failed
	Progress string `json:"progress,omitempty"`
	VideoURI string `json:"videoUri,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (c *HTTPClient) Generate(ctx context.Context, req Request, progress ProgressFunc) (string, error) {
	job, err := c.submit(ctx, req)
	if err != nil {
		return "", err
	}
	c.log.WithField("job", job.ID).Info("generation submitted")

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.interval):
		}

		status, err := c.poll(ctx, job.ID)
		if err != nil {
			return "", err
		}
		if progress != nil && status.Progress != "" {
			progress(status.Progress)
		}
		switch status.State {
		case "done":
			return status.VideoURI, nil
		case "failed":
			return "", fmt.Errorf("%w: %s", ErrGenerationFailed, status.Error)
		}
	}
}

func (c *HTTPClient) submit(ctx context.Context, req Request) (*jobStatus, error) {
	var buf bytes.Buffer
	if req.Keyframe != nil {
		if err := png.Encode(&buf, req.Keyframe); err != nil {
			return nil, fmt.Errorf("genmedia: encode keyframe: %w", err)
		}
	}
	body, err := json.Marshal(submitRequest{
		Keyframe: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Prompt:   req.Prompt,
		Aspect:   req.Aspect,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return c.decode(httpReq)
}

func (c *HTTPClient) poll(ctx context.Context, jobID string) (*jobStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/generate/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	return c.decode(httpReq)
}

func (c *HTTPClient) decode(req *http.Request) (*jobStatus, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: %s", ErrGenerationFailed, resp.Status)
	}
	var status jobStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}
