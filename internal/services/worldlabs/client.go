package worldlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"keepsake/internal/services"
)

// Job status values reported by the provider.
const (
	JobQueued     = "queued"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

// SplatFidelityDefault is the preferred splat fidelity for local viewing;
// SplatFidelityFull is the fallback when the provider omits it.
const (
	SplatFidelityDefault = "500k"
	SplatFidelityFull    = "full_res"
)

// JobStatus is the provider's view of an in-flight generation operation.
type JobStatus struct {
	OperationID string     `json:"operation_id"`
	Status      string     `json:"status"`
	Progress    float64    `json:"progress,omitempty"`
	Error       string     `json:"error,omitempty"`
	Result      *JobResult `json:"result,omitempty"`
}

// JobResult is the payload attached once a job completes.
type JobResult struct {
	WorldID string    `json:"world_id"`
	Assets  JobAssets `json:"assets"`
}

// JobAssets groups the downloadable outputs of a completed job.
type JobAssets struct {
	Splats  SplatAssets  `json:"splats"`
	Mesh    MeshAssets   `json:"mesh"`
	Preview PreviewAsset `json:"preview"`
}

// SplatAssets maps fidelity labels to splat download URLs.
type SplatAssets struct {
	SpzURLs map[string]string `json:"spz_urls"`
}

// MeshAssets carries the simplified collision geometry.
type MeshAssets struct {
	ColliderMeshURL string `json:"collider_mesh_url"`
}

// PreviewAsset carries the panoramic preview image.
type PreviewAsset struct {
	PanoURL string `json:"pano_url"`
}

// HTTPDoer describes the HTTP client used by the gateway client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues submit and poll requests against the gateway.
type Client struct {
	baseURL string
	client  HTTPDoer
}

// NewClient constructs a gateway client. A nil doer falls back to an
// http.Client with a conservative timeout.
func NewClient(baseURL string, client HTTPDoer) *Client {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  client,
	}
}

// Submit uploads the capture image set and returns the provider's operation
// identifier for the new job.
func (c *Client) Submit(ctx context.Context, images [][]byte) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for i, image := range images {
		part, err := writer.CreateFormFile("images", fmt.Sprintf("img_%d.jpg", i))
		if err != nil {
			return "", fmt.Errorf("create form file: %w", err)
		}
		if _, err := part.Write(image); err != nil {
			return "", fmt.Errorf("write image %d: %w", i, err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/jobs", body)
	if err != nil {
		return "", fmt.Errorf("build submit request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "worldlabs", "submit", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", upstreamError("submit", resp)
	}

	var payload struct {
		OperationID string `json:"operation_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", services.Wrap(services.ErrUpstream, "worldlabs", "submit", "malformed response body", err)
	}
	if strings.TrimSpace(payload.OperationID) == "" {
		return "", services.Wrap(services.ErrUpstream, "worldlabs", "submit", "response missing operation_id", nil)
	}
	return payload.OperationID, nil
}

// Poll fetches the current status of an operation.
func (c *Client) Poll(ctx context.Context, operationID string) (*JobStatus, error) {
	if strings.TrimSpace(operationID) == "" {
		return nil, services.Wrap(services.ErrValidation, "worldlabs", "poll", "operation id is empty", nil)
	}

	endpoint := c.baseURL + "/jobs/" + url.PathEscape(operationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build poll request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "worldlabs", "poll", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstreamError("poll", resp)
	}

	status := &JobStatus{}
	if err := json.NewDecoder(resp.Body).Decode(status); err != nil {
		return nil, services.Wrap(services.ErrUpstream, "worldlabs", "poll", "malformed response body", err)
	}
	return status, nil
}

// upstreamError surfaces the provider's message for a non-success response.
func upstreamError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	message := strings.TrimSpace(string(body))
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		message = strings.TrimSpace(payload.Message)
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return services.Wrap(services.ErrUpstream, "worldlabs", operation,
		fmt.Sprintf("status %d: %s", resp.StatusCode, message), nil)
}
