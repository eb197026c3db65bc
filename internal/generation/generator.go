package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"keepsake/internal/config"
	"keepsake/internal/logging"
	"keepsake/internal/records"
	"keepsake/internal/services"
	"keepsake/internal/services/worldlabs"
)

// ErrGenerationInFlight is returned when a generation attempt is already
// running for the same record.
var ErrGenerationInFlight = errors.New("generation already in flight for this record")

// RecordStore persists full record replacements on every transition.
type RecordStore interface {
	Save(ctx context.Context, record *records.Record) error
}

// RemoteClient covers the two gateway operations the orchestrator drives.
type RemoteClient interface {
	Submit(ctx context.Context, images [][]byte) (string, error)
	Poll(ctx context.Context, operationID string) (*worldlabs.JobStatus, error)
}

// AssetDownloader materializes a remote asset into memory.
type AssetDownloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Generator advances records through the generation state machine.
type Generator struct {
	store      RecordStore
	client     RemoteClient
	downloader AssetDownloader
	logger     *slog.Logger

	pollInterval time.Duration
	pollDeadline time.Duration

	locks *lockRegistry
}

// Option configures optional Generator behavior.
type Option func(*Generator)

// WithPollInterval overrides the delay between status polls.
func WithPollInterval(interval time.Duration) Option {
	return func(g *Generator) {
		if interval > 0 {
			g.pollInterval = interval
		}
	}
}

// WithPollDeadline overrides the wall-clock budget for the poll loop.
func WithPollDeadline(deadline time.Duration) Option {
	return func(g *Generator) {
		if deadline > 0 {
			g.pollDeadline = deadline
		}
	}
}

// NewGenerator constructs a generator using the configured polling cadence.
func NewGenerator(cfg *config.Config, store RecordStore, client RemoteClient, downloader AssetDownloader, logger *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		store:        store,
		client:       client,
		downloader:   downloader,
		logger:       logging.NewComponentLogger(logger, "generation"),
		pollInterval: 5 * time.Second,
		pollDeadline: 30 * time.Minute,
		locks:        newLockRegistry(),
	}
	if cfg != nil {
		if cfg.Generation.PollInterval > 0 {
			g.pollInterval = time.Duration(cfg.Generation.PollInterval) * time.Second
		}
		if cfg.Generation.PollDeadline > 0 {
			g.pollDeadline = time.Duration(cfg.Generation.PollDeadline) * time.Second
		}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs one submission attempt for the record: upload, poll to a
// terminal outcome, materialize assets, persist. Only drafts and failed
// records may start; regenerating a ready record is rejected. On failure the
// record is persisted in the error state and the error is also returned, so
// the caller is always informed.
func (g *Generator) Generate(ctx context.Context, record *records.Record) error {
	if record == nil {
		return errors.New("record is nil")
	}
	if !record.CanGenerate() {
		return services.Wrap(services.ErrValidation, "generation", "generate",
			fmt.Sprintf("record %s cannot generate from status %q", record.ID, record.Status), nil)
	}
	if !g.locks.acquire(record.ID) {
		return ErrGenerationInFlight
	}
	defer g.locks.release(record.ID)

	logger := g.logger.With(
		logging.String(logging.FieldRecordID, record.ID),
		logging.String(logging.FieldRequestID, uuid.NewString()),
	)

	if err := g.run(ctx, logger, record); err != nil {
		g.fail(ctx, logger, record, err)
		return err
	}
	return nil
}

func (g *Generator) run(ctx context.Context, logger *slog.Logger, record *records.Record) error {
	record.Status = records.StatusUploading
	record.Error = ""
	if err := g.store.Save(ctx, record); err != nil {
		return fmt.Errorf("persist uploading state: %w", err)
	}
	logger.Info("submitting generation job", logging.Int("images", len(record.Images)))

	operationID, err := g.client.Submit(ctx, record.Images)
	if err != nil {
		return err
	}

	record.OperationID = operationID
	record.Status = records.StatusProcessing
	if err := g.store.Save(ctx, record); err != nil {
		return fmt.Errorf("persist processing state: %w", err)
	}
	logger.Info("job accepted",
		logging.String(logging.FieldOperation, operationID),
		logging.Duration("poll_interval", g.pollInterval),
		logging.Duration("poll_deadline", g.pollDeadline),
	)

	result, err := g.awaitCompletion(ctx, logger, operationID)
	if err != nil {
		return err
	}

	splatURL, colliderURL, err := selectAssetURLs(result)
	if err != nil {
		return err
	}
	logger.Info("downloading assets",
		logging.String("splat_url", splatURL),
		logging.String("collider_url", colliderURL),
	)

	primary, collider, err := g.downloadAssets(ctx, splatURL, colliderURL)
	if err != nil {
		return err
	}

	record.WorldID = result.WorldID
	record.PrimaryAsset = primary
	record.ColliderAsset = collider
	record.Edits = records.NewSceneEdits()
	record.Status = records.StatusReady
	if err := g.store.Save(ctx, record); err != nil {
		return fmt.Errorf("persist ready state: %w", err)
	}
	logger.Info("record ready", logging.String("world_id", result.WorldID))
	return nil
}

// awaitCompletion polls until the job reaches a terminal status. Transport
// errors propagate immediately; they are not silently retried here.
func (g *Generator) awaitCompletion(ctx context.Context, logger *slog.Logger, operationID string) (*worldlabs.JobResult, error) {
	deadline := time.Now().Add(g.pollDeadline)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(g.pollInterval):
		}

		if time.Now().After(deadline) {
			return nil, services.Wrap(services.ErrTimeout, "generation", "poll",
				fmt.Sprintf("operation %s did not finish within %s", operationID, g.pollDeadline), nil)
		}

		status, err := g.client.Poll(ctx, operationID)
		if err != nil {
			return nil, err
		}

		switch status.Status {
		case worldlabs.JobCompleted:
			if status.Result == nil {
				return nil, services.Wrap(services.ErrUpstream, "generation", "poll",
					fmt.Sprintf("operation %s completed without a result payload", operationID), nil)
			}
			return status.Result, nil
		case worldlabs.JobFailed:
			message := strings.TrimSpace(status.Error)
			if message == "" {
				message = "generation failed on the provider"
			}
			return nil, services.Wrap(services.ErrJobFailed, "generation", "poll", message, nil)
		default:
			logger.Debug("job still running",
				logging.String("status", status.Status),
				logging.String("progress", fmt.Sprintf("%.0f%%", status.Progress)),
			)
		}
	}
}

// selectAssetURLs picks the splat to keep locally, preferring the medium
// fidelity variant, and requires the collider mesh.
func selectAssetURLs(result *worldlabs.JobResult) (splatURL, colliderURL string, err error) {
	urls := result.Assets.Splats.SpzURLs
	splatURL = urls[worldlabs.SplatFidelityDefault]
	if splatURL == "" {
		splatURL = urls[worldlabs.SplatFidelityFull]
	}
	if splatURL == "" {
		return "", "", services.Wrap(services.ErrUpstream, "generation", "assets",
			"result offers no downloadable splat", nil)
	}
	colliderURL = result.Assets.Mesh.ColliderMeshURL
	if colliderURL == "" {
		return "", "", services.Wrap(services.ErrUpstream, "generation", "assets",
			"result is missing the collider mesh", nil)
	}
	return splatURL, colliderURL, nil
}

// downloadAssets fetches the splat and collider concurrently; both must
// complete before the record can be marked ready.
func (g *Generator) downloadAssets(ctx context.Context, splatURL, colliderURL string) (primary, collider []byte, err error) {
	var (
		wg          sync.WaitGroup
		splatErr    error
		colliderErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		primary, splatErr = g.downloader.Download(ctx, splatURL)
	}()
	go func() {
		defer wg.Done()
		collider, colliderErr = g.downloader.Download(ctx, colliderURL)
	}()
	wg.Wait()

	if splatErr != nil {
		return nil, nil, splatErr
	}
	if colliderErr != nil {
		return nil, nil, colliderErr
	}
	return primary, collider, nil
}

// fail persists the terminal error state. The operation identifier stays on
// the record for diagnostics.
func (g *Generator) fail(ctx context.Context, logger *slog.Logger, record *records.Record, cause error) {
	record.SetFailed(cause.Error())
	if err := g.store.Save(ctx, record); err != nil {
		logger.Error("failed to persist error state", logging.Error(err))
		return
	}
	logger.Warn("generation failed", logging.Error(cause))
}
