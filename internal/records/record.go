package records

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the generation lifecycle of a record.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// CaptureImageCount is the fixed cardinality of the capture image set. The
// capture collaborator produces exactly this many frames per record; the core
// never appends or removes images.
const CaptureImageCount = 16

var allStatuses = []Status{
	StatusDraft,
	StatusUploading,
	StatusProcessing,
	StatusReady,
	StatusError,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Record represents a captured object and its generation state persisted in SQLite.
type Record struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Status    Status

	// Images is the ordered capture set, immutable once assigned.
	Images [][]byte
	// Thumbnail is a small encoded preview image used in listings.
	Thumbnail string

	// OperationID is the remote provider's handle for the in-flight job. Set
	// on submission and retained after failure for diagnostics; a fresh
	// submission always obtains a new one.
	OperationID string

	// WorldID, PrimaryAsset, and ColliderAsset are populated only when the
	// record is ready.
	WorldID       string
	PrimaryAsset  []byte
	ColliderAsset []byte

	// Edits holds scene modifications layered on the generated world;
	// initialized empty when generation succeeds.
	Edits *SceneEdits

	// Error holds the failure message when the record is in the error state.
	Error string
}

// NewRecord creates a draft record with a fresh identifier.
func NewRecord(name string, images [][]byte, thumbnail string) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Status:    StatusDraft,
		Images:    images,
		Thumbnail: thumbnail,
	}
}

// CanGenerate reports whether a generation attempt may start from the
// record's current status. Only drafts and failed records may (re)submit;
// regenerating a ready record is not allowed.
func (r *Record) CanGenerate() bool {
	return r.Status == StatusDraft || r.Status == StatusError
}

// SetFailed marks the record as failed with the given message. The operation
// identifier is kept for diagnostics and asset fields are left untouched.
func (r *Record) SetFailed(message string) {
	r.Status = StatusError
	r.Error = message
}
