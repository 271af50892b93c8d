package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of an ingestion job.
type JobStatus string

const (
	StatusQueued         JobStatus = "queued"
	StatusExtracting     JobStatus = "extracting"
	StatusReconstructing JobStatus = "reconstructing"
	StatusChunking       JobStatus = "chunking"
	StatusEmbedding      JobStatus = "embedding"
	StatusStoring        JobStatus = "storing"
	StatusCompleted      JobStatus = "completed"
	StatusNoContent      JobStatus = "no_content"
	StatusFailed         JobStatus = "failed"
	StatusPartial        JobStatus = "partial"
)

// Job tracks the state of a single document ingestion.
type Job struct {
	mu sync.Mutex

	ID     string `json:"job_id"`
	FileID string `json:"file_id"`

	Status     JobStatus `json:"status"`
	Phase      string    `json:"phase"`
	Filename   string    `json:"filename"`
	SourceType string    `json:"source_type"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	uploadPath   string
	targetTokens int
	overlapRatio float64
	errors       []string
}

// NewJob builds a queued job for a stored upload. targetTokens and
// overlapRatio are the per-request chunking knobs, already validated by
// the caller.
func NewJob(id, fileID, filename, sourceType, uploadPath string, targetTokens int, overlapRatio float64) *Job {
	now := time.Now()
	return &Job{
		ID:           id,
		FileID:       fileID,
		Status:       StatusQueued,
		Phase:        "queued",
		Filename:     filename,
		SourceType:   sourceType,
		CreatedAt:    now,
		UpdatedAt:    now,
		uploadPath:   uploadPath,
		targetTokens: targetTokens,
		overlapRatio: overlapRatio,
	}
}

// Progress tracks processing progress.
type Progress struct {
	Blocks         int      `json:"blocks"`
	Sections       int      `json:"sections"`
	Chunks         int      `json:"chunks"`
	ChunksEmbedded int      `json:"chunks_embedded"`
	VectorsStored  int      `json:"vectors_stored"`
	Errors         []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetContentHash records the raw text content hash.
func (j *Job) SetContentHash(hash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = hash
	j.UpdatedAt = time.Now()
}

// SetBlocks records how many source blocks were extracted.
func (j *Job) SetBlocks(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Blocks = n
	j.UpdatedAt = time.Now()
}

// SetSections records how many sections reconstruction produced.
func (j *Job) SetSections(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Sections = n
	j.UpdatedAt = time.Now()
}

// SetChunks records how many chunks were produced.
func (j *Job) SetChunks(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Chunks = n
	j.UpdatedAt = time.Now()
}

// IncrChunksEmbedded atomically increments the embedded chunk count.
func (j *Job) IncrChunksEmbedded() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksEmbedded++
	j.UpdatedAt = time.Now()
}

// AddVectorsStored records upserted vector counts.
func (j *Job) AddVectorsStored(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.VectorsStored += n
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	FileID      string    `json:"file_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	SourceType  string    `json:"source_type"`
	ContentHash string    `json:"content_hash,omitempty"`
	Progress    Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:          j.ID,
		FileID:      j.FileID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		SourceType:  j.SourceType,
		ContentHash: j.ContentHash,
		Progress: Progress{
			Blocks:         j.Progress.Blocks,
			Sections:       j.Progress.Sections,
			Chunks:         j.Progress.Chunks,
			ChunksEmbedded: j.Progress.ChunksEmbedded,
			VectorsStored:  j.Progress.VectorsStored,
			Errors:         errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
