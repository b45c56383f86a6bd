package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/hnlevel/internal/headings"
	"github.com/google/uuid"
)

// JobStatus represents the state of a leveling job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusResolving JobStatus = "resolving"
	StatusRendering JobStatus = "rendering"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks the state of a single document.
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	DocID    string `json:"doc_id"`
	Filename string `json:"filename"`
	Title    string `json:"title"`
	// Rewrite asks for the document to be rendered with h-n replaced.
	Rewrite bool `json:"rewrite"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData  []byte
	headings  []headings.Heading
	rewritten int
	output    []byte
	errors    []string
}

// NewJob returns a queued job for data.
func NewJob(filename string, data []byte, rewrite bool) *Job {
	now := time.Now()
	j := &Job{
		ID:        uuid.NewString(),
		DocID:     ContentHashHex(data)[:16],
		Filename:  filename,
		Rewrite:   rewrite,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
	j.fileData = data
	return j
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

// Len returns the number of stored jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
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
	j.UpdatedAt = time.Now()
}

// SetTitle records the document title when none was given.
func (j *Job) SetTitle(title string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Title == "" {
		j.Title = title
	}
}

// SetHeadings records the resolved headings.
func (j *Job) SetHeadings(hs []headings.Heading) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.headings = hs
	j.UpdatedAt = time.Now()
}

// SetOutput records the rewritten document.
func (j *Job) SetOutput(rewritten int, out []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.rewritten = rewritten
	j.output = out
	j.UpdatedAt = time.Now()
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// Output returns the rewritten document, nil unless the job rewrote it.
func (j *Job) Output() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.output
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string             `json:"job_id"`
	DocID     string             `json:"doc_id"`
	Status    JobStatus          `json:"status"`
	Phase     string             `json:"phase"`
	Filename  string             `json:"filename"`
	Title     string             `json:"title"`
	Headings  []headings.Heading `json:"headings"`
	Rewritten int                `json:"rewritten"`
	HasOutput bool               `json:"has_output"`
	Errors    []string           `json:"errors"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.errors...)
	hs := append([]headings.Heading{}, j.headings...)
	return JobSnapshot{
		ID:        j.ID,
		DocID:     j.DocID,
		Status:    j.Status,
		Phase:     j.Phase,
		Filename:  j.Filename,
		Title:     j.Title,
		Headings:  hs,
		Rewritten: j.rewritten,
		HasOutput: j.output != nil,
		Errors:    errs,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
