// Package coordinatortest provides an in-process fake coordinator for tests.
package coordinatortest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/dmitrijs2005/zkvault/internal/client/coordinator"
	"github.com/dmitrijs2005/zkvault/internal/client/models"
)

// Result is a job result as the coordinator serves it (base64 fields).
type Result struct {
	IV         string `json:"iv"`
	Ciphertext string `json:"ciphertext"`
	Tag        string `json:"tag"`
}

// Server is a fake coordinator backed by httptest.Server.
//
// Submitted jobs start PENDING. Tests move them along with SetStatus and
// SetResult, or make an endpoint fail with Fail.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	submissions []coordinator.SubmitJobRequest
	proofReqs   []coordinator.GenerateProofRequest
	statuses    map[string]models.JobStatus
	results     map[string]Result
	failing     map[string]int
	headers     []http.Header
	proof       models.Proof
}

func NewServer() *Server {
	s := &Server{
		statuses: make(map[string]models.JobStatus),
		results:  make(map[string]Result),
		failing:  make(map[string]int),
		proof:    models.Proof{Proof: "proof-bytes", PublicInputs: []string{"1", "2"}},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/generate-proof", s.generateProof)
	mux.HandleFunc("/submit-job", s.submitJob)
	mux.HandleFunc("/job-status/", s.jobStatus)
	mux.HandleFunc("/job-result/", s.jobResult)
	s.Server = httptest.NewServer(mux)
	return s
}

// Fail makes the endpoint ("/submit-job", "/job-status", ...) answer with code.
func (s *Server) Fail(endpoint string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[endpoint] = code
}

func (s *Server) SetStatus(jobID string, status models.JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[jobID] = status
}

func (s *Server) SetResult(jobID string, r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[jobID] = r
	s.statuses[jobID] = models.JobStatusCompleted
}

func (s *Server) SetProof(p models.Proof) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proof = p
}

func (s *Server) Submissions() []coordinator.SubmitJobRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]coordinator.SubmitJobRequest(nil), s.submissions...)
}

func (s *Server) ProofRequests() []coordinator.GenerateProofRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]coordinator.GenerateProofRequest(nil), s.proofReqs...)
}

// Headers returns the headers of every request received so far.
func (s *Server) Headers() []http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]http.Header(nil), s.headers...)
}

func (s *Server) intercept(w http.ResponseWriter, r *http.Request, endpoint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headers = append(s.headers, r.Header.Clone())
	if code, ok := s.failing[endpoint]; ok {
		http.Error(w, "injected failure", code)
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) generateProof(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w, r, "/generate-proof") {
		return
	}
	var req coordinator.GenerateProofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.proofReqs = append(s.proofReqs, req)
	proof := s.proof
	s.mu.Unlock()
	writeJSON(w, proof)
}

func (s *Server) submitJob(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w, r, "/submit-job") {
		return
	}
	var req coordinator.SubmitJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.submissions = append(s.submissions, req)
	s.statuses[req.JobID] = models.JobStatusPending
	s.mu.Unlock()
	writeJSON(w, map[string]string{"jobId": req.JobID})
}

func (s *Server) jobStatus(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w, r, "/job-status") {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/job-status/")
	s.mu.Lock()
	status, ok := s.statuses[id]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]models.JobStatus{"status": status})
}

func (s *Server) jobResult(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w, r, "/job-result") {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/job-result/")
	s.mu.Lock()
	res, ok := s.results[id]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, res)
}
