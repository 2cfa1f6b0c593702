package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codearcheology/archeo/pkg/report"
)

const (
	megabyte = 1 << 20

	uploadFieldName = "file"

	statusOK = "ok"
)

type errorResponse struct {
	Error string `json:"error"`
}

type analyzeResponse struct {
	JobID  string    `json:"job_id"`
	Status JobStatus `json:"status"`
}

// handleAnalyze accepts a multipart zip upload, registers a job, and starts
// the analysis in the background. The response carries the job ID to poll.
func (s *Server) handleAnalyze(rw http.ResponseWriter, hr *http.Request) {
	start := time.Now()
	done := s.metrics.TrackInflight(hr.Context(), "analyze")
	defer done()

	maxBytes := int64(s.cfg.MaxUploadSizeMB) * megabyte
	hr.Body = http.MaxBytesReader(rw, hr.Body, maxBytes)

	file, header, err := hr.FormFile(uploadFieldName)
	if err != nil {
		s.writeError(rw, hr, http.StatusBadRequest, fmt.Sprintf("missing %q upload", uploadFieldName))
		s.metrics.RecordRequest(hr.Context(), "analyze", "error", time.Since(start))

		return
	}
	defer file.Close()

	project := strings.TrimSuffix(filepath.Base(header.Filename), ".zip")
	if project == "" || project == "." {
		project = "upload"
	}

	job := s.store.Create(project)

	archivePath := filepath.Join(s.cfg.UploadDir, job.ID+".zip")

	err = saveUpload(file, archivePath)
	if err != nil {
		s.log.Error("save upload failed", "job", job.ID, "error", err)
		_ = s.store.SetStatus(job.ID, StatusFailed, "could not store upload")
		s.writeError(rw, hr, http.StatusInternalServerError, "could not store upload")
		s.metrics.RecordRequest(hr.Context(), "analyze", "error", time.Since(start))

		return
	}

	// The request context dies with the response; the job keeps running.
	go s.runJob(context.WithoutCancel(hr.Context()), job.ID, archivePath)

	writeJSON(rw, http.StatusAccepted, analyzeResponse{JobID: job.ID, Status: job.Status})
	s.metrics.RecordRequest(hr.Context(), "analyze", statusOK, time.Since(start))
}

func (s *Server) handleJob(rw http.ResponseWriter, hr *http.Request) {
	job, err := s.store.Get(hr.PathValue("id"))
	if err != nil {
		s.writeError(rw, hr, http.StatusNotFound, "job not found")

		return
	}

	writeJSON(rw, http.StatusOK, job)
}

func (s *Server) handleResult(rw http.ResponseWriter, hr *http.Request) {
	id := hr.PathValue("id")

	job, err := s.store.Get(id)
	if err != nil {
		s.writeError(rw, hr, http.StatusNotFound, "job not found")

		return
	}

	if job.Status != StatusCompleted {
		s.writeError(rw, hr, http.StatusConflict, fmt.Sprintf("job is %s", job.Status))

		return
	}

	rep, err := s.store.Result(id)
	if err != nil {
		s.writeError(rw, hr, http.StatusNotFound, "result not found")

		return
	}

	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(http.StatusOK)

	err = rep.EncodeJSON(rw)
	if err != nil {
		s.log.Warn("write result failed", "job", id, "error", err)
	}
}

// runJob extracts the uploaded archive, runs the full analysis, persists the
// report, and advances the job state. All failures land on the job record.
func (s *Server) runJob(ctx context.Context, jobID, archivePath string) {
	start := time.Now()

	err := s.store.SetStatus(jobID, StatusProcessing, "")
	if err != nil {
		s.log.Error("job vanished before processing", "job", jobID)

		return
	}

	srcDir := filepath.Join(s.cfg.UploadDir, jobID)

	defer func() {
		_ = os.Remove(archivePath)
		_ = os.RemoveAll(srcDir)
	}()

	err = extractZip(archivePath, srcDir)
	if err != nil {
		s.failJob(ctx, jobID, "extract archive", err, start)

		return
	}

	rep, err := s.runner.Analyze(ctx, srcDir)
	if err != nil {
		s.failJob(ctx, jobID, "analyze", err, start)

		return
	}

	// A dropped persist is tolerable; the in-memory result still serves.
	err = s.persistResult(jobID, rep)
	if err != nil {
		s.log.Warn("persist result failed", "job", jobID, "error", err)
	}

	err = s.store.SetResult(jobID, rep)
	if err != nil {
		s.log.Error("job vanished before completion", "job", jobID)

		return
	}

	s.metrics.RecordRequest(ctx, "job", statusOK, time.Since(start))
	s.log.Info("job completed", "job", jobID, "files", rep.TotalFiles, "duration", time.Since(start))
}

func (s *Server) failJob(ctx context.Context, jobID, stage string, err error, start time.Time) {
	s.log.Error("job failed", "job", jobID, "stage", stage, "error", err)
	_ = s.store.SetStatus(jobID, StatusFailed, fmt.Sprintf("%s: %v", stage, err))
	s.metrics.RecordRequest(ctx, "job", "error", time.Since(start))
}

func (s *Server) persistResult(jobID string, rep *report.Report) error {
	path := filepath.Join(s.cfg.ResultsDir, jobID+".json")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}

	encodeErr := rep.EncodeJSON(f)
	closeErr := f.Close()

	return errors.Join(encodeErr, closeErr)
}

func (s *Server) writeError(rw http.ResponseWriter, hr *http.Request, status int, msg string) {
	s.log.Debug("request rejected", "path", hr.URL.Path, "status", status, "reason", msg)
	writeJSON(rw, status, errorResponse{Error: msg})
}

func saveUpload(src io.Reader, path string) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}

	_, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()

	return errors.Join(copyErr, closeErr)
}

func writeJSON(rw http.ResponseWriter, status int, value any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)

	_ = json.NewEncoder(rw).Encode(value)
}
