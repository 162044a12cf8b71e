package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/brunobiangulo/godefine"
)

type handler struct {
	engine    godefine.Engine
	maxUpload int64
}

func newHandler(e godefine.Engine, maxUpload int64) *handler {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return &handler{engine: e, maxUpload: maxUpload}
}

// POST /upload
// Multipart form: document file plus keyword, author, year, citationFormat
// and sentenceCount (or a legacy additionalInfo JSON object).
func (h *handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	// Form fields and multipart framing ride on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1<<20)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "Ukuran file melebihi batas")
			return
		}
		writeError(w, http.StatusBadRequest, "File tidak ditemukan")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File tidak ditemukan")
		return
	}
	defer file.Close()
	if header.Size > h.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "Ukuran file melebihi batas")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Gagal memproses file")
		slog.Error("reading upload", "error", err)
		return
	}
	if int64(len(data)) > h.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "Ukuran file melebihi batas")
		return
	}

	doc, err := h.engine.Upload(ctx, godefine.UploadRequest{
		UserID:         userID(r.Context()),
		Filename:       filepath.Base(header.Filename),
		MIMEType:       header.Header.Get("Content-Type"),
		Data:           data,
		Keyword:        r.FormValue("keyword"),
		Author:         r.FormValue("author"),
		Year:           atoi(r.FormValue("year")),
		CitationFormat: r.FormValue("citationFormat"),
		SentenceCount:  formSentenceCount(r.FormValue("sentenceCount"), r.FormValue("additionalInfo")),
	})
	if err != nil {
		h.fail(w, err, "Gagal memproses file")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Upload berhasil",
		"document": doc,
	})
}

// textRequest accepts year and sentence count as numbers or strings.
type textRequest struct {
	OriginalText   string          `json:"originalText"`
	Keyword        string          `json:"keyword"`
	Author         string          `json:"author"`
	Year           json.RawMessage `json:"year"`
	CitationFormat string          `json:"citationFormat"`
	SentenceCount  json.RawMessage `json:"sentenceCount"`
	AdditionalInfo json.RawMessage `json:"additionalInfo"`
}

// POST /paraphrase-text
func (h *handler) handleParaphraseText(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON tidak valid")
		return
	}

	n := formSentenceCount(rawString(req.SentenceCount), rawString(req.AdditionalInfo))
	res, err := h.engine.ParaphraseText(ctx, godefine.TextRequest{
		UserID:         userID(r.Context()),
		OriginalText:   req.OriginalText,
		Keyword:        req.Keyword,
		Author:         req.Author,
		Year:           atoi(rawString(req.Year)),
		CitationFormat: req.CitationFormat,
		SentenceCount:  n,
	})
	if err != nil {
		h.fail(w, err, "Gagal memparafrase teks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    fmt.Sprintf("Teks berhasil diparafrase menjadi %d kalimat!", res.Preview.TargetSentences),
		"documentId": res.DocumentID,
		"preview":    res.Preview,
		"result":     res,
	})
}

// POST /process
func (h *handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	var req struct {
		DocumentID json.RawMessage `json:"documentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON tidak valid")
		return
	}
	id, _ := strconv.ParseInt(rawString(req.DocumentID), 10, 64)

	res, err := h.engine.Process(ctx, userID(r.Context()), id)
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			slog.Error("process error", "document_id", id, "error", err)
			writeJSON(w, status, map[string]string{
				"error":   "Gagal memproses dokumen: " + err.Error(),
				"details": err.Error(),
			})
			return
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Dokumen berhasil diproses dengan parafrase %d kalimat", res.SentenceAnalysis.TargetSentences),
		"result":  res,
	})
}

// GET /history
func (h *handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.engine.History(r.Context(), userID(r.Context()))
	if err != nil {
		h.fail(w, err, "Gagal mengambil riwayat dokumen")
		return
	}
	if entries == nil {
		entries = []godefine.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"documents": entries,
	})
}

// POST /extract
// Runs extraction and classification only; nothing is generated or stored.
func (h *handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text    string `json:"text"`
		Keyword string `json:"keyword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON tidak valid")
		return
	}
	if strings.TrimSpace(req.Keyword) == "" {
		writeError(w, http.StatusBadRequest, "Kata kunci wajib diisi")
		return
	}

	res := h.engine.ExtractDefinitions(req.Text, req.Keyword)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result":         res,
		"classification": h.engine.ClassifyConfidence(res),
	})
}

// POST /cite
// Renders citation and bibliography variants for an existing paraphrase.
func (h *handler) handleCite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Paraphrase string          `json:"paraphrase"`
		Title      string          `json:"title"`
		Author     string          `json:"author"`
		Year       json.RawMessage `json:"year"`
		Format     string          `json:"format"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON tidak valid")
		return
	}
	if strings.TrimSpace(req.Author) == "" {
		writeError(w, http.StatusBadRequest, "Nama penulis wajib diisi")
		return
	}
	year := atoi(rawString(req.Year))
	if err := godefine.ValidateYear(year, time.Now()); err != nil {
		writeError(w, http.StatusBadRequest, "Tahun publikasi tidak valid")
		return
	}

	citations := h.engine.BuildCitations(req.Paraphrase, req.Author, year, req.Format)
	bibs := h.engine.BuildBibliography(req.Title, req.Author, year, req.Format)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"inTextCitation": h.engine.SelectBestCitation(citations),
		"bibliography":   h.engine.SelectBestBibliography(bibs),
		"citations":      citations,
		"bibliographies": bibs,
	})
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.Stats(r.Context())
	if err != nil {
		slog.Warn("health: stats unavailable", "error", err)
		writeJSON(w, http.StatusOK, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"stats":  stats,
	})
}

// fail writes the mapped error, logging anything that is not the
// client's fault.
func (h *handler) fail(w http.ResponseWriter, err error, internalMsg string) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		msg = internalMsg
	}
	writeError(w, status, msg)
}

// statusFor maps engine errors to an HTTP status and Indonesian message.
func statusFor(err error) (int, string) {
	messages := []struct {
		target error
		msg    string
	}{
		{godefine.ErrMissingFile, "File tidak ditemukan"},
		{godefine.ErrEmptyText, "Teks definisi wajib diisi"},
		{godefine.ErrEmptyKeyword, "Kata kunci wajib diisi"},
		{godefine.ErrEmptyAuthor, "Nama penulis wajib diisi"},
		{godefine.ErrInvalidYear, "Tahun publikasi tidak valid"},
		{godefine.ErrInvalidSentenceCount, "Jumlah kalimat harus antara 1-5"},
		{godefine.ErrMissingDocumentID, "Document ID wajib diisi"},
		{godefine.ErrUnsupportedType, "Tipe file tidak didukung"},
		{godefine.ErrNoTextExtracted, "Tidak ada teks yang bisa diekstrak"},
	}
	for _, m := range messages {
		if errors.Is(err, m.target) {
			return http.StatusBadRequest, m.msg
		}
	}
	switch {
	case errors.Is(err, godefine.ErrInvalidRequest):
		return http.StatusBadRequest, "Permintaan tidak valid"
	case errors.Is(err, godefine.ErrDocumentNotFound):
		return http.StatusNotFound, "Dokumen tidak ditemukan"
	case errors.Is(err, godefine.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "Penyimpanan tidak tersedia"
	}
	return http.StatusInternalServerError, "internal server error"
}

// formSentenceCount resolves the sentence count from an explicit field or
// the legacy additionalInfo JSON. An explicit out-of-range value is kept
// as -1 so the engine rejects it in its usual validation order.
func formSentenceCount(explicit, info string) int {
	var (
		n   int
		err error
	)
	switch {
	case strings.TrimSpace(explicit) != "":
		n, err = godefine.ParseSentenceCount(explicit)
	default:
		n, err = godefine.SentenceCountFromInfo(info)
	}
	if err != nil {
		return -1
	}
	return n
}

// rawString turns a JSON scalar or object into text: strings are
// unquoted, everything else is returned as written.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// atoi parses a year-like integer; garbage yields 0.
func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
