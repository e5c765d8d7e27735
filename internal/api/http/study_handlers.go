package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/studyquiz/internal/quiz"
	"github.com/mind-engage/studyquiz/internal/rbac"
	"github.com/mind-engage/studyquiz/internal/study"
)

// Mount registers the study routes for both question kinds. require guards
// each route with a permission (rbac.Require, or rbac.Allow when tokens are off).
func Mount(r chi.Router, svc *study.Service, require func(string) func(http.Handler) http.Handler) {
	for _, kind := range []quiz.Kind{quiz.KindChoice, quiz.KindFill} {
		r.With(require(rbac.PermQuizGenerate)).
			Post("/"+string(kind), GenerateHandler(svc, kind))
		r.With(require(rbac.PermProgressWrite)).
			Post("/"+string(kind)+"/save-progress", SaveProgressHandler(svc, kind))
		r.With(require(rbac.PermQuizRead)).
			Get("/docs/{docID}/"+string(kind), GetBankHandler(svc, kind))
	}
	r.With(require(rbac.PermPoolWrite)).
		Post("/docs/{docID}/pool/{kind}", PutPoolHandler(svc))
}

// POST /mcq, /fillups  { "doc_id": "...", "difficulty": "easy", "num": 10 }
func GenerateHandler(svc *study.Service, kind quiz.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req study.GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		resp, err := svc.Generate(r.Context(), kind, req)
		if err != nil {
			writeErr(w, "generate "+kind.Label(), err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// GET /docs/{docID}/mcq, /docs/{docID}/fillups
func GetBankHandler(svc *study.Service, kind quiz.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docID := strings.TrimSpace(chi.URLParam(r, "docID"))
		if docID == "" {
			http.Error(w, "docID required", http.StatusBadRequest)
			return
		}
		bank, err := svc.Bank(r.Context(), kind, docID)
		if err != nil {
			writeErr(w, "fetch "+kind.Label(), err)
			return
		}
		writeJSON(w, http.StatusOK, bank)
	}
}

// POST /mcq/save-progress, /fillups/save-progress
func SaveProgressHandler(svc *study.Service, kind quiz.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req study.SaveProgressRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := svc.SaveProgress(r.Context(), kind, req); err != nil {
			writeErr(w, "save progress", err)
			return
		}
		writeJSON(w, http.StatusOK, study.StatusResponse{Status: "ok"})
	}
}

// POST /docs/{docID}/pool/{kind}  [ { "difficulty": "easy", "question": ..., ... }, ... ]
func PutPoolHandler(svc *study.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docID := strings.TrimSpace(chi.URLParam(r, "docID"))
		kind := quiz.Kind(chi.URLParam(r, "kind"))
		if docID == "" || !kind.Valid() {
			http.Error(w, "docID and kind (mcq|fillups) required", http.StatusBadRequest)
			return
		}
		var items []study.PoolItem
		if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := svc.PutPool(r.Context(), docID, kind, items); err != nil {
			writeErr(w, "store pool", err)
			return
		}
		writeJSON(w, http.StatusOK, study.StatusResponse{Status: "ok"})
	}
}

func writeErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, study.ErrInvalidRequest), errors.Is(err, study.ErrNoQuestion):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, study.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, study.ErrGenerator):
		http.Error(w, op+": "+err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, op+": "+err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
