package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"reliefregistry/internal/ledger"
	"reliefregistry/internal/registry"

	dErrors "reliefregistry/pkg/domain-errors"
)

// Reader is the read-only slice of the registry service the ops surface
// needs.
type Reader interface {
	Get(ctx context.Context, id registry.SubmissionID) (registry.Submission, error)
	GetAmendment(ctx context.Context, id registry.SubmissionID) (registry.Amendment, error)
	Count(ctx context.Context) (uint64, error)
}

// FeeLister exposes recorded fee transfers for the bookkeeping display.
type FeeLister interface {
	List() []ledger.Transfer
}

// Handler is the thin HTTP layer; it delegates to the service and never
// embeds registry logic.
type Handler struct {
	reader Reader
	fees   FeeLister
	logger *slog.Logger
}

func NewHandler(reader Reader, fees FeeLister, logger *slog.Logger) *Handler {
	return &Handler{reader: reader, fees: fees, logger: logger}
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type submissionResponse struct {
	ID          uint64 `json:"id"`
	Location    string `json:"location"`
	Latitude    int64  `json:"latitude"`
	Longitude   int64  `json:"longitude"`
	NeedType    string `json:"need_type"`
	Quantity    int64  `json:"quantity"`
	Unit        string `json:"unit"`
	Urgency     int    `json:"urgency"`
	Description string `json:"description"`
	Evidence    string `json:"evidence"`
	Category    string `json:"category"`
	Expiry      uint64 `json:"expiry"`
	Timestamp   uint64 `json:"timestamp"`
	Submitter   string `json:"submitter"`
	Active      bool   `json:"active"`
}

func (h *Handler) HandleGetSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	sub, err := h.reader.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submissionResponse{
		ID:          uint64(sub.ID),
		Location:    sub.Location,
		Latitude:    sub.Latitude,
		Longitude:   sub.Longitude,
		NeedType:    string(sub.NeedType),
		Quantity:    sub.Quantity,
		Unit:        sub.Unit,
		Urgency:     sub.Urgency,
		Description: sub.Description,
		Evidence:    sub.Evidence.String(),
		Category:    string(sub.Category),
		Expiry:      sub.Expiry,
		Timestamp:   sub.Timestamp,
		Submitter:   string(sub.Submitter),
		Active:      sub.Active,
	})
}

type amendmentResponse struct {
	Quantity    int64  `json:"quantity"`
	Urgency     int    `json:"urgency"`
	Description string `json:"description"`
	Timestamp   uint64 `json:"timestamp"`
	Updater     string `json:"updater"`
}

func (h *Handler) HandleGetAmendment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	am, err := h.reader.GetAmendment(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, amendmentResponse{
		Quantity:    am.Quantity,
		Urgency:     am.Urgency,
		Description: am.Description,
		Timestamp:   am.Timestamp,
		Updater:     string(am.Updater),
	})
}

func (h *Handler) HandleCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.reader.Count(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"count": count})
}

type transferResponse struct {
	Amount uint64    `json:"amount"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	At     time.Time `json:"at"`
}

func (h *Handler) HandleFees(w http.ResponseWriter, _ *http.Request) {
	transfers := h.fees.List()
	out := make([]transferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, transferResponse{
			Amount: t.Amount,
			From:   string(t.From),
			To:     string(t.To),
			At:     t.At,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (registry.SubmissionID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid submission id"})
		return 0, false
	}
	return registry.SubmissionID(id), true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := http.StatusInternalServerError
	if code == dErrors.CodeSubmissionNotFound {
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("ops request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": string(code)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
