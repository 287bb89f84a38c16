package installhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/data-forge-services/service-provisioning/interfaces"
	"github.com/data-forge-services/service-provisioning/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/mod/semver"
)

const maxRequestBody = 64 << 10

// knownSubtypes bounds the subtype label of the issued tokens counter.
// Anything else is counted as "other".
var knownSubtypes = map[string]struct{}{
	"vue":     {},
	"react":   {},
	"angular": {},
	"svelte":  {},
	"js":      {},
}

// Installation is what the handler remembers about an issued token.
type Installation struct {
	interfaces.ServiceStatus
	IssuedAt time.Time
}

// Handler serves a local implementation of the Data Forge service install
// API. Tokens are random and only live in memory.
type Handler struct {
	mu     sync.RWMutex
	tokens map[string]Installation

	metrics *metrics.InstallMetrics
	log     *slog.Logger
	now     func() time.Time
}

// NewHandler creates an install handler. m may be nil.
func NewHandler(m *metrics.InstallMetrics, log *slog.Logger) *Handler {
	if m == nil {
		m, _ = metrics.NewInstallMetrics("", nil)
	}
	return &Handler{
		tokens:  make(map[string]Installation),
		metrics: m,
		log:     log,
		now:     time.Now,
	}
}

// RegisterRoutes configures the router with the install API:
//   - POST /api/guest-task/Services/Install - issue a token for a service
//   - GET  /api/guest-task/Services/Status  - describe the bearer token's service
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post(interfaces.InstallPath, h.HandleInstall)
	r.Get(interfaces.StatusPath, h.HandleStatus)
}

// HandleInstall issues a token for the service described in the JSON body.
//
// Status codes:
//   - 200 OK: {"token": "..."}
//   - 400 Bad Request: malformed body, missing source or subtype, invalid version
func (h *Handler) HandleInstall(w http.ResponseWriter, r *http.Request) {
	var req interfaces.ProvisionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		h.reject(w, "malformed", "Invalid request body", "err", err)
		return
	}

	switch {
	case req.Source == "":
		h.reject(w, "missing_source", "source is required")
		return
	case req.Subtype == "":
		h.reject(w, "missing_subtype", "subtype is required")
		return
	case !semver.IsValid("v" + req.Version):
		h.reject(w, "invalid_version", "version must be a semantic version", "version", req.Version)
		return
	}

	token := newToken()

	h.mu.Lock()
	h.tokens[token] = Installation{
		ServiceStatus: interfaces.ServiceStatus{
			Source:  req.Source,
			Subtype: req.Subtype,
			Version: req.Version,
		},
		IssuedAt: h.now(),
	}
	h.mu.Unlock()

	h.metrics.TokensIssued.WithLabelValues(subtypeLabel(req.Subtype)).Inc()
	h.log.Info("Issued service token",
		slog.String("source", req.Source),
		slog.String("subtype", req.Subtype),
		slog.String("version", req.Version))

	writeJSON(w, h.log, interfaces.ProvisionResponse{Token: token})
}

// HandleStatus returns the installation bound to the bearer token.
//
// Status codes:
//   - 200 OK: {"source", "subtype", "version"}
//   - 401 Unauthorized: missing or unknown token
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		h.metrics.StatusLookups.WithLabelValues("missing_token").Inc()
		http.Error(w, "Missing bearer token", http.StatusUnauthorized)
		return
	}

	installation, found := h.Lookup(token)
	if !found {
		h.metrics.StatusLookups.WithLabelValues("unknown_token").Inc()
		http.Error(w, "Unknown token", http.StatusUnauthorized)
		return
	}

	h.metrics.StatusLookups.WithLabelValues("ok").Inc()
	writeJSON(w, h.log, installation.ServiceStatus)
}

// Lookup returns the installation a token was issued for.
func (h *Handler) Lookup(token string) (Installation, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	installation, found := h.tokens[token]
	return installation, found
}

// Len returns the number of issued tokens.
func (h *Handler) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.tokens)
}

func (h *Handler) reject(w http.ResponseWriter, reason, msg string, args ...any) {
	h.metrics.InstallsRejected.WithLabelValues(reason).Inc()
	h.log.Warn("Rejected install request", append([]any{"reason", reason}, args...)...)
	http.Error(w, msg, http.StatusBadRequest)
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func subtypeLabel(subtype string) string {
	if _, ok := knownSubtypes[subtype]; ok {
		return subtype
	}
	return "other"
}

func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "err", err)
	}
}
