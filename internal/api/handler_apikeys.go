package api

import (
	"encoding/json"
	"net/http"
	"time"

	"flowdeck/internal/domain"

	"github.com/go-chi/chi/v5"
)

type createAPIKeyRequest struct {
	PrincipalName string     `json:"principal_name"`
	Name          string     `json:"name"`
	IsAdmin       bool       `json:"is_admin"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

type apiKeyJSON struct {
	ID            string     `json:"id"`
	PrincipalName string     `json:"principal_name"`
	Name          string     `json:"name"`
	KeyPrefix     string     `json:"key_prefix"`
	IsAdmin       bool       `json:"is_admin"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type createAPIKeyResponse struct {
	apiKeyJSON
	// Key is the full secret, returned only on creation.
	Key string `json:"key"`
}

type listAPIKeysResponse struct {
	APIKeys       []apiKeyJSON `json:"api_keys"`
	Total         int64        `json:"total"`
	NextPageToken string       `json:"next_page_token,omitempty"`
}

func apiKeyToAPI(k domain.APIKey) apiKeyJSON {
	return apiKeyJSON{
		ID:            k.ID,
		PrincipalName: k.PrincipalName,
		Name:          k.Name,
		KeyPrefix:     k.KeyPrefix,
		IsAdmin:       k.IsAdmin,
		ExpiresAt:     k.ExpiresAt,
		LastUsedAt:    k.LastUsedAt,
		CreatedAt:     k.CreatedAt,
	}
}

// CreateAPIKey mints a new key. The secret appears in the response once and
// is never retrievable again; only its hash is stored.
func (h *Handler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	var req createAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	rawKey, key, err := h.Keys.Create(r.Context(), domain.CreateAPIKeyRequest{
		PrincipalName: req.PrincipalName,
		Name:          req.Name,
		IsAdmin:       req.IsAdmin,
		ExpiresAt:     req.ExpiresAt,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createAPIKeyResponse{
		apiKeyJSON: apiKeyToAPI(*key),
		Key:        rawKey,
	})
}

func (h *Handler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	page := pageFromRequest(r)
	list, total, err := h.Keys.List(r.Context(), page)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := listAPIKeysResponse{
		APIKeys:       make([]apiKeyJSON, 0, len(list)),
		Total:         total,
		NextPageToken: domain.NextPageToken(page.Offset(), page.Limit(), total),
	}
	for _, k := range list {
		resp.APIKeys = append(resp.APIKeys, apiKeyToAPI(k))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	if err := h.Keys.Delete(r.Context(), chi.URLParam(r, "keyID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
