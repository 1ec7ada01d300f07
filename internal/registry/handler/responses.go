package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"mintguard/internal/registry/service"
	"mintguard/internal/registry/store/asset"
	"mintguard/internal/registry/validator"
	dErrors "mintguard/pkg/domain-errors"
)

type definitionResponse struct {
	ID        string    `json:"id"`
	Anchor    string    `json:"anchor"`
	Variant   string    `json:"variant"`
	Ticker    string    `json:"ticker"`
	CreatedAt time.Time `json:"created_at"`
}

func newDefinitionResponse(def *asset.Definition) definitionResponse {
	return definitionResponse{
		ID:        def.ID.String(),
		Anchor:    string(def.Anchor),
		Variant:   string(def.Config.Variant),
		Ticker:    def.Config.Identity.Ticker,
		CreatedAt: def.CreatedAt,
	}
}

type verdictResponse struct {
	Accepted bool   `json:"accepted"`
	Code     string `json:"code,omitempty"`
	Field    string `json:"field,omitempty"`
	Expected string `json:"expected,omitempty"`
	Observed string `json:"observed,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

func newVerdictResponse(v service.Verdict) verdictResponse {
	if v.Accepted {
		return verdictResponse{Accepted: true}
	}
	return verdictResponse{
		Code:     string(v.Reject.Code),
		Field:    v.Reject.Field,
		Expected: v.Reject.Expected,
		Observed: v.Reject.Observed,
		Detail:   v.Reject.Detail,
	}
}

type errorResponse struct {
	Error    string `json:"error"`
	Field    string `json:"field,omitempty"`
	Expected string `json:"expected,omitempty"`
	Observed string `json:"observed,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeInvalidInput(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:  string(dErrors.CodeInvalidInput),
		Detail: err.Error(),
	})
}

// writeError centralizes error translation. Rejected transitions answer
// 422 with the full verdict context; coded service errors map onto their
// HTTP statuses; anything else is a logged 500 without internals leaking.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if ve, ok := validator.As(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:    string(ve.Code),
			Field:    ve.Field,
			Expected: ve.Expected,
			Observed: ve.Observed,
			Detail:   ve.Detail,
		})
		return
	}
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeInternal {
		logger.Error("request failed", "error", err)
	}
	writeJSON(w, dErrors.ToHTTPStatus(code), errorResponse{Error: string(code)})
}
