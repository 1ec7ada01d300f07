package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mintguard/internal/registry/models"
	"mintguard/internal/registry/quorum"
	"mintguard/internal/registry/validator"
)

const maxBodyBytes = 1 << 20

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

type registerAssetRequest struct {
	Variant      string          `json:"variant"`
	TokenClass   string          `json:"token_class"`
	Identity     models.Identity `json:"identity"`
	AttesterKeys [][]byte        `json:"attester_keys"`
	Policy       string          `json:"policy"`
	InitialPrice uint64          `json:"initial_price"`
	SeedRef      string          `json:"seed_ref"`
}

func (b registerAssetRequest) toConfig() (validator.Config, error) {
	if b.TokenClass == "" {
		return validator.Config{}, errors.New("token_class is required")
	}
	return validator.Config{
		Variant:      models.Variant(b.Variant),
		TokenClass:   b.TokenClass,
		Identity:     b.Identity,
		AttesterKeys: b.AttesterKeys,
		Policy:       quorum.Policy(b.Policy),
		InitialPrice: b.InitialPrice,
		SeedRef:      b.SeedRef,
	}, nil
}

type transitionBody struct {
	Proposed            *models.RegistryRecord `json:"proposed"`
	MintedDelta         int64                  `json:"minted_delta"`
	TotalReserveValue   uint64                 `json:"total_reserve_value"`
	ReserveValueChange  uint64                 `json:"reserve_value_change"`
	EvidenceFingerprint []byte                 `json:"evidence_fingerprint"`
	Message             []byte                 `json:"message"`
	Signatures          []models.Signature     `json:"signatures"`
	TokenClasses        []string               `json:"token_classes"`
}

// decodeTransition maps the wire body onto a TransitionRequest. The prior
// record and seed status are resolved by the service, never trusted from
// the client.
func decodeTransition(r *http.Request) (*models.TransitionRequest, error) {
	var body transitionBody
	if err := decodeJSON(r, &body); err != nil {
		return nil, err
	}
	return &models.TransitionRequest{
		Proposed:            body.Proposed,
		MintedDelta:         body.MintedDelta,
		TotalReserveValue:   body.TotalReserveValue,
		ReserveValueChange:  body.ReserveValueChange,
		EvidenceFingerprint: body.EvidenceFingerprint,
		Message:             body.Message,
		Signatures:          body.Signatures,
		TokenClasses:        body.TokenClasses,
	}, nil
}
