package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"mintguard/internal/registry/models"
	"mintguard/internal/registry/quorum"
	"mintguard/internal/registry/service/mocks"
	"mintguard/internal/registry/store/asset"
	"mintguard/internal/registry/validator"
	"mintguard/pkg/domain"
	dErrors "mintguard/pkg/domain-errors"
	"mintguard/pkg/platform/audit"
	"mintguard/pkg/platform/sentinel"
)

type ServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	records *mocks.MockRecordStore
	seeds   *mocks.MockSeedStore
	assets  *mocks.MockAssetStore
	auditor *mocks.MockAuditPublisher
	svc     *Service

	cfg    validator.Config
	anchor domain.Anchor
	priv   ed25519.PrivateKey
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.records = mocks.NewMockRecordStore(s.ctrl)
	s.seeds = mocks.NewMockSeedStore(s.ctrl)
	s.assets = mocks.NewMockAssetStore(s.ctrl)
	s.auditor = mocks.NewMockAuditPublisher(s.ctrl)

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	s.Require().NoError(err)
	s.priv = priv
	s.cfg = validator.Config{
		Variant:    models.VariantAggregateReserve,
		TokenClass: "aBTC",
		Identity: models.Identity{
			Kind:       string(models.VariantAggregateReserve),
			Venue:      "ethereum",
			Underlying: "0xreserve",
			Ticker:     "aBTC",
			Decimals:   8,
		},
		AttesterKeys: [][]byte{pub},
		Policy:       quorum.PolicySimpleMajority,
		InitialPrice: 1200,
		SeedRef:      "seed#0",
	}
	s.anchor = domain.DeriveAnchor("aBTC", "ethereum", "aBTC")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.svc, err = New(s.assets, s.records, s.seeds,
		WithLogger(logger), WithAuditPublisher(s.auditor))
	s.Require().NoError(err)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) definition() *asset.Definition {
	return &asset.Definition{ID: domain.NewAssetID(), Anchor: s.anchor, Config: s.cfg}
}

func (s *ServiceSuite) genesisRecord() *models.RegistryRecord {
	return &models.RegistryRecord{
		Version:  models.SchemaVersion,
		Extra:    models.ExtraUnused,
		Identity: s.cfg.Identity,
		Display:  models.Display{Name: "Aggregate BTC"},
	}
}

func (s *ServiceSuite) TestConstructorRequiresStores() {
	_, err := New(nil, s.records, s.seeds)
	s.Error(err)
	_, err = New(s.assets, nil, s.seeds)
	s.Error(err)
	_, err = New(s.assets, s.records, nil)
	s.Error(err)
}

func (s *ServiceSuite) TestApplyInitialization() {
	ctx := context.Background()
	rec := s.genesisRecord()

	s.assets.EXPECT().Get(gomock.Any(), s.anchor).Return(s.definition(), nil)
	s.records.EXPECT().Get(gomock.Any(), s.anchor).Return(nil, sentinel.ErrNotFound)
	s.seeds.EXPECT().Spent(gomock.Any(), "seed#0").Return(false, nil)
	s.seeds.EXPECT().Consume(gomock.Any(), "seed#0").Return(nil)
	s.records.EXPECT().Create(gomock.Any(), s.anchor, rec).Return(nil)
	s.auditor.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, ev audit.Event) error {
			s.Equal(audit.ActionRecordInitialized, ev.Action)
			s.Equal(audit.CategoryCompliance, ev.Category)
			return nil
		})

	got, err := s.svc.Apply(ctx, s.anchor, &models.TransitionRequest{Proposed: rec})
	s.NoError(err)
	s.Equal(rec, got)
}

func (s *ServiceSuite) TestApplyReinitializationRejected() {
	ctx := context.Background()

	s.assets.EXPECT().Get(gomock.Any(), s.anchor).Return(s.definition(), nil)
	s.records.EXPECT().Get(gomock.Any(), s.anchor).Return(nil, sentinel.ErrNotFound)
	s.seeds.EXPECT().Spent(gomock.Any(), "seed#0").Return(true, nil)
	s.auditor.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, ev audit.Event) error {
			s.Equal(audit.ActionTransitionRejected, ev.Action)
			s.Equal(string(validator.CodeSeedNotConsumed), ev.Code)
			return nil
		})

	_, err := s.svc.Apply(ctx, s.anchor, &models.TransitionRequest{Proposed: s.genesisRecord()})
	s.True(validator.IsCode(err, validator.CodeSeedNotConsumed), "got %v", err)
}

func (s *ServiceSuite) TestApplyMint() {
	ctx := context.Background()
	evidence := []byte("transfer#1")
	msg := []byte("mint 90")

	prior := s.genesisRecord()
	prior.Supply = 1000
	prior.Tracking = models.Tracking{SupplyAfterLastMint: 1000, LastMintTransferID: []byte("transfer#0")}

	proposed := prior.Clone()
	proposed.Supply = 1090
	proposed.Tracking = models.Tracking{SupplyAfterLastMint: 1090, LastMintTransferID: evidence}

	req := &models.TransitionRequest{
		Proposed:            proposed,
		MintedDelta:         90,
		TotalReserveValue:   1_100_000,
		ReserveValueChange:  100_000,
		EvidenceFingerprint: evidence,
		Message:             msg,
		Signatures: []models.Signature{{
			PublicKey: s.priv.Public().(ed25519.PublicKey),
			Bytes:     ed25519.Sign(s.priv, msg),
		}},
		TokenClasses: []string{"aBTC"},
	}

	s.assets.EXPECT().Get(gomock.Any(), s.anchor).Return(s.definition(), nil)
	s.records.EXPECT().Get(gomock.Any(), s.anchor).Return(prior, nil)
	s.records.EXPECT().Swap(gomock.Any(), s.anchor, uint64(1000), proposed).Return(nil)
	s.auditor.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, ev audit.Event) error {
			s.Equal(audit.ActionTransitionAccepted, ev.Action)
			s.Equal(int64(90), ev.MintedDelta)
			return nil
		})

	got, err := s.svc.Apply(ctx, s.anchor, req)
	s.NoError(err)
	s.Equal(uint64(1090), got.Supply)
}

func (s *ServiceSuite) TestApplyLostSwapIsConflict() {
	ctx := context.Background()
	prior := s.genesisRecord()
	prior.Supply = 100
	proposed := prior.Clone()
	proposed.Supply = 50

	req := &models.TransitionRequest{
		Proposed:     proposed,
		MintedDelta:  -50,
		TokenClasses: []string{"aBTC"},
	}

	s.assets.EXPECT().Get(gomock.Any(), s.anchor).Return(s.definition(), nil)
	s.records.EXPECT().Get(gomock.Any(), s.anchor).Return(prior, nil)
	s.auditor.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
	s.records.EXPECT().Swap(gomock.Any(), s.anchor, uint64(100), proposed).Return(sentinel.ErrConflict)

	_, err := s.svc.Apply(ctx, s.anchor, req)
	s.Equal(dErrors.CodeConflict, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestDecideDoesNotPersist() {
	ctx := context.Background()
	rec := s.genesisRecord()

	s.assets.EXPECT().Get(gomock.Any(), s.anchor).Return(s.definition(), nil)
	s.records.EXPECT().Get(gomock.Any(), s.anchor).Return(nil, sentinel.ErrNotFound)
	s.seeds.EXPECT().Spent(gomock.Any(), "seed#0").Return(false, nil)
	// No Create, no Consume, no compliance event.

	verdict, err := s.svc.Decide(ctx, s.anchor, &models.TransitionRequest{Proposed: rec})
	s.NoError(err)
	s.True(verdict.Accepted)
}

func (s *ServiceSuite) TestDecideRejectionCarriesVerdict() {
	ctx := context.Background()
	prior := s.genesisRecord()
	prior.Supply = 10
	proposed := prior.Clone()
	proposed.Identity.Ticker = "xBTC"
	proposed.Supply = 10

	s.assets.EXPECT().Get(gomock.Any(), s.anchor).Return(s.definition(), nil)
	s.records.EXPECT().Get(gomock.Any(), s.anchor).Return(prior, nil)
	s.auditor.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	verdict, err := s.svc.Decide(ctx, s.anchor, &models.TransitionRequest{Proposed: proposed})
	s.NoError(err)
	s.False(verdict.Accepted)
	s.Equal(validator.CodeImmutableFieldViolation, verdict.Reject.Code)
	s.Equal("ticker", verdict.Reject.Field)
}

func (s *ServiceSuite) TestUnknownAssetIsNotFound() {
	ctx := context.Background()
	s.assets.EXPECT().Get(gomock.Any(), s.anchor).Return(nil, sentinel.ErrNotFound)

	_, err := s.svc.Decide(ctx, s.anchor, &models.TransitionRequest{})
	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestRegisterAsset() {
	ctx := context.Background()
	s.assets.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil)
	s.auditor.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	def, err := s.svc.RegisterAsset(ctx, s.cfg)
	s.NoError(err)
	s.Equal(s.anchor, def.Anchor)

	s.Run("duplicate registration conflicts", func() {
		s.assets.EXPECT().Put(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)
		_, err := s.svc.RegisterAsset(ctx, s.cfg)
		s.Equal(dErrors.CodeConflict, dErrors.CodeOf(err))
	})

	s.Run("invalid config rejected before storage", func() {
		bad := s.cfg
		bad.AttesterKeys = nil
		_, err := s.svc.RegisterAsset(ctx, bad)
		s.Equal(dErrors.CodeInvalidInput, dErrors.CodeOf(err))
	})
}
