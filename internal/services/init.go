package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/probiller/purchase-gateway/internal/domain/biller"
	"github.com/probiller/purchase-gateway/internal/domain/cascade"
	"github.com/probiller/purchase-gateway/internal/domain/fraud"
	"github.com/probiller/purchase-gateway/internal/domain/item"
	"github.com/probiller/purchase-gateway/internal/domain/nextaction"
	"github.com/probiller/purchase-gateway/internal/domain/purchase"
	"github.com/probiller/purchase-gateway/internal/domain/value"
	"github.com/probiller/purchase-gateway/internal/platform/dbctx"
	"github.com/probiller/purchase-gateway/internal/platform/logger"
	"github.com/probiller/purchase-gateway/internal/realtime"
	"github.com/probiller/purchase-gateway/internal/realtime/bus"
)

// InitItemRequest is one line item of the init call, main or cross sale.
type InitItemRequest struct {
	SiteID              string  `json:"siteId"`
	BundleID            string  `json:"bundleId"`
	AddonID             string  `json:"addonId"`
	InitialAmount       float64 `json:"initialAmount"`
	InitialDays         int     `json:"initialDays"`
	RebillAmount        float64 `json:"rebillAmount"`
	RebillDays          int     `json:"rebillDays"`
	TaxName             string  `json:"taxName"`
	TaxRate             float64 `json:"taxRate"`
	IsTrial             bool    `json:"isTrial"`
	IsCrossSaleSelected bool    `json:"isCrossSaleSelected"`
	IsNSFSupported      bool    `json:"isNsfSupported"`
}

// InitRequest opens a purchase session.
type InitRequest struct {
	AtlasCode      string `json:"atlasCode"`
	AtlasData      string `json:"atlasData"`
	PublicKeyIndex int    `json:"publicKeyIndex"`

	Email       string `json:"email"`
	Username    string `json:"username"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	CountryCode string `json:"countryCode"`
	ZipCode     string `json:"zipCode"`
	City        string `json:"city"`
	PhoneNumber string `json:"phoneNumber"`
	IPAddress   string `json:"ipAddress"`

	PaymentType     string `json:"paymentType"`
	PaymentMethod   string `json:"paymentMethod"`
	Bin             string `json:"bin"`
	LastFour        string `json:"lastFour"`
	ExpirationMonth int    `json:"expirationMonth"`
	ExpirationYear  int    `json:"expirationYear"`

	Currency      string   `json:"currency"`
	BillerNames   []string `json:"billers"`
	RedirectURL   string   `json:"redirectUrl"`
	PostbackURL   string   `json:"postbackUrl"`
	TrafficSource string   `json:"trafficSource"`

	MainItem   InitItemRequest   `json:"item"`
	CrossSales []InitItemRequest `json:"crossSales"`
}

// InitResult is the init response body.
type InitResult struct {
	SessionID  string              `json:"sessionId"`
	Token      string              `json:"token"`
	NextAction nextaction.Envelope `json:"nextAction"`
	NuData     map[string]any      `json:"nuDataSettings,omitempty"`
}

type PurchaseInitService interface {
	Init(dbc dbctx.Context, req InitRequest) (*InitResult, error)
}

type purchaseInitService struct {
	db             *gorm.DB
	log            *logger.Logger
	store          SessionStore
	tokens         SessionTokenService
	fraudScorer    FraudScorer
	eventBus       bus.Bus
	defaultBillers []string
	nuData         fraud.NuDataSettings
}

func NewPurchaseInitService(
	db *gorm.DB,
	log *logger.Logger,
	store SessionStore,
	tokens SessionTokenService,
	fraudScorer FraudScorer,
	eventBus bus.Bus,
	defaultBillers []string,
	nuData fraud.NuDataSettings,
) PurchaseInitService {
	serviceLog := log.With("service", "PurchaseInitService")
	return &purchaseInitService{
		db:             db,
		log:            serviceLog,
		store:          store,
		tokens:         tokens,
		fraudScorer:    fraudScorer,
		eventBus:       eventBus,
		defaultBillers: defaultBillers,
		nuData:         nuData,
	}
}

func (s *purchaseInitService) Init(dbc dbctx.Context, req InitRequest) (*InitResult, error) {
	if _, err := value.NewEmail(req.Email); err != nil {
		return nil, err
	}
	if _, err := value.NewCountryCode(req.CountryCode); err != nil {
		return nil, err
	}
	if req.ZipCode != "" {
		if _, err := value.NewZip(req.ZipCode); err != nil {
			return nil, err
		}
	}
	if req.Username != "" {
		if _, err := value.NewUsername(req.Username); err != nil {
			return nil, err
		}
	}
	if req.PhoneNumber != "" {
		if _, err := value.NewPhoneNumber(req.PhoneNumber); err != nil {
			return nil, err
		}
	}
	if req.Bin != "" {
		if _, err := value.NewBin(req.Bin); err != nil {
			return nil, err
		}
	}
	if req.LastFour != "" {
		if _, err := value.NewLastFour(req.LastFour); err != nil {
			return nil, err
		}
	}

	names := req.BillerNames
	if len(names) == 0 {
		names = s.defaultBillers
	}
	billers, err := biller.BuildCollectionFromNames(names)
	if err != nil {
		return nil, err
	}
	casc, err := cascade.New(billers)
	if err != nil {
		return nil, err
	}

	entrySiteID, err := value.ParseSiteID(req.MainItem.SiteID)
	if err != nil {
		return nil, fmt.Errorf("entry site: %w", err)
	}

	p := purchase.Create(purchase.CreateParams{
		AtlasFields:    purchase.AtlasFields{AtlasCode: req.AtlasCode, AtlasData: req.AtlasData},
		PublicKeyIndex: req.PublicKeyIndex,
		UserInfo: purchase.UserInfo{
			Email:       req.Email,
			Username:    req.Username,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			CountryCode: req.CountryCode,
			ZipCode:     req.ZipCode,
			City:        req.City,
			PhoneNumber: req.PhoneNumber,
			IPAddress:   req.IPAddress,
		},
		PaymentInfo: purchase.PaymentInfo{
			PaymentType:     req.PaymentType,
			PaymentMethod:   req.PaymentMethod,
			Bin:             req.Bin,
			LastFour:        req.LastFour,
			ExpirationMonth: req.ExpirationMonth,
			ExpirationYear:  req.ExpirationYear,
		},
		EntrySiteID:    entrySiteID,
		Currency:       req.Currency,
		Cascade:        casc,
		NuDataSettings: s.nuData,
		RedirectURL:    req.RedirectURL,
		PostbackURL:    req.PostbackURL,
		PaymentMethod:  req.PaymentMethod,
		TrafficSource:  req.TrafficSource,
	})

	mainItem, err := buildItem(req.MainItem, false)
	if err != nil {
		return nil, fmt.Errorf("main item: %w", err)
	}
	p.AddItem(mainItem)
	for i, cs := range req.CrossSales {
		crossItem, err := buildItem(cs, true)
		if err != nil {
			return nil, fmt.Errorf("cross sale %d: %w", i, err)
		}
		p.AddItem(crossItem)
	}

	score, err := s.fraudScorer.ScoreInit(dbc.Ctx, req.IPAddress, req.Email, req.ZipCode, req.Bin)
	if err != nil {
		s.log.Warn("init fraud scoring failed; continuing without advice",
			"session_id", p.SessionID().String(), "error", err)
	}
	advice := fraud.NewAdvice(req.IPAddress, req.Email, req.ZipCode, req.Bin)
	if score != nil && score.Advice != nil {
		advice = score.Advice
	}
	p.SetFraudAdvice(advice)
	if score != nil && score.Recommendations != nil {
		if advice.IsForceThreeD() {
			score.Recommendations.ResetToDefaultIfThreeDForced()
		}
		p.SetFraudRecommendations(score.Recommendations)
	}

	if err := p.InitStateAccordingToFraudAdvice(); err != nil {
		return nil, err
	}
	if err := p.FilterBillersIfThreeDAdvised(); err != nil {
		return nil, err
	}

	currentBiller := p.Cascade().CurrentBiller()
	action, err := nextaction.CreateForInit(p.State(), currentBiller, advice, p.FraudRecommendations().First(), p.RedirectURL())
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(dbc, p); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(mustUUID(p.SessionID().String()))
	if err != nil {
		return nil, err
	}

	if _, blocked := p.State().(purchase.BlockedDueToFraudAdvice); blocked && s.eventBus != nil {
		if err := s.eventBus.Publish(dbc.Ctx, realtime.PurchaseEvent{
			Type:      realtime.EventPurchaseBlocked,
			SessionID: p.SessionID().String(),
		}); err != nil {
			s.log.Warn("publish blocked event failed", "session_id", p.SessionID().String(), "error", err)
		}
	}

	s.log.Info("purchase session opened",
		"session_id", p.SessionID().String(),
		"state", p.State().Name(),
		"current_biller", p.Cascade().CurrentBillerName(),
	)

	return &InitResult{
		SessionID:  p.SessionID().String(),
		Token:      token,
		NextAction: nextaction.Wrap(action),
		NuData:     s.nuData.ToSnapshot(),
	}, nil
}

func buildItem(req InitItemRequest, isCrossSale bool) (*item.InitializedItem, error) {
	siteID, err := value.ParseSiteID(req.SiteID)
	if err != nil {
		return nil, err
	}
	bundleID, err := value.ParseBundleID(req.BundleID)
	if err != nil {
		return nil, err
	}
	addonID, err := value.ParseAddonID(req.AddonID)
	if err != nil {
		return nil, err
	}
	initial, err := value.NewAmountFromFloat(req.InitialAmount)
	if err != nil {
		return nil, err
	}

	var charge value.ChargeInformation
	if req.RebillDays > 0 {
		rebill, err := value.NewAmountFromFloat(req.RebillAmount)
		if err != nil {
			return nil, err
		}
		charge, err = value.NewChargeInformation(initial, req.InitialDays, rebill, req.RebillDays)
		if err != nil {
			return nil, err
		}
	} else {
		charge, err = value.NewSingleChargeInformation(initial, req.InitialDays)
		if err != nil {
			return nil, err
		}
	}

	it := item.NewInitializedItem(
		value.NewItemID(), siteID, bundleID, addonID,
		charge,
		value.TaxInformation{TaxName: req.TaxName, TaxRate: req.TaxRate},
		isCrossSale, req.IsTrial, req.IsCrossSaleSelected,
	)
	it.SetNSFSupported(req.IsNSFSupported)
	return it, nil
}
