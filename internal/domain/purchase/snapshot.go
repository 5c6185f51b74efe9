package purchase

import (
	"fmt"

	"github.com/probiller/purchase-gateway/internal/domain/cascade"
	"github.com/probiller/purchase-gateway/internal/domain/fraud"
	"github.com/probiller/purchase-gateway/internal/domain/item"
	"github.com/probiller/purchase-gateway/internal/domain/value"
)

// ToSnapshot serializes the aggregate into the session mapping. The key set
// is fixed; session consumers (and Restore) depend on exactly these keys and
// no others.
func (p *Process) ToSnapshot() map[string]any {
	var fraudAdvice map[string]any
	if p.fraudAdvice != nil {
		fraudAdvice = p.fraudAdvice.ToSnapshot()
	}
	var memberID, purchaseID, subscriptionID any
	if !p.memberID.IsZero() {
		memberID = p.memberID.String()
	}
	if !p.purchaseID.IsZero() {
		purchaseID = p.purchaseID.String()
	}
	if !p.subscriptionID.IsZero() {
		subscriptionID = p.subscriptionID.String()
	}
	return map[string]any{
		"atlasFields":                   p.atlasFields.ToSnapshot(),
		"cascade":                       p.cascade.ToSnapshot(),
		"fraudAdvice":                   fraudAdvice,
		"fraudRecommendationCollection": p.fraudRecommendations.ToSnapshot(),
		"nuDataSettings":                p.nuDataSettings.ToSnapshot(),
		"initializedItemCollection":     p.items.ToSnapshot(),
		"paymentType":                   p.paymentInfo.PaymentType,
		"publicKeyIndex":                p.publicKeyIndex,
		"sessionId":                     p.sessionID.String(),
		"state":                         p.state.Name(),
		"userInfo":                      p.userInfo.ToSnapshot(),
		"gatewaySubmitNumber":           p.gatewaySubmitNumber,
		"isExpired":                     p.isExpired,
		"memberId":                      memberID,
		"purchaseId":                    purchaseID,
		"subscriptionId":                subscriptionID,
		"entrySiteId":                   p.entrySiteID.String(),
		"paymentTemplateCollection":     p.paymentTemplates.ToSnapshot(),
		"existingMember":                p.existingMember,
		"currency":                      p.currency,
		"redirectUrl":                   p.redirectURL,
		"postbackUrl":                   p.postbackURL,
		"paymentMethod":                 p.paymentMethod,
		"trafficSource":                 p.trafficSource,
		"skipVoid":                      p.skipVoid,
		"paymentTemplateId":             p.paymentTemplateID,
		"creditCardWasBlacklisted":      p.creditCardWasBlacklisted,
	}
}

// Restore reconstructs the aggregate from a session snapshot. It is a pure
// function of the snapshot: no hidden process-wide state participates.
func Restore(data map[string]any) (*Process, error) {
	sessionID, err := value.ParseSessionID(snapString(data, "sessionId"))
	if err != nil {
		return nil, err
	}
	state, err := StateFromName(snapString(data, "state"))
	if err != nil {
		return nil, err
	}
	cascadeData, err := snapMap(data, "cascade")
	if err != nil {
		return nil, err
	}
	casc, err := cascade.FromSnapshot(cascadeData)
	if err != nil {
		return nil, err
	}
	entrySiteID, err := value.ParseSiteID(snapString(data, "entrySiteId"))
	if err != nil {
		return nil, err
	}

	itemRows, err := snapMapSlice(data, "initializedItemCollection")
	if err != nil {
		return nil, err
	}
	items, err := item.CollectionFromSnapshot(itemRows)
	if err != nil {
		return nil, err
	}

	recRows, err := snapMapSlice(data, "fraudRecommendationCollection")
	if err != nil {
		return nil, err
	}
	recommendations, err := fraud.CollectionFromSnapshot(recRows)
	if err != nil {
		return nil, err
	}

	templateRows, err := snapMapSlice(data, "paymentTemplateCollection")
	if err != nil {
		return nil, err
	}

	atlasData, err := snapMap(data, "atlasFields")
	if err != nil {
		return nil, err
	}
	userData, err := snapMap(data, "userInfo")
	if err != nil {
		return nil, err
	}
	nuDataData, err := snapMap(data, "nuDataSettings")
	if err != nil {
		return nil, err
	}

	p := &Process{
		sessionID:      sessionID,
		atlasFields:    AtlasFieldsFromSnapshot(atlasData),
		publicKeyIndex: snapInt(data, "publicKeyIndex"),
		userInfo:       UserInfoFromSnapshot(userData),
		paymentInfo: PaymentInfo{
			PaymentType:   snapString(data, "paymentType"),
			PaymentMethod: snapString(data, "paymentMethod"),
		},
		items:                    items,
		entrySiteID:              entrySiteID,
		currency:                 snapString(data, "currency"),
		state:                    state,
		cascade:                  casc,
		nuDataSettings:           fraud.NuDataSettingsFromSnapshot(nuDataData),
		fraudRecommendations:     recommendations,
		paymentTemplates:         PaymentTemplateCollectionFromSnapshot(templateRows),
		gatewaySubmitNumber:      snapInt(data, "gatewaySubmitNumber"),
		isExpired:                snapBool(data, "isExpired"),
		existingMember:           snapBool(data, "existingMember"),
		redirectURL:              snapString(data, "redirectUrl"),
		postbackURL:              snapString(data, "postbackUrl"),
		paymentMethod:            snapString(data, "paymentMethod"),
		trafficSource:            snapString(data, "trafficSource"),
		skipVoid:                 snapBool(data, "skipVoid"),
		paymentTemplateID:        snapString(data, "paymentTemplateId"),
		creditCardWasBlacklisted: snapBool(data, "creditCardWasBlacklisted"),
	}

	if advData, err := snapMap(data, "fraudAdvice"); err == nil && len(advData) > 0 {
		p.fraudAdvice = fraud.AdviceFromSnapshot(advData)
	}

	if raw := snapString(data, "memberId"); raw != "" {
		id, err := value.ParseMemberID(raw)
		if err != nil {
			return nil, err
		}
		p.memberID = id
	}
	if raw := snapString(data, "purchaseId"); raw != "" {
		id, err := value.ParsePurchaseID(raw)
		if err != nil {
			return nil, err
		}
		p.purchaseID = id
	}
	if raw := snapString(data, "subscriptionId"); raw != "" {
		id, err := value.ParseSubscriptionID(raw)
		if err != nil {
			return nil, err
		}
		p.subscriptionID = id
	}
	return p, nil
}

func snapString(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func snapBool(data map[string]any, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

func snapInt(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func snapMap(data map[string]any, key string) (map[string]any, error) {
	switch v := data[key].(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	default:
		return nil, fmt.Errorf("%s: expected object, got %T", key, data[key])
	}
}

func snapMapSlice(data map[string]any, key string) ([]map[string]any, error) {
	switch v := data[key].(type) {
	case nil:
		return nil, nil
	case []map[string]any:
		return v, nil
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, e := range v {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s: expected object, got %T", key, e)
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: expected list, got %T", key, data[key])
	}
}
