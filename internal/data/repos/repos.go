package repos

import (
	"gorm.io/gorm"

	"github.com/probiller/purchase-gateway/internal/data/repos/purchase"
	"github.com/probiller/purchase-gateway/internal/data/repos/session"
	"github.com/probiller/purchase-gateway/internal/data/repos/templateevent"
	"github.com/probiller/purchase-gateway/internal/platform/logger"
)

type SessionRepo = session.SessionRepo
type PurchaseRepo = purchase.PurchaseRepo
type TemplateEventRepo = templateevent.TemplateEventRepo

var ErrSessionNotFound = session.ErrSessionNotFound

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return session.NewSessionRepo(db, baseLog)
}

func NewPurchaseRepo(db *gorm.DB, baseLog *logger.Logger) PurchaseRepo {
	return purchase.NewPurchaseRepo(db, baseLog)
}

func NewTemplateEventRepo(db *gorm.DB, baseLog *logger.Logger) TemplateEventRepo {
	return templateevent.NewTemplateEventRepo(db, baseLog)
}
