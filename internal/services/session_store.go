package services

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/probiller/purchase-gateway/internal/data/repos"
	"github.com/probiller/purchase-gateway/internal/domain/purchase"
	"github.com/probiller/purchase-gateway/internal/platform/dbctx"
	"github.com/probiller/purchase-gateway/internal/platform/logger"
)

// SessionStore bridges the purchase aggregate and its persisted snapshot.
type SessionStore interface {
	Create(dbc dbctx.Context, p *purchase.Process) error
	Update(dbc dbctx.Context, p *purchase.Process) error
	Load(dbc dbctx.Context, id uuid.UUID) (*purchase.Process, error)
}

type sessionStore struct {
	log         *logger.Logger
	sessionRepo repos.SessionRepo
}

func NewSessionStore(log *logger.Logger, sessionRepo repos.SessionRepo) SessionStore {
	serviceLog := log.With("service", "SessionStore")
	return &sessionStore{log: serviceLog, sessionRepo: sessionRepo}
}

func (s *sessionStore) Create(dbc dbctx.Context, p *purchase.Process) error {
	id, payload, err := sessionRow(p)
	if err != nil {
		return err
	}
	if _, err := s.sessionRepo.Create(dbc.Ctx, dbc.Tx, id, p.State().Name(), payload); err != nil {
		return fmt.Errorf("create session %s: %w", id, err)
	}
	return nil
}

func (s *sessionStore) Update(dbc dbctx.Context, p *purchase.Process) error {
	id, payload, err := sessionRow(p)
	if err != nil {
		return err
	}
	if err := s.sessionRepo.SaveSnapshot(dbc.Ctx, dbc.Tx, id, p.State().Name(), payload); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

func (s *sessionStore) Load(dbc dbctx.Context, id uuid.UUID) (*purchase.Process, error) {
	row, err := s.sessionRepo.GetByID(dbc.Ctx, dbc.Tx, id)
	if err != nil {
		return nil, err
	}
	var snapshot map[string]any
	if err := json.Unmarshal(row.Payload, &snapshot); err != nil {
		return nil, fmt.Errorf("decode session %s payload: %w", id, err)
	}
	p, err := purchase.Restore(snapshot)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}
	return p, nil
}

func sessionRow(p *purchase.Process) (uuid.UUID, []byte, error) {
	id, err := uuid.Parse(p.SessionID().String())
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("session id: %w", err)
	}
	payload, err := json.Marshal(p.ToSnapshot())
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("encode session %s snapshot: %w", id, err)
	}
	return id, payload, nil
}
