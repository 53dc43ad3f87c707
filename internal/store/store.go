package store

import (
	"context"

	"opencivics/internal/model"
	"opencivics/internal/repository"
)

// ResponseStore is the uniform read/write/delete surface over both
// persistence tiers. Callers never branch on subject id themselves; the
// ephemeral/durable dispatch lives here and only here.
type ResponseStore interface {
	SaveResponse(ctx context.Context, subjectID string, response *model.Response) error
	GetResponses(ctx context.Context, subjectID string) ([]*model.Response, error)
	DeleteAll(ctx context.Context, subjectID string) error
}

// DualStore routes ephemeral subjects (session ids carrying the reserved
// prefix) to the in-process session store and everything else to the
// durable repository.
type DualStore struct {
	sessions *SessionStore
	durable  repository.ResponseRepository
}

func NewDualStore(sessions *SessionStore, durable repository.ResponseRepository) *DualStore {
	return &DualStore{sessions: sessions, durable: durable}
}

// Sessions exposes the ephemeral tier for profile/interests bookkeeping
func (d *DualStore) Sessions() *SessionStore {
	return d.sessions
}

func (d *DualStore) SaveResponse(ctx context.Context, subjectID string, response *model.Response) error {
	response.ProfileID = subjectID

	if model.IsEphemeralID(subjectID) {
		d.sessions.SaveResponse(subjectID, response)
		return nil
	}

	if err := d.durable.Upsert(ctx, response); err != nil {
		return &model.PersistenceError{Backing: "durable", Op: "upsert response", Err: err}
	}
	return nil
}

func (d *DualStore) GetResponses(ctx context.Context, subjectID string) ([]*model.Response, error) {
	if model.IsEphemeralID(subjectID) {
		return d.sessions.Responses(subjectID), nil
	}

	responses, err := d.durable.GetByProfile(ctx, subjectID)
	if err != nil {
		return nil, &model.PersistenceError{Backing: "durable", Op: "read responses", Err: err}
	}
	return responses, nil
}

func (d *DualStore) DeleteAll(ctx context.Context, subjectID string) error {
	if model.IsEphemeralID(subjectID) {
		d.sessions.DeleteResponses(subjectID)
		return nil
	}

	if err := d.durable.DeleteByProfile(ctx, subjectID); err != nil {
		return &model.PersistenceError{Backing: "durable", Op: "delete responses", Err: err}
	}
	return nil
}
