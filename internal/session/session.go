// Package session carries the authenticated caller through core operations explicitly,
// instead of reading an ambient process-wide client.
package session

import (
	apperrors "drive-service/pkg/errors"

	"github.com/google/uuid"
)

const msgMissingOwner = "no active session"

type Session struct {
	OwnerID uuid.UUID
}

func New(ownerID uuid.UUID) (Session, error) {
	if ownerID == uuid.Nil {
		return Session{}, apperrors.Unauthorized(msgMissingOwner)
	}
	return Session{OwnerID: ownerID}, nil
}

func (s Session) Valid() bool {
	return s.OwnerID != uuid.Nil
}
