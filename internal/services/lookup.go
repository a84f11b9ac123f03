package services

import (
	"context"
	"errors"

	"github.com/thereayou/classroom-chat/internal/database"
)

type lookupState int

const (
	lookupInvalid lookupState = iota
	lookupNotFound
	lookupFound
)

// ownerLookup is the result of resolving who wrote a message.
type ownerLookup struct {
	state lookupState
	id    int64
}

func (l ownerLookup) ownedBy(userID int64) bool {
	return l.state == lookupFound && l.id == userID
}

func resolveOwner(ctx context.Context, repo MessageRepository, messageID int64) (ownerLookup, error) {
	if messageID <= 0 {
		return ownerLookup{state: lookupInvalid}, nil
	}
	owner, err := repo.MessageAuthorID(ctx, messageID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return ownerLookup{state: lookupNotFound}, nil
	case err != nil:
		return ownerLookup{}, err
	}
	return ownerLookup{state: lookupFound, id: owner}, nil
}
