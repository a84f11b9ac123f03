package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/thereayou/classroom-chat/internal/database"
	"github.com/thereayou/classroom-chat/internal/models"
	"github.com/thereayou/classroom-chat/internal/session"
)

// MutationObserver is told about every committed message mutation.
type MutationObserver interface {
	ObserveMutation(action string)
}

type MessageService struct {
	users     UserRepository
	messages  MessageRepository
	audit     *AuditService
	broadcast Broadcaster
	observer  MutationObserver
	logger    *zap.Logger
}

func NewMessageService(
	users UserRepository,
	messages MessageRepository,
	audit *AuditService,
	broadcast Broadcaster,
	observer MutationObserver,
	logger *zap.Logger,
) *MessageService {
	return &MessageService{
		users:     users,
		messages:  messages,
		audit:     audit,
		broadcast: broadcast,
		observer:  observer,
		logger:    logger,
	}
}

func (s *MessageService) List(ctx context.Context, id session.Identity) ([]models.MessageView, error) {
	if !id.Valid() {
		return nil, authentication("authentication required")
	}
	messages, err := s.messages.ListMessages(ctx)
	if err != nil {
		s.logger.Error("list messages", zap.Error(err))
		return nil, persistence("list messages", err)
	}
	return nonNil(messages), nil
}

// Filter returns messages created inside [from, to]. A nil bound is open.
func (s *MessageService) Filter(ctx context.Context, id session.Identity, from, to *time.Time, pattern string) ([]models.MessageView, error) {
	if !id.Valid() {
		return nil, authentication("authentication required")
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, validation("from must not be after to")
	}
	messages, err := s.messages.FilterMessages(ctx, from, to, pattern)
	if err != nil {
		s.logger.Error("filter messages", zap.Error(err))
		return nil, persistence("filter messages", err)
	}
	return nonNil(messages), nil
}

func (s *MessageService) Add(ctx context.Context, id session.Identity, text string) error {
	if !id.Valid() {
		return authentication("cannot identify user")
	}
	if strings.TrimSpace(text) == "" {
		return validation("text is required")
	}

	authorID, err := s.actingUser(ctx, id)
	if err != nil {
		return err
	}

	message := &models.Message{Text: text, AuthorID: authorID, CreatedAt: time.Now().UTC()}
	if err := s.messages.CreateMessage(ctx, message); err != nil {
		s.logger.Error("create message", zap.String("username", id.Username), zap.Error(err))
		return persistence("create message", err)
	}

	s.afterCommit(ctx, id.Username, ActionAddMessage)
	return nil
}

func (s *MessageService) Edit(ctx context.Context, id session.Identity, messageID int64, newText string) error {
	if !id.Valid() {
		return authentication("cannot identify user")
	}
	if strings.TrimSpace(newText) == "" {
		return validation("new text is required")
	}

	if err := s.authorize(ctx, id, messageID, "not allowed to edit this message"); err != nil {
		return err
	}

	if err := s.messages.UpdateMessageText(ctx, messageID, newText); err != nil {
		// deleted between the ownership check and the update
		if errors.Is(err, database.ErrNotFound) {
			return forbidden("not allowed to edit this message")
		}
		s.logger.Error("update message", zap.Int64("message_id", messageID), zap.Error(err))
		return persistence("update message", err)
	}

	s.afterCommit(ctx, id.Username, ActionEditMessage)
	return nil
}

func (s *MessageService) Delete(ctx context.Context, id session.Identity, messageID int64) error {
	if !id.Valid() {
		return authentication("cannot identify user")
	}

	if err := s.authorize(ctx, id, messageID, "not allowed to delete this message"); err != nil {
		return err
	}

	if err := s.messages.DeleteMessage(ctx, messageID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return forbidden("not allowed to delete this message")
		}
		s.logger.Error("delete message", zap.Int64("message_id", messageID), zap.Error(err))
		return persistence("delete message", err)
	}

	s.afterCommit(ctx, id.Username, ActionDeleteMessage)
	return nil
}

func (s *MessageService) actingUser(ctx context.Context, id session.Identity) (int64, error) {
	userID, err := s.users.UserIDByUsername(ctx, id.Username)
	if errors.Is(err, database.ErrNotFound) {
		return 0, notFound("user not found")
	}
	if err != nil {
		s.logger.Error("resolve user", zap.String("username", id.Username), zap.Error(err))
		return 0, persistence("resolve user", err)
	}
	return userID, nil
}

// authorize fails with Forbidden for foreign, missing and invalid message ids alike.
func (s *MessageService) authorize(ctx context.Context, id session.Identity, messageID int64, denied string) error {
	actorID, err := s.actingUser(ctx, id)
	if err != nil {
		return err
	}
	owner, err := resolveOwner(ctx, s.messages, messageID)
	if err != nil {
		s.logger.Error("resolve message owner", zap.Int64("message_id", messageID), zap.Error(err))
		return persistence("resolve message owner", err)
	}
	if !owner.ownedBy(actorID) {
		return forbidden(denied)
	}
	return nil
}

// afterCommit runs the side effects of a committed write. They are detached
// from the request so a cancelled client cannot undo or fail the mutation.
func (s *MessageService) afterCommit(ctx context.Context, username, action string) {
	detached := context.WithoutCancel(ctx)
	if s.observer != nil {
		s.observer.ObserveMutation(action)
	}
	s.audit.Record(detached, username, action)
	if s.broadcast != nil {
		s.broadcast.Notify(detached)
	}
}

func nonNil(messages []models.MessageView) []models.MessageView {
	if messages == nil {
		return []models.MessageView{}
	}
	return messages
}
