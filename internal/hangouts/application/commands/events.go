package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/hangouts/domain"
	sharedApplication "github.com/felixgeelhaar/rendezvous/internal/shared/application"
	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/outbox"
)

// saveWithEvents persists the hangout and its pending domain events in the
// unit of work carried by txCtx.
func saveWithEvents(txCtx context.Context, repo domain.Repository, outboxRepo outbox.Repository, h *domain.Hangout, actor uuid.UUID) error {
	if err := repo.Save(txCtx, h); err != nil {
		return err
	}

	events := h.PullEvents()
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(actor))

	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	return outboxRepo.SaveBatch(txCtx, msgs)
}
