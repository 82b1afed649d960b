package domain

import "time"

// BaseAggregateRoot is an entity that records domain events until a command
// handler drains them into the outbox.
type BaseAggregateRoot struct {
	BaseEntity
	events []DomainEvent
}

// NewBaseAggregateRoot creates an aggregate with a fresh identity.
func NewBaseAggregateRoot(now time.Time) BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(now)}
}

// RehydrateBaseAggregateRoot recreates an aggregate from persisted state.
func RehydrateBaseAggregateRoot(entity BaseEntity) BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: entity}
}

// Record appends an uncommitted event.
func (a *BaseAggregateRoot) Record(event DomainEvent) {
	a.events = append(a.events, event)
}

// PendingEvents returns the uncommitted events without clearing them.
func (a *BaseAggregateRoot) PendingEvents() []DomainEvent {
	out := make([]DomainEvent, len(a.events))
	copy(out, a.events)
	return out
}

// PullEvents returns the uncommitted events and clears them.
func (a *BaseAggregateRoot) PullEvents() []DomainEvent {
	out := a.PendingEvents()
	a.events = nil
	return out
}
