package model

// Package model contains domain models/data structures.
// Models are pure domain types with no persistence-specific dependencies or
// tags, so they can be used across layers (HTTP, service, store) without
// coupling to any backend.

// Entity is the capability set every persisted domain object must satisfy:
// a stable integer identity and in-place update semantics from a DTO of the
// same type. UpdateFrom must mutate the receiver and return it — the same
// instance, not a copy — so callers holding a reference observe the update.
type Entity[T any] interface {
	// Identity returns the unique identifier. Zero means not yet assigned.
	Identity() int
	// SetIdentity assigns the identifier. Identity is never reassigned once set.
	SetIdentity(id int)
	// UpdateFrom copies the mutable fields of dto into the receiver and returns it.
	UpdateFrom(dto T) T
}

// Ptr constrains T to be a pointer to E satisfying Entity[T]. Generic code
// uses it to allocate fresh instances (T(new(E))) while keeping pointer
// semantics for UpdateFrom.
type Ptr[E any, T any] interface {
	Entity[T]
	*E
}
