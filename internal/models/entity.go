package models

// Entity is implemented by every record served through the generic query layer.
type Entity interface {
	// ModelName is the display name used in response messages.
	ModelName() string
	// FromJSON populates a new record from a create payload. The returned error
	// text is shown to the client as-is.
	FromJSON(payload []byte) error
	// UniqueKwargs returns the column filter that must not match an existing row
	// before the record is inserted.
	UniqueKwargs() map[string]any
	// Update applies the recognised fields of content and reports whether
	// anything changed.
	Update(content map[string]any) bool
}

// EntityPtr constrains a type parameter to a pointer to T that implements Entity.
type EntityPtr[T any] interface {
	*T
	Entity
}

// All returns every entity so callers can run migrations in one place.
func All() []interface{} {
	return []interface{}{
		&RoleType{},
		&SupportedLanguage{},
		&CourseLocation{},
		&Student{},
		&Course{},
		&StudentAnswer{},
	}
}
