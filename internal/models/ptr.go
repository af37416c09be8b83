package models

// Ptr returns a pointer to v. Handy for populating optional fields.
func Ptr[T any](v T) *T {
	return &v
}
