package domain

// Admin is an operator account allowed to mutate data. Only the credential
// check touches this type; everything else identifies admins by ID.
type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
	PasswordSalt string
}
