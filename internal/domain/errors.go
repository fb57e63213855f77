package domain

import "errors"

var (
	// ErrInvalidCiphertext indicates a stored secret that fails integrity checks.
	ErrInvalidCiphertext = errors.New("auth: invalid ciphertext")
	// ErrStateMismatch indicates the OAuth state cookie and query value disagree.
	ErrStateMismatch = errors.New("auth: oauth state mismatch")
	// ErrMissingCode indicates a provider callback without an authorization code.
	ErrMissingCode = errors.New("auth: missing authorization code")
	// ErrNoEmail indicates the provider account exposes no usable email.
	ErrNoEmail = errors.New("auth: provider account has no email")
	// ErrNotAllowed indicates the resolved email may not log in as admin.
	ErrNotAllowed = errors.New("auth: email not allowed")
	// ErrProviderNotConfigured indicates missing OAuth client credentials.
	ErrProviderNotConfigured = errors.New("auth: provider not configured")
	// ErrNotConnected indicates no stored link exists for the requested provider.
	ErrNotConnected = errors.New("auth: provider not connected")
	// ErrAdminExists rejects bootstrap once an admin record is present.
	ErrAdminExists = errors.New("auth: admin already exists")
	// ErrAdminNotFound signals the absence of any admin record.
	ErrAdminNotFound = errors.New("auth: admin not found")
)
