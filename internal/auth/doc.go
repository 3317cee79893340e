// Package auth authenticates back office admins against the local database.
//
// Passwords are stored as Argon2id hashes. LocalProvider verifies credentials,
// creates and looks up admins and creates the first admin from configuration
// when the table is empty (EnsureBootstrapAdmin).
package auth
