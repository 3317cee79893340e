// Package main provides the entry point for poolsite, the website of a pool
// and spa business. It serves the public pages (products, portfolio, events
// calendar and the inquiry form) and an admin back office for managing the
// catalog, media library, inquiries and site settings using the Fiber
// framework, with gorm for persistence.
package main
