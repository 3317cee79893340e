// Package auth provides the Fiber middleware guarding the admin area.
//
// RequireAuth resolves the session cookie to an admin account. Requests
// without a valid session, or whose session points at an admin that no
// longer exists, never reach the guarded handler: browser navigations are
// redirected to the login page and API style requests (XHR, JSON bodies or
// JSON-only Accept headers) receive 401 Unauthorized. Valid sessions are
// renewed on every request, giving a sliding expiry window.
package auth
