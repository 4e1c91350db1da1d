// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

// Package auth provides authentication primitives for TaskLight.
//
// # Domain Types
//
// User records should be created with NewUser, which validates the
// username and email before the record ever reaches a repository.
// Direct struct initialization bypasses validation and may create
// invalid state.
//
// # Services
//
// Service orchestrates the authentication flow: Register creates a
// credential record (and does not itself authenticate), Login verifies
// a password and mints a session token, Authenticate resolves a token
// back to the current User on every request.
//
// Session tokens are stateless: a signed claim of "this username, until
// this instant". There is no server-side session table and no revocation
// list; logging out only clears the client's cookie, and a captured
// token stays valid until its natural expiry. This is a known limitation
// of the design, not an oversight.
package auth
