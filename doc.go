// Package auth issues, validates, and revokes opaque session credentials
// and password-reset tokens backed by a persistent user store.
//
// Credential model:
//   - Passwords are stored as salted bcrypt digests only; the plaintext is
//     never persisted or logged. HashPassword and ComparePasswordAndHash
//     wrap the bcrypt primitives.
//   - Session and reset tokens are opaque random strings with equality-only
//     semantics. A user holds at most one of each at any time; issuing a new
//     token silently invalidates the previous one.
//
// Storage:
//   - UserStore is the persistence contract. The package ships a Bun-backed
//     repository (NewUsersRepository) and an in-memory store
//     (NewMemoryUserStore) for tests and embedders that bring their own
//     backend. Lookups use a closed QueryField enum and updates a closed
//     UserPatch structure, so unknown fields are rejected at compile time.
//
// HTTP:
//   - AuthController plus RegisterAuthRoutes wire the JSON endpoints
//     (register, login/logout, profile, password reset) onto a go-router
//     application. Session identity travels in an HTTP-only cookie.
package auth
