// Package gateway authenticates two account classes (customer and company)
// against separate per-tenant stores and gates a tenant-routed resource
// behind signed session tokens.
//
// Account lifecycle:
//   - Accounts live in exactly one tenant store, selected by AccountType at
//     registration. Email is unique across both stores; the existence check
//     runs against both concurrently, but no cross-store transaction exists,
//     so simultaneous registrations with the same email can race (see
//     Registry.Register).
//   - Company accounts carry a TOTP secret and a VerificationState that moves
//     from pending to verified exactly once, via Verifier.VerifyCode. Customer
//     accounts have no verification state at all.
//
// Sessions:
//   - TokenService signs HS256 JWTs with a fixed expiry carrying the account
//     id, type, and a verified flag. The flag is unconditionally true for
//     customers and mirrors the stored state for companies; it is the only
//     authorization input ResourceGateway consults.
//
// Every operation returns either a success payload or an error convertible
// to a non-empty ErrorList of {message, code} pairs via AsErrorList.
package gateway
