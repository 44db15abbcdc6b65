// Package cookie manages HMAC-signed browser cookies.
//
// The console stores only opaque references in cookies (session tokens, flow
// identifiers); signing guarantees they were produced by this service and
// have not been tampered with. Secrets rotate without invalidating existing
// cookies: the first secret signs new cookies, every configured secret
// verifies.
package cookie
