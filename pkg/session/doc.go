// Package session owns the console's authenticated session: the application
// access token issued by the product API plus the user profile it belongs to.
//
// The Session has a strict invariant: access token and user are set together
// or not at all. The only write path is Manager.Materialize, which takes a
// complete exchange outcome; the only teardown path is Manager.Logout. No
// other code mutates session fields, so the invariant is enforceable at one
// choke point.
//
// Sessions persist in a Store (memory for single-instance and tests, Redis
// for real deployments) and travel to the browser as a signed opaque token in
// a cookie, so a page reload restores the session without re-authentication.
package session
