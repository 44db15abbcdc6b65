// Package apiclient is the console's typed client for the Perimetra product
// API. The console holds no data of its own: authentication, user profiles,
// and workspace membership all live behind this API, and the client exposes
// exactly the calls the sign-in and workspace flows need.
//
// Error handling is deliberately split in two: transport-level failures (no
// response at all) surface as ErrNetwork, while any HTTP response outside the
// 2xx range becomes an *APIError carrying the status code and the backend's
// detail message. Callers classify from there; this package never retries,
// because the authorization codes it trades in are single-use.
package apiclient
