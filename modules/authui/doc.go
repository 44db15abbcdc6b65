// Package authui is the HTTP surface of the sign-in flow: provider
// initiation, callback handling for both the redirect and popup variants,
// the success and error pages, and logout.
//
// The callback handler is the only place an authorization code is
// exchanged. The popup variant never exchanges inside the popup; it renders
// a page that posts the callback parameters to its opener, and the opener
// submits them to the complete endpoint.
package authui
