// Package consoleclient implements the authenticated session core shared by
// every surface of the OpsDesk console: a single bearer credential per
// process, propagated across all HTTP client configurations, with central
// 401 handling and a guarded redirect to the login entry point.
//
// Construct a Core once, then any number of Clients bound to it:
//
//	core := consoleclient.NewCore(nil, nav, consoleclient.Policy{}, log)
//	api, _ := consoleclient.NewClient(core, "https://api.opsdesk.example")
//	core.Session().Bootstrap(ctx)
//
// All state (credential store, header synchronizer, session) lives on the
// Core; there are no package-level globals.
package consoleclient
