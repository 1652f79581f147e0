// Package server holds the HTTP server configuration: listen port, optional
// API key, upload size limit, and the default reconciliation profile path.
package server
