// Package api defines the petpals.v1 Connect services: message types,
// procedure names, handler constructors and clients.
//
// Messages are plain Go structs carried as JSON. Every handler and client
// built here uses the package's JSON codec, so any Connect client that
// speaks application/json can call the server.
package api
