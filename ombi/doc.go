// Package ombi provides a client for interacting with the Ombi API.
//
// Ombi is a request management tool for Plex/Jellyfin/Emby media servers.
// Unlike a server-wide integration, every chat user talks to their own Ombi
// server with their own bearer token, so clients are constructed per command
// invocation from the user's stored server address and token.
//
// # Architecture
//
//   - Client: the API client; bearer auth, context-aware requests
//   - Types: domain models (requests, child requests, seasons, episodes,
//     search results) with pointer booleans so absent fields stay
//     distinguishable from false
//   - Errors: sentinel errors plus APIError with classification helpers
//
// # Usage
//
//	client, err := ombi.NewClient("https://ombi.example.com", token, logger)
//	if err != nil {
//		return err
//	}
//	requests, err := client.Requests(ctx, ombi.MediaTypeMovie)
//
// # Error Handling
//
// A rejected token surfaces as ErrUnauthorized so callers can prompt the user
// to log in again. Other non-2xx responses produce an *APIError carrying the
// status code and body.
package ombi
