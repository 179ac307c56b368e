// Package client performs HTTP requests against the modelfan platform API:
// multi-model prompt completions and image generation. Requests carry a
// bearer token obtained from an auth.TokenSource, responses decode into the
// pkg/api types, and non-2xx statuses map to typed *api.APIError values.
//
// The client returns completion payloads exactly as the platform sent them;
// Complete additionally runs the selection + parse pipeline for callers that
// want a single post-processed completion.
package client
