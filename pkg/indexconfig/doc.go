// Package indexconfig is the runtime contract between heron-generated code
// and a search service client.
//
// Generated files implement Provider for every annotated type:
//
//	settings := Movie{}.GenerateSettings()
//	index, err := Movie{}.GenerateIndex(ctx, client)
//
// Client is implemented by pkg/meili for the Meilisearch HTTP API; tests can
// supply their own. Setup creates every index and applies its settings in
// one call, and the package registry lets generated init functions make
// providers discoverable without listing them by hand.
package indexconfig
