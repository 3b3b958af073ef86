// Package meili is a small Meilisearch client implementing
// indexconfig.Client, enough to apply generated index providers:
//
//	client := meili.New("http://localhost:7700", meili.WithAPIKey(key))
//	indexes, err := indexconfig.Setup(ctx, client)
//
// Tasks are polled at a constant interval until they finish, the
// configured maximum wait elapses, or the context is canceled.
package meili
