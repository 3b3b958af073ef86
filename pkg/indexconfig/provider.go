package indexconfig

import "context"

// Provider is implemented by generated code for each annotated type.
type Provider interface {
	// IndexName returns the index the type is stored in.
	IndexName() string
	// GenerateSettings returns the full settings of the index. List
	// settings are always present so applying them resets stale values.
	GenerateSettings() *Settings
	// GenerateIndex creates the index and waits for the creation task.
	GenerateIndex(ctx context.Context, client Client) (*Index, error)
}

// Client is the subset of a search service API used by generated code.
type Client interface {
	CreateIndex(ctx context.Context, uid string, primaryKey *string) (*TaskInfo, error)
	WaitForTask(ctx context.Context, taskUID int64) (*Task, error)
	UpdateSettings(ctx context.Context, uid string, settings *Settings) (*TaskInfo, error)
}

// PrimaryKey returns a pointer to name, for CreateIndex.
func PrimaryKey(name string) *string {
	return &name
}
