package indexconfig

import (
	"context"
	"fmt"
)

// Index is a handle to an existing index.
type Index struct {
	UID    string
	client Client
}

// NewIndex binds uid to client.
func NewIndex(uid string, client Client) *Index {
	return &Index{UID: uid, client: client}
}

// UpdateSettings applies settings and waits until the server has processed
// them.
func (i *Index) UpdateSettings(ctx context.Context, settings *Settings) (*Task, error) {
	info, err := i.client.UpdateSettings(ctx, i.UID, settings)
	if err != nil {
		return nil, fmt.Errorf("update settings of %s: %w", i.UID, err)
	}

	task, err := i.client.WaitForTask(ctx, info.TaskUID)
	if err != nil {
		return nil, err
	}
	if err := task.succeeded(); err != nil {
		return nil, err
	}
	return task, nil
}
