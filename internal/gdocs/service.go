package gdocs

import (
	"context"
	"fmt"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Service exposes the document operations the agent can invoke. It wraps the
// Google Docs API for document content and the Drive API for search and
// comments, sharing one authenticated client.
type Service struct {
	docs  *docs.Service
	drive *drive.Service
}

// NewService constructs the Docs and Drive clients. The caller supplies the
// authentication option (or a test endpoint); construction fails loudly so the
// process never starts with a nil document service.
func NewService(ctx context.Context, opts ...option.ClientOption) (*Service, error) {
	docsSvc, err := docs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create docs service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Service{docs: docsSvc, drive: driveSvc}, nil
}
