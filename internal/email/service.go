package email

import (
	"context"
)

// Service sends a pre-rendered message. Subject and content are composed
// upstream, when the delivery row is queued.
type Service interface {
	SendCustom(ctx context.Context, to string, subject string, content string) error
}
