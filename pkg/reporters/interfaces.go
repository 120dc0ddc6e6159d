package reporters

import "context"

// Reporter sends call records to a downstream sink (HTTP, SQS, SNS, Pub/Sub).
type Reporter interface {
	ID() string
	Type() string
	Report(ctx context.Context, evt Event) error
}
