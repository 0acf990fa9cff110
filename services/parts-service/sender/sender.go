package sender

import (
	"context"

	awspkg "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/aws"
)

// Notifier delivers a human-readable alert to whoever subscribes to it.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
	Configured() bool
}

// SNSNotifier publishes alerts to the reminders topic; email subscribers see
// the subject line.
type SNSNotifier struct {
	client   awspkg.SubjectPublisher
	topicArn string
}

func NewSNSNotifier(client awspkg.SubjectPublisher, topicArn string) *SNSNotifier {
	return &SNSNotifier{client: client, topicArn: topicArn}
}

func (n *SNSNotifier) Configured() bool {
	return n != nil && n.client != nil && n.topicArn != ""
}

func (n *SNSNotifier) Notify(ctx context.Context, subject, body string) error {
	if !n.Configured() {
		return awspkg.ErrNoTopic
	}
	return n.client.PublishWithSubject(ctx, n.topicArn, subject, []byte(body))
}
