package aws

import (
	"context"
	"errors"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// ErrNoTopic is returned when a publish is attempted without a topic ARN.
var ErrNoTopic = errors.New("sns: empty topic arn")

// SNSPublisher publishes raw event payloads.
type SNSPublisher interface {
	Publish(ctx context.Context, topicArn string, message []byte) error
}

// SubjectPublisher publishes human-readable alerts that carry an email subject.
type SubjectPublisher interface {
	PublishWithSubject(ctx context.Context, topicArn, subject string, message []byte) error
}

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSClient struct {
	client snsAPI
}

func NewSNSClient(cfg sdkaws.Config) *SNSClient {
	return &SNSClient{client: sns.NewFromConfig(cfg)}
}

func (s *SNSClient) Publish(ctx context.Context, topicArn string, message []byte) error {
	return s.publish(ctx, topicArn, "", message)
}

// PublishWithSubject sets the Subject attribute used by email subscriptions.
// SNS rejects subjects longer than 100 characters, so longer ones are cut.
func (s *SNSClient) PublishWithSubject(ctx context.Context, topicArn, subject string, message []byte) error {
	if len(subject) > 100 {
		subject = subject[:100]
	}
	return s.publish(ctx, topicArn, subject, message)
}

func (s *SNSClient) publish(ctx context.Context, topicArn, subject string, message []byte) error {
	if topicArn == "" {
		return ErrNoTopic
	}
	input := &sns.PublishInput{
		TopicArn: sdkaws.String(topicArn),
		Message:  sdkaws.String(string(message)),
	}
	if subject != "" {
		input.Subject = sdkaws.String(subject)
	}
	if _, err := s.client.Publish(ctx, input); err != nil {
		return fmt.Errorf("sns publish failed for topic %s: %w", topicArn, err)
	}
	return nil
}
