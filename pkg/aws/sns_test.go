package aws

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{}, nil
}

func TestSNSClient_PublishWithSubject(t *testing.T) {
	fake := &fakeSNS{}
	c := &SNSClient{client: fake}

	err := c.PublishWithSubject(context.Background(), "arn:topic", "Low Stock Alert: 2 part(s) need reordering", []byte("body"))
	require.NoError(t, err)
	require.Len(t, fake.inputs, 1)
	assert.Equal(t, "arn:topic", *fake.inputs[0].TopicArn)
	assert.Equal(t, "Low Stock Alert: 2 part(s) need reordering", *fake.inputs[0].Subject)
	assert.Equal(t, "body", *fake.inputs[0].Message)
}

func TestSNSClient_TruncatesLongSubject(t *testing.T) {
	fake := &fakeSNS{}
	c := &SNSClient{client: fake}

	require.NoError(t, c.PublishWithSubject(context.Background(), "arn:topic", strings.Repeat("x", 150), []byte("b")))
	assert.Len(t, *fake.inputs[0].Subject, 100)
}

func TestSNSClient_PublishWithoutSubject(t *testing.T) {
	fake := &fakeSNS{}
	c := &SNSClient{client: fake}

	require.NoError(t, c.Publish(context.Background(), "arn:topic", []byte(`{"a":1}`)))
	assert.Nil(t, fake.inputs[0].Subject)
}

func TestSNSClient_Errors(t *testing.T) {
	c := &SNSClient{client: &fakeSNS{err: errors.New("boom")}}

	assert.ErrorIs(t, c.Publish(context.Background(), "", nil), ErrNoTopic)
	err := c.Publish(context.Background(), "arn:topic", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
