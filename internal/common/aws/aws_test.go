// internal/common/aws/aws_test.go
package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type mockSES struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type mockSNS struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Tests
// ==========================

func TestSendTextEmail(t *testing.T) {
	svc := &mockSES{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			assert.Equal(t, "reviewer@lender.in", params.Destination.ToAddresses[0])
			assert.Equal(t, "alerts@lender.in", *params.Source)
			assert.Equal(t, "Verification flagged", *params.Message.Subject.Data)
			assert.Nil(t, params.Message.Body.Html)
			return &ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
		},
	}

	id, err := SendTextEmail(context.Background(), svc, "alerts@lender.in", "reviewer@lender.in", "Verification flagged", "body")
	require.NoError(t, err)
	assert.Equal(t, "ses-1", id)
}

func TestSendTextEmail_Error(t *testing.T) {
	svc := &mockSES{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("SES service unavailable")
		},
	}

	_, err := SendTextEmail(context.Background(), svc, "a@b.in", "c@d.in", "s", "b")
	assert.Error(t, err)
}

func TestPublishSMS(t *testing.T) {
	tests := []struct {
		name       string
		senderID   string
		wantSender bool
	}{
		{name: "with sender id", senderID: "VERIFY", wantSender: true},
		{name: "without sender id", senderID: "", wantSender: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSNS{
				PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
					assert.Equal(t, "+919876543210", *params.PhoneNumber)
					_, hasSender := params.MessageAttributes["AWS.SNS.SMS.SenderID"]
					assert.Equal(t, tt.wantSender, hasSender)
					assert.Equal(t, "Transactional", *params.MessageAttributes["AWS.SNS.SMS.SMSType"].StringValue)
					return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
				},
			}

			id, err := PublishSMS(context.Background(), svc, "+919876543210", tt.senderID, "flagged")
			require.NoError(t, err)
			assert.Equal(t, "sns-1", id)
		})
	}
}
