// internal/workers/verification/notify-verification-alert/handler_test.go
package notifyverificationalert

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"field-verification/internal/common/errors"
	"field-verification/internal/common/logger"
	"field-verification/internal/common/validation"
	"field-verification/pkg/registry"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	calls         int
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.calls++
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	calls       int
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.calls++
	return m.PublishFunc(ctx, params, optFns...)
}

func okSES(t *testing.T, wantTo string) *MockSESService {
	return &MockSESService{SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		assert.Equal(t, wantTo, params.Destination.ToAddresses[0])
		assert.Equal(t, "alerts@fieldverify.in", aws.ToString(params.Source))
		return &ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
	}}
}

func okSNS(t *testing.T, wantPhone string) *MockSNSService {
	return &MockSNSService{PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
		assert.Equal(t, wantPhone, aws.ToString(params.PhoneNumber))
		assert.Contains(t, aws.ToString(params.Message), "APP-1")
		return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
	}}
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:       5 * time.Second,
		SMSEnabled:    true,
		EmailEnabled:  true,
		SenderID:      "FLDVRF",
		FromEmail:     "alerts@fieldverify.in",
		ReviewerEmail: "review@fieldverify.in",
	}
}

func createTestInput(verdict string) *Input {
	return &Input{
		ApplicationID:  "APP-1",
		VerificationID: "ver-1",
		Kind:           "plate",
		Verdict:        verdict,
		Score:          72.73,
		Reasons:        []string{"Hard mismatch in critical fields (phone/name/make/color)."},
		OfficerPhone:   "98765 43210",
	}
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "test-process",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func newValidator(t *testing.T) *validation.SchemaValidator {
	reg, err := registry.Default()
	require.NoError(t, err)
	v, err := validation.NewSchemaValidator(reg)
	require.NoError(t, err)
	return v
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, nil, newValidator(t), logger.NewTestLogger(t))

	input, err := handler.parseInput(createMockJob(9, map[string]interface{}{
		"applicationId":  "APP-1",
		"verificationId": "ver-1",
		"kind":           "document",
		"verdict":        "likely_fake",
		"score":          41.2,
		"reasons":        []string{"phone mismatch (0.0%)"},
	}))
	require.NoError(t, err)
	assert.Equal(t, "document", input.Kind)
	assert.Equal(t, 41.2, input.Score)

	_, err = handler.parseInput(createMockJob(10, map[string]interface{}{
		"applicationId":  "APP-1",
		"verificationId": "ver-1",
		"kind":           "face",
		"verdict":        "likely_fake",
	}))
	require.Error(t, err)
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeInvalidInput, stdErr.Code)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Sent(t *testing.T) {
	tests := []struct {
		name         string
		configure    func(c *Config, in *Input)
		wantChannels []string
		wantEmailTo  string
	}{
		{
			name:         "sms and email",
			configure:    func(*Config, *Input) {},
			wantChannels: []string{ChannelSMS, ChannelEmail},
			wantEmailTo:  "review@fieldverify.in",
		},
		{
			name: "input reviewer overrides config",
			configure: func(_ *Config, in *Input) {
				in.ReviewerEmail = "lead@fieldverify.in"
			},
			wantChannels: []string{ChannelSMS, ChannelEmail},
			wantEmailTo:  "lead@fieldverify.in",
		},
		{
			name: "email only when officer phone is short",
			configure: func(_ *Config, in *Input) {
				in.OfficerPhone = "12345"
			},
			wantChannels: []string{ChannelEmail},
			wantEmailTo:  "review@fieldverify.in",
		},
		{
			name: "sms only when email disabled",
			configure: func(c *Config, _ *Input) {
				c.EmailEnabled = false
			},
			wantChannels: []string{ChannelSMS},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			input := createTestInput("rejected")
			tt.configure(cfg, input)

			mockSES := okSES(t, tt.wantEmailTo)
			mockSNS := okSNS(t, "+919876543210")
			handler := NewHandler(cfg, mockSES, mockSNS, nil, logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), input)
			require.NoError(t, err)

			assert.Equal(t, StatusSent, output.Status)
			assert.NotEmpty(t, output.NotificationID)
			assert.Equal(t, tt.wantChannels, output.Channels)
			require.Len(t, output.Deliveries, len(tt.wantChannels))
			for _, d := range output.Deliveries {
				assert.Equal(t, StatusSent, d.Status)
				assert.Equal(t, "verification_alert", d.Type)
				assert.NotEmpty(t, d.SentAt)
				assert.NotEmpty(t, d.Payload["messageId"])
			}
		})
	}
}

func TestHandler_Execute_NoAlert(t *testing.T) {
	tests := []struct {
		name       string
		verdict    string
		configure  func(c *Config)
		wantStatus string
	}{
		{name: "trusted document", verdict: "trusted", configure: func(*Config) {}, wantStatus: StatusSkipped},
		{name: "all channels disabled", verdict: "likely_fake", configure: func(c *Config) {
			c.SMSEnabled, c.EmailEnabled = false, false
		}, wantStatus: StatusDisabled},
		{name: "no from address", verdict: "suspicious", configure: func(c *Config) {
			c.SMSEnabled, c.FromEmail = false, ""
		}, wantStatus: StatusDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			tt.configure(cfg)

			mockSES := okSES(t, "review@fieldverify.in")
			mockSNS := okSNS(t, "+919876543210")
			handler := NewHandler(cfg, mockSES, mockSNS, nil, logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), createTestInput(tt.verdict))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, output.Status)
			assert.Empty(t, output.Channels)
			assert.Zero(t, mockSES.calls)
			assert.Zero(t, mockSNS.calls)
		})
	}
}

func TestHandler_Execute_PartialFailure(t *testing.T) {
	mockSES := &MockSESService{SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		return nil, stderrors.New("MessageRejected: Email address is not verified")
	}}
	mockSNS := okSNS(t, "+919876543210")
	handler := NewHandler(createTestConfig(), mockSES, mockSNS, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput("likely_fake"))
	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, []string{ChannelSMS}, output.Channels)
	require.Len(t, output.Deliveries, 2)
	assert.Equal(t, StatusFailed, output.Deliveries[1].Status)
	assert.Contains(t, output.Deliveries[1].Payload["error"], "MessageRejected")
}

func TestHandler_Execute_AllChannelsFail(t *testing.T) {
	mockSES := &MockSESService{SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		return nil, stderrors.New("throttling")
	}}
	mockSNS := &MockSNSService{PublishFunc: func(context.Context, *sns.PublishInput, ...func(*sns.Options)) (*sns.PublishOutput, error) {
		return nil, stderrors.New("opted out")
	}}
	handler := NewHandler(createTestConfig(), mockSES, mockSNS, nil, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), createTestInput("rejected"))
	require.Error(t, err)
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
}

func TestHandler_Execute_Throttled(t *testing.T) {
	cfg := createTestConfig()
	cfg.RatePerMinute = 1
	cfg.Burst = 1

	mockSES := okSES(t, "review@fieldverify.in")
	mockSNS := okSNS(t, "+919876543210")
	handler := NewHandler(cfg, mockSES, mockSNS, nil, logger.NewTestLogger(t))

	first, err := handler.Execute(context.Background(), createTestInput("rejected"))
	require.NoError(t, err)
	assert.Equal(t, StatusSent, first.Status)

	second, err := handler.Execute(context.Background(), createTestInput("rejected"))
	require.NoError(t, err)
	assert.Equal(t, StatusThrottled, second.Status)
	assert.Equal(t, 1, mockSNS.calls)
	assert.Equal(t, 1, mockSES.calls)
}

// ==========================
// Template Tests
// ==========================

func TestRenderTemplate(t *testing.T) {
	data := map[string]interface{}{"applicationId": "APP-1", "score": 72.7272, "count": 3}

	assert.Equal(t, "APP-1 scored 72.73 (3)", renderTemplate("{{applicationId}} scored {{score}} ({{count}})", data))
	assert.Equal(t, "missing: ", renderTemplate("missing: {{unknown}}", data))
	assert.Equal(t, "open {{ brace", renderTemplate("open {{ brace", data))
}

func TestTemplates_CoverKindsAndChannels(t *testing.T) {
	for _, kind := range []string{"document", "plate"} {
		for _, ch := range []string{ChannelSMS, ChannelEmail} {
			tmpl := templateFor(kind, ch)
			assert.NotEmpty(t, tmpl.Body, kind+"."+ch)
		}
		assert.NotEmpty(t, templateFor(kind, ChannelEmail).Subject)
	}
}
