// internal/workers/verification/notify-verification-alert/handler.go
package notifyverificationalert

import (
	"context"
	"strings"
	"time"

	commonaws "field-verification/internal/common/aws"
	"field-verification/internal/common/camunda"
	"field-verification/internal/common/errors"
	"field-verification/internal/common/logger"
	"field-verification/internal/common/validation"
	"field-verification/internal/models"
	"field-verification/internal/verification/normalize"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const TaskType = "notify-verification-alert"

// alertVerdicts are the verdicts and levels that warrant a reviewer alert.
var alertVerdicts = map[string]bool{
	"likely_fake": true,
	"suspicious":  true,
	"rejected":    true,
}

type Handler struct {
	config     *Config
	sesClient  commonaws.SESService
	snsClient  commonaws.SNSService
	limiter    *rate.Limiter
	validator  *validation.SchemaValidator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

// NewHandler builds the alert handler. Either client may be nil, which
// disables that channel.
func NewHandler(config *Config, sesClient commonaws.SESService, snsClient commonaws.SNSService, validator *validation.SchemaValidator, log logger.Logger) *Handler {
	var limiter *rate.Limiter
	if config.RatePerMinute > 0 {
		burst := config.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RatePerMinute/60), burst)
	}

	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		sesClient:  sesClient,
		snsClient:  snsClient,
		limiter:    limiter,
		validator:  validator,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	return camunda.Complete(ctx, client, job, output)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := h.validator.DecodeJob(TaskType, job, &input); err != nil {
		return nil, err
	}
	return &input, nil
}

type delivery struct {
	channel   string
	recipient string
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if !alertVerdicts[strings.ToLower(input.Verdict)] {
		return &Output{Status: StatusSkipped, Channels: []string{}}, nil
	}

	targets := h.targets(input)
	if len(targets) == 0 {
		h.logger.Info("no alert channel available", map[string]interface{}{
			"applicationId": input.ApplicationID,
		})
		return &Output{Status: StatusDisabled, Channels: []string{}}, nil
	}

	if h.limiter != nil && !h.limiter.Allow() {
		h.logger.Warn("alert throttled", map[string]interface{}{
			"applicationId":  input.ApplicationID,
			"verificationId": input.VerificationID,
		})
		return &Output{Status: StatusThrottled, Channels: []string{}}, nil
	}

	notificationID := uuid.New().String()
	data := renderData(input)
	createdAt := h.now().Format(time.RFC3339)

	out := &Output{NotificationID: notificationID, Channels: []string{}}
	var lastErr error
	var failed []string

	for _, t := range targets {
		tmpl := templateFor(input.Kind, t.channel)
		subject := renderTemplate(tmpl.Subject, data)
		body := renderTemplate(tmpl.Body, data)

		var messageID string
		var err error
		switch t.channel {
		case ChannelSMS:
			messageID, err = commonaws.PublishSMS(ctx, h.snsClient, t.recipient, h.config.SenderID, body)
		case ChannelEmail:
			messageID, err = commonaws.SendTextEmail(ctx, h.sesClient, h.config.FromEmail, t.recipient, subject, body)
		}

		n := models.Notification{
			ID:             uuid.New().String(),
			ApplicationID:  input.ApplicationID,
			VerificationID: input.VerificationID,
			Type:           "verification_alert",
			Channel:        t.channel,
			Payload:        map[string]interface{}{"recipient": t.recipient, "subject": subject},
			CreatedAt:      createdAt,
		}
		if err != nil {
			h.logger.Error("alert delivery failed", map[string]interface{}{
				"channel": t.channel,
				"error":   err.Error(),
			})
			n.Status = StatusFailed
			n.Payload["error"] = err.Error()
			lastErr = err
			failed = append(failed, t.channel)
		} else {
			n.Status = StatusSent
			n.SentAt = h.now().Format(time.RFC3339)
			n.Payload["messageId"] = messageID
			out.Channels = append(out.Channels, t.channel)
		}
		out.Deliveries = append(out.Deliveries, n)
	}

	if len(out.Channels) == 0 {
		return nil, errors.NewNotificationSendFailedError(strings.Join(failed, ","), lastErr)
	}

	out.Status = StatusSent
	h.logger.Info("verification alert sent", map[string]interface{}{
		"notificationId": notificationID,
		"applicationId":  input.ApplicationID,
		"channels":       out.Channels,
		"failed":         failed,
	})
	return out, nil
}

// targets lists the channels that are enabled and have a recipient.
func (h *Handler) targets(input *Input) []delivery {
	var out []delivery

	if h.config.SMSEnabled && h.snsClient != nil {
		if phone := normalize.Phone(input.OfficerPhone); phone != "" {
			out = append(out, delivery{channel: ChannelSMS, recipient: "+91" + phone})
		}
	}

	if h.config.EmailEnabled && h.sesClient != nil && h.config.FromEmail != "" {
		to := input.ReviewerEmail
		if to == "" {
			to = h.config.ReviewerEmail
		}
		if to != "" {
			out = append(out, delivery{channel: ChannelEmail, recipient: to})
		}
	}

	return out
}
