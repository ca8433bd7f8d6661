package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// SMTPNotifier mails the uploader when a job exhausts its retries.
// Plain unauthenticated SMTP against an internal submission host.
type SMTPNotifier struct {
	host   string
	port   int
	from   string
	logger *zap.Logger
}

func NewSMTPNotifier(host string, port int, from string, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{host: host, port: port, from: from, logger: logger}
}

func (n *SMTPNotifier) NotifyFailure(_ context.Context, userEmail, jobID, videoKey, errorMsg string) error {
	msg := failureMessage(n.from, userEmail, jobID, videoKey, errorMsg)

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	if err := smtp.SendMail(addr, nil, n.from, []string{userEmail}, msg); err != nil {
		n.logger.Error("failure notification not sent",
			zap.String("to", userEmail),
			zap.String("job_id", jobID),
			zap.Error(err),
		)
		return fmt.Errorf("send email: %w", err)
	}

	n.logger.Info("failure notification sent",
		zap.String("to", userEmail),
		zap.String("job_id", jobID),
	)
	return nil
}

func failureMessage(from, to, jobID, videoKey, errorMsg string) []byte {
	headers := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: DeepSecure - video analysis failed [job %s]\r\n\r\n",
		from, to, jobID,
	)

	body := strings.Join([]string{
		"Hello,",
		"",
		"The authenticity analysis of your video failed permanently after all retry attempts.",
		"",
		"Job ID: " + jobID,
		"Video: " + videoKey,
		"Error: " + errorMsg,
		"",
		"You can upload the video again to start a new analysis, or contact support with the job ID.",
		"",
		"-- DeepSecure Analysis Service",
	}, "\r\n")

	return []byte(headers + body)
}
