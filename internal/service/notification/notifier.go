package notification

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/concreto/internal/domain/models"
	client "github.com/mamadbah2/concreto/pkg/clients/whatsapp"
)

// Notifier pushes short operator messages.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// WhatsAppNotifier delivers notifications to the configured operator over WhatsApp.
type WhatsAppNotifier struct {
	client     client.Client
	operatorID string
	logger     *zap.Logger
}

// NewWhatsAppNotifier wires a WhatsApp-backed notifier.
func NewWhatsAppNotifier(c client.Client, operatorID string, logger *zap.Logger) *WhatsAppNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppNotifier{client: c, operatorID: operatorID, logger: logger}
}

// Notify sends message to the operator.
func (n *WhatsAppNotifier) Notify(ctx context.Context, message string) error {
	return n.SendOutbound(ctx, models.OutboundMessageRequest{To: n.operatorID, Message: message})
}

// SendOutbound sends an arbitrary outbound message.
func (n *WhatsAppNotifier) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	if req.Message == "" {
		return errors.New("empty notification body")
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := n.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		n.logger.Error("failed to send notification", zap.String("to", req.To), zap.Error(err))
		return err
	}

	n.logger.Info("notification sent", zap.String("to", req.To))
	return nil
}

// LogNotifier only logs messages. It is used when no messaging channel is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier builds a notifier that writes to the log.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the message.
func (n *LogNotifier) Notify(_ context.Context, message string) error {
	n.logger.Info("notification (no channel configured)", zap.String("message", message))
	return nil
}
