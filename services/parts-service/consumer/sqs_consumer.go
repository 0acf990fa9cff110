package consumer

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	awspkg "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/aws"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/reorder"
)

// Scanner is satisfied by services.ReorderService.
type Scanner interface {
	Check(ctx context.Context, userID string, notify bool) (*reorder.Result, error)
}

// ReorderTrigger runs the low-stock scan for every message on the schedule
// queue. EventBridge rules, SNS fan-out and hand-sent messages all work; a
// message carrying a userId narrows the scan to that user.
type ReorderTrigger struct {
	scanner Scanner
	metrics awspkg.MetricsRecorder
	logger  *zap.Logger
}

func NewReorderTrigger(scanner Scanner, metrics awspkg.MetricsRecorder, logger *zap.Logger) *ReorderTrigger {
	return &ReorderTrigger{scanner: scanner, metrics: metrics, logger: logger}
}

// snsEnvelope unwraps the SNS → SQS message wrapper
type snsEnvelope struct {
	Type    string `json:"Type"`
	Message string `json:"Message"`
}

type trigger struct {
	Source string `json:"source"`
	UserID string `json:"userId"`
}

// Handle is an awspkg.MessageHandler. A failed scan returns the error so the
// message is redelivered.
func (t *ReorderTrigger) Handle(ctx context.Context, body string) error {
	msg := parse(body)

	result, err := t.scanner.Check(ctx, msg.UserID, true)
	if err != nil {
		t.logger.Error("scheduled reorder check failed", zap.String("source", msg.Source), zap.Error(err))
		return err
	}
	if t.metrics != nil {
		_ = t.metrics.RecordCount(ctx, awspkg.MetricSQSMessages, map[string]string{"Queue": "reorder"})
	}
	t.logger.Info("Stock check completed",
		zap.String("source", msg.Source),
		zap.Int("lowStockCount", len(result.LowStockItems)),
		zap.Int("reorderTasksCount", len(result.ReorderTasks)),
	)
	return nil
}

func parse(body string) trigger {
	var env snsEnvelope
	if err := json.Unmarshal([]byte(body), &env); err == nil && env.Message != "" {
		body = env.Message
	}
	var msg trigger
	// anything unparseable is still a tick
	_ = json.Unmarshal([]byte(body), &msg)
	return msg
}

// Start polls until ctx is cancelled.
func Start(ctx context.Context, c *awspkg.SQSConsumer, t *ReorderTrigger) {
	if err := c.StartPolling(ctx, t.Handle); err != nil && ctx.Err() == nil {
		t.logger.Error("reorder queue consumer stopped", zap.Error(err))
	}
}
