package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"talentflow-api/internal/bootstrap"
	"talentflow-api/internal/shared/config"
	"talentflow-api/internal/shared/metrics"
	"talentflow-api/internal/shared/telemetry"
	"talentflow-api/internal/workerproc"
)

const defaultRegion = "us-east-1"

func main() {
	cfg := config.Load()

	queueURL := strings.TrimSpace(cfg.SQSQueueURL)
	if queueURL == "" {
		telemetry.Error("worker.config_invalid", map[string]any{"error": "SQS_QUEUE_URL is required"})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	region := cfg.AWSRegion
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		telemetry.Error("worker.aws_config_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	var sqsClient sqsAPI = sqs.NewFromConfig(awsCfg)

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		telemetry.Error("worker.bootstrap_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer app.Close()

	concurrency := max(1, cfg.WorkerConcurrency)
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	telemetry.Info("worker.started", map[string]any{
		"concurrency":        concurrency,
		"visibility_seconds": cfg.SQSVisibilityTimeout,
	})

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		resp, err := sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:                    aws.String(queueURL),
			MaxNumberOfMessages:         10,
			WaitTimeSeconds:             20,
			VisibilityTimeout:           int32(cfg.SQSVisibilityTimeout),
			MessageSystemAttributeNames: []sqstypes.MessageSystemAttributeName{sqstypes.MessageSystemAttributeNameApproximateReceiveCount},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break pollLoop
			}
			telemetry.Warn("worker.receive_failed", map[string]any{"error": err.Error()})
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			metrics.IncScreeningJob("received")
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				handleMessage(context.WithoutCancel(ctx), sqsClient, queueURL, app.Screener, m)
			}(msg)
		}
	}

	telemetry.Info("worker.shutdown_requested", map[string]any{"timeout": cfg.ShutdownTimeout.String()})
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(cfg.ShutdownTimeout):
		telemetry.Warn("worker.shutdown_timeout", nil)
	}
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// handleMessage deletes the message on success and on poison payloads.
// Processing errors leave it for redelivery after the visibility timeout.
func handleMessage(ctx context.Context, client sqsAPI, queueURL string, p workerproc.Processor, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)

	decoded, meta, err := workerproc.ParseMessage(body)
	if err != nil {
		var missing workerproc.ErrMissingApplicationID
		requestID := ""
		if errors.As(err, &missing) {
			requestID = missing.RequestID
		}
		fields := baseFields(msg, "", requestID)
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		fields["error"] = err.Error()
		telemetry.Error("worker.screening.unrecoverable", fields)
		if deleteMessage(ctx, client, queueURL, msg, "", requestID) {
			metrics.IncScreeningJob("deleted_unrecoverable")
		}
		return
	}

	telemetry.Info("worker.screening.received", baseFields(msg, decoded.ApplicationID, decoded.RequestID))

	if err := workerproc.HandleMessage(workerproc.WithParsedMessage(ctx, decoded), p, body); err != nil {
		fields := baseFields(msg, decoded.ApplicationID, decoded.RequestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.screening.failed", fields)
		metrics.IncScreeningJob("retry")
		return
	}

	if deleteMessage(ctx, client, queueURL, msg, decoded.ApplicationID, decoded.RequestID) {
		telemetry.Info("worker.screening.completed", baseFields(msg, decoded.ApplicationID, decoded.RequestID))
	}
}

func deleteMessage(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message, applicationID, requestID string) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		fields := baseFields(msg, applicationID, requestID)
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.screening.delete_failed", fields)
		return false
	}
	if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields := baseFields(msg, applicationID, requestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.screening.delete_failed", fields)
		return false
	}
	return true
}

func baseFields(msg sqstypes.Message, applicationID, requestID string) map[string]any {
	fields := map[string]any{
		"application_id": applicationID,
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if strings.TrimSpace(requestID) != "" {
		fields["request_id"] = requestID
	}
	return fields
}

func receiveCount(msg sqstypes.Message) int {
	raw := msg.Attributes[string(sqstypes.MessageSystemAttributeNameApproximateReceiveCount)]
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}
