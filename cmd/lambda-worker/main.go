package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=amd64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"talentflow-api/internal/bootstrap"
	"talentflow-api/internal/shared/config"
	"talentflow-api/internal/shared/metrics"
	"talentflow-api/internal/shared/telemetry"
	"talentflow-api/internal/workerproc"
)

var apps = bootstrap.NewLazy(config.Load)

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	app, err := apps.Get(ctx)
	if err != nil {
		telemetry.Error("lambda_worker.bootstrap_failed", map[string]any{"error": err.Error()})
		return events.SQSEventResponse{BatchItemFailures: allFailed(event)}, err
	}
	return processBatch(ctx, app.Screener, event), nil
}

// processBatch reports retryable failures only. Poison messages are acknowledged.
func processBatch(ctx context.Context, p workerproc.Processor, event events.SQSEvent) events.SQSEventResponse {
	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		err := workerproc.HandleMessage(ctx, p, record.Body)
		if err == nil {
			continue
		}
		fields := map[string]any{"message_id": record.MessageId, "error": err.Error()}
		if workerproc.Poison(err) {
			meta := workerproc.ComputeMeta(record.Body)
			fields["body_len"] = meta.BodyLen
			fields["body_sha"] = meta.BodySHA
			telemetry.Warn("worker.message.poison", fields)
			metrics.IncScreeningJob("poison")
			continue
		}
		telemetry.Error("worker.screening.failed", fields)
		metrics.IncScreeningJob("retry")
		failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
	}
	return events.SQSEventResponse{BatchItemFailures: failures}
}

func allFailed(event events.SQSEvent) []events.SQSBatchItemFailure {
	failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
	for _, record := range event.Records {
		failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
	}
	return failures
}

func main() {
	lambda.Start(handler)
}
