package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"talentflow-api/internal/shared/util"
)

const defaultRegion = "us-east-1"

// ErrNoQueueURL is returned when SQS is selected without a queue URL.
var ErrNoQueueURL = errors.New("SQS_QUEUE_URL is required")

type sendAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSClient publishes screening jobs to SQS. On FIFO queues messages are
// grouped per application and deduplicated by application and enqueue time.
type SQSClient struct {
	client   sendAPI
	queueURL string
	fifo     bool
}

// NewSQSClient loads the default AWS credential chain for region.
func NewSQSClient(ctx context.Context, region, queueURL string) (*SQSClient, error) {
	queueURL = strings.TrimSpace(queueURL)
	if queueURL == "" {
		return nil, ErrNoQueueURL
	}
	if strings.TrimSpace(region) == "" {
		region = defaultRegion
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newSQSClient(sqs.NewFromConfig(cfg), queueURL), nil
}

func newSQSClient(client sendAPI, queueURL string) *SQSClient {
	return &SQSClient{client: client, queueURL: queueURL, fifo: strings.HasSuffix(queueURL, ".fifo")}
}

// Send publishes msg. The request ID travels as a message attribute too so
// it shows up in the console without decoding the body.
func (s *SQSClient) Send(ctx context.Context, msg Message) error {
	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode sqs message: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(payload)),
	}
	if msg.RequestID != "" {
		input.MessageAttributes = map[string]sqstypes.MessageAttributeValue{
			"requestId": {DataType: aws.String("String"), StringValue: aws.String(msg.RequestID)},
		}
	}
	if s.fifo {
		input.MessageGroupId = aws.String(msg.ApplicationID)
		input.MessageDeduplicationId = aws.String(util.HashKey(msg.ApplicationID + "|" + msg.EnqueuedAt))
	}

	if _, err := s.client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("sqs send message: %w", err)
	}
	return nil
}

var _ Client = (*SQSClient)(nil)
