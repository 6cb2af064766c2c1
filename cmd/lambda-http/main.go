package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"talentflow-api/internal/bootstrap"
	"talentflow-api/internal/shared/config"
	"talentflow-api/internal/shared/telemetry"
)

var apps = bootstrap.NewLazy(config.Load)

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	app, err := apps.Get(ctx)
	if err != nil {
		telemetry.Error("lambda_http.bootstrap_failed", map[string]any{"error": err.Error()})
		body, _ := json.Marshal(map[string]any{"error": map[string]string{"code": "internal_error", "message": "bootstrap failed"}})
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       string(body),
			Headers:    map[string]string{"Content-Type": "application/json"},
		}, nil
	}
	return adapterFor(app).ProxyWithContext(ctx, req)
}

var (
	adapterMu sync.Mutex
	adapter   *ginadapter.GinLambdaV2
)

func adapterFor(app *bootstrap.App) *ginadapter.GinLambdaV2 {
	adapterMu.Lock()
	defer adapterMu.Unlock()
	if adapter == nil {
		adapter = ginadapter.NewV2(app.Router)
	}
	return adapter
}

func main() {
	lambda.Start(handler)
}
