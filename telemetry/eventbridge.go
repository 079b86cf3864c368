// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchevents"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchevents/types"
	extract "github.com/hashicorp/go-sah-extract"
)

//go:generate mockgen -destination=mock_eventputter_test.go -package=telemetry_test . EventPutter

const (
	// DefaultSource is the event source used by the command line tools
	DefaultSource = "go-sah-extract"

	// DetailType is the detail type of every published event
	DetailType = "sah extraction"
)

// EventPutter is the part of the EventBridge API used to publish events.
// [*cloudwatchevents.Client] implements it.
type EventPutter interface {
	PutEvents(ctx context.Context, params *cloudwatchevents.PutEventsInput, optFns ...func(*cloudwatchevents.Options)) (*cloudwatchevents.PutEventsOutput, error)
}

// logger is the subset of [*log/slog.Logger] used by the hook
type logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// NewEventBridgeClient creates an EventBridge client from the default AWS
// configuration chain (environment, shared config, instance role).
func NewEventBridgeClient(ctx context.Context) (*cloudwatchevents.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return cloudwatchevents.NewFromConfig(cfg), nil
}

// NewEventBridgeHook returns a hook that publishes the telemetry data of an
// extraction as event on bus. Publishing failures are logged and otherwise
// ignored, the result of the extraction is not affected.
func NewEventBridgeHook(client EventPutter, bus string, source string, logger logger) extract.TelemetryHook {
	return func(ctx context.Context, td *extract.TelemetryData) {
		if err := publish(ctx, client, bus, source, td); err != nil {
			logger.Error("failed to publish telemetry", "bus", bus, "err", err)
			return
		}
		logger.Debug("published telemetry", "bus", bus, "root", td.ArchiveRoot)
	}
}

// publish sends td as a single event entry
func publish(ctx context.Context, client EventPutter, bus string, source string, td *extract.TelemetryData) error {
	detail, err := json.Marshal(td)
	if err != nil {
		return fmt.Errorf("failed to encode telemetry: %w", err)
	}

	out, err := client.PutEvents(ctx, &cloudwatchevents.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				Detail:       aws.String(string(detail)),
				DetailType:   aws.String(DetailType),
				EventBusName: aws.String(bus),
				Source:       aws.String(source),
				Time:         aws.Time(time.Now()),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to put event: %w", err)
	}

	// a rejected entry does not fail the request
	for _, entry := range out.Entries {
		if entry.ErrorCode != nil {
			return fmt.Errorf("event rejected: %s: %s", aws.ToString(entry.ErrorCode), aws.ToString(entry.ErrorMessage))
		}
	}
	return nil
}
