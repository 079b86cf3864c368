// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/lambda"
	extract "github.com/hashicorp/go-sah-extract"
	"github.com/hashicorp/go-sah-extract/archive"
	"github.com/hashicorp/go-sah-extract/telemetry"
)

// main starts the lambda function. It is configured by the environment:
//
//	SAH_EVENT_BUS       publish telemetry to this EventBridge bus
//	SAH_MAX_FILES       maximum files and folders (default: unlimited)
//	SAH_MAX_SIZE        maximum extraction size in bytes (default: unlimited)
//	SAH_NAME_ENCODING   character encoding of names (default: raw, names are kept unchanged)
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	h, err := newHandler(context.Background(), logger, os.Getenv)
	if err != nil {
		logger.Error("failed to configure handler", "err", err)
		os.Exit(1)
	}
	lambda.Start(h.Handle)
}

// newHandler configures a [Handler] from the environment
func newHandler(ctx context.Context, logger *slog.Logger, getenv func(string) string) (*Handler, error) {
	enc, err := archive.LookupEncoding(envOr(getenv, "SAH_NAME_ENCODING", "raw"))
	if err != nil {
		return nil, err
	}
	maxFiles, err := strconv.ParseInt(envOr(getenv, "SAH_MAX_FILES", "-1"), 10, 64)
	if err != nil {
		return nil, err
	}
	maxSize, err := strconv.ParseInt(envOr(getenv, "SAH_MAX_SIZE", "-1"), 10, 64)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		Options: []extract.ConfigOption{
			extract.WithLogger(logger),
			extract.WithMaxFiles(maxFiles),
			extract.WithMaxExtractionSize(maxSize),
			extract.WithNameEncoding(enc),
		},
	}

	if bus := getenv("SAH_EVENT_BUS"); len(bus) > 0 {
		client, err := telemetry.NewEventBridgeClient(ctx)
		if err != nil {
			return nil, err
		}
		h.Publish = telemetry.NewEventBridgeHook(client, bus, telemetry.DefaultSource, logger)
	}
	return h, nil
}

func envOr(getenv func(string) string, key string, fallback string) string {
	if v := getenv(key); len(v) > 0 {
		return v
	}
	return fallback
}
