// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package telemetry publishes [extract.TelemetryData] to external services.
//
// [NewEventBridgeHook] returns an [extract.TelemetryHook] that sends one
// Amazon EventBridge event per extraction:
//
//	client, err := telemetry.NewEventBridgeClient(ctx)
//	if err != nil {
//		// handle error
//	}
//	cfg := extract.NewConfig(
//		extract.WithTelemetryHook(telemetry.NewEventBridgeHook(client, "default", telemetry.DefaultSource, logger)),
//	)
package telemetry
