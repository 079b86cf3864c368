// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"

	extract "github.com/hashicorp/go-sah-extract"
)

// Event is the input of the lambda function. All paths refer to a
// filesystem mounted into the function, e.g. Amazon EFS.
type Event struct {
	Header string `json:"header"`
	Data   string `json:"data"`
	Output string `json:"output"`
}

// Handler extracts the archive named by an [Event]
type Handler struct {
	// Options are applied to the configuration of every extraction
	Options []extract.ConfigOption

	// Publish is called with the telemetry of every extraction, if set
	Publish extract.TelemetryHook
}

// Handle extracts the archive and returns the telemetry of the extraction.
// The telemetry is returned for failed extractions as well.
func (h *Handler) Handle(ctx context.Context, e Event) (*extract.TelemetryData, error) {
	if len(e.Header) == 0 || len(e.Data) == 0 || len(e.Output) == 0 {
		return nil, fmt.Errorf("header, data and output are required")
	}

	var td *extract.TelemetryData
	hook := func(ctx context.Context, d *extract.TelemetryData) {
		td = d
		if h.Publish != nil {
			h.Publish(ctx, d)
		}
	}

	opts := append(append([]extract.ConfigOption{}, h.Options...), extract.WithTelemetryHook(hook))
	err := extract.Unpack(ctx, e.Header, e.Data, e.Output, extract.NewTargetDisk(), extract.NewConfig(opts...))
	return td, err
}
