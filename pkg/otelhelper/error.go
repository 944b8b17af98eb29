package otelhelper

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SetError marks the span failed and records the failure as a
// "gridflow.error" event carrying the error text plus the given attributes.
func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.AddEvent("gridflow.error", trace.WithAttributes(
		append(attrs, attribute.String("gridflow.error.message", err.Error()))...,
	))
}
