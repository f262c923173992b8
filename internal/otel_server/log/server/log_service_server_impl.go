package server

import (
	"context"
	"encoding/hex"
	"time"

	protoLogs "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	commonv1 "go.opentelemetry.io/proto/otlp/common/v1"
	v1 "go.opentelemetry.io/proto/otlp/logs/v1"
	"go.uber.org/zap"

	redaction "jarvis-core/internal/redaction/service"
	"jarvis-core/internal/telemetry/model"
	telemetry "jarvis-core/internal/telemetry/service"
)

// LogServiceServerImpl accepts OTLP log exports and feeds them into the
// telemetry buffer. Message and attributes are redacted before insertion;
// entries refused by the buffer policy are dropped and counted there.
type LogServiceServerImpl struct {
	protoLogs.UnimplementedLogsServiceServer
	buffer   *telemetry.RingBuffer
	redactor *redaction.PIIRedactor
	logger   *zap.Logger
}

func NewLogServiceServerImpl(
	logger *zap.Logger,
	buffer *telemetry.RingBuffer,
	redactor *redaction.PIIRedactor,
) *LogServiceServerImpl {
	logger.Info("Creating new LogServiceServerImpl")
	return &LogServiceServerImpl{
		logger:   logger,
		buffer:   buffer,
		redactor: redactor,
	}
}

func (lss *LogServiceServerImpl) Export(
	ctx context.Context,
	req *protoLogs.ExportLogsServiceRequest,
) (*protoLogs.ExportLogsServiceResponse, error) {
	for _, resourceLogs := range req.ResourceLogs {
		// Resource attributes are ignored for now
		for _, scopeLog := range resourceLogs.ScopeLogs {
			scopeName := scopeLog.GetScope().GetName()
			for _, record := range scopeLog.LogRecords {
				entry := typeLog(record, scopeName)
				if lss.redactor != nil {
					entry.Message = lss.redactor.RedactText(entry.Message)
					if entry.Extra != nil {
						entry.Extra = lss.redactor.RedactMap(entry.Extra)
					}
				}
				if !lss.buffer.Add(entry) {
					lss.logger.Warn(
						"Ingested log entry dropped by buffer policy",
						zap.String("module", entry.Module),
					)
				}
			}
		}
	}
	return &protoLogs.ExportLogsServiceResponse{}, nil
}

func typeLog(record *v1.LogRecord, scopeName string) model.LogEntry {
	var extra map[string]interface{}
	if len(record.Attributes) > 0 {
		extra = make(map[string]interface{}, len(record.Attributes))
		for _, attribute := range record.Attributes {
			extra[attribute.Key] = attributeValue(attribute.Value)
		}
	}

	return model.LogEntry{
		Timestamp:     float64(record.TimeUnixNano) / float64(time.Second),
		Level:         getSeverity(record.SeverityNumber),
		Message:       record.GetBody().GetStringValue(),
		Module:        scopeName,
		Function:      "otlp_export",
		CorrelationId: hex.EncodeToString(record.TraceId),
		Extra:         extra,
	}
}

func getSeverity(severityNumber v1.SeverityNumber) model.Level {
	switch severityNumber {
	case v1.SeverityNumber_SEVERITY_NUMBER_TRACE:
		return model.DebugLevel
	case v1.SeverityNumber_SEVERITY_NUMBER_DEBUG:
		return model.DebugLevel
	case v1.SeverityNumber_SEVERITY_NUMBER_INFO:
		return model.InfoLevel
	case v1.SeverityNumber_SEVERITY_NUMBER_WARN:
		return model.WarningLevel
	case v1.SeverityNumber_SEVERITY_NUMBER_ERROR:
		return model.ErrorLevel
	case v1.SeverityNumber_SEVERITY_NUMBER_FATAL:
		return model.ErrorLevel
	default:
		return model.InfoLevel
	}
}

func attributeValue(value *commonv1.AnyValue) interface{} {
	if value == nil {
		return nil
	}
	switch v := value.Value.(type) {
	case *commonv1.AnyValue_StringValue:
		return v.StringValue
	case *commonv1.AnyValue_IntValue:
		return v.IntValue
	case *commonv1.AnyValue_DoubleValue:
		return v.DoubleValue
	case *commonv1.AnyValue_BoolValue:
		return v.BoolValue
	default:
		return value.String()
	}
}
