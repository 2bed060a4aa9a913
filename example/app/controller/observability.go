package controller

import (
	"context"
	"time"

	"github.com/libraryops/library-records-go/librarystore"
)

const (
	metricControllerDuration = "libraryapp_controller_duration_seconds"

	labelAction = "action"
	labelStatus = "status"

	statusSuccess = "success"
	statusError   = "error"

	logMsgActionCompleted = "controller action completed: "
	logMsgActionFailed    = "controller action failed: "

	logAttrError      = "error"
	logAttrDurationMS = "duration_ms"
)

// instrumentation bundles the optional observability collaborators shared by the controllers.
type instrumentation struct {
	logger           librarystore.Logger
	contextualLogger librarystore.ContextualLogger
	metricsCollector librarystore.MetricsCollector
}

func (in instrumentation) recordSuccess(ctx context.Context, action string, start time.Time) {
	duration := time.Since(start)

	if in.metricsCollector != nil {
		in.metricsCollector.RecordDuration(metricControllerDuration, duration, map[string]string{
			labelAction: action,
			labelStatus: statusSuccess,
		})
	}

	if in.logger != nil {
		in.logger.Info(logMsgActionCompleted+action, logAttrDurationMS, float64(duration.Microseconds())/1000.0)
	}

	if in.contextualLogger != nil {
		in.contextualLogger.InfoContext(ctx, logMsgActionCompleted+action, logAttrDurationMS, float64(duration.Microseconds())/1000.0)
	}
}

func (in instrumentation) recordError(ctx context.Context, action string, start time.Time, err error) {
	duration := time.Since(start)

	if in.metricsCollector != nil {
		in.metricsCollector.RecordDuration(metricControllerDuration, duration, map[string]string{
			labelAction: action,
			labelStatus: statusError,
		})
	}

	if in.logger != nil {
		in.logger.Error(logMsgActionFailed+action, logAttrError, err.Error())
	}

	if in.contextualLogger != nil {
		in.contextualLogger.ErrorContext(ctx, logMsgActionFailed+action, logAttrError, err.Error())
	}
}
