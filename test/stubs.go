package test

import (
	"fed_core/test/mocks"
	"go.uber.org/mock/gomock"
)

func SetupDummyLogger(mockLogger *mocks.MockILogger) {
	mockLogger.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warnf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Infof(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Printf(gomock.Any(), gomock.Any()).AnyTimes()
}

// SetupDummyMetrics accepts any metrics call. Request observers are no-ops.
func SetupDummyMetrics(ctrl *gomock.Controller, mockMetrics *mocks.MockIMetrics) {
	obs := mocks.NewMockIRequestObserver(ctrl)
	obs.EXPECT().Finish().AnyTimes()
	mockMetrics.EXPECT().StartApubRequestIn(gomock.Any()).Return(obs).AnyTimes()
	mockMetrics.EXPECT().StartApubRequestOut(gomock.Any()).Return(obs).AnyTimes()
	mockMetrics.EXPECT().ActivityReceived(gomock.Any()).AnyTimes()
	mockMetrics.EXPECT().ActivityDispatched(gomock.Any()).AnyTimes()
	mockMetrics.EXPECT().DeliveryAttempted(gomock.Any()).AnyTimes()
	mockMetrics.EXPECT().SignatureFailed().AnyTimes()
	mockMetrics.EXPECT().ServiceStarted().AnyTimes()
	mockMetrics.EXPECT().JobQueueLength(gomock.Any()).AnyTimes()
}

// JobRecorder collects enqueued jobs from a mock job queue.
type JobRecorder struct {
	Jobs []RecordedJob
}

type RecordedJob struct {
	Name       string
	ActivityId int64
}

func SetupJobRecorder(mockQueue *mocks.MockIJobQueue) *JobRecorder {
	rec := &JobRecorder{}
	mockQueue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).
		Do(func(name string, activityId int64) {
			rec.Jobs = append(rec.Jobs, RecordedJob{name, activityId})
		}).AnyTimes()
	mockQueue.EXPECT().Wakeup().Return(make(chan struct{})).AnyTimes()
	return rec
}
