package logic_test

import (
	"fed_core/dal"
	"fed_core/dto"
	"fed_core/logic"
	"fed_core/shared"
	"fed_core/test"
	"fed_core/test/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"testing"
)

const remoteHost = "remote.example"
const otherHost = "other.example"

type sentEvent struct {
	group string
	event *dto.StreamEvent
}

// federationHarness wires the real routers and stores on top of a fresh database.
// Job queue and notifier are mocks that record what they are given.
type federationHarness struct {
	cfg          *shared.Config
	repo         dal.IRepo
	mockLogger   *mocks.MockILogger
	mockMetrics  *mocks.MockIMetrics
	mockQueue    *mocks.MockIJobQueue
	mockNotifier *mocks.MockINotifier
	jobs         *test.JobRecorder
	events       []sentEvent
	audience     logic.IAudienceResolver
	outbox       logic.IOutboxRouter
	inbox        logic.IInboxRouter
	actStore     logic.IActivityStore
}

func setupFederation(t *testing.T) *federationHarness {

	ctrl := gomock.NewController(t)
	cfg := test.NewTestConfig(t)

	h := &federationHarness{
		cfg:          cfg,
		repo:         test.NewTestRepo(t, cfg),
		mockLogger:   mocks.NewMockILogger(ctrl),
		mockMetrics:  mocks.NewMockIMetrics(ctrl),
		mockQueue:    mocks.NewMockIJobQueue(ctrl),
		mockNotifier: mocks.NewMockINotifier(ctrl),
	}
	test.SetupDummyLogger(h.mockLogger)
	test.SetupDummyMetrics(ctrl, h.mockMetrics)
	h.jobs = test.SetupJobRecorder(h.mockQueue)
	h.mockNotifier.EXPECT().GroupSend(gomock.Any(), gomock.Any()).
		Do(func(group string, msg any) {
			h.events = append(h.events, sentEvent{group, msg.(*dto.StreamEvent)})
		}).AnyTimes()

	h.audience = logic.NewAudienceResolver(h.mockLogger)
	h.outbox = logic.NewOutboxRouter(cfg, h.mockLogger, h.repo, h.audience, h.mockQueue, h.mockMetrics,
		logic.NewOutboxHandlers(h.mockLogger))
	h.inbox = logic.NewInboxRouter(h.mockLogger, h.repo, h.mockNotifier, h.mockMetrics,
		logic.NewInboxHandlers(h.mockLogger, h.outbox))
	h.actStore = logic.NewActivityStore(cfg, h.mockLogger, h.repo, h.audience, h.mockQueue, h.mockMetrics)
	return h
}

// receive stores an activity sent by from and runs its inbox dispatch, like the job worker would.
func (h *federationHarness) receive(t *testing.T, from *dal.Actor, payload map[string]any) *dal.Activity {
	act, err := h.actStore.Receive(test.MustJson(t, payload), from)
	require.NoError(t, err)
	require.NotNil(t, act)
	require.NoError(t, h.inbox.DispatchActivity(act.Id))
	stored, err := h.repo.GetActivity(act.Id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	return stored
}

func (h *federationHarness) jobsNamed(name string) []int64 {
	var res []int64
	for _, job := range h.jobs.Jobs {
		if job.Name == name {
			res = append(res, job.ActivityId)
		}
	}
	return res
}

func deliveryUrls(t *testing.T, repo dal.IRepo, activityId int64) []string {
	deliveries, err := repo.GetDeliveries(activityId, false)
	require.NoError(t, err)
	res := []string{}
	for _, d := range deliveries {
		res = append(res, d.InboxUrl)
	}
	return res
}

func inboxItemActors(t *testing.T, repo dal.IRepo, activityId int64) []int64 {
	items, err := repo.GetInboxItems(activityId)
	require.NoError(t, err)
	res := []int64{}
	for _, ii := range items {
		res = append(res, ii.ActorId)
	}
	return res
}
