package logic

import (
	"encoding/json"
	"fed_core/dto"
	"fed_core/shared"
	"fmt"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"io"
	"net/http"
	"strings"
	"time"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_actor_retriever.go -package mocks fed_core/logic IActorRetriever

const actorFetchRetries = 2
const maxActorDocSize = 1 << 20

type IActorRetriever interface {
	Retrieve(actorUrl string) (*dto.ActorDoc, error)
}

type actorRetriever struct {
	logger    shared.ILogger
	userAgent shared.IUserAgent
	metrics   IMetrics
	client    *http.Client
	cache     *expirable.LRU[string, *dto.ActorDoc]
}

// retryLogger lets retryablehttp log through our logger.
type retryLogger struct {
	logger shared.ILogger
}

func (rl retryLogger) Error(msg string, keysAndValues ...interface{}) {
	rl.logger.Error(msg, keysAndValues...)
}

func (rl retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	rl.logger.Warn(msg, keysAndValues...)
}

func (rl retryLogger) Info(msg string, keysAndValues ...interface{}) {
	rl.logger.Debug(msg, keysAndValues...)
}

func (rl retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	rl.logger.Debug(msg, keysAndValues...)
}

func NewActorRetriever(
	cfg *shared.Config,
	logger shared.ILogger,
	userAgent shared.IUserAgent,
	metrics IMetrics,
) IActorRetriever {
	rc := retryablehttp.NewClient()
	rc.RetryMax = actorFetchRetries
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = activityTimeoutSec * time.Second
	rc.Logger = retryablehttp.LeveledLogger(retryLogger{logger})

	ttl := time.Duration(cfg.ActorCacheTTLSec) * time.Second
	return &actorRetriever{
		logger:    logger,
		userAgent: userAgent,
		metrics:   metrics,
		client:    rc.StandardClient(),
		cache:     expirable.NewLRU[string, *dto.ActorDoc](cfg.ActorCacheSize, nil, ttl),
	}
}

// Retrieve fetches an actor document. actorUrl may be a key id; its fragment is dropped.
func (ar *actorRetriever) Retrieve(actorUrl string) (*dto.ActorDoc, error) {

	if ix := strings.IndexByte(actorUrl, '#'); ix != -1 {
		actorUrl = actorUrl[:ix]
	}
	if doc, ok := ar.cache.Get(actorUrl); ok {
		return doc, nil
	}

	obs := ar.metrics.StartApubRequestOut("actor")
	defer obs.Finish()

	req, err := http.NewRequest("GET", actorUrl, nil)
	if err != nil {
		return nil, err
	}
	ar.userAgent.AddUserAgent(req)
	req.Header.Set("Accept", "application/activity+json")

	resp, err := ar.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get actor document; got status %v", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxActorDocSize))
	if err != nil {
		return nil, err
	}
	var doc dto.ActorDoc
	if err = json.Unmarshal(bodyBytes, &doc); err != nil {
		return nil, err
	}

	ar.cache.Add(actorUrl, &doc)
	return &doc, nil
}
