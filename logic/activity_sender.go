package logic

import (
	"bytes"
	"crypto/rsa"
	"fed_core/shared"
	"fmt"
	"github.com/go-fed/httpsig"
	"io"
	"net/http"
	"time"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_activity_sender.go -package mocks fed_core/logic IActivitySender

type IActivitySender interface {
	Send(privKey *rsa.PrivateKey, keyId, inboxUrl string, body []byte) error
}

const (
	activityTimeoutSec  = 10
	maxRejectionExcerpt = 512
)

var signedHeaders = []string{httpsig.RequestTarget, "Host", "date", "digest"}

// InboxRejected is returned when a remote inbox answers a delivery with a non-2xx status.
type InboxRejected struct {
	Status string
	Body   string
}

func (e *InboxRejected) Error() string {
	return fmt.Sprintf("got status %s: response: %s", e.Status, e.Body)
}

type activitySender struct {
	logger    shared.ILogger
	userAgent shared.IUserAgent
	metrics   IMetrics
	client    *http.Client
}

func NewActivitySender(
	logger shared.ILogger,
	userAgent shared.IUserAgent,
	metrics IMetrics,
) IActivitySender {
	return &activitySender{
		logger:    logger,
		userAgent: userAgent,
		metrics:   metrics,
		client:    &http.Client{Timeout: activityTimeoutSec * time.Second},
	}
}

// Send POSTs a signed activity to a remote inbox.
func (sender *activitySender) Send(privKey *rsa.PrivateKey, keyId, inboxUrl string, body []byte) error {

	obs := sender.metrics.StartApubRequestOut("post")
	defer obs.Finish()

	req, err := sender.newSignedPost(privKey, keyId, inboxUrl, body)
	if err != nil {
		return err
	}

	resp, err := sender.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxRejectionExcerpt))
		rejected := &InboxRejected{resp.Status, string(excerpt)}
		sender.logger.Warnf("Activity POST to %s failed: %v", inboxUrl, rejected)
		return rejected
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Signers keep per-request state, so each POST gets its own.
func (sender *activitySender) newSignedPost(privKey *rsa.PrivateKey, keyId, inboxUrl string, body []byte) (*http.Request, error) {

	host, err := shared.GetHostName(inboxUrl)
	if err != nil {
		return nil, fmt.Errorf("invalid inbox url: %v", inboxUrl)
	}

	req, err := http.NewRequest(http.MethodPost, inboxUrl, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	sender.userAgent.AddUserAgent(req)
	req.Header.Set("Content-Type", "application/activity+json")
	req.Header.Set("Host", host)
	req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))

	signer, _, err := httpsig.NewSigner(
		[]httpsig.Algorithm{httpsig.RSA_SHA256},
		httpsig.DigestSha256,
		signedHeaders,
		httpsig.Signature,
		0)
	if err != nil {
		return nil, err
	}
	if err = signer.SignRequest(privKey, keyId, req, body); err != nil {
		return nil, err
	}
	return req, nil
}
