package logic_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fed_core/dal"
	"fed_core/dto"
	"fed_core/logic"
	"fed_core/test"
	"fed_core/test/mocks"
	"github.com/go-fed/httpsig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type sigHarness struct {
	repo          dal.IRepo
	mockRetriever *mocks.MockIActorRetriever
	mockBlocked   *mocks.MockIBlockedDomains
	sigAuth       logic.ISigAuthenticator
}

func setupSigAuthenticator(t *testing.T) *sigHarness {

	ctrl := gomock.NewController(t)
	cfg := test.NewTestConfig(t)
	mockLogger := mocks.NewMockILogger(ctrl)
	mockMetrics := mocks.NewMockIMetrics(ctrl)
	test.SetupDummyLogger(mockLogger)
	test.SetupDummyMetrics(ctrl, mockMetrics)

	h := &sigHarness{
		repo:          test.NewTestRepo(t, cfg),
		mockRetriever: mocks.NewMockIActorRetriever(ctrl),
		mockBlocked:   mocks.NewMockIBlockedDomains(ctrl),
	}
	adir := logic.NewActorDirectory(cfg, mockLogger, h.repo, logic.NewKeyStore(cfg, h.repo), h.mockRetriever)
	h.sigAuth = logic.NewSigAuthenticator(mockLogger, adir, h.mockRetriever, h.mockBlocked, mockMetrics)
	return h
}

func makeRsaKey(t *testing.T) (*rsa.PrivateKey, string) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pubRaw, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPem := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubRaw})
	return key, string(pubPem)
}

func makeActorDoc(fid, pubPem string) *dto.ActorDoc {
	return &dto.ActorDoc{
		Id:                fid,
		Type:              "Person",
		PreferredUserName: "bob",
		Inbox:             fid + "/inbox",
		Outbox:            fid + "/outbox",
		Followers:         fid + "/followers",
		Endpoints:         dto.ActorEndpoints{SharedInbox: "https://remote.example/inbox"},
		PublicKey:         dto.PublicKey{Id: fid + "#main-key", Owner: fid, PublicKeyPem: pubPem},
	}
}

func newInboxRequest(body []byte) *http.Request {
	req := httptest.NewRequest("POST", "https://music.local/federation/shared/inbox", bytes.NewReader(body))
	req.Header.Set("Host", "music.local")
	req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	req.Header.Set("Content-Type", "application/activity+json")
	return req
}

func signRequest(t *testing.T, key *rsa.PrivateKey, keyId string, req *http.Request, body []byte) {
	signer, _, err := httpsig.NewSigner(
		[]httpsig.Algorithm{httpsig.RSA_SHA256},
		httpsig.DigestSha256,
		[]string{httpsig.RequestTarget, "Host", "date", "digest"},
		httpsig.Signature,
		0)
	require.NoError(t, err)
	require.NoError(t, signer.SignRequest(key, keyId, req, body))
}

func assertAuthFailed(t *testing.T, err error, reason string) {
	var authErr *logic.AuthenticationFailed
	if assert.True(t, errors.As(err, &authErr), "expected AuthenticationFailed, got %v", err) {
		assert.Equal(t, reason, authErr.Reason)
	}
}

var bobFid = test.RemoteActorUrl(remoteHost, "bob")
var bobKeyId = bobFid + "#main-key"

func Test_SigAuthenticator_ValidSignatureStoresActor(t *testing.T) {

	h := setupSigAuthenticator(t)
	key, pubPem := makeRsaKey(t)
	h.mockBlocked.EXPECT().IsBlocked(remoteHost).Return(false, nil)
	h.mockRetriever.EXPECT().Retrieve(bobKeyId).Return(makeActorDoc(bobFid, pubPem), nil)

	body := []byte(`{"id":"https://remote.example/follows/1","type":"Follow"}`)
	req := newInboxRequest(body)
	signRequest(t, key, bobKeyId, req, body)

	actor, err := h.sigAuth.Authenticate(req, body)
	require.NoError(t, err)
	require.NotNil(t, actor)
	assert.NotZero(t, actor.Id)
	assert.Equal(t, bobFid, actor.Fid)
	assert.Equal(t, remoteHost, actor.Domain)
	assert.Equal(t, "https://remote.example/inbox", actor.SharedInboxUrl)
	assert.Equal(t, pubPem, actor.PublicKey)
	assert.False(t, actor.IsLocal)

	stored, err := h.repo.GetActorByFid(bobFid)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, actor.Id, stored.Id)
}

func Test_SigAuthenticator_RefreshesKnownActor(t *testing.T) {

	h := setupSigAuthenticator(t)
	known := test.AddRemoteActor(t, h.repo, remoteHost, "bob", false)
	key, pubPem := makeRsaKey(t)
	h.mockBlocked.EXPECT().IsBlocked(remoteHost).Return(false, nil)
	h.mockRetriever.EXPECT().Retrieve(bobKeyId).Return(makeActorDoc(bobFid, pubPem), nil)

	body := []byte(`{"id":"https://remote.example/follows/2","type":"Follow"}`)
	req := newInboxRequest(body)
	signRequest(t, key, bobKeyId, req, body)

	actor, err := h.sigAuth.Authenticate(req, body)
	require.NoError(t, err)
	require.NotNil(t, actor)
	assert.Equal(t, known.Id, actor.Id)
	assert.Equal(t, "https://remote.example/inbox", actor.SharedInboxUrl)
	assert.Equal(t, pubPem, actor.PublicKey)
}

func Test_SigAuthenticator_UnsignedRequest(t *testing.T) {

	h := setupSigAuthenticator(t)
	body := []byte(`{}`)

	actor, err := h.sigAuth.Authenticate(newInboxRequest(body), body)
	assert.NoError(t, err)
	assert.Nil(t, actor)
}

func Test_SigAuthenticator_TamperedBody(t *testing.T) {

	h := setupSigAuthenticator(t)
	key, pubPem := makeRsaKey(t)
	h.mockBlocked.EXPECT().IsBlocked(remoteHost).Return(false, nil)
	h.mockRetriever.EXPECT().Retrieve(bobKeyId).Return(makeActorDoc(bobFid, pubPem), nil)

	body := []byte(`{"id":"https://remote.example/follows/3","type":"Follow"}`)
	req := newInboxRequest(body)
	signRequest(t, key, bobKeyId, req, body)

	actor, err := h.sigAuth.Authenticate(req, []byte(`{"id":"https://remote.example/follows/3","type":"Delete"}`))
	assert.Nil(t, actor)
	assertAuthFailed(t, err, "Invalid signature")
}

func Test_SigAuthenticator_WrongKey(t *testing.T) {

	h := setupSigAuthenticator(t)
	key, _ := makeRsaKey(t)
	_, otherPubPem := makeRsaKey(t)
	h.mockBlocked.EXPECT().IsBlocked(remoteHost).Return(false, nil)
	h.mockRetriever.EXPECT().Retrieve(bobKeyId).Return(makeActorDoc(bobFid, otherPubPem), nil)

	body := []byte(`{"id":"https://remote.example/follows/4","type":"Follow"}`)
	req := newInboxRequest(body)
	signRequest(t, key, bobKeyId, req, body)

	actor, err := h.sigAuth.Authenticate(req, body)
	assert.Nil(t, actor)
	assertAuthFailed(t, err, "Invalid signature")

	stored, err := h.repo.GetActorByFid(bobFid)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func Test_SigAuthenticator_BlockedDomain(t *testing.T) {

	h := setupSigAuthenticator(t)
	key, _ := makeRsaKey(t)
	h.mockBlocked.EXPECT().IsBlocked(remoteHost).Return(true, nil)

	body := []byte(`{}`)
	req := newInboxRequest(body)
	signRequest(t, key, bobKeyId, req, body)

	actor, err := h.sigAuth.Authenticate(req, body)
	assert.Nil(t, actor)
	assertAuthFailed(t, err, "Domain is blocked")
}

func Test_SigAuthenticator_UnreachableActor(t *testing.T) {

	h := setupSigAuthenticator(t)
	key, _ := makeRsaKey(t)
	h.mockBlocked.EXPECT().IsBlocked(remoteHost).Return(false, nil)
	h.mockRetriever.EXPECT().Retrieve(bobKeyId).Return(nil, errors.New("connection refused"))

	body := []byte(`{}`)
	req := newInboxRequest(body)
	signRequest(t, key, bobKeyId, req, body)

	actor, err := h.sigAuth.Authenticate(req, body)
	assert.Nil(t, actor)
	assertAuthFailed(t, err, "Cannot fetch remote actor")
}

func Test_SigAuthenticator_InvalidActorDoc(t *testing.T) {

	h := setupSigAuthenticator(t)
	key, pubPem := makeRsaKey(t)
	doc := makeActorDoc(bobFid, pubPem)
	doc.Inbox = ""
	h.mockBlocked.EXPECT().IsBlocked(remoteHost).Return(false, nil)
	h.mockRetriever.EXPECT().Retrieve(bobKeyId).Return(doc, nil)

	body := []byte(`{}`)
	req := newInboxRequest(body)
	signRequest(t, key, bobKeyId, req, body)

	actor, err := h.sigAuth.Authenticate(req, body)
	assert.Nil(t, actor)
	assertAuthFailed(t, err, "Invalid actor payload: inbox: this field is required")
}

func Test_SigAuthenticator_KeyFromOtherHost(t *testing.T) {

	h := setupSigAuthenticator(t)
	known := test.AddRemoteActor(t, h.repo, remoteHost, "bob", false)
	key, pubPem := makeRsaKey(t)
	evilKeyId := "https://evil.example/k#main-key"
	h.mockBlocked.EXPECT().IsBlocked("evil.example").Return(false, nil)
	h.mockRetriever.EXPECT().Retrieve(evilKeyId).Return(makeActorDoc(bobFid, pubPem), nil)

	body := []byte(`{"id":"https://evil.example/follows/1","type":"Follow"}`)
	req := newInboxRequest(body)
	signRequest(t, key, evilKeyId, req, body)

	actor, err := h.sigAuth.Authenticate(req, body)
	assert.Nil(t, actor)
	assertAuthFailed(t, err, "Invalid signature")

	stored, err := h.repo.GetActorByFid(bobFid)
	require.NoError(t, err)
	assert.Equal(t, known.PublicKey, stored.PublicKey)
	assert.Equal(t, known.InboxUrl, stored.InboxUrl)
}

func Test_SigAuthenticator_KeyOfOtherActorOnSameHost(t *testing.T) {

	h := setupSigAuthenticator(t)
	key, pubPem := makeRsaKey(t)
	carolKeyId := test.RemoteActorUrl(remoteHost, "carol") + "#main-key"
	h.mockBlocked.EXPECT().IsBlocked(remoteHost).Return(false, nil)
	h.mockRetriever.EXPECT().Retrieve(carolKeyId).Return(makeActorDoc(bobFid, pubPem), nil)

	body := []byte(`{}`)
	req := newInboxRequest(body)
	signRequest(t, key, carolKeyId, req, body)

	actor, err := h.sigAuth.Authenticate(req, body)
	assert.Nil(t, actor)
	assertAuthFailed(t, err, "Invalid signature")
}

func Test_SigAuthenticator_LocalActorDocIsRefused(t *testing.T) {

	h := setupSigAuthenticator(t)
	key, pubPem := makeRsaKey(t)
	aliceFid := "https://music.local/federation/actors/alice"
	aliceKeyId := aliceFid + "#main-key"
	h.mockBlocked.EXPECT().IsBlocked("music.local").Return(false, nil)
	h.mockRetriever.EXPECT().Retrieve(aliceKeyId).Return(makeActorDoc(aliceFid, pubPem), nil)

	body := []byte(`{}`)
	req := newInboxRequest(body)
	signRequest(t, key, aliceKeyId, req, body)

	actor, err := h.sigAuth.Authenticate(req, body)
	assert.Error(t, err)
	assert.Nil(t, actor)
}
