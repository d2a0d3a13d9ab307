package logic

import (
	"crypto/sha256"
	"encoding/base64"
	"fed_core/dal"
	"fed_core/dto"
	"fed_core/shared"
	"fmt"
	"github.com/go-fed/httpsig"
	"net/http"
	"regexp"
	"strings"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_sig_authenticator.go -package mocks fed_core/logic ISigAuthenticator

type ISigAuthenticator interface {
	// Authenticate returns the actor that signed the request, or nil if the request is not signed.
	Authenticate(r *http.Request, body []byte) (*dal.Actor, error)
}

type sigAuthenticator struct {
	logger    shared.ILogger
	adir      IActorDirectory
	retriever IActorRetriever
	blocked   IBlockedDomains
	metrics   IMetrics
	reKeyId   *regexp.Regexp
}

func NewSigAuthenticator(
	logger shared.ILogger,
	adir IActorDirectory,
	retriever IActorRetriever,
	blocked IBlockedDomains,
	metrics IMetrics,
) ISigAuthenticator {
	reKeyId := regexp.MustCompile("keyId=['\"]([^'\"]+)['\"]")
	return &sigAuthenticator{logger, adir, retriever, blocked, metrics, reKeyId}
}

func (sa *sigAuthenticator) fail(reason string) (*dal.Actor, error) {
	sa.metrics.SignatureFailed()
	return nil, &AuthenticationFailed{Reason: reason}
}

func (sa *sigAuthenticator) Authenticate(r *http.Request, body []byte) (*dal.Actor, error) {

	sigHeader := r.Header.Get("Signature")
	groups := sa.reKeyId.FindStringSubmatch(sigHeader)
	if groups == nil {
		return nil, nil
	}
	keyId := groups[1]

	keyHost, err := shared.GetHostName(keyId)
	if err != nil {
		return sa.fail("Invalid signature")
	}
	isBlocked, err := sa.blocked.IsBlocked(keyHost)
	if err != nil {
		return nil, err
	}
	if isBlocked {
		sa.logger.Infof("Refusing request signed by blocked instance %s", keyHost)
		return sa.fail("Domain is blocked")
	}

	doc, err := sa.retriever.Retrieve(keyId)
	if err != nil {
		sa.logger.Infof("Failed to retrieve actor for key %s: %v", keyId, err)
		return sa.fail("Cannot fetch remote actor")
	}
	if doc.PublicKey.PublicKeyPem == "" {
		return sa.fail("No public key found")
	}
	if err = validateActorDoc(doc); err != nil {
		return sa.fail(fmt.Sprintf("Invalid actor payload: %v", err))
	}
	if !keyBelongsTo(keyId, keyHost, doc) {
		sa.logger.Infof("Key %s does not belong to actor %s", keyId, doc.Id)
		return sa.fail("Invalid signature")
	}

	pubKey, err := parsePublicKey(doc.PublicKey.PublicKeyPem)
	if err != nil {
		return sa.fail(fmt.Sprintf("Invalid actor payload: publicKeyPem: %v", err))
	}
	if !digestMatches(r.Header.Get("Digest"), body) {
		return sa.fail("Invalid signature")
	}
	verifier, err := httpsig.NewVerifier(r)
	if err != nil {
		return sa.fail("Invalid signature")
	}
	if err = verifier.Verify(pubKey, httpsig.RSA_SHA256); err != nil {
		sa.logger.Infof("Signature by %s failed to verify: %v", keyId, err)
		return sa.fail("Invalid signature")
	}

	return sa.adir.StoreActorDoc(doc)
}

// keyBelongsTo binds the signing key to the actor document served for it: same host,
// and either the declared key id or a URL under the actor's id.
func keyBelongsTo(keyId, keyHost string, doc *dto.ActorDoc) bool {
	actorHost, err := shared.GetHostName(doc.Id)
	if err != nil || !strings.EqualFold(actorHost, keyHost) {
		return false
	}
	if doc.PublicKey.Id == keyId {
		return true
	}
	rest, found := strings.CutPrefix(keyId, doc.Id)
	return found && (strings.HasPrefix(rest, "#") || strings.HasPrefix(rest, "/"))
}

func validateActorDoc(doc *dto.ActorDoc) error {
	if doc.Id == "" {
		return fmt.Errorf("id: this field is required")
	}
	if doc.Type == "" {
		return fmt.Errorf("type: this field is required")
	}
	if doc.Inbox == "" {
		return fmt.Errorf("inbox: this field is required")
	}
	if doc.PublicKey.Owner != "" && doc.PublicKey.Owner != doc.Id {
		return fmt.Errorf("publicKey: owner does not match id")
	}
	if _, err := shared.GetHostName(doc.Id); err != nil {
		return fmt.Errorf("id: %v", err)
	}
	return nil
}

// digestMatches checks a SHA-256 Digest header against the body. A missing header passes;
// whether it had to be signed is up to the verifier.
func digestMatches(digestHeader string, body []byte) bool {
	if digestHeader == "" {
		return true
	}
	for _, part := range strings.Split(digestHeader, ",") {
		algo, val, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found || !strings.EqualFold(algo, "SHA-256") {
			continue
		}
		sum := sha256.Sum256(body)
		return val == base64.StdEncoding.EncodeToString(sum[:])
	}
	return true
}
