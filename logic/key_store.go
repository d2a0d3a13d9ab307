package logic

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fed_core/dal"
	"fed_core/shared"
	"github.com/hashicorp/golang-lru/v2"
)

type IKeyStore interface {
	GetPrivKey(actorId int64) (*rsa.PrivateKey, error)
	MakeKeyPair() (pubKey, privKey string, err error)
}

const privKeyCacheSize = 64

type keyStore struct {
	cfg  *shared.Config
	repo dal.IRepo
	// Decrypted keys by actor ID; fan-out to many inboxes reuses the same key.
	keys *lru.Cache[int64, *rsa.PrivateKey]
}

func NewKeyStore(cfg *shared.Config, repo dal.IRepo) IKeyStore {
	keys, err := lru.New[int64, *rsa.PrivateKey](privKeyCacheSize)
	if err != nil {
		panic(err)
	}
	return &keyStore{cfg, repo, keys}
}

func (ks *keyStore) GetPrivKey(actorId int64) (*rsa.PrivateKey, error) {

	if key, ok := ks.keys.Get(actorId); ok {
		return key, nil
	}
	key, err := ks.loadPrivKey(actorId)
	if err != nil {
		return nil, err
	}
	ks.keys.Add(actorId, key)
	return key, nil
}

func (ks *keyStore) loadPrivKey(actorId int64) (*rsa.PrivateKey, error) {

	privKeyStr, err := ks.repo.GetActorPrivKey(actorId)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode([]byte(privKeyStr))
	if block == nil {
		return nil, errors.New("actor has no private key")
	}
	privKeyBytes := block.Bytes
	if x509.IsEncryptedPEMBlock(block) {
		privKeyBytes, err = x509.DecryptPEMBlock(block, []byte(ks.cfg.Secrets.PrivKeyPass))
		if err != nil {
			return nil, err
		}
	}
	return x509.ParsePKCS1PrivateKey(privKeyBytes)
}

func (ks *keyStore) MakeKeyPair() (pubKey, privKey string, err error) {

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return "", "", err
	}

	// Private key is stored as PKCS#1, encrypted with the instance passphrase
	encBlock, err := x509.EncryptPEMBlock(
		rand.Reader, "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(key),
		[]byte(ks.cfg.Secrets.PrivKeyPass), x509.PEMCipherAES256)
	if err != nil {
		return "", "", err
	}

	// Encode public key as PKIX, which is what peers expect in publicKeyPem
	pubRaw, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return "", "", err
	}
	pubKey = string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubRaw}))
	privKey = string(pem.EncodeToMemory(encBlock))
	return pubKey, privKey, nil
}

// parsePublicKey reads a PEM public key in PKIX or PKCS#1 form.
func parsePublicKey(pemStr string) (any, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	if pub, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		return pub, nil
	}
	return x509.ParsePKCS1PublicKey(block.Bytes)
}
