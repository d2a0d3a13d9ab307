package logic_test

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fed_core/logic"
	"fed_core/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func Test_KeyStore_RoundTrip(t *testing.T) {

	cfg := test.NewTestConfig(t)
	repo := test.NewTestRepo(t, cfg)
	ks := logic.NewKeyStore(cfg, repo)
	alice := test.AddLocalActor(t, repo, "alice")

	pubKey, privKey, err := ks.MakeKeyPair()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(pubKey, "-----BEGIN PUBLIC KEY-----"))
	assert.Contains(t, privKey, "ENCRYPTED")
	require.NoError(t, repo.SetActorPrivKey(alice.Id, privKey))

	loaded, err := ks.GetPrivKey(alice.Id)
	require.NoError(t, err)

	block, _ := pem.Decode([]byte(pubKey))
	require.NotNil(t, block)
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	require.NoError(t, err)
	rsaPub, ok := pub.(*rsa.PublicKey)
	require.True(t, ok)
	assert.Equal(t, 0, rsaPub.N.Cmp(loaded.PublicKey.N))
}

func Test_KeyStore_WrongPassphrase(t *testing.T) {

	cfg := test.NewTestConfig(t)
	repo := test.NewTestRepo(t, cfg)
	alice := test.AddLocalActor(t, repo, "alice")

	_, privKey, err := logic.NewKeyStore(cfg, repo).MakeKeyPair()
	require.NoError(t, err)
	require.NoError(t, repo.SetActorPrivKey(alice.Id, privKey))

	otherCfg := *cfg
	otherCfg.Secrets.PrivKeyPass = "not-the-passphrase"
	_, err = logic.NewKeyStore(&otherCfg, repo).GetPrivKey(alice.Id)
	assert.Error(t, err)
}
