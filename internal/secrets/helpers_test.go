package secrets

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/envchain/internal/configs"
	logger "github.com/PolarWolf314/envchain/internal/logging"

	"filippo.io/age"
	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func init() {
	color.NoColor = true
}

func newTestManager(t *testing.T, dir string) *IdentityManager {
	t.Helper()
	return NewIdentityManager(configs.NewUserSettings(dir), NoPassphrase, logger.Logger{})
}

func newTestStore(t *testing.T, dir string) *AgeStore {
	t.Helper()
	settings := configs.NewUserSettings(dir)
	return NewAgeStore(AgeStoreOptions{
		Path:       settings.SecretsPath,
		Identities: newTestManager(t, dir),
	})
}

func newNativeIdentity(t *testing.T) *Identity {
	t.Helper()
	x, err := age.GenerateX25519Identity()
	require.NoError(t, err)
	id, err := parseNativeIdentity("test-identity", []byte(x.String()+"\n"))
	require.NoError(t, err)
	return id
}

// writeSSHKey writes key in OpenSSH format, encrypted when passphrase is set.
func writeSSHKey(t *testing.T, key any, passphrase string) string {
	t.Helper()

	var (
		block *pem.Block
		err   error
	)
	if passphrase == "" {
		block, err = ssh.MarshalPrivateKey(key, "")
	} else {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(key, "", []byte(passphrase))
	}
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id_test")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0600))
	return path
}

func generateEd25519(t *testing.T) ed25519.PrivateKey {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return priv
}

func generateRSA(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return priv
}
