package secrets

import (
	"bytes"
	"crypto"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/PolarWolf314/envchain/internal/configs"
	kerrors "github.com/PolarWolf314/envchain/internal/errors"
	logger "github.com/PolarWolf314/envchain/internal/logging"

	"filippo.io/age"
	"filippo.io/age/agessh"
	"golang.org/x/crypto/ssh"
)

type IdentityKind string

const (
	IdentityNative IdentityKind = "native"
	IdentitySSH    IdentityKind = "ssh"
)

// Identity is the key pair the store encrypts to and decrypts with.
// It never formats its private half.
type Identity struct {
	kind      IdentityKind
	path      string
	identity  age.Identity
	recipient age.Recipient
	publicKey string
}

func (i *Identity) Kind() IdentityKind { return i.kind }
func (i *Identity) Path() string { return i.path }
func (i *Identity) AgeIdentity() age.Identity { return i.identity }
func (i *Identity) Recipient() age.Recipient { return i.recipient }
func (i *Identity) PublicKey() string { return i.publicKey }
func (i *Identity) String() string { return fmt.Sprintf("%s identity %s", i.kind, i.publicKey) }
func (i *Identity) GoString() string { return i.String() }

// PassphraseFunc asks the user for the passphrase of an encrypted SSH key.
// It returns ErrPassphraseUnavailable when nobody can be asked.
type PassphraseFunc func(prompt string) ([]byte, error)

// NoPassphrase is a PassphraseFunc for non-interactive use.
func NoPassphrase(string) ([]byte, error) {
	return nil, kerrors.ErrPassphraseUnavailable
}

// IdentityManager resolves the identity used by the age store and creates
// the default native identity on first use. Resolved identities are cached,
// so an encrypted key prompts for its passphrase at most once.
type IdentityManager struct {
	DefaultPath   string
	RecipientPath string
	Passphrase    PassphraseFunc
	Logger        logger.Logger

	now  func() time.Time
	link func(oldname, newname string) error

	mu    sync.Mutex
	cache map[string]*Identity
}

func NewIdentityManager(settings *configs.UserSettings, passphrase PassphraseFunc, log logger.Logger) *IdentityManager {
	if passphrase == nil {
		passphrase = NoPassphrase
	}
	return &IdentityManager{
		DefaultPath:   settings.IdentityPath,
		RecipientPath: settings.RecipientPath,
		Passphrase:    passphrase,
		Logger:        log,
		now:           time.Now,
		link:          os.Link,
		cache:         make(map[string]*Identity),
	}
}

// Resolve loads the identity at explicitPath, or the default native
// identity when explicitPath is empty, generating it if it does not exist.
func (m *IdentityManager) Resolve(explicitPath string) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := explicitPath
	if key == "" {
		key = m.DefaultPath
	}
	if id, ok := m.cache[key]; ok {
		return id, nil
	}

	var (
		id  *Identity
		err error
	)
	if explicitPath != "" {
		id, err = m.loadExplicit(explicitPath)
	} else {
		id, err = m.loadOrCreateDefault()
	}
	if err != nil {
		return nil, err
	}

	if m.cache == nil {
		m.cache = make(map[string]*Identity)
	}
	m.cache[key] = id
	m.Logger.Debugf("Using %s", id)
	return id, nil
}

func (m *IdentityManager) loadExplicit(path string) (*Identity, error) {
	m.Logger.Debugf("Loading identity from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if looksLikeSSHKey(path) {
				return nil, fmt.Errorf("%w: %s does not exist (create one with `ssh-keygen -t ed25519`)", kerrors.ErrIdentityLoad, path)
			}
			return nil, fmt.Errorf("%w: %s does not exist", kerrors.ErrIdentityLoad, path)
		}
		return nil, fmt.Errorf("%w: %v", kerrors.ErrIdentityLoad, err)
	}

	if bytes.Contains(data, []byte("-----BEGIN")) {
		return m.parseSSHIdentity(path, data)
	}
	return parseNativeIdentity(path, data)
}

func looksLikeSSHKey(path string) bool {
	slashed := filepath.ToSlash(path)
	return strings.Contains(slashed, "/.ssh/") || strings.HasPrefix(filepath.Base(path), "id_")
}

func (m *IdentityManager) parseSSHIdentity(path string, pemBytes []byte) (*Identity, error) {
	raw, err := ssh.ParseRawPrivateKey(pemBytes)

	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) {
		passphrase, perr := m.Passphrase(fmt.Sprintf("Enter passphrase for %s: ", path))
		if perr != nil {
			if errors.Is(perr, kerrors.ErrPassphraseUnavailable) {
				return nil, fmt.Errorf("%s is encrypted: %w", path, perr)
			}
			return nil, fmt.Errorf("%w: failed to read passphrase: %v", kerrors.ErrIdentityLoad, perr)
		}
		raw, err = ssh.ParseRawPrivateKeyWithPassphrase(pemBytes, passphrase)
		if err != nil {
			return nil, fmt.Errorf("%w: could not decrypt %s: %v", kerrors.ErrIdentityLoad, path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("%w: could not parse SSH key %s: %v", kerrors.ErrIdentityLoad, path, err)
	}

	return newSSHIdentity(path, raw)
}

func newSSHIdentity(path string, raw any) (*Identity, error) {
	var (
		identity age.Identity
		pub      crypto.PublicKey
		err      error
	)

	switch key := raw.(type) {
	case *ed25519.PrivateKey:
		identity, err = agessh.NewEd25519Identity(*key)
		pub = key.Public()
	case ed25519.PrivateKey:
		identity, err = agessh.NewEd25519Identity(key)
		pub = key.Public()
	case *rsa.PrivateKey:
		identity, err = agessh.NewRSAIdentity(key)
		pub = key.Public()
	default:
		return nil, fmt.Errorf("%w: %s: unsupported SSH key type %T (use Ed25519 or RSA)", kerrors.ErrIdentityLoad, path, raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrIdentityLoad, path, err)
	}

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrIdentityLoad, path, err)
	}
	authorized := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))

	recipient, err := agessh.ParseRecipient(authorized)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrIdentityLoad, path, err)
	}

	return &Identity{
		kind:      IdentitySSH,
		path:      path,
		identity:  identity,
		recipient: recipient,
		publicKey: authorized,
	}, nil
}

func parseNativeIdentity(path string, data []byte) (*Identity, error) {
	ids, err := age.ParseIdentities(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrIdentityLoad, path, err)
	}

	for _, id := range ids {
		if x, ok := id.(*age.X25519Identity); ok {
			return &Identity{
				kind:      IdentityNative,
				path:      path,
				identity:  x,
				recipient: x.Recipient(),
				publicKey: x.Recipient().String(),
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: %s contains no X25519 identity", kerrors.ErrIdentityLoad, path)
}

func (m *IdentityManager) loadOrCreateDefault() (*Identity, error) {
	path := m.DefaultPath

	_, err := os.Stat(path)
	if err == nil {
		m.Logger.Debugf("Loading identity from %s", path)
		return readDefaultIdentity(path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrIdentityLoad, err)
	}

	generated, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("failed to generate identity: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w: %w", filepath.Dir(path), kerrors.ErrIOFailure, err)
	}

	link := m.link
	if link == nil {
		link = os.Link
	}
	created, err := createExclusive(path, m.formatIdentity(generated), 0600, link)
	if err != nil {
		return nil, fmt.Errorf("failed to write identity %s: %w: %w", path, kerrors.ErrIOFailure, err)
	}

	if !created {
		// Another process created it first.
		m.Logger.Debugf("Identity %s was created concurrently, reading it", path)
		return readDefaultIdentity(path)
	}

	m.Logger.Infof("Created new age identity at %s", path)
	recipient := generated.Recipient().String()
	if m.RecipientPath != "" {
		if err := os.WriteFile(m.RecipientPath, []byte(recipient+"\n"), 0644); err != nil {
			m.Logger.WarnfAlways("Could not write %s: %v", m.RecipientPath, err)
		}
	}

	return &Identity{
		kind:      IdentityNative,
		path:      path,
		identity:  generated,
		recipient: generated.Recipient(),
		publicKey: recipient,
	}, nil
}

const (
	identityReadAttempts = 10
	identityReadDelay    = 20 * time.Millisecond
)

// readDefaultIdentity parses the default identity file. Until it holds a
// secret key line ending in a newline it may still be being written by
// another process, so parsing it is retried for a short while.
func readDefaultIdentity(path string) (*Identity, error) {
	for attempt := 1; ; attempt++ {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrIdentityLoad, err)
		}

		id, err := parseNativeIdentity(path, data)
		if err == nil {
			return id, nil
		}
		complete := bytes.HasSuffix(data, []byte("\n")) && bytes.Contains(data, []byte("AGE-SECRET-KEY-"))
		if complete || attempt == identityReadAttempts {
			return nil, err
		}
		time.Sleep(identityReadDelay)
	}
}

func (m *IdentityManager) formatIdentity(id *age.X25519Identity) []byte {
	now := time.Now
	if m.now != nil {
		now = m.now
	}
	return fmt.Appendf(nil, "# created: %s\n# public key: %s\n%s\n",
		now().Format(time.RFC3339), id.Recipient(), id)
}
