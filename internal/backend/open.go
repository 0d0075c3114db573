package backend

import (
	"errors"
	"fmt"

	"github.com/PolarWolf314/envchain/internal/configs"
	kerrors "github.com/PolarWolf314/envchain/internal/errors"
	logger "github.com/PolarWolf314/envchain/internal/logging"
	"github.com/PolarWolf314/envchain/internal/secrets"

	"github.com/99designs/keyring"
)

const serviceName = "envchain"

type Options struct {
	// Name is a backend name or alias.
	Name string
	// AgeIdentity is an explicit identity file for the age backend.
	AgeIdentity string
	// Settings locates the age store's files. Defaults to configs.UserEnvchainSettings.
	Settings   *configs.UserSettings
	Passphrase secrets.PassphraseFunc
	Logger     logger.Logger

	// OpenKeyring opens OS secret stores. Defaults to keyring.Open.
	OpenKeyring func(keyring.Config) (keyring.Keyring, error)
}

var keyringTypes = map[string]keyring.BackendType{
	SecretService: keyring.SecretServiceBackend,
	Keychain:      keyring.KeychainBackend,
	WinCred:       keyring.WinCredBackend,
}

// Open returns the backend selected by opts.Name.
func Open(opts Options) (Backend, error) {
	name, err := Normalize(opts.Name)
	if err != nil {
		return nil, err
	}

	if name == Age {
		settings := opts.Settings
		if settings == nil {
			settings = configs.UserEnvchainSettings
		}
		opts.Logger.Debugf("Opening age store at %s", settings.SecretsPath)
		return secrets.NewAgeStore(secrets.AgeStoreOptions{
			Path:         settings.SecretsPath,
			IdentityPath: opts.AgeIdentity,
			Identities:   secrets.NewIdentityManager(settings, opts.Passphrase, opts.Logger),
			Logger:       opts.Logger,
		}), nil
	}

	if opts.AgeIdentity != "" {
		opts.Logger.Warnf("--age-identity is ignored by the %s backend", name)
	}

	open := opts.OpenKeyring
	if open == nil {
		open = keyring.Open
	}

	opts.Logger.Debugf("Opening %s keyring", name)
	ring, err := open(keyring.Config{
		ServiceName:              serviceName,
		AllowedBackends:          []keyring.BackendType{keyringTypes[name]},
		KeychainTrustApplication: true,
		LibSecretCollectionName:  "login",
		WinCredPrefix:            serviceName,
	})
	if err != nil {
		if errors.Is(err, keyring.ErrNoAvailImpl) {
			return nil, fmt.Errorf("%w: %s is not supported on this system", kerrors.ErrBackendUnavailable, name)
		}
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrBackendUnavailable, name, err)
	}

	return NewKeyringBackend(name, ring), nil
}
