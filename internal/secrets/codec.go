package secrets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/envchain/internal/errors"

	"filippo.io/age"
)

// EncodePlaintext renders c as the JSON document stored inside secrets.age.
// Keys are sorted and indented by two spaces, so equal containers encode to
// identical bytes.
func EncodePlaintext(c *Container) ([]byte, error) {
	for namespace, entries := range c.namespaces {
		if !utf8.ValidString(namespace) {
			return nil, fmt.Errorf("namespace is not valid UTF-8: %w", kerrors.ErrInvalidEntry)
		}
		for name, value := range entries {
			if !utf8.ValidString(name) || !utf8.ValidString(value) {
				return nil, fmt.Errorf("%s: name or value is not valid UTF-8: %w", namespace, kerrors.ErrInvalidEntry)
			}
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.namespaces); err != nil {
		return nil, fmt.Errorf("failed to encode secrets: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DecodePlaintext parses the JSON document stored inside secrets.age.
// Namespaces without entries are dropped and invalid UTF-8 is rejected.
func DecodePlaintext(data []byte) (*Container, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("secrets are not valid UTF-8: %w", kerrors.ErrCorruptContainer)
	}

	var raw map[string]map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse secrets: %v: %w", err, kerrors.ErrCorruptContainer)
	}

	c := NewContainer()
	for namespace, entries := range raw {
		for name, value := range entries {
			c.Set(namespace, name, value)
		}
	}
	return c, nil
}

// EncodeContainer serialises c and encrypts it to id's recipient.
func EncodeContainer(c *Container, id *Identity) ([]byte, error) {
	plaintext, err := EncodePlaintext(c)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	w, err := age.Encrypt(&out, id.Recipient())
	if err != nil {
		return nil, fmt.Errorf("failed to start encryption: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("failed to encrypt secrets: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish encryption: %w", err)
	}

	return out.Bytes(), nil
}

// DecodeContainer decrypts ciphertext with id and parses the result. Empty
// input is an empty container. ErrDecryption means id is not a recipient of
// the file; ErrCorruptContainer means the file is damaged.
func DecodeContainer(ciphertext []byte, id *Identity) (*Container, error) {
	if len(ciphertext) == 0 {
		return NewContainer(), nil
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), id.AgeIdentity())
	if err != nil {
		return nil, classifyDecryptError(err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read encrypted payload: %v: %w", err, kerrors.ErrCorruptContainer)
	}

	return DecodePlaintext(plaintext)
}

func classifyDecryptError(err error) error {
	var noMatch *age.NoIdentityMatchError
	if errors.As(err, &noMatch) || errors.Is(err, age.ErrIncorrectIdentity) {
		return fmt.Errorf("%w: %v", kerrors.ErrDecryption, err)
	}
	return fmt.Errorf("failed to decrypt secrets: %v: %w", err, kerrors.ErrCorruptContainer)
}
