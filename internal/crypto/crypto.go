package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	// keyLen — длина ключа для AES‑256 (в байтах).
	keyLen = 32
	// nonceLen — длина IV, совпадает с размером блока AES.
	nonceLen = 16
	// tagLen — длина тега аутентификации GCM.
	tagLen = 16
)

var (
	// ErrIntegrity — конверт разобран, но тег не сошёлся (подмена данных или чужой ключ),
	// либо поля конверта повреждены.
	ErrIntegrity = errors.New("secret integrity check failed")

	// ErrEmptyMasterSecret — мастер-секрет не задан.
	ErrEmptyMasterSecret = errors.New("empty master secret")
)

// envelope — текстовая форма зашифрованного значения, хранится в поле value ключа.
type envelope struct {
	Content string `json:"content"`
	IV      string `json:"iv"`
	Tag     string `json:"tag"`
}

// Cipher шифрует значения секретов ключом, выведенным из мастер-секрета.
type Cipher struct {
	key []byte
}

// DeriveKey выводит 256-битный ключ из мастер-секрета оператора (SHA-256).
func DeriveKey(masterSecret []byte) []byte {
	sum := sha256.Sum256(masterSecret)
	return sum[:]
}

// NewCipher создаёт Cipher. Пустой мастер-секрет — ошибка конфигурации.
func NewCipher(masterSecret []byte) (*Cipher, error) {
	if len(masterSecret) == 0 {
		return nil, ErrEmptyMasterSecret
	}
	return &Cipher{key: DeriveKey(masterSecret)}, nil
}

// Seal шифрует plaintext и возвращает сериализованный конверт {content, iv, tag}.
func (c *Cipher) Seal(plaintext string) (string, error) {
	ciphertext, nonce, tag, err := encrypt([]byte(plaintext), c.key)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(envelope{
		Content: hex.EncodeToString(ciphertext),
		IV:      hex.EncodeToString(nonce),
		Tag:     hex.EncodeToString(tag),
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Open расшифровывает конверт.
// Значение, которое не является конвертом (например, старые записи в открытом виде),
// возвращается как есть. Для разобранного конверта с неверным тегом — ErrIntegrity.
func (c *Cipher) Open(value string) (string, error) {
	env, ok := parseEnvelope(value)
	if !ok {
		return value, nil
	}
	ciphertext, err := hex.DecodeString(env.Content)
	if err != nil {
		return "", fmt.Errorf("%w: content: %v", ErrIntegrity, err)
	}
	nonce, err := hex.DecodeString(env.IV)
	if err != nil || len(nonce) != nonceLen {
		return "", fmt.Errorf("%w: bad iv", ErrIntegrity)
	}
	tag, err := hex.DecodeString(env.Tag)
	if err != nil || len(tag) != tagLen {
		return "", fmt.Errorf("%w: bad tag", ErrIntegrity)
	}
	plain, err := decrypt(ciphertext, nonce, tag, c.key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	return string(plain), nil
}

// parseEnvelope считает значение конвертом, если это JSON-объект с непустыми iv и tag.
func parseEnvelope(value string) (envelope, bool) {
	if value == "" {
		return envelope{}, false
	}
	var env envelope
	if err := json.Unmarshal([]byte(value), &env); err != nil {
		return envelope{}, false
	}
	if env.IV == "" || env.Tag == "" {
		return envelope{}, false
	}
	return env, true
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != keyLen {
		return nil, errors.New("invalid key length")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, nonceLen)
}

// encrypt шифрует plain с помощью AES‑GCM.
// Возвращает шифртекст, nonce и тег раздельно.
func encrypt(plain, key []byte) ([]byte, []byte, []byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, nil, err
	}
	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, nil, err
	}
	out := gcm.Seal(nil, nonce, plain, nil)
	split := len(out) - tagLen
	return out[:split], nonce, out[split:], nil
}

// decrypt расшифровывает шифртекст и проверяет тег.
func decrypt(ciphertext, nonce, tag, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, errors.New("invalid nonce size")
	}
	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)
	return gcm.Open(nil, nonce, sealed, nil)
}
