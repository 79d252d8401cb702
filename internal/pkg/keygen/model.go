package keygen

// DefaultBits is the key length used for every round unless configured otherwise.
const DefaultBits = 256

// SecretKey is a lowercase hex encoded random key.
type SecretKey string

func (k SecretKey) String() string {
	return string(k)
}

func (k SecretKey) Bytes() []byte {
	return []byte(k)
}
