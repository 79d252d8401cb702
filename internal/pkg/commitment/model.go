package commitment

const AlgorithmHMACSHA256 = "HMAC-SHA256"

type Commitment struct {
	Tag       string `json:"tag"`
	Algorithm string `json:"algorithm"`
}
