package verifier

import "github.com/vreid/fairplay/internal/pkg/session"

type VerifyRequest struct {
	Tag  string `json:"tag"`
	Key  string `json:"key"`
	Move string `json:"move"`
}

type VerifyResponse struct {
	Valid bool   `json:"valid"`
	Tag   string `json:"tag"`
}

type RulesRequest struct {
	Moves []string `json:"moves"`
}

type DisclosureRequest struct {
	Moves      []string              `json:"moves"`
	Commit     session.CommitMessage `json:"commit"`
	Disclosure session.Disclosure    `json:"disclosure"`
}

type DisclosureResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}
