package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/solvehub/server/internal/utils"
)

// oauthState is round-tripped through the provider. The nonce makes each
// state value unique; Flow tells the callback which page started the dance.
type oauthState struct {
	Nonce string `json:"nonce"`
	Flow  string `json:"flow"`
}

func encodeOAuthState(flow string) (string, error) {
	nonce, err := utils.GenerateSecureToken(16)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(oauthState{Nonce: nonce, Flow: flow})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(payload), nil
}

func decodeOAuthState(state string) (oauthState, error) {
	payload, err := base64.RawURLEncoding.DecodeString(state)
	if err != nil {
		return oauthState{}, fmt.Errorf("decode state: %w", err)
	}

	var s oauthState
	if err := json.Unmarshal(payload, &s); err != nil {
		return oauthState{}, fmt.Errorf("unmarshal state: %w", err)
	}
	if s.Nonce == "" {
		return oauthState{}, fmt.Errorf("missing state nonce")
	}
	return s, nil
}
