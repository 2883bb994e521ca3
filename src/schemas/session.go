package schemas

import (
	"strings"

	"github.com/google/uuid"
)

// Session carries the bearer credential used against the tracker backend. It is passed
// explicitly to every client call.
type Session struct {
	Token string
}

func NewSession(token string) *Session {
	return &Session{Token: strings.TrimSpace(token)}
}

func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}

var sessionNamespace = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")

// Key identifies the session in caches and generation tables without exposing the token.
func (s *Session) Key() string {
	if !s.Valid() {
		return ""
	}
	return uuid.NewSHA1(sessionNamespace, []byte(s.Token)).String()
}
