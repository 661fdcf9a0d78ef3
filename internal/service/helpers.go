package service

import (
	"encoding/json"
	"strings"
)

// RequestMeta identifies the actor and origin of an admin request.
type RequestMeta struct {
	UserID    uint
	Username  string
	IPAddress string
	UserAgent string
}

func (m RequestMeta) userID() *uint {
	if m.UserID == 0 {
		return nil
	}
	id := m.UserID
	return &id
}

func (m RequestMeta) username() string {
	if strings.TrimSpace(m.Username) == "" {
		return "unknown"
	}
	return m.Username
}

func uintPtr(v uint) *uint {
	return &v
}

// snapshot serialises a value for the audit old/new columns.
func snapshot(value interface{}) []byte {
	if value == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return raw
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}
	return append([]string(nil), values...)
}
