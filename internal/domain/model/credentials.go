package model

// Credentials is the account used to authenticate with the ICS-2000 hub.
// It is persisted after every successful login and loaded once at startup.
type Credentials struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

func (c Credentials) Valid() bool {
	return c.Identifier != "" && c.Secret != ""
}
