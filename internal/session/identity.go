// Package session carries the authenticated principal of a single request.
package session

import "github.com/gin-gonic/gin"

const identityKey = "identity"

// Identity is built once per request from a validated token and handed to
// services as an explicit argument.
type Identity struct {
	Username string
	IsAdmin  bool
}

func (i Identity) Valid() bool {
	return i.Username != ""
}

func Set(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

// FromGin returns the zero Identity when the request carries none.
func FromGin(c *gin.Context) Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}
	}
	id, _ := v.(Identity)
	return id
}
