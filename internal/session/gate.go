// Package session holds the process-wide authentication state: an opaque
// bearer token plus the display identity it was issued to. Every
// protected screen and every networked command consults the gate before
// doing anything else; no authenticated request is built without it.
package session

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Env overrides; both must be set or neither applies, so the
// identity-iff-credential invariant holds for every source.
const (
	envToken = "TASKDECK_TOKEN"
	envUser  = "TASKDECK_USER"
)

// Gate answers "is someone signed in, and as whom". Reads vastly
// outnumber writes and both happen on the same event loop, so there is
// no locking. The backing Store is injected so tests can use a fake.
type Gate struct {
	store  Store
	creds  *Credentials
	source string // "env" | "file" | ""
	loaded bool
}

func NewGate(store Store) *Gate {
	return &Gate{store: store}
}

// load resolves the session once, on first use: env override first,
// then the store. A load error counts as "no session"; the next
// Establish will overwrite whatever was unreadable.
func (g *Gate) load() {
	if g.loaded {
		return
	}
	g.loaded = true

	tok := strings.TrimSpace(os.Getenv(envToken))
	user := strings.TrimSpace(os.Getenv(envUser))
	if tok != "" && user != "" {
		g.creds = &Credentials{Token: stripBearer(tok), Identity: user}
		g.source = "env"
		return
	}

	c, err := g.store.Load()
	if err != nil || c == nil || c.Token == "" || c.Identity == "" {
		return
	}
	c.Token = stripBearer(c.Token)
	g.creds = c
	g.source = "file"
}

// HasSession reports whether a credential (and therefore an identity)
// is present.
func (g *Gate) HasSession() bool {
	g.load()
	return g.creds != nil
}

// Identity returns the display name of the signed-in user, or "".
func (g *Gate) Identity() string {
	g.load()
	if g.creds == nil {
		return ""
	}
	return g.creds.Identity
}

// Token returns the bearer token, or "".
func (g *Gate) Token() string {
	g.load()
	if g.creds == nil {
		return ""
	}
	return g.creds.Token
}

// Source reports where the current session came from ("env" or "file").
func (g *Gate) Source() string {
	g.load()
	return g.source
}

// Info returns a copy of the current credentials, or nil.
func (g *Gate) Info() *Credentials {
	g.load()
	if g.creds == nil {
		return nil
	}
	c := *g.creds
	return &c
}

// Establish stores token and identity as one record. Called exactly once
// per successful login or signup; rejects a partial pair outright.
func (g *Gate) Establish(token, identity string) error {
	token = stripBearer(strings.TrimSpace(token))
	identity = strings.TrimSpace(identity)
	if token == "" || identity == "" {
		return fmt.Errorf("establish: token and identity are both required")
	}
	c := Credentials{Token: token, Identity: identity, CreatedAt: time.Now()}
	if err := g.store.Save(c); err != nil {
		return err
	}
	g.loaded = true
	g.creds = &c
	g.source = "file"
	return nil
}

// Clear is the single logout operation: it drops both fields together.
// An env-sourced session cannot be cleared from here; the caller should
// tell the user to unset the variables.
func (g *Gate) Clear() error {
	g.load()
	if g.source == "env" {
		return fmt.Errorf("session comes from %s/%s; unset them to log out", envToken, envUser)
	}
	if err := g.store.Delete(); err != nil {
		return err
	}
	g.creds = nil
	g.source = ""
	return nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
