// Package credentials manages HTTP Basic credentials for das2 servers: an
// in-memory table keyed by server/realm/dataset, a pluggable prompt
// callback for interactive use, and a pipe-delimited on-disk file format.
package credentials

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/arloliu/das2/errs"
	"github.com/arloliu/das2/transport"
)

// entry is one stored credential record (§4.6 "credentials manager").
type entry struct {
	server  string
	realm   string
	dataset string // optional, "" if the credential applies to the whole realm
	userb64 string
	passb64 string
	valid   bool
}

// PromptFunc requests a username/password from the user interactively,
// for use when no stored credential matches a 401/403 challenge.
type PromptFunc func(server, realm string) (user, pass string, err error)

// Manager holds the in-memory credentials table for one process.
type Manager struct {
	entries []entry
	prompt  PromptFunc
}

// NewManager creates an empty Manager. prompt may be nil, in which case
// GetHTTPAuth returns errs.ErrAuthRequired instead of prompting.
func NewManager(prompt PromptFunc) *Manager {
	return &Manager{prompt: prompt}
}

// AddUserPass registers a credential for server/realm (dataset may be "").
func (m *Manager) AddUserPass(server, realm, dataset, user, pass string) {
	m.removeMatching(server, realm, dataset)
	m.entries = append(m.entries, entry{
		server:  server,
		realm:   realm,
		dataset: dataset,
		userb64: base64.StdEncoding.EncodeToString([]byte(user)),
		passb64: base64.StdEncoding.EncodeToString([]byte(pass)),
		valid:   true,
	})
}

func (m *Manager) removeMatching(server, realm, dataset string) {
	out := m.entries[:0]
	for _, e := range m.entries {
		if e.server == server && e.realm == realm && e.dataset == dataset {
			continue
		}
		out = append(out, e)
	}
	m.entries = out
}

// find returns the most specific matching entry: an exact dataset match
// first, then the realm-wide ("" dataset) entry.
func (m *Manager) find(server, realm, dataset string) (*entry, bool) {
	var realmWide *entry
	for i := range m.entries {
		e := &m.entries[i]
		if e.server != server || e.realm != realm || !e.valid {
			continue
		}
		if e.dataset == dataset && dataset != "" {
			return e, true
		}
		if e.dataset == "" {
			realmWide = e
		}
	}
	if realmWide != nil {
		return realmWide, true
	}

	return nil, false
}

// GetHTTPAuth returns the "Basic ..." Authorization header value for
// server/realm/dataset, consulting the stored table first and falling
// back to the configured prompt callback. The prompted credential is
// cached for subsequent calls.
func (m *Manager) GetHTTPAuth(server, realm, dataset string) (string, error) {
	if e, ok := m.find(server, realm, dataset); ok {
		user, err := base64.StdEncoding.DecodeString(e.userb64)
		if err != nil {
			return "", fmt.Errorf("credentials: %w", errs.ErrCredentialsFile)
		}
		pass, err := base64.StdEncoding.DecodeString(e.passb64)
		if err != nil {
			return "", fmt.Errorf("credentials: %w", errs.ErrCredentialsFile)
		}

		return transport.BasicAuthHeader(string(user), string(pass)), nil
	}

	if m.prompt == nil {
		return "", fmt.Errorf("credentials: %w", errs.ErrAuthRequired)
	}

	user, pass, err := m.prompt(server, realm)
	if err != nil {
		return "", fmt.Errorf("credentials: %w", err)
	}
	m.AddUserPass(server, realm, dataset, user, pass)

	return transport.BasicAuthHeader(user, pass), nil
}

// MarkFailed invalidates the stored credential for server/realm/dataset
// after the server has rejected it, so the next GetHTTPAuth call falls
// through to the prompt instead of retrying the same rejected value.
func (m *Manager) MarkFailed(server, realm, dataset string) {
	if e, ok := m.find(server, realm, dataset); ok {
		e.valid = false
	}
}

// Save writes the credentials table to w in the pipe-delimited file
// format: server|realm|dataset|base64(user)|base64(pass)|valid
func (m *Manager) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range m.entries {
		validFlag := "0"
		if e.valid {
			validFlag = "1"
		}
		if _, err := fmt.Fprintf(bw, "%s|%s|%s|%s|%s|%s\n",
			e.server, e.realm, e.dataset, e.userb64, e.passb64, validFlag); err != nil {
			return fmt.Errorf("credentials: %w", errs.ErrIO)
		}
	}

	return bw.Flush()
}

// Load reads entries from r in the format written by Save, appending to
// the Manager's existing table.
func (m *Manager) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) != 6 {
			return fmt.Errorf("credentials: %w: %q", errs.ErrCredentialsFile, line)
		}

		m.entries = append(m.entries, entry{
			server:  fields[0],
			realm:   fields[1],
			dataset: fields[2],
			userb64: fields[3],
			passb64: fields[4],
			valid:   fields[5] == "1",
		})
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("credentials: %w", errs.ErrIO)
	}

	return nil
}
