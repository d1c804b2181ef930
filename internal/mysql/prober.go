package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	errwrap "github.com/wpstack/wpstack/internal/errors"
	"github.com/wpstack/wpstack/internal/shell"
)

// DefaultBinary is the mysql client looked up on PATH.
const DefaultBinary = "mysql"

// Prober finds a working connection to a local MySQL server.
//
// Hosts are tried before Sockets, each in declared order, and the first
// candidate that answers SELECT 1 wins. Socket paths that do not exist on Fs
// are skipped without spawning the client.
type Prober struct {
	Runner   shell.Runner
	Fs       afero.Fs
	Binary   string
	Password string
	Hosts    []string
	Sockets  []string
	Cache    *ConnectionCache
}

// NewProber returns a Prober with the default candidates and a fresh cache.
func NewProber(runner shell.Runner, fs afero.Fs) *Prober {
	return &Prober{
		Runner:  runner,
		Fs:      fs,
		Binary:  DefaultBinary,
		Hosts:   append([]string(nil), DefaultHosts...),
		Sockets: append([]string(nil), DefaultSockets...),
		Cache:   NewConnectionCache(),
	}
}

func (p *Prober) binary() string {
	if strings.TrimSpace(p.Binary) == "" {
		return DefaultBinary
	}
	return p.Binary
}

func (p *Prober) hosts() []string {
	if p.Hosts == nil {
		return DefaultHosts
	}
	return p.Hosts
}

func (p *Prober) sockets() []string {
	if p.Sockets == nil {
		return DefaultSockets
	}
	return p.Sockets
}

// Cached returns the connection for identity, probing only on the first call.
// Failures are not cached.
func (p *Prober) Cached(ctx context.Context, identity string) (string, error) {
	if p.Cache == nil {
		return p.Probe(ctx, identity)
	}
	if result, ok := p.Cache.Get(identity); ok {
		return result, nil
	}

	result, err := p.Probe(ctx, identity)
	if err != nil {
		return "", err
	}
	return p.Cache.Set(identity, result), nil
}

// Probe checks the client binary, then tries every candidate in order and
// returns the normalized connection result of the first that answers.
func (p *Prober) Probe(ctx context.Context, identity string) (string, error) {
	if _, err := p.Runner.Run(ctx, p.binary(), []string{"--version"}, shell.Options{}); err != nil {
		return "", errwrap.NewClientNotInstalledError(
			fmt.Sprintf("MySQL client %q is not installed or not on PATH: %v", p.binary(), err))
	}

	for _, candidate := range Candidates(p.hosts(), p.sockets()) {
		if candidate.Kind == KindSocket {
			exists, err := afero.Exists(p.Fs, candidate.Path)
			if err != nil || !exists {
				continue
			}
		}

		if p.try(ctx, identity, candidate) {
			return candidate.String(), nil
		}
	}

	return "", errwrap.NewNoConnectionFoundError(p.exhaustedMessage(identity))
}

func (p *Prober) try(ctx context.Context, identity string, candidate Candidate) bool {
	args := []string{"-u", identity}
	if p.Password != "" {
		args = append(args, "--password="+p.Password)
	}
	if candidate.Kind == KindSocket {
		args = append(args, "--socket="+candidate.Path)
	} else {
		args = append(args, "-h", candidate.Host)
	}
	args = append(args, "-e", "SELECT 1")

	_, err := p.Runner.Run(ctx, p.binary(), args, shell.Options{})
	return err == nil
}

func (p *Prober) exhaustedMessage(identity string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "could not connect to MySQL as %q.\n", identity)
	b.WriteString("Tried TCP hosts:\n")
	for _, h := range p.hosts() {
		fmt.Fprintf(&b, "  - %s\n", h)
	}
	b.WriteString("Tried socket paths:\n")
	for _, s := range p.sockets() {
		fmt.Fprintf(&b, "  - %s\n", s)
	}
	b.WriteString("Make sure the MySQL server is running and the credentials are correct.")
	return b.String()
}
