// Package mysql locates a working MySQL server connection and runs SQL
// through the mysql client binary.
package mysql

import (
	"strings"
)

// Kind selects the transport of a Candidate.
type Kind int

const (
	KindTCP Kind = iota
	KindSocket
)

func (k Kind) String() string {
	switch k {
	case KindTCP:
		return "tcp"
	case KindSocket:
		return "socket"
	default:
		return "unknown"
	}
}

// Candidate is one transport and address to try when locating a server.
type Candidate struct {
	Kind Kind
	Host string
	Path string
}

// TCP returns a host-based candidate.
func TCP(host string) Candidate {
	return Candidate{Kind: KindTCP, Host: host}
}

// Socket returns a Unix socket candidate.
func Socket(path string) Candidate {
	return Candidate{Kind: KindSocket, Path: path}
}

// String returns the normalized connection result for the candidate: the bare
// host for TCP, "localhost:<path>" for a socket.
func (c Candidate) String() string {
	if c.Kind == KindSocket {
		return socketHost + ":" + c.Path
	}
	return c.Host
}

const socketHost = "localhost"

// DefaultHosts are tried first, in order. The numeric loopback comes before
// "localhost" so name resolution cannot redirect the probe.
var DefaultHosts = []string{"127.0.0.1", "localhost"}

// DefaultSockets are tried after the TCP hosts, in order, skipping paths that
// do not exist.
var DefaultSockets = []string{
	"/tmp/mysql.sock",
	"/opt/homebrew/var/mysql/mysql.sock",
	"/usr/local/var/mysql/mysql.sock",
	"/var/run/mysqld/mysqld.sock",
	"/var/lib/mysql/mysql.sock",
}

// Candidates returns the trial order: every host, then every socket.
func Candidates(hosts, sockets []string) []Candidate {
	out := make([]Candidate, 0, len(hosts)+len(sockets))
	for _, h := range hosts {
		out = append(out, TCP(h))
	}
	for _, s := range sockets {
		out = append(out, Socket(s))
	}
	return out
}

// ParseConnection turns a connection result back into a Candidate.
func ParseConnection(result string) Candidate {
	if host, path, ok := strings.Cut(result, ":"); ok && host == socketHost && strings.HasPrefix(path, "/") {
		return Socket(path)
	}
	return TCP(result)
}

// ConnectionArgs returns mysql client arguments addressing result.
func ConnectionArgs(result string) []string {
	c := ParseConnection(result)
	if c.Kind == KindSocket {
		return []string{"-h", socketHost, "--socket=" + c.Path}
	}
	return []string{"-h", c.Host}
}
