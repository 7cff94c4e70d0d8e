package probe

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const DefaultPort = "27017"

// Result is the outcome of dialing one host of a connection string.
type Result struct {
	Addr    string
	Latency time.Duration
	Err     error
}

func (r Result) OK() bool { return r.Err == nil }

// Hosts returns the host:port pairs named by a MongoDB connection string.
// SRV strings are resolved by the driver's parser.
func Hosts(uri string) ([]string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	hosts := make([]string, 0, len(cs.Hosts))
	for _, h := range cs.Hosts {
		if _, _, err := net.SplitHostPort(h); err != nil {
			h = net.JoinHostPort(h, DefaultPort)
		}
		hosts = append(hosts, h)
	}
	return hosts, nil
}

// Reachable dials addr over TCP and closes the connection straight away.
func Reachable(ctx context.Context, addr string, timeout time.Duration) error {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return conn.Close()
}

// Check dials every host in uri and reports one Result per host.
func Check(ctx context.Context, uri string, timeout time.Duration) ([]Result, error) {
	hosts, err := Hosts(uri)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(hosts))
	for _, addr := range hosts {
		start := time.Now()
		err := Reachable(ctx, addr, timeout)
		results = append(results, Result{Addr: addr, Latency: time.Since(start), Err: err})
	}
	return results, nil
}

// AnyReachable reports whether at least one result succeeded.
func AnyReachable(results []Result) bool {
	for _, r := range results {
		if r.OK() {
			return true
		}
	}
	return false
}
