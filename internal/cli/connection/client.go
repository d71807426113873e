package connection

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/snapkv/internal/server/redisserver"
)

// DefaultTimeout bounds a request when ctx carries no deadline.
const DefaultTimeout = 10 * time.Second

// ErrUnexpectedReply is returned when the server answers with the wrong type.
var ErrUnexpectedReply = errors.New("connection: unexpected reply")

// Options configures Dial.
type Options struct {
	// Addr is the server host:port.
	Addr string
	// Password is sent with AUTH right after connecting when non-empty.
	Password string
	// Timeout applies to requests whose context has no deadline.
	Timeout time.Duration
}

// Client talks to one snapkv server.
type Client struct {
	conn    net.Conn
	r       *redisserver.Reader
	w       *redisserver.Writer
	timeout time.Duration
}

// Dial connects to opts.Addr and authenticates when a password is set.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	var d net.Dialer
	dialCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	conn, err := d.DialContext(dialCtx, "tcp", opts.Addr)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", opts.Addr, err)
	}

	c := &Client{
		conn:    conn,
		r:       redisserver.NewReader(conn),
		w:       redisserver.NewWriter(conn),
		timeout: opts.Timeout,
	}

	if opts.Password != "" {
		if _, err := c.Do(ctx, "AUTH", opts.Password); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("auth: %w", err)
		}
	}
	return c, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Do sends one command and returns its reply. Error replies are returned
// as *redisserver.ReplyError.
func (c *Client) Do(ctx context.Context, args ...string) (redisserver.Reply, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return redisserver.Reply{}, err
	}

	if err := c.w.Command(args...); err != nil {
		return redisserver.Reply{}, err
	}
	if err := c.w.Flush(); err != nil {
		return redisserver.Reply{}, err
	}

	rp, err := c.r.ReadReply()
	if err != nil {
		return redisserver.Reply{}, err
	}
	if err := rp.Err(); err != nil {
		return rp, err
	}
	return rp, nil
}

func (c *Client) expect(ctx context.Context, kind redisserver.ReplyKind, args ...string) (redisserver.Reply, error) {
	rp, err := c.Do(ctx, args...)
	if err != nil {
		return rp, err
	}
	if rp.Kind != kind {
		return rp, fmt.Errorf("%w: %s returned %q", ErrUnexpectedReply, args[0], rp.Kind)
	}
	return rp, nil
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// Ping checks the connection.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	_, err := c.expect(ctx, redisserver.KindStatus, "PING")
	return time.Since(start), err
}

// Set stores a permanent value.
func (c *Client) Set(ctx context.Context, key, field, value string, now int64) error {
	_, err := c.expect(ctx, redisserver.KindStatus, "SET", key, field, value, itoa(now))
	return err
}

// SetTTL stores a value expiring at now+ttl.
func (c *Client) SetTTL(ctx context.Context, key, field, value string, now, ttl int64) error {
	_, err := c.expect(ctx, redisserver.KindStatus, "SETTTL", key, field, value, itoa(now), itoa(ttl))
	return err
}

// Get returns the value at key/field and whether it is live at now.
func (c *Client) Get(ctx context.Context, key, field string, now int64) (string, bool, error) {
	rp, err := c.expect(ctx, redisserver.KindBulk, "GET", key, field, itoa(now))
	if err != nil {
		return "", false, err
	}
	return rp.Str, !rp.Null, nil
}

// Delete removes key/field and reports whether it was live.
func (c *Client) Delete(ctx context.Context, key, field string, now int64) (bool, error) {
	rp, err := c.expect(ctx, redisserver.KindInteger, "DEL", key, field, itoa(now))
	if err != nil {
		return false, err
	}
	return rp.Int == 1, nil
}

// FieldValue is one scan entry.
type FieldValue struct {
	Field string `json:"field" yaml:"field"`
	Value string `json:"value" yaml:"value"`
}

// Scan lists the live fields of key, restricted to prefix when non-empty.
func (c *Client) Scan(ctx context.Context, key, prefix string, now int64) ([]FieldValue, error) {
	args := []string{"SCAN", key, itoa(now)}
	if prefix != "" {
		args = []string{"SCANPREFIX", key, prefix, itoa(now)}
	}

	rp, err := c.expect(ctx, redisserver.KindArray, args...)
	if err != nil {
		return nil, err
	}

	out := make([]FieldValue, 0, len(rp.Array))
	for _, item := range rp.Array {
		field, value, ok := strings.Cut(item.Str, " : ")
		if !ok {
			return nil, fmt.Errorf("%w: scan entry %q", ErrUnexpectedReply, item.Str)
		}
		out = append(out, FieldValue{Field: field, Value: value})
	}
	return out, nil
}

// TTL returns the remaining lifetime of key/field. Following Redis,
// -1 means permanent and -2 means absent.
func (c *Client) TTL(ctx context.Context, key, field string, now int64) (int64, error) {
	rp, err := c.expect(ctx, redisserver.KindInteger, "TTL", key, field, itoa(now))
	if err != nil {
		return 0, err
	}
	return rp.Int, nil
}

// Backup snapshots the server state at at and returns the record count.
func (c *Client) Backup(ctx context.Context, at int64) (int64, error) {
	rp, err := c.expect(ctx, redisserver.KindInteger, "BACKUP", itoa(at))
	if err != nil {
		return 0, err
	}
	return rp.Int, nil
}

// Restore restores the latest backup at or before restoreTime and returns
// that backup's time.
func (c *Client) Restore(ctx context.Context, currentTime, restoreTime int64) (int64, error) {
	rp, err := c.expect(ctx, redisserver.KindInteger, "RESTORE", itoa(currentTime), itoa(restoreTime))
	if err != nil {
		return 0, err
	}
	return rp.Int, nil
}

// BackupInfo describes one stored backup.
type BackupInfo struct {
	Time    int64 `json:"time" yaml:"time"`
	Records int64 `json:"records" yaml:"records"`
	Fields  int64 `json:"fields" yaml:"fields"`
}

// Backups lists stored backups in ascending time order.
func (c *Client) Backups(ctx context.Context) ([]BackupInfo, error) {
	rp, err := c.expect(ctx, redisserver.KindArray, "BACKUPS")
	if err != nil {
		return nil, err
	}

	out := make([]BackupInfo, 0, len(rp.Array))
	for _, item := range rp.Array {
		parts := strings.Fields(item.Str)
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: backup entry %q", ErrUnexpectedReply, item.Str)
		}
		var nums [3]int64
		for i, p := range parts {
			n, err := strconv.ParseInt(p, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: backup entry %q", ErrUnexpectedReply, item.Str)
			}
			nums[i] = n
		}
		out = append(out, BackupInfo{Time: nums[0], Records: nums[1], Fields: nums[2]})
	}
	return out, nil
}

// Stats are the counters reported by INFO.
type Stats struct {
	Records   int64 `json:"records" yaml:"records"`
	Fields    int64 `json:"fields" yaml:"fields"`
	Snapshots int64 `json:"snapshots" yaml:"snapshots"`
}

// Info returns the server counters.
func (c *Client) Info(ctx context.Context) (Stats, error) {
	rp, err := c.expect(ctx, redisserver.KindBulk, "INFO")
	if err != nil {
		return Stats{}, err
	}

	var st Stats
	for _, line := range strings.Split(rp.Str, "\r\n") {
		name, raw, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		switch name {
		case "records":
			st.Records = n
		case "fields":
			st.Fields = n
		case "snapshots":
			st.Snapshots = n
		}
	}
	return st, nil
}
