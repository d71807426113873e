package redisserver

import (
	"context"
	"crypto/subtle"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/snapkv/internal/core/domain"
	"github.com/yndnr/snapkv/internal/core/service"
	"github.com/yndnr/snapkv/pkg/cmap"
)

// Static error replies.
const (
	errNotInteger   = "ERR value is not an integer or out of range"
	errNoAuth       = "NOAUTH Authentication required"
	errInvalidPass  = "WRONGPASS invalid password"
	errNoPassword   = "ERR AUTH called without any password configured"
	errRateExceeded = "ERR rate limit exceeded"
)

// formatError renders err as a RESP error line without the leading '-'.
func formatError(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return "ERR " + de.Code + " " + de.Message
	}
	return "ERR " + err.Error()
}

func arityError(name string) string {
	return "ERR wrong number of arguments for '" + strings.ToLower(name) + "' command"
}

// command describes one RESP command. minArgs and maxArgs count the
// command name itself.
type command struct {
	minArgs int
	maxArgs int
	// open commands are allowed before AUTH.
	open bool
	run  func(h *CommandHandler, ctx context.Context, c *Conn, args []string) bool
}

var commands = map[string]command{
	"PING":       {minArgs: 1, maxArgs: 2, open: true, run: (*CommandHandler).ping},
	"AUTH":       {minArgs: 2, maxArgs: 2, open: true, run: (*CommandHandler).auth},
	"QUIT":       {minArgs: 1, maxArgs: 1, open: true, run: (*CommandHandler).quit},
	"SET":        {minArgs: 5, maxArgs: 5, run: (*CommandHandler).set},
	"SETTTL":     {minArgs: 6, maxArgs: 6, run: (*CommandHandler).setTTL},
	"GET":        {minArgs: 4, maxArgs: 4, run: (*CommandHandler).get},
	"DEL":        {minArgs: 4, maxArgs: 4, run: (*CommandHandler).del},
	"SCAN":       {minArgs: 3, maxArgs: 3, run: (*CommandHandler).scan},
	"SCANPREFIX": {minArgs: 4, maxArgs: 4, run: (*CommandHandler).scanPrefix},
	"TTL":        {minArgs: 4, maxArgs: 4, run: (*CommandHandler).ttl},
	"BACKUP":     {minArgs: 2, maxArgs: 2, run: (*CommandHandler).backup},
	"RESTORE":    {minArgs: 3, maxArgs: 3, run: (*CommandHandler).restore},
	"BACKUPS":    {minArgs: 1, maxArgs: 1, run: (*CommandHandler).backups},
	"INFO":       {minArgs: 1, maxArgs: 2, run: (*CommandHandler).info},
}

// CommandHandler executes commands against a Database.
type CommandHandler struct {
	db       *service.Database
	password string
	limiter  *ipLimiter
}

// NewCommandHandler creates a handler. An empty password disables AUTH;
// a non-positive rateLimit disables rate limiting.
func NewCommandHandler(db *service.Database, password string, rateLimit int) *CommandHandler {
	h := &CommandHandler{
		db:       db,
		password: password,
	}
	if rateLimit > 0 {
		h.limiter = newIPLimiter(rateLimit)
	}
	return h
}

// Handle executes args on c and buffers the reply. It reports whether the
// connection should be closed after flushing.
func (h *CommandHandler) Handle(ctx context.Context, c *Conn, args []string) bool {
	name := strings.ToUpper(args[0])

	cmd, ok := commands[name]
	if !ok {
		_ = c.w.Error("ERR unknown command '" + args[0] + "'")
		return false
	}
	if len(args) < cmd.minArgs || len(args) > cmd.maxArgs {
		_ = c.w.Error(arityError(name))
		return false
	}
	if !cmd.open && h.password != "" && !c.authenticated {
		_ = c.w.Error(errNoAuth)
		return false
	}
	if h.limiter != nil && !h.limiter.allow(hostOf(c.RemoteAddr())) {
		_ = c.w.Error(errRateExceeded)
		return false
	}

	return cmd.run(h, ctx, c, args)
}

func (h *CommandHandler) ping(_ context.Context, c *Conn, args []string) bool {
	if len(args) == 2 {
		_ = c.w.Bulk(args[1])
		return false
	}
	_ = c.w.Status("PONG")
	return false
}

func (h *CommandHandler) auth(_ context.Context, c *Conn, args []string) bool {
	if h.password == "" {
		_ = c.w.Error(errNoPassword)
		return false
	}
	if subtle.ConstantTimeCompare([]byte(args[1]), []byte(h.password)) != 1 {
		c.authenticated = false
		_ = c.w.Error(errInvalidPass)
		return false
	}
	c.authenticated = true
	_ = c.w.Status("OK")
	return false
}

func (h *CommandHandler) quit(_ context.Context, c *Conn, _ []string) bool {
	_ = c.w.Status("OK")
	return true
}

// SET key field value time
func (h *CommandHandler) set(ctx context.Context, c *Conn, args []string) bool {
	now, ok := parseInts(c, args[4])
	if !ok {
		return false
	}
	if err := h.db.Set(ctx, args[1], args[2], args[3], now[0]); err != nil {
		_ = c.w.Error(formatError(err))
		return false
	}
	_ = c.w.Status("OK")
	return false
}

// SETTTL key field value time ttl
func (h *CommandHandler) setTTL(ctx context.Context, c *Conn, args []string) bool {
	v, ok := parseInts(c, args[4], args[5])
	if !ok {
		return false
	}
	if err := h.db.SetWithTTL(ctx, args[1], args[2], args[3], v[0], v[1]); err != nil {
		_ = c.w.Error(formatError(err))
		return false
	}
	_ = c.w.Status("OK")
	return false
}

// GET key field time
func (h *CommandHandler) get(ctx context.Context, c *Conn, args []string) bool {
	now, ok := parseInts(c, args[3])
	if !ok {
		return false
	}
	value, found := h.db.Get(ctx, args[1], args[2], now[0])
	if !found {
		_ = c.w.Null()
		return false
	}
	_ = c.w.Bulk(value)
	return false
}

// DEL key field time
func (h *CommandHandler) del(ctx context.Context, c *Conn, args []string) bool {
	now, ok := parseInts(c, args[3])
	if !ok {
		return false
	}
	if h.db.Delete(ctx, args[1], args[2], now[0]) {
		_ = c.w.Integer(1)
	} else {
		_ = c.w.Integer(0)
	}
	return false
}

// SCAN key time
func (h *CommandHandler) scan(ctx context.Context, c *Conn, args []string) bool {
	now, ok := parseInts(c, args[2])
	if !ok {
		return false
	}
	writeFieldValues(c, h.db.ScanAll(ctx, args[1], now[0]))
	return false
}

// SCANPREFIX key prefix time
func (h *CommandHandler) scanPrefix(ctx context.Context, c *Conn, args []string) bool {
	now, ok := parseInts(c, args[3])
	if !ok {
		return false
	}
	writeFieldValues(c, h.db.ScanByPrefix(ctx, args[1], args[2], now[0]))
	return false
}

// TTL key field time replies -2 for a missing field and -1 for a permanent one.
func (h *CommandHandler) ttl(ctx context.Context, c *Conn, args []string) bool {
	now, ok := parseInts(c, args[3])
	if !ok {
		return false
	}
	rem, found := h.db.TTL(ctx, args[1], args[2], now[0])
	if !found {
		_ = c.w.Integer(-2)
		return false
	}
	_ = c.w.Integer(rem)
	return false
}

// BACKUP time
func (h *CommandHandler) backup(ctx context.Context, c *Conn, args []string) bool {
	at, ok := parseInts(c, args[1])
	if !ok {
		return false
	}
	_ = c.w.Integer(int64(h.db.Backup(ctx, at[0])))
	return false
}

// RESTORE currentTime restoreTime replies with the time of the backup used.
func (h *CommandHandler) restore(ctx context.Context, c *Conn, args []string) bool {
	v, ok := parseInts(c, args[1], args[2])
	if !ok {
		return false
	}
	info, err := h.db.Restore(ctx, v[0], v[1])
	if err != nil {
		_ = c.w.Error(formatError(err))
		return false
	}
	_ = c.w.Integer(info.Time)
	return false
}

// BACKUPS lists "time records fields" lines in ascending time order.
func (h *CommandHandler) backups(ctx context.Context, c *Conn, _ []string) bool {
	list := h.db.Backups(ctx)
	lines := make([]string, 0, len(list))
	for _, b := range list {
		lines = append(lines, strconv.FormatInt(b.Time, 10)+" "+strconv.Itoa(b.Records)+" "+strconv.Itoa(b.Fields))
	}
	_ = c.w.Strings(lines)
	return false
}

// INFO [section] ignores the section argument; there is only one.
func (h *CommandHandler) info(ctx context.Context, c *Conn, _ []string) bool {
	st := h.db.Stats(ctx)
	var b strings.Builder
	b.WriteString("# Keyspace\r\n")
	b.WriteString("records:" + strconv.Itoa(st.Records) + "\r\n")
	b.WriteString("fields:" + strconv.Itoa(st.Fields) + "\r\n")
	b.WriteString("snapshots:" + strconv.Itoa(st.Snapshots) + "\r\n")
	_ = c.w.Bulk(b.String())
	return false
}

func writeFieldValues(c *Conn, fvs []domain.FieldValue) {
	lines := make([]string, len(fvs))
	for i, fv := range fvs {
		lines[i] = fv.String()
	}
	_ = c.w.Strings(lines)
}

// parseInts parses every argument as int64 and writes the error reply
// itself when one is malformed.
func parseInts(c *Conn, args ...string) ([]int64, bool) {
	out := make([]int64, len(args))
	for i, a := range args {
		n, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			_ = c.w.Error(errNotInteger)
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

// ipLimiter keeps one token bucket per client IP.
type ipLimiter struct {
	limiters *cmap.Map[*rate.Limiter]
	limit    rate.Limit
	burst    int
}

func newIPLimiter(perSecond int) *ipLimiter {
	return &ipLimiter{
		limiters: cmap.New[*rate.Limiter](),
		limit:    rate.Limit(perSecond),
		burst:    perSecond,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	lim, _ := l.limiters.GetOrCreate(ip, func() *rate.Limiter {
		return rate.NewLimiter(l.limit, l.burst)
	})
	return lim.Allow()
}

// prune drops buckets that have refilled completely. A full bucket behaves
// exactly like a new one, so no client gains capacity from this.
func (l *ipLimiter) prune() int {
	now := time.Now()
	return l.limiters.DeleteFunc(func(_ string, lim *rate.Limiter) bool {
		return lim.TokensAt(now) >= float64(l.burst)
	})
}

// Release is called when a connection ends and trims idle rate-limit state.
func (h *CommandHandler) Release() {
	if h.limiter != nil {
		h.limiter.prune()
	}
}

func hostOf(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
