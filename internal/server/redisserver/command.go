package redisserver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/pkg/resp"
)

// ErrInvalidArgument reports a known command with missing or unparsable
// arguments. The connection loop treats it as fatal.
var ErrInvalidArgument = errors.New("redisserver: invalid argument")

var (
	replyPong = resp.SimpleString("PONG")
	replyOK   = resp.SimpleString("OK")
)

// CommandHandler handles Redis commands.
type CommandHandler struct {
	store       Store
	logger      logger.Logger
	rateLimiter *rateLimiter
}

// NewCommandHandler creates a CommandHandler over store. rateLimit is the
// number of commands per second allowed per client IP; 0 disables it.
func NewCommandHandler(store Store, rateLimit int, log logger.Logger) *CommandHandler {
	if log == nil {
		log = logger.Default()
	}
	return &CommandHandler{
		store:       store,
		logger:      log,
		rateLimiter: newRateLimiter(rateLimit),
	}
}

// Handle executes cmd and returns the reply. A non-nil error means the
// request was unusable and the connection must be closed without a reply.
// conn may be nil, which skips rate limiting.
func (h *CommandHandler) Handle(ctx context.Context, conn *Conn, cmd resp.Command) (resp.Value, error) {
	if conn != nil && !h.rateLimiter.allow(clientIP(conn.RemoteAddr())) {
		return resp.Error("ERR rate limit exceeded"), nil
	}

	switch strings.ToLower(cmd.Name) {
	case "ping":
		return replyPong, nil
	case "echo":
		return h.handleEcho(cmd)
	case "set":
		return h.handleSet(ctx, cmd)
	case "get":
		return h.handleGet(cmd)
	default:
		return resp.Error("command not implemented: " + sanitizeErrorText(cmd.Name)), nil
	}
}

func (h *CommandHandler) handleEcho(cmd resp.Command) (resp.Value, error) {
	if len(cmd.Args) < 1 {
		return resp.Value{}, fmt.Errorf("%w: ECHO requires a message", ErrInvalidArgument)
	}
	return cmd.Args[0], nil
}

// handleSet stores key/value. A third argument equal to PX (any case) must
// be followed by a millisecond TTL; any other option is ignored. When the
// TTL is missing or malformed the value is still stored without expiry and
// ErrInvalidArgument ends the connection.
func (h *CommandHandler) handleSet(ctx context.Context, cmd resp.Command) (resp.Value, error) {
	key, ok := cmd.Arg(0)
	if !ok {
		return resp.Value{}, fmt.Errorf("%w: SET requires a key", ErrInvalidArgument)
	}
	value, ok := cmd.Arg(1)
	if !ok {
		return resp.Value{}, fmt.Errorf("%w: SET requires a value", ErrInvalidArgument)
	}

	if opt, ok := cmd.Arg(2); ok && strings.EqualFold(opt, "PX") {
		raw, ok := cmd.Arg(3)
		if !ok {
			h.store.Set(key, value)
			return resp.Value{}, fmt.Errorf("%w: PX requires milliseconds", ErrInvalidArgument)
		}
		ms, err := parseMillis(raw)
		if err != nil {
			h.store.Set(key, value)
			return resp.Value{}, fmt.Errorf("%w: invalid PX value %q", ErrInvalidArgument, logger.Truncate(raw, 32))
		}

		ttl := millisToDuration(ms)
		h.store.SetWithExpiry(key, value, ttl)
		logger.L(ctx).Debug("set with expiry", "key", key, "ttl", ttl)
		return replyOK, nil
	}

	h.store.Set(key, value)
	return replyOK, nil
}

func (h *CommandHandler) handleGet(cmd resp.Command) (resp.Value, error) {
	key, ok := cmd.Arg(0)
	if !ok {
		return resp.Value{}, fmt.Errorf("%w: GET requires a key", ErrInvalidArgument)
	}
	if v, found := h.store.Get(key); found {
		return resp.BulkString(v), nil
	}
	return resp.Null(), nil
}

// parseMillis parses an unsigned decimal TTL. One leading '+' is accepted.
func parseMillis(raw string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(raw, "+"), 10, 64)
}

// millisToDuration converts ms to a Duration, saturating at the largest
// representable value.
func millisToDuration(ms uint64) time.Duration {
	if ms > uint64(math.MaxInt64/int64(time.Millisecond)) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ms) * time.Millisecond
}

// sanitizeErrorText replaces CR and LF so the text fits in an error line.
func sanitizeErrorText(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// commandLabel maps a command to a bounded metric label.
func commandLabel(cmd resp.Command) string {
	name := strings.ToLower(cmd.Name)
	switch name {
	case "ping", "echo", "set", "get":
		return name
	default:
		return "unknown"
	}
}
