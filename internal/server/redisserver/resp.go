package redisserver

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Protocol limits.
const (
	// MaxArrayLen limits the number of elements in a RESP array.
	MaxArrayLen = 1024

	// MaxBulkLen limits the size of a single bulk string (512KB).
	MaxBulkLen = 512 * 1024

	// MaxInlineLen limits an inline command line (4KB).
	MaxInlineLen = 4 * 1024

	// maxHeaderLen bounds "*<n>", "$<n>" and ":<n>" lines.
	maxHeaderLen = 32
)

var (
	ErrProtocol      = errors.New("resp: protocol error")
	ErrLimitExceeded = errors.New("resp: limit exceeded")
)

var crlf = []byte("\r\n")

// Reader decodes RESP2 commands and replies.
type Reader struct {
	br *bufio.Reader
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// Wait blocks until at least one byte is buffered.
func (r *Reader) Wait() error {
	_, err := r.br.Peek(1)
	return err
}

// ReadCommand reads one client command, either a RESP array of bulk
// strings or an inline command. An empty command yields a nil slice.
func (r *Reader) ReadCommand() ([]string, error) {
	b, err := r.br.Peek(1)
	if err != nil {
		return nil, err
	}
	if b[0] != '*' {
		return r.readInline()
	}

	n, err := r.readHeader('*')
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	if n > MaxArrayLen {
		return nil, fmt.Errorf("%w: array length %d exceeds limit %d", ErrLimitExceeded, n, MaxArrayLen)
	}

	args := make([]string, 0, n)
	for range n {
		s, _, err := r.readBulk()
		if err != nil {
			return nil, err
		}
		args = append(args, s)
	}
	return args, nil
}

func (r *Reader) readInline() ([]string, error) {
	line, err := r.readLine(MaxInlineLen)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}

func (r *Reader) readHeader(prefix byte) (int, error) {
	line, err := r.readLine(maxHeaderLen)
	if err != nil {
		return 0, err
	}
	if len(line) < 2 || line[0] != prefix {
		return 0, fmt.Errorf("%w: expected '%c'", ErrProtocol, prefix)
	}
	n, err := strconv.Atoi(line[1:])
	if err != nil {
		return 0, fmt.Errorf("%w: invalid length", ErrProtocol)
	}
	return n, nil
}

// readBulk reads "$<n>\r\n<data>\r\n". A "$-1" null bulk returns null=true.
func (r *Reader) readBulk() (s string, null bool, err error) {
	n, err := r.readHeader('$')
	if err != nil {
		return "", false, err
	}
	switch {
	case n == -1:
		return "", true, nil
	case n < 0:
		return "", false, fmt.Errorf("%w: invalid bulk length", ErrProtocol)
	case n > MaxBulkLen:
		return "", false, fmt.Errorf("%w: bulk length %d exceeds limit %d", ErrLimitExceeded, n, MaxBulkLen)
	}

	buf := make([]byte, n+2)
	if _, err := io.ReadFull(r.br, buf); err != nil {
		return "", false, err
	}
	if !bytes.HasSuffix(buf, crlf) {
		return "", false, fmt.Errorf("%w: invalid bulk terminator", ErrProtocol)
	}
	return string(buf[:n]), false, nil
}

func (r *Reader) readLine(maxLen int) (string, error) {
	var buf []byte
	for {
		frag, err := r.br.ReadSlice('\n')
		buf = append(buf, frag...)
		if len(buf) > maxLen+2 {
			return "", fmt.Errorf("%w: line length exceeds limit %d", ErrLimitExceeded, maxLen)
		}
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return "", err
	}
	if !bytes.HasSuffix(buf, crlf) {
		return "", fmt.Errorf("%w: missing CRLF", ErrProtocol)
	}
	return string(buf[:len(buf)-2]), nil
}

// ReplyKind identifies the RESP2 reply type.
type ReplyKind byte

// Reply kinds, named after their RESP2 prefix.
const (
	KindStatus  ReplyKind = '+'
	KindError   ReplyKind = '-'
	KindInteger ReplyKind = ':'
	KindBulk    ReplyKind = '$'
	KindArray   ReplyKind = '*'
)

// Reply is a decoded server reply.
type Reply struct {
	Kind  ReplyKind
	Str   string
	Int   int64
	Null  bool
	Array []Reply
}

// Err returns the reply as an error when it is an error reply.
func (rp Reply) Err() error {
	if rp.Kind != KindError {
		return nil
	}
	return &ReplyError{Message: rp.Str}
}

// ReplyError is an error reply sent by the server.
type ReplyError struct {
	Message string
}

func (e *ReplyError) Error() string {
	return e.Message
}

// ReadReply reads one server reply.
func (r *Reader) ReadReply() (Reply, error) {
	b, err := r.br.Peek(1)
	if err != nil {
		return Reply{}, err
	}

	kind := ReplyKind(b[0])
	switch kind {
	case KindStatus, KindError:
		line, err := r.readLine(MaxInlineLen)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Kind: kind, Str: line[1:]}, nil

	case KindInteger:
		line, err := r.readLine(maxHeaderLen)
		if err != nil {
			return Reply{}, err
		}
		n, err := strconv.ParseInt(line[1:], 10, 64)
		if err != nil {
			return Reply{}, fmt.Errorf("%w: invalid integer", ErrProtocol)
		}
		return Reply{Kind: kind, Int: n}, nil

	case KindBulk:
		s, null, err := r.readBulk()
		if err != nil {
			return Reply{}, err
		}
		return Reply{Kind: kind, Str: s, Null: null}, nil

	case KindArray:
		n, err := r.readHeader('*')
		if err != nil {
			return Reply{}, err
		}
		if n < 0 {
			return Reply{Kind: kind, Null: true}, nil
		}
		if n > MaxArrayLen {
			return Reply{}, fmt.Errorf("%w: array length %d exceeds limit %d", ErrLimitExceeded, n, MaxArrayLen)
		}
		items := make([]Reply, 0, n)
		for range n {
			item, err := r.ReadReply()
			if err != nil {
				return Reply{}, err
			}
			items = append(items, item)
		}
		return Reply{Kind: kind, Array: items}, nil
	}

	return Reply{}, fmt.Errorf("%w: unexpected reply prefix %q", ErrProtocol, b[0])
}

// Writer encodes RESP2 replies and commands. Writes are buffered until Flush.
type Writer struct {
	bw *bufio.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

func (w *Writer) line(prefix byte, s string) error {
	if err := w.bw.WriteByte(prefix); err != nil {
		return err
	}
	if _, err := w.bw.WriteString(s); err != nil {
		return err
	}
	_, err := w.bw.Write(crlf)
	return err
}

// Status writes "+s".
func (w *Writer) Status(s string) error {
	return w.line('+', s)
}

// Error writes "-s". CR and LF in s are replaced by spaces.
func (w *Writer) Error(s string) error {
	return w.line('-', strings.NewReplacer("\r", " ", "\n", " ").Replace(s))
}

// Integer writes ":n".
func (w *Writer) Integer(n int64) error {
	return w.line(':', strconv.FormatInt(n, 10))
}

// Null writes a null bulk string.
func (w *Writer) Null() error {
	return w.line('$', "-1")
}

// Bulk writes s as a bulk string.
func (w *Writer) Bulk(s string) error {
	if err := w.line('$', strconv.Itoa(len(s))); err != nil {
		return err
	}
	if _, err := w.bw.WriteString(s); err != nil {
		return err
	}
	_, err := w.bw.Write(crlf)
	return err
}

// ArrayHeader writes "*n".
func (w *Writer) ArrayHeader(n int) error {
	return w.line('*', strconv.Itoa(n))
}

// Strings writes an array of bulk strings.
func (w *Writer) Strings(items []string) error {
	if err := w.ArrayHeader(len(items)); err != nil {
		return err
	}
	for _, s := range items {
		if err := w.Bulk(s); err != nil {
			return err
		}
	}
	return nil
}

// Command writes a client command as an array of bulk strings.
func (w *Writer) Command(args ...string) error {
	return w.Strings(args)
}
