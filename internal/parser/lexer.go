package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// statement is one logical SOSI line: a dot-prefixed keyword with its value
// and any following lines that carry no dots of their own.
//
//	..NØ               level=2 key="NØ" value=""
//	664591976 25367399 continuation line
type statement struct {
	level int
	key   string
	value string
	lines []string // continuation lines, trimmed
	line  int      // physical line number of the keyword
}

// lexer splits a byte stream into statements. It reads one statement ahead
// so that continuation lines can be attached before a statement is returned.
type lexer struct {
	br       *bufio.Reader
	dec      *lineDecoder
	consumed int64 // bytes taken from br, including a discarded BOM
	lineNo   int
	pending  *statement
	eof      bool
	buf      []byte
}

func newLexer(br *bufio.Reader, dec *lineDecoder) *lexer {
	return &lexer{br: br, dec: dec}
}

// next returns the next statement, or io.EOF once the source is exhausted.
func (l *lexer) next() (*statement, error) {
	for !l.eof {
		raw, err := l.readLine()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if errors.Is(err, io.EOF) {
			l.eof = true
			if len(raw) == 0 {
				break
			}
		}

		text := strings.TrimSpace(l.dec.decode(raw))
		if text == "" || text[0] == '!' {
			continue
		}

		if text[0] == '.' {
			st := parseStatement(text, l.lineNo)
			prev := l.pending
			l.pending = st
			if prev != nil {
				return prev, nil
			}
			continue
		}

		// Text before the first statement has nothing to attach to.
		if l.pending != nil {
			l.pending.lines = append(l.pending.lines, text)
		}
	}

	if l.pending != nil {
		st := l.pending
		l.pending = nil
		return st, nil
	}
	return nil, io.EOF
}

// readLine returns one physical line without its terminator. Lines longer
// than the reader's buffer are accumulated.
func (l *lexer) readLine() ([]byte, error) {
	l.buf = l.buf[:0]
	for {
		chunk, err := l.br.ReadSlice('\n')
		l.consumed += int64(len(chunk))
		l.buf = append(l.buf, chunk...)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		l.lineNo++
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("line %d: %w", l.lineNo, err)
		}
		return bytes.TrimRight(l.buf, "\r\n"), err
	}
}

// parseStatement splits a dot-prefixed line into level, key and value.
func parseStatement(text string, lineNo int) *statement {
	level := 0
	for level < len(text) && text[level] == '.' {
		level++
	}
	rest := strings.TrimSpace(text[level:])

	key, value := rest, ""
	if i := strings.IndexAny(rest, " \t"); i >= 0 {
		key = rest[:i]
		value = strings.TrimSpace(rest[i+1:])
	}

	return &statement{
		level: level,
		key:   key,
		value: value,
		line:  lineNo,
	}
}
