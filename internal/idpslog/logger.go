// Package idpslog implements the structured IDPS log sink named in
// spec.md §6: timestamp/file/line/message records, switchable between
// file, console, both, or none, plus an optional pcap mirror of rejected
// frames for offline analysis.
package idpslog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// Mode selects where IDPS log records are written.
type Mode int

const (
	ModeNone Mode = iota
	ModeFile
	ModeConsole
	ModeBoth
)

// Logger writes one line per rejected frame: timestamp, caller file/line,
// and a message, and optionally mirrors the raw frame into a pcap file.
type Logger struct {
	out       io.Writer
	pcapW     *pcapgo.Writer
	pcapClose func() error
}

// New builds a Logger for mode, optionally writing rejected-frame records
// to filePath (used when mode is ModeFile or ModeBoth).
func New(mode Mode, filePath string) (*Logger, error) {
	var writers []io.Writer
	var closer func() error

	if mode == ModeFile || mode == ModeBoth {
		if filePath == "" {
			filePath = "idps.log"
		}
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil && filepath.Dir(filePath) != "." {
			return nil, err
		}
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		writers = append(writers, f)
		closer = f.Close
	}
	if mode == ModeConsole || mode == ModeBoth {
		writers = append(writers, os.Stdout)
	}

	var out io.Writer = io.Discard
	if len(writers) == 1 {
		out = writers[0]
	} else if len(writers) > 1 {
		out = io.MultiWriter(writers...)
	}

	l := &Logger{out: out, pcapClose: closer}
	return l, nil
}

// EnablePcapMirror opens path for writing an Ethernet-linktype pcap file
// that Reject mirrors its frame into.
func (l *Logger) EnablePcapMirror(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(65536, layers.LinkTypeEthernet); err != nil {
		f.Close()
		return err
	}
	prevClose := l.pcapClose
	l.pcapClose = func() error {
		if prevClose != nil {
			prevClose()
		}
		return f.Close()
	}
	l.pcapW = w
	return nil
}

// Reject records a rejected frame: timestamp, caller location, message,
// and (if a pcap mirror is enabled) the frame itself.
func (l *Logger) Reject(message string, frame []byte) {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file, line = "unknown", 0
	}
	fmt.Fprintf(l.out, "%s %s:%d %s\n", time.Now().UTC().Format(time.RFC3339Nano), filepath.Base(file), line, message)

	if l.pcapW != nil {
		_ = l.pcapW.WritePacket(gopacket.CaptureInfo{
			Timestamp:     time.Now(),
			CaptureLength: len(frame),
			Length:        len(frame),
		}, frame)
	}
}

// Close releases any open file handles.
func (l *Logger) Close() error {
	if l.pcapClose != nil {
		return l.pcapClose()
	}
	return nil
}

