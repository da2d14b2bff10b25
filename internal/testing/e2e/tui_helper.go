package e2e

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

// WatchSession runs the watch screen of a binary inside a pseudo terminal.
type WatchSession struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	cancel context.CancelFunc

	mu     sync.RWMutex
	output bytes.Buffer
	done   chan struct{}
}

// WatchConfig describes the process to start.
type WatchConfig struct {
	Binary string
	Args   []string
	Env    []string

	Rows, Cols uint16
	Timeout    time.Duration
}

// StartWatch starts the process with a pseudo terminal as its stdio.
func StartWatch(config WatchConfig) (*WatchSession, error) {
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	if config.Rows == 0 {
		config.Rows = 40
	}
	if config.Cols == 0 {
		config.Cols = 120
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	cmd := exec.CommandContext(ctx, config.Binary, config.Args...)
	cmd.Env = append(os.Environ(), config.Env...)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: config.Rows, Cols: config.Cols})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	s := &WatchSession{cmd: cmd, ptmx: ptmx, cancel: cancel, done: make(chan struct{})}
	go s.capture()
	return s, nil
}

func (s *WatchSession) capture() {
	defer close(s.done)
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.mu.Lock()
			s.output.Write(buf[:n])
			s.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// SendKey writes one key press to the terminal.
func (s *WatchSession) SendKey(key byte) error {
	_, err := s.ptmx.Write([]byte{key})
	return err
}

// Output returns everything written so far, escape codes included.
func (s *WatchSession) Output() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.output.String()
}

// Screen returns the most recent frame as plain text.
func (s *WatchSession) Screen() string {
	return LastFrame(s.Output())
}

// WaitForScreen polls until the latest frame contains text.
func (s *WatchSession) WaitForScreen(text string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(s.Screen(), text) {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for %q, screen:\n%s", text, s.Screen())
}

// WaitForFrames polls until at least n frames were drawn.
func (s *WatchSession) WaitForFrames(n int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if FrameCount(s.Output()) >= n {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for %d frames", n)
}

// Quit presses q and waits for the process to exit.
func (s *WatchSession) Quit() error {
	defer s.cancel()
	if err := s.SendKey('q'); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		return err
	}
	err := s.cmd.Wait()
	s.ptmx.Close()
	<-s.done
	return err
}

// Kill stops the process without waiting for a clean exit.
func (s *WatchSession) Kill() {
	s.cancel()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.cmd.Wait()
	s.ptmx.Close()
}
