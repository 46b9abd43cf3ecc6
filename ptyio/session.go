// Package ptyio spawns and manages the login shell's pseudo-terminal:
// the concrete PtyReader/PtyWriter collaborator named in spec §6. Reads
// are non-blocking (the fd is put in O_NONBLOCK mode) so ioloop's
// single-threaded Tick can poll it without stalling; writes retry on
// partial completion rather than aborting, per spec §9's recommended
// divergence from the C original.
package ptyio

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"os/user"
	"strings"
	"sync"
	"syscall"

	"github.com/creack/pty"

	"driftwoodterm/core/config"
)

// Session manages a pseudo-terminal connection to a login shell.
type Session struct {
	cmd *exec.Cmd
	pty *os.File

	mu sync.Mutex

	exitedMu sync.Mutex
	exited   bool
}

// New spawns a login shell over a pty sized cols x rows.
func New(cfg *config.Config, cols, rows uint16) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	shellPath := findShell(cfg)

	currentUser, err := user.Current()
	if err != nil {
		return nil, err
	}

	shellBase := shellPath
	if idx := strings.LastIndex(shellPath, "/"); idx >= 0 {
		shellBase = shellPath[idx+1:]
	}

	cmd := buildShellCommand(shellPath, shellBase, cfg.Shell.SourceRC)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	cmd.Env = buildEnv(currentUser, shellPath, cfg)
	cmd.Dir = currentUser.HomeDir

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: cols, Rows: rows})
	if err != nil {
		return nil, err
	}
	if err := setNonblock(ptmx); err != nil {
		ptmx.Close()
		cmd.Process.Kill()
		return nil, err
	}

	s := &Session{cmd: cmd, pty: ptmx}

	go func() {
		cmd.Wait()
		s.exitedMu.Lock()
		s.exited = true
		s.exitedMu.Unlock()
	}()

	return s, nil
}

func buildShellCommand(shellPath, shellBase string, sourceRC bool) *exec.Cmd {
	if sourceRC {
		switch shellBase {
		case "bash":
			return exec.Command(shellPath, "-i")
		case "zsh":
			return exec.Command(shellPath, "-i")
		case "fish":
			return exec.Command(shellPath, "-i")
		default:
			return exec.Command(shellPath, "-i")
		}
	}
	switch shellBase {
	case "bash":
		return exec.Command(shellPath, "--noprofile", "--norc", "-i")
	case "zsh":
		return exec.Command(shellPath, "--no-rcs", "-i")
	case "fish":
		return exec.Command(shellPath, "--no-config", "-i")
	default:
		return exec.Command(shellPath, "-i")
	}
}

func buildEnv(u *user.User, shellPath string, cfg *config.Config) []string {
	xdgRuntimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if xdgRuntimeDir == "" {
		xdgRuntimeDir = "/run/user/" + u.Uid
	}

	env := []string{
		"PATH=/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin:" + os.Getenv("PATH"),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
		"DRIFTTERM=1",
		"HOME=" + u.HomeDir,
		"USER=" + u.Username,
		"SHELL=" + shellPath,
		"LANG=en_US.UTF-8",
		"LC_ALL=en_US.UTF-8",
		"XDG_RUNTIME_DIR=" + xdgRuntimeDir,
	}

	if display := os.Getenv("DISPLAY"); display != "" {
		env = append(env, "DISPLAY="+display)
	}
	if wayland := os.Getenv("WAYLAND_DISPLAY"); wayland != "" {
		env = append(env, "WAYLAND_DISPLAY="+wayland, "XDG_SESSION_TYPE=wayland")
	}

	for k, v := range cfg.Shell.AdditionalEnv {
		env = append(env, k+"="+v)
	}

	return env
}

// findShell resolves the login shell: a configured path, then
// /etc/passwd, then common fallbacks.
func findShell(cfg *config.Config) string {
	if cfg.Shell.Path != "" {
		if _, err := os.Stat(cfg.Shell.Path); err == nil {
			return cfg.Shell.Path
		}
	}

	if currentUser, err := user.Current(); err == nil {
		if shell := shellFromPasswd(currentUser.Username); shell != "" {
			if _, err := os.Stat(shell); err == nil {
				return shell
			}
		}
	}

	for _, shell := range []string{"/bin/bash", "/usr/bin/bash", "/bin/zsh", "/usr/bin/zsh", "/bin/sh"} {
		if _, err := os.Stat(shell); err == nil {
			return shell
		}
	}
	return "/bin/sh"
}

func shellFromPasswd(username string) string {
	data, err := os.ReadFile("/etc/passwd")
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Split(line, ":")
		if len(fields) >= 7 && fields[0] == username {
			return fields[6]
		}
	}
	return ""
}

func setNonblock(f *os.File) error {
	return syscall.SetNonblock(int(f.Fd()), true)
}

// Read reads available output. When the pty has no data buffered it
// returns (0, nil) rather than blocking, so ioloop's Tick can poll it
// alongside window events.
func (s *Session) Read(buf []byte) (int, error) {
	n, err := s.pty.Read(buf)
	if err != nil && errors.Is(err, syscall.EAGAIN) {
		return 0, nil
	}
	return n, err
}

// Write writes data to the pty, retrying on a short write instead of
// returning early (spec §9's recommended divergence from the C
// original, which drops the remainder of a keystroke on a full buffer).
func (s *Session) Write(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for total < len(data) {
		n, err := s.pty.Write(data[total:])
		total += n
		if err != nil {
			if errors.Is(err, syscall.EAGAIN) {
				continue
			}
			return total, err
		}
	}
	return total, nil
}

// SetWindowSize resizes the pty.
func (s *Session) SetWindowSize(cols, rows uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pty.Setsize(s.pty, &pty.Winsize{Cols: cols, Rows: rows})
}

// HasExited reports whether the shell process has exited.
func (s *Session) HasExited() bool {
	s.exitedMu.Lock()
	defer s.exitedMu.Unlock()
	return s.exited
}

// Close terminates the shell and releases the pty.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	return s.pty.Close()
}

// Reader returns the underlying pty as an io.Reader, for callers that
// want blocking semantics (e.g. copying to a log file).
func (s *Session) Reader() io.Reader {
	return s.pty
}
