package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Platform is the operating system notification surface.
type Platform interface {
	Permission() Permission
	RequestPermission() (Permission, error)
	Show(title, body string, sound bool) error
}

type NoopPlatform struct{}

func (NoopPlatform) Permission() Permission                 { return PermissionDenied }
func (NoopPlatform) RequestPermission() (Permission, error) { return PermissionDenied, nil }
func (NoopPlatform) Show(string, string, bool) error        { return nil }

// ExecPlatform shells out to notify-send on Linux and osascript on macOS.
// Permission is granted once the helper binary is found on PATH.
type ExecPlatform struct {
	mu       sync.Mutex
	perm     Permission
	lookPath func(string) (string, error)
	run      func(name string, args ...string) error
}

func NewExecPlatform() *ExecPlatform {
	return &ExecPlatform{
		perm:     PermissionDefault,
		lookPath: exec.LookPath,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

func (p *ExecPlatform) Permission() Permission {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.perm
}

func (p *ExecPlatform) RequestPermission() (Permission, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.perm != PermissionDefault {
		return p.perm, nil
	}
	bin := helperBinary()
	if bin == "" {
		p.perm = PermissionDenied
		return p.perm, nil
	}
	if _, err := p.lookPath(bin); err != nil {
		p.perm = PermissionDenied
		return p.perm, fmt.Errorf("notify: %s not available: %w", bin, err)
	}
	p.perm = PermissionGranted
	return p.perm, nil
}

func (p *ExecPlatform) Show(title, body string, sound bool) error {
	switch runtime.GOOS {
	case "linux":
		args := []string{title, body}
		if sound {
			args = append([]string{"-h", "string:sound-name:message-new-instant"}, args...)
		}
		return p.run("notify-send", args...)
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(body), escapeAppleScript(title))
		if sound {
			script += ` sound name "Glass"`
		}
		return p.run("osascript", "-e", script)
	default:
		return nil
	}
}

func helperBinary() string {
	switch runtime.GOOS {
	case "linux":
		return "notify-send"
	case "darwin":
		return "osascript"
	default:
		return ""
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
