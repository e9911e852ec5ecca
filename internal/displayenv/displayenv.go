// Package displayenv finds the X display and authority file for processes
// started outside a graphical session, such as from a systemd user unit.
package displayenv

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// X11SocketDir holds one X<n> socket per running local display.
const X11SocketDir = "/tmp/.X11-unix"

var (
	runCommandOutputFn = runCommandOutput
	readFileFn         = os.ReadFile
	readDirFn          = os.ReadDir
	sessionEnvFn       = sessionEnv
	socketDisplayFn    = newestSocketDisplay
)

// Origin names where a resolved value came from.
type Origin string

const (
	OriginEnv     Origin = "environment"
	OriginConfig  Origin = "config"
	OriginSession Origin = "login session"
	OriginSocket  Origin = "X socket"
	OriginHome    Origin = "home directory"
)

// Settings are the X connection variables. The origins are empty for unset
// values.
type Settings struct {
	Display    string
	XAuthority string

	DisplayOrigin    Origin
	XAuthorityOrigin Origin
}

func (s *Settings) offer(display, xauthority string, from Origin) {
	if d := strings.TrimSpace(display); s.Display == "" && d != "" {
		s.Display, s.DisplayOrigin = d, from
	}
	if x := strings.TrimSpace(xauthority); s.XAuthority == "" && x != "" {
		s.XAuthority, s.XAuthorityOrigin = x, from
	}
}

func (s *Settings) complete() bool {
	return s.Display != "" && s.XAuthority != ""
}

// Resolve fills in DISPLAY and XAUTHORITY. Each variable takes the first
// value found in env, configured, the user's login session, the newest X
// socket (display only) and ~/.Xauthority (authority only).
func Resolve(env []string, configured Settings) (Settings, error) {
	vars := parseEnviron(env)

	var s Settings
	s.offer(vars["DISPLAY"], vars["XAUTHORITY"], OriginEnv)
	s.offer(configured.Display, configured.XAuthority, OriginConfig)
	if !s.complete() {
		s.offer(sessionEnvFn())
	}
	if s.Display == "" {
		s.offer(socketDisplayFn(X11SocketDir), "", OriginSocket)
	}
	if s.Display == "" {
		return Settings{}, errors.New("no X display found; set display in config (e.g. display: \":1\") or export DISPLAY")
	}
	if s.XAuthority == "" {
		s.offer("", homeXAuthority(vars["HOME"]), OriginHome)
	}
	return s, nil
}

// Apply exports s into the process environment.
func Apply(s Settings) error {
	if err := os.Setenv("DISPLAY", s.Display); err != nil {
		return err
	}
	if s.XAuthority == "" {
		return nil
	}
	return os.Setenv("XAUTHORITY", s.XAuthority)
}

func homeXAuthority(home string) string {
	if strings.TrimSpace(home) == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	candidate := filepath.Join(home, ".Xauthority")
	if _, err := os.Stat(candidate); err != nil {
		return ""
	}
	return candidate
}

func runCommandOutput(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	return string(out), err
}

// sessionEnv asks logind for the first graphical session of the current
// user. The session leader's environment is preferred over the Display
// property since it also carries XAUTHORITY.
func sessionEnv() (display, xauthority string, from Origin) {
	out, err := runCommandOutputFn("loginctl", "list-sessions", "--no-legend")
	if err != nil {
		return "", "", OriginSession
	}
	for _, id := range parseLoginctlSessions(out, strconv.Itoa(os.Getuid())) {
		display = sessionProperty(id, "Display")
		if display == "" || strings.EqualFold(display, "n/a") {
			continue
		}
		if leader := sessionProperty(id, "Leader"); leader != "" && leader != "0" {
			if vars, err := readProcEnviron(leader); err == nil {
				if d := strings.TrimSpace(vars["DISPLAY"]); d != "" {
					display = d
				}
				xauthority = vars["XAUTHORITY"]
			}
		}
		return display, xauthority, OriginSession
	}
	return "", "", OriginSession
}

// parseLoginctlSessions returns the session IDs owned by uid from
// `loginctl list-sessions --no-legend` output.
func parseLoginctlSessions(output, uid string) []string {
	var ids []string
	for _, line := range strings.Split(output, "\n") {
		if f := strings.Fields(line); len(f) >= 2 && f[1] == uid {
			ids = append(ids, f[0])
		}
	}
	return ids
}

func sessionProperty(id, prop string) string {
	out, err := runCommandOutputFn("loginctl", "show-session", id, "-p", prop, "--value")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func readProcEnviron(pid string) (map[string]string, error) {
	data, err := readFileFn(filepath.Join("/proc", pid, "environ"))
	if err != nil {
		return nil, err
	}
	return parseEnviron(strings.Split(string(data), "\x00")), nil
}

// parseEnviron maps KEY=value entries. Entries without '=' are dropped.
func parseEnviron(entries []string) map[string]string {
	vars := make(map[string]string, len(entries))
	for _, e := range entries {
		if k, v, ok := strings.Cut(e, "="); ok {
			vars[k] = v
		}
	}
	return vars
}

// newestSocketDisplay returns ":<n>" for the highest numbered X<n> socket in
// dir, or "" when there is none.
func newestSocketDisplay(dir string) string {
	entries, err := readDirFn(dir)
	if err != nil {
		return ""
	}
	best := -1
	for _, entry := range entries {
		num, ok := strings.CutPrefix(entry.Name(), "X")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(num); err == nil && n > best {
			best = n
		}
	}
	if best < 0 {
		return ""
	}
	return fmt.Sprintf(":%d", best)
}
