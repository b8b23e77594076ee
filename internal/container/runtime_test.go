// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool
	runnableCmds  map[string]bool
	runPipedFunc  func(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunPiped(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if m.runPipedFunc != nil {
		return m.runPipedFunc(name, args, stdin, stdout, stderr)
	}
	return nil
}

func TestSelectRuntime(t *testing.T) {
	bothUp := &mockExecutor{
		availableBins: map[string]bool{"docker": true, "podman": true},
		runnableCmds:  map[string]bool{"docker info": true, "podman info": true},
	}
	onlyPodman := &mockExecutor{
		availableBins: map[string]bool{"docker": true, "podman": true},
		runnableCmds:  map[string]bool{"podman info": true},
	}
	none := &mockExecutor{}

	tests := []struct {
		name     string
		exec     *mockExecutor
		choice   string
		wantName string
		wantErr  string
	}{
		{name: "auto prefers docker", exec: bothUp, choice: "auto", wantName: "docker"},
		{name: "empty means auto", exec: bothUp, choice: "", wantName: "docker"},
		{name: "auto falls back to podman", exec: onlyPodman, choice: "auto", wantName: "podman"},
		{name: "explicit podman", exec: bothUp, choice: "Podman", wantName: "podman"},
		{name: "explicit docker not operational", exec: onlyPodman, choice: "docker", wantErr: "docker not found"},
		{name: "nothing available", exec: none, choice: "auto", wantErr: "no container runtime available"},
		{name: "unknown runtime", exec: bothUp, choice: "lxc", wantErr: "unknown container runtime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := selectRuntime(tt.exec, tt.choice)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, rt.Name())
		})
	}
}

func TestImageExists(t *testing.T) {
	tests := []struct {
		name    string
		mkRT    func(*mockExecutor) Runtime
		cmds    map[string]bool
		wantErr bool
	}{
		{
			name: "docker image exists",
			mkRT: func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			cmds: map[string]bool{"docker image inspect markitdown:latest": true},
		},
		{
			name:    "docker image not found",
			mkRT:    func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			wantErr: true,
		},
		{
			name: "podman image exists",
			mkRT: func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			cmds: map[string]bool{"podman image exists markitdown:latest": true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := tt.mkRT(&mockExecutor{runnableCmds: tt.cmds})
			err := rt.ImageExists("markitdown:latest")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "markitdown:latest")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRun(t *testing.T) {
	t.Run("pipes stdin to stdout without network", func(t *testing.T) {
		exec := &mockExecutor{runPipedFunc: func(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
			assert.Equal(t, "docker", name)
			assert.Equal(t, []string{"run", "--rm", "-i", "--network", "none", "markitdown:latest"}, args)
			data, _ := io.ReadAll(stdin)
			_, _ = stdout.Write([]byte("# " + string(data)))
			return nil
		}}
		var out bytes.Buffer
		err := newDockerRuntime(exec).Run("markitdown:latest", strings.NewReader("report"), &out)
		require.NoError(t, err)
		assert.Equal(t, "# report", out.String())
	})

	t.Run("failure includes container stderr", func(t *testing.T) {
		exec := &mockExecutor{runPipedFunc: func(_ string, _ []string, _ io.Reader, _, stderr io.Writer) error {
			_, _ = stderr.Write([]byte("unsupported file\n"))
			return errors.New("exit status 1")
		}}
		err := newPodmanRuntime(exec).Run("markitdown:latest", strings.NewReader(""), io.Discard)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "podman")
		assert.Contains(t, err.Error(), "unsupported file")
	})
}
