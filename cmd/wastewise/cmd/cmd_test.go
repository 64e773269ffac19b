package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/nfrund/wastewise/internal/credentials"
	"github.com/nfrund/wastewise/internal/domain"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCredentialsPath = "/home/ada/.config/wastewise/credentials.json"

// fakeBackend stands in for the waste-management service.
type fakeBackend struct {
	mu     sync.Mutex
	hits   map[string]int
	bodies map[string][]byte
	routes map[string]http.HandlerFunc
}

func (fb *fakeBackend) reply(method, path string, status int, body any) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.routes[method+" "+path] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}
}

func (fb *fakeBackend) count(method, path string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.hits[method+" "+path]
}

func (fb *fakeBackend) body(method, path string) []byte {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.bodies[method+" "+path]
}

func (fb *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	body, _ := io.ReadAll(r.Body)
	fb.mu.Lock()
	fb.hits[key]++
	fb.bodies[key] = body
	h, ok := fb.routes[key]
	fb.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

// cli runs commands against a fake backend and an in-memory credentials file.
type cli struct {
	t       *testing.T
	backend *fakeBackend
	url     string
	store   *credentials.FileStore
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	fb := &fakeBackend{hits: map[string]int{}, bodies: map[string][]byte{}, routes: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	memFS := afero.NewMemMapFs()
	prev := fs
	fs = memFS
	t.Cleanup(func() { fs = prev })

	return &cli{t: t, backend: fb, url: srv.URL, store: credentials.NewFileStore(memFS, testCredentialsPath)}
}

// run executes one command line and returns its stdout.
func (c *cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append(args, "--backend", c.url, "--credentials", testCredentialsPath))

	err := rootCmd.Execute()
	return out.String(), err
}

func (c *cli) seed(role, status string) {
	c.t.Helper()
	require.NoError(c.t, c.store.Set(context.Background(), domain.Credential{
		Token: "tok-" + role,
		User:  domain.Profile{Name: "Ada", Email: "ada@example.com", Role: domain.Role(role), AccountStatus: domain.AccountStatus(status)},
	}))
}

func (c *cli) token() string {
	cred, _ := c.store.Get(context.Background())
	return cred.Token
}

// resetFlags restores every flag to its default so runs do not leak into
// each other through the package-level command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func user(role, status string) map[string]any {
	return map[string]any{
		"name":          "Ada",
		"email":         "ada@example.com",
		"role":          role,
		"accountStatus": status,
		"paymentStatus": "PAID",
	}
}

func TestVersion(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("", "version")
	require.NoError(t, err)
	assert.Equal(t, "wastewise v"+version+"\n", out)
}

func TestUnknownFormat(t *testing.T) {
	c := newCLI(t)
	c.seed("USER", "APPROVED")

	_, err := c.run("", "dashboard", "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
	assert.Equal(t, 0, c.backend.count(http.MethodGet, "/api/dashboard"))
}
